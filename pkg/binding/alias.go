package binding

import (
	"sort"
	"strings"
)

// QueryPrefix marks query parameters that carry view-model values.
const QueryPrefix = "vm."

// Resolver maps internal property names to the external keys used at the
// protocol boundary. Aliases are declared as external key -> internal name.
type Resolver struct {
	reverse map[string]string
}

// NewResolver indexes an alias map. Blank keys and targets are ignored. When
// several aliases point at the same property the lexically smallest key wins.
func NewResolver(aliases map[string]string) Resolver {
	if len(aliases) == 0 {
		return Resolver{}
	}
	keys := make([]string, 0, len(aliases))
	for key := range aliases {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	reverse := make(map[string]string, len(aliases))
	for _, key := range keys {
		target := aliases[key]
		if strings.TrimSpace(key) == "" || strings.TrimSpace(target) == "" {
			continue
		}
		if _, taken := reverse[target]; taken {
			continue
		}
		reverse[target] = key
	}
	return Resolver{reverse: reverse}
}

// Key returns the external key for an internal property name, falling back
// to the name itself.
func (r Resolver) Key(name string) string {
	if key, ok := r.reverse[name]; ok {
		return key
	}
	return name
}

// QueryKey returns the query parameter that carries name.
func (r Resolver) QueryKey(name string) string {
	return QueryPrefix + r.Key(name)
}

// Aliased reports whether name is reached through an alias.
func (r Resolver) Aliased(name string) bool {
	_, ok := r.reverse[name]
	return ok
}
