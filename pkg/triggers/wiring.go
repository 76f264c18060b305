// Package triggers maps the optional in/out/next trigger names onto the
// lifecycle verbs exposed by generated documents.
package triggers

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/binding"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

// Names holds the trigger property fired by each lifecycle verb. Empty names
// are unconfigured.
type Names struct {
	In   string `json:"in,omitempty"`
	Out  string `json:"out,omitempty"`
	Next string `json:"next,omitempty"`
}

// Normalize trims surrounding whitespace from every name.
func (n Names) Normalize() Names {
	return Names{
		In:   strings.TrimSpace(n.In),
		Out:  strings.TrimSpace(n.Out),
		Next: strings.TrimSpace(n.Next),
	}
}

// Unknown returns the configured names that are not trigger properties of s,
// in in/out/next order.
func (n Names) Unknown(s schema.Schema) []string {
	var out []string
	for _, name := range []string{n.In, n.Out, n.Next} {
		if name == "" {
			continue
		}
		prop, ok := s.Property(name)
		if !ok || prop.Type != schema.PropertyTrigger {
			out = append(out, name)
		}
	}
	return out
}

// Hooks holds the statement bodies of the lifecycle verbs.
type Hooks struct {
	Play   string
	Stop   string
	Next   string
	Remove string
}

// Wire builds the lifecycle hooks. play resumes playback before firing `in`;
// a configured `out` replaces the default halt on stop; next without a
// trigger is a no-op.
func Wire(names Names) Hooks {
	names = names.Normalize()

	hooks := Hooks{
		Play:   "resumePlayback();",
		Stop:   "haltPlayback();",
		Remove: "releaseRuntime();",
	}
	if names.In != "" {
		hooks.Play += " " + fire(names.In)
	}
	if names.Out != "" {
		hooks.Stop = fire(names.Out)
	}
	if names.Next != "" {
		hooks.Next = fire(names.Next)
	}
	return hooks
}

// Schedule returns the statements run by URL-driven documents once the
// runtime has loaded. It reads startMs, outAfterMs, clearAfterMs, trigIn and
// trigOut from the enclosing scope. Timers are fire-and-forget.
func Schedule() string {
	return strings.Join([]string{
		"setTimeout(function () {",
		"  resumePlayback();",
		"  if (trigIn) fireVmTrigger(trigIn);",
		"  if (!(outAfterMs > 0)) return;",
		"  setTimeout(function () {",
		"    if (trigOut) fireVmTrigger(trigOut); else haltPlayback();",
		"    if (!(clearAfterMs > 0)) return;",
		"    setTimeout(function () { releaseRuntime(); }, clearAfterMs);",
		"  }, outAfterMs);",
		"}, Math.max(0, startMs));",
	}, "\n")
}

func fire(name string) string {
	return fmt.Sprintf("fireVmTrigger(%s);", binding.Quote(name))
}
