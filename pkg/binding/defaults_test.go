package binding_test

import (
	"testing"

	"github.com/goliatone/go-rivegen/pkg/binding"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

func TestBindDefault(t *testing.T) {
	cases := []struct {
		prop schema.Property
		want string
		ok   bool
	}{
		{
			prop: schema.Property{Name: "Title", Type: schema.PropertyString, Value: "Hi"},
			want: `try { var it = accessor("string", "Title"); if (it) it.value = "Hi"; } catch (e) {}`,
			ok:   true,
		},
		{
			prop: schema.Property{Name: "Score", Type: schema.PropertyNumber, Value: 42.5},
			want: `try { var it = accessor("number", "Score"); if (it) it.value = 42.5; } catch (e) {}`,
			ok:   true,
		},
		{
			prop: schema.Property{Name: "Live", Type: schema.PropertyBoolean, Value: false},
			want: `try { var it = accessor("boolean", "Live"); if (it) it.value = false; } catch (e) {}`,
			ok:   true,
		},
		{
			prop: schema.Property{Name: "Accent", Type: schema.PropertyColor, Value: "#FF0000"},
			want: `try { var it = accessor("color", "Accent"); if (it) it.value = 4294901760; } catch (e) {}`,
			ok:   true,
		},
		{prop: schema.Property{Name: "Go", Type: schema.PropertyTrigger}, ok: false},
		{prop: schema.Property{Name: "Empty", Type: schema.PropertyString}, ok: false},
		{prop: schema.Property{Name: "Odd", Type: schema.PropertyNumber, Value: "12"}, ok: false},
	}
	for _, tc := range cases {
		got, ok := binding.BindDefault(tc.prop)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("BindDefault(%+v) = %q, %v; want %q, %v", tc.prop, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProbeDefault(t *testing.T) {
	got := binding.ProbeDefault("Extra", `say "hi"`)
	want := `probeAssign("Extra", "say \"hi\"");`
	if got != want {
		t.Fatalf("ProbeDefault = %q, want %q", got, want)
	}
}
