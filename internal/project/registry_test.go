package project

import "testing"

func TestResolve(t *testing.T) {
	reg := Default()

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"known woojoosnt", "2fced264-4bae-8115-a01b-fd544ed8c038", "Woojoosnt"},
		{"known ark academy", "2fced264-4bae-8147-987f-d61e6171ba4c", "Ark Academy"},
		{"known oilyburger", "2fced264-4bae-810a-bb17-e03566a75c9b", "Oilyburger"},
		{"unknown id", "00000000-0000-0000-0000-000000000000", Fallback},
		{"empty id", "", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.Resolve(tt.id); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	if got := reg.Resolve("anything"); got != Fallback {
		t.Errorf("nil Registry.Resolve() = %q, want %q", got, Fallback)
	}
	if reg.Len() != 0 {
		t.Errorf("nil Registry.Len() = %d, want 0", reg.Len())
	}
}

func TestNewRegistryCopiesInput(t *testing.T) {
	names := map[string]string{"a": "Alpha"}
	reg := NewRegistry(names)
	names["a"] = "Changed"
	names["b"] = "Beta"

	if got := reg.Resolve("a"); got != "Alpha" {
		t.Errorf("Resolve(a) = %q, want Alpha", got)
	}
	if got := reg.Resolve("b"); got != Fallback {
		t.Errorf("Resolve(b) = %q, want %q", got, Fallback)
	}
}

func TestEmptyNameFallsBack(t *testing.T) {
	reg := NewRegistry(map[string]string{"blank": ""})
	if got := reg.Resolve("blank"); got != Fallback {
		t.Errorf("Resolve(blank) = %q, want %q", got, Fallback)
	}
}

func TestDefaultNamesIsCopy(t *testing.T) {
	names := DefaultNames()
	if len(names) != 3 {
		t.Fatalf("DefaultNames() has %d entries, want 3", len(names))
	}
	for id := range names {
		names[id] = "mutated"
	}
	if got := Default().Resolve("2fced264-4bae-8115-a01b-fd544ed8c038"); got != "Woojoosnt" {
		t.Errorf("Default() affected by DefaultNames mutation: %q", got)
	}
}
