package fold

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{"lowercase needle", "Aspirin", "asp", true},
		{"uppercase needle", "Aspirin", "PIRIN", true},
		{"empty needle", "Aspirin", "", true},
		{"empty haystack", "", "a", false},
		{"missing", "Ibuprofen", "asp", false},
		{"sharp s does not fold to ss", "Straße", "STRASSE", false},
		{"sharp s matches itself", "Straße", "STRAßE", true},
		{"kelvin sign folds to k", "\u212Aetoprofen", "keto", true},
		{"greek sigma forms", "ΔΟΣΕΙΣ", "δοσεις", true},
		{"regex metacharacters are literal", "Co-codamol (8/500)", "(8/500)", true},
		{"dot is not a wildcard", "Aspirin", "a.p", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.s, tt.substr); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Aspirin", "aSPIRIN") {
		t.Error("expected case-insensitive equality")
	}
	if Equal("Aspirin", "Aspirin ") {
		t.Error("trailing space must not be ignored")
	}
}

func TestUpper(t *testing.T) {
	if got := Upper("Asprin tablets"); got != "ASPRIN TABLETS" {
		t.Errorf("Upper = %q", got)
	}
	// No Turkish dotted capital I without a language tag
	if got := Upper("i"); got != "I" {
		t.Errorf("Upper(i) = %q", got)
	}
}
