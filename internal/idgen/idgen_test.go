package idgen

import "testing"

func TestGenerate(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(id) != len(DefaultPrefix)+Length {
		t.Errorf("Generate() length = %d (id=%q)", len(id), id)
	}
	if !Valid(id) {
		t.Errorf("Valid(%q) = false", id)
	}
}

func TestGenerateUniqueness(t *testing.T) {
	const count = 5000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"ov-abcdefghij", true},
		{"ov-ABCDE12345", true},
		{"ov-abc", false},
		{"xx-abcdefghij", false},
		{"ov-abcde-ghij", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Valid(tt.id); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
