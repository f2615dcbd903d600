package users

import "testing"

func TestPasswordSetAndCompare(t *testing.T) {
	var p password

	if err := p.Set("Abcdef1!"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	if err := p.Compare("Abcdef1!"); err != nil {
		t.Errorf("expected matching password to compare clean: %v", err)
	}

	if err := p.Compare("Wrong1!!"); err == nil {
		t.Error("expected a mismatch error for the wrong password")
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"meets the policy", "Abcdef1!", true},
		{"exactly sixteen chars", "Abcdefghijklmn1!", true},
		{"no uppercase", "abcdef1!", false},
		{"no special char", "Abcdefgh1", false},
		{"too short", "Abc1!", false},
		{"too long", "Abcdefghijklmno1!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPassword(tt.text); got != tt.want {
				t.Errorf("ValidPassword(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
