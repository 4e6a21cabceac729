package nameutil

import "testing"

func TestFuzzyMatch(t *testing.T) {
	cases := []struct {
		target string
		query  string
		want   bool
	}{
		{"neovim", "", true},
		{"neovim", "vim", true},
		{"NeoVim", "neovim", true},
		{"org.gnome.Calculator", "calc", true},
		{"visual-studio-code", "vsc", true}, // subsequence
		{"ripgrep", "rg", true},             // subsequence
		{"htop", "top", true},
		{"htop", "pot", false},
		{"jq", "yq", false},
	}
	for _, c := range cases {
		if got := FuzzyMatch(c.target, c.query); got != c.want {
			t.Fatalf("FuzzyMatch(%q, %q) = %v, want %v", c.target, c.query, got, c.want)
		}
	}
}
