package normalize

import "testing"

func TestCanonicalize(t *testing.T) {
	n := New(map[string]string{
		"Man Utd": "Manchester United",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"override applies", "man utd", "Manchester United"},
		{"strips fc suffix", "Liverpool FC", "Liverpool"},
		{"strips club suffix", "  racing club  ", "Racing"},
		{"squashes whitespace", "boston   celtics", "Boston Celtics"},
		{"title cases", "new york knicks", "New York Knicks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Canonicalize(tt.in); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeIsStable(t *testing.T) {
	n := New(nil)
	first := n.Canonicalize("Golden State  Warriors")
	second := n.Canonicalize(first)
	if first != second {
		t.Errorf("canonical form is not a fixed point: %q -> %q", first, second)
	}
}

func TestUpdateAddsOverrides(t *testing.T) {
	n := New(nil)
	n.Update(map[string]string{"LAL": "Los Angeles Lakers"})
	if got := n.Canonicalize("lal"); got != "Los Angeles Lakers" {
		t.Errorf("Canonicalize(lal) = %q, want Los Angeles Lakers", got)
	}
}
