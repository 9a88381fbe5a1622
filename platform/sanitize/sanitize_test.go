package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Asha Rao", "Asha Rao"},
		{"  <b>Design</b>   Director\n", "Design Director"},
		{"Studio &amp; Co", "Studio & Co"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Terracotta", "alert(1)Terracotta"},
		{"Banyan&nbsp;Interiors", "Banyan Interiors"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Fatalf("Text(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
