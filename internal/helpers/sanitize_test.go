package helpers

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "removes tags and scripts", in: `<p>Hello <strong>world</strong><script>alert('x')</script></p>`, want: "Hello world"},
		{name: "keeps entities readable", in: `Tom &amp; Jerry's "show"`, want: `Tom & Jerry's "show"`},
		{name: "keeps paragraphs", in: "First line\n\n\n\nSecond   line\t here", want: "First line\n\nSecond line here"},
		{name: "blank", in: "   ", want: ""},
		{name: "only markup", in: "<br/><img src=x onerror=alert(1)>", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Fatalf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("A <em>hero</em>\nshot"); got != "A hero shot" {
		t.Fatalf("unexpected %q", got)
	}
}
