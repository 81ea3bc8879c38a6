package slug

import "testing"

func TestGenerate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Go Generics, Explained! 2026", "go-generics-explained-2026"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
		{"UPPER case", "upper-case"},
	}

	for _, c := range cases {
		if got := Generate(c.in); got != c.want {
			t.Errorf("Generate(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("my-post", "a1b2"); got != "my-post-a1b2" {
		t.Errorf("got %q", got)
	}
	if got := WithSuffix("", "a1b2"); got != "a1b2" {
		t.Errorf("empty base: got %q", got)
	}
}
