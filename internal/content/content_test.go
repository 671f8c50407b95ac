package content

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want Kind
		ok   bool
	}{
		{"", PlainText, true},
		{"text", PlainText, true},
		{"TextContent", PlainText, true},
		{"markdown", Markdown, true},
		{"MarkdownMathContent", Markdown, true},
		{"MathOption", Math, true},
		{"CodeContent", Code, true},
		{"CodeOption", Code, true},
		{"Bogus", PlainText, false},
	}
	for _, tc := range tests {
		got, ok := KindOf(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("KindOf(%q) = %v, %v; want %v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestHTML(t *testing.T) {
	if got := CodeOf(`print("x<y")`).HTML(); got != `<pre>print(&#34;x&lt;y&#34;)</pre>` {
		t.Fatalf("code html = %q", got)
	}
	if got := Plain("a < b").HTML(); got != "a &lt; b" {
		t.Fatalf("plain html = %q", got)
	}
	if got := MathOf("$$x^2$$").HTML(); got != "$$x^2$$" {
		t.Fatalf("math html = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	c := Plain("a question prompt that keeps going and going")
	if got := c.Excerpt(10); got != "a question..." {
		t.Fatalf("excerpt = %q", got)
	}
	if got := c.Excerpt(1000); got != c.Text {
		t.Fatalf("excerpt = %q", got)
	}
}
