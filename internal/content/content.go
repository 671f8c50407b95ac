package content

import (
	"fmt"
	"html"
)

// Kind selects how a piece of quiz text should be presented.
type Kind int

const (
	PlainText Kind = iota
	Markdown
	Math
	Code
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "text"
	case Markdown:
		return "markdown"
	case Math:
		return "math"
	case Code:
		return "code"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Content is what questions and options are made of: an opaque text blob
// plus the kind that tells the rendering collaborator how to present it.
// The engine itself only needs Excerpt for sanity warnings and HTML for
// summary strings; full rendering lives outside this module.
type Content struct {
	Kind Kind
	Text string
}

func Plain(text string) Content      { return Content{Kind: PlainText, Text: text} }
func MarkdownOf(text string) Content { return Content{Kind: Markdown, Text: text} }
func MathOf(text string) Content     { return Content{Kind: Math, Text: text} }
func CodeOf(text string) Content     { return Content{Kind: Code, Text: text} }

// KindOf resolves an authoring-time type name ("CodeContent", "code",
// "MathOption", ...) to a Kind. The Content/Option class names of the
// historical authoring format are accepted as aliases.
func KindOf(name string) (Kind, bool) {
	switch name {
	case "", "text", "TextContent", "Option":
		return PlainText, true
	case "markdown", "MarkdownContent", "MarkdownMathContent", "MarkdownOption", "MarkdownMathOption":
		return Markdown, true
	case "math", "MathContent", "MathOption":
		return Math, true
	case "code", "CodeContent", "CodeOption":
		return Code, true
	default:
		return PlainText, false
	}
}

// HTML renders the content as a minimal HTML fragment. Markdown and math
// text is passed through untouched: turning it into rich output is the
// renderer's job, and the fragment stays legible either way.
func (c Content) HTML() string {
	switch c.Kind {
	case Code:
		return "<pre>" + html.EscapeString(c.Text) + "</pre>"
	case Math, Markdown:
		return c.Text
	default:
		return html.EscapeString(c.Text)
	}
}

func (c Content) String() string { return c.Text }

// Excerpt truncates the text for use in authoring warnings, so a teacher
// can locate the offending question without the full prompt flooding logs.
func (c Content) Excerpt(max int) string {
	if max <= 0 || len(c.Text) <= max {
		return c.Text
	}
	return c.Text[:max] + "..."
}

// IsZero reports whether the content carries no text at all.
func (c Content) IsZero() bool { return c.Text == "" }
