package quiz

import "github.com/exograde/exograde/internal/content"

// Option is one selectable answer within a question. Correct is fixed at
// authoring time; Selected is learner-controlled and nil until the option
// has been touched at least once, so a restored session can tell "never
// answered" apart from "explicitly unchecked".
type Option struct {
	Content     content.Content
	Explanation content.Content
	Correct     bool
	Selected    *bool
}

// NewOption builds a wrong answer by default, matching the authoring
// convention that correct options are flagged explicitly.
func NewOption(c content.Content) *Option { return &Option{Content: c} }

// NewCorrectOption builds an option with Correct set.
func NewCorrectOption(c content.Content) *Option {
	return &Option{Content: c, Correct: true}
}

// WithExplanation attaches feedback shown next to the option once the
// quiz is over.
func (o *Option) WithExplanation(c content.Content) *Option {
	o.Explanation = c
	return o
}

// Checked reports the effective selection state; an untouched option
// counts as unchecked.
func (o *Option) Checked() bool { return o.Selected != nil && *o.Selected }

func (o *Option) setSelected(v bool) { o.Selected = &v }
