package quiz

import (
	"fmt"
	"math/rand"

	"github.com/exograde/exograde/internal/content"
)

// Question owns an ordered list of options in teacher (authoring) order
// plus a displayed permutation computed once per session. Scoring always
// works on the same option set regardless of which order the learner saw.
type Question struct {
	Prompt      content.Content
	Sequel      content.Content
	Explanation content.Content

	options    []*Option
	optionNone *Option

	ExactlyOne   bool
	allOrNothing *bool
	Policy       ScorePolicy
	Shuffle      bool

	index     int // 1-based position within the quiz, 0 until attached
	displayed []*Option
	notify    func()
}

// QuestionOpt configures a question at authoring time.
type QuestionOpt func(*Question)

// WithPolicy overrides the default (1, -1, 0) barème.
func WithPolicy(p ScorePolicy) QuestionOpt { return func(q *Question) { q.Policy = p } }

// WithExactlyOne makes the question behave like radio buttons: selecting
// an option clears every other one, and grading defaults to all-or-nothing.
func WithExactlyOne() QuestionOpt { return func(q *Question) { q.ExactlyOne = true } }

// WithAllOrNothing forces the grading mode regardless of ExactlyOne.
func WithAllOrNothing(b bool) QuestionOpt {
	return func(q *Question) { q.allOrNothing = &b }
}

// WithoutShuffle keeps options in teacher order.
func WithoutShuffle() QuestionOpt { return func(q *Question) { q.Shuffle = false } }

// WithOptionNone appends a "none of the others" option after shuffling.
// It becomes the correct answer when no regular option is correct.
func WithOptionNone(o *Option) QuestionOpt { return func(q *Question) { q.optionNone = o } }

// WithSequel attaches follow-up text displayed after the options.
func WithSequel(c content.Content) QuestionOpt { return func(q *Question) { q.Sequel = c } }

// WithExplanation attaches question-level feedback revealed once the quiz
// is over.
func WithExplanation(c content.Content) QuestionOpt {
	return func(q *Question) { q.Explanation = c }
}

func NewQuestion(prompt content.Content, options []*Option, opts ...QuestionOpt) *Question {
	q := &Question{
		Prompt:  prompt,
		options: options,
		Policy:  DefaultPolicy(),
		Shuffle: true,
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// AllOrNothing defaults to ExactlyOne: single-answer questions grade
// binary, multi-select questions grade progressively, unless overridden.
func (q *Question) AllOrNothing() bool {
	if q.allOrNothing != nil {
		return *q.allOrNothing
	}
	return q.ExactlyOne
}

// Sanity reports authoring problems as warnings; a broken question still
// renders so a teacher sees every problem in one pass.
func (q *Question) Sanity() []string {
	var warnings []string
	excerpt := q.Prompt.Excerpt(40)
	correct := 0
	for _, o := range q.options {
		if o.Correct {
			correct++
		}
	}
	if correct == 0 && q.optionNone == nil {
		warnings = append(warnings,
			fmt.Sprintf("question %q has no correct option and no option_none", excerpt))
	}
	if q.ExactlyOne && correct != 1 {
		warnings = append(warnings,
			fmt.Sprintf("question %q wants exactly one option but has %d correct", excerpt, correct))
	}
	return warnings
}

// init computes the displayed permutation once for the session and injects
// the option_none fallback after shuffling, so it always shows last.
func (q *Question) init(rng *rand.Rand) {
	if q.displayed != nil {
		return
	}
	q.displayed = make([]*Option, len(q.options))
	copy(q.displayed, q.options)
	if q.Shuffle && rng != nil {
		rng.Shuffle(len(q.displayed), func(i, j int) {
			q.displayed[i], q.displayed[j] = q.displayed[j], q.displayed[i]
		})
	}
	if q.optionNone != nil {
		anyCorrect := false
		for _, o := range q.options {
			if o.Correct {
				anyCorrect = true
				break
			}
		}
		if !anyCorrect {
			q.optionNone.Correct = true
		}
		q.displayed = append(q.displayed, q.optionNone)
	}
}

// Displayed returns options in presentation order. Callers must not
// reorder the slice.
func (q *Question) Displayed() []*Option {
	q.init(nil)
	return q.displayed
}

// Options returns options in teacher order, without the option_none.
func (q *Question) Options() []*Option { return q.options }

// Index is the 1-based position within the quiz, 0 before attachment.
func (q *Question) Index() int { return q.index }

// SetSelected records a learner toggle on the option at the given
// displayed index. With ExactlyOne, checking an option synchronously
// clears every other one (radio emulation on top of checkboxes).
func (q *Question) SetSelected(displayIdx int, checked bool) {
	q.init(nil)
	if displayIdx < 0 || displayIdx >= len(q.displayed) {
		return
	}
	if checked && q.ExactlyOne {
		for i, o := range q.displayed {
			if i != displayIdx {
				o.setSelected(false)
			}
		}
	}
	q.displayed[displayIdx].setSelected(checked)
	if q.notify != nil {
		q.notify()
	}
}

// all graded options, option_none included
func (q *Question) graded() []*Option {
	q.init(nil)
	return q.displayed
}

// DetailedAnswer evaluates the current selections.
//
// All-or-nothing: Right iff the checked set equals the correct set
// exactly, Wrong on any subset/superset mismatch. Progressive: every
// option counts, checked-when-correct and unchecked-when-incorrect both
// add to the right-options tally; a full tally is Right, anything short
// of it is Partial.
func (q *Question) DetailedAnswer() Outcome {
	opts := q.graded()
	total := len(opts)
	answered := false
	matches := 0
	exact := true
	for _, o := range opts {
		checked := o.Checked()
		if checked {
			answered = true
		}
		if checked == o.Correct {
			matches++
		} else {
			exact = false
		}
	}
	if !answered {
		return Outcome{Verdict: Unanswered, TotalOptions: total}
	}
	if q.AllOrNothing() {
		if exact {
			return Outcome{Verdict: Right, RightOptions: total, TotalOptions: total}
		}
		return Outcome{Verdict: Wrong, TotalOptions: total}
	}
	if matches == total {
		return Outcome{Verdict: Right, RightOptions: total, TotalOptions: total}
	}
	return Outcome{Verdict: Partial, RightOptions: matches, TotalOptions: total}
}

// IsCorrect is the binary view used for the quiz terminal condition.
func (q *Question) IsCorrect() bool { return q.DetailedAnswer().Verdict == Right }

// Score applies the question's policy to the current outcome.
func (q *Question) Score() float64 { return q.Policy.Score(q.DetailedAnswer()) }

// MaxScore is the best score the question can award.
func (q *Question) MaxScore() float64 { return q.Policy.Max() }

// Preserve snapshots selection state in teacher order (option_none last),
// so a restored session is immune to a different shuffle.
func (q *Question) Preserve() []*bool {
	snapshot := make([]*bool, 0, len(q.options)+1)
	for _, o := range q.options {
		snapshot = append(snapshot, o.Selected)
	}
	if q.optionNone != nil {
		snapshot = append(snapshot, q.optionNone.Selected)
	}
	return snapshot
}

// Restore applies a snapshot taken by Preserve. Length mismatches are
// tolerated: extra entries are dropped, missing ones leave options
// untouched.
func (q *Question) Restore(snapshot []*bool) {
	targets := make([]*Option, 0, len(q.options)+1)
	targets = append(targets, q.options...)
	if q.optionNone != nil {
		targets = append(targets, q.optionNone)
	}
	for i, sel := range snapshot {
		if i >= len(targets) {
			break
		}
		targets[i].Selected = sel
	}
}
