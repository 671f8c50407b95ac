package quiz

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultMaxAttempts bounds submissions when the author does not say.
const DefaultMaxAttempts = 2

// Quiz owns an ordered list of questions and the attempt policy. The
// displayed order is a per-session permutation; scoring and persistence
// always use teacher order.
type Quiz struct {
	Exoname     string
	MaxAttempts int
	// CurrentAttempts is rehydrated from the store by the session and
	// bumped on every submit.
	CurrentAttempts int
	// MaxGrade, when positive, is the normalization target (e.g. 20 for
	// a score out of 20). Zero means raw scores are reported as-is.
	MaxGrade float64

	ShuffleQuestions bool

	questions []*Question
	displayed []*Question
	rng       *rand.Rand
	seed      int64
}

// QuizOpt configures a quiz at authoring time.
type QuizOpt func(*Quiz)

func WithMaxAttempts(n int) QuizOpt { return func(q *Quiz) { q.MaxAttempts = n } }

func WithMaxGrade(g float64) QuizOpt { return func(q *Quiz) { q.MaxGrade = g } }

// WithQuestionShuffle randomizes question presentation order per session.
func WithQuestionShuffle() QuizOpt { return func(q *Quiz) { q.ShuffleQuestions = true } }

// WithSeed pins the session's random source, for deterministic replay
// and tests.
func WithSeed(seed int64) QuizOpt { return func(q *Quiz) { q.seed = seed } }

// NewQuiz builds the quiz, computes the session permutations for the
// quiz and every question, and assigns 1-based question indexes in
// teacher order.
func NewQuiz(exoname string, questions []*Question, opts ...QuizOpt) *Quiz {
	q := &Quiz{
		Exoname:     exoname,
		MaxAttempts: DefaultMaxAttempts,
		questions:   questions,
		seed:        time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(q)
	}
	q.rng = rand.New(rand.NewSource(q.seed))

	for i, question := range q.questions {
		question.index = i + 1
		question.init(q.rng)
	}
	q.displayed = make([]*Question, len(q.questions))
	copy(q.displayed, q.questions)
	if q.ShuffleQuestions {
		q.rng.Shuffle(len(q.displayed), func(i, j int) {
			q.displayed[i], q.displayed[j] = q.displayed[j], q.displayed[i]
		})
	}
	return q
}

// Questions returns questions in teacher order.
func (q *Quiz) Questions() []*Question { return q.questions }

// Displayed returns questions in presentation order.
func (q *Quiz) Displayed() []*Question { return q.displayed }

// Warnings aggregates authoring sanity problems across all questions,
// plus quiz-level ones. Never fatal.
func (q *Quiz) Warnings() []string {
	var warnings []string
	if len(q.questions) == 0 {
		warnings = append(warnings, fmt.Sprintf("quiz %q has no questions", q.Exoname))
	}
	for _, question := range q.questions {
		warnings = append(warnings, question.Sanity()...)
	}
	if _, max := q.Score(); max == 0 && q.MaxGrade > 0 {
		warnings = append(warnings,
			fmt.Sprintf("quiz %q has max_grade %.6g but a zero max score; normalization will report 0",
				q.Exoname, q.MaxGrade))
	}
	return warnings
}

// Answers returns the per-question binary correctness, teacher order.
func (q *Quiz) Answers() []bool {
	answers := make([]bool, len(q.questions))
	for i, question := range q.questions {
		answers[i] = question.IsCorrect()
	}
	return answers
}

// AllCorrect reports whether every question currently evaluates Right.
// An empty quiz is never "all correct"; it can only end by exhausting
// attempts.
func (q *Quiz) AllCorrect() bool {
	if len(q.questions) == 0 {
		return false
	}
	for _, question := range q.questions {
		if !question.IsCorrect() {
			return false
		}
	}
	return true
}

// Terminal is the state in which no further attempts are accepted and
// per-option feedback is revealed.
func (q *Quiz) Terminal() bool {
	return q.AllCorrect() || q.CurrentAttempts >= q.MaxAttempts
}

// AttemptsLeft never goes negative, even on a rehydrated counter that
// already reached the bound.
func (q *Quiz) AttemptsLeft() int {
	left := q.MaxAttempts - q.CurrentAttempts
	if left < 0 {
		return 0
	}
	return left
}

// Score returns the raw (current, max) totals over all questions.
func (q *Quiz) Score() (current, max float64) {
	for _, question := range q.questions {
		current += question.Score()
		max += question.MaxScore()
	}
	return current, max
}

// Normalized maps the raw score onto MaxGrade when configured. A zero
// raw max would divide by zero; the defined policy is to report 0 out of
// MaxGrade (flagged at authoring time by Warnings).
func (q *Quiz) Normalized() (current, max float64) {
	current, max = q.Score()
	if q.MaxGrade <= 0 {
		return current, max
	}
	if max == 0 {
		return 0, q.MaxGrade
	}
	return current / max * q.MaxGrade, q.MaxGrade
}

// Preserve snapshots every question's selections, teacher order.
func (q *Quiz) Preserve() [][]*bool {
	snapshot := make([][]*bool, len(q.questions))
	for i, question := range q.questions {
		snapshot[i] = question.Preserve()
	}
	return snapshot
}

// Restore applies a snapshot taken by Preserve; extra rows are dropped.
func (q *Quiz) Restore(snapshot [][]*bool) {
	for i, row := range snapshot {
		if i >= len(q.questions) {
			break
		}
		q.questions[i].Restore(row)
	}
}

// RunningSummary is shown between attempts, without revealing which
// question is which.
func (q *Quiz) RunningSummary() string {
	right := 0
	answers := q.Answers()
	for _, ok := range answers {
		if ok {
			right++
		}
	}
	return fmt.Sprintf("%d/%d questions OK", right, len(answers))
}

// FinalSummary is computed once the quiz is terminal and persisted with
// the submission history.
func (q *Quiz) FinalSummary() string {
	current, max := q.Score()
	s := fmt.Sprintf("final score %.6g / %s -- after %d / %d attempts",
		current, points(max), q.CurrentAttempts, q.MaxAttempts)
	if q.MaxGrade > 0 {
		ncur, nmax := q.Normalized()
		s += fmt.Sprintf(" -- grade %.2f / %.6g", ncur, nmax)
	}
	return s
}

func points(score float64) string {
	unit := "pts"
	if score <= 1 {
		unit = "pt"
	}
	return fmt.Sprintf("%.6g %s", score, unit)
}
