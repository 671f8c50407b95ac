package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exograde/exograde/internal/storage"
	"github.com/exograde/exograde/internal/tracelog"
)

// Storage attribute names, also the document shape on disk.
const (
	attrAttempts  = "current_attempts"
	attrPreserved = "preserved"
	attrSubmitted = "submitted"
)

// Submission is one terminal snapshot appended to the persisted history.
type Submission struct {
	ID      string    `json:"id"`
	When    time.Time `json:"when"`
	Answers [][]*bool `json:"answers"`
	HTML    string    `json:"html"`
}

// Session drives the attempt lifecycle for one rendering of a quiz. It
// rehydrates prior state at construction, persists the full selection
// snapshot on every toggle, and owns the submit transition: counting the
// attempt, deciding terminality, revealing feedback, recording history
// and emitting the trace record.
//
// Persistence and trace failures are logged and swallowed; the learner
// never sees an error, at worst progress stops surviving reloads.
type Session struct {
	quiz  *Quiz
	store storage.Store
	trace *tracelog.Sink
	log   *zap.SugaredLogger

	processing bool
	revealed   bool
}

// NewSession rehydrates attempt count and selections from the store,
// logs authoring warnings, and wires every question to persist on toggle.
// A quiz restored with its attempts already exhausted comes back terminal,
// with feedback revealed.
func NewSession(ctx context.Context, q *Quiz, store storage.Store, trace *tracelog.Sink, log *zap.SugaredLogger) *Session {
	s := &Session{quiz: q, store: store, trace: trace, log: log}

	for _, w := range q.Warnings() {
		s.warnf("sanity: %s", w)
	}

	var attempts int
	if err := store.Read(ctx, q.Exoname, attrAttempts, &attempts); err == nil {
		q.CurrentAttempts = attempts
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.warnf("restore %s: %v", q.Exoname, err)
	}
	var preserved [][]*bool
	if err := store.Read(ctx, q.Exoname, attrPreserved, &preserved); err == nil {
		q.Restore(preserved)
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.warnf("restore %s: %v", q.Exoname, err)
	}

	for _, question := range q.Questions() {
		question.notify = s.persistSelections
	}
	s.revealed = q.Terminal()
	return s
}

// Quiz exposes the underlying model for rendering.
func (s *Session) Quiz() *Quiz { return s.quiz }

// Revealed reports whether per-option correctness may be shown.
func (s *Session) Revealed() bool { return s.revealed }

// Toggle records a learner click on a question's displayed option.
// Once the quiz is terminal the controls are locked and the event is
// dropped, so the recorded score can no longer change.
func (s *Session) Toggle(question *Question, displayIdx int, checked bool) {
	if s.revealed {
		return
	}
	// SetSelected fires the persistence callback synchronously.
	question.SetSelected(displayIdx, checked)
}

// Submit counts one attempt: increment first, then decide terminality,
// so an all-correct first submit still consumes an attempt and reveals
// feedback. It is reentrancy-guarded and a no-op once revealed, so the
// attempt counter never exceeds the bound. Returns whether the quiz is
// now terminal.
func (s *Session) Submit(ctx context.Context) bool {
	if s.processing || s.revealed {
		return s.quiz.Terminal()
	}
	s.processing = true
	defer func() { s.processing = false }()

	q := s.quiz
	q.CurrentAttempts++
	s.save(ctx, attrAttempts, q.CurrentAttempts)
	s.save(ctx, attrPreserved, q.Preserve())

	terminal := q.Terminal()
	if terminal {
		s.revealed = true
		s.appendSubmission(ctx)
	}
	s.logTrace()
	return terminal
}

// Summary is what the learner sees next to the submit control.
func (s *Session) Summary() string {
	if s.revealed {
		return s.quiz.FinalSummary()
	}
	if s.quiz.CurrentAttempts >= 1 {
		return s.quiz.RunningSummary()
	}
	return "no result yet"
}

// SubmitLabel matches the submit control's progressive-attempts wording.
func (s *Session) SubmitLabel() string {
	if s.revealed {
		return "quiz over"
	}
	return fmt.Sprintf("submit (%d/%d attempts left)", s.quiz.AttemptsLeft(), s.quiz.MaxAttempts)
}

func (s *Session) persistSelections() {
	s.save(context.Background(), attrPreserved, s.quiz.Preserve())
}

func (s *Session) appendSubmission(ctx context.Context) {
	var history []Submission
	if err := s.store.Read(ctx, s.quiz.Exoname, attrSubmitted, &history); err != nil &&
		!errors.Is(err, storage.ErrNotFound) {
		s.warnf("submission history %s: %v", s.quiz.Exoname, err)
	}
	history = append(history, Submission{
		ID:      uuid.NewString(),
		When:    time.Now(),
		Answers: s.quiz.Preserve(),
		HTML:    s.quiz.FinalSummary(),
	})
	s.save(ctx, attrSubmitted, history)
}

func (s *Session) logTrace() {
	if s.trace == nil {
		return
	}
	q := s.quiz
	current, max := q.Score()
	rec := tracelog.QuizRecord{
		Exoname:     q.Exoname,
		Attempt:     q.CurrentAttempts,
		MaxAttempts: q.MaxAttempts,
		Score:       current,
		MaxScore:    max,
	}
	if q.MaxGrade > 0 {
		rec.HasNormalized = true
		rec.NormalizedScore, rec.NormalizedMaxScore = q.Normalized()
	}
	s.trace.LogQuiz(rec)
}

func (s *Session) save(ctx context.Context, attr string, value any) {
	if err := s.store.Save(ctx, s.quiz.Exoname, attr, value); err != nil {
		s.warnf("save %s.%s: %v", s.quiz.Exoname, attr, err)
	}
}

func (s *Session) warnf(format string, args ...any) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}
