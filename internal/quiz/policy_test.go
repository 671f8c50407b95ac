package quiz_test

import (
	"math"
	"testing"

	"github.com/exograde/exograde/internal/quiz"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPolicyScoreByVerdict(t *testing.T) {
	p := quiz.ScorePolicy{IfRight: 4, IfWrong: -1, IfUnanswered: 0}

	tests := []struct {
		name string
		o    quiz.Outcome
		want float64
	}{
		{"right", quiz.Outcome{Verdict: quiz.Right, RightOptions: 3, TotalOptions: 3}, 4},
		{"wrong", quiz.Outcome{Verdict: quiz.Wrong, TotalOptions: 3}, -1},
		{"unanswered", quiz.Outcome{Verdict: quiz.Unanswered, TotalOptions: 3}, 0},
		{"partial zero", quiz.Outcome{Verdict: quiz.Partial, RightOptions: 0, TotalOptions: 3}, -1},
		{"partial two thirds", quiz.Outcome{Verdict: quiz.Partial, RightOptions: 2, TotalOptions: 3}, -1 + 2.0/3.0*5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Score(tc.o); !approx(got, tc.want) {
				t.Fatalf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

// progressive scores stay within [IfWrong, IfRight] whenever answered,
// and equal IfUnanswered otherwise
func TestPolicyScoreBounds(t *testing.T) {
	p := quiz.ScorePolicy{IfRight: 6, IfWrong: -2, IfUnanswered: 0}
	total := 5
	for right := 0; right <= total; right++ {
		o := quiz.Outcome{Verdict: quiz.Partial, RightOptions: right, TotalOptions: total}
		if right == total {
			o.Verdict = quiz.Right
		}
		got := p.Score(o)
		if got < p.IfWrong-1e-9 || got > p.IfRight+1e-9 {
			t.Fatalf("score %v for %d/%d escapes [%v, %v]", got, right, total, p.IfWrong, p.IfRight)
		}
	}
	if got := p.Score(quiz.Outcome{Verdict: quiz.Unanswered, TotalOptions: total}); got != p.IfUnanswered {
		t.Fatalf("unanswered score = %v, want %v", got, p.IfUnanswered)
	}
}

// more correctly classified options never means a lower score
func TestPolicyScoreMonotonic(t *testing.T) {
	p := quiz.ScorePolicy{IfRight: 6, IfWrong: -2, IfUnanswered: 0}
	total := 7
	prev := math.Inf(-1)
	for right := 0; right <= total; right++ {
		got := p.Score(quiz.Outcome{Verdict: quiz.Partial, RightOptions: right, TotalOptions: total})
		if got < prev-1e-9 {
			t.Fatalf("score decreased at %d/%d: %v after %v", right, total, got, prev)
		}
		prev = got
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := quiz.DefaultPolicy()
	if p.IfRight != 1 || p.IfWrong != -1 || p.IfUnanswered != 0 {
		t.Fatalf("default policy = %+v, want (1, -1, 0)", p)
	}
	if p.Max() != 1 {
		t.Fatalf("max = %v, want 1", p.Max())
	}
}
