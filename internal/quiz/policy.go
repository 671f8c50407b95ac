package quiz

import "fmt"

// Verdict is the qualitative outcome of evaluating one question.
type Verdict int

const (
	Unanswered Verdict = iota
	Wrong
	Partial
	Right
)

func (v Verdict) String() string {
	switch v {
	case Unanswered:
		return "unanswered"
	case Wrong:
		return "wrong"
	case Partial:
		return "partial"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Outcome carries the verdict plus, for progressive questions, how many
// options were classified correctly (checked when correct, or left
// unchecked when incorrect) out of the total.
type Outcome struct {
	Verdict Verdict
	// RightOptions / TotalOptions only carry information when Verdict
	// is Partial; they are filled in for Right as well (count == total).
	RightOptions int
	TotalOptions int
}

// ScorePolicy maps an Outcome to points. Pure configuration, no state.
type ScorePolicy struct {
	IfRight      float64
	IfWrong      float64
	IfUnanswered float64
}

// DefaultPolicy is the (1, -1, 0) barème used when a question does not
// configure its own.
func DefaultPolicy() ScorePolicy {
	return ScorePolicy{IfRight: 1, IfWrong: -1, IfUnanswered: 0}
}

// Score converts an outcome into points. Partial outcomes interpolate
// linearly between IfWrong and IfRight on the fraction of correctly
// classified options, so unchecking a wrong option is worth as much as
// checking a right one.
func (p ScorePolicy) Score(o Outcome) float64 {
	switch o.Verdict {
	case Right:
		return p.IfRight
	case Unanswered:
		return p.IfUnanswered
	case Partial:
		if o.TotalOptions <= 0 {
			return p.IfWrong
		}
		fraction := float64(o.RightOptions) / float64(o.TotalOptions)
		return p.IfWrong + fraction*(p.IfRight-p.IfWrong)
	default:
		return p.IfWrong
	}
}

// Max is the best score the policy can award.
func (p ScorePolicy) Max() float64 { return p.IfRight }
