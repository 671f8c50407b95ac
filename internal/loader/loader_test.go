package loader_test

import (
	"strings"
	"testing"

	"github.com/exograde/exograde/internal/content"
	"github.com/exograde/exograde/internal/loader"
	"github.com/exograde/exograde/internal/quiz"
)

const sampleYAML = `
fruits-quiz:
  type: Quiz
  max_attempts: 3
  max_grade: 20
  questions: [q-fruits, q-code]

q-fruits:
  type: QuizQuestion
  question: Choose the right fruits
  score: [6, -2, 0]
  shuffle: false
  options:
    - text: apple
      correct: true
    - text: apricot
      correct: true
    - carrot
  option_none:
    text: none of the others

q-code:
  type: QuizQuestion
  question:
    type: MarkdownContent
    text: What does this *snippet* print?
  exactly_one_option: true
  score: 4
  options:
    - type: CodeOption
      text: print("ok")
      correct: true
      explanation: straightforward
    - type: CodeOption
      text: print(ok)

q-orphan:
  type: QuizQuestion
  question: never referenced
  options: [a, b]
`

func mustParse(t *testing.T, doc string) *loader.Loader {
	t.Helper()
	l, err := loader.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return l
}

func TestBuildQuiz(t *testing.T) {
	l := mustParse(t, sampleYAML)

	q, err := l.BuildQuiz("fruits-quiz", quiz.WithSeed(1))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.Exoname != "fruits-quiz" {
		t.Fatalf("exoname = %q", q.Exoname)
	}
	if q.MaxAttempts != 3 || q.MaxGrade != 20 {
		t.Fatalf("quiz attrs = %d attempts, %v grade", q.MaxAttempts, q.MaxGrade)
	}
	if len(q.Questions()) != 2 {
		t.Fatalf("questions = %d, want 2", len(q.Questions()))
	}

	fruits := q.Questions()[0]
	if fruits.Policy.IfRight != 6 || fruits.Policy.IfWrong != -2 || fruits.Policy.IfUnanswered != 0 {
		t.Fatalf("fruits policy = %+v", fruits.Policy)
	}
	if fruits.AllOrNothing() {
		t.Fatal("multi-select question defaults to progressive")
	}
	if len(fruits.Options()) != 3 {
		t.Fatalf("fruits options = %d, want 3", len(fruits.Options()))
	}
	if !fruits.Options()[0].Correct || !fruits.Options()[1].Correct || fruits.Options()[2].Correct {
		t.Fatal("fruits correctness flags wrong")
	}
	// shuffle: false keeps teacher order, option_none appended last
	displayed := fruits.Displayed()
	if len(displayed) != 4 || displayed[3].Content.Text != "none of the others" {
		t.Fatalf("fruits displayed = %d options, last %q", len(displayed), displayed[len(displayed)-1].Content.Text)
	}

	code := q.Questions()[1]
	if !code.ExactlyOne || !code.AllOrNothing() {
		t.Fatal("exactly_one_option must imply all-or-nothing by default")
	}
	if code.Prompt.Kind != content.Markdown {
		t.Fatalf("code prompt kind = %v, want markdown", code.Prompt.Kind)
	}
	if code.Policy.IfRight != 4 || code.Policy.IfWrong != -1 {
		t.Fatalf("scalar score = %+v, want right 4 with default wrong", code.Policy)
	}
	opts := code.Options()
	if opts[0].Content.Kind != content.Code || opts[1].Content.Kind != content.Code {
		t.Fatal("CodeOption must map to code content")
	}
	if opts[0].Explanation.Text != "straightforward" {
		t.Fatalf("explanation = %q", opts[0].Explanation.Text)
	}
}

func TestQuestionsAsString(t *testing.T) {
	doc := strings.Replace(sampleYAML, "questions: [q-fruits, q-code]", "questions: q-fruits q-code", 1)
	q, err := mustParse(t, doc).BuildQuiz("fruits-quiz")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.Questions()) != 2 {
		t.Fatalf("questions = %d, want 2", len(q.Questions()))
	}
}

func TestNames(t *testing.T) {
	l := mustParse(t, sampleYAML)
	if names := l.Names("Quiz"); len(names) != 1 || names[0] != "fruits-quiz" {
		t.Fatalf("quiz names = %v", names)
	}
	if names := l.Names("QuizQuestion"); len(names) != 3 {
		t.Fatalf("question names = %v", names)
	}
}

func TestBuildErrors(t *testing.T) {
	l := mustParse(t, sampleYAML)

	if _, err := l.BuildQuiz("no-such-quiz"); err == nil {
		t.Fatal("unknown exoname must fail")
	}
	if _, err := l.BuildQuiz("q-fruits"); err == nil {
		t.Fatal("building a question node as a quiz must fail")
	}

	doc := strings.Replace(sampleYAML, "questions: [q-fruits, q-code]", "questions: [q-missing]", 1)
	if _, err := mustParse(t, doc).BuildQuiz("fruits-quiz"); err == nil {
		t.Fatal("unknown question reference must fail")
	} else if !strings.Contains(err.Error(), "q-missing") {
		t.Fatalf("error %q must name the missing question", err)
	}
}
