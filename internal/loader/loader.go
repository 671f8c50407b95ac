// Package loader builds quiz object graphs from YAML authoring files.
//
// A file is a top-level mapping of named nodes; each node declares its
// role through a `type` field (Quiz or QuizQuestion) and quizzes refer
// to their questions by node name. Content values are flexible: a plain
// string, or a mapping with `type`/`text` choosing the content kind.
package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/exograde/exograde/internal/content"
	"github.com/exograde/exograde/internal/quiz"
)

// Loader holds a parsed authoring file, ready to build quizzes from.
type Loader struct {
	nodes map[string]*yaml.Node
}

// Open parses the YAML file at path.
func Open(path string) (*Loader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quiz file: %w", err)
	}
	defer f.Close()
	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return l, nil
}

// Parse reads a whole authoring document.
func Parse(r io.Reader) (*Loader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 ||
		doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("quiz file must be a mapping of named nodes")
	}
	root := doc.Content[0]
	nodes := make(map[string]*yaml.Node, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		nodes[root.Content[i].Value] = root.Content[i+1]
	}
	return &Loader{nodes: nodes}, nil
}

// Names lists the node names carrying the given type.
func (l *Loader) Names(typename string) []string {
	var names []string
	for name, node := range l.nodes {
		if nodeType(node) == typename {
			names = append(names, name)
		}
	}
	return names
}

// BuildQuiz materializes the quiz registered under exoname. Extra
// options (typically quiz.WithSeed) are applied after the authored ones.
func (l *Loader) BuildQuiz(exoname string, opts ...quiz.QuizOpt) (*quiz.Quiz, error) {
	node, ok := l.nodes[exoname]
	if !ok {
		return nil, fmt.Errorf("quiz %q not found", exoname)
	}
	if t := nodeType(node); t != "Quiz" {
		return nil, fmt.Errorf("node %q has type %q, want Quiz", exoname, t)
	}
	var yq yamlQuiz
	if err := node.Decode(&yq); err != nil {
		return nil, fmt.Errorf("quiz %q: %w", exoname, err)
	}
	if len(yq.Questions.names) == 0 {
		return nil, fmt.Errorf("quiz %q has no questions", exoname)
	}

	questions := make([]*quiz.Question, 0, len(yq.Questions.names))
	for _, qname := range yq.Questions.names {
		qnode, ok := l.nodes[qname]
		if !ok {
			return nil, fmt.Errorf("question %q is used in quiz %q but not found", qname, exoname)
		}
		question, err := buildQuestion(qnode)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", qname, err)
		}
		questions = append(questions, question)
	}

	quizOpts := yq.options()
	quizOpts = append(quizOpts, opts...)
	name := yq.Exoname
	if name == "" {
		name = exoname
	}
	return quiz.NewQuiz(name, questions, quizOpts...), nil
}

func nodeType(node *yaml.Node) string {
	if node.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "type" {
			return node.Content[i+1].Value
		}
	}
	return ""
}

func buildQuestion(node *yaml.Node) (*quiz.Question, error) {
	if t := nodeType(node); t != "" && t != "QuizQuestion" {
		return nil, fmt.Errorf("type %q, want QuizQuestion", t)
	}
	var yq yamlQuestion
	if err := node.Decode(&yq); err != nil {
		return nil, err
	}
	if len(yq.Options) == 0 {
		return nil, fmt.Errorf("no options")
	}

	options := make([]*quiz.Option, len(yq.Options))
	for i, yo := range yq.Options {
		options[i] = yo.build()
	}

	var opts []quiz.QuestionOpt
	if yq.Score != nil {
		opts = append(opts, quiz.WithPolicy(yq.Score.policy))
	}
	if yq.ExactlyOne {
		opts = append(opts, quiz.WithExactlyOne())
	}
	if yq.AllOrNothing != nil {
		opts = append(opts, quiz.WithAllOrNothing(*yq.AllOrNothing))
	}
	if yq.Shuffle != nil && !*yq.Shuffle {
		opts = append(opts, quiz.WithoutShuffle())
	}
	if yq.OptionNone != nil {
		opts = append(opts, quiz.WithOptionNone(yq.OptionNone.build()))
	}
	if !yq.Sequel.value.IsZero() {
		opts = append(opts, quiz.WithSequel(yq.Sequel.value))
	}
	if !yq.Explanation.value.IsZero() {
		opts = append(opts, quiz.WithExplanation(yq.Explanation.value))
	}
	return quiz.NewQuestion(yq.Question.value, options, opts...), nil
}

/* ---------------- YAML shapes ---------------- */

type yamlQuiz struct {
	Exoname     string       `yaml:"exoname"`
	MaxAttempts int          `yaml:"max_attempts"`
	MaxGrade    float64      `yaml:"max_grade"`
	Shuffle     bool         `yaml:"shuffle"`
	Questions   questionList `yaml:"questions"`
}

func (yq yamlQuiz) options() []quiz.QuizOpt {
	var opts []quiz.QuizOpt
	if yq.MaxAttempts > 0 {
		opts = append(opts, quiz.WithMaxAttempts(yq.MaxAttempts))
	}
	if yq.MaxGrade > 0 {
		opts = append(opts, quiz.WithMaxGrade(yq.MaxGrade))
	}
	if yq.Shuffle {
		opts = append(opts, quiz.WithQuestionShuffle())
	}
	return opts
}

// questionList accepts either a YAML sequence of names or a single
// whitespace-separated string.
type questionList struct {
	names []string
}

func (q *questionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		q.names = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		return node.Decode(&q.names)
	default:
		return fmt.Errorf("questions must be a list or a string of names")
	}
}

type yamlQuestion struct {
	Question     flexContent  `yaml:"question"`
	Sequel       flexContent  `yaml:"question_sequel"`
	Explanation  flexContent  `yaml:"explanation"`
	Options      []yamlOption `yaml:"options"`
	OptionNone   *yamlOption  `yaml:"option_none"`
	Score        *yamlScore   `yaml:"score"`
	ExactlyOne   bool         `yaml:"exactly_one_option"`
	AllOrNothing *bool        `yaml:"all_or_nothing"`
	Shuffle      *bool        `yaml:"shuffle"`
}

// flexContent is either a plain string or {type, text}.
type flexContent struct {
	value content.Content
}

func (f *flexContent) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// unquoted yes/no/off come out of yaml as booleans; authors mean text
		f.value = content.Plain(node.Value)
		return nil
	case yaml.MappingNode:
		var m struct {
			Type string `yaml:"type"`
			Text string `yaml:"text"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		kind, ok := content.KindOf(m.Type)
		if !ok {
			return fmt.Errorf("unknown content type %q", m.Type)
		}
		f.value = content.Content{Kind: kind, Text: m.Text}
		return nil
	default:
		return fmt.Errorf("content must be a string or a {type, text} mapping")
	}
}

// yamlOption is either a plain string (a wrong answer) or a mapping with
// text, correctness and an optional explanation.
type yamlOption struct {
	text        flexContent
	correct     bool
	explanation flexContent
}

func (o *yamlOption) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return o.text.UnmarshalYAML(node)
	case yaml.MappingNode:
		var m struct {
			Type        string      `yaml:"type"`
			Text        string      `yaml:"text"`
			Correct     bool        `yaml:"correct"`
			Explanation flexContent `yaml:"explanation"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		kind, ok := content.KindOf(m.Type)
		if !ok {
			return fmt.Errorf("unknown option type %q", m.Type)
		}
		o.text = flexContent{value: content.Content{Kind: kind, Text: m.Text}}
		o.correct = m.Correct
		o.explanation = m.Explanation
		return nil
	default:
		return fmt.Errorf("option must be a string or a mapping")
	}
}

func (o yamlOption) build() *quiz.Option {
	opt := quiz.NewOption(o.text.value)
	opt.Correct = o.correct
	if !o.explanation.value.IsZero() {
		opt.WithExplanation(o.explanation.value)
	}
	return opt
}

// yamlScore is either a scalar (points if right, with the default -1/0
// for wrong/unanswered) or a sequence [right, wrong, unanswered].
type yamlScore struct {
	policy quiz.ScorePolicy
}

func (s *yamlScore) UnmarshalYAML(node *yaml.Node) error {
	s.policy = quiz.DefaultPolicy()
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&s.policy.IfRight)
	case yaml.SequenceNode:
		var parts []float64
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) < 1 || len(parts) > 3 {
			return fmt.Errorf("score wants 1 to 3 numbers, got %d", len(parts))
		}
		s.policy.IfRight = parts[0]
		if len(parts) > 1 {
			s.policy.IfWrong = parts[1]
		}
		if len(parts) > 2 {
			s.policy.IfUnanswered = parts[2]
		}
		return nil
	default:
		return fmt.Errorf("score must be a number or a [right, wrong, unanswered] list")
	}
}
