// Package tracelog appends one JSON record per quiz submission to a
// trace file. Cohort reporting tools scan these files and keep each
// learner's best attempt; the engine only ever appends.
package tracelog

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvTracePath overrides the default trace location.
const EnvTracePath = "EXOGRADE_TRACE"

// DefaultPath resolves $EXOGRADE_TRACE, falling back to a dotfile in the
// user's home directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvTracePath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve trace path: %w", err)
	}
	return filepath.Join(home, ".exograde.trace"), nil
}

// QuizRecord is one submission. Normalized scores only appear when the
// quiz configures a max_grade.
type QuizRecord struct {
	Exoname     string
	Attempt     int
	MaxAttempts int
	Score       float64
	MaxScore    float64

	HasNormalized      bool
	NormalizedScore    float64
	NormalizedMaxScore float64
}

// Sink writes JSON-lines trace records. Failures are swallowed with a
// diagnostic; grading never blocks on the trace.
type Sink struct {
	logger *zap.Logger
	warn   *zap.SugaredLogger
}

// New opens (appending) the trace file at path, or the default path when
// empty. On failure it returns a sink that only warns.
func New(path string, warn *zap.SugaredLogger) *Sink {
	s := &Sink{warn: warn}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			s.warnf("trace disabled: %v", err)
			return s
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.warnf("trace disabled: %v", err)
		return s
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.warnf("trace disabled: %v", err)
		return s
	}

	enc := zapcore.EncoderConfig{
		TimeKey:    "time",
		EncodeTime: zapcore.TimeEncoderOfLayout("01/02/06-15:04:05"),
		LineEnding: zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(file), zapcore.InfoLevel)
	s.logger = zap.New(core)
	return s
}

// LogQuiz appends one record; on a disabled sink it only warns.
func (s *Sink) LogQuiz(rec QuizRecord) {
	if s.logger == nil {
		s.warnf("trace record dropped for %s", rec.Exoname)
		return
	}
	fields := []zap.Field{
		zap.String("exoname", rec.Exoname),
		zap.String("type", "quiz"),
		zap.Int("attempt", rec.Attempt),
		zap.Int("max_attempts", rec.MaxAttempts),
		zap.Float64("score", rec.Score),
		zap.Float64("max_score", rec.MaxScore),
	}
	if rec.HasNormalized {
		fields = append(fields,
			zap.Float64("normalized_score", rec.NormalizedScore),
			zap.Float64("normalized_max_score", rec.NormalizedMaxScore))
	}
	s.logger.Info("", fields...)
}

// Close flushes buffered records.
func (s *Sink) Close() {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

func (s *Sink) warnf(format string, args ...any) {
	if s.warn != nil {
		s.warn.Warnf(format, args...)
	}
}
