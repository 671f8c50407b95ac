// Command exograde runs a YAML-authored quiz in the terminal: the same
// engine a notebook front-end drives, minus the widgets. State persists
// across runs, so quitting mid-attempt and coming back loses nothing.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/exograde/exograde/internal/config"
	"github.com/exograde/exograde/internal/loader"
	"github.com/exograde/exograde/internal/quiz"
	"github.com/exograde/exograde/internal/storage"
	"github.com/exograde/exograde/internal/tracelog"
)

func main() {
	var (
		file    = flag.String("f", "", "quiz YAML file")
		exoname = flag.String("n", "", "quiz name within the file (default: only Quiz node)")
		list    = flag.Bool("list", false, "list quiz names in the file and exit")
		clear   = flag.Bool("clear", false, "forget stored state for the quiz and exit")
	)
	flag.Parse()

	cfg := config.FromEnv()

	newLogger := zap.NewProduction
	if cfg.Debug {
		newLogger = zap.NewDevelopment
	}
	zl, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	log := zl.Sugar()

	if *file == "" {
		log.Fatal("missing -f quiz file")
	}
	ld, err := loader.Open(*file)
	if err != nil {
		log.Fatalf("load quiz: %v", err)
	}
	names := ld.Names("Quiz")
	sort.Strings(names)
	if *list {
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}
	if *exoname == "" {
		if len(names) != 1 {
			log.Fatalf("file has %d quizzes, pick one with -n: %s", len(names), strings.Join(names, " "))
		}
		*exoname = names[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	if *clear {
		if err := store.Clear(context.Background(), *exoname); err != nil {
			log.Fatalf("clear %s: %v", *exoname, err)
		}
		fmt.Printf("cleared stored state for %s\n", *exoname)
		return
	}

	var opts []quiz.QuizOpt
	if cfg.Seed != 0 {
		opts = append(opts, quiz.WithSeed(cfg.Seed))
	}
	q, err := ld.BuildQuiz(*exoname, opts...)
	if err != nil {
		log.Fatalf("build quiz: %v", err)
	}

	trace := tracelog.New(cfg.TracePath, log)
	defer trace.Close()

	session := quiz.NewSession(context.Background(), q, store, trace, log)
	run(session)
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreJSONFile, "":
		return storage.NewFileStore(cfg.StorePath)
	case config.StoreSQLite:
		db, err := storage.Open(ctx, storage.DriverSQLite, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return storage.NewSQLStore(db), nil
	case config.StorePostgres:
		db, err := storage.Open(ctx, storage.DriverPostgres, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return storage.NewSQLStore(db), nil
	case config.StoreRedis:
		return storage.NewRedisStore(cfg.RedisAddr), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func run(session *quiz.Session) {
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)
	render(session)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		switch {
		case line == "" || line == "help" || line == "?":
			usage()
		case line == "quit" || line == "q":
			return
		case line == "submit":
			session.Submit(ctx)
			render(session)
			if session.Revealed() {
				return
			}
		default:
			question, optIdx, checked, err := parseToggle(session.Quiz(), line)
			if err != nil {
				fmt.Println(err)
				usage()
				continue
			}
			session.Toggle(question, optIdx, checked)
			render(session)
		}
	}
}

func usage() {
	fmt.Println("commands: '2 3' toggles option 3 of question 2 on, '2 3 off' back off,")
	fmt.Println("          'submit' grades the attempt, 'quit' leaves (selections are saved)")
}

// parseToggle understands "QUESTION OPTION [on|off]" with 1-based
// displayed positions.
func parseToggle(q *quiz.Quiz, line string) (*quiz.Question, int, bool, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return nil, 0, false, fmt.Errorf("cannot parse %q", line)
	}
	qn, err1 := strconv.Atoi(fields[0])
	on, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return nil, 0, false, fmt.Errorf("cannot parse %q", line)
	}
	displayed := q.Displayed()
	if qn < 1 || qn > len(displayed) {
		return nil, 0, false, fmt.Errorf("no question %d", qn)
	}
	question := displayed[qn-1]
	if on < 1 || on > len(question.Displayed()) {
		return nil, 0, false, fmt.Errorf("question %d has no option %d", qn, on)
	}
	checked := true
	if len(fields) == 3 {
		checked = fields[2] == "on"
	}
	return question, on - 1, checked, nil
}

func render(session *quiz.Session) {
	q := session.Quiz()
	fmt.Printf("\n== %s ==\n", q.Exoname)
	for i, question := range q.Displayed() {
		mode := ""
		if !question.ExactlyOne {
			mode = " ♧" // clubs marks multi-select, as in the notebook UI
		}
		fmt.Printf("\n%d) %s%s\n", i+1, question.Prompt.Text, mode)
		if !question.Sequel.IsZero() {
			fmt.Printf("   %s\n", question.Sequel.Text)
		}
		for j, opt := range question.Displayed() {
			box := "[ ]"
			if opt.Checked() {
				box = "[x]"
			}
			verdict := ""
			if session.Revealed() {
				if opt.Checked() == opt.Correct {
					verdict = "  ✓"
				} else {
					verdict = "  ✗"
				}
				if !opt.Explanation.IsZero() {
					verdict += "  ☛ " + opt.Explanation.Text
				}
			}
			fmt.Printf("   %s %d. %s%s\n", box, j+1, opt.Content.Text, verdict)
		}
		if session.Revealed() && !question.Explanation.IsZero() {
			fmt.Printf("   ☛ %s\n", question.Explanation.Text)
		}
	}
	fmt.Printf("\n[%s]  %s\n", session.SubmitLabel(), session.Summary())
}
