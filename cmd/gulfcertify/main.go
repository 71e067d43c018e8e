package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gulfcertify/quiz/internal/domain/exam"
	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/domain/quiz"
	"github.com/gulfcertify/quiz/internal/export"
	"github.com/gulfcertify/quiz/internal/infrastructure/config"
	"github.com/gulfcertify/quiz/internal/mcqapi"
	"github.com/gulfcertify/quiz/internal/service"
	"github.com/gulfcertify/quiz/internal/store"
)

func main() {
	subjectFlag := flag.String("subject", "", "practice one subject (Medicine, Paeds, Gynae, Surgery)")
	examFlag := flag.String("exam", "", "practice a recalled exam, e.g. 2025/March")
	mockFlag := flag.Bool("mock", false, "start a timed mock test")
	resumeFlag := flag.Bool("resume", false, "resume the stored session")
	exportFlag := flag.String("export", "", "write the result workbook (.xlsx) to this path")
	shuffleFlag := flag.Bool("shuffle", false, "shuffle practice questions")
	limitFlag := flag.Int("limit", 0, "answer at most this many practice questions")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.StoragePath)
	if err != nil {
		logger.Error("failed to open local storage", "path", cfg.StoragePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	snaps := store.NewSnapshots(db, logger)
	client := mcqapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	practice := quiz.SessionConfig{Shuffle: *shuffleFlag}
	if *limitFlag > 0 {
		practice.MaxQuestions = limitFlag
	}
	svc := service.NewQuizService(client, snaps, logger, cfg.MockDuration, service.WithPracticeConfig(practice))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Session ─────────────────────────────────────────────────────
	var v service.View
	switch {
	case *mockFlag:
		v, err = svc.StartMock(ctx)
	case *examFlag != "":
		var d exam.Date
		if d, err = exam.Parse(*examFlag); err == nil {
			v, err = svc.StartExam(ctx, d)
		}
	case *subjectFlag != "":
		v, err = svc.StartSubject(ctx, *subjectFlag)
	case *resumeFlag:
		v, err = svc.Resume(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}

	app := &app{
		svc:        svc,
		out:        os.Stdout,
		exportPath: *exportFlag,
		logger:     logger,
	}
	if err := app.run(ctx, v, os.Stdin); err != nil {
		logger.Error("quiz ended with error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	svc        *service.QuizService
	out        io.Writer
	exportPath string
	logger     *slog.Logger
}

func (a *app) run(ctx context.Context, v service.View, in io.Reader) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan struct{}, 1)
	if v.Mode == quiz.ModeMock && !v.Completed {
		go a.svc.RunTimer(runCtx, func() { expired <- struct{}{} })
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-runCtx.Done():
				return
			}
		}
	}()

	if v.Completed {
		return a.finish(ctx)
	}
	renderQuestion(a.out, v)

	for {
		select {
		case <-ctx.Done():
			a.svc.PauseTimer(context.Background())
			fmt.Fprintln(a.out, "\nProgress saved. Run with -resume to continue.")
			return nil

		case <-expired:
			fmt.Fprintln(a.out, "\nTime is up.")
			return a.finish(ctx)

		case line, ok := <-lines:
			if !ok {
				a.svc.PauseTimer(ctx)
				return nil
			}
			done, err := a.handle(ctx, strings.TrimSpace(line))
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// handle applies one command. It returns true when the loop should end.
func (a *app) handle(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.ToLower(line), " ")

	switch cmd {
	case "":
		return false, nil

	case "a", "b", "c", "d":
		label, _ := mcq.ParseLabel(cmd)
		correct, err := a.svc.Answer(ctx, label)
		switch {
		case errors.Is(err, quiz.ErrAlreadyAnswered), errors.Is(err, quiz.ErrInvalidOption), errors.Is(err, quiz.ErrNoAnswerKey):
			fmt.Fprintln(a.out, err)
			return false, nil
		case errors.Is(err, quiz.ErrSessionComplete):
			return true, a.finish(ctx)
		case err != nil:
			return false, err
		}
		v, _ := a.svc.Current()
		renderFeedback(a.out, v, correct)
		return false, nil

	case "n":
		completed, err := a.svc.Next(ctx)
		if err != nil {
			return false, err
		}
		if completed {
			return true, a.finish(ctx)
		}

	case "p":
		if err := a.svc.Previous(ctx); err != nil {
			return false, err
		}

	case "g":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			fmt.Fprintln(a.out, "usage: g <question number>")
			return false, nil
		}
		if err := a.svc.JumpTo(ctx, n-1); errors.Is(err, quiz.ErrIndexOutOfRange) {
			fmt.Fprintln(a.out, "no such question")
			return false, nil
		} else if err != nil {
			return false, err
		}

	case "e":
		v, err := a.svc.Current()
		if err != nil {
			return false, err
		}
		renderExplanation(a.out, v)
		return false, nil

	case "s":
		return true, a.finish(ctx)

	case "q":
		a.svc.PauseTimer(ctx)
		fmt.Fprintln(a.out, "Progress saved. Run with -resume to continue.")
		return true, nil

	default:
		renderHelp(a.out)
		return false, nil
	}

	v, err := a.svc.Current()
	if err != nil {
		return false, err
	}
	renderQuestion(a.out, v)
	return false, nil
}

func (a *app) finish(ctx context.Context) error {
	res, err := a.svc.Submit(ctx)
	if err != nil {
		return err
	}
	renderResult(a.out, res)

	if a.exportPath != "" {
		if err := export.SaveResult(a.exportPath, res); err != nil {
			a.logger.Error("failed to export result", "path", a.exportPath, "error", err)
		} else {
			fmt.Fprintf(a.out, "Result written to %s\n", a.exportPath)
		}
	}

	a.svc.Reset(ctx)
	return nil
}

func userMessage(err error) string {
	var apiErr *mcqapi.APIError
	switch {
	case errors.Is(err, mcqapi.ErrNotAvailable):
		return "These questions are not available yet. Please check back soon."
	case errors.Is(err, service.ErrNoSession):
		return "Nothing to resume."
	case errors.Is(err, exam.ErrInvalidDate):
		return err.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
