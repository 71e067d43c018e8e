package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gulfcertify/quiz/internal/domain/exam"
	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/domain/quiz"
	"github.com/gulfcertify/quiz/internal/domain/result"
	"github.com/gulfcertify/quiz/internal/domain/timer"
	"github.com/gulfcertify/quiz/internal/mcqapi"
	"github.com/gulfcertify/quiz/internal/store"
)

// ErrNoSession is returned when an operation needs a loaded session.
var ErrNoSession = errors.New("no active session")

// View is what a front end needs to render the current question.
type View struct {
	SessionID string
	Origin    string
	Mode      quiz.Mode
	Question  mcq.Question
	Index     int
	Total     int
	Chosen    mcq.Label // "" = not answered yet
	Score     int
	Attempted int
	Completed bool

	// Mock timer, zero for practice sessions.
	Remaining time.Duration
	Paused    bool
}

// QuizService drives one quiz session at a time: it loads question sets,
// applies navigation and answers, runs the mock timer and keeps local
// storage in step so the session survives a restart.
//
// The ticker goroutine and the input loop call into the same service, so
// every method takes mu. Storage writes happen under the lock too.
type QuizService struct {
	fetcher      mcqapi.Fetcher
	snapshots    *store.Snapshots
	logger       *slog.Logger
	mockDuration time.Duration
	practice     quiz.SessionConfig
	now          func() time.Time

	mu      sync.Mutex
	session *quiz.Session
	timer   *timer.MockTimer
	spent   time.Duration // mock time taken once the timer is dropped
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithPracticeConfig caps or shuffles subject and exam sets. Mock tests
// always keep the server's selection.
func WithPracticeConfig(cfg quiz.SessionConfig) Option {
	return func(s *QuizService) { s.practice = cfg }
}

// NewQuizService creates a QuizService. A non-positive mockDuration falls
// back to timer.DefaultDuration.
func NewQuizService(f mcqapi.Fetcher, snaps *store.Snapshots, logger *slog.Logger, mockDuration time.Duration, opts ...Option) *QuizService {
	if mockDuration <= 0 {
		mockDuration = timer.DefaultDuration
	}
	s := &QuizService{
		fetcher:      f,
		snapshots:    snaps,
		logger:       logger,
		mockDuration: mockDuration,
		practice:     quiz.DefaultConfig(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSubject loads the practice set for one subject.
func (s *QuizService) StartSubject(ctx context.Context, name string) (View, error) {
	questions, err := s.fetcher.FetchBySubject(ctx, name)
	if err != nil {
		return View{}, fmt.Errorf("failed to load %s questions: %w", name, err)
	}
	return s.start(ctx, questions, quiz.ModePractice, "subject:"+name)
}

// StartExam loads the recalled paper for one exam sitting.
func (s *QuizService) StartExam(ctx context.Context, d exam.Date) (View, error) {
	questions, err := s.fetcher.FetchByExam(ctx, d.Year, d.Month)
	if err != nil {
		return View{}, fmt.Errorf("failed to load %s exam: %w", d.Label(), err)
	}
	return s.start(ctx, questions, quiz.ModePractice, "exam:"+d.String())
}

// StartMock loads a mock test and starts a fresh timer. Any stored timer
// from an earlier mock is discarded.
func (s *QuizService) StartMock(ctx context.Context) (View, error) {
	questions, err := s.fetcher.FetchMockTest(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to load mock test: %w", err)
	}
	return s.start(ctx, questions, quiz.ModeMock, "mock")
}

func (s *QuizService) start(ctx context.Context, questions []mcq.Question, mode quiz.Mode, origin string) (View, error) {
	cfg := quiz.DefaultConfig()
	if mode == quiz.ModePractice {
		cfg = s.practice
	}
	session, err := quiz.LoadWithConfig(questions, mode, origin, cfg)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	s.timer = nil
	s.spent = 0
	s.snapshots.ClearTimer(ctx)
	if session.IsMock() {
		s.timer = timer.New(s.mockDuration, s.now())
		s.snapshots.SaveTimer(ctx, s.timer.State())
	}
	s.saveSession(ctx)

	s.logger.Info("session started",
		"session_id", session.ID(),
		"origin", origin,
		"mode", string(mode),
		"questions", session.Len(),
	)
	return s.view(), nil
}

// Resume restores the stored session, and for mock tests the stored timer
// with the time spent away subtracted. A timer paused on quit starts
// counting again. It returns ErrNoSession when nothing usable is stored.
func (s *QuizService) Resume(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots.LoadQuiz(ctx)
	if !ok {
		return View{}, ErrNoSession
	}
	session, err := quiz.Restore(snap)
	if err != nil {
		s.logger.Warn("discarding stored session", "error", err)
		s.snapshots.ClearQuiz(ctx)
		s.snapshots.ClearTimer(ctx)
		return View{}, fmt.Errorf("%w: %w", ErrNoSession, err)
	}

	s.session = session
	s.timer = nil
	s.spent = 0
	switch {
	case !session.IsMock():
	case session.Completed():
		s.spent = time.Duration(snap.TimeTakenMs) * time.Millisecond
		if s.spent == 0 {
			// Web client snapshots carry no time taken.
			if st, ok := s.snapshots.LoadTimer(ctx); ok {
				if t, err := timer.Restore(st, s.mockDuration, s.now()); err == nil {
					s.spent = t.Elapsed()
				}
			}
		}
	default:
		s.timer = s.restoreTimer(ctx)
		s.timer.Resume(s.now())
		if s.timer.Expired() {
			session.Complete()
		}
		s.snapshots.SaveTimer(ctx, s.timer.State())
		s.saveSession(ctx)
	}

	s.logger.Info("session resumed",
		"session_id", session.ID(),
		"origin", session.Origin(),
		"index", session.Index(),
	)
	return s.view(), nil
}

func (s *QuizService) restoreTimer(ctx context.Context) *timer.MockTimer {
	now := s.now()
	st, ok := s.snapshots.LoadTimer(ctx)
	if !ok {
		return timer.New(s.mockDuration, now)
	}
	t, err := timer.Restore(st, s.mockDuration, now)
	if err != nil {
		s.logger.Debug("ignoring stored timer", "error", err)
		return timer.New(s.mockDuration, now)
	}
	return t
}

// Current returns the view of the loaded session.
func (s *QuizService) Current() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return View{}, ErrNoSession
	}
	return s.view(), nil
}

// Answer records label for the current question.
func (s *QuizService) Answer(ctx context.Context, label mcq.Label) (correct bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return false, ErrNoSession
	}
	correct, err = s.session.Answer(s.session.Index(), label)
	if err != nil {
		return false, err
	}
	s.saveSession(ctx)
	return correct, nil
}

// Next moves forward. Moving past the last question completes the
// session and returns true.
func (s *QuizService) Next(ctx context.Context) (completed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return false, ErrNoSession
	}
	completed = s.session.Advance()
	if completed {
		s.stopTimer(ctx)
	}
	s.saveSession(ctx)
	return completed, nil
}

// Previous moves back one question; it is a no-op on the first.
func (s *QuizService) Previous(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNoSession
	}
	if s.session.Retreat() {
		s.saveSession(ctx)
	}
	return nil
}

// JumpTo moves to the question at index (0-based).
func (s *QuizService) JumpTo(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNoSession
	}
	if err := s.session.JumpTo(index); err != nil {
		return err
	}
	s.saveSession(ctx)
	return nil
}

// PauseTimer stops the mock countdown, as leaving the quiz screen does.
// It returns true if the time ran out while accounting for the pause.
func (s *QuizService) PauseTimer(ctx context.Context) (expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return false
	}
	expired = s.timer.Pause(s.now())
	s.snapshots.SaveTimer(ctx, s.timer.State())
	if expired {
		s.expire(ctx)
	}
	return expired
}

// ResumeTimer restarts a paused mock countdown.
func (s *QuizService) ResumeTimer(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil || s.timer.Expired() {
		return
	}
	s.timer.Resume(s.now())
	s.snapshots.SaveTimer(ctx, s.timer.State())
}

// Tick advances the mock timer and persists it. When the time runs out
// the session is completed and Tick returns true, once.
func (s *QuizService) Tick(ctx context.Context) (expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil || s.session == nil || s.session.Completed() {
		return false
	}
	expired = s.timer.Tick(s.now())
	s.snapshots.SaveTimer(ctx, s.timer.State())
	if expired {
		s.expire(ctx)
	}
	return expired
}

// stopTimer freezes the countdown once the session is complete, so the
// time taken stays what it was at completion.
func (s *QuizService) stopTimer(ctx context.Context) {
	if s.timer == nil {
		return
	}
	s.timer.Pause(s.now())
	s.snapshots.SaveTimer(ctx, s.timer.State())
}

func (s *QuizService) expire(ctx context.Context) {
	s.session.Complete()
	s.saveSession(ctx)
	s.logger.Info("mock test time is up", "session_id", s.session.ID())
}

// RunTimer ticks once per timer.TickInterval until ctx is done or the mock
// time runs out, in which case onExpire is called once.
func (s *QuizService) RunTimer(ctx context.Context, onExpire func()) {
	ticker := time.NewTicker(timer.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.Tick(ctx) {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

// Submit completes the session and returns its result. The stored timer
// is cleared; the completed session stays stored until Reset.
func (s *QuizService) Submit(ctx context.Context) (result.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return result.Result{}, ErrNoSession
	}

	if s.timer != nil {
		s.timer.Tick(s.now())
		s.spent = s.timer.Elapsed()
		s.timer = nil
	}
	s.snapshots.ClearTimer(ctx)

	s.session.Complete()
	s.saveSession(ctx)

	res := result.Calculate(s.session, s.spent)
	s.logger.Info("session submitted",
		"session_id", res.SessionID,
		"correct", res.Correct,
		"attempted", res.Attempted,
		"total", res.Total,
		"percentage", res.Percentage,
	)
	return res, nil
}

// Reset forgets the session and timer and clears both storage keys.
func (s *QuizService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	s.timer = nil
	s.spent = 0
	s.snapshots.ClearQuiz(ctx)
	s.snapshots.ClearTimer(ctx)
}

func (s *QuizService) saveSession(ctx context.Context) {
	snap := s.session.Snapshot(s.now())
	if s.session.IsMock() && s.session.Completed() {
		snap.TimeTakenMs = s.timeTaken().Milliseconds()
	}
	s.snapshots.SaveQuiz(ctx, snap)
}

func (s *QuizService) timeTaken() time.Duration {
	if s.timer != nil {
		return s.timer.Elapsed()
	}
	return s.spent
}

// view must be called with mu held.
func (s *QuizService) view() View {
	chosen, _ := s.session.AnswerAt(s.session.Index())
	v := View{
		SessionID: s.session.ID(),
		Origin:    s.session.Origin(),
		Mode:      s.session.Mode(),
		Question:  s.session.Current(),
		Index:     s.session.Index(),
		Total:     s.session.Len(),
		Chosen:    chosen,
		Score:     s.session.Score(),
		Attempted: s.session.Attempted(),
		Completed: s.session.Completed(),
	}
	if s.timer != nil {
		v.Remaining = s.timer.Remaining()
		v.Paused = s.timer.Paused()
	}
	return v
}
