package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gulfcertify/quiz/internal/domain/quiz"
	"github.com/gulfcertify/quiz/internal/domain/timer"
)

// Storage keys shared with the web client.
const (
	QuizStateKey = "quizStateV1"
	QuizTimerKey = "quizTimerV1"
)

// Snapshots gives typed, best-effort access to the quiz and timer keys.
// Failures never reach the caller: they are logged at debug level and
// reads fall back to "absent".
type Snapshots struct {
	storage LocalStorage
	logger  *slog.Logger
}

func NewSnapshots(storage LocalStorage, logger *slog.Logger) *Snapshots {
	return &Snapshots{storage: storage, logger: logger}
}

func (s *Snapshots) SaveQuiz(ctx context.Context, snap quiz.Snapshot) {
	s.save(ctx, QuizStateKey, snap)
}

// LoadQuiz returns the stored quiz snapshot, or false when it is missing
// or malformed.
func (s *Snapshots) LoadQuiz(ctx context.Context) (quiz.Snapshot, bool) {
	var snap quiz.Snapshot
	if !s.load(ctx, QuizStateKey, &snap) {
		return quiz.Snapshot{}, false
	}
	if snap.CurrentMCQs == nil {
		s.logger.Debug("ignoring quiz snapshot without questions")
		return quiz.Snapshot{}, false
	}
	return snap, true
}

func (s *Snapshots) ClearQuiz(ctx context.Context) {
	s.remove(ctx, QuizStateKey)
}

func (s *Snapshots) SaveTimer(ctx context.Context, st timer.State) {
	s.save(ctx, QuizTimerKey, st)
}

// LoadTimer returns the stored mock timer, or false when it is missing,
// malformed or not a mock timer.
func (s *Snapshots) LoadTimer(ctx context.Context) (timer.State, bool) {
	var st timer.State
	if !s.load(ctx, QuizTimerKey, &st) {
		return timer.State{}, false
	}
	if !st.IsMockTest {
		return timer.State{}, false
	}
	return st, true
}

func (s *Snapshots) ClearTimer(ctx context.Context) {
	s.remove(ctx, QuizTimerKey)
}

func (s *Snapshots) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Debug("snapshot encode failed", "key", key, "error", err)
		return
	}
	if err := s.storage.SetItem(ctx, key, string(data)); err != nil {
		s.logger.Debug("snapshot write failed", "key", key, "error", err)
	}
}

func (s *Snapshots) load(ctx context.Context, key string, v any) bool {
	raw, err := s.storage.GetItem(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("snapshot read failed", "key", key, "error", err)
		}
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Debug("ignoring malformed snapshot", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Snapshots) remove(ctx context.Context, key string) {
	if err := s.storage.RemoveItem(ctx, key); err != nil {
		s.logger.Debug("snapshot remove failed", "key", key, "error", err)
	}
}
