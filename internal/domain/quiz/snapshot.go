package quiz

import (
	"fmt"
	"time"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/id"
)

// Snapshot is the persisted form of a Session. Field names follow the
// quizStateV1 layout so state written by the web client stays readable.
type Snapshot struct {
	ID           string         `json:"id,omitempty"`
	Context      string         `json:"context"`
	CurrentIndex int            `json:"currentIndex"`
	UserAnswers  []*mcq.Label   `json:"userAnswers"`
	Score        int            `json:"score"`
	Attempted    int            `json:"attempted"`
	IsMockTest   bool           `json:"isMockTest"`
	Completed    bool           `json:"completed,omitempty"`
	CurrentMCQs  []mcq.Question `json:"currentMCQs"`
	Timestamp    int64          `json:"timestamp"`

	// TimeTakenMs is the mock time spent, recorded once the session is
	// complete and the timer is gone.
	TimeTakenMs int64 `json:"timeTakenMs,omitempty"`
}

// Snapshot captures the session at now.
func (s *Session) Snapshot(now time.Time) Snapshot {
	answers := make([]*mcq.Label, len(s.answers))
	for i, a := range s.answers {
		if a != "" {
			label := a
			answers[i] = &label
		}
	}
	return Snapshot{
		ID:           s.id,
		Context:      s.origin,
		CurrentIndex: s.index,
		UserAnswers:  answers,
		Score:        s.score,
		Attempted:    s.attempted,
		IsMockTest:   s.mode == ModeMock,
		Completed:    s.completed,
		CurrentMCQs:  s.Questions(),
		Timestamp:    now.UnixMilli(),
	}
}

// Restore rebuilds a Session from a snapshot. Snapshots that break any
// session invariant are rejected with ErrInvalidSnapshot.
func Restore(snap Snapshot) (*Session, error) {
	n := len(snap.CurrentMCQs)
	if n == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidSnapshot)
	}
	if len(snap.UserAnswers) != n {
		return nil, fmt.Errorf("%w: %d answers for %d questions", ErrInvalidSnapshot, len(snap.UserAnswers), n)
	}
	if snap.CurrentIndex < 0 || snap.CurrentIndex >= n {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidSnapshot, snap.CurrentIndex)
	}

	answers := make([]mcq.Label, n)
	attempted, score := 0, 0
	for i, a := range snap.UserAnswers {
		if a == nil {
			continue
		}
		if !a.Valid() {
			return nil, fmt.Errorf("%w: answer %q at %d", ErrInvalidSnapshot, *a, i)
		}
		answers[i] = *a
		attempted++
		if snap.CurrentMCQs[i].IsCorrect(*a) {
			score++
		}
	}

	// Counters must agree with the answer record.
	if snap.Attempted != attempted || snap.Score != score {
		return nil, fmt.Errorf("%w: counters %d/%d, answers give %d/%d",
			ErrInvalidSnapshot, snap.Score, snap.Attempted, score, attempted)
	}

	mode := ModePractice
	if snap.IsMockTest {
		mode = ModeMock
	}

	sid := snap.ID
	if sid == "" {
		sid = id.GenerateID()
	}

	qs := make([]mcq.Question, n)
	copy(qs, snap.CurrentMCQs)

	return &Session{
		id:        sid,
		origin:    snap.Context,
		questions: qs,
		answers:   answers,
		index:     snap.CurrentIndex,
		score:     score,
		attempted: attempted,
		mode:      mode,
		completed: snap.Completed,
	}, nil
}
