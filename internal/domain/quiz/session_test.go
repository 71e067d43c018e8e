package quiz_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/domain/quiz"
)

func createQuestions(n int) []mcq.Question {
	qs := make([]mcq.Question, n)
	for i := range qs {
		qs[i] = mcq.Question{
			ID:            mcq.ID(fmt.Sprint(i + 1)),
			Text:          "Question " + string(rune('A'+i)),
			Options:       [4]string{"one", "two", "three", "four"},
			CorrectAnswer: mcq.LabelB,
			Subject:       "Medicine",
		}
	}
	return qs
}

func mustLoad(t *testing.T, n int, mode quiz.Mode) *quiz.Session {
	t.Helper()
	s, err := quiz.Load(createQuestions(n), mode, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func checkInvariants(t *testing.T, s *quiz.Session) {
	t.Helper()
	if len(s.Answers()) != s.Len() {
		t.Errorf("expected %d answer slots, got %d", s.Len(), len(s.Answers()))
	}
	if s.Index() < 0 || s.Index() >= s.Len() {
		t.Errorf("index %d out of [0,%d)", s.Index(), s.Len())
	}
	if s.Score() > s.Attempted() || s.Attempted() > s.Len() {
		t.Errorf("expected score <= attempted <= len, got %d, %d, %d", s.Score(), s.Attempted(), s.Len())
	}
}

func TestLoad_ResetsState(t *testing.T) {
	s := mustLoad(t, 5, quiz.ModePractice)

	checkInvariants(t, s)
	if s.Index() != 0 || s.Score() != 0 || s.Attempted() != 0 {
		t.Errorf("expected zeroed session, got index=%d score=%d attempted=%d", s.Index(), s.Score(), s.Attempted())
	}
	for i, a := range s.Answers() {
		if a != "" {
			t.Errorf("expected slot %d unanswered, got %q", i, a)
		}
	}
	if s.ID() == "" {
		t.Error("expected non-empty session ID")
	}
}

func TestLoad_Empty(t *testing.T) {
	_, err := quiz.Load(nil, quiz.ModePractice, "test")
	if !errors.Is(err, quiz.ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
}

func TestLoad_UnknownModeIsPractice(t *testing.T) {
	s, err := quiz.Load(createQuestions(1), quiz.Mode("other"), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Mode() != quiz.ModePractice {
		t.Errorf("expected practice mode, got %q", s.Mode())
	}
}

func TestLoadWithConfig_MaxQuestions(t *testing.T) {
	maxQ := 3
	s, err := quiz.LoadWithConfig(createQuestions(10), quiz.ModeMock, "mock", quiz.SessionConfig{MaxQuestions: &maxQ})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("expected 3 questions, got %d", s.Len())
	}
	checkInvariants(t, s)
}

func TestLoadWithConfig_MaxQuestionsGreaterThanAvailable(t *testing.T) {
	maxQ := 20
	s, err := quiz.LoadWithConfig(createQuestions(5), quiz.ModePractice, "test", quiz.SessionConfig{MaxQuestions: &maxQ})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Len() != 5 {
		t.Errorf("expected 5 questions (all available), got %d", s.Len())
	}
}

func TestLoadWithConfig_ShuffleKeepsAllQuestions(t *testing.T) {
	s, err := quiz.LoadWithConfig(createQuestions(20), quiz.ModePractice, "test", quiz.SessionConfig{Shuffle: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[mcq.ID]bool{}
	for _, q := range s.Questions() {
		seen[q.ID] = true
	}
	if len(seen) != 20 {
		t.Errorf("expected 20 distinct questions, got %d", len(seen))
	}
}

func TestDefaultConfig(t *testing.T) {
	config := quiz.DefaultConfig()

	if config.MaxQuestions != nil {
		t.Error("expected MaxQuestions to be nil by default")
	}
	if config.Shuffle {
		t.Error("expected Shuffle to be false by default")
	}
}

func TestAnswer_AllCorrect(t *testing.T) {
	s := mustLoad(t, 5, quiz.ModePractice)

	for i := 0; i < 5; i++ {
		correct, err := s.Answer(i, mcq.LabelB)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !correct {
			t.Errorf("expected answer %d to be correct", i)
		}
		checkInvariants(t, s)
	}

	if s.Score() != 5 || s.Attempted() != 5 {
		t.Errorf("expected score 5 attempted 5, got %d, %d", s.Score(), s.Attempted())
	}
}

func TestAnswer_WrongDoesNotScore(t *testing.T) {
	s := mustLoad(t, 2, quiz.ModePractice)

	correct, err := s.Answer(0, mcq.LabelA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if correct {
		t.Error("expected wrong answer")
	}
	if s.Score() != 0 || s.Attempted() != 1 {
		t.Errorf("expected score 0 attempted 1, got %d, %d", s.Score(), s.Attempted())
	}
}

func TestAnswer_OncePerSlot(t *testing.T) {
	s := mustLoad(t, 2, quiz.ModePractice)

	if _, err := s.Answer(0, mcq.LabelA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := s.Answer(0, mcq.LabelB)
	if !errors.Is(err, quiz.ErrAlreadyAnswered) {
		t.Errorf("expected ErrAlreadyAnswered, got %v", err)
	}

	if got, _ := s.AnswerAt(0); got != mcq.LabelA {
		t.Errorf("expected first choice to stick, got %q", got)
	}
	if s.Attempted() != 1 || s.Score() != 0 {
		t.Errorf("expected counters unchanged, got score=%d attempted=%d", s.Score(), s.Attempted())
	}
}

func TestAnswer_Errors(t *testing.T) {
	qs := createQuestions(2)
	qs[1].Options[3] = ""
	s, err := quiz.Load(qs, quiz.ModePractice, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		index int
		label mcq.Label
		want  error
	}{
		{"negative index", -1, mcq.LabelA, quiz.ErrIndexOutOfRange},
		{"index past end", 2, mcq.LabelA, quiz.ErrIndexOutOfRange},
		{"unknown label", 0, mcq.Label("E"), quiz.ErrInvalidOption},
		{"empty option slot", 1, mcq.LabelD, quiz.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Answer(tt.index, tt.label)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if s.Attempted() != 0 {
		t.Errorf("expected no attempts after failures, got %d", s.Attempted())
	}
}

func TestAnswer_NoAnswerKey(t *testing.T) {
	qs := createQuestions(2)
	qs[0].CorrectAnswer = ""
	s, err := quiz.Load(qs, quiz.ModePractice, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Answer(0, mcq.LabelA); !errors.Is(err, quiz.ErrNoAnswerKey) {
		t.Errorf("expected ErrNoAnswerKey, got %v", err)
	}
	if _, ok := s.AnswerAt(0); ok {
		t.Error("expected no answer recorded")
	}
	if s.Attempted() != 0 || s.Score() != 0 {
		t.Errorf("expected counters untouched, got score=%d attempted=%d", s.Score(), s.Attempted())
	}

	if _, err := s.Answer(1, mcq.LabelB); err != nil {
		t.Errorf("expected keyed question to accept an answer, got %v", err)
	}
}

func TestAnswer_AfterComplete(t *testing.T) {
	s := mustLoad(t, 2, quiz.ModeMock)
	s.Complete()

	_, err := s.Answer(0, mcq.LabelB)
	if !errors.Is(err, quiz.ErrSessionComplete) {
		t.Errorf("expected ErrSessionComplete, got %v", err)
	}
}

func TestNavigation(t *testing.T) {
	s := mustLoad(t, 3, quiz.ModePractice)

	if s.Retreat() {
		t.Error("expected retreat at start to be a no-op")
	}
	if s.Advance() || s.Index() != 1 {
		t.Fatalf("expected index 1, got %d", s.Index())
	}
	if s.Advance() || s.Index() != 2 {
		t.Fatalf("expected index 2, got %d", s.Index())
	}
	if !s.IsLast() {
		t.Error("expected IsLast at index 2")
	}
	if !s.Retreat() || s.Index() != 1 {
		t.Fatalf("expected index 1 after retreat, got %d", s.Index())
	}

	s.Advance()
	if !s.Advance() {
		t.Error("expected advancing past the last question to complete the session")
	}
	if !s.Completed() {
		t.Error("expected session to be complete")
	}
	if s.Index() != 2 {
		t.Errorf("expected index to stay on the last question, got %d", s.Index())
	}
	checkInvariants(t, s)
}

func TestJumpTo(t *testing.T) {
	s := mustLoad(t, 4, quiz.ModePractice)

	if err := s.JumpTo(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Index() != 3 {
		t.Errorf("expected index 3, got %d", s.Index())
	}
	if err := s.JumpTo(4); !errors.Is(err, quiz.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	s := mustLoad(t, 4, quiz.ModeMock)
	s.Answer(0, mcq.LabelB)
	s.Answer(2, mcq.LabelC)
	s.Advance()

	now := time.UnixMilli(1_700_000_000_000)
	snap := s.Snapshot(now)

	if snap.Timestamp != now.UnixMilli() {
		t.Errorf("expected timestamp %d, got %d", now.UnixMilli(), snap.Timestamp)
	}
	if snap.UserAnswers[1] != nil {
		t.Error("expected unanswered slot to be nil")
	}

	restored, err := quiz.Restore(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored.ID() != s.ID() || restored.Index() != 1 || !restored.IsMock() {
		t.Errorf("unexpected restored session: id=%s index=%d mock=%v", restored.ID(), restored.Index(), restored.IsMock())
	}
	if restored.Score() != 1 || restored.Attempted() != 2 {
		t.Errorf("expected score 1 attempted 2, got %d, %d", restored.Score(), restored.Attempted())
	}
	checkInvariants(t, restored)
}

func TestRestore_RejectsBrokenSnapshots(t *testing.T) {
	base := func() quiz.Snapshot {
		s := mustLoad(t, 3, quiz.ModePractice)
		s.Answer(0, mcq.LabelB)
		return s.Snapshot(time.Now())
	}
	bad := mcq.Label("Z")

	tests := []struct {
		name   string
		mutate func(*quiz.Snapshot)
	}{
		{"no questions", func(s *quiz.Snapshot) { s.CurrentMCQs = nil; s.UserAnswers = nil }},
		{"answer length mismatch", func(s *quiz.Snapshot) { s.UserAnswers = s.UserAnswers[:2] }},
		{"index out of range", func(s *quiz.Snapshot) { s.CurrentIndex = 3 }},
		{"negative index", func(s *quiz.Snapshot) { s.CurrentIndex = -1 }},
		{"invalid label", func(s *quiz.Snapshot) { s.UserAnswers[1] = &bad }},
		{"score above attempted", func(s *quiz.Snapshot) { s.Score = 2 }},
		{"attempted mismatch", func(s *quiz.Snapshot) { s.Attempted = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := base()
			tt.mutate(&snap)
			if _, err := quiz.Restore(snap); !errors.Is(err, quiz.ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}
