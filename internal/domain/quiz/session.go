package quiz

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/id"
)

// Mode distinguishes untimed practice from the timed mock test.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeMock     Mode = "mock"
)

var (
	ErrNoQuestions     = errors.New("no questions available")
	ErrIndexOutOfRange = errors.New("question index out of range")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrInvalidOption   = errors.New("invalid option")
	ErrNoAnswerKey     = errors.New("question has no answer key")
	ErrSessionComplete = errors.New("session already complete")
	ErrInvalidSnapshot = errors.New("invalid session snapshot")
)

// Session is the in-memory record of the current question set, position
// and answers.
//
// Invariants: 0 <= index < len(questions), len(answers) == len(questions),
// score <= attempted <= len(questions).
type Session struct {
	id        string
	origin    string
	questions []mcq.Question
	answers   []mcq.Label // "" = unanswered
	index     int
	score     int
	attempted int
	mode      Mode
	completed bool
}

// Load starts a fresh session over questions. origin is a free-form label
// such as "subject:Medicine" kept for resume headings.
func Load(questions []mcq.Question, mode Mode, origin string) (*Session, error) {
	return LoadWithConfig(questions, mode, origin, DefaultConfig())
}

// LoadWithConfig is Load with optional shuffling and a question cap.
func LoadWithConfig(questions []mcq.Question, mode Mode, origin string, config SessionConfig) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if mode != ModeMock {
		mode = ModePractice
	}

	qs := make([]mcq.Question, len(questions))
	copy(qs, questions)

	if config.Shuffle {
		rand.Shuffle(len(qs), func(i, j int) {
			qs[i], qs[j] = qs[j], qs[i]
		})
	}

	if config.MaxQuestions != nil && *config.MaxQuestions > 0 && *config.MaxQuestions < len(qs) {
		qs = qs[:*config.MaxQuestions]
	}

	return &Session{
		id:        id.GenerateID(),
		origin:    origin,
		questions: qs,
		answers:   make([]mcq.Label, len(qs)),
		mode:      mode,
	}, nil
}

func (s *Session) ID() string      { return s.id }
func (s *Session) Origin() string  { return s.origin }
func (s *Session) Mode() Mode      { return s.mode }
func (s *Session) Index() int      { return s.index }
func (s *Session) Len() int        { return len(s.questions) }
func (s *Session) Score() int      { return s.score }
func (s *Session) Attempted() int  { return s.attempted }
func (s *Session) Completed() bool { return s.completed }
func (s *Session) IsMock() bool    { return s.mode == ModeMock }
func (s *Session) IsLast() bool    { return s.index == len(s.questions)-1 }

// Current returns the question under the cursor.
func (s *Session) Current() mcq.Question {
	return s.questions[s.index]
}

// Questions returns a copy of the question set.
func (s *Session) Questions() []mcq.Question {
	out := make([]mcq.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the answer record aligned with Questions.
func (s *Session) Answers() []mcq.Label {
	out := make([]mcq.Label, len(s.answers))
	copy(out, s.answers)
	return out
}

// AnswerAt returns the recorded choice at index and whether one exists.
func (s *Session) AnswerAt(index int) (mcq.Label, bool) {
	if index < 0 || index >= len(s.answers) {
		return "", false
	}
	return s.answers[index], s.answers[index] != ""
}

// Answer records label for the question at index. Each slot is set once;
// score moves only when label matches the answer key. Questions without
// an answer key cannot be answered.
func (s *Session) Answer(index int, label mcq.Label) (correct bool, err error) {
	if s.completed {
		return false, ErrSessionComplete
	}
	if index < 0 || index >= len(s.questions) {
		return false, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if s.answers[index] != "" {
		return false, fmt.Errorf("%w: question %d", ErrAlreadyAnswered, index+1)
	}

	q := s.questions[index]
	if !q.CorrectAnswer.Valid() {
		return false, fmt.Errorf("%w: question %d", ErrNoAnswerKey, index+1)
	}
	if !label.Valid() || !q.HasOption(label) {
		return false, fmt.Errorf("%w: %q", ErrInvalidOption, label)
	}

	s.answers[index] = label
	s.attempted++
	correct = q.IsCorrect(label)
	if correct {
		s.score++
	}
	return correct, nil
}

// Advance moves to the next question. Moving past the last question
// completes the session and returns true.
func (s *Session) Advance() (completed bool) {
	if s.completed {
		return true
	}
	if s.index < len(s.questions)-1 {
		s.index++
		return false
	}
	s.completed = true
	return true
}

// Retreat moves to the previous question; it is a no-op at the start.
func (s *Session) Retreat() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// JumpTo moves the cursor directly, as the review list does.
func (s *Session) JumpTo(index int) error {
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.index = index
	return nil
}

// Complete marks the session finished. Calling it again has no effect.
func (s *Session) Complete() {
	s.completed = true
}
