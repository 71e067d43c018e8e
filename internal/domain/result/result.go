package result

import (
	"math"
	"slices"
	"time"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/domain/quiz"
	"github.com/gulfcertify/quiz/internal/domain/subject"
)

// Performance is the band shown on practice result screens.
type Performance string

const (
	Excellent        Performance = "Excellent"
	Good             Performance = "Good"
	Fair             Performance = "Fair"
	NeedsImprovement Performance = "Needs Improvement"
)

// Status describes one question in the review list.
type Status string

const (
	StatusCorrect      Status = "Correct"
	StatusIncorrect    Status = "Incorrect"
	StatusNotAttempted Status = "Not Attempted"
)

// SubjectScore is one row of the mock test breakdown.
type SubjectScore struct {
	Subject subject.Subject
	Correct int
	Total   int
}

// Percentage is Correct over Total, rounded half up.
func (s SubjectScore) Percentage() int {
	return Percent(s.Correct, s.Total)
}

// ReviewItem pairs a question with what the user chose.
type ReviewItem struct {
	Number   int // 1-based position in the session
	Question mcq.Question
	Chosen   mcq.Label // "" = not attempted
	Status   Status
}

// Result summarizes a finished or partial session.
type Result struct {
	SessionID          string
	Mode               quiz.Mode
	Origin             string
	Correct            int
	Attempted          int
	Total              int
	Percentage         int // Correct over Total
	AnsweredPercentage int // Correct over Attempted
	Performance        Performance
	Breakdown          []SubjectScore // mock mode only
	TimeTaken          time.Duration  // mock mode only
	Review             []ReviewItem
}

// Calculate derives the result of s. elapsed is the mock timer's time
// spent and is ignored for practice sessions.
func Calculate(s *quiz.Session, elapsed time.Duration) Result {
	questions := s.Questions()
	answers := s.Answers()

	r := Result{
		SessionID: s.ID(),
		Mode:      s.Mode(),
		Origin:    s.Origin(),
		Total:     len(questions),
		Review:    make([]ReviewItem, len(questions)),
	}

	for i, q := range questions {
		item := ReviewItem{Number: i + 1, Question: q, Chosen: answers[i], Status: StatusNotAttempted}
		if answers[i] != "" {
			r.Attempted++
			item.Status = StatusIncorrect
			if q.IsCorrect(answers[i]) {
				r.Correct++
				item.Status = StatusCorrect
			}
		}
		r.Review[i] = item
	}

	r.Percentage = Percent(r.Correct, r.Total)
	r.AnsweredPercentage = Percent(r.Correct, r.Attempted)
	r.Performance = Band(r.AnsweredPercentage)

	if s.IsMock() {
		r.Breakdown = Breakdown(questions, answers)
		r.TimeTaken = max(elapsed, 0)
	}
	return r
}

// TimeTakenMinutes rounds TimeTaken to whole minutes.
func (r Result) TimeTakenMinutes() int {
	return int(math.Floor(r.TimeTaken.Minutes() + 0.5))
}

// Percent returns round(part / whole * 100), or 0 for an empty whole.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(whole) + 0.5))
}

// Band maps a percentage to a performance band.
func Band(percentage int) Performance {
	switch {
	case percentage >= 80:
		return Excellent
	case percentage >= 60:
		return Good
	case percentage >= 40:
		return Fair
	default:
		return NeedsImprovement
	}
}

// Breakdown groups questions by subject into (correct, total) pairs
// ordered by subject.Priority; unknown subjects come last.
func Breakdown(questions []mcq.Question, answers []mcq.Label) []SubjectScore {
	bySubject := make(map[subject.Subject]*SubjectScore)
	for i, q := range questions {
		key := subject.Normalize(q.Subject)
		row, ok := bySubject[key]
		if !ok {
			row = &SubjectScore{Subject: key}
			bySubject[key] = row
		}
		row.Total++
		if i < len(answers) && answers[i] != "" && q.IsCorrect(answers[i]) {
			row.Correct++
		}
	}

	out := make([]SubjectScore, 0, len(bySubject))
	for _, row := range bySubject {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b SubjectScore) int {
		return subject.Compare(a.Subject, b.Subject)
	})
	return out
}
