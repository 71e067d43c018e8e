package mcq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Label identifies one of the four option slots of a question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists the option slots in display order.
var Labels = [4]Label{LabelA, LabelB, LabelC, LabelD}

// ParseLabel normalizes user input ("b", " B ") to a Label.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToUpper(strings.TrimSpace(s)))
	if l.Valid() {
		return l, true
	}
	return "", false
}

func (l Label) Valid() bool {
	return l.index() >= 0
}

func (l Label) index() int {
	switch l {
	case LabelA:
		return 0
	case LabelB:
		return 1
	case LabelC:
		return 2
	case LabelD:
		return 3
	}
	return -1
}

// ID is the question identifier. The API sends integers, older payloads
// send strings; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Question is a single multiple-choice question. It is treated as
// immutable once fetched.
type Question struct {
	ID            ID
	Number        string
	Text          string
	Options       [4]string // indexed by Label order, "" = absent
	CorrectAnswer Label     // "" when the source has no key
	Explanation   string
	Subject       string
	ExamDate      string
}

// Option returns the text of the given slot and whether it is present.
func (q Question) Option(l Label) (string, bool) {
	i := l.index()
	if i < 0 || q.Options[i] == "" {
		return "", false
	}
	return q.Options[i], true
}

// HasOption reports whether the label names a non-empty option slot.
func (q Question) HasOption(l Label) bool {
	_, ok := q.Option(l)
	return ok
}

// IsCorrect reports whether the label matches the answer key.
// A question without an answer key never scores.
func (q Question) IsCorrect(l Label) bool {
	return q.CorrectAnswer != "" && l == q.CorrectAnswer
}

// wireQuestion is the JSON shape served by /get_mcqs. Options arrive
// either as an "options" object or as flat option_a..option_d fields.
type wireQuestion struct {
	ID            ID                `json:"id"`
	Number        json.RawMessage   `json:"question_number,omitempty"`
	Text          string            `json:"question_text"`
	Options       map[string]string `json:"options,omitempty"`
	OptionA       string            `json:"option_a,omitempty"`
	OptionB       string            `json:"option_b,omitempty"`
	OptionC       string            `json:"option_c,omitempty"`
	OptionD       string            `json:"option_d,omitempty"`
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Subject       string            `json:"subject,omitempty"`
	ExamDate      string            `json:"exam_date,omitempty"`
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*q = Question{
		ID:          w.ID,
		Number:      rawText(w.Number),
		Text:        w.Text,
		Explanation: w.Explanation,
		Subject:     strings.TrimSpace(w.Subject),
		ExamDate:    w.ExamDate,
	}

	flat := [4]string{w.OptionA, w.OptionB, w.OptionC, w.OptionD}
	for i, l := range Labels {
		if v, ok := w.Options[string(l)]; ok {
			q.Options[i] = v
			continue
		}
		q.Options[i] = flat[i]
	}

	if l, ok := ParseLabel(w.CorrectAnswer); ok {
		q.CorrectAnswer = l
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := wireQuestion{
		ID:            q.ID,
		Text:          q.Text,
		Options:       map[string]string{},
		CorrectAnswer: string(q.CorrectAnswer),
		Explanation:   q.Explanation,
		Subject:       q.Subject,
		ExamDate:      q.ExamDate,
	}
	if q.Number != "" {
		n, err := json.Marshal(q.Number)
		if err != nil {
			return nil, err
		}
		w.Number = n
	}
	for i, l := range Labels {
		if q.Options[i] != "" {
			w.Options[string(l)] = q.Options[i]
		}
	}
	return json.Marshal(w)
}

// rawText renders a JSON scalar (string or number) as plain text.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
