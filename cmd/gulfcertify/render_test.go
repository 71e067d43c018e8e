package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/service"
)

func sampleView() service.View {
	return service.View{
		Question: mcq.Question{
			Text:          "Drug of choice?",
			Options:       [4]string{"Aspirin", "Heparin", "", "Warfarin"},
			CorrectAnswer: mcq.LabelB,
			Subject:       "Medicine",
		},
		Index:     1,
		Total:     10,
		Chosen:    mcq.LabelA,
		Remaining: 90 * time.Minute,
	}
}

func TestRenderQuestion(t *testing.T) {
	var buf bytes.Buffer
	renderQuestion(&buf, sampleView())
	out := buf.String()

	for _, want := range []string{"Question 2 of 10", "[Medicine]", "01:30:00", "* A) Aspirin", "B) Heparin", "D) Warfarin"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "C)") {
		t.Errorf("empty option slot should be skipped:\n%s", out)
	}
	if strings.Contains(out, "answer key") {
		t.Errorf("keyed question should not show the missing key note:\n%s", out)
	}
}

func TestRenderQuestion_NoAnswerKey(t *testing.T) {
	v := sampleView()
	v.Question.CorrectAnswer = ""

	var buf bytes.Buffer
	renderQuestion(&buf, v)
	if !strings.Contains(buf.String(), "answer key not published yet") {
		t.Errorf("expected missing key note:\n%s", buf.String())
	}
}

func TestRenderFeedback(t *testing.T) {
	var buf bytes.Buffer
	renderFeedback(&buf, sampleView(), false)
	if got := buf.String(); got != "Incorrect. The answer is B) Heparin\n" {
		t.Errorf("unexpected feedback %q", got)
	}

	buf.Reset()
	renderFeedback(&buf, sampleView(), true)
	if got := buf.String(); got != "Correct!\n" {
		t.Errorf("unexpected feedback %q", got)
	}
}
