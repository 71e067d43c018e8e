package main

import (
	"fmt"
	"io"

	"github.com/gulfcertify/quiz/internal/domain/mcq"
	"github.com/gulfcertify/quiz/internal/domain/result"
	"github.com/gulfcertify/quiz/internal/domain/timer"
	"github.com/gulfcertify/quiz/internal/service"
)

func renderQuestion(w io.Writer, v service.View) {
	fmt.Fprintln(w)
	header := fmt.Sprintf("Question %d of %d", v.Index+1, v.Total)
	if v.Question.Subject != "" {
		header += "  [" + v.Question.Subject + "]"
	}
	if v.Remaining > 0 {
		header += "  " + timer.Format(v.Remaining)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, v.Question.Text)

	for _, l := range mcq.Labels {
		text, ok := v.Question.Option(l)
		if !ok {
			continue
		}
		marker := " "
		if v.Chosen == l {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s) %s\n", marker, l, text)
	}
	if !v.Question.CorrectAnswer.Valid() {
		fmt.Fprintln(w, "(answer key not published yet)")
	}
	fmt.Fprintf(w, "Score %d/%d  >", v.Score, v.Attempted)
}

func renderFeedback(w io.Writer, v service.View, correct bool) {
	if correct {
		fmt.Fprintln(w, "Correct!")
		return
	}
	key := v.Question.CorrectAnswer
	text, _ := v.Question.Option(key)
	fmt.Fprintf(w, "Incorrect. The answer is %s) %s\n", key, text)
}

func renderExplanation(w io.Writer, v service.View) {
	if v.Chosen == "" {
		fmt.Fprintln(w, "Answer the question to see the explanation.")
		return
	}
	if v.Question.Explanation == "" {
		fmt.Fprintln(w, "No explanation available.")
		return
	}
	fmt.Fprintln(w, v.Question.Explanation)
}

func renderResult(w io.Writer, r result.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Score: %d/%d (%d%%)\n", r.Correct, r.Total, r.Percentage)
	fmt.Fprintf(w, "Attempted: %d  Performance: %s\n", r.Attempted, r.Performance)

	if len(r.Breakdown) > 0 {
		fmt.Fprintf(w, "Time taken: %d min\n", r.TimeTakenMinutes())
		for _, s := range r.Breakdown {
			fmt.Fprintf(w, "  %-26s %3d/%-3d %3d%%\n", s.Subject.DisplayName(), s.Correct, s.Total, s.Percentage())
		}
	}
}

func renderHelp(w io.Writer) {
	fmt.Fprintln(w, "a-d answer   n next   p previous   g <n> go to question")
	fmt.Fprintln(w, "e explanation   s submit   q save and quit")
}
