package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gulfcertify/quiz/internal/domain/result"
)

const (
	SummarySheet  = "Summary"
	SubjectsSheet = "Subjects"
	ReviewSheet   = "Review"
)

// WriteResult writes r as an .xlsx workbook to w.
func WriteResult(w io.Writer, r result.Result) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveResult writes r as an .xlsx workbook at path.
func SaveResult(path string, r result.Result) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(r result.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}

	// Only mock tests carry a subject breakdown.
	if len(r.Breakdown) > 0 {
		if err := writeSubjects(f, r.Breakdown); err != nil {
			f.Close()
			return nil, fmt.Errorf("subjects sheet: %w", err)
		}
	}

	if err := writeReview(f, r.Review); err != nil {
		f.Close()
		return nil, fmt.Errorf("review sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummary(f *excelize.File, r result.Result) error {
	rows := [][]any{
		{"Session", r.SessionID},
		{"Mode", string(r.Mode)},
		{"Source", r.Origin},
		{"Correct", r.Correct},
		{"Attempted", r.Attempted},
		{"Total", r.Total},
		{"Percentage", r.Percentage},
		{"Answered percentage", r.AnsweredPercentage},
		{"Performance", string(r.Performance)},
	}
	if len(r.Breakdown) > 0 {
		rows = append(rows, []any{"Time taken (minutes)", r.TimeTakenMinutes()})
	}
	if err := setRows(f, SummarySheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func writeSubjects(f *excelize.File, breakdown []result.SubjectScore) error {
	if _, err := f.NewSheet(SubjectsSheet); err != nil {
		return err
	}
	rows := [][]any{{"Subject", "Correct", "Total", "Percentage"}}
	for _, s := range breakdown {
		rows = append(rows, []any{s.Subject.DisplayName(), s.Correct, s.Total, s.Percentage()})
	}
	return setRows(f, SubjectsSheet, rows)
}

func writeReview(f *excelize.File, items []result.ReviewItem) error {
	if _, err := f.NewSheet(ReviewSheet); err != nil {
		return err
	}
	rows := [][]any{{"#", "Question", "Subject", "Your answer", "Correct answer", "Status", "Explanation"}}
	for _, it := range items {
		rows = append(rows, []any{
			it.Number,
			it.Question.Text,
			it.Question.Subject,
			string(it.Chosen),
			string(it.Question.CorrectAnswer),
			string(it.Status),
			it.Question.Explanation,
		})
	}
	if err := setRows(f, ReviewSheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(ReviewSheet, "B", "B", 60)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
