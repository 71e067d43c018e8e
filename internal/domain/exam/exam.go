package exam

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid exam date")

// Years lists the exam sittings offered for exam-wise practice.
var Years = []int{2023, 2024, 2025}

// Date identifies one monthly exam sitting.
type Date struct {
	Year  int
	Month time.Month
}

// New validates year and month.
func New(year int, month time.Month) (Date, error) {
	if !slices.Contains(Years, year) {
		return Date{}, fmt.Errorf("%w: year %d is not offered", ErrInvalidDate, year)
	}
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	return Date{Year: year, Month: month}, nil
}

// Parse accepts "2025/March", "2025-03" or "2025 mar".
func Parse(s string) (Date, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '/' || r == '-' || r == ' '
	})
	if len(fields) != 2 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: year %q", ErrInvalidDate, fields[0])
	}

	month, err := ParseMonth(fields[1])
	if err != nil {
		return Date{}, err
	}
	return New(year, month)
}

// ParseMonth accepts a month number, full name or three-letter prefix.
func ParseMonth(s string) (time.Month, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), nil
		}
		return 0, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	if len(s) >= 3 {
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), s) {
				return m, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
}

// Label is the session origin shown in headings and stored in snapshots.
func (d Date) Label() string {
	return fmt.Sprintf("%s %d", d.Month, d.Year)
}

func (d Date) String() string {
	return fmt.Sprintf("%d/%s", d.Year, d.Month)
}
