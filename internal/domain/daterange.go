package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultLookbackDays is the bulletin period when none is configured.
	DefaultLookbackDays = 7
	// MaxLookbackDays bounds both the lookback and the window span.
	MaxLookbackDays = 30

	parseLayout  = "2 January 2006"
	displayArrow = " ⇢ "
)

// turkishMonths maps the localized month names to the names time.Parse understands.
var turkishMonths = [12][2]string{
	{"Ocak", "January"},
	{"Şubat", "February"},
	{"Mart", "March"},
	{"Nisan", "April"},
	{"Mayıs", "May"},
	{"Haziran", "June"},
	{"Temmuz", "July"},
	{"Ağustos", "August"},
	{"Eylül", "September"},
	{"Ekim", "October"},
	{"Kasım", "November"},
	{"Aralık", "December"},
}

// DateWindow is an immutable inclusive [start, end] interval of at most 30 days.
type DateWindow struct {
	start time.Time
	end   time.Time
}

// NewDateWindow validates start < end and that end is at most 30 calendar
// days after start, in start's location.
func NewDateWindow(start, end time.Time) (DateWindow, error) {
	if !start.Before(end) {
		return DateWindow{}, fmt.Errorf("%w: start %s must be before end %s",
			ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if end.After(start.AddDate(0, 0, MaxLookbackDays)) {
		return DateWindow{}, fmt.Errorf("%w: window cannot exceed %d days", ErrInvalidRange, MaxLookbackDays)
	}
	return DateWindow{start: start, end: end}, nil
}

// LastNDays builds the window that ends at end and looks back lookbackDays.
func LastNDays(end time.Time, lookbackDays int) (DateWindow, error) {
	if lookbackDays < 1 || lookbackDays > MaxLookbackDays {
		return DateWindow{}, fmt.Errorf("%w: lookback must be between 1 and %d days, got %d",
			ErrInvalidRange, MaxLookbackDays, lookbackDays)
	}
	return NewDateWindow(end.AddDate(0, 0, -lookbackDays), end)
}

// ParseLocalizedDate parses an end date such as "31 Ağustos 2025" in loc and
// returns the window of lookbackDays ending at its midnight.
func ParseLocalizedDate(text string, lookbackDays int, loc *time.Location) (DateWindow, error) {
	end, err := ParseLocalizedDay(text, loc)
	if err != nil {
		return DateWindow{}, err
	}
	return LastNDays(end, lookbackDays)
}

// ParseLocalizedDay parses "day month-name year" with Turkish or English month names.
func ParseLocalizedDay(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	normalized := norm.NFC.String(strings.TrimSpace(text))
	for _, pair := range turkishMonths {
		normalized = strings.ReplaceAll(normalized, pair[0], pair[1])
	}

	parsed, err := time.ParseInLocation(parseLayout, normalized, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, text)
	}
	return parsed, nil
}

// FormatLocalizedDay renders t as "02 Ağustos 2006".
func FormatLocalizedDay(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), turkishMonths[t.Month()-1][0], t.Year())
}

// Start returns the inclusive lower bound.
func (w DateWindow) Start() time.Time { return w.start }

// End returns the inclusive upper bound.
func (w DateWindow) End() time.Time { return w.end }

// Days returns the number of whole calendar days covered by the window.
// Clock changes inside the window do not shorten or lengthen a day.
func (w DateWindow) Days() int {
	end := w.end.In(w.start.Location())
	n := civilDay(end) - civilDay(w.start)
	if w.start.AddDate(0, 0, n).After(end) {
		n--
	}
	return n
}

// civilDay numbers the calendar date of t, ignoring its clock and offset.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / (24 * 60 * 60))
}

// Contains reports whether start <= t <= end.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// Display renders "start ⇢ end" in the same format ParseLocalizedDay accepts.
func (w DateWindow) Display() string {
	return FormatLocalizedDay(w.start) + displayArrow + FormatLocalizedDay(w.end)
}

func (w DateWindow) String() string {
	return w.Display()
}
