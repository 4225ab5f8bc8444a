package domain

import "errors"

// Sentinel errors shared by the bulletin pipeline. Callers wrap them with
// context via fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrValidation marks a search result that cannot become an Article.
	ErrValidation = errors.New("article validation failed")
	// ErrDateParse marks an end date that does not match "2 January 2006" after month substitution.
	ErrDateParse = errors.New("invalid date format")
	// ErrInvalidRange marks a lookback or window outside the 1..30 day bounds.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrSearchUnavailable is returned when no search attempt succeeded.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrInvalidDomain marks an empty or whitespace-containing source domain.
	ErrInvalidDomain = errors.New("invalid source domain")
)
