package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// MaxSummaryLength caps Article.Summary, in characters.
	MaxSummaryLength = 500

	// UnknownSource is used when the URL host cannot be determined.
	UnknownSource = "Unknown Source"
	// NoSummary is used when the content yields no summary text.
	NoSummary = "No summary available"
)

// isoLayouts are the accepted published-date shapes; "Z" is normalized to "+00:00" first.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// RawResult is one search hit as returned by the search collaborator.
type RawResult struct {
	Title         string
	URL           string
	Content       string
	PublishedDate string
}

// Article is a validated, immutable news item. Build it with NewArticle.
type Article struct {
	title       string
	source      string
	url         string
	summary     string
	category    Category
	publishedAt *time.Time
	// floating marks a publish time given without an offset.
	floating bool
}

// NewArticle maps a raw search result into an Article or fails with ErrValidation.
func NewArticle(raw RawResult) (Article, error) {
	title := strings.TrimSpace(raw.Title)
	link := strings.TrimSpace(raw.URL)
	content := strings.TrimSpace(raw.Content)

	switch {
	case title == "":
		return Article{}, fmt.Errorf("%w: title is empty", ErrValidation)
	case link == "":
		return Article{}, fmt.Errorf("%w: url is empty", ErrValidation)
	case content == "":
		return Article{}, fmt.Errorf("%w: content is empty", ErrValidation)
	}

	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return Article{}, fmt.Errorf("%w: url %q is not http(s)", ErrValidation, link)
	}

	article := Article{
		title:    title,
		source:   SourceFromURL(link),
		url:      link,
		summary:  Summarize(content),
		category: Categorize(title, content),
	}
	if published, floating, ok := parsePublished(raw.PublishedDate); ok {
		article.publishedAt = &published
		article.floating = floating
	}

	return article, nil
}

// SourceFromURL returns the URL host without a leading "www.".
func SourceFromURL(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return UnknownSource
	}
	host := strings.TrimSpace(strings.TrimPrefix(parsed.Host, "www."))
	if host == "" {
		return UnknownSource
	}
	return host
}

// Summarize truncates content to MaxSummaryLength characters.
func Summarize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return NoSummary
	}

	runes := []rune(content)
	if len(runes) <= MaxSummaryLength {
		return content
	}
	return string(runes[:MaxSummaryLength])
}

// ParsePublishedDate parses ISO-8601 timestamps; ok is false for anything else.
// Values without an offset are returned as UTC.
func ParsePublishedDate(value string) (time.Time, bool) {
	parsed, _, ok := parsePublished(value)
	return parsed, ok
}

func parsePublished(value string) (parsed time.Time, floating, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, !strings.HasSuffix(layout, "-07:00"), true
		}
	}
	return time.Time{}, false, false
}

// Title returns the trimmed headline.
func (a Article) Title() string { return a.title }

// Source returns the publishing host.
func (a Article) Source() string { return a.source }

// URL returns the article link.
func (a Article) URL() string { return a.url }

// Summary returns the truncated content.
func (a Article) Summary() string { return a.summary }

// Category returns the assigned topic label.
func (a Article) Category() Category { return a.category }

// PublishedAt returns the publish time and whether it is known.
func (a Article) PublishedAt() (time.Time, bool) {
	if a.publishedAt == nil {
		return time.Time{}, false
	}
	return *a.publishedAt, true
}

// InWindow reports whether the article has a publish time inside w. A time
// given without an offset is read as wall-clock time in the window's location.
func (a Article) InWindow(w DateWindow) bool {
	published, ok := a.PublishedAt()
	if !ok {
		return false
	}
	if a.floating {
		published = time.Date(published.Year(), published.Month(), published.Day(),
			published.Hour(), published.Minute(), published.Second(), published.Nanosecond(),
			w.Start().Location())
	}
	return w.Contains(published)
}
