package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func validRaw() RawResult {
	return RawResult{
		Title:         "OpenAI ships a new model",
		URL:           "https://www.techcrunch.com/2025/08/25/openai-model",
		Content:       "OpenAI announced a new model on Monday.",
		PublishedDate: "2025-08-25T09:30:00Z",
	}
}

func TestNewArticleMapsFields(t *testing.T) {
	t.Parallel()

	article, err := NewArticle(validRaw())
	if err != nil {
		t.Fatalf("NewArticle: %v", err)
	}

	if article.Title() != "OpenAI ships a new model" {
		t.Fatalf("unexpected title: %s", article.Title())
	}
	if article.Source() != "techcrunch.com" {
		t.Fatalf("unexpected source: %s", article.Source())
	}
	if article.Category() != CategoryModelRelease {
		t.Fatalf("unexpected category: %s", article.Category())
	}

	published, ok := article.PublishedAt()
	if !ok {
		t.Fatal("expected publish date")
	}
	if want := time.Date(2025, time.August, 25, 9, 30, 0, 0, time.UTC); !published.Equal(want) {
		t.Fatalf("published = %s, want %s", published, want)
	}
}

func TestNewArticleRejectsInvalidFields(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*RawResult){
		"empty title":   func(r *RawResult) { r.Title = "   " },
		"empty url":     func(r *RawResult) { r.URL = "" },
		"ftp url":       func(r *RawResult) { r.URL = "ftp://example.com/file" },
		"relative url":  func(r *RawResult) { r.URL = "example.com/news" },
		"empty content": func(r *RawResult) { r.Content = "\n\t" },
	}

	for name, mutate := range cases {
		raw := validRaw()
		mutate(&raw)
		if _, err := NewArticle(raw); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestNewArticleWithoutDate(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.PublishedDate = "Mon, 25 Aug 2025 09:30:00 GMT"

	article, err := NewArticle(raw)
	if err != nil {
		t.Fatalf("NewArticle: %v", err)
	}
	if _, ok := article.PublishedAt(); ok {
		t.Fatal("non-ISO date must be treated as unknown")
	}

	w, _ := LastNDays(time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC), 7)
	if article.InWindow(w) {
		t.Fatal("article without date must never be in a window")
	}
}

func TestInWindowReadsNaiveTimesInWindowLocation(t *testing.T) {
	t.Parallel()

	istanbul := time.FixedZone("TRT", 3*60*60)
	w, err := LastNDays(time.Date(2025, time.August, 31, 0, 0, 0, 0, istanbul), 7)
	if err != nil {
		t.Fatalf("LastNDays: %v", err)
	}

	cases := map[string]bool{
		"2025-08-24T01:00:00":       true,
		"2025-08-23T23:30:00":       false,
		"2025-08-31T00:00:00":       true,
		"2025-08-31T01:00:00":       false,
		"2025-08-24T00:30:00+00:00": true,
		"2025-08-23T20:30:00Z":      false,
	}
	for value, want := range cases {
		raw := validRaw()
		raw.PublishedDate = value
		article, err := NewArticle(raw)
		if err != nil {
			t.Fatalf("%q: NewArticle: %v", value, err)
		}
		if got := article.InWindow(w); got != want {
			t.Fatalf("%q: InWindow = %v, want %v", value, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	short := "Kısa içerik"
	if got := Summarize(short); got != short {
		t.Fatalf("short content changed: %q", got)
	}

	exact := strings.Repeat("a", MaxSummaryLength)
	if got := Summarize(exact); got != exact {
		t.Fatal("content of exactly max length must be unchanged")
	}

	long := strings.Repeat("ğ", MaxSummaryLength) + " tail"
	got := Summarize(long)
	if n := utf8.RuneCountInString(got); n != MaxSummaryLength {
		t.Fatalf("summary has %d characters, want %d", n, MaxSummaryLength)
	}
	if !strings.HasPrefix(long, got) {
		t.Fatal("summary must be a prefix of the content")
	}

	if got := Summarize("  "); got != NoSummary {
		t.Fatalf("empty content summary = %q", got)
	}
}

func TestSourceFromURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://www.wired.com/story/ai":   "wired.com",
		"https://huggingface.co/blog/post": "huggingface.co",
		"http://sub.example.org:8080/path": "sub.example.org:8080",
		"https://":                         UnknownSource,
		"https://exa mple.com/%zz":         UnknownSource,
	}
	for link, want := range cases {
		if got := SourceFromURL(link); got != want {
			t.Fatalf("SourceFromURL(%q) = %q, want %q", link, got, want)
		}
	}
}

func TestParsePublishedDate(t *testing.T) {
	t.Parallel()

	accepted := map[string]time.Time{
		"2025-08-25":                time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC),
		"2025-08-25T10:00:00":       time.Date(2025, time.August, 25, 10, 0, 0, 0, time.UTC),
		"2025-08-25T10:00:00Z":      time.Date(2025, time.August, 25, 10, 0, 0, 0, time.UTC),
		"2025-08-25T13:00:00+03:00": time.Date(2025, time.August, 25, 10, 0, 0, 0, time.UTC),
		"2025-08-25 10:00:00.123":   time.Date(2025, time.August, 25, 10, 0, 0, 123000000, time.UTC),
	}
	for value, want := range accepted {
		got, ok := ParsePublishedDate(value)
		if !ok {
			t.Fatalf("%q: expected success", value)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %s, want %s", value, got, want)
		}
	}

	for _, value := range []string{"", "yesterday", "25/08/2025", "Mon, 25 Aug 2025 10:00:00 GMT"} {
		if _, ok := ParsePublishedDate(value); ok {
			t.Fatalf("%q: expected failure", value)
		}
	}
}
