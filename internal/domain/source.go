package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultDomains is the trusted source list used when none is configured.
var DefaultDomains = []string{
	"techcrunch.com",
	"venturebeat.com",
	"theverge.com",
	"wired.com",
	"semafor.com",
	"openai.com/blog",
	"anthropic.com/news",
	"google.ai/blog",
	"meta.ai/news",
	"huggingface.co/blog",
	"microsoft.com/blog",
	"nvidia.com/newsroom",
	"stability.ai/blog",
	"midjourney.com",
	"deepmind.google",
	"artificialintelligence-news.com",
	"donanimhaber.com/yapay-zeka",
}

// SourceFilter is an ordered allow-list of domains that restricts the search scope.
type SourceFilter struct {
	domains []string
}

// NewSourceFilter validates every entry; duplicates are collapsed keeping the first.
func NewSourceFilter(domains []string) (SourceFilter, error) {
	seen := make(map[string]struct{}, len(domains))
	cleaned := make([]string, 0, len(domains))

	for i, d := range domains {
		if strings.TrimSpace(d) == "" {
			return SourceFilter{}, fmt.Errorf("%w: entry %d is empty", ErrInvalidDomain, i)
		}
		if strings.IndexFunc(d, unicode.IsSpace) >= 0 {
			return SourceFilter{}, fmt.Errorf("%w: %q contains whitespace", ErrInvalidDomain, d)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		cleaned = append(cleaned, d)
	}

	return SourceFilter{domains: cleaned}, nil
}

// DefaultSourceFilter returns the filter built from DefaultDomains.
func DefaultSourceFilter() SourceFilter {
	filter, err := NewSourceFilter(DefaultDomains)
	if err != nil {
		panic(err)
	}
	return filter
}

// Domains returns a copy of the allow-list.
func (f SourceFilter) Domains() []string {
	if len(f.domains) == 0 {
		return nil
	}
	out := make([]string, len(f.domains))
	copy(out, f.domains)
	return out
}

// Len reports the number of domains.
func (f SourceFilter) Len() int { return len(f.domains) }

// IsEmpty reports whether the filter restricts nothing.
func (f SourceFilter) IsEmpty() bool { return len(f.domains) == 0 }
