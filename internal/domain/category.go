package domain

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Category is the topic label attached to every Article.
type Category string

// Categories in matching priority order; General is the fallback.
const (
	CategoryModelRelease        Category = "Model Release"
	CategoryInvestment          Category = "Investment / Government Policy"
	CategoryResearch            Category = "Research / Benchmark"
	CategoryEthics              Category = "Ethics / Societal Impact"
	CategoryCompetitiveDynamics Category = "Competitive Dynamics"
	CategoryCreativeApplication Category = "Creative Application"
	CategoryGeneral             Category = "General"
)

func (c Category) String() string { return string(c) }

type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules must stay in priority order: the first rule with a hit wins.
var categoryRules = []categoryRule{
	{CategoryModelRelease, []string{"model", "gpt", "claude", "gemini", "release", "launch", "announce"}},
	{CategoryInvestment, []string{"investment", "funding", "million", "billion", "raise", "capital"}},
	{CategoryResearch, []string{"research", "benchmark", "study", "paper", "academic"}},
	{CategoryEthics, []string{"ethics", "bias", "fairness", "regulation", "safety"}},
	{CategoryCompetitiveDynamics, []string{"competition", "versus", "vs", "battle", "rival"}},
	{CategoryCreativeApplication, []string{"creative", "art", "music", "generation", "synthesis"}},
}

var (
	keywordMatcher *ahocorasick.Matcher
	// keywordRule[i] is the index into categoryRules owning dictionary entry i.
	keywordRule []int
)

func init() {
	var dictionary []string
	for ruleIdx, rule := range categoryRules {
		for _, kw := range rule.keywords {
			dictionary = append(dictionary, kw)
			keywordRule = append(keywordRule, ruleIdx)
		}
	}
	keywordMatcher = ahocorasick.NewStringMatcher(dictionary)
}

// Categorize assigns a Category from a case-insensitive substring scan of title and content.
func Categorize(title, content string) Category {
	text := strings.ToLower(title + " " + content)

	best := len(categoryRules)
	for _, hit := range keywordMatcher.MatchThreadSafe([]byte(text)) {
		if ruleIdx := keywordRule[hit]; ruleIdx < best {
			best = ruleIdx
		}
	}

	if best == len(categoryRules) {
		return CategoryGeneral
	}
	return categoryRules[best].category
}
