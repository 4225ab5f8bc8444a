package search

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupExpr matches comments, doctypes and tags with a known HTML element name.
var markupExpr = regexp.MustCompile(`(?i)<!--|<!doctype|</?(?:a|abbr|article|aside|b|blockquote|body|br|caption|cite|code|dd|div|dl|dt|em|figcaption|figure|footer|h[1-6]|head|header|hr|html|i|img|li|link|main|meta|nav|noscript|ol|p|pre|s|script|section|small|span|strong|style|sub|sup|table|tbody|td|th|thead|time|tr|u|ul)(?:\s[^<>]*)?/?>`)

// PlainText strips HTML markup from a snippet. Text without markup keeps its
// layout; only character references are decoded.
func PlainText(content string) string {
	if !markupExpr.MatchString(content) {
		return html.UnescapeString(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return html.UnescapeString(content)
	}
	doc.Find("script, style, noscript").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}
