package llm

import (
	"fmt"
	"strings"

	"NewsBulletin/internal/domain"
)

const systemPrompt = "Sen yapay zeka sektörünü yakından izleyen kıdemli bir teknoloji analistisin. " +
	"Yöneticiler, araştırmacılar ve yatırımcılar için teknik ayrıntı, pazar dinamikleri ve " +
	"sektörel etkileri birlikte değerlendiren profesyonel Türkçe bültenler yazıyorsun."

const maxBulletinItems = 7

// FormatArticles renders the article block handed to the model.
func FormatArticles(req domain.BulletinRequest) string {
	start := domain.FormatLocalizedDay(req.Start)
	end := domain.FormatLocalizedDay(req.End)

	var sb strings.Builder
	fmt.Fprintf(&sb, "TARGET DATE RANGE: %s to %s\n\n", start, end)

	for _, article := range req.Articles {
		fmt.Fprintf(&sb, "HABER BAŞLIK: %s\n", article.Title())
		fmt.Fprintf(&sb, "KAYNAK: %s\n", article.Source())
		fmt.Fprintf(&sb, "URL: %s\n", article.URL())
		if published, ok := article.PublishedAt(); ok {
			fmt.Fprintf(&sb, "YAYIN TARİHİ: %s\n", domain.FormatLocalizedDay(published))
		}
		fmt.Fprintf(&sb, "İÇERİK: %s\n", article.Summary())
		fmt.Fprintf(&sb, "KATEGORİ: %s\n", article.Category())
		fmt.Fprintf(&sb, "UYARI: Yalnızca %s ile %s arasında yayımlanan haberleri dahil et\n", start, end)
		sb.WriteString(strings.Repeat("-", 80))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// BuildPrompt wraps the article block with the bulletin-writing instructions.
func BuildPrompt(req domain.BulletinRequest) string {
	start := domain.FormatLocalizedDay(req.Start)
	end := domain.FormatLocalizedDay(req.End)

	return fmt.Sprintf(`Write an in-depth weekly AI bulletin in professional Turkish.

DATE WINDOW: %[1]s to %[2]s. Only use news published inside this window and reject anything else.

For each news item:
- a short headline followed by several analytical paragraphs covering context, technical details,
  market impact, risks and outlook
- company names in **bold**
- the item's URL at the end as "Kaynak: <url>"

Rules:
- never invent news; use only the facts in the content below
- at most %[3]d news items
- if nothing falls inside the window, say so clearly

Content:
%[4]s`, start, end, maxBulletinItems, FormatArticles(req))
}
