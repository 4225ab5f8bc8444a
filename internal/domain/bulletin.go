package domain

import (
	"strconv"
	"time"
)

// BulletinRequest is everything the writer collaborator needs for one bulletin.
type BulletinRequest struct {
	Articles     []Article
	Start        time.Time
	End          time.Time
	DisplayRange string
}

// NewBulletinRequest assembles the filtered articles and their window.
func NewBulletinRequest(articles []Article, window DateWindow) BulletinRequest {
	return BulletinRequest{
		Articles:     articles,
		Start:        window.Start(),
		End:          window.End(),
		DisplayRange: window.Display(),
	}
}

// Bulletin is the outcome of a generation run.
type Bulletin struct {
	RunID        string
	Content      string
	DateRange    string
	WindowStart  time.Time
	WindowEnd    time.Time
	ArticleCount int
	Articles     []Article
	// WriterFailed is set when Content carries a failure notice instead of a bulletin.
	WriterFailed bool
	GeneratedAt  time.Time
}

// ArticleView is the flat, display-ready form of an Article.
type ArticleView struct {
	Title    string `json:"title"`
	Source   string `json:"source"`
	Date     string `json:"date,omitempty"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// View flattens the article; Date is YYYY-MM-DD or empty when unknown.
func (a Article) View() ArticleView {
	view := ArticleView{
		Title:    a.title,
		Source:   a.source,
		Summary:  a.summary,
		Category: a.category.String(),
		URL:      a.url,
	}
	if published, ok := a.PublishedAt(); ok {
		view.Date = published.Format(time.DateOnly)
	}
	return view
}

// BulletinTitle heads every saved or delivered bulletin.
const BulletinTitle = "Haftalık AI Bülteni"

// Document renders the header (title, date range, article count) followed by the content.
func (b Bulletin) Document() string {
	return BulletinTitle + "\n" +
		b.DateRange + "\n" +
		"Haber Sayısı: " + strconv.Itoa(b.ArticleCount) + "\n\n" +
		b.Content
}

// EmptyBulletinContent is used instead of a writer call when no article survived filtering.
func EmptyBulletinContent(window DateWindow) string {
	return "Haftalık Yapay Zeka Bülteni (" + window.Display() + ")\n\nBu tarih aralığında haber bulunamadı."
}

// WriterFailureContent is the soft-failure notice shown instead of a bulletin.
func WriterFailureContent(err error) string {
	return "Bülten oluşturulamadı: " + err.Error()
}
