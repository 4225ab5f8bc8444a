package presenter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"NewsBulletin/internal/domain"
)

const (
	filenamePrefix  = "haber_bulteni_"
	filenameLayout  = "20060102_150405"
	titleWidthLimit = 60
	underlineRune   = "="
)

// DefaultFilename names the bulletin file after its generation time.
func DefaultFilename(at time.Time) string {
	return filenamePrefix + at.Format(filenameLayout) + ".txt"
}

// PrintBulletin writes the bulletin header underlined to its display width, then the content.
func PrintBulletin(w io.Writer, b domain.Bulletin) error {
	heading := domain.BulletinTitle + " (" + b.DateRange + ")"
	_, err := fmt.Fprintf(w, "%s\n%s\nHaber Sayısı: %d\n\n%s\n",
		heading, underline(heading), b.ArticleCount, b.Content)
	return err
}

// SaveBulletin writes the bulletin document into dir; an empty name uses DefaultFilename.
func SaveBulletin(dir, name string, b domain.Bulletin) (string, error) {
	if name == "" {
		at := b.GeneratedAt
		if at.IsZero() {
			at = time.Now()
		}
		name = DefaultFilename(at)
	}

	path := name
	if !filepath.IsAbs(name) && dir != "" {
		path = filepath.Join(dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.Document()), 0o644); err != nil {
		return "", fmt.Errorf("write bulletin: %w", err)
	}
	return path, nil
}

// PrintArticles renders the collected articles as a table.
func PrintArticles(w io.Writer, window domain.DateWindow, articles []domain.Article) {
	heading := "Haberler (" + window.Display() + ")"
	fmt.Fprintf(w, "%s\n%s\n", heading, underline(heading))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Tarih", "Kategori", "Kaynak", "Başlık"})
	for i, a := range articles {
		view := a.View()
		date := view.Date
		if date == "" {
			date = "-"
		}
		t.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			date,
			view.Category,
			view.Source,
			runewidth.Truncate(view.Title, titleWidthLimit, "…"),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Toplam", strconv.Itoa(len(articles))})
	t.Render()
}

func underline(s string) string {
	return strings.Repeat(underlineRune, runewidth.StringWidth(s))
}
