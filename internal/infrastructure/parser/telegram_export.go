package parser

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/source"
	"LectureIndexer/internal/textnorm"
)

var (
	clipMarkerExpr = regexp.MustCompile(`مدة الصوتية\s*[:：]?\s*(\d{1,2}:\d{2}(?::\d{2})?)`)
	clipExpr       = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
	exportPageExpr = regexp.MustCompile(`^messages(\d*)\.html$`)
)

// TelegramExportReader parses Telegram Desktop HTML chat exports.
type TelegramExportReader struct{}

var _ source.Reader = (*TelegramExportReader)(nil)

// NewTelegramExportReader builds the reader.
func NewTelegramExportReader() *TelegramExportReader {
	return &TelegramExportReader{}
}

// Name identifies the format inside the registry.
func (t *TelegramExportReader) Name() string {
	return "telegram-html"
}

// Read parses one export page, or every messages*.html page of an export directory.
// Options: filename_contains keeps only audio files whose link contains the value.
func (t *TelegramExportReader) Read(ctx context.Context, req source.Request) ([]domain.Message, error) {
	pages, err := exportPages(req.Path)
	if err != nil {
		return nil, err
	}

	filter := req.Option("filename_contains", "")
	var messages []domain.Message
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := loadDocument(page)
		if err != nil {
			return nil, err
		}
		messages = append(messages, parseExport(doc, filter)...)
	}
	return messages, nil
}

func loadDocument(file string) (*goquery.Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", file, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", file, err)
	}
	return doc, nil
}

// exportPages expands a directory into its pages in export order
// (messages.html, messages2.html, ...).
func exportPages(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat export %s: %w", p, err)
	}
	if !info.IsDir() {
		return []string{p}, nil
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("list export %s: %w", p, err)
	}
	type page struct {
		name  string
		order int
	}
	var found []page
	for _, e := range entries {
		m := exportPageExpr.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		order := 1
		if m[1] != "" {
			order, _ = strconv.Atoi(m[1])
		}
		found = append(found, page{name: e.Name(), order: order})
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("export %s: no messages*.html pages", p)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].order < found[j].order })

	pages := make([]string, len(found))
	for i, f := range found {
		pages[i] = filepath.Join(p, f.name)
	}
	return pages, nil
}

// parseExport emits one message per audio attachment.
func parseExport(doc *goquery.Document, filter string) []domain.Message {
	var messages []domain.Message
	doc.Find("div.message").Each(func(_ int, msg *goquery.Selection) {
		links := msg.Find("a.media_audio_file")
		if links.Length() == 0 {
			return
		}

		text := messageText(msg.Find("div.text").First())
		date := ""
		if title, ok := msg.Find("div.date.details").First().Attr("title"); ok {
			if fields := strings.Fields(title); len(fields) > 0 {
				date = fields[0]
			}
		}

		links.Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			href = strings.TrimSpace(href)
			if href == "" || (filter != "" && !strings.Contains(href, filter)) {
				return
			}
			messages = append(messages, domain.Message{
				Text:          text,
				FileName:      path.Base(href),
				ClipLength:    clipLength(msg, link, text),
				GregorianDate: date,
			})
		})
	})
	return messages
}

// messageText keeps line breaks, which the extractors rely on for labeled fields.
func messageText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	sel.Find("br").ReplaceWithHtml("\n")
	lines := strings.Split(sel.Text(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func clipLength(msg, link *goquery.Selection, text string) string {
	candidates := []string{
		link.Find("div.status.details").First().Text(),
		msg.Find("div.duration.details").First().Text(),
	}
	for _, c := range candidates {
		if m := clipExpr.FindString(textnorm.Digits(c)); m != "" {
			return m
		}
	}
	if m := clipMarkerExpr.FindStringSubmatch(textnorm.Digits(text)); m != nil {
		return m[1]
	}
	return ""
}
