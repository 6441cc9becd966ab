package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
)

const ledeWidth = 60

// writeSummary renders one row per article instead of the raw page.
func writeSummary(w io.Writer, page domain.ArticlesPage) error {
	articles, err := domain.DecodeArticles(page.Articles)
	if err != nil {
		return fmt.Errorf("decode articles for topic %q: %w", page.Topic, err)
	}

	table := newTable(w)
	table.Header([]string{"ID", "Published", "Medium", "Title", "Lede"})
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			deref(a.PublishedAt),
			a.Medium,
			a.Title(),
			truncate(a.Lede(), ledeWidth),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
