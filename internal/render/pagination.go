package render

import (
	"fmt"
	"strings"

	"github.com/ramanasai/magicmind/internal/journal"
)

// Pagination describes one page of a sorted entry list.
type Pagination struct {
	Total      int
	PerPage    int
	Current    int
	Offset     int
	TotalPages int
}

// NewPagination clamps current into [1, TotalPages]. A non-positive perPage
// puts everything on one page.
func NewPagination(total, perPage, current int) *Pagination {
	if perPage <= 0 {
		perPage = max(total, 1)
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	current = max(1, min(current, totalPages))
	return &Pagination{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: totalPages,
	}
}

// Range returns the 1-indexed bounds of the current page.
func (p *Pagination) Range() (start, end int) {
	return p.Offset + 1, min(p.Offset+p.PerPage, p.Total)
}

func (p *Pagination) HasNext() bool { return p.Current < p.TotalPages }
func (p *Pagination) HasPrev() bool { return p.Current > 1 }

// Slice returns the entries on the current page.
func (p *Pagination) Slice(entries []journal.Entry) []journal.Entry {
	if p.Offset >= len(entries) {
		return nil
	}
	return entries[p.Offset:min(p.Offset+p.PerPage, len(entries))]
}

// List builds the EntryList for the current page of entries.
func (p *Pagination) List(entries []journal.Entry) EntryList {
	list := EntryList{Entries: p.Slice(entries), Total: p.Total}
	if p.TotalPages > 1 {
		list.Page = p.Current
		list.PerPage = p.PerPage
		list.TotalPages = p.TotalPages
	}
	return list
}

func (p *Pagination) FormatSummary() string {
	if p.Total == 0 {
		return "No entries"
	}
	start, end := p.Range()
	if p.TotalPages == 1 {
		return fmt.Sprintf("Showing %d-%d of %d entr%s", start, end, p.Total, plural(p.Total))
	}
	return fmt.Sprintf("Page %d of %d | Showing %d-%d of %d entr%s",
		p.Current, p.TotalPages, start, end, p.Total, plural(p.Total))
}

func (p *Pagination) FormatNavigation() string {
	var hints []string
	if p.HasPrev() {
		hints = append(hints, fmt.Sprintf("use --page %d for previous", p.Current-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("use --page %d for next", p.Current+1))
	}
	return strings.Join(hints, ", ")
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
