// Package render formats entries, streaks and insights for the terminal.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ramanasai/magicmind/internal/insights"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/streak"
)

type Format string

const (
	FormatDefault Format = "default"
	FormatCompact Format = "compact"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatQuiet   Format = "quiet"
)

// Formats lists the values accepted by --format.
var Formats = []Format{FormatDefault, FormatCompact, FormatJSON, FormatCSV, FormatQuiet}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatDefault, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Preview lengths used by the list and insights views.
const (
	ListPreview     = 50
	InsightsPreview = 100
)

type Config struct {
	Format   Format
	Width    int
	Color    bool
	Location *time.Location
	// Now anchors relative times such as "2 days ago".
	Now func() time.Time
}

func DefaultConfig() Config {
	width := 80
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 40 {
		width = v
	}
	return Config{
		Format:   FormatDefault,
		Width:    width,
		Color:    true,
		Location: time.Local,
		Now:      time.Now,
	}
}

// EntryList is one page of entries.
type EntryList struct {
	Entries    []journal.Entry `json:"entries"`
	Total      int             `json:"total"`
	Page       int             `json:"page,omitempty"`
	PerPage    int             `json:"per_page,omitempty"`
	TotalPages int             `json:"total_pages,omitempty"`
	Since      string          `json:"since,omitempty"`
}

type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Date      lipgloss.Style
	Text      lipgloss.Style
	Streak    lipgloss.Style
	Tip       lipgloss.Style
	Muted     lipgloss.Style
}

type Renderer struct {
	cfg    Config
	styles Styles
}

func NewRenderer(cfg Config) *Renderer {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	return &Renderer{cfg: cfg, styles: newStyles(cfg.Color)}
}

func newStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{plain, plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Date:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
		Text:      lipgloss.NewStyle(),
		Streak:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
		Tip:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#94E2D5")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func (r *Renderer) separator() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.cfg.Width, 60))) + "\n"
}

// RenderEntryList renders list in the configured format.
func (r *Renderer) RenderEntryList(list EntryList) (string, error) {
	switch r.cfg.Format {
	case FormatJSON:
		return r.renderJSON(list)
	case FormatCSV:
		return r.renderCSV(list)
	case FormatCompact:
		return r.renderCompact(list), nil
	case FormatQuiet:
		return r.renderQuiet(list), nil
	default:
		return r.renderDefault(list), nil
	}
}

func (r *Renderer) renderDefault(list EntryList) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("Journal"))
	if list.Since != "" {
		b.WriteString("  ")
		b.WriteString(r.styles.Meta.Render("since " + list.Since))
	}
	b.WriteString("\n")
	b.WriteString(r.separator())

	if len(list.Entries) == 0 {
		b.WriteString(r.styles.Muted.Render("No entries yet. Start with: magicmind write"))
		b.WriteString("\n")
		return b.String()
	}

	if list.TotalPages > 1 {
		p := NewPagination(list.Total, list.PerPage, list.Page)
		b.WriteString(r.styles.Meta.Render(p.FormatSummary()))
		b.WriteString("\n")
		b.WriteString(r.separator())
	}

	for _, e := range list.Entries {
		b.WriteString(r.renderEntry(e))
		b.WriteString(r.separator())
	}

	if list.TotalPages > 1 {
		p := NewPagination(list.Total, list.PerPage, list.Page)
		if nav := p.FormatNavigation(); nav != "" {
			b.WriteString(r.styles.Meta.Render(nav))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Renderer) renderEntry(e journal.Entry) string {
	ts := e.Timestamp.In(r.cfg.Location)
	meta := []string{
		r.styles.Date.Render(ts.Format("Mon Jan 2 2006")),
		r.styles.Meta.Render(ts.Format("15:04")),
		r.styles.Meta.Render(humanize.RelTime(e.Timestamp, r.cfg.Now(), "ago", "from now")),
		r.styles.ID.Render("[" + e.ID + "]"),
	}
	return strings.Join(meta, "  ") + "\n" +
		r.styles.Text.Render("  "+flatten(insights.Preview(e.Text, ListPreview))) + "\n"
}

func (r *Renderer) renderCompact(list EntryList) string {
	var b strings.Builder
	for _, e := range list.Entries {
		ts := e.Timestamp.In(r.cfg.Location).Format("2006-01-02 15:04")
		fmt.Fprintf(&b, "%s  %s\n", r.styles.Date.Render(ts), flatten(insights.Preview(e.Text, ListPreview)))
	}
	return b.String()
}

// renderQuiet prints full texts, one block per entry, for scripting.
func (r *Renderer) renderQuiet(list EntryList) string {
	var b strings.Builder
	for _, e := range list.Entries {
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderJSON(list EntryList) (string, error) {
	if list.Entries == nil {
		list.Entries = []journal.Entry{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (r *Renderer) renderCSV(list EntryList) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"id", "timestamp", "text"}); err != nil {
		return "", err
	}
	for _, e := range list.Entries {
		row := []string{e.ID, e.Timestamp.In(r.cfg.Location).Format(time.RFC3339), e.Text}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}

// RenderStreak renders the streak label.
func (r *Renderer) RenderStreak(n int) string {
	return r.styles.Streak.Render(streak.Label(n)) + "\n"
}

// RenderInsights renders each cluster with previews of its texts and the
// category tip.
func (r *Renderer) RenderInsights(clusters []insights.Cluster) string {
	if len(clusters) == 0 {
		return r.styles.Muted.Render("No insights yet. Keep writing.") + "\n"
	}
	var b strings.Builder
	for i, c := range clusters {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.styles.Title.Render(fmt.Sprintf("%s (%d)", c.Name, len(c.Texts))))
		b.WriteString("\n")
		for _, t := range c.Texts {
			b.WriteString(r.styles.Text.Render("  • " + flatten(insights.Preview(t, InsightsPreview))))
			b.WriteString("\n")
		}
		b.WriteString(r.styles.Tip.Render("  Tip: " + c.Tip))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPrompts renders a numbered prompt list.
func (r *Renderer) RenderPrompts(prompts []string) string {
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Meta.Render(fmt.Sprintf("%d.", i+1)), p)
	}
	return b.String()
}

// flatten folds line breaks so previews stay on one line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
