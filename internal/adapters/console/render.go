package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mikey/llm-mail-triage/internal/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorPurple = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	colorGold   = lipgloss.AdaptiveColor{Dark: "#D7AF00", Light: "#975A16"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGold)
	labelStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	valueStyle   = lipgloss.NewStyle().Foreground(colorPurple)
	noticeStyle  = lipgloss.NewStyle().Foreground(colorOrange)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)

// percentColor bands a likelihood: under 25 green, under 50 yellow, under 75 orange, otherwise red
func percentColor(percent int) lipgloss.AdaptiveColor {
	switch {
	case percent < 25:
		return colorGreen
	case percent < 50:
		return colorYellow
	case percent < 75:
		return colorOrange
	default:
		return colorRed
	}
}

// Renderer writes styled triage output
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Banner prints the session title
func (r *Renderer) Banner(title string) {
	fmt.Fprintln(r.out, bannerStyle.Render(title))
}

// Line prints plain text
func (r *Renderer) Line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Notice prints a highlighted note
func (r *Renderer) Notice(format string, args ...any) {
	fmt.Fprintln(r.out, noticeStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, errorStyle.Render("Error: ")+err.Error())
}

// Classification prints the classification summary and the likelihood table
func (r *Renderer) Classification(c core.EmailClassification) {
	fmt.Fprintln(r.out, sectionStyle.Render("- CLASSIFICATION -"))
	r.field("Summary    : ", c.Summary, false)
	r.field("Likely Type: ", c.LikelyTypeOfEmail, true)
	r.field("Main Topics: ", c.MainTopics, true)
	fmt.Fprintln(r.out, percentTable(c))
}

// Action prints a recommended action
func (r *Renderer) Action(a core.EmailAction) {
	fmt.Fprintln(r.out, sectionStyle.Render("- ACTION -"))
	r.field("Recommendation: ", a.Recommendation, false)
	r.field("Action        : ", a.Action.String(), true)
	if a.Action == core.ActionMoveToFolder {
		r.field("Folder Name   : ", a.FolderName, true)
	}
}

// Result prints a complete triage result
func (r *Renderer) Result(result *core.TriageResult) {
	if result.Email != nil {
		fmt.Fprintln(r.out, sectionStyle.Render("- EMAIL -"))
		r.field("From   : ", result.Email.From, false)
		r.field("To     : ", strings.Join(result.Email.To, ", "), false)
		r.field("Subject: ", result.Email.Subject, false)
	}
	if result.Skipped {
		r.Notice("Skipped: %s", result.SkipReason)
		return
	}
	r.Classification(result.Classification)
	r.Action(result.Action)
	fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("Triage %s took %v", result.ID, result.Duration)))
}

func (r *Renderer) field(label, value string, highlight bool) {
	if highlight {
		value = valueStyle.Render(value)
	}
	fmt.Fprintln(r.out, labelStyle.Render(label)+value)
}

// percentTable renders the eight likelihoods as a two column table
func percentTable(c core.EmailClassification) string {
	title := cases.Title(language.English)
	percentages := c.Percentages()

	rows := make([][]string, 0, len(percentages))
	for _, p := range percentages {
		rows = append(rows, []string{title.String(p.Type), fmt.Sprintf("%d%%", p.Percent)})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Type", "% Chance").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col == 1 && row >= 0 && row < len(percentages) {
				return style.Align(lipgloss.Center).Foreground(percentColor(percentages[row].Percent))
			}
			return style
		}).
		String()
}
