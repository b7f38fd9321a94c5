package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"

	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

const maxCommentCells = 40

// renderView formats a session view for the terminal.
func renderView(lang language.Tag, v application.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s]", v.State)
	if v.Degraded {
		b.WriteString(" [offline]")
	}
	b.WriteByte('\n')

	if v.StatusKey != "" {
		b.WriteString(i18n.T(lang, v.StatusKey) + "\n")
	}
	if v.OverlayKey != "" && v.OverlayKey != v.StatusKey {
		b.WriteString(i18n.T(lang, v.OverlayKey) + "\n")
	}
	if v.ServerMessage != "" {
		b.WriteString("> " + v.ServerMessage + "\n")
	}

	if v.State == model.LockStateUnlocked || v.Degraded {
		b.WriteString(renderRows(lang, v.Rows))
	}
	if v.PromptVisible {
		b.WriteString("(login)\n")
	}
	return b.String()
}

// renderRows formats submissions as an aligned table.
func renderRows(lang language.Tag, rows []model.Submission) string {
	if len(rows) == 0 {
		return i18n.T(lang, i18n.KeyTableEmpty) + "\n"
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tEmail\t%s\t%s\t%s\t%s\t%s\n",
		i18n.T(lang, i18n.KeyFormCompany),
		i18n.T(lang, i18n.KeyFormComment),
		i18n.T(lang, i18n.KeyColumnCountry),
		i18n.T(lang, i18n.KeyColumnCreated),
		i18n.T(lang, i18n.KeyColumnSource),
	)
	for _, s := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.Email,
			s.Company,
			cell(s.Comment),
			orDash(s.Country),
			s.CreatedAt.UTC().Format(time.DateTime),
			s.Source,
		)
	}
	_ = tw.Flush()
	return b.String()
}

// cell flattens a comment to one short line.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxCommentCells {
		s = string(r[:maxCommentCells-1]) + "…"
	}
	return orDash(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
