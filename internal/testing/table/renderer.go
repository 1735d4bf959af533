// Package table renders run results as console tables.
package table

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// Renderer turns a header row and body rows into a boxed console table.
type Renderer interface {
	Render(headers []string, rows [][]string) string
}

type renderer struct {
	log logrus.FieldLogger
}

// NewRenderer creates a new table renderer
func NewRenderer(log logrus.FieldLogger) Renderer {
	return &renderer{
		log: log.WithField("component", "table.renderer"),
	}
}

func (r *renderer) Render(headers []string, rows [][]string) string {
	var sb strings.Builder

	table := tablewriter.NewWriter(&sb)
	table.SetHeader(headers)

	// Status cells carry ANSI codes; wrapping would split them.
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")

	table.AppendBulk(rows)
	table.Render()

	r.log.WithFields(logrus.Fields{
		"columns": len(headers),
		"rows":    len(rows),
	}).Debug("rendered table")

	return sb.String()
}

var _ Renderer = (*renderer)(nil)
