package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rungdb/rung/internal/runner"
)

const executedAtFormat = "2006-01-02 15:04:05"

// printStatus renders the ledger/directory comparison as a table, one
// row per migration: applied entries first in execution order, then
// pending files in version order.
func printStatus(out io.Writer, status *runner.Status) error {
	conflicting := make(map[string]bool, len(status.Conflicts))
	for _, version := range status.Conflicts {
		conflicting[version] = true
	}

	header := []string{"VERSION", "NAME", "STATE", "EXECUTED AT", "MS"}
	data := make([][]string, 0, len(status.Applied)+len(status.Pending))

	for _, entry := range status.Applied {
		state := "applied"
		if conflicting[entry.Version] {
			state = "conflict"
		}

		data = append(data, []string{
			entry.Version,
			entry.Name,
			state,
			entry.ExecutedAt.Format(executedAtFormat),
			strconv.Itoa(entry.ExecutionTimeMs),
		})
	}

	for _, mig := range status.Pending {
		data = append(data, []string{mig.Version, mig.Name, "pending", "", ""})
	}

	if err := renderTable(header, data, out); err != nil {
		return fmt.Errorf("rendering status table: %w", err)
	}

	return nil
}

func renderTable(header []string, data [][]string, w io.Writer) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(
			tw.Rendition{
				Borders: tw.BorderNone,
				Symbols: tw.NewSymbols(tw.StyleASCII),
				Settings: tw.Settings{
					Lines: tw.Lines{
						ShowHeaderLine: tw.Off,
						ShowFooterLine: tw.Off,
						ShowTop:        tw.Off,
						ShowBottom:     tw.Off,
					},
					Separators: tw.Separators{
						ShowHeader:     tw.Off,
						ShowFooter:     tw.Off,
						BetweenRows:    tw.Off,
						BetweenColumns: tw.Off,
					},
				},
			},
		)),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:    tw.CellAlignment{Global: tw.AlignLeft},
				ColMaxWidths: tw.CellWidth{Global: 60},
			},
		}),
	)

	table.Header(header)

	if err := table.Bulk(data); err != nil {
		return err //nolint:wrapcheck // This is wrapped by the caller.
	}

	return table.Render() //nolint:wrapcheck // This is wrapped by the caller.
}
