package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"FinCycle/internal/domain/models"
	"FinCycle/pkg/util"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func boardCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the phase table of every configured indicator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := initBoard(cmd.Context())
			if err != nil {
				return err
			}
			b, err := board.Board(cmd.Context(), tail)
			if err != nil {
				return err
			}
			return writeBoard(cmd.OutOrStdout(), b)
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 0, "values kept per indicator (0 uses the configured size)")
	return cmd
}

func writeBoard(out io.Writer, b *models.Board) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("Kind"),
		headerStyle.Render("Date"),
		headerStyle.Render("Latest"),
		headerStyle.Render("YoY %"),
		headerStyle.Render("Accel"),
		headerStyle.Render("Phase"),
	); err != nil {
		return err
	}

	for _, v := range b.Indicators {
		phase := string(v.Phase)
		if v.Phase == models.PhaseError {
			phase = errorStyle.Render(phase)
		} else if v.Phase != "" {
			phase += " (" + v.PhaseDescription + ")"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			v.Kind,
			v.LatestDate,
			formatCell(v.Summary.LatestValue),
			formatCell(v.Summary.YoY),
			formatCell(v.Summary.Acceleration),
			phase,
		); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\n%d indicators, strategy %s, generated %s\n",
		len(b.Indicators), b.Strategy, b.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return err
}

func formatCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return util.FormatDecimal(*v, 2)
}
