package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"FinCycle/internal/services/export"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the indicator table as CSV",
		Long: `Export the indicator table as CSV.

Without --out the CSV goes to stdout. When --out is a directory the file is
named after today's date, e.g. indicators-2024-01-31.csv.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := initBoard(cmd.Context())
			if err != nil {
				return err
			}
			b, err := board.Board(cmd.Context(), 0)
			if err != nil {
				return err
			}

			if out == "" {
				return export.WriteCSV(cmd.OutOrStdout(), b.Indicators)
			}
			path := exportPath(out, b.GeneratedAt.Format("2006-01-02"))
			if err := writeFile(path, func(w io.Writer) error { return export.WriteCSV(w, b.Indicators) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d indicators to %s\n", len(b.Indicators), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory")
	return cmd
}

func exportPath(out, date string) string {
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, export.Filename(date))
	}
	return out
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
