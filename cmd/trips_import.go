package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/source"
)

var tripsImportCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Import trips exported from the web planner (.json or .jsonl)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsImport,
}

var tripsImportDryRun bool

func init() {
	tripsImportCmd.Flags().BoolVar(&tripsImportDryRun, "dry-run", false, "Parse and report without saving")
	tripsCmd.AddCommand(tripsImportCmd)
}

func runTripsImport(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

	files, err := source.Scan(args[0])
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}
	if len(files) == 0 {
		return errors.New("no .json or .jsonl files found")
	}

	st, closeStore := openStore()
	defer closeStore()
	prevActive := st.ActiveID()

	var imported, parseErrors, skipped int
	activate := ""
	rows := make([][]string, 0, len(files))
	showBar := len(files) > 1
	for i, f := range files {
		if showBar {
			progress("\r  Reading %s", cli.RenderProgressBar(i+1, len(files), 24))
		}
		res := source.ParseFile(f)
		if res.Err != nil {
			if showBar {
				progress("\n")
			}
			progress("  %s: %v\n", f.Path, res.Err)
			rows = append(rows, []string{f.Path, "error", "-", "-"})
			continue
		}
		parseErrors += res.ParseErrors
		skipped += res.Skipped

		if !tripsImportDryRun {
			for i, trip := range res.Trips {
				trip.Budget.Currency = config.NormalizeCurrencySymbol(trip.Budget.Currency, cfg.General.DefaultCurrency)
				added, err := st.Add(trip)
				if err != nil {
					return fmt.Errorf("saving %s: %w", trip.Destination, err)
				}
				if res.ActiveID != "" && res.SourceIDs[i] == res.ActiveID {
					activate = added.ID
				}
			}
		}
		imported += len(res.Trips)
		rows = append(rows, []string{
			f.Path,
			cli.FormatNumber(int64(len(res.Trips))),
			cli.FormatNumber(int64(res.Skipped)),
			cli.FormatNumber(int64(res.ParseErrors)),
		})
	}

	if showBar {
		progress("\n")
	}

	// Importing should not steal the selection unless the export names one.
	if activate == "" {
		activate = prevActive
	}
	if activate != "" && !tripsImportDryRun {
		if err := st.SetActive(activate); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Import",
		Headers: []string{"File", "Trips", "Skipped", "Bad lines"},
		Rows:    rows,
	}))

	verb := "Imported"
	if tripsImportDryRun {
		verb = "Would import"
	}
	fmt.Printf("  %s %d trips", verb, imported)
	if skipped > 0 || parseErrors > 0 {
		fmt.Printf(" (%d skipped, %d unreadable)", skipped, parseErrors)
	}
	fmt.Println()
	if a, ok := st.Active(); ok && !tripsImportDryRun {
		fmt.Printf("  Active trip: %s (%s)\n", a.Destination, shortID(a.ID))
	}
	return nil
}
