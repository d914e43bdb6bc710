package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/attendance-map/internal/dataset"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarise the attendance dataset",
	Long:  "Loads the configured GeoJSON and prints its year attributes, divisions and team counts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		return writeSummary(os.Stdout, summarize(cfg.Dataset.Source, ds), inspectFormat)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(inspectCmd)
}

type divisionSummary struct {
	Code  string `json:"code" yaml:"code"`
	Teams int    `json:"teams" yaml:"teams"`
}

type datasetSummary struct {
	Source     string            `json:"source" yaml:"source"`
	Features   int               `json:"features" yaml:"features"`
	Unassigned int               `json:"unassigned" yaml:"unassigned"`
	Years      []string          `json:"years" yaml:"years"`
	Divisions  []divisionSummary `json:"divisions" yaml:"divisions"`
}

func summarize(source string, ds *dataset.Dataset) datasetSummary {
	s := datasetSummary{
		Source:   source,
		Features: len(ds.Features()),
	}
	for _, y := range ds.Years() {
		s.Years = append(s.Years, y.String())
	}
	assigned := 0
	for _, code := range ds.Divisions() {
		n := len(ds.ByDivision(code))
		assigned += n
		s.Divisions = append(s.Divisions, divisionSummary{Code: code, Teams: n})
	}
	s.Unassigned = s.Features - assigned
	return s
}

func writeSummary(out io.Writer, s datasetSummary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(s), "inspect: encode json")
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return eris.Wrap(err, "inspect: encode yaml")
		}
		return eris.Wrap(enc.Close(), "inspect: encode yaml")
	case "table", "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "SOURCE\t%s\n", s.Source)
		_, _ = fmt.Fprintf(w, "FEATURES\t%d\n", s.Features)
		_, _ = fmt.Fprintf(w, "UNASSIGNED\t%d\n", s.Unassigned)
		_, _ = fmt.Fprintf(w, "YEARS\t%d\n", len(s.Years))
		for _, y := range s.Years {
			_, _ = fmt.Fprintf(w, "\t%s\n", y)
		}
		_, _ = fmt.Fprintln(w, "DIVISION\tTEAMS")
		for _, d := range s.Divisions {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", d.Code, d.Teams)
		}
		return w.Flush()
	default:
		return eris.Errorf("inspect: unknown format %q", format)
	}
}
