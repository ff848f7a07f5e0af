package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ticklist/model"
)

var (
	flagExportOutput string
	flagExportJSON   bool
	flagExportJSONL  bool
	flagExportYAML   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks to stdout or a file",
	Long: `Export all tasks to stdout or a file.

By default the output is a markdown checklist. Use --json, --jsonl, or
--yaml for machine-readable formats; those round-trip through
'ticklist import'.

Examples:
  ticklist export                       # markdown checklist to stdout
  ticklist export -o tasks.md           # export to a file
  ticklist export --json -o backup.json
  ticklist export --jsonl               # one task per line
  ticklist export --yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modes := 0
		for _, set := range []bool{flagExportJSON, flagExportJSONL, flagExportYAML} {
			if set {
				modes++
			}
		}
		if modes > 1 {
			return fmt.Errorf("--json, --jsonl, and --yaml are mutually exclusive")
		}

		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		doc := exportDocument{
			ExportedAt: time.Now().Format(time.RFC3339),
			Theme:      svc.Theme(),
			Tasks:      svc.Tasks(),
		}

		var output io.Writer = os.Stdout
		if flagExportOutput != "" {
			f, err := os.Create(flagExportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			output = f
		}

		switch {
		case flagExportJSON:
			return exportJSON(output, doc)
		case flagExportJSONL:
			return exportJSONL(output, doc.Tasks)
		case flagExportYAML:
			return exportYAML(output, doc)
		default:
			return exportMarkdown(output, doc)
		}
	},
}

// exportDocument is the file shape for JSON and YAML exports. Tasks keep
// their storage serialization, so an export can be imported back verbatim.
type exportDocument struct {
	ExportedAt string       `json:"exportedAt" yaml:"exportedAt"`
	Theme      model.Theme  `json:"theme" yaml:"theme"`
	Tasks      []model.Task `json:"tasks" yaml:"tasks"`
}

func exportJSON(w io.Writer, doc exportDocument) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func exportJSONL(w io.Writer, tasks []model.Task) error {
	encoder := json.NewEncoder(w)
	for _, t := range tasks {
		if err := encoder.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

func exportYAML(w io.Writer, doc exportDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}

func exportMarkdown(w io.Writer, doc exportDocument) error {
	fmt.Fprintln(w, "# Tasks")
	fmt.Fprintln(w)

	if len(doc.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}

	done := 0
	for _, t := range doc.Tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "%d %s, %d done. Exported %s.\n", len(doc.Tasks), taskWord(len(doc.Tasks)), done, doc.ExportedAt)
	fmt.Fprintln(w)

	for _, t := range doc.Tasks {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(w, "- [%s] %s (added %s)\n", box, t.Title, t.CreatedTime().Format("2006-01-02"))
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&flagExportJSON, "json", false, "Output as a JSON document")
	exportCmd.Flags().BoolVar(&flagExportJSONL, "jsonl", false, "Output as JSON Lines (one task per line)")
	exportCmd.Flags().BoolVar(&flagExportYAML, "yaml", false, "Output as a YAML document")

	rootCmd.AddCommand(exportCmd)
}
