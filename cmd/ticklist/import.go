package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ticklist/model"
)

var flagImportReplace bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tasks from a JSON, JSONL, or YAML file",
	Long: `Import tasks from a file produced by 'ticklist export' or compatible.

The format is chosen by extension: .jsonl is read line by line, .yaml and
.yml as a YAML document, anything else as JSON. JSON and YAML accept
either the export document shape or a bare task array.

Imported tasks are merged after the existing list; tasks whose id already
exists are skipped. With --replace the whole list is swapped for the
imported one. Entries with an empty title or a duplicate id within the
file are dropped.

Examples:
  ticklist import backup.json
  ticklist import tasks.jsonl
  ticklist import snapshot.yaml --replace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := readImportFile(args[0])
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			return fmt.Errorf("no tasks found in %s", args[0])
		}

		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		if flagImportReplace {
			kept := svc.ReplaceTasks(tasks)
			fmt.Printf("Replaced list with %d imported %s\n", len(kept), taskWord(len(kept)))
			return nil
		}

		merged, added, skipped := mergeTasks(svc.Tasks(), tasks)
		svc.ReplaceTasks(merged)

		fmt.Printf("Imported %d %s\n", added, taskWord(added))
		if skipped > 0 {
			fmt.Printf("Skipped %d existing %s\n", skipped, taskWord(skipped))
		}
		return nil
	},
}

// mergeTasks appends imported tasks whose id is not already present to the
// end of the existing list, keeping current tasks in place. Skipped counts
// the imported tasks dropped as duplicates.
func mergeTasks(existing, imported []model.Task) (merged []model.Task, added, skipped int) {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}

	merged = existing
	for _, t := range imported {
		if seen[t.ID] {
			skipped++
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
		added++
	}
	return merged, added, skipped
}

// readImportFile parses a task list from path, picking the decoder by file
// extension. The result is normalized: trimmed titles, no empty titles, no
// duplicate ids.
func readImportFile(path string) ([]model.Task, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open import file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return parseTasksJSONL(f)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read import file: %w", err)
		}
		return parseTasksYAML(data)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read import file: %w", err)
		}
		return parseTasksJSON(data)
	}
}

func parseTasksJSON(data []byte) ([]model.Task, error) {
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err == nil {
		return model.NormalizeTasks(doc.Tasks), nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return model.NormalizeTasks(tasks), nil
}

func parseTasksYAML(data []byte) ([]model.Task, error) {
	var doc exportDocument
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return model.NormalizeTasks(doc.Tasks), nil
	}
	var tasks []model.Task
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return model.NormalizeTasks(tasks), nil
}

func parseTasksJSONL(r io.Reader) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)

	// Increase scanner buffer size to handle long lines (up to 1MB)
	const maxCapacity = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	var tasks []model.Task
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var t model.Task
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", lineNum, err)
		}
		tasks = append(tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return model.NormalizeTasks(tasks), nil
}

func init() {
	importCmd.Flags().BoolVar(&flagImportReplace, "replace", false, "Replace the whole list instead of merging")

	rootCmd.AddCommand(importCmd)
}
