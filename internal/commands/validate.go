package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freedesktop.org/appstream/internal/metadata"
	"freedesktop.org/appstream/internal/validation"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate metadata files",
	Long: `Parse the given metadata documents and check every component against
the authoring rules: identifier conventions, required fields, URL shapes,
release ordering and screenshot consistency.

The exit status is non-zero when any file fails to parse or any component
fails validation.

Examples:
  appstream validate org.example.App.metainfo.xml
  appstream validate /usr/share/metainfo/*.xml --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "output format (text, json)")
}

type fileReport struct {
	File     string                         `json:"file"`
	Error    string                         `json:"error,omitempty"`
	Warnings []string                       `json:"warnings,omitempty"`
	Results  map[string]*validation.ValidationResult `json:"results,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := validation.New()
	failed := false
	var reports []fileReport

	for _, file := range args {
		report := fileReport{File: file, Results: map[string]*validation.ValidationResult{}}
		parsed, err := metadata.ParseFile(file)
		if err != nil {
			report.Error = err.Error()
			failed = true
			reports = append(reports, report)
			continue
		}
		report.Warnings = parsed.Warnings
		if len(parsed.Warnings) > 0 {
			failed = true
		}
		for _, c := range parsed.Components {
			result := v.ValidateComponent(c)
			report.Results[c.ID] = result
			if !result.Valid {
				failed = true
			}
		}
		reports = append(reports, report)
	}

	if validateFormat == "json" {
		if err := printJSON(reports); err != nil {
			return err
		}
	} else {
		printValidationReports(reports)
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func printValidationReports(reports []fileReport) {
	for _, r := range reports {
		if r.Error != "" {
			fmt.Printf("✗ %s: %s\n", r.File, r.Error)
			continue
		}
		clean := len(r.Warnings) == 0
		for _, result := range r.Results {
			if !result.Valid {
				clean = false
			}
		}
		if clean {
			fmt.Printf("✓ %s\n", r.File)
			continue
		}
		fmt.Printf("✗ %s\n", r.File)
		for _, w := range r.Warnings {
			fmt.Printf("  W: %s\n", w)
		}
		for id, result := range r.Results {
			for _, e := range result.Errors {
				fmt.Printf("  E: %s: %s: %s\n", id, e.Field, e.Message)
			}
		}
	}
	_ = os.Stdout.Sync()
}
