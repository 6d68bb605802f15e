package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"at-updater/internal/diagnostic"
)

// ReportVersion is the schema version of the YAML report.
const ReportVersion = "1"

// Report is the reviewable record of one resolution run.
type Report struct {
	Version string        `yaml:"version"`
	Summary Summary       `yaml:"summary"`
	Rules   []ReportEntry `yaml:"rules,omitempty"`
}

// ReportEntry describes one rule line. Passthrough lines are not listed.
type ReportEntry struct {
	Line        string                  `yaml:"line"`
	Status      Status                  `yaml:"status"`
	Outputs     []string                `yaml:"outputs,omitempty"`
	Diagnostics []diagnostic.Diagnostic `yaml:"diagnostics,omitempty"`
}

// ExportReport builds a Report from a resolved plan.
func ExportReport(p *Plan) *Report {
	report := &Report{
		Version: ReportVersion,
		Summary: p.Summary(),
	}

	for _, e := range p.Entries {
		if e.Status == StatusPassthrough {
			continue
		}

		report.Rules = append(report.Rules, ReportEntry{
			Line:        e.Line,
			Status:      e.Status,
			Outputs:     e.Outputs,
			Diagnostics: e.Diagnostics,
		})
	}

	return report
}

// ExportReportYAML renders the report of a plan as YAML.
func ExportReportYAML(p *Plan) ([]byte, error) {
	return yaml.Marshal(ExportReport(p))
}

// WriteReport writes the YAML report of a plan to path.
func WriteReport(p *Plan, path string) error {
	data, err := ExportReportYAML(p)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return nil
}
