package config

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding. Path points into the config
// ("source.path", "sinks[1].kind", ...).
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

// ValidatePipeline checks structural validity. It never stops at the first
// problem; callers decide whether any SeverityError issue aborts the run.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if p.Source.Path == "" {
		issues = append(issues, Issue{SeverityError, "source.path", "input path is required"})
	}

	switch p.Lookup.OnMissing {
	case "", "copy", "reject", "flag":
	default:
		issues = append(issues, Issue{
			SeverityError, "lookup.on_missing",
			fmt.Sprintf("unknown policy %q (want copy, reject or flag)", p.Lookup.OnMissing),
		})
	}

	if enc := p.Source.Options.String("encoding", ""); enc != "" {
		switch enc {
		case "utf-8", "windows-1252", "windows-1250":
		default:
			issues = append(issues, Issue{
				SeverityError, "source.options.encoding",
				fmt.Sprintf("unsupported encoding %q", enc),
			})
		}
	}

	for i, s := range p.Sinks {
		switch s.Kind {
		case "csv", "workbook":
		default:
			issues = append(issues, Issue{
				SeverityError, fmt.Sprintf("sinks[%d].kind", i),
				fmt.Sprintf("unknown sink kind %q", s.Kind),
			})
		}
		if s.Path == "" {
			issues = append(issues, Issue{
				SeverityError, fmt.Sprintf("sinks[%d].path", i),
				"output path is required",
			})
		}
		if s.Kind == "workbook" && s.Sheet == "" {
			issues = append(issues, Issue{
				SeverityWarning, fmt.Sprintf("sinks[%d].sheet", i),
				"no sheet name given; defaulting to Sheet1",
			})
		}
	}

	if p.Storage.Kind != "" {
		switch p.Storage.Kind {
		case "sqlite", "postgres", "mssql":
		default:
			issues = append(issues, Issue{
				SeverityError, "storage.kind",
				fmt.Sprintf("unknown storage kind %q", p.Storage.Kind),
			})
		}
		if p.Storage.Kind != "sqlite" && p.Storage.DSN == "" {
			issues = append(issues, Issue{SeverityError, "storage.dsn", "dsn is required"})
		}
	}

	return issues
}
