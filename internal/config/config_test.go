package config

import "testing"

func TestOptions_Accessors(t *testing.T) {
	t.Parallel()

	// Shapes match what encoding/json produces for an untyped map.
	o := Options{
		"has_header": true,
		"comma":      ";",
		"fields_per": float64(9),
		"header_map": map[string]any{"Cable Code": "cable_code", "bad": 7},
		"blank_rows": []any{float64(7), float64(8)},
	}

	if !o.Bool("has_header", false) {
		t.Errorf("Bool(has_header) = false, want true")
	}
	if got := o.Bool("missing", true); !got {
		t.Errorf("Bool default not honored")
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune(comma) = %q, want ';'", got)
	}
	if got := o.Rune("missing", ','); got != ',' {
		t.Errorf("Rune default = %q, want ','", got)
	}
	if got := o.Int("fields_per", 0); got != 9 {
		t.Errorf("Int(fields_per) = %d, want 9", got)
	}

	hm := o.StringMap("header_map")
	if hm["Cable Code"] != "cable_code" {
		t.Errorf("StringMap missing mapped key: %v", hm)
	}
	if _, ok := hm["bad"]; ok {
		t.Errorf("StringMap kept non-string value")
	}

	if got := o.Ints("blank_rows"); len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("Ints(blank_rows) = %v, want [7 8]", got)
	}
}

func TestValidatePipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		p          Pipeline
		wantErrors int
	}{
		{
			name: "valid csv pipeline",
			p: Pipeline{
				Source: Source{Path: "in.csv"},
				Sinks:  []Sink{{Kind: "csv", Path: "out.csv"}},
			},
			wantErrors: 0,
		},
		{
			name:       "missing source path",
			p:          Pipeline{Sinks: []Sink{{Kind: "csv", Path: "out.csv"}}},
			wantErrors: 1,
		},
		{
			name: "bad lookup policy and bad sink kind",
			p: Pipeline{
				Source: Source{Path: "in.csv"},
				Lookup: LookupPolicy{OnMissing: "explode"},
				Sinks:  []Sink{{Kind: "parquet", Path: "out"}},
			},
			wantErrors: 2,
		},
		{
			name: "non-sqlite storage needs dsn",
			p: Pipeline{
				Source:  Source{Path: "in.csv"},
				Storage: Storage{Kind: "postgres"},
			},
			wantErrors: 1,
		},
		{
			name: "unknown encoding",
			p: Pipeline{
				Source: Source{
					Path:    "in.csv",
					Options: Options{"encoding": "ebcdic"},
				},
			},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs int
			for _, iss := range ValidatePipeline(tt.p) {
				if iss.Severity == SeverityError {
					errs++
				}
			}
			if errs != tt.wantErrors {
				t.Fatalf("got %d errors, want %d: %+v", errs, tt.wantErrors, ValidatePipeline(tt.p))
			}
		})
	}
}

func TestValidatePipeline_WorkbookSheetWarning(t *testing.T) {
	t.Parallel()

	p := Pipeline{
		Source: Source{Path: "in.csv"},
		Sinks:  []Sink{{Kind: "workbook", Path: "out.xlsx"}},
	}
	var warned bool
	for _, iss := range ValidatePipeline(p) {
		if iss.Severity == SeverityError {
			t.Fatalf("unexpected error: %+v", iss)
		}
		if iss.Severity == SeverityWarning {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning about the missing sheet name")
	}
}
