// Package config defines the pipeline configuration shared by the cmd tools.
//
// A pipeline is: one source (file + parser options), an optional transform
// policy, and one or more sinks. Tools normally build a Pipeline from flags;
// the JSON form exists so a run can be captured and replayed.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Pipeline struct {
	Job    string `json:"job"`
	Source Source `json:"source"`

	// Lookup controls what happens when a lookup rule meets a value with no
	// table entry: "copy" (pass the raw value through), "reject" (fail the
	// run) or "flag" (pass through, but count and log the value).
	Lookup LookupPolicy `json:"lookup"`

	Sinks   []Sink  `json:"sinks"`
	Storage Storage `json:"storage"`
}

type Source struct {
	Path    string  `json:"path"`
	Options Options `json:"options"`
}

type LookupPolicy struct {
	OnMissing string `json:"on_missing"` // "copy" | "reject" | "flag"
}

type Sink struct {
	// Kind: "csv" | "workbook"
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Sheet string `json:"sheet,omitempty"`
}

type Storage struct {
	// Kind: "sqlite" | "postgres" | "mssql". Empty means no storage stage.
	Kind  string `json:"kind"`
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

// Load reads and decodes a pipeline config file.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse config: %w", err)
	}
	return p, nil
}
