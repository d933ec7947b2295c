// Package schedule holds the cable-schedule domain: the declared source
// layout of the engineering export, the PowerCAD import layout, and the
// vendor-string → PowerCAD code lookup tables.
package schedule

import (
	"fmt"
	"strings"

	"tabetl/internal/record"
	"tabetl/internal/transform"
)

// SourceHeader is the declared per-row input layout. The export is validated
// against this instead of inferring structure from whatever header arrives.
var SourceHeader = []string{
	"Cable Reference",
	"SWB From",
	"SWB To",
	"SWB Load",
	"Cable Length",
	"Cable Size - Active conductors",
	"Cable Size - Neutral conductors",
	"Active Conductor material",
	"Cable Type",
	"Cable Insulation",
	"Installation Method",
	"Protective Device Rating (A)",
}

// BlankRowFields are the positions checked by the blank-row filter in the
// raw schedule exports handled by csvclean and efli: a row with both empty
// carries no cable sizing and is dropped. The positions are fixed by the
// export format.
var BlankRowFields = []int{7, 8}

// CableTypeCodes maps export cable-type designations to PowerCAD codes.
var CableTypeCodes = map[string]string{
	"4C+E":     "Multi",
	"4x1C+E":   "SDI",
	"BUS DUCT": "BD",
}

// InstallationMethodCodes maps export installation-method descriptions to
// PowerCAD codes.
var InstallationMethodCodes = map[string]string{
	"LADDER, SPACED":                  "L",
	"PERFORATED TRAY, TOUCHING":       "PT",
	"IN UNDERGROUND WIRING ENCLOSURE": "C",
}

// RunParams are the values the export carries once per schedule rather than
// once per row. They become constant columns in the PowerCAD output.
type RunParams struct {
	PowerFactor                  string
	SwitchgearManufacturer       string
	ProtectiveDeviceManufacturer string
}

// Rules returns the PowerCAD import mapping in output column order.
func Rules(p RunParams) []transform.Rule {
	return []transform.Rule{
		transform.Copy("Cable Reference", "Cable Reference"),
		transform.Copy("SWB From", "SWB From"),
		transform.Copy("SWB To", "SWB To"),
		transform.Constant("SWB Type", ""),
		transform.Copy("SWB Load", "SWB Load"),
		transform.Constant("SWB Load Scope", "Local"),
		transform.Constant("SWB PF", p.PowerFactor),
		transform.Copy("Cable Length", "Cable Length"),
		transform.Copy("Cable Size - Active conductors", "Cable Size - Active conductors"),
		transform.Copy("Cable Size - Neutral conductors", "Cable Size - Neutral conductors"),
		transform.Constant("Cable Size - Earthing conductor", ""),
		transform.Copy("Active Conductor material", "Active Conductor material"),
		transform.Constant("# of Phases", "RWB"),
		transform.Lookup("Cable Type", "Cable Type", CableTypeCodes),
		transform.Copy("Cable Insulation", "Cable Insulation"),
		transform.Lookup("Installation Method", "Installation Method", InstallationMethodCodes),
		transform.Constant("Cable Additional De-rating", ""),
		transform.Constant("Switchgear Trip Unit Type", "Electronic"),
		transform.Constant("Switchgear Manufacturer", p.SwitchgearManufacturer),
		transform.Constant("Bus Type", "Bus Bar"),
		transform.Constant("Bus/Chassis Rating (A)", ""),
		transform.Constant("Upstream Diversity", "STD"),
		transform.Constant("Isolator Type", "None"),
		transform.Constant("Isolator Rating (A)", ""),
		transform.Copy("Protective Device Rating (A)", "Protective Device Rating (A)"),
		transform.Constant("Protective Device Manufacturer", p.ProtectiveDeviceManufacturer),
		transform.Constant("Protective Device Type", ""),
		transform.Constant("Protective Device Model", ""),
		transform.Constant("Protective Device OCR/Trip Unit", ""),
		transform.Constant("Protective Device Trip Setting (A)", ""),
	}
}

// Plan compiles the PowerCAD mapping against the declared source header.
func Plan(p RunParams, spec transform.PlanSpec) (*transform.Plan, error) {
	return transform.Compile(SourceHeader, Rules(p), spec)
}

// FromColumns builds rows from parallel per-column value sequences in
// SourceHeader order. This is the shape the design-tool export arrives in:
// one array per column, sharing an implicit row index. Mismatched lengths
// fail fast rather than silently truncating.
func FromColumns(cols [][]string) ([]record.Row, error) {
	t, err := record.NewColumns(SourceHeader, cols)
	if err != nil {
		return nil, err
	}
	return t.Rows(), nil
}

// ValidateHeader checks an incoming export header against SourceHeader.
// The first cell has its BOM stripped before comparison; everything else
// must match exactly.
func ValidateHeader(got []string) error {
	if len(got) != len(SourceHeader) {
		return fmt.Errorf("%w: header has %d columns, want %d",
			record.ErrMalformedInput, len(got), len(SourceHeader))
	}
	for i, h := range got {
		if i == 0 {
			h = record.StripBOM(h)
		}
		if strings.TrimSpace(h) != SourceHeader[i] {
			return fmt.Errorf("%w: header column %d is %q, want %q",
				record.ErrMalformedInput, i, h, SourceHeader[i])
		}
	}
	return nil
}

// SizeFilter returns the blank-row predicate for a source laid out per
// SourceHeader: a row is dropped when both conductor-size fields are empty.
func SizeFilter() transform.Predicate {
	active := indexOf(SourceHeader, "Cable Size - Active conductors")
	neutral := indexOf(SourceHeader, "Cable Size - Neutral conductors")
	return transform.BlankRowFilter(active, neutral)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	// SourceHeader is a package constant; a miss is a programming error.
	panic(fmt.Sprintf("schedule: column %q not in SourceHeader", name))
}
