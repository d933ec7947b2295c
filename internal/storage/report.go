package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Report column names, fixed by the cable-schedule export format.
const (
	ColCableCode          = "Cable Code"
	ColCableConfiguration = "Cable Configuration"
	ColCableReference     = "Cable Reference"
)

// FaultLoopPair is one row of the earth-fault-loop report: the two schedule
// factors and their product.
type FaultLoopPair struct {
	CableCode          int64
	CableConfiguration int64
	Product            int64
}

func (p FaultLoopPair) String() string {
	return fmt.Sprintf("%d | %d | %d", p.CableCode, p.CableConfiguration, p.Product)
}

// FaultLoopReport runs the report query against the repository and converts
// the text pairs to numbers. A non-numeric value is a data defect and fails
// the report with the offending row identified.
func FaultLoopReport(ctx context.Context, repo Repository, table string) ([]FaultLoopPair, error) {
	raw, err := repo.SelectReportRows(ctx, table)
	if err != nil {
		return nil, err
	}

	out := make([]FaultLoopPair, 0, len(raw))
	for i, pair := range raw {
		code, err := strconv.ParseInt(strings.TrimSpace(pair[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("report row %d: %s=%q is not a number", i+1, ColCableCode, pair[0])
		}
		conf, err := strconv.ParseInt(strings.TrimSpace(pair[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("report row %d: %s=%q is not a number", i+1, ColCableConfiguration, pair[1])
		}
		out = append(out, FaultLoopPair{
			CableCode:          code,
			CableConfiguration: conf,
			Product:            code * conf,
		})
	}
	return out, nil
}
