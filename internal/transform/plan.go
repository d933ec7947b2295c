package transform

import (
	"fmt"

	"tabetl/internal/record"
)

// PlanSpec configures plan compilation.
type PlanSpec struct {
	// OnMissing is the lookup fallback policy. Empty means OnMissingCopy.
	OnMissing OnMissing

	// OnUnmapped is called for every flagged lookup miss when the policy is
	// OnMissingFlag. May be nil. It must not retain the strings past the call.
	OnUnmapped func(line int, field, value string)
}

// Plan is a rule list compiled against a declared input header: every source
// field name is resolved to a column index once, so Apply does no name
// lookups per row.
type Plan struct {
	spec PlanSpec
	cols []planCol
}

type planCol struct {
	out  string
	eval func(row record.Row) (string, error)
}

// Compile resolves rules against the input header. An unknown source field
// name is a programming or config error and fails here, not mid-run.
func Compile(inputHeader []string, rules []Rule, spec PlanSpec) (*Plan, error) {
	if spec.OnMissing == "" {
		spec.OnMissing = OnMissingCopy
	}
	switch spec.OnMissing {
	case OnMissingCopy, OnMissingReject, OnMissingFlag:
	default:
		return nil, fmt.Errorf("unknown on-missing policy %q", spec.OnMissing)
	}

	idx := make(map[string]int, len(inputHeader))
	for i, name := range inputHeader {
		idx[name] = i
	}

	p := &Plan{spec: spec, cols: make([]planCol, 0, len(rules))}
	for _, r := range rules {
		col, err := p.compileRule(r, idx)
		if err != nil {
			return nil, err
		}
		p.cols = append(p.cols, col)
	}
	return p, nil
}

func (p *Plan) compileRule(r Rule, idx map[string]int) (planCol, error) {
	resolve := func() (int, error) {
		i, ok := idx[r.from]
		if !ok {
			return 0, fmt.Errorf("rule %q: unknown input field %q", r.Out, r.from)
		}
		return i, nil
	}

	switch r.kind {
	case kindConstant:
		v := r.value
		return planCol{out: r.Out, eval: func(record.Row) (string, error) { return v, nil }}, nil

	case kindCopy:
		i, err := resolve()
		if err != nil {
			return planCol{}, err
		}
		return planCol{out: r.Out, eval: func(row record.Row) (string, error) {
			return row.Field(i)
		}}, nil

	case kindDerived:
		i, err := resolve()
		if err != nil {
			return planCol{}, err
		}
		if r.fn == nil {
			return planCol{}, fmt.Errorf("rule %q: derived rule has no function", r.Out)
		}
		fn := r.fn
		out := r.Out
		return planCol{out: r.Out, eval: func(row record.Row) (string, error) {
			v, err := row.Field(i)
			if err != nil {
				return "", err
			}
			d, err := fn(v)
			if err != nil {
				return "", fmt.Errorf("line %d: derive %q from %q: %w", row.Line, out, v, err)
			}
			return d, nil
		}}, nil

	case kindLookup:
		i, err := resolve()
		if err != nil {
			return planCol{}, err
		}
		return planCol{out: r.Out, eval: p.lookupEval(r, i)}, nil

	default:
		return planCol{}, fmt.Errorf("rule %q: unknown kind", r.Out)
	}
}

func (p *Plan) lookupEval(r Rule, i int) func(record.Row) (string, error) {
	table := r.table
	out := r.Out
	policy := p.spec.OnMissing
	onUnmapped := p.spec.OnUnmapped

	return func(row record.Row) (string, error) {
		v, err := row.Field(i)
		if err != nil {
			return "", err
		}
		if mapped, ok := table[v]; ok {
			return mapped, nil
		}
		switch policy {
		case OnMissingReject:
			return "", fmt.Errorf("line %d: field %q: %w: %q", row.Line, out, ErrUnmappedValue, v)
		case OnMissingFlag:
			if onUnmapped != nil {
				onUnmapped(row.Line, out, v)
			}
		}
		return v, nil
	}
}

// Header returns the output field labels in declared order.
func (p *Plan) Header() []string {
	h := make([]string, len(p.cols))
	for i, c := range p.cols {
		h[i] = c.out
	}
	return h
}

// Apply runs the plan over the input rows: the filter drops rows first, then
// each surviving row is mapped through every rule. The result starts with
// the header row and preserves the relative order of surviving rows.
//
// Apply fails on the first structural error (out-of-range field, rejected
// lookup); a failed run produces no partial result.
func (p *Plan) Apply(rows []record.Row, filter Predicate) ([][]string, error) {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, p.Header())

	for _, row := range rows {
		if filter != nil {
			keep, err := filter(row)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}

		mapped := make([]string, len(p.cols))
		for i, c := range p.cols {
			v, err := c.eval(row)
			if err != nil {
				return nil, err
			}
			mapped[i] = v
		}
		out = append(out, mapped)
	}
	return out, nil
}
