// Package transform implements the record transformation pipeline: a fixed
// list of field mapping rules compiled against a declared input header, an
// optional row filter, and a single apply pass that emits a header row plus
// one output row per surviving input row, in input order.
package transform

import "errors"

// ErrUnmappedValue is returned (wrapped) when a lookup rule meets a value
// with no table entry and the plan policy is OnMissingReject.
var ErrUnmappedValue = errors.New("unmapped lookup value")

// OnMissing names the lookup fallback policy. The historical behavior of the
// schedule scripts is OnMissingCopy: an unrecognized vendor string passes
// through untouched. Making the policy explicit lets a run choose to reject
// or at least flag such values instead of silently keeping them.
type OnMissing string

const (
	OnMissingCopy   OnMissing = "copy"
	OnMissingReject OnMissing = "reject"
	OnMissingFlag   OnMissing = "flag"
)

// DeriveFunc computes a derived output value from one input field value.
type DeriveFunc func(string) (string, error)

// Rule produces one output field. Exactly one of the four kinds applies,
// selected by which constructor built it.
type Rule struct {
	// Out is the output field label; it becomes the header cell.
	Out string

	kind  ruleKind
	from  string            // source field name (copy, derived, lookup)
	value string            // literal (constant)
	fn    DeriveFunc        // derived
	table map[string]string // lookup
}

type ruleKind int

const (
	kindCopy ruleKind = iota
	kindConstant
	kindDerived
	kindLookup
)

// Copy passes the input field through unchanged.
func Copy(out, from string) Rule {
	return Rule{Out: out, kind: kindCopy, from: from}
}

// Constant emits a fixed literal regardless of row content.
func Constant(out, value string) Rule {
	return Rule{Out: out, kind: kindConstant, value: value}
}

// Derived computes the output from one input field.
func Derived(out, from string, fn DeriveFunc) Rule {
	return Rule{Out: out, kind: kindDerived, from: from, fn: fn}
}

// Lookup rewrites the input value through an exact-match table. Comparison
// is byte-for-byte: no trimming, no case folding. What happens to values
// with no entry is decided by the plan's OnMissing policy.
func Lookup(out, from string, table map[string]string) Rule {
	return Rule{Out: out, kind: kindLookup, from: from, table: table}
}
