package record

import (
	"errors"
	"testing"
)

func TestNewColumns_EqualLengths(t *testing.T) {
	t.Parallel()

	c, err := NewColumns(
		[]string{"ref", "len"},
		[][]string{{"C01", "C02"}, {"12", "40"}},
	)
	if err != nil {
		t.Fatalf("NewColumns: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	rows := c.Rows()
	if rows[0].V[0] != "C01" || rows[0].V[1] != "12" {
		t.Fatalf("row 0 = %v", rows[0].V)
	}
	if rows[1].V[0] != "C02" || rows[1].V[1] != "40" {
		t.Fatalf("row 1 = %v", rows[1].V)
	}
	if rows[0].Line != 1 || rows[1].Line != 2 {
		t.Fatalf("line numbers = %d, %d", rows[0].Line, rows[1].Line)
	}
}

func TestNewColumns_Empty(t *testing.T) {
	t.Parallel()

	// Zero-row table: every column present but empty. Schema survives.
	c, err := NewColumns([]string{"ref", "len"}, [][]string{{}, {}})
	if err != nil {
		t.Fatalf("NewColumns: %v", err)
	}
	if c.Len() != 0 || len(c.Rows()) != 0 {
		t.Fatalf("empty table has %d rows", c.Len())
	}
	if got := c.Names(); len(got) != 2 || got[0] != "ref" {
		t.Fatalf("Names() = %v, want [ref len]", got)
	}

	// Zero columns entirely: the (empty) names slice is kept, not dropped.
	names := []string{}
	c, err = NewColumns(names, nil)
	if err != nil {
		t.Fatalf("NewColumns: %v", err)
	}
	if c.Names() == nil {
		t.Fatalf("Names() = nil, want the caller's empty slice")
	}
}

func TestNewColumns_MismatchFailsFast(t *testing.T) {
	t.Parallel()

	_, err := NewColumns(
		[]string{"ref", "len"},
		[][]string{{"C01", "C02"}, {"12"}},
	)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestNewColumns_NameCountMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewColumns([]string{"ref"}, [][]string{{"a"}, {"b"}})
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
}

func TestRow_FieldOutOfRange(t *testing.T) {
	t.Parallel()

	r := Row{V: []string{"a"}, Line: 3}
	if _, err := r.Field(1); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("err = %v, want ErrMalformedInput", err)
	}
	if v, err := r.Field(0); err != nil || v != "a" {
		t.Fatalf("Field(0) = %q, %v", v, err)
	}
}

func TestStripBOM(t *testing.T) {
	t.Parallel()

	if got := StripBOM("\uFEFFCable Code"); got != "Cable Code" {
		t.Fatalf("StripBOM = %q", got)
	}
	if got := StripBOM("Cable Code"); got != "Cable Code" {
		t.Fatalf("StripBOM mangled clean value: %q", got)
	}
}

func TestHasEdgeSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"x", false},
		{" x", true},
		{"x ", true},
		{"a b", false},
		{"\tx", true},
		{"x\n", true},
	}
	for _, tt := range tests {
		if got := HasEdgeSpace(tt.in); got != tt.want {
			t.Errorf("HasEdgeSpace(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
