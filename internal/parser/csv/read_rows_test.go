package csv

import (
	"errors"
	"strings"
	"testing"

	"tabetl/internal/config"
)

func TestReadRows_HeaderAndLines(t *testing.T) {
	t.Parallel()

	in := "Cable Reference,Cable Length\nC01,120\nC02,45\n"
	header, rows, err := ReadRows(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(header) != 2 || header[0] != "Cable Reference" {
		t.Fatalf("header = %v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Fatalf("line numbers = %d, %d", rows[0].Line, rows[1].Line)
	}
	if rows[1].V[1] != "45" {
		t.Fatalf("row 2 = %v", rows[1].V)
	}
}

func TestReadRows_StripsBOMFromFirstField(t *testing.T) {
	t.Parallel()

	in := "\uFEFFCable Code,Cable Configuration\n4,3\n"
	header, rows, err := ReadRows(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if header[0] != "Cable Code" {
		t.Fatalf("header[0] = %q, want BOM stripped", header[0])
	}
	if rows[0].V[0] != "4" {
		t.Fatalf("row = %v", rows[0].V)
	}
}

func TestReadRows_Windows1252(t *testing.T) {
	t.Parallel()

	// 0xC9 is É in Windows-1252; invalid as a UTF-8 start byte.
	raw := []byte("name,len\n\xC9quipement,12\n")
	header, rows, err := ReadRows(strings.NewReader(string(raw)), config.Options{
		"encoding": "windows-1252",
	})
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if header[0] != "name" {
		t.Fatalf("header = %v", header)
	}
	if rows[0].V[0] != "Équipement" {
		t.Fatalf("decoded field = %q", rows[0].V[0])
	}
}

func TestReadRows_UnknownEncoding(t *testing.T) {
	t.Parallel()

	_, _, err := ReadRows(strings.NewReader("a,b\n"), config.Options{"encoding": "ebcdic"})
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("err = %v, want ErrEncoding", err)
	}
}

func TestReadRows_NoHeaderAndTrim(t *testing.T) {
	t.Parallel()

	in := " C01 ,120\nC02, 45\n"
	header, rows, err := ReadRows(strings.NewReader(in), config.Options{
		"has_header": false,
		"trim_space": true,
	})
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if header != nil {
		t.Fatalf("header = %v, want nil", header)
	}
	if rows[0].V[0] != "C01" || rows[1].V[1] != "45" {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0].Line != 1 {
		t.Fatalf("headerless first line = %d, want 1", rows[0].Line)
	}
}

func TestReadRows_EmptyInput(t *testing.T) {
	t.Parallel()

	header, rows, err := ReadRows(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if header != nil || rows != nil {
		t.Fatalf("got %v / %v, want empties", header, rows)
	}
}

func TestReadRows_FieldsPerRecord(t *testing.T) {
	t.Parallel()

	in := "a,b\n1,2\n3\n"
	_, _, err := ReadRows(strings.NewReader(in), config.Options{
		"fields_per_record": float64(2),
	})
	if err == nil {
		t.Fatalf("expected field-count error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("error lacks line context: %v", err)
	}
}
