// Package csv reads delimited text files into positional records. It owns
// the two repairs legacy exports need before any value can be trusted:
// decoding from a single-byte Windows encoding, and stripping the U+FEFF
// artifact glued to the first field.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	xtransform "golang.org/x/text/transform"

	"tabetl/internal/config"
	"tabetl/internal/record"
)

// ErrEncoding marks an unknown encoding name. Undecodable bytes inside a
// supported encoding are replaced, not fatal, mirroring the lenient decode
// the original exports were read with.
var ErrEncoding = errors.New("unsupported encoding")

// ReadRows reads the whole source in one pass.
//
// Options honored:
//
//	encoding          "utf-8" (default) | "windows-1252" | "windows-1250"
//	has_header        default true; the header is returned separately
//	comma             field delimiter, default ','
//	trim_space        trim each field, default false
//	lazy_quotes       default false
//	fields_per_record 0 means "free" (FieldsPerRecord=-1)
//
// Line numbers on returned rows are 1-based source record numbers, counting
// the header when present.
func ReadRows(src io.Reader, opt config.Options) ([]string, []record.Row, error) {
	dec, err := decoderFor(opt.String("encoding", "utf-8"))
	if err != nil {
		return nil, nil, err
	}
	if dec != nil {
		src = xtransform.NewReader(src, dec)
	}

	cr := csv.NewReader(src)
	cr.Comma = opt.Rune("comma", ',')
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	if n := opt.Int("fields_per_record", 0); n != 0 {
		cr.FieldsPerRecord = n
	} else {
		cr.FieldsPerRecord = -1
	}

	trim := opt.Bool("trim_space", false)
	hasHeader := opt.Bool("has_header", true)

	var line int
	readRec := func() ([]string, error) {
		line++
		rec, err := cr.Read()
		if err != nil {
			return nil, err
		}
		if line == 1 && len(rec) > 0 {
			rec[0] = record.StripBOM(rec[0])
		}
		if trim {
			for i, v := range rec {
				if record.HasEdgeSpace(v) {
					rec[i] = strings.TrimSpace(v)
				}
			}
		}
		return rec, nil
	}

	var header []string
	if hasHeader {
		hdr, err := readRec()
		if err == io.EOF {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read header: %w", err)
		}
		header = hdr
	}

	var rows []record.Row
	for {
		rec, err := readRec()
		if err == io.EOF {
			return header, rows, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv read line %d: %w", line, err)
		}
		rows = append(rows, record.Row{V: rec, Line: line})
	}
}

func decoderFor(name string) (xtransform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "ansi":
		return charmap.Windows1252.NewDecoder(), nil
	case "windows-1250":
		return charmap.Windows1250.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrEncoding, name)
	}
}
