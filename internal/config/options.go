package config

import "strings"

// Options is a loosely-typed option bag decoded from pipeline JSON.
//
// Accessors never fail: a missing or wrongly-typed value yields the caller's
// default. Validation of required options happens in Validate, not here.
type Options map[string]any

func (o Options) Any(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}

func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		// encoding/json decodes all numbers as float64.
		return int(n)
	default:
		return def
	}
}

func (o Options) String(key string, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// Rune returns the first rune of a one-character string option.
func (o Options) Rune(key string, def rune) rune {
	s := o.String(key, "")
	if s == "" {
		return def
	}
	r := []rune(s)
	return r[0]
}

func (o Options) StringMap(key string) map[string]string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[strings.TrimSpace(k)] = s
		}
	}
	return out
}

// Ints returns an integer list option ([]any of JSON numbers).
func (o Options) Ints(key string) []int {
	v, ok := o[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		if f, ok := e.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}
