//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package value implements the type coercion rules: parsing
// a slot's raw strings into a typed boolean, int64, string,
// list-of-string, or map-of-string-to-string value, including the size and
// time qualifier grammars and path normalization.
package value

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/rule"
)

// Value is a fully-typed resolved option value. Exactly one of the typed
// fields is meaningful, selected by Type; a nil/zero Value with Null true
// represents the "no value" case (negated non-boolean, or unresolved
// dependency).
type Value struct {
	Type ValueType
	Null bool

	Bool bool
	Int  int64
	Str  string
	List []string
	Hash map[string]string
}

// ValueType mirrors [rule.ValueType] for clarity at call sites that only
// import this package.
type ValueType = rule.ValueType

var sizeRe = regexp.MustCompile(`^([0-9]+)(kb|k|mb|m|gb|g|tb|t|pb|p|b)?$`)

var sizeMultiplier = map[string]int64{
	"":   1,
	"b":  1,
	"k":  1024,
	"kb": 1024,
	"m":  1024 * 1024,
	"mb": 1024 * 1024,
	"g":  1024 * 1024 * 1024,
	"gb": 1024 * 1024 * 1024,
	"t":  1024 * 1024 * 1024 * 1024,
	"tb": 1024 * 1024 * 1024 * 1024,
	"p":  1024 * 1024 * 1024 * 1024 * 1024,
	"pb": 1024 * 1024 * 1024 * 1024 * 1024,
}

// Coerce parses raw (the ordered raw strings from a slot) into a typed
// Value per r's type, applying r's allow-list and allow-range constraints.
// optName is used purely for error messages.
func Coerce(optName string, r *rule.OptionRule, raw []string) (Value, error) {
	switch r.Type {
	case rule.TypeBoolean:
		// Callers resolve booleans directly from Negate; Coerce is never
		// called for TypeBoolean on the set path.
		return Value{Type: rule.TypeBoolean}, nil

	case rule.TypeHash:
		h := make(map[string]string, len(raw))
		for _, kv := range raw {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return Value{}, cfgerr.ErrOptionInvalidValue{Option: optName, Value: kv, Reason: "must be of the form key=value"}
			}
			h[k] = v
		}
		return Value{Type: rule.TypeHash, Hash: h}, nil

	case rule.TypeList:
		out := make([]string, len(raw))
		copy(out, raw)
		return Value{Type: rule.TypeList, List: out}, nil

	case rule.TypeInteger:
		v := firstOf(raw)
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Value{}, cfgerr.ErrFormatError{Option: optName, Value: v, Kind_: "integer"}
		}
		if err := checkRange(optName, r, v, n); err != nil {
			return Value{}, err
		}
		if err := checkAllowList(optName, r, v); err != nil {
			return Value{}, err
		}
		return Value{Type: rule.TypeInteger, Int: n}, nil

	case rule.TypeSize:
		v := firstOf(raw)
		lower := strings.ToLower(v)
		m := sizeRe.FindStringSubmatch(lower)
		if m == nil {
			return Value{}, cfgerr.ErrFormatError{Option: optName, Value: v, Kind_: "size"}
		}
		digits, qualifier := m[1], m[2]
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Value{}, cfgerr.ErrFormatError{Option: optName, Value: v, Kind_: "size"}
		}
		n *= sizeMultiplier[qualifier]
		if err := checkRange(optName, r, v, n); err != nil {
			return Value{}, err
		}
		if err := checkAllowList(optName, r, strconv.FormatInt(n, 10)); err != nil {
			return Value{}, err
		}
		return Value{Type: rule.TypeSize, Int: n}, nil

	case rule.TypeTime:
		v := firstOf(raw)
		seconds, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Value{}, cfgerr.ErrFormatError{Option: optName, Value: v, Kind_: "time"}
		}
		ms := int64(seconds * 1000)
		if err := checkRange(optName, r, v, ms); err != nil {
			return Value{}, err
		}
		return Value{Type: rule.TypeTime, Int: ms}, nil

	case rule.TypePath:
		v := firstOf(raw)
		if !strings.HasPrefix(v, "/") {
			return Value{}, cfgerr.ErrOptionInvalidValue{Option: optName, Value: v, Reason: "must be an absolute path"}
		}
		if strings.Contains(v, "//") {
			return Value{}, cfgerr.ErrOptionInvalidValue{Option: optName, Value: v, Reason: "must not contain '//'"}
		}
		if v != "/" {
			v = strings.TrimSuffix(v, "/")
		}
		if err := checkAllowList(optName, r, v); err != nil {
			return Value{}, err
		}
		return Value{Type: rule.TypePath, Str: v}, nil

	default: // rule.TypeString
		v := firstOf(raw)
		if v == "" {
			return Value{}, cfgerr.ErrOptionInvalidValue{Option: optName, Value: v, Reason: "must not be empty"}
		}
		if err := checkAllowList(optName, r, v); err != nil {
			return Value{}, err
		}
		return Value{Type: rule.TypeString, Str: v}, nil
	}
}

func firstOf(raw []string) string {
	if len(raw) == 0 {
		return ""
	}
	return raw[0]
}

func checkRange(optName string, r *rule.OptionRule, raw string, n int64) error {
	if !r.HasRange {
		return nil
	}
	if n < r.AllowRange.Min || n > r.AllowRange.Max {
		return cfgerr.ErrOptionInvalidValue{
			Option: optName, Value: raw,
			Reason: "out of range " + strconv.FormatInt(r.AllowRange.Min, 10) + "-" + strconv.FormatInt(r.AllowRange.Max, 10),
		}
	}
	return nil
}

func checkAllowList(optName string, r *rule.OptionRule, coerced string) error {
	if len(r.AllowList) == 0 {
		return nil
	}
	for _, allowed := range r.AllowList {
		if allowed == coerced {
			return nil
		}
	}
	return cfgerr.ErrOptionInvalidValue{
		Option: optName, Value: coerced,
		Reason: "must be one of " + strings.Join(r.AllowList, ", "),
	}
}
