package value

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// TypeError reports a comparison between two incompatible DataTypes.
type TypeError struct {
	Left, Right DataType
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot compare values of different types: %s vs %s", e.Left, e.Right)
}

// ParseError reports a literal that does not parse into its declared DataType.
type ParseError struct {
	Type  DataType
	Text  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Type, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// BoxedValue is a typed, nullable scalar: a DataType tag plus an optional
// value of the matching Go representation. NULL is absence, not a
// sentinel — see HasValue.
type BoxedValue struct {
	Type  DataType
	valid bool
	data  any
}

// Null returns the NULL value of the given type.
func Null(t DataType) BoxedValue {
	return BoxedValue{Type: t}
}

// HasValue reports whether this value is present (non-NULL).
func (v BoxedValue) HasValue() bool {
	return v.valid
}

func newInteger(n int64) BoxedValue   { return BoxedValue{Type: Integer, valid: true, data: n} }
func newFloat(f float32) BoxedValue   { return BoxedValue{Type: Float, valid: true, data: f} }
func newDouble(f float64) BoxedValue  { return BoxedValue{Type: Double, valid: true, data: f} }
func newBoolean(b bool) BoxedValue    { return BoxedValue{Type: Boolean, valid: true, data: b} }
func newText(s string) BoxedValue     { return BoxedValue{Type: Text, valid: true, data: s} }
func newChar(r rune) BoxedValue       { return BoxedValue{Type: Char, valid: true, data: r} }
func newDate(d DateValue) BoxedValue  { return BoxedValue{Type: Date, valid: true, data: d} }
func newTime(t TimeValue) BoxedValue  { return BoxedValue{Type: Time, valid: true, data: t} }
func newDateTime(dt DateTimeValue) BoxedValue {
	return BoxedValue{Type: DateTime, valid: true, data: dt}
}

// FromText parses text into a BoxedValue of the given DataType. The
// literal "NULL" always yields the NULL value, regardless of type.
func FromText(text string, t DataType) (BoxedValue, error) {
	if text == "NULL" {
		return Null(t), nil
	}
	switch t {
	case Integer:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: err}
		}
		return newInteger(n), nil
	case Float:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: err}
		}
		return newFloat(float32(f)), nil
	case Double:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: err}
		}
		return newDouble(f), nil
	case Boolean:
		switch text {
		case "true":
			return newBoolean(true), nil
		case "false":
			return newBoolean(false), nil
		default:
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: fmt.Errorf("expected true or false")}
		}
	case Char:
		if utf8.RuneCountInString(text) != 1 {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: fmt.Errorf("CHAR requires exactly one character")}
		}
		r, _ := utf8.DecodeRuneInString(text)
		return newChar(r), nil
	case Text:
		return newText(text), nil
	case Date:
		d, err := parseDate(text)
		if err != nil {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: err}
		}
		return newDate(d), nil
	case Time:
		tm, err := parseTime(text)
		if err != nil {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: err}
		}
		return newTime(tm), nil
	case DateTime:
		dt, err := parseDateTime(text)
		if err != nil {
			return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: err}
		}
		return newDateTime(dt), nil
	default:
		return BoxedValue{}, &ParseError{Type: t, Text: text, Cause: fmt.Errorf("unknown data type")}
	}
}

// String formats the value in its canonical textual form: the inverse of
// FromText up to the canonical form documented for temporal types.
func (v BoxedValue) String() string {
	if !v.valid {
		return "NULL"
	}
	switch v.Type {
	case Integer:
		return strconv.FormatInt(v.data.(int64), 10)
	case Float:
		return strconv.FormatFloat(float64(v.data.(float32)), 'f', -1, 32)
	case Double:
		return strconv.FormatFloat(v.data.(float64), 'f', -1, 64)
	case Boolean:
		if v.data.(bool) {
			return "true"
		}
		return "false"
	case Text:
		return v.data.(string)
	case Char:
		return string(v.data.(rune))
	case Date:
		return v.data.(DateValue).String()
	case Time:
		return v.data.(TimeValue).String()
	case DateTime:
		return v.data.(DateTimeValue).String()
	default:
		return "NULL"
	}
}

// CompareOptions tunes NaN ordering behavior for Compare.
type CompareOptions struct {
	// StrictNaN makes any comparison touching a NaN float/double return an
	// error (the IEEE "unordered" interpretation) instead of the
	// default source-parity policy, where NaN equals NaN and is greater
	// than any non-NaN.
	StrictNaN bool
}

// DefaultCompareOptions is the source-parity NaN policy used throughout
// the engine unless EngineConfig.Comparison.StrictNaN opts into the
// stricter IEEE behavior.
var DefaultCompareOptions = CompareOptions{}

// Compare orders two values of the same DataType: absent < present;
// among present values, same-type comparison using the type's natural
// order. Comparing across different DataTypes is a TypeError.
func (v BoxedValue) Compare(other BoxedValue, opts CompareOptions) (int, error) {
	if v.Type != other.Type {
		return 0, &TypeError{Left: v.Type, Right: other.Type}
	}
	if !v.valid && !other.valid {
		return 0, nil
	}
	if !v.valid {
		return -1, nil
	}
	if !other.valid {
		return 1, nil
	}

	switch v.Type {
	case Integer:
		return compareInt64(v.data.(int64), other.data.(int64)), nil
	case Float:
		return compareFloat(float64(v.data.(float32)), float64(other.data.(float32)), opts)
	case Double:
		return compareFloat(v.data.(float64), other.data.(float64), opts)
	case Boolean:
		a, b := v.data.(bool), other.data.(bool)
		if a == b {
			return 0, nil
		}
		if !a && b {
			return -1, nil
		}
		return 1, nil
	case Text:
		return compareStrings(v.data.(string), other.data.(string)), nil
	case Char:
		return compareInt64(int64(v.data.(rune)), int64(other.data.(rune))), nil
	case Date:
		return v.data.(DateValue).Compare(other.data.(DateValue)), nil
	case Time:
		return v.data.(TimeValue).Compare(other.data.(TimeValue)), nil
	case DateTime:
		return v.data.(DateTimeValue).Compare(other.data.(DateTimeValue)), nil
	default:
		return 0, fmt.Errorf("unsupported type %s", v.Type)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64, opts CompareOptions) (int, error) {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		if opts.StrictNaN {
			return 0, fmt.Errorf("NaN operand is unordered under strict NaN comparison")
		}
		switch {
		case aNaN && bNaN:
			return 0, nil
		case aNaN:
			return 1, nil
		default:
			return -1, nil
		}
	}
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal reports value equality under the default NaN policy: two absent
// values are equal; presence vs absence is unequal; two NaNs of the same
// type are equal (kept consistent with Compare so the total-order and
// equality invariants never disagree, unlike the original engine's
// operator== / operator<=> split).
func (v BoxedValue) Equal(other BoxedValue) bool {
	c, err := v.Compare(other, DefaultCompareOptions)
	return err == nil && c == 0
}
