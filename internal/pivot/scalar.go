package pivot

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/paveg/crosstab/internal/common"
	"github.com/paveg/crosstab/internal/dataset"
)

// ScalarKind identifies the variant held by a Scalar.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarInt64
	ScalarFloat64
	ScalarString
	ScalarBool
	ScalarTimestamp
)

// String returns the kind's type name.
func (k ScalarKind) String() string {
	return common.FormatScalarKind(int(k))
}

// maxSafeJSONInt is the largest integer magnitude a float64-based JSON reader
// can hold exactly. Larger int64 values are serialized as strings.
const maxSafeJSONInt = int64(1) << 53

// Scalar is a tagged variant holding one cell or literal value. The zero
// value is the null scalar.
type Scalar struct {
	kind ScalarKind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
}

// NullScalar returns the null scalar.
func NullScalar() Scalar {
	return Scalar{}
}

// Int64Scalar returns an int64 scalar.
func Int64Scalar(v int64) Scalar {
	return Scalar{kind: ScalarInt64, i: v}
}

// Float64Scalar returns a float64 scalar.
func Float64Scalar(v float64) Scalar {
	return Scalar{kind: ScalarFloat64, f: v}
}

// StringScalar returns a string scalar.
func StringScalar(v string) Scalar {
	return Scalar{kind: ScalarString, s: v}
}

// BoolScalar returns a boolean scalar.
func BoolScalar(v bool) Scalar {
	return Scalar{kind: ScalarBool, b: v}
}

// TimestampScalar returns a timestamp scalar normalized to UTC.
func TimestampScalar(v time.Time) Scalar {
	return Scalar{kind: ScalarTimestamp, t: v.UTC()}
}

// ScalarFromColumn reads the column value at index as a Scalar.
func ScalarFromColumn(col *dataset.Column, index int) Scalar {
	if col.IsNull(index) {
		return NullScalar()
	}
	switch col.Kind() {
	case dataset.KindInt64:
		return Int64Scalar(col.Int64Value(index))
	case dataset.KindFloat64:
		return Float64Scalar(col.Float64Value(index))
	case dataset.KindString:
		return StringScalar(col.StringValue(index))
	case dataset.KindBool:
		return BoolScalar(col.BoolValue(index))
	case dataset.KindTimestamp:
		return TimestampScalar(col.TimeValue(index))
	default:
		return NullScalar()
	}
}

// Kind returns the scalar's variant tag.
func (s Scalar) Kind() ScalarKind {
	return s.kind
}

// IsNull reports whether the scalar is null.
func (s Scalar) IsNull() bool {
	return s.kind == ScalarNull
}

// IsNumeric reports whether the scalar holds an int64 or float64.
func (s Scalar) IsNumeric() bool {
	return s.kind == ScalarInt64 || s.kind == ScalarFloat64
}

// Int64 returns the int64 payload; valid only when Kind is ScalarInt64.
func (s Scalar) Int64() int64 {
	return s.i
}

// Float64 returns the float64 payload; valid only when Kind is ScalarFloat64.
func (s Scalar) Float64() float64 {
	return s.f
}

// Str returns the string payload; valid only when Kind is ScalarString.
func (s Scalar) Str() string {
	return s.s
}

// Bool returns the boolean payload; valid only when Kind is ScalarBool.
func (s Scalar) Bool() bool {
	return s.b
}

// Time returns the timestamp payload; valid only when Kind is ScalarTimestamp.
func (s Scalar) Time() time.Time {
	return s.t
}

// AsFloat64 returns the scalar as a float64 when it is numeric.
func (s Scalar) AsFloat64() (float64, bool) {
	switch s.kind {
	case ScalarInt64:
		return float64(s.i), true
	case ScalarFloat64:
		return s.f, true
	default:
		return 0, false
	}
}

// Equal reports type-aware natural equality. Null equals only null; int64 and
// float64 compare by numeric value; all other cross-kind pairs are unequal.
func (s Scalar) Equal(other Scalar) bool {
	if s.kind == ScalarNull || other.kind == ScalarNull {
		return s.kind == other.kind
	}
	if s.IsNumeric() && other.IsNumeric() {
		if s.kind == ScalarInt64 && other.kind == ScalarInt64 {
			return s.i == other.i
		}
		sf, _ := s.AsFloat64()
		of, _ := other.AsFloat64()
		return sf == of
	}
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case ScalarString:
		return s.s == other.s
	case ScalarBool:
		return s.b == other.b
	case ScalarTimestamp:
		return s.t.Equal(other.t)
	default:
		return false
	}
}

// Compare imposes a total order used for deterministic axis ordering: null
// sorts before every value, numerics compare by value, and remaining
// cross-kind pairs fall back to kind rank. Returns -1, 0, or 1.
func (s Scalar) Compare(other Scalar) int {
	if s.kind == ScalarNull || other.kind == ScalarNull {
		switch {
		case s.kind == other.kind:
			return 0
		case s.kind == ScalarNull:
			return -1
		default:
			return 1
		}
	}
	if s.IsNumeric() && other.IsNumeric() {
		if s.kind == ScalarInt64 && other.kind == ScalarInt64 {
			return compareOrdered(s.i, other.i)
		}
		sf, _ := s.AsFloat64()
		of, _ := other.AsFloat64()
		return compareOrdered(sf, of)
	}
	if s.kind != other.kind {
		return compareOrdered(int(s.kind), int(other.kind))
	}
	switch s.kind {
	case ScalarString:
		return strings.Compare(s.s, other.s)
	case ScalarBool:
		return compareBool(s.b, other.b)
	case ScalarTimestamp:
		switch {
		case s.t.Before(other.t):
			return -1
		case s.t.After(other.t):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// String formats the scalar for display and header text.
func (s Scalar) String() string {
	switch s.kind {
	case ScalarNull:
		return "null"
	case ScalarInt64:
		return strconv.FormatInt(s.i, 10)
	case ScalarFloat64:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case ScalarString:
		return s.s
	case ScalarBool:
		return strconv.FormatBool(s.b)
	case ScalarTimestamp:
		return s.t.Format(time.RFC3339Nano)
	default:
		return "null"
	}
}

// AppendKeyBytes appends a canonical byte encoding of the scalar to dst. The
// encoding is kind-tagged and length-delimited so distinct composite keys
// never collide byte-wise.
func (s Scalar) AppendKeyBytes(dst []byte) []byte {
	dst = append(dst, byte(s.kind))
	switch s.kind {
	case ScalarNull:
		return dst
	case ScalarInt64:
		return binary.BigEndian.AppendUint64(dst, uint64(s.i))
	case ScalarFloat64:
		bits := math.Float64bits(s.f)
		if s.f == 0 {
			bits = 0 // -0.0 and +0.0 share a key
		} else if math.IsNaN(s.f) {
			bits = math.Float64bits(math.NaN())
		}
		return binary.BigEndian.AppendUint64(dst, bits)
	case ScalarString:
		dst = binary.AppendUvarint(dst, uint64(len(s.s)))
		return append(dst, s.s...)
	case ScalarBool:
		if s.b {
			return append(dst, 1)
		}
		return append(dst, 0)
	case ScalarTimestamp:
		return binary.BigEndian.AppendUint64(dst, uint64(s.t.UnixNano()))
	default:
		return dst
	}
}

// MarshalJSON encodes the scalar as its natural JSON value. Int64 magnitudes
// beyond 2^53 become strings so float64-based readers do not corrupt them;
// non-finite floats become null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case ScalarNull:
		return []byte("null"), nil
	case ScalarInt64:
		if s.i > maxSafeJSONInt || s.i < -maxSafeJSONInt {
			return json.Marshal(strconv.FormatInt(s.i, 10))
		}
		return strconv.AppendInt(nil, s.i, 10), nil
	case ScalarFloat64:
		if math.IsNaN(s.f) || math.IsInf(s.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(s.f)
	case ScalarString:
		return json.Marshal(s.s)
	case ScalarBool:
		return json.Marshal(s.b)
	case ScalarTimestamp:
		return json.Marshal(s.t.Format(time.RFC3339Nano))
	default:
		return []byte("null"), nil
	}
}

// CoerceValue normalizes a request literal into a Scalar. Text parses as an
// integer first, then a float, then a boolean literal, and otherwise stays a
// string. Coercion never fails; incompatibilities surface at comparison time.
func CoerceValue(v any) Scalar {
	switch val := v.(type) {
	case nil:
		return NullScalar()
	case Scalar:
		return val
	case bool:
		return BoolScalar(val)
	case int:
		return Int64Scalar(int64(val))
	case int32:
		return Int64Scalar(int64(val))
	case int64:
		return Int64Scalar(val)
	case float32:
		return coerceFloat(float64(val))
	case float64:
		return coerceFloat(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int64Scalar(i)
		}
		if f, err := val.Float64(); err == nil {
			return Float64Scalar(f)
		}
		return coerceString(val.String())
	case string:
		return coerceString(val)
	case time.Time:
		return TimestampScalar(val)
	default:
		return coerceString(fmt.Sprintf("%v", val))
	}
}

// CoerceList normalizes a request literal into a list of Scalars, one per
// element. A non-list value reports false.
func CoerceList(v any) ([]Scalar, bool) {
	switch val := v.(type) {
	case []Scalar:
		return val, true
	case []any:
		out := make([]Scalar, len(val))
		for i, elem := range val {
			out[i] = CoerceValue(elem)
		}
		return out, true
	case []string:
		out := make([]Scalar, len(val))
		for i, elem := range val {
			out[i] = CoerceValue(elem)
		}
		return out, true
	case []int64:
		out := make([]Scalar, len(val))
		for i, elem := range val {
			out[i] = Int64Scalar(elem)
		}
		return out, true
	case []float64:
		out := make([]Scalar, len(val))
		for i, elem := range val {
			out[i] = coerceFloat(elem)
		}
		return out, true
	default:
		return nil, false
	}
}

// coerceFloat keeps integral values as int64 so equality against integer
// columns survives the JSON float64 round-trip.
func coerceFloat(f float64) Scalar {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		f >= -float64(maxSafeJSONInt) && f <= float64(maxSafeJSONInt) {
		return Int64Scalar(int64(f))
	}
	return Float64Scalar(f)
}

func coerceString(s string) Scalar {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int64Scalar(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float64Scalar(f)
	}
	if strings.EqualFold(s, "true") {
		return BoolScalar(true)
	}
	if strings.EqualFold(s, "false") {
		return BoolScalar(false)
	}
	return StringScalar(s)
}
