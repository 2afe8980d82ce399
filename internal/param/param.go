// Package param implements the binding parameters
// onto the APD/IPD descriptor pair, pulling bound values out of application
// memory at execute time, and rendering them as tinySQL SQL literals so the
// statement text can be substituted and handed to internal/tsengine without
// tinySQL ever seeing a bound-parameter API it doesn't have (see
// internal/tsengine's package doc, gap #1).
package param

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/tinysql-odbc/driver/internal/convert"
	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/encoding"
	"github.com/tinysql-odbc/driver/internal/handle"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

// Sentinel indicator values: SQL_NULL_DATA and SQL_DATA_AT_EXEC are both
// negative per the ODBC header.
const (
	NullData   int64 = -1
	DataAtExec int64 = -2
)

// ErrBadIndex / ErrBadDirection implement the SQLSTATEs names
// for BindParameter's own argument validation.
type ErrBadIndex struct{ N int }

func (e *ErrBadIndex) Error() string { return fmt.Sprintf("invalid parameter index %d", e.N) }

type ErrBadDirection struct{}

func (*ErrBadDirection) Error() string { return "only SQL_PARAM_INPUT is supported" }

// BindParameter implements "bind_parameter(...)": it grows
// APD/IPD to hold record n, runs the descriptor consistency check on the
// IPD's concise type, and fills in both records' fields.
func BindParameter(s *handle.Statement, resolver descriptor.TypeResolver, n int,
	inOut odbcapi.ParamDirection, cType odbcapi.CType, sqlType odbcapi.SQLType,
	columnSize int64, decimalDigits int16, dataPtr, indPtr uintptr, bufferLength int64) error {

	if n < 1 {
		return &ErrBadIndex{N: n}
	}
	if inOut != odbcapi.ParamInput {
		return &ErrBadDirection{}
	}

	apd := s.Resolve(odbcapi.RoleAPD)
	ipd := s.Resolve(odbcapi.RoleIPD)

	if err := ipd.SetType(n, odbcapi.RoleIPD, resolver, sqlType, 0); err != nil {
		return err
	}
	ipdRec := ipd.Record1(n)
	ipdRec.ParameterType = inOut
	ipdRec.OctetLength = bufferLength
	ipdRec.Precision = int16(columnSize)
	ipdRec.Scale = decimalDigits

	apdRec := apd.EnsureRecord(n)
	apdRec.ConciseType = odbcapi.SQLType(cType)
	apdRec.Type = odbcapi.SQLType(cType)
	apdRec.DataPtr = dataPtr
	apdRec.OctetLength = bufferLength
	apdRec.IndicatorPtr = indPtr
	apdRec.OctetLengthPtr = indPtr

	return nil
}

// Pending is the data-at-exec state for one parameter set: the parameter
// record still waiting on ParamData/PutData calls before execute can
// proceed.
type Pending struct {
	ParamIndex int // 1-based APD record number
	CType      odbcapi.CType
	Buf        []byte
}

// ExtractSet implements steps 1-5 for one parameter set (row i
// of a possibly-batched execute): it walks every bound APD record, applies
// the bind-offset/stride addressing, and returns either a fully-materialized
// Value per parameter or a Pending marker for the first data-at-exec
// parameter found (tinySQL has no server-side prepared-statement handle to
// stream into, so data-at-exec parameters are accumulated driver-side and
// only substituted once all chunks have arrived).
func ExtractSet(apd, ipd *descriptor.Descriptor, setIndex int64) (values []Value, pending *Pending, err error) {
	count := int(apd.Header.Count)
	values = make([]Value, count)
	stride := apd.Header.BindType
	for i := 1; i <= count; i++ {
		rec := apd.Record1(i)
		if rec == nil || rec.DataPtr == 0 {
			values[i-1] = Value{Null: true}
			continue
		}
		off := bindOffset(apd, setIndex, stride, rec)
		ind := readIndicator(rec.IndicatorPtr, off)
		switch {
		case ind == NullData:
			values[i-1] = Value{Null: true}
			continue
		case ind <= DataAtExec:
			return values, &Pending{ParamIndex: i, CType: odbcapi.CType(rec.ConciseType)}, nil
		}
		octetLen := rec.OctetLength
		if ind >= 0 {
			octetLen = ind
		}
		v, convErr := readValue(odbcapi.CType(rec.ConciseType), rec.DataPtr+uintptr(off), octetLen)
		if convErr != nil {
			return nil, nil, convErr
		}
		values[i-1] = v
	}
	return values, nil, nil
}

func bindOffset(apd *descriptor.Descriptor, setIndex, stride int64, rec *descriptor.Record) int64 {
	base := apd.Header.BindOffsetPtr
	extra := int64(0)
	if base != 0 {
		extra = int64(*(*uintptr)(unsafe.Pointer(base)))
	}
	if stride > 0 {
		return extra + setIndex*stride
	}
	return extra + setIndex*cTypeSize(odbcapi.CType(rec.ConciseType))
}

func readIndicator(ptr uintptr, offset int64) int64 {
	if ptr == 0 {
		return 0
	}
	return *(*int64)(unsafe.Pointer(ptr + uintptr(offset)))
}

// Value is the tagged union internal/param passes to Render and
// internal/tsengine's caller; it mirrors the Go types tinySQL's own
// importer binds onto DecimalType/UUIDType/IntervalType/BlobType columns
// (internal/importer/types.go), so a bound parameter and an imported CSV
// cell convert identically once they reach the engine.
type Value struct {
	Null     bool
	Int      int64
	Uint     uint64
	Float    float64
	Str      string
	Bytes    []byte
	Bool     bool
	Time     time.Time
	Duration time.Duration
	Rat      *big.Rat
	UUID     uuid.UUID
	HasInt   bool
	HasUint  bool
	HasFloat bool
	HasBool  bool
	HasTime  bool
	HasDur   bool
	HasRat   bool
	HasUUID  bool
}

func cTypeSize(t odbcapi.CType) int64 {
	switch t {
	case odbcapi.CTinyint, odbcapi.CUtinyint, odbcapi.CBit:
		return 1
	case odbcapi.CShort:
		return 2
	case odbcapi.CLong:
		return 4
	case odbcapi.CFloat:
		return 4
	case odbcapi.CDouble:
		return 8
	case odbcapi.CSBigint, odbcapi.CUBigint:
		return 8
	default:
		return 8
	}
}

// readValue decodes octetLen bytes at ptr per the C type, implementing
// step 5's integer/float/char/binary cases. SQL_C_NUMERIC and
// datetime/interval struct decoding live in internal/convert, which this
// package calls for those two CTypes to avoid duplicating the struct
// layouts in two places.
func readValue(ct odbcapi.CType, ptr uintptr, octetLen int64) (Value, error) {
	switch ct {
	case odbcapi.CChar:
		if octetLen < 0 {
			octetLen = int64(cStrLen(ptr))
		}
		return Value{Str: string(bytesAt(ptr, octetLen))}, nil
	case odbcapi.CWChar:
		units := octetLen / 2
		s := utf16At(ptr, units)
		return Value{Str: s}, nil
	case odbcapi.CBinary:
		return Value{Bytes: bytesAt(ptr, octetLen)}, nil
	case odbcapi.CTinyint, odbcapi.CUtinyint, odbcapi.CBit:
		return Value{Int: int64(*(*int8)(unsafe.Pointer(ptr))), HasInt: true}, nil
	case odbcapi.CShort:
		return Value{Int: int64(*(*int16)(unsafe.Pointer(ptr))), HasInt: true}, nil
	case odbcapi.CLong:
		return Value{Int: int64(*(*int32)(unsafe.Pointer(ptr))), HasInt: true}, nil
	case odbcapi.CSBigint:
		return Value{Int: *(*int64)(unsafe.Pointer(ptr)), HasInt: true}, nil
	case odbcapi.CUBigint:
		return Value{Uint: *(*uint64)(unsafe.Pointer(ptr)), HasUint: true}, nil
	case odbcapi.CFloat:
		return Value{Float: float64(*(*float32)(unsafe.Pointer(ptr))), HasFloat: true}, nil
	case odbcapi.CDouble:
		return Value{Float: *(*float64)(unsafe.Pointer(ptr)), HasFloat: true}, nil
	case odbcapi.CNumeric:
		n := *(*convert.Numeric)(unsafe.Pointer(ptr))
		return Value{Rat: convert.DecodeNumeric(n), HasRat: true}, nil
	case odbcapi.CDate, odbcapi.CTime, odbcapi.CTimestamp:
		dt := *(*convert.DateTime)(unsafe.Pointer(ptr))
		return Value{Time: dt.ToTime(time.Local), HasTime: true}, nil
	case odbcapi.CInterval:
		iv := *(*convert.Interval)(unsafe.Pointer(ptr))
		return Value{Duration: convert.DecodeInterval(iv), HasDur: true}, nil
	default:
		return Value{Str: string(bytesAt(ptr, octetLen))}, nil
	}
}

func bytesAt(ptr uintptr, n int64) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(n))
}

func cStrLen(ptr uintptr) int {
	n := 0
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	return n
}

func utf16At(ptr uintptr, units int64) string {
	if ptr == 0 || units <= 0 {
		return ""
	}
	u := unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), int(units))
	s, _ := encoding.UTF16ToUTF8Lenient(u)
	return s
}

// Render renders v as a tinySQL SQL literal for the target column type,
// implementing the literal half of the textual-substitution workaround
// described in internal/tsengine's package doc.
func Render(v Value, sqlType odbcapi.SQLType) (string, error) {
	if v.Null {
		return "NULL", nil
	}
	switch sqlType {
	case odbcapi.TGUID:
		id := v.UUID
		if !v.HasUUID {
			parsed, err := uuid.Parse(v.Str)
			if err != nil {
				return "", fmt.Errorf("param: %w", err)
			}
			id = parsed
		}
		return quoteLiteral(id.String()), nil
	case odbcapi.TDecimal, odbcapi.TNumeric:
		if v.HasRat {
			if n, err := convert.EncodeNumeric(v.Rat); err == nil {
				return convert.FormatRat(v.Rat, int(n.Scale)), nil
			}
			return v.Rat.RatString(), nil
		}
		if v.Str != "" {
			return v.Str, nil
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 64), nil
	case odbcapi.TIntervalBase:
		if v.HasDur {
			return quoteLiteral(v.Duration.String()), nil
		}
		return quoteLiteral(v.Str), nil
	case odbcapi.TBinary, odbcapi.TVarbinary, odbcapi.TLongVarbinary:
		return "X'" + fmt.Sprintf("%X", v.Bytes) + "'", nil
	case odbcapi.TBit:
		if v.HasInt {
			return strconv.FormatBool(v.Int != 0), nil
		}
		return strconv.FormatBool(v.Bool), nil
	case odbcapi.TBigint, odbcapi.TInteger, odbcapi.TSmallint, odbcapi.TTinyint:
		if v.HasUint {
			return strconv.FormatUint(v.Uint, 10), nil
		}
		if v.HasInt {
			return strconv.FormatInt(v.Int, 10), nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return "", fmt.Errorf("param: %w", err)
		}
		return strconv.FormatInt(n, 10), nil
	case odbcapi.TFloat, odbcapi.TReal, odbcapi.TDouble:
		if v.HasFloat {
			return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return "", fmt.Errorf("param: %w", err)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case odbcapi.TDate, odbcapi.TTime, odbcapi.TTimestamp:
		if v.HasTime {
			return quoteLiteral(v.Time.Format("2006-01-02 15:04:05.999999999")), nil
		}
		return quoteLiteral(v.Str), nil
	default:
		return quoteLiteral(v.Str), nil
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SubstitutePlaceholders replaces, in order, every `?` in sql that sits
// outside a string literal or comment with the corresponding entry in
// literals, sidestepping a real bound-parameter protocol against tinySQL
// (described in full in internal/tsengine's package doc). len(literals) must
// equal the number of placeholders found; a mismatch is a driver bug, not a
// user error, since BindParameter/NumParams already agreed on the count.
func SubstitutePlaceholders(sql string, literals []string) (string, error) {
	var out strings.Builder
	lit := 0
	inSingle, inDouble := false, false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case inSingle:
			out.WriteByte(c)
			if c == '\'' {
				if i+1 < len(sql) && sql[i+1] == '\'' {
					i++
					out.WriteByte(sql[i])
					continue
				}
				inSingle = false
			}
			continue
		case inDouble:
			out.WriteByte(c)
			if c == '"' {
				inDouble = false
			}
			continue
		case c == '\'':
			inSingle = true
			out.WriteByte(c)
			continue
		case c == '"':
			inDouble = true
			out.WriteByte(c)
			continue
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			j := strings.IndexByte(sql[i:], '\n')
			if j < 0 {
				out.WriteString(sql[i:])
				i = len(sql)
				continue
			}
			out.WriteString(sql[i : i+j])
			i += j - 1
			continue
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			j := strings.Index(sql[i+2:], "*/")
			if j < 0 {
				out.WriteString(sql[i:])
				i = len(sql)
				continue
			}
			out.WriteString(sql[i : i+j+4])
			i += j + 3
			continue
		case c == '?':
			if lit >= len(literals) {
				return "", fmt.Errorf("param: more placeholders than bound values")
			}
			out.WriteString(literals[lit])
			lit++
			continue
		default:
			out.WriteByte(c)
		}
	}
	if lit != len(literals) {
		return "", fmt.Errorf("param: %d placeholders found, %d values bound", lit, len(literals))
	}
	return out.String(), nil
}
