package param

import (
	"math/big"
	"testing"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/tinysql-odbc/driver/internal/convert"
	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/handle"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

func newStatement() *handle.Statement {
	env := handle.NewEnvironment()
	conn := env.AllocConnection()
	return conn.AllocStatement()
}

type alwaysResolve struct{}

func (alwaysResolve) Resolve(odbcapi.SQLType, int16) bool { return true }

func TestBindParameterRejectsBadIndex(t *testing.T) {
	s := newStatement()
	err := BindParameter(s, alwaysResolve{}, 0, odbcapi.ParamInput, odbcapi.CLong, odbcapi.TInteger, 0, 0, 0, 0, 0)
	if _, ok := err.(*ErrBadIndex); !ok {
		t.Fatalf("BindParameter(n=0) = %v, want *ErrBadIndex", err)
	}
}

func TestBindParameterRejectsOutputDirection(t *testing.T) {
	s := newStatement()
	err := BindParameter(s, alwaysResolve{}, 1, odbcapi.ParamOutput, odbcapi.CLong, odbcapi.TInteger, 0, 0, 0, 0, 0)
	if _, ok := err.(*ErrBadDirection); !ok {
		t.Fatalf("BindParameter(output) = %v, want *ErrBadDirection", err)
	}
}

func TestBindParameterFillsBothDescriptors(t *testing.T) {
	s := newStatement()
	var buf int32 = 42
	var ind int64
	err := BindParameter(s, alwaysResolve{}, 1, odbcapi.ParamInput, odbcapi.CLong, odbcapi.TInteger,
		10, 0, uintptr(unsafe.Pointer(&buf)), uintptr(unsafe.Pointer(&ind)), 4)
	if err != nil {
		t.Fatalf("BindParameter failed: %v", err)
	}
	apd := s.ImplicitAPD.Record1(1)
	ipd := s.ImplicitIPD.Record1(1)
	if apd == nil || ipd == nil {
		t.Fatal("expected both APD and IPD record 1 to exist")
	}
	if ipd.ConciseType != odbcapi.TInteger {
		t.Errorf("IPD ConciseType = %v, want TInteger", ipd.ConciseType)
	}
	if apd.DataPtr != uintptr(unsafe.Pointer(&buf)) {
		t.Error("APD DataPtr not recorded")
	}
}

func TestExtractSetNullIndicator(t *testing.T) {
	apd := descriptor.New(odbcapi.AllocAuto)
	ipd := descriptor.New(odbcapi.AllocAuto)
	var buf int32 = 7
	var ind int64 = NullData
	rec := apd.EnsureRecord(1)
	rec.ConciseType = odbcapi.SQLType(odbcapi.CLong)
	rec.DataPtr = uintptr(unsafe.Pointer(&buf))
	rec.IndicatorPtr = uintptr(unsafe.Pointer(&ind))
	rec.OctetLength = 4

	values, pending, err := ExtractSet(apd, ipd, 0)
	if err != nil {
		t.Fatalf("ExtractSet failed: %v", err)
	}
	if pending != nil {
		t.Fatal("expected no pending parameter")
	}
	if !values[0].Null {
		t.Error("expected value to be NULL")
	}
}

func TestExtractSetDataAtExec(t *testing.T) {
	apd := descriptor.New(odbcapi.AllocAuto)
	ipd := descriptor.New(odbcapi.AllocAuto)
	var buf int32
	var ind int64 = DataAtExec
	rec := apd.EnsureRecord(1)
	rec.ConciseType = odbcapi.SQLType(odbcapi.CLong)
	rec.DataPtr = uintptr(unsafe.Pointer(&buf))
	rec.IndicatorPtr = uintptr(unsafe.Pointer(&ind))

	values, pending, err := ExtractSet(apd, ipd, 0)
	if err != nil {
		t.Fatalf("ExtractSet failed: %v", err)
	}
	if pending == nil || pending.ParamIndex != 1 {
		t.Fatalf("expected pending parameter 1, got %+v (values=%v)", pending, values)
	}
}

func TestExtractSetReadsPlainValue(t *testing.T) {
	apd := descriptor.New(odbcapi.AllocAuto)
	ipd := descriptor.New(odbcapi.AllocAuto)
	var buf int32 = 99
	var ind int64
	rec := apd.EnsureRecord(1)
	rec.ConciseType = odbcapi.SQLType(odbcapi.CLong)
	rec.DataPtr = uintptr(unsafe.Pointer(&buf))
	rec.IndicatorPtr = uintptr(unsafe.Pointer(&ind))
	rec.OctetLength = 4

	values, pending, err := ExtractSet(apd, ipd, 0)
	if err != nil || pending != nil {
		t.Fatalf("ExtractSet failed: err=%v pending=%v", err, pending)
	}
	if !values[0].HasInt || values[0].Int != 99 {
		t.Errorf("values[0] = %+v, want Int=99", values[0])
	}
}

// TestExtractSetDecodesNumeric mirrors spec scenario S2: a SQL_C_NUMERIC
// buffer carrying precision 38, scale 0, sign 1, and the 16-byte
// little-endian mantissa for 12345678901234567890123456789012345678.
func TestExtractSetDecodesNumeric(t *testing.T) {
	apd := descriptor.New(odbcapi.AllocAuto)
	ipd := descriptor.New(odbcapi.AllocAuto)
	n := convert.Numeric{
		Precision: 38,
		Scale:     0,
		Sign:      1,
		Val: [16]byte{
			0x4E, 0xF3, 0x38, 0xDE, 0x50, 0x90, 0x49, 0xC4,
			0x13, 0x33, 0x02, 0xF0, 0xF6, 0xB0, 0x49, 0x09,
		},
	}
	var ind int64
	rec := apd.EnsureRecord(1)
	rec.ConciseType = odbcapi.SQLType(odbcapi.CNumeric)
	rec.DataPtr = uintptr(unsafe.Pointer(&n))
	rec.IndicatorPtr = uintptr(unsafe.Pointer(&ind))
	rec.OctetLength = int64(unsafe.Sizeof(n))

	values, pending, err := ExtractSet(apd, ipd, 0)
	if err != nil || pending != nil {
		t.Fatalf("ExtractSet failed: err=%v pending=%v", err, pending)
	}
	if !values[0].HasRat {
		t.Fatalf("values[0] = %+v, want HasRat", values[0])
	}
	want := "12345678901234567890123456789012345678"
	if got := values[0].Rat.RatString(); got != want {
		t.Errorf("decoded numeric = %q, want %q", got, want)
	}
}

func TestExtractSetDecodesTimestamp(t *testing.T) {
	apd := descriptor.New(odbcapi.AllocAuto)
	ipd := descriptor.New(odbcapi.AllocAuto)
	dt := convert.DateTime{Year: 2024, Month: 3, Day: 14, Hour: 9, Minute: 26, Second: 53, FractionNanos: 0}
	var ind int64
	rec := apd.EnsureRecord(1)
	rec.ConciseType = odbcapi.SQLType(odbcapi.CTimestamp)
	rec.DataPtr = uintptr(unsafe.Pointer(&dt))
	rec.IndicatorPtr = uintptr(unsafe.Pointer(&ind))
	rec.OctetLength = int64(unsafe.Sizeof(dt))

	values, pending, err := ExtractSet(apd, ipd, 0)
	if err != nil || pending != nil {
		t.Fatalf("ExtractSet failed: err=%v pending=%v", err, pending)
	}
	if !values[0].HasTime {
		t.Fatalf("values[0] = %+v, want HasTime", values[0])
	}
	want := time.Date(2024, 3, 14, 9, 26, 53, 0, time.Local)
	if !values[0].Time.Equal(want) {
		t.Errorf("decoded timestamp = %v, want %v", values[0].Time, want)
	}
}

func TestRenderDecimal(t *testing.T) {
	v := Value{HasRat: true, Rat: big.NewRat(5, 2)}
	got, err := Render(v, odbcapi.TDecimal)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "2.5" {
		t.Errorf("Render(decimal) = %q, want %q", got, "2.5")
	}
}

func TestRenderGUID(t *testing.T) {
	id := uuid.MustParse("12345678-1234-1234-1234-123456789abc")
	v := Value{HasUUID: true, UUID: id}
	got, err := Render(v, odbcapi.TGUID)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "'12345678-1234-1234-1234-123456789abc'"
	if got != want {
		t.Errorf("Render(guid) = %q, want %q", got, want)
	}
}

func TestRenderNull(t *testing.T) {
	got, err := Render(Value{Null: true}, odbcapi.TInteger)
	if err != nil || got != "NULL" {
		t.Errorf("Render(null) = (%q,%v), want (NULL,nil)", got, err)
	}
}

func TestRenderBigint(t *testing.T) {
	got, err := Render(Value{HasInt: true, Int: -42}, odbcapi.TBigint)
	if err != nil || got != "-42" {
		t.Errorf("Render(bigint) = (%q,%v), want (-42,nil)", got, err)
	}
}

func TestRenderBinary(t *testing.T) {
	got, err := Render(Value{Bytes: []byte{0xDE, 0xAD}}, odbcapi.TBinary)
	if err != nil || got != "X'DEAD'" {
		t.Errorf("Render(binary) = (%q,%v), want (X'DEAD',nil)", got, err)
	}
}

func TestSubstitutePlaceholdersSkipsLiteralsAndComments(t *testing.T) {
	sql := "SELECT * FROM t WHERE a = ? AND b = '?' AND c = ? -- ?\n AND d = ?"
	got, err := SubstitutePlaceholders(sql, []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("SubstitutePlaceholders failed: %v", err)
	}
	want := "SELECT * FROM t WHERE a = 1 AND b = '?' AND c = 2 -- ?\n AND d = 3"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSubstitutePlaceholdersCountMismatch(t *testing.T) {
	if _, err := SubstitutePlaceholders("SELECT ?, ?", []string{"1"}); err == nil {
		t.Error("expected error on placeholder/value count mismatch")
	}
	if _, err := SubstitutePlaceholders("SELECT ?", []string{"1", "2"}); err == nil {
		t.Error("expected error when more values than placeholders")
	}
}

func TestSubstitutePlaceholdersSkipsBlockComment(t *testing.T) {
	sql := "SELECT /* a ? b */ ? "
	got, err := SubstitutePlaceholders(sql, []string{"9"})
	if err != nil {
		t.Fatalf("SubstitutePlaceholders failed: %v", err)
	}
	want := "SELECT /* a ? b */ 9 "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
