package convert

import (
	"math/big"
	"testing"
	"time"
)

func TestEncodeDecodeNumericRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "-1", "5/2", "-123456/100", "38/1"}
	for _, c := range cases {
		r, ok := new(big.Rat).SetString(c)
		if !ok {
			t.Fatalf("bad test rational %q", c)
		}
		n, err := EncodeNumeric(r)
		if err != nil {
			t.Fatalf("EncodeNumeric(%s) failed: %v", c, err)
		}
		got := DecodeNumeric(n)
		if got.Cmp(r) != 0 {
			t.Errorf("round trip for %s: got %s", c, got.RatString())
		}
	}
}

func TestEncodeNumericMaxPrecision(t *testing.T) {
	digits := "12345678901234567890123456789012345678" // 38 digits
	r, ok := new(big.Rat).SetString(digits)
	if !ok {
		t.Fatal("bad literal")
	}
	n, err := EncodeNumeric(r)
	if err != nil {
		t.Fatalf("EncodeNumeric failed: %v", err)
	}
	if n.Precision != 38 {
		t.Errorf("Precision = %d, want 38", n.Precision)
	}
	if n.Scale != 0 {
		t.Errorf("Scale = %d, want 0", n.Scale)
	}
	if n.Sign != 1 {
		t.Errorf("Sign = %d, want 1 (positive)", n.Sign)
	}
	if got := DecodeNumeric(n); got.RatString() != digits+"/1" && got.Cmp(r) != 0 {
		t.Errorf("DecodeNumeric round trip mismatch: got %s", got.RatString())
	}
}

func TestEncodeNumericExceedsPrecision(t *testing.T) {
	digits := "123456789012345678901234567890123456789" // 39 digits
	r, _ := new(big.Rat).SetString(digits)
	if _, err := EncodeNumeric(r); err == nil {
		t.Error("expected ErrRestrictedDataType for 39-digit precision")
	}
}

func TestEncodeNumericNegativeSign(t *testing.T) {
	r := big.NewRat(-5, 1)
	n, err := EncodeNumeric(r)
	if err != nil {
		t.Fatalf("EncodeNumeric failed: %v", err)
	}
	if n.Sign != 0 {
		t.Errorf("Sign = %d, want 0 (negative)", n.Sign)
	}
	if got := DecodeNumeric(n); got.Cmp(r) != 0 {
		t.Errorf("DecodeNumeric = %s, want -5", got.RatString())
	}
}

func TestFromTimeToTimeRoundTrip(t *testing.T) {
	loc := time.UTC
	want := time.Date(2026, time.March, 14, 15, 9, 26, 535000000, loc)
	dt := FromTime(want)
	got := dt.ToTime(loc)
	if !got.Equal(want) {
		t.Errorf("ToTime(FromTime(t)) = %v, want %v", got, want)
	}
}

func TestDateOnlyZeroesTimeFields(t *testing.T) {
	dt := DateTime{Year: 2026, Month: 1, Day: 2, Hour: 3, Minute: 4, Second: 5, FractionNanos: 6}
	d := DateOnly(dt)
	if d.Hour != 0 || d.Minute != 0 || d.Second != 0 || d.FractionNanos != 0 {
		t.Errorf("DateOnly left time fields set: %+v", d)
	}
	if d.Year != 2026 || d.Day != 2 {
		t.Errorf("DateOnly changed date fields: %+v", d)
	}
}

func TestTimeOnlySetsEpochDate(t *testing.T) {
	dt := DateTime{Year: 2026, Month: 3, Day: 4, Hour: 10}
	d := TimeOnly(dt)
	if d.Year != 1970 || d.Month != 1 || d.Day != 1 {
		t.Errorf("TimeOnly did not reset to epoch: %+v", d)
	}
	if d.Hour != 10 {
		t.Errorf("TimeOnly clobbered time fields: %+v", d)
	}
}

func TestEncodeDecodeIntervalDaySubcode(t *testing.T) {
	d := 3*24*time.Hour + 5*time.Hour + 30*time.Minute + 10*time.Second
	iv := EncodeInterval(d, IntervalDayToSecond)
	if iv.Day != 3 || iv.Hour != 5 || iv.Minute != 30 || iv.Second != 10 {
		t.Errorf("EncodeInterval = %+v, want Day=3 Hour=5 Minute=30 Second=10", iv)
	}
	got := DecodeInterval(iv)
	if got != d {
		t.Errorf("DecodeInterval round trip = %v, want %v", got, d)
	}
}

func TestEncodeIntervalNegative(t *testing.T) {
	d := -2 * time.Hour
	iv := EncodeInterval(d, IntervalHour)
	if !iv.Negative || iv.Hour != 2 {
		t.Errorf("EncodeInterval(-2h) = %+v, want Negative=true Hour=2", iv)
	}
	if got := DecodeInterval(iv); got != d {
		t.Errorf("DecodeInterval round trip = %v, want %v", got, d)
	}
}

func TestEncodeIntervalSecondFraction(t *testing.T) {
	d := 2*time.Second + 500*time.Millisecond
	iv := EncodeInterval(d, IntervalSecond)
	if iv.Second != 2 || iv.FractionNano != 500000000 {
		t.Errorf("EncodeInterval(second) = %+v, want Second=2 FractionNano=5e8", iv)
	}
}

func TestDisplaySizeForNumeric(t *testing.T) {
	cases := []struct {
		precision, scale int
		want             int64
	}{
		{5, 0, 6},  // sign + 5 digits
		{5, 2, 7},  // sign + 5 digits + decimal point
		{1, 0, 2},
	}
	for _, c := range cases {
		if got := DisplaySizeForNumeric(c.precision, c.scale); got != c.want {
			t.Errorf("DisplaySizeForNumeric(%d,%d) = %d, want %d", c.precision, c.scale, got, c.want)
		}
	}
}

func TestFormatRat(t *testing.T) {
	r := big.NewRat(5, 2)
	if got := FormatRat(r, 2); got != "2.50" {
		t.Errorf("FormatRat(5/2, scale=2) = %q, want %q", got, "2.50")
	}
	if got := FormatRat(r, -1); got != "5/2" {
		t.Errorf("FormatRat(5/2, scale=-1) = %q, want %q", got, "5/2")
	}
}

func TestCoerceErrorMessage(t *testing.T) {
	err := CoerceError("VARCHAR", "INTEGER", errBoom{})
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	want := "restricted data type: cannot convert VARCHAR to INTEGER: boom"
	if err.Error() != want {
		t.Errorf("CoerceError message = %q, want %q", err.Error(), want)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
