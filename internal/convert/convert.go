// Package convert implements the the engine-value
// to C-type conversion matrix used by both SQLGetData (reading an engine
// row into an application buffer) and internal/param (reading SQL_C_NUMERIC
// and datetime/interval structs out of application memory before binding).
package convert

import (
	"fmt"
	"math/big"
	"time"
)

// ErrRestrictedDataType is returned for a conversion the driver cannot
// perform.
type ErrRestrictedDataType struct{ Detail string }

func (e *ErrRestrictedDataType) Error() string { return "restricted data type: " + e.Detail }

// Numeric is the 20-byte SQL_NUMERIC_STRUCT layout: sign, precision, scale,
// and a 16-byte little-endian magnitude.
type Numeric struct {
	Precision byte
	Scale     byte
	Sign      byte // 1 = positive, 0 = negative
	Val       [16]byte
}

// EncodeNumeric renders r as a Numeric struct. Precision is the digit count
// of the magnitude, not a declared width; trailing zeros after the decimal
// point are dropped when the fractional part is exactly zero. Negative values
// store sign=0 with the *positive* magnitude in Val, matching the SQL_NUMERIC_STRUCT
// convention (sign byte separate from a two's-complement-free magnitude).
func EncodeNumeric(r *big.Rat) (Numeric, error) {
	var n Numeric
	sign := r.Sign()
	n.Sign = 1
	if sign < 0 {
		n.Sign = 0
	}
	abs := new(big.Rat).Abs(r)

	// Find the smallest scale s such that num*10^s is exactly divisible by
	// denom (true for every literal this driver ever produces, since
	// tinySQL's decimal values are exact rationals read from decimal text —
	// big.Rat reduces "2.5" to 5/2, so the denominator is rarely a literal
	// power of 10 itself, only a divisor of one).
	scale := 0
	denom := abs.Denom()
	numerator := new(big.Int).Set(abs.Num())
	ten := big.NewInt(10)
	var mag *big.Int
	for {
		q, rem := new(big.Int).QuoRem(numerator, denom, new(big.Int))
		if rem.Sign() == 0 {
			mag = q
			break
		}
		if scale >= 38 {
			return Numeric{}, &ErrRestrictedDataType{Detail: "value has no exact representation within 38 digits of scale"}
		}
		numerator.Mul(numerator, ten)
		scale++
	}

	digits := mag.Text(10)
	precision := len(digits)
	if mag.Sign() == 0 {
		precision = 1
	}
	if precision > 38 {
		return Numeric{}, &ErrRestrictedDataType{Detail: "numeric precision exceeds 38 digits"}
	}
	n.Precision = byte(precision)
	n.Scale = byte(scale)

	bytes := mag.Bytes() // big-endian
	for i := 0; i < len(bytes) && i < 16; i++ {
		n.Val[i] = bytes[len(bytes)-1-i] // reverse into little-endian
	}
	return n, nil
}

// DecodeNumeric is the inverse of EncodeNumeric, used by internal/param when
// a client binds SQL_C_NUMERIC input.
func DecodeNumeric(n Numeric) *big.Rat {
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[15-i] = n.Val[i]
	}
	mag := new(big.Int).SetBytes(be)
	r := new(big.Rat).SetInt(mag)
	if n.Scale > 0 {
		r.Quo(r, new(big.Rat).SetInt(pow10(int(n.Scale))))
	}
	if n.Sign == 0 {
		r.Neg(r)
	}
	return r
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// DateTime is the decomposed year/month/day/hour/minute/second/fraction
// shape every SQL_C_DATE/TIME/TIMESTAMP struct shares. FractionNanos is
// always in nanoseconds.
type DateTime struct {
	Year          int16
	Month         uint16
	Day           uint16
	Hour          uint16
	Minute        uint16
	Second        uint16
	FractionNanos uint32
}

// FromTime decomposes a time.Time (always treated as already carrying the
// timezone offset the caller wants applied — internal/fetch/internal/param
// resolve TIMESTAMP_TZ to local time before calling this, adding the host
// OS's local offset).
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year: int16(t.Year()), Month: uint16(t.Month()), Day: uint16(t.Day()),
		Hour: uint16(t.Hour()), Minute: uint16(t.Minute()), Second: uint16(t.Second()),
		FractionNanos: uint32(t.Nanosecond()),
	}
}

// ToTime recomposes a DateTime into a time.Time in loc (UTC for storage,
// local when the caller is decoding a bound SQL_C_TIMESTAMP value).
func (d DateTime) ToTime(loc *time.Location) time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day),
		int(d.Hour), int(d.Minute), int(d.Second), int(d.FractionNanos), loc)
}

// DateOnly zero-pads the time fields.
func DateOnly(d DateTime) DateTime {
	d.Hour, d.Minute, d.Second, d.FractionNanos = 0, 0, 0, 0
	return d
}

// TimeOnly sets the date fields to the ODBC epoch, 1970-01-01, for a
// TIME value widened into a SQL_C_TIMESTAMP buffer.
func TimeOnly(d DateTime) DateTime {
	d.Year, d.Month, d.Day = 1970, 1, 1
	return d
}

// IntervalSubcode mirrors the SQL_INTERVAL_* DATETIME_INTERVAL_CODE values
//.
type IntervalSubcode int16

const (
	IntervalYear           IntervalSubcode = 101
	IntervalMonth          IntervalSubcode = 102
	IntervalDay            IntervalSubcode = 103
	IntervalHour           IntervalSubcode = 104
	IntervalMinute         IntervalSubcode = 105
	IntervalSecond         IntervalSubcode = 106
	IntervalYearToMonth    IntervalSubcode = 107
	IntervalDayToHour      IntervalSubcode = 108
	IntervalDayToMinute    IntervalSubcode = 109
	IntervalDayToSecond    IntervalSubcode = 110
	IntervalHourToMinute   IntervalSubcode = 111
	IntervalHourToSecond   IntervalSubcode = 112
	IntervalMinuteToSecond IntervalSubcode = 113
)

// Interval is the ODBC interval struct's field union: a
// sign plus whichever year/month/day/hour/minute/second/fraction slots the
// subcode uses. Unused fields are left zero.
type Interval struct {
	Code                               IntervalSubcode
	Negative                           bool
	Year, Month, Day                   uint32
	Hour, Minute, Second, FractionNano uint32
}

// EncodeInterval decomposes a tinySQL IntervalType value (stored as a Go
// time.Duration, per internal/importer/types.go's convertValue) into the
// ODBC interval struct for the given subcode.
// Durations carry no separate year/month components (tinySQL has no
// calendar-interval type, only elapsed time), so IntervalYear/IntervalMonth/
// IntervalYearToMonth treat the whole duration as elapsed days and report
// zero years/months — documented here rather than silently wrong, since a
// true calendar interval is outside what tinySQL's storage layer carries.
func EncodeInterval(d time.Duration, code IntervalSubcode) Interval {
	iv := Interval{Code: code}
	if d < 0 {
		iv.Negative = true
		d = -d
	}
	micros := d.Microseconds()
	switch code {
	case IntervalYear, IntervalMonth, IntervalYearToMonth:
		// No calendar months in a Duration; report via Day instead so no
		// information is silently dropped (see doc comment above).
		iv.Day = uint32(micros / 86400e6)
	case IntervalDay:
		iv.Day = uint32(micros / 86400e6)
	case IntervalHour:
		iv.Hour = uint32(micros / 3600e6)
	case IntervalMinute:
		iv.Minute = uint32(micros / 60e6)
	case IntervalSecond:
		iv.Second = uint32(micros / 1e6)
		iv.FractionNano = uint32((micros % 1e6) * 1000)
	case IntervalDayToHour:
		iv.Day = uint32(micros / 86400e6)
		iv.Hour = uint32((micros / 3600e6) % 24)
	case IntervalDayToMinute:
		iv.Day = uint32(micros / 86400e6)
		iv.Hour = uint32((micros / 3600e6) % 24)
		iv.Minute = uint32((micros / 60e6) % 60)
	case IntervalDayToSecond:
		iv.Day = uint32(micros / 86400e6)
		iv.Hour = uint32((micros / 3600e6) % 24)
		iv.Minute = uint32((micros / 60e6) % 60)
		iv.Second = uint32((micros / 1e6) % 60)
		iv.FractionNano = uint32((micros % 1e6) * 1000)
	case IntervalHourToMinute:
		iv.Hour = uint32(micros / 3600e6)
		iv.Minute = uint32((micros / 60e6) % 60)
	case IntervalHourToSecond:
		iv.Hour = uint32(micros / 3600e6)
		iv.Minute = uint32((micros / 60e6) % 60)
		iv.Second = uint32((micros / 1e6) % 60)
		iv.FractionNano = uint32((micros % 1e6) * 1000)
	case IntervalMinuteToSecond:
		iv.Minute = uint32(micros / 60e6)
		iv.Second = uint32((micros / 1e6) % 60)
		iv.FractionNano = uint32((micros % 1e6) * 1000)
	}
	return iv
}

// DecodeInterval is the inverse used by internal/param when a client binds
// an interval struct as input.
func DecodeInterval(iv Interval) time.Duration {
	d := time.Duration(iv.Day)*24*time.Hour +
		time.Duration(iv.Hour)*time.Hour +
		time.Duration(iv.Minute)*time.Minute +
		time.Duration(iv.Second)*time.Second +
		time.Duration(iv.FractionNano)*time.Nanosecond
	if iv.Negative {
		d = -d
	}
	return d
}

// DisplaySizeForNumeric reports the SQL_DESC_DISPLAY_SIZE for a DECIMAL/
// NUMERIC column of the given precision/scale: sign + digits + decimal
// point when scale > 0; precision and scale come from the engine's decimal
// width/scale.
func DisplaySizeForNumeric(precision, scale int) int64 {
	size := int64(precision) + 1 // sign
	if scale > 0 {
		size++ // decimal point
	}
	return size
}

// FormatRat renders r the way tinySQL's own decimal literals are written
// (plain fixed-point, never scientific notation), used when a DECIMAL
// column is fetched as SQL_C_CHAR.
func FormatRat(r *big.Rat, scale int) string {
	if scale < 0 {
		return r.RatString()
	}
	return r.FloatString(scale)
}

// CoerceError formats the "type coercion policy" diagnostic
// text for a failed engine-side cast.
func CoerceError(from, to string, err error) error {
	return &ErrRestrictedDataType{Detail: fmt.Sprintf("cannot convert %s to %s: %v", from, to, err)}
}
