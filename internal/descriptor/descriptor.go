// Package descriptor implements the APD/IPD/ARD/IRD data model: header plus
// record fields, the field-category routing table (read-only-under-role,
// invalid-under-role), consistency checking of (type, datetime/interval
// subcode) against the type registry, and descriptor copy/reset/growth
// semantics.
package descriptor

import (
	"fmt"

	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

// Header holds the descriptor-wide fields common to all four roles.
type Header struct {
	AllocType      odbcapi.AllocType
	ArraySize      int64  // rows per fetch (ARD) or parameter-set count (APD)
	ArrayStatusPtr uintptr
	BindOffsetPtr  uintptr
	BindType       int64 // 0 = column-wise, >0 = row-wise stride in bytes
	Count          int32
	RowsProcessedPtr uintptr
}

// Record holds the per-column/per-parameter fields. Not every field is
// meaningful under every role; routing
// and read-only enforcement is handled by odbcapi.ReadOnlyUnder/InvalidUnder
// and applied by SetType and CheckFieldAccess below.
type Record struct {
	ConciseType            odbcapi.SQLType
	Type                   odbcapi.SQLType
	DatetimeIntervalCode   int16
	DatetimeIntervalPrec   int32
	Precision              int16
	Scale                  int16
	Length                 uint64
	OctetLength            int64
	DisplaySize            int64
	Nullable               int16
	CaseSensitive          int16
	Unsigned               int16
	Searchable             int16
	FixedPrecScale         int16
	LiteralPrefix          string
	LiteralSuffix          string
	LocalTypeName          string
	TypeName               string
	BaseColumnName         string
	BaseTableName          string
	SchemaName             string
	CatalogName            string
	Label                  string
	Name                   string
	Unnamed                int16
	ParameterType          odbcapi.ParamDirection
	DataPtr                uintptr
	IndicatorPtr           uintptr
	OctetLengthPtr         uintptr
	AutoUniqueValue        int32
	Updatable              int16
	Rowver                 int16
	NumPrecRadix           int32
}

// Descriptor is either implicit (owned by exactly one statement, born into
// one role) or explicit (allocated by the client, installable into any
// statement's APD/ARD slot —).
type Descriptor struct {
	Header  Header
	Records []Record
}

// New allocates an empty descriptor with the given allocation type. Role is
// not stored here: implicit descriptors are always used with the role their
// owning Statement field implies, and explicit descriptors carry whatever
// role they're currently bound as, supplied by the caller of SetType and
// CheckFieldAccess.
func New(allocType odbcapi.AllocType) *Descriptor {
	return &Descriptor{Header: Header{AllocType: allocType}}
}

// ErrInconsistent is returned by SetType when a CONCISE_TYPE/TYPE +
// DATETIME_INTERVAL_CODE combination has no match in the type registry
//.
type ErrInconsistent struct{ Detail string }

func (e *ErrInconsistent) Error() string { return "inconsistent descriptor information: " + e.Detail }

// ErrReadOnly is returned when a field write targets a field that is
// read-only under the descriptor's current role (SQLSTATE HY091 at the
// caller layer; a read of the same field is allowed).
type ErrReadOnly struct{ Field odbcapi.FieldID }

func (e *ErrReadOnly) Error() string {
	return fmt.Sprintf("field %d is read-only under this descriptor role", e.Field)
}

// ErrInvalidField is returned when a field does not apply to the
// descriptor's current role at all.
type ErrInvalidField struct {
	Field odbcapi.FieldID
	Role  odbcapi.DescRole
}

func (e *ErrInvalidField) Error() string {
	return fmt.Sprintf("field %d is not valid on a %s descriptor", e.Field, e.Role)
}

// ErrBadRecordIndex is returned for a non-positive record number.
type ErrBadRecordIndex struct{ N int }

func (e *ErrBadRecordIndex) Error() string { return "invalid descriptor record index" }

// TypeResolver resolves a (concise type, datetime/interval subcode) pair to
// a canonical type-registry row, or reports not-found. internal/typeinfo
// implements this; kept as an interface here to avoid a descriptor→typeinfo
// import cycle risk and to keep this package testable without the registry.
type TypeResolver interface {
	Resolve(conciseType odbcapi.SQLType, subcode int16) (found bool)
}

// EnsureRecord grows Records to hold index n (1-based), appending default
// records and updating Header.Count, "Growing records".
func (d *Descriptor) EnsureRecord(n int) *Record {
	if n < 1 {
		return nil
	}
	for len(d.Records) < n {
		d.Records = append(d.Records, Record{})
	}
	if int32(n) > d.Header.Count {
		d.Header.Count = int32(n)
	}
	return &d.Records[n-1]
}

// Record1 returns the 1-based record, or nil if out of range.
func (d *Descriptor) Record1(n int) *Record {
	if n < 1 || n > len(d.Records) {
		return nil
	}
	return &d.Records[n-1]
}

// SetType sets CONCISE_TYPE/TYPE (and optionally the interval subcode) on
// record n, performing the consistency check first. On failure
// the record is left unchanged and ErrInconsistent is returned.
func (d *Descriptor) SetType(n int, role odbcapi.DescRole, resolver TypeResolver, t odbcapi.SQLType, subcode int16) error {
	if odbcapi.InvalidUnder(odbcapi.FieldType, role) {
		return &ErrInvalidField{Field: odbcapi.FieldType, Role: role}
	}
	if odbcapi.ReadOnlyUnder(odbcapi.FieldType, role) {
		return &ErrReadOnly{Field: odbcapi.FieldType}
	}
	if resolver != nil && !resolver.Resolve(t, subcode) {
		return &ErrInconsistent{Detail: fmt.Sprintf("type=%d subcode=%d", t, subcode)}
	}
	rec := d.EnsureRecord(n)
	rec.ConciseType = t
	rec.Type = t
	rec.DatetimeIntervalCode = subcode
	return nil
}

// CheckFieldAccess validates a plain (non-type) field access against the
// role routing table: ErrInvalidField when the field does not apply to the
// role, ErrReadOnly when it applies but may not be written. A caller that
// only reads the field treats ErrReadOnly as success.
func CheckFieldAccess(field odbcapi.FieldID, role odbcapi.DescRole) error {
	if odbcapi.InvalidUnder(field, role) {
		return &ErrInvalidField{Field: field, Role: role}
	}
	if odbcapi.ReadOnlyUnder(field, role) {
		return &ErrReadOnly{Field: field}
	}
	return nil
}

// Copy implements SQLCopyDesc semantics: copies header and
// records from src into dst, except dst's own AllocType is preserved ("COPY
// ... cannot change" the allocation type).
func Copy(dst, src *Descriptor) {
	keepAlloc := dst.Header.AllocType
	dst.Header = src.Header
	dst.Header.AllocType = keepAlloc
	dst.Records = append([]Record(nil), src.Records...)
}

// Reset clears all records and header counters back to a freshly-allocated
// state, preserving AllocType. Used when a statement's implicit descriptor
// is reverted to defaults (e.g. SQLFreeStmt(SQL_UNBIND)/SQL_RESET_PARAMS).
func (d *Descriptor) Reset() {
	d.Records = nil
	allocType := d.Header.AllocType
	d.Header = Header{AllocType: allocType}
}
