package descriptor

import (
	"testing"

	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

func TestEnsureRecordGrowsAndUpdatesCount(t *testing.T) {
	d := New(odbcapi.AllocAuto)
	rec := d.EnsureRecord(3)
	if rec == nil {
		t.Fatal("EnsureRecord(3) returned nil")
	}
	if d.Header.Count != 3 {
		t.Errorf("Header.Count = %d, want 3", d.Header.Count)
	}
	if len(d.Records) != 3 {
		t.Errorf("len(Records) = %d, want 3", len(d.Records))
	}
	// Growing to a smaller index must not shrink count.
	d.EnsureRecord(1)
	if d.Header.Count != 3 {
		t.Errorf("Header.Count shrank to %d after EnsureRecord(1)", d.Header.Count)
	}
}

func TestRecord1OutOfRange(t *testing.T) {
	d := New(odbcapi.AllocAuto)
	if d.Record1(1) != nil {
		t.Error("Record1(1) on empty descriptor should be nil")
	}
	d.EnsureRecord(2)
	if d.Record1(0) != nil || d.Record1(3) != nil {
		t.Error("Record1 should reject out-of-range indices")
	}
	if d.Record1(2) == nil {
		t.Error("Record1(2) should succeed after EnsureRecord(2)")
	}
}

type fakeResolver struct{ ok bool }

func (f fakeResolver) Resolve(odbcapi.SQLType, int16) bool { return f.ok }

func TestSetTypeRejectsUnknownCombination(t *testing.T) {
	d := New(odbcapi.AllocAuto)
	err := d.SetType(1, odbcapi.RoleIPD, fakeResolver{ok: false}, odbcapi.TInteger, 0)
	if _, ok := err.(*ErrInconsistent); !ok {
		t.Fatalf("SetType with unresolvable type = %v, want *ErrInconsistent", err)
	}
	// record must be left unchanged (still zero value, since EnsureRecord
	// was never reached).
	if len(d.Records) != 0 {
		t.Errorf("record should not have been created on failure, got %d records", len(d.Records))
	}
}

func TestSetTypeSucceeds(t *testing.T) {
	d := New(odbcapi.AllocAuto)
	if err := d.SetType(1, odbcapi.RoleIPD, fakeResolver{ok: true}, odbcapi.TInteger, 0); err != nil {
		t.Fatalf("SetType failed: %v", err)
	}
	rec := d.Record1(1)
	if rec.ConciseType != odbcapi.TInteger || rec.Type != odbcapi.TInteger {
		t.Errorf("record type = %v, want TInteger", rec.ConciseType)
	}
}

func TestSetTypeReadOnlyOnIRD(t *testing.T) {
	d := New(odbcapi.AllocAuto)
	err := d.SetType(1, odbcapi.RoleIRD, fakeResolver{ok: true}, odbcapi.TInteger, 0)
	if _, ok := err.(*ErrReadOnly); !ok {
		t.Fatalf("SetType on IRD = %v, want *ErrReadOnly", err)
	}
}

func TestCheckFieldAccessNameInvalidOutsideIPD(t *testing.T) {
	if err := CheckFieldAccess(odbcapi.FieldName, odbcapi.RoleAPD); err == nil {
		t.Error("FieldName should be invalid on APD")
	}
	if err := CheckFieldAccess(odbcapi.FieldName, odbcapi.RoleIPD); err != nil {
		t.Errorf("FieldName should be valid on IPD: %v", err)
	}
}

func TestCopyPreservesDestAllocType(t *testing.T) {
	src := New(odbcapi.AllocAuto)
	src.EnsureRecord(2)
	src.Record1(1).Name = "col1"
	dst := New(odbcapi.AllocUser)

	Copy(dst, src)

	if dst.Header.AllocType != odbcapi.AllocUser {
		t.Errorf("AllocType = %v, want AllocUser to survive the copy", dst.Header.AllocType)
	}
	if len(dst.Records) != 2 || dst.Record1(1).Name != "col1" {
		t.Errorf("records not copied correctly: %+v", dst.Records)
	}
	// mutating dst must not affect src (independent slice).
	dst.Record1(1).Name = "changed"
	if src.Record1(1).Name != "col1" {
		t.Error("Copy should deep-copy the record slice")
	}
}

func TestResetPreservesAllocType(t *testing.T) {
	d := New(odbcapi.AllocUser)
	d.EnsureRecord(3)
	d.Header.ArraySize = 10
	d.Reset()
	if d.Header.AllocType != odbcapi.AllocUser {
		t.Errorf("AllocType = %v, want preserved", d.Header.AllocType)
	}
	if d.Header.Count != 0 || len(d.Records) != 0 || d.Header.ArraySize != 0 {
		t.Errorf("Reset did not clear state: %+v", d.Header)
	}
}
