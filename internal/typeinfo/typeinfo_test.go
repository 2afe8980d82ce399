package typeinfo

import (
	"testing"

	"github.com/SimonWaldherr/tinySQL"

	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

func TestLookupKnownColType(t *testing.T) {
	row := Lookup(tinysql.IntType)
	if row.SQLType != odbcapi.TInteger {
		t.Errorf("Lookup(IntType).SQLType = %v, want TInteger", row.SQLType)
	}
	if row.LocalTypeName != "INTEGER" {
		t.Errorf("Lookup(IntType).LocalTypeName = %q, want INTEGER", row.LocalTypeName)
	}
}

func TestLookupUnknownDefaultsToVarchar(t *testing.T) {
	row := Lookup(tinysql.ColType(9999))
	if row.SQLType != odbcapi.TVarchar {
		t.Errorf("Lookup(unknown).SQLType = %v, want TVarchar", row.SQLType)
	}
	if row.LocalTypeName != "VARCHAR" {
		t.Errorf("Lookup(unknown).LocalTypeName = %q, want VARCHAR", row.LocalTypeName)
	}
}

func TestFindRelatedSQLType(t *testing.T) {
	if got := FindRelatedSQLType(tinysql.IntType); got != odbcapi.TInteger {
		t.Errorf("FindRelatedSQLType(IntType) = %v, want TInteger", got)
	}
}

func TestFindDataTypesAllTypes(t *testing.T) {
	all := FindDataTypes(0)
	if len(all) == 0 {
		t.Fatal("FindDataTypes(SQL_ALL_TYPES) returned no rows")
	}
	if len(all) != len(byColType) {
		t.Errorf("FindDataTypes(0) returned %d rows, want %d (one per registered col type)", len(all), len(byColType))
	}
}

func TestFindDataTypesBySQLType(t *testing.T) {
	rows := FindDataTypes(odbcapi.TInteger)
	if len(rows) == 0 {
		t.Fatal("expected at least one row for SQL_INTEGER")
	}
	for _, r := range rows {
		if r.SQLType != odbcapi.TInteger {
			t.Errorf("FindDataTypes(TInteger) returned row with SQLType %v", r.SQLType)
		}
	}
}

func TestFindDataTypesUnknownSQLType(t *testing.T) {
	if rows := FindDataTypes(odbcapi.SQLType(-999)); rows != nil {
		t.Errorf("expected nil for an unregistered SQL type, got %d rows", len(rows))
	}
}

func TestResolverIntervalSubcodeRange(t *testing.T) {
	var r Resolver
	if !r.Resolve(odbcapi.TIntervalBase, 101) {
		t.Error("interval subcode 101 (YEAR) should resolve")
	}
	if !r.Resolve(odbcapi.TIntervalBase, 113) {
		t.Error("interval subcode 113 (MINUTE_TO_SECOND) should resolve")
	}
	if r.Resolve(odbcapi.TIntervalBase, 100) {
		t.Error("interval subcode 100 is out of range and should not resolve")
	}
	if r.Resolve(odbcapi.TIntervalBase, 114) {
		t.Error("interval subcode 114 is out of range and should not resolve")
	}
}

func TestResolverKnownRegistryType(t *testing.T) {
	var r Resolver
	if !r.Resolve(odbcapi.TInteger, 0) {
		t.Error("TInteger is backed by a registry row and should resolve")
	}
}

func TestResolverCarveOutTypes(t *testing.T) {
	var r Resolver
	for _, typ := range []odbcapi.SQLType{
		odbcapi.TChar, odbcapi.TVarchar, odbcapi.TLongVarchar,
		odbcapi.TWChar, odbcapi.TWVarchar, odbcapi.TWLongVarchar,
		odbcapi.TBinary, odbcapi.TVarbinary, odbcapi.TLongVarbinary,
		odbcapi.TNumeric, odbcapi.TDecimal, odbcapi.TGUID,
	} {
		if !r.Resolve(typ, 0) {
			t.Errorf("carve-out type %v should resolve even without a fixed-width registry row", typ)
		}
	}
}

func TestResolverRejectsUnknownType(t *testing.T) {
	var r Resolver
	if r.Resolve(odbcapi.SQLType(-12345), 0) {
		t.Error("an entirely unknown SQL type should not resolve")
	}
}
