// This file implements the catalog function
// entrypoints. Every one of them materializes its rows through
// internal/catalog and hands them to internal/fetch's cursor machinery via
// tsengine.NewStaticResult, exactly the way a real Execute's result set is
// opened in odbc.go -- catalog functions are just statements whose "engine"
// is internal/catalog instead of tinySQL's parser.
package main

/*
#include "sqlapi.h"
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/SimonWaldherr/tinySQL"

	"github.com/tinysql-odbc/driver/internal/catalog"
	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/fetch"
	"github.com/tinysql-odbc/driver/internal/handle"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
	"github.com/tinysql-odbc/driver/internal/tsengine"
)

// openCatalogResult replaces the statement's live cursor/result with a
// static row set and fills the IRD directly from an explicit SQL type list,
// since catalog rows never run through tsengine.Prepared's describe step.
func openCatalogResult(s *handle.Statement, names []string, types []odbcapi.SQLType, rows []tinysql.Row) C.SQLRETURN {
	st := stmtExt(s)
	if st.cursor != nil {
		st.cursor.Close()
	}
	result := tsengine.NewStaticResult(names, rows)
	cur, _ := fetch.Open(result, odbcapi.CursorForwardOnly)
	st.cursor = cur
	st.result = result
	st.prepared = nil

	ird := s.Resolve(odbcapi.RoleIRD)
	ird.Reset()
	for i, name := range names {
		rec := ird.EnsureRecord(i + 1)
		rec.Name = name
		rec.Label = name
		rec.BaseColumnName = name
		rec.Nullable = 1
		if i < len(types) {
			fillIRDSQLType(rec, types[i])
		}
	}
	return C.SQL_SUCCESS
}

// fillIRDSQLType is fillIRDType's counterpart for catalog result columns,
// which are described directly by their SQL_* type rather than by an engine
// ColType (catalog rows are synthesized here, not read back from tinySQL).
func fillIRDSQLType(rec *descriptor.Record, t odbcapi.SQLType) {
	rec.ConciseType = t
	rec.Type = t
	switch t {
	case odbcapi.TInteger, odbcapi.TSmallint, odbcapi.TBigint:
		rec.Length, rec.OctetLength, rec.DisplaySize = 20, 20, 20
	default:
		rec.Length, rec.OctetLength, rec.DisplaySize = 128, 128, 128
	}
}

//export SQLTables
func SQLTables(stmtHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLen1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLen2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLen3 C.SQLSMALLINT,
	tableType *C.SQLCHAR, nameLen4 C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doTables(s,
		goStringA(catalogName, nameLen1), goStringA(schemaName, nameLen2),
		goStringA(tableName, nameLen3), goStringA(tableType, nameLen4))
}

// doTables is SQLTables/SQLTablesW's shared core once every pattern argument
// has been decoded to a Go string.
func doTables(s *handle.Statement, catalogPattern, schemaPattern, namePattern, typePattern string) C.SQLRETURN {
	s.Diag.Clear()
	ec, ok := engineConn(s.Conn)
	if !ok {
		s.Diag.Push("", "TABLES", "connection not open", odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}
	tables := catalog.ListTables(ec.DB(), ec.Tenant(), catalogPattern, schemaPattern, namePattern, typePattern)
	types := make([]odbcapi.SQLType, len(catalog.TablesColumns))
	for i := range types {
		types[i] = odbcapi.TVarchar
	}
	return openCatalogResult(s, catalog.TablesColumns, types, catalog.TableRows(tables))
}

//export SQLColumns
func SQLColumns(stmtHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLen1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLen2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLen3 C.SQLSMALLINT,
	columnName *C.SQLCHAR, nameLen4 C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doColumns(s,
		goStringA(catalogName, nameLen1), goStringA(schemaName, nameLen2),
		goStringA(tableName, nameLen3), goStringA(columnName, nameLen4))
}

// doColumns is SQLColumns/SQLColumnsW's shared core.
func doColumns(s *handle.Statement, catalogPattern, schemaPattern, tablePattern, columnPattern string) C.SQLRETURN {
	s.Diag.Clear()
	ec, ok := engineConn(s.Conn)
	if !ok {
		s.Diag.Push("", "COLUMNS", "connection not open", odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}
	tenant := ec.Tenant()
	tables := catalog.ListTables(ec.DB(), tenant, catalogPattern, schemaPattern, tablePattern, "")

	var all []catalog.ColumnRow
	for _, t := range tables {
		cols, err := catalog.ListColumns(ec.DB(), tenant, t.Name, columnPattern)
		if err != nil {
			continue
		}
		all = append(all, cols...)
	}

	types := make([]odbcapi.SQLType, len(catalog.ColumnsColumns))
	for i := range types {
		types[i] = odbcapi.TVarchar
	}
	return openCatalogResult(s, catalog.ColumnsColumns, types, catalog.ColumnRows(all))
}

//export SQLGetTypeInfo
func SQLGetTypeInfo(stmtHandle C.SQLHSTMT, dataType C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doGetTypeInfo(s, odbcapi.SQLType(dataType))
}

// doGetTypeInfo is SQLGetTypeInfo/SQLGetTypeInfoW's shared core (GetTypeInfo
// takes no string arguments, so the two entrypoints are otherwise identical).
func doGetTypeInfo(s *handle.Statement, sqlType odbcapi.SQLType) C.SQLRETURN {
	s.Diag.Clear()
	rows := catalog.TypeInfoRows(sqlType)
	types := make([]odbcapi.SQLType, len(catalog.TypeInfoColumns))
	for i := range types {
		types[i] = odbcapi.TVarchar
	}
	return openCatalogResult(s, catalog.TypeInfoColumns, types, rows)
}

//export SQLGetInfo
func SQLGetInfo(dbc C.SQLHDBC, infoType C.SQLUSMALLINT, infoValuePtr C.SQLPOINTER,
	bufLen C.SQLSMALLINT, strLenPtr *C.SQLSMALLINT) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	ec, ok := engineConn(c)
	if !ok {
		c.Diag.Push(c.DSN, "GETINFO", "connection not open", odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}
	v, ok := catalog.GetInfo(context.Background(), ec, catalog.InfoType(infoType))
	if !ok {
		// unknown info type: report success with no diagnostic so BI tools
		// that probe undocumented InfoTypes don't treat this as a hard
		// failure,.
		if infoValuePtr != nil {
			*(*C.SQLUSMALLINT)(infoValuePtr) = 0
		}
		return C.SQL_SUCCESS
	}
	if v.IsString {
		writeOutA((*C.SQLCHAR)(infoValuePtr), bufLen, strLenPtr, v.Str)
		return C.SQL_SUCCESS
	}
	if infoValuePtr != nil {
		*(*C.SQLUINTEGER)(infoValuePtr) = C.SQLUINTEGER(v.Num)
	}
	return C.SQL_SUCCESS
}

//export SQLGetFunctions
func SQLGetFunctions(dbc C.SQLHDBC, functionID C.SQLUSMALLINT, supportedPtr *C.SQLUSMALLINT) C.SQLRETURN {
	if _, ok := lookupDbc(uintptr(dbc)); !ok {
		return C.SQL_INVALID_HANDLE
	}
	switch catalog.FunctionID(functionID) {
	case catalog.FuncODBC3AllFunctions:
		// 250 x SQLUSMALLINT bitmap (4000 bits), ODBC 3.x's documented
		// SQL_API_ODBC3_ALL_FUNCTIONS_SIZE layout.
		const bitmapWords = 250
		bitmap := unsafe.Slice(supportedPtr, bitmapWords)
		for i := range bitmap {
			bitmap[i] = 0
		}
		for ord := uint16(0); ord < bitmapWords*16; ord++ {
			if catalog.Supports3(ord) {
				bitmap[ord>>4] |= C.SQLUSMALLINT(1 << (ord & 0xF))
			}
		}
	case catalog.FuncAllFunctions:
		flat := unsafe.Slice(supportedPtr, 100)
		for ord, ok := range catalog.Supports2() {
			v := C.SQLUSMALLINT(0)
			if ok {
				v = 1
			}
			flat[ord] = v
		}
	default:
		ord := uint16(functionID)
		v := C.SQLUSMALLINT(0)
		if catalog.Supports3(ord) {
			v = 1
		}
		if supportedPtr != nil {
			*supportedPtr = v
		}
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Zero-row catalog stubs: unimplemented catalog functions still return
// the correct column shape, just with zero rows.
// ---------------------------------------------------------------------

func emptyCatalogResult(s *handle.Statement, cols []string) C.SQLRETURN {
	types := make([]odbcapi.SQLType, len(cols))
	for i := range types {
		types[i] = odbcapi.TVarchar
	}
	return openCatalogResult(s, cols, types, nil)
}

//export SQLStatistics
func SQLStatistics(stmtHandle C.SQLHSTMT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ C.SQLUSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.StatisticsColumns)
}

//export SQLSpecialColumns
func SQLSpecialColumns(stmtHandle C.SQLHSTMT, _ C.SQLUSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ C.SQLUSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.SpecialColumnsColumns)
}

//export SQLProcedures
func SQLProcedures(stmtHandle C.SQLHSTMT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ProceduresColumns)
}

//export SQLProcedureColumns
func SQLProcedureColumns(stmtHandle C.SQLHSTMT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ProcedureColumnsColumns)
}

//export SQLPrimaryKeys
func SQLPrimaryKeys(stmtHandle C.SQLHSTMT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.PrimaryKeysColumns)
}

//export SQLForeignKeys
func SQLForeignKeys(stmtHandle C.SQLHSTMT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ForeignKeysColumns)
}

//export SQLTablePrivileges
func SQLTablePrivileges(stmtHandle C.SQLHSTMT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.TablePrivilegesColumns)
}

//export SQLColumnPrivileges
func SQLColumnPrivileges(stmtHandle C.SQLHSTMT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ColumnPrivilegesColumns)
}

// ---------------------------------------------------------------------
// Optional-feature stubs: these always fail with HYC00 "optional feature
// not implemented" (async execution, bookmarks, multi-row positioned
// updates are out of scope for this driver).
// ---------------------------------------------------------------------

//export SQLNativeSql
func SQLNativeSql(dbc C.SQLHDBC, _ *C.SQLCHAR, _ C.SQLINTEGER, _ *C.SQLCHAR, _ C.SQLINTEGER, _ *C.SQLINTEGER) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	c.Diag.Push(c.DSN, "NATIVESQL", "optional feature not implemented", odbcapi.StateOptionalFeatureNotImpl)
	return C.SQL_ERROR
}

//export SQLBrowseConnect
func SQLBrowseConnect(dbc C.SQLHDBC, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLSMALLINT) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	c.Diag.Push(c.DSN, "BROWSECONNECT", "optional feature not implemented", odbcapi.StateOptionalFeatureNotImpl)
	return C.SQL_ERROR
}

//export SQLBulkOperations
func SQLBulkOperations(stmtHandle C.SQLHSTMT, _ C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	s.Diag.Push("", "BULKOPERATIONS", "optional feature not implemented", odbcapi.StateOptionalFeatureNotImpl)
	return C.SQL_ERROR
}

//export SQLSetPos
func SQLSetPos(stmtHandle C.SQLHSTMT, rowNumber C.SQLUSMALLINT, operation C.SQLUSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	if operation != C.SQL_POSITION {
		s.Diag.Push("", "SETPOS", "optional feature not implemented", odbcapi.StateOptionalFeatureNotImpl)
		return C.SQL_ERROR
	}
	st := stmtExt(s)
	if st == nil || st.cursor == nil || !st.cursor.IsOpen() {
		s.Diag.Push("", "SETPOS", "function sequence error", odbcapi.StateFunctionSequenceError)
		return C.SQL_ERROR
	}
	if err := st.cursor.SetPosition(int(rowNumber)); err != nil {
		s.Diag.Push("", "SETPOS", err.Error(), odbcapi.StateInvalidCursorPosition)
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}
