// This file implements the wide (UTF-16) half of the ODBC entrypoint
// surface. Every `...W` entrypoint decodes its
// SQLWCHAR arguments with internal/encoding's lenient UTF-16 conversion and
// either calls straight into the narrow file's shared `do*` core (when the
// only difference is the string encoding of the input) or re-implements the
// thin buffer-writing tail with writeOutW in place of writeOutA (when the
// function also writes string output). No ODBC semantics are duplicated
// here that the narrow file or internal/ packages already own.
package main

/*
#include "sqlapi.h"
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/tinysql-odbc/driver/internal/catalog"
	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/encoding"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

// goStringW reads a (possibly non-NUL-terminated) wide ODBC string
// argument. length < 0 means SQL_NTS (scan for a NUL code unit); otherwise
// length is the exact code-unit count, matching goStringA's narrow contract
//.
func goStringW(ptr *C.SQLWCHAR, length C.SQLINTEGER) string {
	if ptr == nil {
		return ""
	}
	var units []uint16
	if length < 0 {
		n := 0
		for {
			u := *(*uint16)(unsafe.Pointer(uintptr(unsafe.Pointer(ptr)) + uintptr(n)*2))
			if u == 0 {
				break
			}
			n++
		}
		units = unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), n)
	} else {
		units = unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), int(length))
	}
	s, _ := encoding.UTF16ToUTF8Lenient(units)
	return s
}

// writeOutW is writeOutA's wide counterpart: bufLen counts SQLWCHAR
// characters (the unit count of buf), while the length reported through
// lenPtr is in bytes.
func writeOutW(buf *C.SQLWCHAR, bufLen C.SQLSMALLINT, lenPtr *C.SQLSMALLINT, s string) encoding.WriteResult {
	var units []uint16
	if buf != nil && bufLen > 0 {
		units = unsafe.Slice((*uint16)(unsafe.Pointer(buf)), int(bufLen))
	}
	_, res := encoding.WriteWideFromString(units, s)
	if lenPtr != nil {
		*lenPtr = C.SQLSMALLINT(res.FullLen)
	}
	return res
}

// ---------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------

//export SQLConnectW
func SQLConnectW(dbc C.SQLHDBC, serverName *C.SQLWCHAR, nameLen1 C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	dsn := goStringW(serverName, C.SQLINTEGER(nameLen1))
	return doConnect(uintptr(dbc), "dsn="+dsn)
}

//export SQLDriverConnectW
func SQLDriverConnectW(dbc C.SQLHDBC, _ C.SQLPOINTER, inConnStr *C.SQLWCHAR, strLen1 C.SQLSMALLINT,
	outConnStr *C.SQLWCHAR, bufLen C.SQLSMALLINT, strLen2Ptr *C.SQLSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	connStr := goStringW(inConnStr, C.SQLINTEGER(strLen1))
	result := doConnect(uintptr(dbc), connStr)
	if result == C.SQL_ERROR || result == C.SQL_INVALID_HANDLE {
		return result
	}
	writeOutW(outConnStr, bufLen, strLen2Ptr, connStr)
	return result
}

//export SQLSetConnectAttrW
func SQLSetConnectAttrW(dbc C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, strLen C.SQLINTEGER) C.SQLRETURN {
	if attribute == C.SQL_ATTR_CURRENT_CATALOG {
		c, ok := lookupDbc(uintptr(dbc))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
		c.Diag.Clear()
		c.CurrentCatalog = goStringW((*C.SQLWCHAR)(valuePtr), strLen)
		return C.SQL_SUCCESS
	}
	return SQLSetConnectAttr(dbc, attribute, valuePtr, strLen)
}

//export SQLGetConnectAttrW
func SQLGetConnectAttrW(dbc C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, bufLen C.SQLINTEGER, strLenPtr *C.SQLINTEGER) C.SQLRETURN {
	if attribute == C.SQL_ATTR_CURRENT_CATALOG {
		c, ok := lookupDbc(uintptr(dbc))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
		c.Diag.Clear()
		var units []uint16
		if valuePtr != nil && bufLen > 0 {
			units = unsafe.Slice((*uint16)(unsafe.Pointer(valuePtr)), int(bufLen)/2)
		}
		_, res := encoding.WriteWideFromString(units, c.CurrentCatalog)
		if strLenPtr != nil {
			*strLenPtr = C.SQLINTEGER(res.FullLen)
		}
		return C.SQL_SUCCESS
	}
	return SQLGetConnectAttr(dbc, attribute, valuePtr, bufLen, strLenPtr)
}

// ---------------------------------------------------------------------
// Prepare / execute
// ---------------------------------------------------------------------

//export SQLPrepareW
func SQLPrepareW(stmtHandle C.SQLHSTMT, text *C.SQLWCHAR, textLen C.SQLINTEGER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doPrepare(s, goStringW(text, textLen))
}

//export SQLExecDirectW
func SQLExecDirectW(stmtHandle C.SQLHSTMT, text *C.SQLWCHAR, textLen C.SQLINTEGER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doExecDirect(s, goStringW(text, textLen))
}

// ---------------------------------------------------------------------
// Result set description
// ---------------------------------------------------------------------

//export SQLDescribeColW
func SQLDescribeColW(stmtHandle C.SQLHSTMT, colNum C.SQLUSMALLINT, colName *C.SQLWCHAR, bufLen C.SQLSMALLINT,
	nameLenPtr *C.SQLSMALLINT, dataTypePtr *C.SQLSMALLINT, sizePtr *C.SQLULEN, digitsPtr *C.SQLSMALLINT, nullablePtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	ird := s.Resolve(odbcapi.RoleIRD)
	rec := ird.Record1(int(colNum))
	if rec == nil {
		s.Diag.Push("", "DESCRIBECOL", "invalid descriptor index", odbcapi.StateInvalidDescriptorIndex)
		return C.SQL_ERROR
	}
	res := writeOutW(colName, bufLen, nameLenPtr, rec.Name)
	if dataTypePtr != nil {
		*dataTypePtr = C.SQLSMALLINT(rec.ConciseType)
	}
	if sizePtr != nil {
		*sizePtr = C.SQLULEN(rec.Length)
	}
	if digitsPtr != nil {
		*digitsPtr = C.SQLSMALLINT(rec.Scale)
	}
	if nullablePtr != nil {
		*nullablePtr = C.SQLSMALLINT(rec.Nullable)
	}
	if state, warn := res.TruncationState(); warn {
		s.Diag.Push("", "DESCRIBECOL", "string data, right truncated", state)
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

//export SQLColAttributeW
func SQLColAttributeW(stmtHandle C.SQLHSTMT, colNum C.SQLUSMALLINT, fieldID C.SQLUSMALLINT,
	charAttrPtr C.SQLPOINTER, bufLen C.SQLSMALLINT, strLenPtr *C.SQLSMALLINT, numAttrPtr *C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	ird := s.Resolve(odbcapi.RoleIRD)
	rec := ird.Record1(int(colNum))
	if rec == nil {
		s.Diag.Push("", "COLATTRIBUTE", "invalid descriptor index", odbcapi.StateInvalidDescriptorIndex)
		return C.SQL_ERROR
	}
	field, ok := fieldIDFromC(int32(fieldID))
	if !ok {
		s.Diag.Push("", "COLATTRIBUTE", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	if isStringColAttr(field) {
		res := writeOutW((*C.SQLWCHAR)(charAttrPtr), bufLen, strLenPtr, colAttrString(rec, field))
		if state, warn := res.TruncationState(); warn {
			s.Diag.Push("", "COLATTRIBUTE", "string data, right truncated", state)
			return C.SQL_SUCCESS_WITH_INFO
		}
		return C.SQL_SUCCESS
	}
	if numAttrPtr != nil {
		*numAttrPtr = C.SQLLEN(colAttrNumeric(rec, field))
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Cursor name
// ---------------------------------------------------------------------

//export SQLGetCursorNameW
func SQLGetCursorNameW(stmtHandle C.SQLHSTMT, nameBuf *C.SQLWCHAR, bufLen C.SQLSMALLINT, nameLenPtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	if st.cursorName == "" {
		s.Diag.Push("", "CURSORNAME", "invalid cursor name", "3C000")
		return C.SQL_ERROR
	}
	writeOutW(nameBuf, bufLen, nameLenPtr, st.cursorName)
	return C.SQL_SUCCESS
}

//export SQLSetCursorNameW
func SQLSetCursorNameW(stmtHandle C.SQLHSTMT, name *C.SQLWCHAR, nameLen C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	stmtExt(s).cursorName = goStringW(name, C.SQLINTEGER(nameLen))
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------

//export SQLGetDiagRecW
func SQLGetDiagRecW(handleType C.SQLSMALLINT, h C.SQLPOINTER, recNumber C.SQLSMALLINT,
	sqlState *C.SQLWCHAR, nativeErrorPtr *C.SQLINTEGER, msgText *C.SQLWCHAR, bufLen C.SQLSMALLINT, textLenPtr *C.SQLSMALLINT) C.SQLRETURN {
	stack, ok := diagOf(handleType, h)
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	rec, ok := stack.Record(int(recNumber))
	if !ok {
		return C.SQL_NO_DATA
	}
	if sqlState != nil {
		writeOutW(sqlState, 10, nil, rec.SQLState)
	}
	if nativeErrorPtr != nil {
		*nativeErrorPtr = C.SQLINTEGER(rec.NativeError)
	}
	res := writeOutW(msgText, bufLen, textLenPtr, rec.Message)
	if state, warn := res.TruncationState(); warn {
		_ = state
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

//export SQLGetDiagFieldW
func SQLGetDiagFieldW(handleType C.SQLSMALLINT, h C.SQLPOINTER, recNumber C.SQLSMALLINT, diagID C.SQLSMALLINT,
	diagInfoPtr C.SQLPOINTER, bufLen C.SQLSMALLINT, strLenPtr *C.SQLSMALLINT) C.SQLRETURN {
	stack, ok := diagOf(handleType, h)
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	name, ok := diagFieldName(int32(diagID))
	if !ok {
		return C.SQL_NO_DATA
	}
	var val any
	if recNumber <= 0 {
		val, ok = stack.HeaderField(name)
	} else {
		val, ok = stack.RecordField(int(recNumber), name)
	}
	if !ok {
		return C.SQL_NO_DATA
	}
	switch v := val.(type) {
	case string:
		res := writeOutW((*C.SQLWCHAR)(diagInfoPtr), bufLen, strLenPtr, v)
		if state, warn := res.TruncationState(); warn {
			_ = state
			return C.SQL_SUCCESS_WITH_INFO
		}
	case int32:
		writeUintptr(diagInfoPtr, uintptr(int64(v)))
	case int64:
		writeUintptr(diagInfoPtr, uintptr(v))
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Catalog functions
// ---------------------------------------------------------------------

//export SQLTablesW
func SQLTablesW(stmtHandle C.SQLHSTMT,
	catalogName *C.SQLWCHAR, nameLen1 C.SQLSMALLINT,
	schemaName *C.SQLWCHAR, nameLen2 C.SQLSMALLINT,
	tableName *C.SQLWCHAR, nameLen3 C.SQLSMALLINT,
	tableType *C.SQLWCHAR, nameLen4 C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doTables(s,
		goStringW(catalogName, C.SQLINTEGER(nameLen1)), goStringW(schemaName, C.SQLINTEGER(nameLen2)),
		goStringW(tableName, C.SQLINTEGER(nameLen3)), goStringW(tableType, C.SQLINTEGER(nameLen4)))
}

//export SQLColumnsW
func SQLColumnsW(stmtHandle C.SQLHSTMT,
	catalogName *C.SQLWCHAR, nameLen1 C.SQLSMALLINT,
	schemaName *C.SQLWCHAR, nameLen2 C.SQLSMALLINT,
	tableName *C.SQLWCHAR, nameLen3 C.SQLSMALLINT,
	columnName *C.SQLWCHAR, nameLen4 C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doColumns(s,
		goStringW(catalogName, C.SQLINTEGER(nameLen1)), goStringW(schemaName, C.SQLINTEGER(nameLen2)),
		goStringW(tableName, C.SQLINTEGER(nameLen3)), goStringW(columnName, C.SQLINTEGER(nameLen4)))
}

//export SQLGetTypeInfoW
func SQLGetTypeInfoW(stmtHandle C.SQLHSTMT, dataType C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doGetTypeInfo(s, odbcapi.SQLType(dataType))
}

//export SQLGetInfoW
func SQLGetInfoW(dbc C.SQLHDBC, infoType C.SQLUSMALLINT, infoValuePtr C.SQLPOINTER,
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
		if infoValuePtr != nil {
			*(*C.SQLUSMALLINT)(infoValuePtr) = 0
		}
		return C.SQL_SUCCESS
	}
	if v.IsString {
		writeOutW((*C.SQLWCHAR)(infoValuePtr), bufLen, strLenPtr, v.Str)
		return C.SQL_SUCCESS
	}
	if infoValuePtr != nil {
		*(*C.SQLUINTEGER)(infoValuePtr) = C.SQLUINTEGER(v.Num)
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Descriptor fields
// ---------------------------------------------------------------------

//export SQLGetDescFieldW
func SQLGetDescFieldW(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT, fieldID C.SQLSMALLINT,
	valuePtr C.SQLPOINTER, bufLen C.SQLINTEGER, strLenPtr *C.SQLINTEGER) C.SQLRETURN {
	ed, ok := lookupDesc(uintptr(descHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	ed.Diag.Clear()
	field, ok := fieldIDFromC(int32(fieldID))
	if !ok {
		ed.Diag.Push("", "DESCFIELD", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	if err := descriptor.CheckFieldAccess(field, ed.Role); err != nil {
		if _, ro := err.(*descriptor.ErrReadOnly); !ro {
			ed.Diag.Push("", "DESCFIELD", err.Error(), odbcapi.StateInvalidAttributeValue)
			return C.SQL_ERROR
		}
	}
	if odbcapi.IsHeaderField(field) {
		writeUintptr(valuePtr, headerFieldValue(&ed.desc.Header, field))
		if strLenPtr != nil {
			*strLenPtr = 8
		}
		return C.SQL_SUCCESS
	}
	rec := ed.desc.Record1(int(recNumber))
	if rec == nil {
		ed.Diag.Push("", "DESCFIELD", "invalid descriptor index", odbcapi.StateInvalidDescriptorIndex)
		return C.SQL_ERROR
	}
	if isStringColAttr(field) {
		res := writeOutW((*C.SQLWCHAR)(valuePtr), C.SQLSMALLINT(bufLen), nil, colAttrString(rec, field))
		if strLenPtr != nil {
			*strLenPtr = C.SQLINTEGER(res.FullLen)
		}
		if state, warn := res.TruncationState(); warn {
			ed.Diag.Push("", "DESCFIELD", "string data, right truncated", state)
			return C.SQL_SUCCESS_WITH_INFO
		}
		return C.SQL_SUCCESS
	}
	writeUintptr(valuePtr, recordFieldValue(rec, field))
	if strLenPtr != nil {
		*strLenPtr = 8
	}
	return C.SQL_SUCCESS
}

//export SQLSetDescFieldW
func SQLSetDescFieldW(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT, fieldID C.SQLSMALLINT,
	valuePtr C.SQLPOINTER, bufLen C.SQLINTEGER) C.SQLRETURN {
	ed, ok := lookupDesc(uintptr(descHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	ed.Diag.Clear()
	field, ok := fieldIDFromC(int32(fieldID))
	if !ok {
		ed.Diag.Push("", "DESCFIELD", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	if err := descriptor.CheckFieldAccess(field, ed.Role); err != nil {
		state := odbcapi.StateReadOnlyAttribute
		if _, ro := err.(*descriptor.ErrReadOnly); ro {
			state = "HY091"
		}
		ed.Diag.Push("", "DESCFIELD", err.Error(), state)
		return C.SQL_ERROR
	}
	if odbcapi.IsHeaderField(field) {
		setHeaderField(&ed.desc.Header, field, uintptr(valuePtr))
		return C.SQL_SUCCESS
	}
	rec := ed.desc.EnsureRecord(int(recNumber))
	if isStringColAttr(field) {
		setRecordString(rec, field, goStringW((*C.SQLWCHAR)(valuePtr), bufLen))
		return C.SQL_SUCCESS
	}
	if field == odbcapi.FieldType || field == odbcapi.FieldConciseType {
		if err := ed.desc.SetType(int(recNumber), ed.Role, resolver, odbcapi.SQLType(uintptr(valuePtr)), rec.DatetimeIntervalCode); err != nil {
			ed.Diag.Push("", "DESCFIELD", err.Error(), odbcapi.StateInconsistentDescriptor)
			return C.SQL_ERROR
		}
		return C.SQL_SUCCESS
	}
	setRecordField(rec, field, uintptr(valuePtr))
	return C.SQL_SUCCESS
}

//export SQLGetDescRecW
func SQLGetDescRecW(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT,
	name *C.SQLWCHAR, bufLen C.SQLSMALLINT, nameLenPtr *C.SQLSMALLINT,
	typePtr *C.SQLSMALLINT, subTypePtr *C.SQLSMALLINT, lengthPtr *C.SQLLEN,
	precisionPtr *C.SQLSMALLINT, scalePtr *C.SQLSMALLINT, nullablePtr *C.SQLSMALLINT) C.SQLRETURN {
	ed, ok := lookupDesc(uintptr(descHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	ed.Diag.Clear()
	rec := ed.desc.Record1(int(recNumber))
	if rec == nil {
		ed.Diag.Push("", "DESCREC", "invalid descriptor index", odbcapi.StateInvalidDescriptorIndex)
		return C.SQL_ERROR
	}
	res := writeOutW(name, bufLen, nameLenPtr, rec.Name)
	if typePtr != nil {
		*typePtr = C.SQLSMALLINT(rec.Type)
	}
	if subTypePtr != nil {
		*subTypePtr = C.SQLSMALLINT(rec.DatetimeIntervalCode)
	}
	if lengthPtr != nil {
		*lengthPtr = C.SQLLEN(rec.Length)
	}
	if precisionPtr != nil {
		*precisionPtr = C.SQLSMALLINT(rec.Precision)
	}
	if scalePtr != nil {
		*scalePtr = C.SQLSMALLINT(rec.Scale)
	}
	if nullablePtr != nil {
		*nullablePtr = C.SQLSMALLINT(rec.Nullable)
	}
	if state, warn := res.TruncationState(); warn {
		ed.Diag.Push("", "DESCREC", "string data, right truncated", state)
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Unimplemented catalog stubs (wide variants) -- none of these read their
// pattern arguments (the narrow versions ignore them too), so each wide
// variant just forwards to the same zero-row result shape.
// ---------------------------------------------------------------------

//export SQLStatisticsW
func SQLStatisticsW(stmtHandle C.SQLHSTMT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ C.SQLUSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.StatisticsColumns)
}

//export SQLSpecialColumnsW
func SQLSpecialColumnsW(stmtHandle C.SQLHSTMT, _ C.SQLUSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ C.SQLUSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.SpecialColumnsColumns)
}

//export SQLProceduresW
func SQLProceduresW(stmtHandle C.SQLHSTMT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ProceduresColumns)
}

//export SQLProcedureColumnsW
func SQLProcedureColumnsW(stmtHandle C.SQLHSTMT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ProcedureColumnsColumns)
}

//export SQLPrimaryKeysW
func SQLPrimaryKeysW(stmtHandle C.SQLHSTMT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.PrimaryKeysColumns)
}

//export SQLForeignKeysW
func SQLForeignKeysW(stmtHandle C.SQLHSTMT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ForeignKeysColumns)
}

//export SQLTablePrivilegesW
func SQLTablePrivilegesW(stmtHandle C.SQLHSTMT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.TablePrivilegesColumns)
}

//export SQLColumnPrivilegesW
func SQLColumnPrivilegesW(stmtHandle C.SQLHSTMT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT,
	_ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return emptyCatalogResult(s, catalog.ColumnPrivilegesColumns)
}

// ---------------------------------------------------------------------
// Optional-feature stubs (wide variants)
// ---------------------------------------------------------------------

//export SQLNativeSqlW
func SQLNativeSqlW(dbc C.SQLHDBC, _ *C.SQLWCHAR, _ C.SQLINTEGER, _ *C.SQLWCHAR, _ C.SQLINTEGER, _ *C.SQLINTEGER) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	c.Diag.Push(c.DSN, "NATIVESQL", "optional feature not implemented", odbcapi.StateOptionalFeatureNotImpl)
	return C.SQL_ERROR
}

//export SQLBrowseConnectW
func SQLBrowseConnectW(dbc C.SQLHDBC, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLWCHAR, _ C.SQLSMALLINT, _ *C.SQLSMALLINT) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	c.Diag.Push(c.DSN, "BROWSECONNECT", "optional feature not implemented", odbcapi.StateOptionalFeatureNotImpl)
	return C.SQL_ERROR
}
