// Package main implements the narrow (UTF-8) half of an ODBC 3.x driver
// for tinySQL, exposing the standard ODBC C entrypoints through cgo so any
// ODBC driver manager (unixODBC, iODBC) can load this as a shared library
// and drive tinySQL as an embedded analytical SQL engine.
//
// Build as a shared library:
//
//	go build -buildmode=c-shared -o libtsodbc.so .
//
// Register with unixODBC:
//
//	[tinySQL]
//	Description = tinySQL ODBC Driver
//	Driver = /path/to/libtsodbc.so
//
// This file owns the ODBC handle lifecycle, connection, statement
// prepare/execute, fetch, and diagnostic entrypoints (the narrow `...A`
// variants, which are also what every unsuffixed ODBC 2.x-era name resolves
// to). The wide `...W` entrypoints live in entrypoints_wide.go; the
// descriptor entrypoints live in descriptors.go; the catalog entrypoints
// live in catalog_entrypoints.go. All four files dispatch into the
// internal/ subsystems through the handle registry below rather than
// reimplementing any ODBC semantics inline -- this file is glue, not logic.
package main

/*
#include "sqlapi.h"
*/
import "C"

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/SimonWaldherr/tinySQL"

	"github.com/tinysql-odbc/driver/internal/connection"
	"github.com/tinysql-odbc/driver/internal/convert"
	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/encoding"
	"github.com/tinysql-odbc/driver/internal/fetch"
	"github.com/tinysql-odbc/driver/internal/handle"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
	"github.com/tinysql-odbc/driver/internal/param"
	"github.com/tinysql-odbc/driver/internal/tsengine"
	"github.com/tinysql-odbc/driver/internal/typeinfo"
)

func main() {} // required by -buildmode=c-shared; the driver has no standalone entrypoint

// ---------------------------------------------------------------------
// generic helpers shared by every entrypoint file in this package
// ---------------------------------------------------------------------

// goStringA reads a (possibly non-NUL-terminated) narrow ODBC string
// argument: length < 0 means SQL_NTS (read to the NUL), otherwise length is
// the exact byte count.
func goStringA(ptr *C.SQLCHAR, length C.SQLINTEGER) string {
	if ptr == nil {
		return ""
	}
	if length < 0 {
		return C.GoString((*C.char)(unsafe.Pointer(ptr)))
	}
	return string(C.GoBytes(unsafe.Pointer(ptr), C.int(length)))
}

// writeOutA implements this narrow buffer-writer contract for a
// SQLSMALLINT-width length-out pointer (the shape almost every narrow ODBC
// string-output argument uses).
func writeOutA(buf *C.SQLCHAR, bufLen C.SQLSMALLINT, lenPtr *C.SQLSMALLINT, s string) encoding.WriteResult {
	var goBuf []byte
	if buf != nil && bufLen > 0 {
		goBuf = unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufLen))
	}
	var res encoding.WriteResult
	if buf == nil {
		_, res = encoding.WriteNarrow(nil, s)
	} else {
		_, res = encoding.WriteNarrow(goBuf, s)
	}
	if lenPtr != nil {
		*lenPtr = C.SQLSMALLINT(res.FullLen)
	}
	return res
}

// writeOutAInt is writeOutA under a second name, with the same SQLSMALLINT
// buffer length and length-out pointer; SQLDriverConnect's out string uses
// it.
func writeOutAInt(buf *C.SQLCHAR, bufLen C.SQLSMALLINT, lenPtr *C.SQLSMALLINT, s string) encoding.WriteResult {
	return writeOutA(buf, bufLen, lenPtr, s)
}

// rc converts the diagnostic-stack verdict plus an explicit
// hard-failure flag into the SQLRETURN the entrypoint should give back.
func rc(isError, hasWarning bool) C.SQLRETURN {
	switch {
	case isError:
		return C.SQL_ERROR
	case hasWarning:
		return C.SQL_SUCCESS_WITH_INFO
	default:
		return C.SQL_SUCCESS
	}
}

// diagOf returns the diagnostic Stack for any handle kind, used by the
// shared SQLGetDiagRec/SQLGetDiagField implementations in this file.
func diagOf(kind C.SQLSMALLINT, h C.SQLPOINTER) (*handle.Stack, bool) {
	id := uintptr(h)
	switch kind {
	case C.SQL_HANDLE_ENV:
		e, ok := lookupEnv(id)
		if !ok {
			return nil, false
		}
		return &e.Diag, true
	case C.SQL_HANDLE_DBC:
		c, ok := lookupDbc(id)
		if !ok {
			return nil, false
		}
		return &c.Diag, true
	case C.SQL_HANDLE_STMT:
		s, ok := lookupStmt(id)
		if !ok {
			return nil, false
		}
		return &s.Diag, true
	case C.SQL_HANDLE_DESC:
		d, ok := lookupDesc(id)
		if !ok {
			return nil, false
		}
		return &d.Diag, true
	default:
		return nil, false
	}
}

// ---------------------------------------------------------------------
// Handle lifecycle
// ---------------------------------------------------------------------

//export SQLAllocHandle
func SQLAllocHandle(handleType C.SQLSMALLINT, inputHandle C.SQLPOINTER, outputHandlePtr *C.SQLPOINTER) C.SQLRETURN {
	switch handleType {
	case C.SQL_HANDLE_ENV:
		id, _ := allocEnv()
		*outputHandlePtr = C.SQLPOINTER(unsafe.Pointer(id))
		return C.SQL_SUCCESS
	case C.SQL_HANDLE_DBC:
		id, _, ok := allocDbc(uintptr(inputHandle))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
		*outputHandlePtr = C.SQLPOINTER(unsafe.Pointer(id))
		return C.SQL_SUCCESS
	case C.SQL_HANDLE_STMT:
		id, _, ok := allocStmt(uintptr(inputHandle))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
		*outputHandlePtr = C.SQLPOINTER(unsafe.Pointer(id))
		return C.SQL_SUCCESS
	case C.SQL_HANDLE_DESC:
		id, _, ok := allocExplicitDesc(uintptr(inputHandle))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
		*outputHandlePtr = C.SQLPOINTER(unsafe.Pointer(id))
		return C.SQL_SUCCESS
	default:
		return C.SQL_ERROR
	}
}

//export SQLFreeHandle
func SQLFreeHandle(handleType C.SQLSMALLINT, h C.SQLPOINTER) C.SQLRETURN {
	id := uintptr(h)
	switch handleType {
	case C.SQL_HANDLE_ENV:
		if _, ok := lookupEnv(id); !ok {
			return C.SQL_INVALID_HANDLE
		}
		freeEnv(id)
	case C.SQL_HANDLE_DBC:
		if _, ok := lookupDbc(id); !ok {
			return C.SQL_INVALID_HANDLE
		}
		freeDbc(id)
	case C.SQL_HANDLE_STMT:
		if _, ok := lookupStmt(id); !ok {
			return C.SQL_INVALID_HANDLE
		}
		freeStmt(id)
	case C.SQL_HANDLE_DESC:
		if _, ok := lookupDesc(id); !ok {
			return C.SQL_INVALID_HANDLE
		}
		if err := freeExplicitDesc(id); err != nil {
			return C.SQL_ERROR
		}
	default:
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLFreeStmt
func SQLFreeStmt(stmtHandle C.SQLHSTMT, option C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	switch option {
	case C.SQL_CLOSE:
		if st != nil && st.cursor != nil {
			st.cursor.Close()
			st.cursor = nil
		}
	case C.SQL_UNBIND:
		s.Resolve(odbcapi.RoleARD).Reset()
	case C.SQL_RESET_PARAMS:
		s.Resolve(odbcapi.RoleAPD).Reset()
	case C.SQL_DROP:
		if st != nil && st.cursor != nil {
			st.cursor.Close()
		}
		freeStmt(uintptr(stmtHandle))
	}
	return C.SQL_SUCCESS
}

//export SQLCloseCursor
func SQLCloseCursor(stmtHandle C.SQLHSTMT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	if st == nil || st.cursor == nil || !st.cursor.IsOpen() {
		s.Diag.Push("", "FETCH", "invalid cursor state", odbcapi.StateInvalidCursorState)
		return C.SQL_ERROR
	}
	st.cursor.Close()
	return C.SQL_SUCCESS
}

//export SQLCancel
func SQLCancel(stmtHandle C.SQLHSTMT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	if ec, ok := engineConn(s.Conn); ok {
		ec.Interrupt()
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Environment attributes
// ---------------------------------------------------------------------

//export SQLSetEnvAttr
func SQLSetEnvAttr(envHandle C.SQLHENV, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, _ C.SQLINTEGER) C.SQLRETURN {
	e, ok := lookupEnv(uintptr(envHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	e.Diag.Clear()
	switch attribute {
	case C.SQL_ATTR_ODBC_VERSION:
		e.SetODBCVersion(int32(uintptr(valuePtr)))
	case C.SQL_ATTR_CONNECTION_POOLING:
		// accepted and ignored: this driver's non-goals exclude pooling semantics
	default:
		e.Diag.Push("", "ENV", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLGetEnvAttr
func SQLGetEnvAttr(envHandle C.SQLHENV, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, _ C.SQLINTEGER, strLenPtr *C.SQLINTEGER) C.SQLRETURN {
	e, ok := lookupEnv(uintptr(envHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	e.Diag.Clear()
	switch attribute {
	case C.SQL_ATTR_ODBC_VERSION:
		if valuePtr != nil {
			*(*C.SQLINTEGER)(valuePtr) = C.SQLINTEGER(e.ODBCVersion())
		}
	case C.SQL_ATTR_CONNECTION_POOLING:
		if valuePtr != nil {
			*(*C.SQLINTEGER)(valuePtr) = 0
		}
	default:
		e.Diag.Push("", "ENV", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	if strLenPtr != nil {
		*strLenPtr = 4
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------

func doConnect(dbcID uintptr, connStr string) C.SQLRETURN {
	c, ok := lookupDbc(dbcID)
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	if c.EngineConn != nil {
		c.Diag.Push(c.DSN, "CONNECT", "connection already established", odbcapi.StateConnectionAlreadyEstablished)
		return C.SQL_SUCCESS_WITH_INFO
	}
	out, err := connection.Connect(context.Background(), connStr)
	if err != nil {
		c.Diag.Push(c.DSN, "CONNECT", err.Error(), odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}
	c.EngineConn = out.Conn
	c.AutoCommit = out.Conn.AutoCommit()
	c.DSN = connStr
	for _, w := range out.Warnings {
		c.Diag.Push(c.DSN, "CONNECT", w.Error(), odbcapi.StateUnrecognizedConnectOption)
	}
	if out.InitScriptText != "" {
		c.Diag.Push(c.DSN, "CONNECT", out.InitScriptText, odbcapi.StateOptionValueChanged)
	}
	_, hasWarning := c.Diag.WorstReturn()
	if hasWarning {
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

//export SQLConnect
func SQLConnect(dbc C.SQLHDBC, serverName *C.SQLCHAR, nameLen1 C.SQLSMALLINT,
	_ *C.SQLCHAR, _ C.SQLSMALLINT, _ *C.SQLCHAR, _ C.SQLSMALLINT) C.SQLRETURN {
	dsn := goStringA(serverName, nameLen1)
	return doConnect(uintptr(dbc), "dsn="+dsn)
}

//export SQLDriverConnect
func SQLDriverConnect(dbc C.SQLHDBC, _ C.SQLPOINTER, inConnStr *C.SQLCHAR, strLen1 C.SQLSMALLINT,
	outConnStr *C.SQLCHAR, bufLen C.SQLSMALLINT, strLen2Ptr *C.SQLSMALLINT, _ C.SQLUSMALLINT) C.SQLRETURN {
	connStr := goStringA(inConnStr, strLen1)
	result := doConnect(uintptr(dbc), connStr)
	if result == C.SQL_ERROR || result == C.SQL_INVALID_HANDLE {
		return result
	}
	writeOutAInt(outConnStr, bufLen, strLen2Ptr, connStr)
	return result
}

//export SQLDisconnect
func SQLDisconnect(dbc C.SQLHDBC) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	c.EngineConn = nil
	return C.SQL_SUCCESS
}

//export SQLSetConnectAttr
func SQLSetConnectAttr(dbc C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, _ C.SQLINTEGER) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	switch attribute {
	case C.SQL_ATTR_AUTOCOMMIT:
		on := uintptr(valuePtr) != C.SQL_AUTOCOMMIT_OFF
		c.AutoCommit = on
		if ec, ok := engineConn(c); ok {
			ec.SetAutoCommit(on)
		}
	case C.SQL_ATTR_ACCESS_MODE:
		c.AccessMode = int32(uintptr(valuePtr))
	case C.SQL_ATTR_METADATA_ID:
		c.MetadataID = uintptr(valuePtr) != 0
	case C.SQL_ATTR_CURRENT_CATALOG:
		c.CurrentCatalog = C.GoString((*C.char)(valuePtr))
	case C.SQL_ATTR_LOGIN_TIMEOUT:
		// accepted and ignored, "Timeouts"
	default:
		c.Diag.Push(c.DSN, "CONNECT", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLGetConnectAttr
func SQLGetConnectAttr(dbc C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, bufLen C.SQLINTEGER, strLenPtr *C.SQLINTEGER) C.SQLRETURN {
	c, ok := lookupDbc(uintptr(dbc))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	switch attribute {
	case C.SQL_ATTR_AUTOCOMMIT:
		v := C.SQL_AUTOCOMMIT_OFF
		if c.AutoCommit {
			v = C.SQL_AUTOCOMMIT_ON
		}
		if valuePtr != nil {
			*(*C.SQLINTEGER)(valuePtr) = C.SQLINTEGER(v)
		}
	case C.SQL_ATTR_ACCESS_MODE:
		if valuePtr != nil {
			*(*C.SQLINTEGER)(valuePtr) = C.SQLINTEGER(c.AccessMode)
		}
	case C.SQL_ATTR_METADATA_ID:
		if valuePtr != nil {
			v := C.SQLINTEGER(0)
			if c.MetadataID {
				v = 1
			}
			*(*C.SQLINTEGER)(valuePtr) = v
		}
	case C.SQL_ATTR_CURRENT_CATALOG:
		var goBuf []byte
		if valuePtr != nil && bufLen > 0 {
			goBuf = unsafe.Slice((*byte)(valuePtr), int(bufLen))
		}
		_, res := encoding.WriteNarrow(goBuf, c.CurrentCatalog)
		if strLenPtr != nil {
			*strLenPtr = C.SQLINTEGER(res.FullLen)
		}
	case C.SQL_ATTR_LOGIN_TIMEOUT:
		if valuePtr != nil {
			*(*C.SQLINTEGER)(valuePtr) = 0
		}
	default:
		c.Diag.Push(c.DSN, "CONNECT", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLEndTran
func SQLEndTran(handleType C.SQLSMALLINT, h C.SQLPOINTER, completionType C.SQLSMALLINT) C.SQLRETURN {
	var c *handle.Connection
	switch handleType {
	case C.SQL_HANDLE_DBC:
		var ok bool
		c, ok = lookupDbc(uintptr(h))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
	case C.SQL_HANDLE_ENV:
		// applies to every connection on the environment; this driver is silent
		// on multi-connection EndTran fan-out, so this driver requires the
		// DBC-scoped form, matching every narrow caller in this list.
		return C.SQL_ERROR
	default:
		return C.SQL_INVALID_HANDLE
	}
	c.Diag.Clear()
	ec, ok := engineConn(c)
	if !ok {
		c.Diag.Push(c.DSN, "ENDTRAN", "connection not open", odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}

	// every open cursor already holds its full row set in memory (tinySQL's
	// ResultSet is always fully materialized at Execute time, internal/
	// fetch's package doc), so there is nothing to flush before commit.
	var err error
	if completionType == C.SQL_ROLLBACK {
		err = ec.Rollback()
	} else {
		err = ec.Commit()
	}
	if err != nil {
		c.Diag.Push(c.DSN, "ENDTRAN", err.Error(), odbcapi.StateGeneralError)
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Statement prepare / execute
// ---------------------------------------------------------------------

//export SQLPrepare
func SQLPrepare(stmtHandle C.SQLHSTMT, text *C.SQLCHAR, textLen C.SQLINTEGER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doPrepare(s, goStringA(text, textLen))
}

// doPrepare is SQLPrepare/SQLPrepareW's shared core once the SQL text has
// been decoded to a Go string.
func doPrepare(s *handle.Statement, sql string) C.SQLRETURN {
	s.Diag.Clear()
	st := stmtExt(s)
	ec, ok := engineConn(s.Conn)
	if !ok {
		s.Diag.Push("", "PREPARE", "connection not open", odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}
	prep, err := tsengine.Prepare(ec, sql)
	if err != nil {
		s.Diag.Push("", "PREPARE", err.Error(), "42000")
		return C.SQL_ERROR
	}
	st.sql = sql
	st.prepared = prep
	return C.SQL_SUCCESS
}

// execute implements steps 1-7 plus the "batch execute"
// multi-row loop: for every parameter set in [0, APD.array_size), it
// extracts bound values, substitutes them into the SQL text, and runs the
// statement, stopping at the first data-at-exec parameter (reporting
// NEED_DATA, per the data-at-exec control flow state machine) or the
// first engine error.
func execute(s *handle.Statement, sql string) C.SQLRETURN {
	st := stmtExt(s)
	ec, ok := engineConn(s.Conn)
	if !ok {
		s.Diag.Push("", "EXECUTE", "connection not open", odbcapi.StateConnectionNotOpen)
		return C.SQL_ERROR
	}
	apd := s.Resolve(odbcapi.RoleAPD)
	ipd := s.Resolve(odbcapi.RoleIPD)
	setCount := apd.Header.ArraySize
	if setCount < 1 {
		setCount = 1
	}
	prep := st.prepared
	if prep == nil {
		var err error
		prep, err = tsengine.Prepare(ec, sql)
		if err != nil {
			s.Diag.Push("", "EXECUTE", err.Error(), "42000")
			return C.SQL_ERROR
		}
		st.prepared = prep
	}

	statusPtr := apd.Header.ArrayStatusPtr
	for i := int64(0); i < setCount; i++ {
		values, pending, err := param.ExtractSet(apd, ipd, i)
		if err != nil {
			s.Diag.Push("", "EXECUTE", err.Error(), odbcapi.StateRestrictedDataType)
			writeArrayStatus(statusPtr, i, odbcapi.RowError)
			return C.SQL_ERROR
		}
		if pending != nil {
			st.pending = pending
			st.pendingSQL = sql
			return C.SQL_NEED_DATA
		}
		literals := make([]string, len(values))
		for j, v := range values {
			sqlType := odbcapi.SQLType(0)
			if rec := ipd.Record1(j + 1); rec != nil {
				sqlType = rec.ConciseType
			}
			lit, err := param.Render(v, sqlType)
			if err != nil {
				s.Diag.Push("", "EXECUTE", err.Error(), odbcapi.StateRestrictedDataType)
				writeArrayStatus(statusPtr, i, odbcapi.RowError)
				return C.SQL_ERROR
			}
			literals[j] = lit
		}
		finalSQL, err := param.SubstitutePlaceholders(sql, literals)
		if err != nil {
			s.Diag.Push("", "EXECUTE", err.Error(), "HY000")
			return C.SQL_ERROR
		}
		result, err := prep.Execute(context.Background(), finalSQL)
		if err != nil {
			s.Diag.Push("", "EXECUTE", err.Error(), "HY000")
			writeArrayStatus(statusPtr, i, odbcapi.RowError)
			return C.SQL_ERROR
		}
		if result.HasError() {
			s.Diag.Push("", "EXECUTE", result.ErrorMessage(), "42000")
			writeArrayStatus(statusPtr, i, odbcapi.RowError)
			return C.SQL_ERROR
		}
		writeArrayStatus(statusPtr, i, odbcapi.RowSuccess)
		s.Diag.SetRowCount(result.RowCount())

		if i == setCount-1 {
			if st.cursor != nil {
				st.cursor.Close()
			}
			cur, _ := fetch.Open(result, st.cursorType)
			st.cursor = cur
			st.result = result
			describeIRD(s, prep, result)
		}
	}
	writeRowsProcessed(apd.Header.RowsProcessedPtr, setCount)
	return C.SQL_SUCCESS
}

func writeArrayStatus(ptr uintptr, i int64, status odbcapi.RowStatus) {
	if ptr == 0 {
		return
	}
	*(*uint16)(unsafe.Pointer(ptr + uintptr(i*2))) = uint16(status)
}

func writeRowsProcessed(ptr uintptr, n int64) {
	if ptr == 0 {
		return
	}
	*(*uint64)(unsafe.Pointer(ptr)) = uint64(n)
}

// describeIRD populates the statement's IRD records from the executed
// result's column names/types: the Execute-to-executed transition implicitly
// describes the result set for DescribeCol/ColAttribute callers.
func describeIRD(s *handle.Statement, prep *tsengine.Prepared, result *tsengine.Result) {
	ird := s.Resolve(odbcapi.RoleIRD)
	ird.Reset()
	names := result.ColumnNames()
	types := prep.ResultTypes()
	for i, name := range names {
		rec := ird.EnsureRecord(i + 1)
		rec.Name = name
		rec.Label = name
		rec.BaseColumnName = name
		rec.Unnamed = 0
		rec.Nullable = 1 // SQL_NULLABLE_UNKNOWN: tinySQL exposes no column nullability metadata
		ct := tinysql.StringType
		if i < len(types) {
			ct = types[i]
		}
		fillIRDType(rec, ct)
	}
}

// fillIRDType fills the type-derived fields of an IRD record from the type
// registry , given the engine column type tsengine.Prepared
// describes a result column as.
func fillIRDType(rec *descriptor.Record, ct tinysql.ColType) {
	row := typeinfo.Lookup(ct)
	rec.ConciseType = row.SQLType
	rec.Type = row.SQLType
	rec.TypeName = row.LocalTypeName
	rec.LocalTypeName = row.LocalTypeName
	rec.LiteralPrefix = row.LiteralPrefix
	rec.LiteralSuffix = row.LiteralSuffix
	rec.Searchable = row.Searchable
	rec.Unsigned = boolToInt16(row.Unsigned)
	rec.CaseSensitive = boolToInt16(row.CaseSensitive)
	rec.FixedPrecScale = boolToInt16(row.FixedPrecScale)
	if row.ColumnSize != nil {
		rec.Length = uint64(*row.ColumnSize)
		rec.OctetLength = *row.ColumnSize
		rec.DisplaySize = *row.ColumnSize
	}
	if row.DecimalDigits != nil {
		rec.Scale = *row.DecimalDigits
	}
	if row.NumPrecRadix != nil {
		rec.NumPrecRadix = *row.NumPrecRadix
	}
}

func boolToInt16(b bool) int16 {
	if b {
		return 1
	}
	return 0
}

//export SQLExecDirect
func SQLExecDirect(stmtHandle C.SQLHSTMT, text *C.SQLCHAR, textLen C.SQLINTEGER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return doExecDirect(s, goStringA(text, textLen))
}

// doExecDirect is SQLExecDirect/SQLExecDirectW's shared core.
func doExecDirect(s *handle.Statement, sql string) C.SQLRETURN {
	s.Diag.Clear()
	st := stmtExt(s)
	st.prepared = nil
	st.sql = sql
	return execute(s, sql)
}

//export SQLExecute
func SQLExecute(stmtHandle C.SQLHSTMT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	if st.sql == "" {
		s.Diag.Push("", "EXECUTE", "function sequence error: statement not prepared", "HY010")
		return C.SQL_ERROR
	}
	return execute(s, st.sql)
}

//export SQLNumParams
func SQLNumParams(stmtHandle C.SQLHSTMT, numPtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	n := 0
	if st.prepared != nil {
		n = st.prepared.NumParams()
	}
	if numPtr != nil {
		*numPtr = C.SQLSMALLINT(n)
	}
	return C.SQL_SUCCESS
}

//export SQLDescribeParam
func SQLDescribeParam(stmtHandle C.SQLHSTMT, paramNum C.SQLUSMALLINT, sqlTypePtr *C.SQLSMALLINT,
	sizePtr *C.SQLULEN, digitsPtr *C.SQLSMALLINT, nullablePtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	ipd := s.Resolve(odbcapi.RoleIPD)
	rec := ipd.Record1(int(paramNum))
	if rec == nil {
		s.Diag.Push("", "DESCRIBEPARAM", "invalid descriptor index", odbcapi.StateInvalidDescriptorIndex)
		return C.SQL_ERROR
	}
	if sqlTypePtr != nil {
		*sqlTypePtr = C.SQLSMALLINT(rec.ConciseType)
	}
	if sizePtr != nil {
		*sizePtr = C.SQLULEN(rec.Length)
	}
	if digitsPtr != nil {
		*digitsPtr = C.SQLSMALLINT(rec.Scale)
	}
	if nullablePtr != nil {
		*nullablePtr = C.SQL_NULLABLE_UNKNOWN
	}
	return C.SQL_SUCCESS
}

//export SQLBindParameter
func SQLBindParameter(stmtHandle C.SQLHSTMT, paramNum C.SQLUSMALLINT, ioType C.SQLSMALLINT,
	cType C.SQLSMALLINT, sqlType C.SQLSMALLINT, columnSize C.SQLULEN, decimalDigits C.SQLSMALLINT,
	paramValuePtr C.SQLPOINTER, bufferLength C.SQLLEN, strLenOrIndPtr *C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	err := param.BindParameter(s, resolver, int(paramNum), odbcapi.ParamDirection(ioType),
		odbcapi.CType(cType), odbcapi.SQLType(sqlType), int64(columnSize), int16(decimalDigits),
		uintptr(paramValuePtr), uintptr(unsafe.Pointer(strLenOrIndPtr)), int64(bufferLength))
	if err != nil {
		switch err.(type) {
		case *param.ErrBadIndex:
			s.Diag.Push("", "BINDPARAMETER", err.Error(), odbcapi.StateInvalidDescriptorIndex)
		case *param.ErrBadDirection:
			s.Diag.Push("", "BINDPARAMETER", err.Error(), odbcapi.StateOptionalFeatureNotImpl)
		case *descriptor.ErrInconsistent:
			s.Diag.Push("", "BINDPARAMETER", err.Error(), odbcapi.StateInconsistentDescriptor)
		default:
			s.Diag.Push("", "BINDPARAMETER", err.Error(), "HY000")
		}
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLParamData
func SQLParamData(stmtHandle C.SQLHSTMT, valuePtrPtr *C.SQLPOINTER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	if st.pending == nil {
		// no parameter waiting: resume the execute loop.
		return execute(s, st.pendingSQL)
	}
	if valuePtrPtr != nil {
		*valuePtrPtr = C.SQLPOINTER(uintptr(st.pending.ParamIndex))
	}
	return C.SQL_NEED_DATA
}

//export SQLPutData
func SQLPutData(stmtHandle C.SQLHSTMT, dataPtr C.SQLPOINTER, strLenOrInd C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	if st.pending == nil {
		s.Diag.Push("", "PUTDATA", "function sequence error", "HY010")
		return C.SQL_ERROR
	}
	if strLenOrInd > 0 && dataPtr != nil {
		chunk := C.GoBytes(dataPtr, C.int(strLenOrInd))
		st.pending.Buf = append(st.pending.Buf, chunk...)
	}
	return C.SQL_SUCCESS
}

//export SQLMoreResults
func SQLMoreResults(stmtHandle C.SQLHSTMT) C.SQLRETURN {
	if _, ok := lookupStmt(uintptr(stmtHandle)); !ok {
		return C.SQL_INVALID_HANDLE
	}
	// tinySQL's Execute always returns exactly one result set, and the
	// Engine facade has no multi-statement-batch notion, so there is never a
	// second result to advance to.
	return C.SQL_NO_DATA
}

// ---------------------------------------------------------------------
// Fetch / bound columns / GetData
// ---------------------------------------------------------------------

//export SQLNumResultCols
func SQLNumResultCols(stmtHandle C.SQLHSTMT, countPtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	ird := s.Resolve(odbcapi.RoleIRD)
	if countPtr != nil {
		*countPtr = C.SQLSMALLINT(ird.Header.Count)
	}
	return C.SQL_SUCCESS
}

//export SQLRowCount
func SQLRowCount(stmtHandle C.SQLHSTMT, rowCountPtr *C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	n, _ := s.Diag.HeaderField("ROW_COUNT")
	if rowCountPtr != nil {
		if v, ok := n.(int64); ok {
			*rowCountPtr = C.SQLLEN(v)
		}
	}
	return C.SQL_SUCCESS
}

//export SQLDescribeCol
func SQLDescribeCol(stmtHandle C.SQLHSTMT, colNum C.SQLUSMALLINT, colName *C.SQLCHAR, bufLen C.SQLSMALLINT,
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
	res := writeOutA(colName, bufLen, nameLenPtr, rec.Name)
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

//export SQLColAttribute
func SQLColAttribute(stmtHandle C.SQLHSTMT, colNum C.SQLUSMALLINT, fieldID C.SQLUSMALLINT,
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
		str := colAttrString(rec, field)
		res := writeOutA((*C.SQLCHAR)(charAttrPtr), bufLen, strLenPtr, str)
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

// fieldIDFromC translates a real SQL_DESC_* wire value (as received over the
// cgo boundary in a C.SQLUSMALLINT/C.SQLSMALLINT parameter) to this driver's
// internal odbcapi.FieldID enum. The two numbering spaces overlap in value
// but not in meaning — 1001+ is this driver's own FieldID base too, which is
// exactly the coincidence that makes a direct cast unsafe; this table is the
// only place the translation happens; every caller elsewhere in the driver
// speaks odbcapi.FieldID exclusively.
func fieldIDFromC(v int32) (odbcapi.FieldID, bool) {
	switch v {
	case C.SQL_DESC_COUNT:
		return odbcapi.FieldCount, true
	case C.SQL_DESC_TYPE:
		return odbcapi.FieldType, true
	case C.SQL_DESC_LENGTH:
		return odbcapi.FieldLength, true
	case C.SQL_DESC_OCTET_LENGTH_PTR:
		return odbcapi.FieldOctetLengthPtr, true
	case C.SQL_DESC_PRECISION:
		return odbcapi.FieldPrecision, true
	case C.SQL_DESC_SCALE:
		return odbcapi.FieldScale, true
	case C.SQL_DESC_DATETIME_INTERVAL_CODE:
		return odbcapi.FieldDatetimeIntervalCode, true
	case C.SQL_DESC_NULLABLE:
		return odbcapi.FieldNullable, true
	case C.SQL_DESC_INDICATOR_PTR:
		return odbcapi.FieldIndicatorPtr, true
	case C.SQL_DESC_DATA_PTR:
		return odbcapi.FieldDataPtr, true
	case C.SQL_DESC_NAME:
		return odbcapi.FieldName, true
	case C.SQL_DESC_UNNAMED:
		return odbcapi.FieldUnnamed, true
	case C.SQL_DESC_OCTET_LENGTH:
		return odbcapi.FieldOctetLength, true
	case C.SQL_DESC_ALLOC_TYPE:
		return odbcapi.FieldAllocType, true
	case C.SQL_DESC_CONCISE_TYPE:
		return odbcapi.FieldConciseType, true
	case C.SQL_DESC_DISPLAY_SIZE:
		return odbcapi.FieldDisplaySize, true
	case C.SQL_DESC_UNSIGNED:
		return odbcapi.FieldUnsigned, true
	case C.SQL_DESC_FIXED_PREC_SCALE:
		return odbcapi.FieldFixedPrecScale, true
	case C.SQL_DESC_UPDATABLE:
		return odbcapi.FieldUpdatable, true
	case C.SQL_DESC_AUTO_UNIQUE_VALUE:
		return odbcapi.FieldAutoUniqueValue, true
	case C.SQL_DESC_CASE_SENSITIVE:
		return odbcapi.FieldCaseSensitive, true
	case C.SQL_DESC_SEARCHABLE:
		return odbcapi.FieldSearchable, true
	case C.SQL_DESC_TYPE_NAME:
		return odbcapi.FieldTypeName, true
	case C.SQL_DESC_TABLE_NAME:
		return odbcapi.FieldTableName, true
	case C.SQL_DESC_SCHEMA_NAME:
		return odbcapi.FieldSchemaName, true
	case C.SQL_DESC_CATALOG_NAME:
		return odbcapi.FieldCatalogName, true
	case C.SQL_DESC_LABEL:
		return odbcapi.FieldLabel, true
	case C.SQL_DESC_ARRAY_SIZE:
		return odbcapi.FieldArraySize, true
	case C.SQL_DESC_ARRAY_STATUS_PTR:
		return odbcapi.FieldArrayStatusPtr, true
	case C.SQL_DESC_BASE_COLUMN_NAME:
		return odbcapi.FieldBaseColumnName, true
	case C.SQL_DESC_BASE_TABLE_NAME:
		return odbcapi.FieldBaseTableName, true
	case C.SQL_DESC_BIND_OFFSET_PTR:
		return odbcapi.FieldBindOffsetPtr, true
	case C.SQL_DESC_BIND_TYPE:
		return odbcapi.FieldBindType, true
	case C.SQL_DESC_DATETIME_INTERVAL_PRECISION:
		return odbcapi.FieldDatetimeIntervalPrecision, true
	case C.SQL_DESC_LITERAL_PREFIX:
		return odbcapi.FieldLiteralPrefix, true
	case C.SQL_DESC_LITERAL_SUFFIX:
		return odbcapi.FieldLiteralSuffix, true
	case C.SQL_DESC_LOCAL_TYPE_NAME:
		return odbcapi.FieldLocalTypeName, true
	case C.SQL_DESC_NUM_PREC_RADIX:
		return odbcapi.FieldNumPrecRadix, true
	case C.SQL_DESC_PARAMETER_TYPE:
		return odbcapi.FieldParameterType, true
	case C.SQL_DESC_ROWS_PROCESSED_PTR:
		return odbcapi.FieldRowsProcessedPtr, true
	case C.SQL_DESC_ROWVER:
		return odbcapi.FieldRowver, true
	default:
		// SQL_DESC_MAXIMUM_SCALE/MINIMUM_SCALE have no odbcapi.FieldID
		// counterpart; they are never tracked as a descriptor record field,
		// so callers treat an unmapped field as invalid.
		return 0, false
	}
}

func isStringColAttr(f odbcapi.FieldID) bool {
	switch f {
	case odbcapi.FieldTypeName, odbcapi.FieldLocalTypeName, odbcapi.FieldLiteralPrefix,
		odbcapi.FieldLiteralSuffix, odbcapi.FieldBaseColumnName, odbcapi.FieldBaseTableName,
		odbcapi.FieldTableName, odbcapi.FieldSchemaName, odbcapi.FieldCatalogName,
		odbcapi.FieldLabel, odbcapi.FieldName:
		return true
	default:
		return false
	}
}

func colAttrString(rec *descriptor.Record, f odbcapi.FieldID) string {
	switch f {
	case odbcapi.FieldTypeName:
		return rec.TypeName
	case odbcapi.FieldLocalTypeName:
		return rec.LocalTypeName
	case odbcapi.FieldLiteralPrefix:
		return rec.LiteralPrefix
	case odbcapi.FieldLiteralSuffix:
		return rec.LiteralSuffix
	case odbcapi.FieldBaseColumnName:
		return rec.BaseColumnName
	case odbcapi.FieldBaseTableName:
		return rec.BaseTableName
	case odbcapi.FieldTableName:
		return rec.BaseTableName
	case odbcapi.FieldSchemaName:
		return rec.SchemaName
	case odbcapi.FieldCatalogName:
		return rec.CatalogName
	case odbcapi.FieldLabel:
		return rec.Label
	case odbcapi.FieldName:
		return rec.Name
	default:
		return ""
	}
}

func colAttrNumeric(rec *descriptor.Record, f odbcapi.FieldID) int64 {
	switch f {
	case odbcapi.FieldConciseType, odbcapi.FieldType:
		return int64(rec.ConciseType)
	case odbcapi.FieldDisplaySize:
		return rec.DisplaySize
	case odbcapi.FieldLength:
		return int64(rec.Length)
	case odbcapi.FieldOctetLength:
		return rec.OctetLength
	case odbcapi.FieldPrecision:
		return int64(rec.Precision)
	case odbcapi.FieldScale:
		return int64(rec.Scale)
	case odbcapi.FieldNullable:
		return int64(rec.Nullable)
	case odbcapi.FieldUnsigned:
		return int64(rec.Unsigned)
	case odbcapi.FieldSearchable:
		return int64(rec.Searchable)
	case odbcapi.FieldCaseSensitive:
		return int64(rec.CaseSensitive)
	case odbcapi.FieldFixedPrecScale:
		return int64(rec.FixedPrecScale)
	case odbcapi.FieldUpdatable:
		return int64(rec.Updatable)
	case odbcapi.FieldAutoUniqueValue:
		return int64(rec.AutoUniqueValue)
	case odbcapi.FieldNumPrecRadix:
		return int64(rec.NumPrecRadix)
	case odbcapi.FieldDatetimeIntervalCode:
		return int64(rec.DatetimeIntervalCode)
	case odbcapi.FieldDatetimeIntervalPrecision:
		return int64(rec.DatetimeIntervalPrec)
	default:
		return 0
	}
}

// ---------------------------------------------------------------------
// Statement / cursor attributes
// ---------------------------------------------------------------------

//export SQLSetStmtAttr
func SQLSetStmtAttr(stmtHandle C.SQLHSTMT, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, _ C.SQLINTEGER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	switch attribute {
	case C.SQL_ATTR_ROW_ARRAY_SIZE:
		s.Resolve(odbcapi.RoleARD).Header.ArraySize = int64(uintptr(valuePtr))
	case C.SQL_ATTR_ROWS_FETCHED_PTR:
		st.rowsFetchedPtr = uintptr(valuePtr)
	case C.SQL_ATTR_ROW_STATUS_PTR:
		s.Resolve(odbcapi.RoleARD).Header.ArrayStatusPtr = uintptr(valuePtr)
	case C.SQL_ATTR_ROW_BIND_TYPE:
		s.Resolve(odbcapi.RoleARD).Header.BindType = int64(uintptr(valuePtr))
	case C.SQL_ATTR_ROW_BIND_OFFSET_PTR:
		s.Resolve(odbcapi.RoleARD).Header.BindOffsetPtr = uintptr(valuePtr)
	case C.SQL_ATTR_PARAMSET_SIZE:
		s.Resolve(odbcapi.RoleAPD).Header.ArraySize = int64(uintptr(valuePtr))
	case C.SQL_ATTR_PARAM_STATUS_PTR:
		s.Resolve(odbcapi.RoleAPD).Header.ArrayStatusPtr = uintptr(valuePtr)
	case C.SQL_ATTR_PARAM_BIND_OFFSET_PTR:
		s.Resolve(odbcapi.RoleAPD).Header.BindOffsetPtr = uintptr(valuePtr)
	case C.SQL_ATTR_PARAM_BIND_TYPE:
		s.Resolve(odbcapi.RoleAPD).Header.BindType = int64(uintptr(valuePtr))
	case C.SQL_ATTR_PARAMS_PROCESSED_PTR:
		s.Resolve(odbcapi.RoleAPD).Header.RowsProcessedPtr = uintptr(valuePtr)
	case C.SQL_ATTR_MAX_LENGTH:
		st.maxLength = int64(uintptr(valuePtr))
	case C.SQL_ATTR_RETRIEVE_DATA:
		st.retrieveData = uintptr(valuePtr) != 0
	case C.SQL_ATTR_CURSOR_TYPE:
		st.cursorType = odbcapi.CursorType(uintptr(valuePtr))
	case C.SQL_ATTR_CURSOR_SCROLLABLE:
		// derived from SQL_ATTR_CURSOR_TYPE in this driver; accepted for
		// driver-manager compatibility and otherwise a no-op.
	case C.SQL_ATTR_QUERY_TIMEOUT:
		// accepted and ignored, "Timeouts"
	case C.SQL_ATTR_APP_ROW_DESC:
		bindExplicitFromHandle(s, odbcapi.RoleARD, uintptr(valuePtr))
	case C.SQL_ATTR_APP_PARAM_DESC:
		bindExplicitFromHandle(s, odbcapi.RoleAPD, uintptr(valuePtr))
	default:
		s.Diag.Push("", "STMTATTR", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

// bindExplicitFromHandle implements SQLSetStmtAttr(SQL_ATTR_APP_ROW_DESC/
// SQL_ATTR_APP_PARAM_DESC, explicitDescHandle): the ODBC-mandated way to
// install an explicit descriptor into a statement's ARD/APD slot, recorded
// as a weak reference so a later FreeHandle on the descriptor reverts the
// slot rather than dangling. A descID of 0 reverts the slot to the
// statement's own implicit descriptor.
func bindExplicitFromHandle(s *handle.Statement, role odbcapi.DescRole, descID uintptr) {
	if descID == 0 {
		switch role {
		case odbcapi.RoleAPD:
			s.APDBinding = handle.DescBinding{}
		case odbcapi.RoleARD:
			s.ARDBinding = handle.DescBinding{}
		}
		return
	}
	ed, ok := lookupDesc(descID)
	if !ok {
		return
	}
	if err := s.Conn.BindExplicit(s, role, ed.ref); err == nil {
		ed.Role = role
	}
}

//export SQLGetStmtAttr
func SQLGetStmtAttr(stmtHandle C.SQLHSTMT, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, _ C.SQLINTEGER, strLenPtr *C.SQLINTEGER) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	switch attribute {
	case C.SQL_ATTR_ROW_ARRAY_SIZE:
		writeUintptr(valuePtr, uintptr(s.Resolve(odbcapi.RoleARD).Header.ArraySize))
	case C.SQL_ATTR_PARAMSET_SIZE:
		writeUintptr(valuePtr, uintptr(s.Resolve(odbcapi.RoleAPD).Header.ArraySize))
	case C.SQL_ATTR_MAX_LENGTH:
		writeUintptr(valuePtr, uintptr(st.maxLength))
	case C.SQL_ATTR_RETRIEVE_DATA:
		v := uintptr(0)
		if st.retrieveData {
			v = 1
		}
		writeUintptr(valuePtr, v)
	case C.SQL_ATTR_CURSOR_TYPE:
		writeUintptr(valuePtr, uintptr(st.cursorType))
	case C.SQL_ATTR_QUERY_TIMEOUT:
		writeUintptr(valuePtr, 0)
	case C.SQL_ATTR_APP_ROW_DESC:
		writeUintptr(valuePtr, 0) // opaque handle identity not reconstructed
	default:
		s.Diag.Push("", "STMTATTR", "invalid attribute", odbcapi.StateInvalidAttributeValue)
		return C.SQL_ERROR
	}
	if strLenPtr != nil {
		*strLenPtr = 8
	}
	return C.SQL_SUCCESS
}

func writeUintptr(p C.SQLPOINTER, v uintptr) {
	if p != nil {
		*(*C.SQLULEN)(p) = C.SQLULEN(v)
	}
}

//export SQLGetCursorName
func SQLGetCursorName(stmtHandle C.SQLHSTMT, nameBuf *C.SQLCHAR, bufLen C.SQLSMALLINT, nameLenPtr *C.SQLSMALLINT) C.SQLRETURN {
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
	writeOutA(nameBuf, bufLen, nameLenPtr, st.cursorName)
	return C.SQL_SUCCESS
}

//export SQLSetCursorName
func SQLSetCursorName(stmtHandle C.SQLHSTMT, name *C.SQLCHAR, nameLen C.SQLSMALLINT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	stmtExt(s).cursorName = goStringA(name, nameLen)
	return C.SQL_SUCCESS
}

// ---------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------

//export SQLGetDiagRec
func SQLGetDiagRec(handleType C.SQLSMALLINT, h C.SQLPOINTER, recNumber C.SQLSMALLINT,
	sqlState *C.SQLCHAR, nativeErrorPtr *C.SQLINTEGER, msgText *C.SQLCHAR, bufLen C.SQLSMALLINT, textLenPtr *C.SQLSMALLINT) C.SQLRETURN {
	stack, ok := diagOf(handleType, h)
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	rec, ok := stack.Record(int(recNumber))
	if !ok {
		return C.SQL_NO_DATA
	}
	if sqlState != nil {
		writeOutA(sqlState, 6, nil, rec.SQLState)
	}
	if nativeErrorPtr != nil {
		*nativeErrorPtr = C.SQLINTEGER(rec.NativeError)
	}
	res := writeOutA(msgText, bufLen, textLenPtr, rec.Message)
	if state, warn := res.TruncationState(); warn {
		_ = state
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

//export SQLGetDiagField
func SQLGetDiagField(handleType C.SQLSMALLINT, h C.SQLPOINTER, recNumber C.SQLSMALLINT, diagID C.SQLSMALLINT,
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
		res := writeOutA((*C.SQLCHAR)(diagInfoPtr), bufLen, strLenPtr, v)
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

// diagFieldName translates a real SQL_DIAG_* wire value to the field-name
// strings internal/diag's Stack keys its header/record field lookups by.
func diagFieldName(v int32) (string, bool) {
	switch v {
	case C.SQL_DIAG_NUMBER:
		return "NUMBER", true
	case C.SQL_DIAG_ROW_COUNT:
		return "ROW_COUNT", true
	case C.SQL_DIAG_SQLSTATE:
		return "SQLSTATE", true
	case C.SQL_DIAG_NATIVE:
		return "NATIVE", true
	case C.SQL_DIAG_MESSAGE_TEXT:
		return "MESSAGE_TEXT", true
	case C.SQL_DIAG_DYNAMIC_FUNCTION:
		return "DYNAMIC_FUNCTION", true
	case C.SQL_DIAG_CLASS_ORIGIN:
		return "CLASS_ORIGIN", true
	case C.SQL_DIAG_SUBCLASS_ORIGIN:
		return "SUBCLASS_ORIGIN", true
	case C.SQL_DIAG_CONNECTION_NAME:
		return "CONNECTION_NAME", true
	case C.SQL_DIAG_SERVER_NAME:
		return "SERVER_NAME", true
	case C.SQL_DIAG_DYNAMIC_FUNCTION_CODE:
		return "DYNAMIC_FUNCTION_CODE", true
	case C.SQL_DIAG_COLUMN_NUMBER:
		return "COLUMN_NUMBER", true
	case C.SQL_DIAG_ROW_NUMBER:
		return "ROW_NUMBER", true
	case C.SQL_DIAG_CURSOR_ROW_COUNT:
		return "CURSOR_ROW_COUNT", true
	default:
		return "", false
	}
}

// ---------------------------------------------------------------------
// Bound columns / Fetch / GetData 
// ---------------------------------------------------------------------

//export SQLBindCol
func SQLBindCol(stmtHandle C.SQLHSTMT, colNum C.SQLUSMALLINT, targetType C.SQLSMALLINT,
	targetValuePtr C.SQLPOINTER, bufferLength C.SQLLEN, strLenOrIndPtr *C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	ard := s.Resolve(odbcapi.RoleARD)
	if targetValuePtr == nil {
		// unbinding a single column
		if rec := ard.Record1(int(colNum)); rec != nil {
			rec.DataPtr = 0
			rec.IndicatorPtr = 0
			rec.OctetLengthPtr = 0
		}
		return C.SQL_SUCCESS
	}
	rec := ard.EnsureRecord(int(colNum))
	rec.ConciseType = odbcapi.SQLType(targetType)
	rec.Type = odbcapi.SQLType(targetType)
	rec.DataPtr = uintptr(targetValuePtr)
	rec.OctetLength = int64(bufferLength)
	rec.IndicatorPtr = uintptr(unsafe.Pointer(strLenOrIndPtr))
	rec.OctetLengthPtr = rec.IndicatorPtr
	return C.SQL_SUCCESS
}

// stringifyValue renders an engine value the way tinySQL's own text output
// would,
// used both for SQL_C_CHAR/WCHAR fetches and GetData's streaming reads.
func stringifyValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case *big.Rat:
		return convert.FormatRat(x, -1)
	case uuid.UUID:
		return x.String()
	case time.Time:
		return x.Format("2006-01-02 15:04:05.999999999")
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// writeNumericTarget converts an engine value into the fixed-width C buffer
// at dataPtr for every non-character SQL_C_* type. Date/time/interval/numeric
// struct layouts are internal/convert's; everything else is a direct numeric
// cast.
func writeNumericTarget(v any, ct odbcapi.CType, dataPtr uintptr) error {
	asInt := func() (int64, bool) {
		switch x := v.(type) {
		case int64:
			return x, true
		case int:
			return int64(x), true
		case uint64:
			return int64(x), true
		case bool:
			if x {
				return 1, true
			}
			return 0, true
		case float64:
			return int64(x), true
		}
		return 0, false
	}
	asFloat := func() (float64, bool) {
		switch x := v.(type) {
		case float64:
			return x, true
		case int64:
			return float64(x), true
		case int:
			return float64(x), true
		case uint64:
			return float64(x), true
		}
		return 0, false
	}

	switch ct {
	case odbcapi.CTinyint, odbcapi.CUtinyint, odbcapi.CBit:
		n, ok := asInt()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not an integer"}
		}
		*(*int8)(unsafe.Pointer(dataPtr)) = int8(n)
	case odbcapi.CShort:
		n, ok := asInt()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not an integer"}
		}
		*(*int16)(unsafe.Pointer(dataPtr)) = int16(n)
	case odbcapi.CLong:
		n, ok := asInt()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not an integer"}
		}
		*(*int32)(unsafe.Pointer(dataPtr)) = int32(n)
	case odbcapi.CSBigint:
		n, ok := asInt()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not an integer"}
		}
		*(*int64)(unsafe.Pointer(dataPtr)) = n
	case odbcapi.CUBigint:
		n, ok := asInt()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not an integer"}
		}
		*(*uint64)(unsafe.Pointer(dataPtr)) = uint64(n)
	case odbcapi.CFloat:
		f, ok := asFloat()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not a float"}
		}
		*(*float32)(unsafe.Pointer(dataPtr)) = float32(f)
	case odbcapi.CDouble:
		f, ok := asFloat()
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not a float"}
		}
		*(*float64)(unsafe.Pointer(dataPtr)) = f
	case odbcapi.CNumeric:
		r, ok := v.(*big.Rat)
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not decimal"}
		}
		n, err := convert.EncodeNumeric(r)
		if err != nil {
			return err
		}
		*(*convert.Numeric)(unsafe.Pointer(dataPtr)) = n
	case odbcapi.CDate, odbcapi.CTime, odbcapi.CTimestamp:
		t, ok := v.(time.Time)
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not a timestamp"}
		}
		dt := convert.FromTime(t)
		switch ct {
		case odbcapi.CDate:
			dt = convert.DateOnly(dt)
		case odbcapi.CTime:
			dt = convert.TimeOnly(dt)
		}
		*(*convert.DateTime)(unsafe.Pointer(dataPtr)) = dt
	case odbcapi.CInterval:
		d, ok := v.(time.Duration)
		if !ok {
			return &convert.ErrRestrictedDataType{Detail: "not an interval"}
		}
		iv := convert.EncodeInterval(d, convert.IntervalDayToSecond)
		*(*convert.Interval)(unsafe.Pointer(dataPtr)) = iv
	default:
		return &convert.ErrRestrictedDataType{Detail: "unsupported target C type"}
	}
	return nil
}

// writeScattered implements one bound column's conversion from an engine
// value ('s job) into the application buffer for the Scatter
// callback describes. indOffset is the byte offset of this row's indicator
// cell from the bound indicator pointer: the same as the data offset under
// row-wise binding (the indicator lives inside the bound struct), or the row
// index times sizeof(SQLLEN) under column-wise binding where indicators form
// their own parallel array.
func writeScattered(row tinysql.Row, names []string, t fetch.ScatterTarget, indOffset int64) (truncated bool, err error) {
	if t.ColumnOrdinal < 1 || t.ColumnOrdinal > len(names) {
		return false, nil
	}
	name := names[t.ColumnOrdinal-1]
	v, has := tinysql.GetVal(row, name)
	indPtr := uintptr(0)
	if t.IndicatorPtr != 0 {
		indPtr = t.IndicatorPtr + uintptr(indOffset)
	}
	if !has || v == nil {
		if indPtr != 0 {
			*(*int64)(unsafe.Pointer(indPtr)) = param.NullData
		}
		return false, nil
	}
	s := stringifyValue(v)
	switch t.CType {
	case odbcapi.CChar:
		buf := unsafe.Slice((*byte)(unsafe.Pointer(t.DataPtr)), int(t.BufferLength))
		_, res := encoding.WriteNarrow(buf, s)
		if indPtr != 0 {
			*(*int64)(unsafe.Pointer(indPtr)) = res.FullLen
		}
		_, warn := res.TruncationState()
		return warn, nil
	case odbcapi.CWChar:
		units := unsafe.Slice((*uint16)(unsafe.Pointer(t.DataPtr)), int(t.BufferLength)/2)
		_, res := encoding.WriteWideFromString(units, s)
		if indPtr != 0 {
			*(*int64)(unsafe.Pointer(indPtr)) = res.FullLen
		}
		_, warn := res.TruncationState()
		return warn, nil
	default:
		if err := writeNumericTarget(v, t.CType, t.DataPtr); err != nil {
			return false, err
		}
		if indPtr != 0 {
			*(*int64)(unsafe.Pointer(indPtr)) = t.BufferLength
		}
		return false, nil
	}
}

//export SQLFetch
func SQLFetch(stmtHandle C.SQLHSTMT) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return doFetch(s, odbcapi.FetchNext, 0)
}

//export SQLFetchScroll
func SQLFetchScroll(stmtHandle C.SQLHSTMT, orientation C.SQLSMALLINT, offset C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	return doFetch(s, odbcapi.FetchOrientation(orientation), int64(offset))
}

func doFetch(s *handle.Statement, orient odbcapi.FetchOrientation, offset int64) C.SQLRETURN {
	st := stmtExt(s)
	if st == nil || st.cursor == nil || !st.cursor.IsOpen() {
		s.Diag.Push("", "FETCH", "function sequence error", odbcapi.StateFunctionSequenceError)
		return C.SQL_ERROR
	}
	st.cursor.ResetGetData()
	atEnd, err := st.cursor.Seek(orient, offset)
	if err != nil {
		s.Diag.Push("", "FETCH", err.Error(), "HY106")
		return C.SQL_ERROR
	}
	if atEnd {
		return C.SQL_NO_DATA
	}

	ard := s.Resolve(odbcapi.RoleARD)
	names := st.cursor.ColumnNames()
	targets := make([]fetch.ScatterTarget, 0, ard.Header.Count)
	for i := 1; i <= int(ard.Header.Count); i++ {
		rec := ard.Record1(i)
		if rec == nil || rec.DataPtr == 0 {
			continue
		}
		targets = append(targets, fetch.ScatterTarget{
			ColumnOrdinal: i,
			CType:         odbcapi.CType(rec.ConciseType),
			DataPtr:       rec.DataPtr,
			IndicatorPtr:  rec.IndicatorPtr,
			BufferLength:  rec.OctetLength,
		})
	}

	rowWise := ard.Header.BindType > 0
	n, truncated, err := st.cursor.Scatter(ard, targets, func(row tinysql.Row, t fetch.ScatterTarget, rowOffset int64) (bool, error) {
		shifted := t
		shifted.DataPtr += uintptr(rowOffset)
		// Row-wise binding packs the indicator inside the same struct as the
		// data, so it moves by the identical per-row stride. Column-wise
		// binding (the default) keeps indicators in their own flat SQLLEN
		// array, addressed by row index * sizeof(SQLLEN) regardless of the
		// bound C type's width.
		indOffset := rowOffset
		if !rowWise {
			if width := ctypeWidthFor(t.CType); width > 0 {
				indOffset = (rowOffset / width) * 8
			}
		}
		return writeScattered(row, names, shifted, indOffset)
	})
	if err != nil {
		s.Diag.Push("", "FETCH", err.Error(), "HY000")
		return C.SQL_ERROR
	}
	if st.rowsFetchedPtr != 0 {
		*(*uint64)(unsafe.Pointer(st.rowsFetchedPtr)) = uint64(n)
	}
	if n == 0 {
		return C.SQL_NO_DATA
	}
	if truncated {
		s.Diag.Push("", "FETCH", "string data, right truncated", odbcapi.StateStringTruncated)
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

// ctypeWidthFor mirrors internal/fetch's own (unexported) column-wise
// default stride table, needed here to turn a data-pointer byte offset back
// into a row index when addressing the parallel column-wise indicator array.
func ctypeWidthFor(t odbcapi.CType) int64 {
	switch t {
	case odbcapi.CTinyint, odbcapi.CUtinyint, odbcapi.CBit:
		return 1
	case odbcapi.CShort:
		return 2
	case odbcapi.CLong, odbcapi.CFloat:
		return 4
	case odbcapi.CDouble, odbcapi.CSBigint, odbcapi.CUBigint:
		return 8
	default:
		return 8
	}
}

//export SQLGetData
func SQLGetData(stmtHandle C.SQLHSTMT, colNum C.SQLUSMALLINT, targetType C.SQLSMALLINT,
	targetValuePtr C.SQLPOINTER, bufferLength C.SQLLEN, strLenOrIndPtr *C.SQLLEN) C.SQLRETURN {
	s, ok := lookupStmt(uintptr(stmtHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	s.Diag.Clear()
	st := stmtExt(s)
	if st == nil || st.cursor == nil || !st.cursor.IsOpen() {
		s.Diag.Push("", "GETDATA", "function sequence error", odbcapi.StateFunctionSequenceError)
		return C.SQL_ERROR
	}
	row, has := st.cursor.CurrentRow()
	if !has {
		s.Diag.Push("", "GETDATA", "invalid cursor position", odbcapi.StateInvalidCursorPosition)
		return C.SQL_ERROR
	}
	names := st.cursor.ColumnNames()
	if int(colNum) < 1 || int(colNum) > len(names) {
		s.Diag.Push("", "GETDATA", "invalid descriptor index", odbcapi.StateInvalidDescriptorIndex)
		return C.SQL_ERROR
	}
	v, valOk := tinysql.GetVal(row, names[colNum-1])
	if !valOk || v == nil {
		if strLenOrIndPtr != nil {
			*strLenOrIndPtr = C.SQLLEN(param.NullData)
		}
		return C.SQL_SUCCESS
	}

	ct := odbcapi.CType(targetType)
	if ct != odbcapi.CChar && ct != odbcapi.CWChar {
		dataPtr := uintptr(targetValuePtr)
		if err := writeNumericTarget(v, ct, dataPtr); err != nil {
			s.Diag.Push("", "GETDATA", err.Error(), odbcapi.StateRestrictedDataType)
			return C.SQL_ERROR
		}
		if strLenOrIndPtr != nil {
			*strLenOrIndPtr = C.SQLLEN(bufferLength)
		}
		return C.SQL_SUCCESS
	}

	full := stringifyValue(v)
	startOffset, resumed := st.cursor.GetDataState(int(colNum))
	if resumed && startOffset >= len(full) {
		return C.SQL_NO_DATA
	}
	if startOffset > len(full) {
		startOffset = len(full)
	}
	remaining := full[startOffset:]

	var written int
	var res encoding.WriteResult
	if ct == odbcapi.CChar {
		buf := unsafe.Slice((*byte)(unsafe.Pointer(targetValuePtr)), int(bufferLength))
		written, res = encoding.WriteNarrow(buf, remaining)
	} else {
		units := unsafe.Slice((*uint16)(unsafe.Pointer(targetValuePtr)), int(bufferLength)/2)
		written, res = encoding.WriteWideFromString(units, remaining)
	}
	if strLenOrIndPtr != nil {
		*strLenOrIndPtr = C.SQLLEN(res.FullLen)
	}
	// written includes the trailing NUL/terminator this call added; the
	// cursor's resume offset must track only the content bytes consumed so
	// the next partial GetData call picks up right after them.
	contentWritten := written
	if contentWritten > 0 {
		contentWritten--
	}
	st.cursor.AdvanceGetData(int(colNum), startOffset+contentWritten)
	if state, warn := res.TruncationState(); warn {
		s.Diag.Push("", "GETDATA", "string data, right truncated", state)
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}
