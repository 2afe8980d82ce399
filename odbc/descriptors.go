// This file implements the descriptor handle's client-facing entrypoints:
// SQLGetDescField/SQLSetDescField, SQLGetDescRec/SQLSetDescRec, and
// SQLCopyDesc. Every one of them operates on an explicit descriptor handle
// (SQL_HANDLE_DESC, allocated by SQLAllocHandle and looked up through
// lookupDesc) and dispatches straight into internal/descriptor's
// CheckFieldAccess/SetType/Copy -- this file translates the wire field IDs
// and writes/reads the raw buffers, nothing more.
package main

/*
#include "sqlapi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/tinysql-odbc/driver/internal/descriptor"
	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

//export SQLGetDescField
func SQLGetDescField(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT, fieldID C.SQLSMALLINT,
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
		res := writeOutA((*C.SQLCHAR)(valuePtr), C.SQLSMALLINT(bufLen), nil, colAttrString(rec, field))
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

//export SQLSetDescField
func SQLSetDescField(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT, fieldID C.SQLSMALLINT,
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
		setRecordString(rec, field, goStringA((*C.SQLCHAR)(valuePtr), C.SQLINTEGER(bufLen)))
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

func headerFieldValue(h *descriptor.Header, f odbcapi.FieldID) uintptr {
	switch f {
	case odbcapi.FieldCount:
		return uintptr(h.Count)
	case odbcapi.FieldAllocType:
		return uintptr(h.AllocType)
	case odbcapi.FieldArraySize:
		return uintptr(h.ArraySize)
	case odbcapi.FieldArrayStatusPtr:
		return h.ArrayStatusPtr
	case odbcapi.FieldBindOffsetPtr:
		return h.BindOffsetPtr
	case odbcapi.FieldBindType:
		return uintptr(h.BindType)
	case odbcapi.FieldRowsProcessedPtr:
		return h.RowsProcessedPtr
	default:
		return 0
	}
}

func setHeaderField(h *descriptor.Header, f odbcapi.FieldID, v uintptr) {
	switch f {
	case odbcapi.FieldArraySize:
		h.ArraySize = int64(v)
	case odbcapi.FieldArrayStatusPtr:
		h.ArrayStatusPtr = v
	case odbcapi.FieldBindOffsetPtr:
		h.BindOffsetPtr = v
	case odbcapi.FieldBindType:
		h.BindType = int64(v)
	case odbcapi.FieldRowsProcessedPtr:
		h.RowsProcessedPtr = v
	}
}

// recordFieldValue covers the numeric/pointer record fields colAttrNumeric
// (defined in odbc.go for SQLColAttribute, IRD-only) doesn't: the pointer
// triple and the parameter-only fields.
func recordFieldValue(rec *descriptor.Record, f odbcapi.FieldID) uintptr {
	switch f {
	case odbcapi.FieldDataPtr:
		return rec.DataPtr
	case odbcapi.FieldIndicatorPtr:
		return rec.IndicatorPtr
	case odbcapi.FieldOctetLengthPtr:
		return uintptr(rec.OctetLengthPtr)
	case odbcapi.FieldParameterType:
		return uintptr(rec.ParameterType)
	case odbcapi.FieldUnnamed:
		return uintptr(rec.Unnamed)
	case odbcapi.FieldRowver:
		return uintptr(rec.Rowver)
	default:
		return uintptr(colAttrNumeric(rec, f))
	}
}

func setRecordString(rec *descriptor.Record, f odbcapi.FieldID, s string) {
	switch f {
	case odbcapi.FieldName:
		rec.Name = s
	case odbcapi.FieldTypeName:
		rec.TypeName = s
	case odbcapi.FieldLocalTypeName:
		rec.LocalTypeName = s
	case odbcapi.FieldLiteralPrefix:
		rec.LiteralPrefix = s
	case odbcapi.FieldLiteralSuffix:
		rec.LiteralSuffix = s
	case odbcapi.FieldBaseColumnName:
		rec.BaseColumnName = s
	case odbcapi.FieldBaseTableName, odbcapi.FieldTableName:
		rec.BaseTableName = s
	case odbcapi.FieldSchemaName:
		rec.SchemaName = s
	case odbcapi.FieldCatalogName:
		rec.CatalogName = s
	case odbcapi.FieldLabel:
		rec.Label = s
	}
}

func setRecordField(rec *descriptor.Record, f odbcapi.FieldID, v uintptr) {
	switch f {
	case odbcapi.FieldDataPtr:
		rec.DataPtr = v
	case odbcapi.FieldIndicatorPtr:
		rec.IndicatorPtr = v
	case odbcapi.FieldOctetLengthPtr:
		rec.OctetLengthPtr = uintptr(v)
	case odbcapi.FieldParameterType:
		rec.ParameterType = odbcapi.ParamDirection(v)
	case odbcapi.FieldUnnamed:
		rec.Unnamed = int16(v)
	case odbcapi.FieldRowver:
		rec.Rowver = int16(v)
	case odbcapi.FieldLength:
		rec.Length = uint64(v)
	case odbcapi.FieldOctetLength:
		rec.OctetLength = int64(v)
	case odbcapi.FieldPrecision:
		rec.Precision = int16(v)
	case odbcapi.FieldScale:
		rec.Scale = int16(v)
	case odbcapi.FieldNullable:
		rec.Nullable = int16(v)
	case odbcapi.FieldDatetimeIntervalCode:
		rec.DatetimeIntervalCode = int16(v)
	case odbcapi.FieldDatetimeIntervalPrecision:
		rec.DatetimeIntervalPrec = int32(v)
	}
}

//export SQLGetDescRec
func SQLGetDescRec(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT,
	name *C.SQLCHAR, bufLen C.SQLSMALLINT, nameLenPtr *C.SQLSMALLINT,
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
	res := writeOutA(name, bufLen, nameLenPtr, rec.Name)
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

//export SQLSetDescRec
func SQLSetDescRec(descHandle C.SQLHDESC, recNumber C.SQLSMALLINT,
	typeVal C.SQLSMALLINT, subType C.SQLSMALLINT, length C.SQLLEN,
	precision C.SQLSMALLINT, scale C.SQLSMALLINT,
	dataPtr C.SQLPOINTER, strLenOrIndPtr *C.SQLLEN, indicatorPtr *C.SQLLEN) C.SQLRETURN {
	ed, ok := lookupDesc(uintptr(descHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	ed.Diag.Clear()
	if err := ed.desc.SetType(int(recNumber), ed.Role, resolver, odbcapi.SQLType(typeVal), int16(subType)); err != nil {
		ed.Diag.Push("", "DESCREC", err.Error(), odbcapi.StateInconsistentDescriptor)
		return C.SQL_ERROR
	}
	rec := ed.desc.EnsureRecord(int(recNumber))
	rec.Length = uint64(length)
	rec.Precision = int16(precision)
	rec.Scale = int16(scale)
	rec.DataPtr = uintptr(unsafe.Pointer(dataPtr))
	if strLenOrIndPtr != nil {
		rec.OctetLengthPtr = uintptr(unsafe.Pointer(strLenOrIndPtr))
	}
	if indicatorPtr != nil {
		rec.IndicatorPtr = uintptr(unsafe.Pointer(indicatorPtr))
	}
	return C.SQL_SUCCESS
}

//export SQLCopyDesc
func SQLCopyDesc(srcHandle C.SQLHDESC, dstHandle C.SQLHDESC) C.SQLRETURN {
	src, ok := lookupDesc(uintptr(srcHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	dst, ok := lookupDesc(uintptr(dstHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	dst.Diag.Clear()
	descriptor.Copy(dst.desc, src.desc)
	dst.Role = src.Role
	return C.SQL_SUCCESS
}
