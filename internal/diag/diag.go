// Package diag implements the per-handle diagnostic record stack described
// in : SQLSTATE, native error code, and message
// text, with the header fields GetDiagField exposes and the truncation
// contract GetDiagRec/GetDiagField share with every other string-output API
// in the driver (internal/encoding).
package diag

import (
	"fmt"
	"strings"
)

// Record is one diagnostic record pushed by a driver or engine error.
type Record struct {
	SQLState    string
	NativeError int32
	Message     string
	ColumnNum   int64
	RowNum      int64
	ServerName  string
}

// classOrigin reports the class-origin marker for a SQLSTATE,
func classOrigin(state string) string {
	if len(state) < 2 {
		return "ODBC 3.0"
	}
	switch state[:2] {
	case "00", "01", "02", "07", "08", "0A", "21", "22", "23", "24", "25",
		"26", "28", "2B", "2C", "2D", "2E", "33", "34", "35", "37", "3C",
		"3D", "3F", "40", "42", "44":
		return "ISO 9075"
	default:
		return "ODBC 3.0"
	}
}

// Stack is the append-only diagnostic record list carried by every handle.
// It is cleared by the dispatcher at the start of every public entrypoint
// before the entrypoint's own logic pushes new records.
type Stack struct {
	records       []Record
	rowCount      int64
	dynFunction   string
	dynFunctionID int32
	cursorRowCnt  int64
}

// Clear empties the stack. Called by odbc's dispatcher on entry to every
// public function.
func (s *Stack) Clear() {
	s.records = s.records[:0]
}

// Push appends a record. component is a short tag such as "HANDLE" or
// "FETCH"; it is folded into the message
// "ODBC_<dsn>-><component>\n<message>" convention.
func (s *Stack) Push(dsn, component, message, sqlstate string) {
	s.records = append(s.records, Record{
		SQLState: sqlstate,
		Message:  fmt.Sprintf("ODBC_%s->%s\n%s", dsn, component, message),
	})
}

// PushNative is like Push but also records a native (engine) error code.
func (s *Stack) PushNative(dsn, component, message, sqlstate string, native int32) {
	s.records = append(s.records, Record{
		SQLState:    sqlstate,
		NativeError: native,
		Message:     fmt.Sprintf("ODBC_%s->%s\n%s", dsn, component, message),
	})
}

// SetRowCount / SetDynamicFunction are used by statement handles to answer
// GetDiagField's SQL_DIAG_ROW_COUNT / SQL_DIAG_DYNAMIC_FUNCTION* headers.
func (s *Stack) SetRowCount(n int64)            { s.rowCount = n }
func (s *Stack) SetDynamicFunction(name string) { s.dynFunction = name }
func (s *Stack) SetCursorRowCount(n int64)      { s.cursorRowCnt = n }

// Count returns the number of diagnostic records currently on the stack.
func (s *Stack) Count() int { return len(s.records) }

// HeaderField answers the SQL_DIAG_* header fields of GetDiagField.
func (s *Stack) HeaderField(name string) (any, bool) {
	switch name {
	case "NUMBER":
		return int32(len(s.records)), true
	case "ROW_COUNT":
		return s.rowCount, true
	case "DYNAMIC_FUNCTION":
		return s.dynFunction, true
	case "DYNAMIC_FUNCTION_CODE":
		return s.dynFunctionID, true
	case "CURSOR_ROW_COUNT":
		return s.cursorRowCnt, true
	default:
		return nil, false
	}
}

// Record returns the 1-based diagnostic record and true, or false if
// recNumber is out of range (the caller should translate that to NO_DATA).
func (s *Stack) Record(recNumber int) (Record, bool) {
	if recNumber < 1 || recNumber > len(s.records) {
		return Record{}, false
	}
	return s.records[recNumber-1], true
}

// RecordField answers the per-record GetDiagField fields for a 1-based
// record index.
func (s *Stack) RecordField(recNumber int, field string) (any, bool) {
	r, ok := s.Record(recNumber)
	if !ok {
		return nil, false
	}
	switch field {
	case "SQLSTATE":
		return r.SQLState, true
	case "NATIVE":
		return r.NativeError, true
	case "MESSAGE_TEXT":
		return r.Message, true
	case "CLASS_ORIGIN":
		return classOrigin(r.SQLState), true
	case "SUBCLASS_ORIGIN":
		return classOrigin(r.SQLState), true
	case "SERVER_NAME":
		return r.ServerName, true
	case "COLUMN_NUMBER":
		return r.ColumnNum, true
	case "ROW_NUMBER":
		return r.RowNum, true
	case "CONNECTION_NAME":
		return r.ServerName, true
	default:
		return nil, false
	}
}

// WorstReturn inspects the pushed records and reports the ODBC return code
// the entrypoint should give back: ERROR if any record's class is an error
// class (not 01xxx), SUCCESS_WITH_INFO if only warning-class (01xxx) records
// were pushed, SUCCESS if none were.
func (s *Stack) WorstReturn() (isError, hasWarning bool) {
	for _, r := range s.records {
		if strings.HasPrefix(r.SQLState, "01") {
			hasWarning = true
		} else if r.SQLState != "" && r.SQLState != "00000" {
			isError = true
		}
	}
	return
}
