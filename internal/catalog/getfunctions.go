package catalog

// FunctionID mirrors the ODBC 2.x SQL_API_* function identifiers still
// accepted by SQLGetFunctions' fFunction argument alongside the 3.x
// SQL_API_ODBC3_ALL_FUNCTIONS bitmap form.
type FunctionID uint16

const (
	FuncAllFunctions       FunctionID = 0
	FuncODBC3AllFunctions  FunctionID = 999
)

// odbc3Supported is the fixed bitmap describing support for
// SQL_API_ODBC3_ALL_FUNCTIONS: every core-and-level-1 function this driver
// actually implements reports supported; every function this driver has no
// entrypoint for (catalog functions beyond Tables/Columns/TypeInfo, and
// anything needing a capability tinySQL's engine doesn't have, such as
// SQLBrowseConnect) reports unsupported. Indexed by the function's
// SQL_API_* ordinal; values are 0/1 rather than bit-packed since ODBC's own
// 100-ushort bitmap representation is an ABI encoding detail the odbc
// package's SQLGetFunctions handler owns, not this table.
var odbc3Supported = map[uint16]bool{
	1:  true, // SQLAllocConnect (deprecated alias of SQLAllocHandle)
	2:  true, // SQLAllocEnv
	3:  true, // SQLAllocStmt
	4:  true, // SQLBindCol
	5:  true, // SQLCancel
	6:  true, // SQLColAttribute
	7:  true, // SQLConnect
	8:  true, // SQLDescribeCol
	9:  true, // SQLDisconnect
	10: true, // SQLError (deprecated, mapped onto SQLGetDiagRec)
	11: true, // SQLExecDirect
	12: true, // SQLExecute
	13: true, // SQLFetch
	14: true, // SQLFreeConnect
	15: true, // SQLFreeEnv
	16: true, // SQLFreeStmt
	17: true, // SQLGetCursorName
	18: true, // SQLNumResultCols
	19: true, // SQLPrepare
	20: true, // SQLRowCount
	21: true, // SQLSetCursorName
	22: true, // SQLSetParam (deprecated alias of SQLBindParameter)
	23: true, // SQLTransact (mapped onto SQLEndTran)
	40: true, // SQLColumns
	44: true, // SQLGetData
	45: true, // SQLGetFunctions
	46: true, // SQLGetInfo
	47: true, // SQLGetTypeInfo
	54: true, // SQLSetStmtOption (mapped onto SQLSetStmtAttr)
	57: true, // SQLTables
	71: true, // SQLBindParameter
	72: true, // SQLAllocHandle
	73: true, // SQLBindParam
	74: true, // SQLCloseCursor
	75: true, // SQLEndTran
	76: true, // SQLFetchScroll
	77: true, // SQLFreeHandle
	78: true, // SQLGetConnectAttr
	79: true, // SQLGetDescField
	80: true, // SQLGetDescRec
	81: true, // SQLGetDiagField
	82: true, // SQLGetDiagRec
	83: true, // SQLGetEnvAttr
	84: true, // SQLGetStmtAttr
	85: true, // SQLSetConnectAttr
	86: true, // SQLSetDescField
	87: true, // SQLSetDescRec
	88: true, // SQLSetEnvAttr
	89: true, // SQLSetStmtAttr
}

// Supports3 reports whether this driver implements the ODBC 3.x function
// identified by ordinal, for SQLGetFunctions' SQL_API_ODBC3_ALL_FUNCTIONS
// form.
func Supports3(ordinal uint16) bool { return odbc3Supported[ordinal] }

// odbc2Supported is the older fFunction-indexed form (SQL_API_ALL_FUNCTIONS),
// a 100-element array rather than a bitmap; derived mechanically from
// odbc3Supported for every ordinal below 100, matching how drivers in this
// family keep both forms in sync from one source table.
func odbc2Supported() [100]bool {
	var out [100]bool
	for ord, ok := range odbc3Supported {
		if ord < 100 {
			out[ord] = ok
		}
	}
	return out
}

// Supports2 returns the full legacy 100-entry support array.
func Supports2() [100]bool { return odbc2Supported() }
