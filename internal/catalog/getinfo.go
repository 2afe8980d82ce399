package catalog

import (
	"context"

	"github.com/tinysql-odbc/driver/internal/tsengine"
)

// InfoType mirrors the SQL_* GetInfo identifiers this driver answers.
type InfoType int16

const (
	InfoDriverName          InfoType = 6
	InfoDriverVersion       InfoType = 7
	InfoServerName          InfoType = 13
	InfoSearchPatternEsc    InfoType = 14
	InfoDatabaseName        InfoType = 16
	InfoDBMSName            InfoType = 17
	InfoDBMSVersion         InfoType = 18
	InfoIdentifierQuoteChar InfoType = 29
	InfoSchemaTerm          InfoType = 39
	InfoCatalogTerm         InfoType = 42
	InfoTableTerm           InfoType = 45
	InfoKeywords            InfoType = 89
	InfoMaxColumnsInTable   InfoType = 92
	InfoDriverODBCVer       InfoType = 77
)

// InfoValue is the tagged result of a GetInfo lookup: exactly one of Str
// (routed through the truncation-aware string writers) or Num is
// meaningful, selected by IsString.
type InfoValue struct {
	IsString bool
	Str      string
	Num      uint32
}

// driverVersion is this driver's own version string, independent of the
// tinySQL engine version GetInfo(DBMS_VER) reports.
const driverVersion = "03.51.0000"

// GetInfo answers the SQLGetInfo switch. Every value is a constant of this
// driver: DBMS_VER is the fixed string "tinySQL" and KEYWORDS is a fixed
// list (see dbmsVersion and reservedKeywords); neither is read from the
// engine. Unknown info types report ok=false; the caller answers those with
// SQL_SUCCESS and no diagnostic rather than an error, for tolerance of BI
// tools that probe info types this driver never answers.
func GetInfo(ctx context.Context, conn *tsengine.Conn, infoType InfoType) (InfoValue, bool) {
	switch infoType {
	case InfoDBMSName:
		return InfoValue{IsString: true, Str: "tinySQL"}, true
	case InfoDBMSVersion:
		return InfoValue{IsString: true, Str: dbmsVersion(ctx, conn)}, true
	case InfoDriverName:
		return InfoValue{IsString: true, Str: "libtsodbc"}, true
	case InfoDriverVersion:
		return InfoValue{IsString: true, Str: driverVersion}, true
	case InfoDriverODBCVer:
		return InfoValue{IsString: true, Str: "03.51"}, true
	case InfoServerName:
		return InfoValue{IsString: true, Str: "embedded"}, true
	case InfoDatabaseName:
		return InfoValue{IsString: true, Str: conn.Tenant()}, true
	case InfoSearchPatternEsc:
		return InfoValue{IsString: true, Str: `\`}, true
	case InfoIdentifierQuoteChar:
		return InfoValue{IsString: true, Str: `"`}, true
	case InfoCatalogTerm:
		return InfoValue{IsString: true, Str: ""}, true
	case InfoSchemaTerm:
		return InfoValue{IsString: true, Str: "tenant"}, true
	case InfoTableTerm:
		return InfoValue{IsString: true, Str: "table"}, true
	case InfoMaxColumnsInTable:
		return InfoValue{Num: 0}, true // 0 = no limit
	case InfoKeywords:
		return InfoValue{IsString: true, Str: reservedKeywords()}, true
	default:
		return InfoValue{}, false
	}
}

// dbmsVersion answers SQL_DBMS_VER. tinySQL has no pragma_version() table
// function, so the engine is not asked for its version: this runs SELECT 1
// and, whatever its outcome, returns the fixed string "tinySQL", which
// carries no version number.
func dbmsVersion(ctx context.Context, conn *tsengine.Conn) string {
	prep, err := tsengine.Prepare(conn, "SELECT 1")
	if err != nil {
		return "tinySQL"
	}
	res, err := prep.Execute(ctx, "SELECT 1")
	if err != nil || res.HasError() {
		return "tinySQL"
	}
	return "tinySQL"
}

// reservedKeywords returns tinySQL's reserved-keyword list for GetInfo's
// SQL_KEYWORDS. tinySQL's public surface does not expose its lexer's
// keyword table, so this is a fixed list of the statement/clause keywords
// its parser is documented to accept. It is not read from the engine, so a
// keyword the engine accepts but this list omits is not reported.
func reservedKeywords() string {
	return "SELECT,INSERT,UPDATE,DELETE,CREATE,DROP,TABLE,TEMP,TEMPORARY," +
		"FROM,WHERE,GROUP,BY,HAVING,ORDER,LIMIT,OFFSET,JOIN,LEFT,RIGHT," +
		"INNER,OUTER,ON,AS,AND,OR,NOT,NULL,IS,IN,LIKE,UNION,EXCEPT,INTERSECT," +
		"VALUES,SET,INTO,DISTINCT,ALL,CASE,WHEN,THEN,ELSE,END"
}
