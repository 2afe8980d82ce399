// Package catalog implements the GetInfo's
// switch table, GetFunctions' two static bitmaps, the Tables/Columns SQL
// composition against tinySQL's own schema introspection, GetTypeInfo's
// VALUES(...) literal built from internal/typeinfo, and the zero-row column
// shapes for every catalog function leaves unimplemented.
package catalog

import (
	"fmt"
	"strings"

	"github.com/SimonWaldherr/tinySQL"

	"github.com/tinysql-odbc/driver/internal/odbcapi"
	"github.com/tinysql-odbc/driver/internal/typeinfo"
)

// PatternFilter implements this pattern-filter rule: empty ->
// match everything; metadata-id -> exact equality against an upcased
// identifier; otherwise -> SQL LIKE with ODBC wildcards and an explicit
// ESCAPE '\'.
func PatternFilter(field, pattern string, metadataID bool) string {
	switch {
	case pattern == "":
		return fmt.Sprintf("COALESCE(%s,'') LIKE '%%'", field)
	case metadataID:
		return fmt.Sprintf("%s = '%s'", field, strings.ToUpper(escapeLiteral(unquoteIdentifier(pattern))))
	default:
		return fmt.Sprintf("%s LIKE '%s' ESCAPE '\\'", field, escapeLiteral(pattern))
	}
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// UnquoteIdentifier implements the GetStringAsIdentifier-equivalent
// behavior resolves as "strip one layer of outer double quotes,
// collapse internal whitespace": used when metadata-id comparisons need the
// pattern normalized to how the engine's own identifier catalog stores
// names.
func UnquoteIdentifier(s string) string { return unquoteIdentifier(s) }

func unquoteIdentifier(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// TranslateTableType translates a table type name: TABLE -> BASE TABLE;
// SYSTEM TABLE strips to empty (tinySQL has no system-catalog tables of its
// own, so that case never actually occurs against it); VIEW and every other
// type name pass through trimmed and upper-cased.
func TranslateTableType(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "TABLE":
		return "BASE TABLE"
	case "VIEW":
		return "VIEW"
	case "SYSTEM TABLE":
		return ""
	default:
		return strings.ToUpper(strings.TrimSpace(t))
	}
}

// TableRow is one row of the Tables result. Rows are built directly from
// tinySQL's table listing for the connection's tenant
// (internal/tsengine.Conn.DB().ListTables, not an information_schema view —
// tinySQL has no such view), not from a SQL query.
type TableRow struct {
	Catalog, Schema, Name, Type, Remarks string
}

// ListTables enumerates every table in tenant matching the catalog/schema/
// table-name/table-type pattern filters. tinySQL has no catalog/schema
// concept of its own (one flat per-tenant namespace), so TableCatalog is
// always "" and TableSchema is always the tenant name, matching how other
// single-namespace ODBC drivers in this family report those two columns.
func ListTables(db *tinysql.DB, tenant, catalogPattern, schemaPattern, namePattern, typePattern string) []TableRow {
	if !matchesSentinel(catalogPattern) {
		return nil
	}
	if !likeMatch(schemaPattern, tenant) {
		return nil
	}
	var out []TableRow
	for _, t := range db.ListTables(tenant) {
		if !likeMatch(namePattern, t.Name) {
			continue
		}
		kind := "TABLE"
		if t.IsTemp {
			kind = "GLOBAL TEMPORARY"
		}
		if typePattern != "" && !likeMatch(typePattern, kind) {
			continue
		}
		out = append(out, TableRow{Schema: tenant, Name: t.Name, Type: TranslateTableType(kind)})
	}
	return out
}

// ColumnRow is one row of the Columns catalog function's result shape.
type ColumnRow struct {
	Catalog, Schema, Table, Column string
	SQLType                        odbcapi.SQLType
	TypeName                       string
	ColumnSize                     int64
	Ordinal                        int
	Nullable                       int16
}

// ListColumns implements this Columns function against a single
// resolved table (tinySQL's schema introspection is per-table via db.Get,
// so the catalog/schema/table pattern filters are applied by the caller
// enumerating ListTables first, then calling this once per matching table).
func ListColumns(db *tinysql.DB, tenant, tableName, columnPattern string) ([]ColumnRow, error) {
	t, err := db.Get(tenant, tableName)
	if err != nil {
		return nil, err
	}
	var out []ColumnRow
	for i, c := range t.Cols {
		if !likeMatch(columnPattern, c.Name) {
			continue
		}
		row := typeinfo.Lookup(c.Type)
		colSize := int64(0)
		if row.ColumnSize != nil {
			colSize = *row.ColumnSize
		}
		out = append(out, ColumnRow{
			Schema: tenant, Table: tableName, Column: c.Name,
			SQLType: row.SQLType, TypeName: row.LocalTypeName,
			ColumnSize: colSize, Ordinal: i + 1, Nullable: 1,
		})
	}
	return out, nil
}

func matchesSentinel(catalogPattern string) bool {
	// SQL_ALL_CATALOGS is the empty string in this driver's single-catalog
	// world (tinySQL has no catalog concept above tenant); any non-empty
	// catalog pattern other than the all-catalogs sentinel matches nothing.
	return catalogPattern == "" || catalogPattern == "%"
}

// likeMatch implements ODBC's LIKE wildcard semantics (`%` any run, `_` any
// one character) case-sensitively, the same matching Tables/Columns use
// once patterns have been resolved to a Go-side filter instead of a SQL
// LIKE clause (tinySQL's schema is enumerated in Go, not queried with SQL,
// per ListTables' doc comment above).
func likeMatch(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	return likeMatchRunes([]rune(pattern), []rune(name))
}

func likeMatchRunes(pattern, name []rune) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	switch pattern[0] {
	case '%':
		if likeMatchRunes(pattern[1:], name) {
			return true
		}
		for i := range name {
			if likeMatchRunes(pattern[1:], name[i+1:]) {
				return true
			}
		}
		return false
	case '_':
		if len(name) == 0 {
			return false
		}
		return likeMatchRunes(pattern[1:], name[1:])
	default:
		if len(name) == 0 || name[0] != pattern[0] {
			return false
		}
		return likeMatchRunes(pattern[1:], name[1:])
	}
}

// TypeInfoColumns is SQLGetTypeInfo's fixed 19-column result shape.
var TypeInfoColumns = []string{
	"TYPE_NAME", "DATA_TYPE", "COLUMN_SIZE", "LITERAL_PREFIX", "LITERAL_SUFFIX",
	"CREATE_PARAMS", "NULLABLE", "CASE_SENSITIVE", "SEARCHABLE", "UNSIGNED_ATTRIBUTE",
	"FIXED_PREC_SCALE", "AUTO_UNIQUE_VALUE", "LOCAL_TYPE_NAME", "MINIMUM_SCALE",
	"MAXIMUM_SCALE", "SQL_DATA_TYPE", "SQL_DATETIME_SUB", "NUM_PREC_RADIX", "INTERVAL_PRECISION",
}

// TypeInfoRows implements this GetTypeInfo, filtered by sqlType
// (0 means SQL_ALL_TYPES), materialized directly from internal/typeinfo's
// registry rather than composed as SQL text: tinySQL's SELECT-from-VALUES
// support is not confirmed on its public surface, so this driver never
// risks a catalog function failing because of an engine SQL feature gap.
func TypeInfoRows(sqlType odbcapi.SQLType) []tinysql.Row {
	rows := typeinfo.FindDataTypes(sqlType)
	out := make([]tinysql.Row, 0, len(rows))
	for _, r := range rows {
		colSize := any(nil)
		if r.ColumnSize != nil {
			colSize = *r.ColumnSize
		}
		radix := any(nil)
		if r.NumPrecRadix != nil {
			radix = *r.NumPrecRadix
		}
		out = append(out, tinysql.Row{
			"TYPE_NAME": r.LocalTypeName, "DATA_TYPE": int64(r.SQLType), "COLUMN_SIZE": colSize,
			"LITERAL_PREFIX": r.LiteralPrefix, "LITERAL_SUFFIX": r.LiteralSuffix,
			"CREATE_PARAMS": nil, "NULLABLE": int64(1), "CASE_SENSITIVE": boolInt(r.CaseSensitive),
			"SEARCHABLE": int64(r.Searchable), "UNSIGNED_ATTRIBUTE": boolInt(r.Unsigned),
			"FIXED_PREC_SCALE": boolInt(r.FixedPrecScale), "AUTO_UNIQUE_VALUE": int64(0),
			"LOCAL_TYPE_NAME": r.LocalTypeName, "MINIMUM_SCALE": nil, "MAXIMUM_SCALE": nil,
			"SQL_DATA_TYPE": int64(r.SQLType), "SQL_DATETIME_SUB": nil, "NUM_PREC_RADIX": radix,
			"INTERVAL_PRECISION": nil,
		})
	}
	return out
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
