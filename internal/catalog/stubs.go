package catalog

// Zero-row result shapes for the catalog functions leaves
// unimplemented: tinySQL has no primary/foreign key metadata, no stored
// procedures, and no grant/privilege tables, so each of these always
// reports an empty result set with the correct column shape rather than an
// error — the behavior mandates so that catalog-browsing
// tools treat the absence of a feature as "no rows" instead of "broken
// driver".

// StatisticsColumns is SQLStatistics' result column order.
var StatisticsColumns = []string{
	"TABLE_CAT", "TABLE_SCHEM", "TABLE_NAME", "NON_UNIQUE", "INDEX_QUALIFIER",
	"INDEX_NAME", "TYPE", "ORDINAL_POSITION", "COLUMN_NAME", "ASC_OR_DESC",
	"CARDINALITY", "PAGES", "FILTER_CONDITION",
}

// SpecialColumnsColumns is SQLSpecialColumns' result column order.
var SpecialColumnsColumns = []string{
	"SCOPE", "COLUMN_NAME", "DATA_TYPE", "TYPE_NAME", "COLUMN_SIZE",
	"BUFFER_LENGTH", "DECIMAL_DIGITS", "PSEUDO_COLUMN",
}

// ProceduresColumns is SQLProcedures' result column order.
var ProceduresColumns = []string{
	"PROCEDURE_CAT", "PROCEDURE_SCHEM", "PROCEDURE_NAME",
	"NUM_INPUT_PARAMS", "NUM_OUTPUT_PARAMS", "NUM_RESULT_SETS",
	"REMARKS", "PROCEDURE_TYPE",
}

// ProcedureColumnsColumns is SQLProcedureColumns' result column order.
var ProcedureColumnsColumns = []string{
	"PROCEDURE_CAT", "PROCEDURE_SCHEM", "PROCEDURE_NAME", "COLUMN_NAME",
	"COLUMN_TYPE", "DATA_TYPE", "TYPE_NAME", "COLUMN_SIZE", "BUFFER_LENGTH",
	"DECIMAL_DIGITS", "NUM_PREC_RADIX", "NULLABLE", "REMARKS",
}

// PrimaryKeysColumns is SQLPrimaryKeys' result column order.
var PrimaryKeysColumns = []string{
	"TABLE_CAT", "TABLE_SCHEM", "TABLE_NAME", "COLUMN_NAME", "KEY_SEQ", "PK_NAME",
}

// ForeignKeysColumns is SQLForeignKeys' result column order. tinySQL's
// storage.Column carries a ForeignKey/PointerTable field per-column, but
// that information is never surfaced through the public facade in a form
// this driver can introspect (storage.Table doesn't expose it through any
// exported accessor beyond the Column struct itself, and rebuilding an FK
// constraint list from it would require reading every column of every
// table); left as a documented zero-row stub rather than a partial,
// possibly-wrong implementation.
var ForeignKeysColumns = []string{
	"PKTABLE_CAT", "PKTABLE_SCHEM", "PKTABLE_NAME", "PKCOLUMN_NAME",
	"FKTABLE_CAT", "FKTABLE_SCHEM", "FKTABLE_NAME", "FKCOLUMN_NAME",
	"KEY_SEQ", "UPDATE_RULE", "DELETE_RULE", "FK_NAME", "PK_NAME",
	"DEFERRABILITY",
}

// TablePrivilegesColumns is SQLTablePrivileges' result column order.
var TablePrivilegesColumns = []string{
	"TABLE_CAT", "TABLE_SCHEM", "TABLE_NAME", "GRANTOR", "GRANTEE",
	"PRIVILEGE", "IS_GRANTABLE",
}

// ColumnPrivilegesColumns is SQLColumnPrivileges' result column order.
var ColumnPrivilegesColumns = []string{
	"TABLE_CAT", "TABLE_SCHEM", "TABLE_NAME", "COLUMN_NAME", "GRANTOR",
	"GRANTEE", "PRIVILEGE", "IS_GRANTABLE",
}
