package catalog

import "github.com/SimonWaldherr/tinySQL"

// TablesColumns is SQLTables' result column order.
var TablesColumns = []string{"TABLE_CAT", "TABLE_SCHEM", "TABLE_NAME", "TABLE_TYPE", "REMARKS"}

// TableRows converts ListTables' result into the row shape SQLTables
// streams back through internal/fetch.
func TableRows(tables []TableRow) []tinysql.Row {
	out := make([]tinysql.Row, 0, len(tables))
	for _, t := range tables {
		out = append(out, tinysql.Row{
			"TABLE_CAT": catalogOrNil(t.Catalog), "TABLE_SCHEM": t.Schema,
			"TABLE_NAME": t.Name, "TABLE_TYPE": t.Type, "REMARKS": t.Remarks,
		})
	}
	return out
}

// ColumnsColumns is SQLColumns' result column order (the subset this driver
// populates; every column ODBC 3.x names is present, unpopulated ones are
// NULL).
var ColumnsColumns = []string{
	"TABLE_CAT", "TABLE_SCHEM", "TABLE_NAME", "COLUMN_NAME", "DATA_TYPE",
	"TYPE_NAME", "COLUMN_SIZE", "BUFFER_LENGTH", "DECIMAL_DIGITS", "NUM_PREC_RADIX",
	"NULLABLE", "REMARKS", "COLUMN_DEF", "SQL_DATA_TYPE", "SQL_DATETIME_SUB",
	"CHAR_OCTET_LENGTH", "ORDINAL_POSITION", "IS_NULLABLE",
}

// ColumnRows converts ListColumns' result into SQLColumns' row shape.
func ColumnRows(cols []ColumnRow) []tinysql.Row {
	out := make([]tinysql.Row, 0, len(cols))
	for _, c := range cols {
		out = append(out, tinysql.Row{
			"TABLE_CAT": catalogOrNil(c.Catalog), "TABLE_SCHEM": c.Schema, "TABLE_NAME": c.Table,
			"COLUMN_NAME": c.Column, "DATA_TYPE": int64(c.SQLType), "TYPE_NAME": c.TypeName,
			"COLUMN_SIZE": c.ColumnSize, "BUFFER_LENGTH": c.ColumnSize, "DECIMAL_DIGITS": nil,
			"NUM_PREC_RADIX": nil, "NULLABLE": int64(c.Nullable), "REMARKS": "", "COLUMN_DEF": nil,
			"SQL_DATA_TYPE": int64(c.SQLType), "SQL_DATETIME_SUB": nil, "CHAR_OCTET_LENGTH": c.ColumnSize,
			"ORDINAL_POSITION": int64(c.Ordinal), "IS_NULLABLE": nullableYesNo(c.Nullable),
		})
	}
	return out
}

func nullableYesNo(n int16) string {
	if n == 1 {
		return "YES"
	}
	return "NO"
}

func catalogOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
