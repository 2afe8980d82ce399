// Package typeinfo implements the type registry: a compile-time table,
// keyed by tinySQL's storage.ColType, of every SQL_DESC_* default a column
// or parameter of that type carries, plus the SQL-type/C-type lookups
// SQLGetTypeInfo answers directly and the TypeResolver consistency check
// internal/descriptor calls on SQLSetDescField(TYPE)/
// SQLSetDescField(DATETIME_INTERVAL_CODE).
package typeinfo

import (
	_ "embed"
	"fmt"

	"github.com/SimonWaldherr/tinySQL"
	"gopkg.in/yaml.v3"

	"github.com/tinysql-odbc/driver/internal/odbcapi"
)

//go:embed types.yaml
var registryYAML []byte

// Row is one type-registry entry.
type Row struct {
	ColType        tinysql.ColType
	SQLType        odbcapi.SQLType
	ColumnSize     *int64 // nil means "not statically known" (DECIMAL, VARCHAR, ...)
	DecimalDigits  *int16
	LiteralPrefix  string
	LiteralSuffix  string
	LocalTypeName  string
	Searchable     int16
	Unsigned       bool
	CaseSensitive  bool
	FixedPrecScale bool
	NumPrecRadix   *int32
	// IntervalCode is the concrete SQL_INTERVAL_* DATETIME_INTERVAL_CODE this
	// row resolves to when SQLType is the synthetic odbcapi.TIntervalBase
	// marker. Nothing in this package sets it, so it is zero for every row,
	// the DurationType/IntervalType rows included.
	IntervalCode int16
}

type yamlRow struct {
	ColType        string `yaml:"col_type"`
	SQLType        int16  `yaml:"sql_type"`
	ColumnSize     *int64 `yaml:"column_size"`
	DecimalDigits  *int16 `yaml:"decimal_digits"`
	LiteralPrefix  string `yaml:"literal_prefix"`
	LiteralSuffix  string `yaml:"literal_suffix"`
	LocalTypeName  string `yaml:"local_type_name"`
	Searchable     int16  `yaml:"searchable"`
	Unsigned       bool   `yaml:"unsigned"`
	CaseSensitive  bool   `yaml:"case_sensitive"`
	FixedPrecScale bool   `yaml:"fixed_prec_scale"`
	NumPrecRadix   *int32 `yaml:"num_prec_radix"`
}

type registryFile struct {
	Types []yamlRow `yaml:"types"`
}

var (
	byColType  = map[tinysql.ColType]Row{}
	bySQLType  = map[odbcapi.SQLType][]Row{}
	colTypeIDs = map[string]tinysql.ColType{
		"IntType":      tinysql.IntType,
		"Int8Type":     tinysql.Int8Type,
		"Int16Type":    tinysql.Int16Type,
		"Int32Type":    tinysql.Int32Type,
		"Int64Type":    tinysql.Int64Type,
		"UintType":     tinysql.UintType,
		"Uint8Type":    tinysql.Uint8Type,
		"Uint16Type":   tinysql.Uint16Type,
		"Uint32Type":   tinysql.Uint32Type,
		"Uint64Type":   tinysql.Uint64Type,
		"Float32Type":  tinysql.Float32Type,
		"Float64Type":  tinysql.Float64Type,
		"BoolType":     tinysql.BoolType,
		"StringType":   tinysql.StringType,
		"ByteType":     tinysql.ByteType,
		"DateType":     tinysql.DateType,
		"DateTimeType": tinysql.DateTimeType,
		"TimestampType": tinysql.TimestampType,
		"DurationType": tinysql.DurationType,
		"JsonType":     tinysql.JsonType,
		"JsonbType":    tinysql.JsonbType,
		"DecimalType":  tinysql.DecimalType,
		"MoneyType":    tinysql.MoneyType,
		"UUIDType":     tinysql.UUIDType,
		"BlobType":     tinysql.BlobType,
		"XMLType":      tinysql.XMLType,
		"IntervalType": tinysql.IntervalType,
		"GeometryType": tinysql.GeometryType,
		"VectorType":   tinysql.VectorType,
	}
)

func init() {
	var f registryFile
	if err := yaml.Unmarshal(registryYAML, &f); err != nil {
		panic(fmt.Sprintf("typeinfo: malformed types.yaml: %v", err))
	}
	for _, yr := range f.Types {
		ct, ok := colTypeIDs[yr.ColType]
		if !ok {
			panic(fmt.Sprintf("typeinfo: types.yaml references unknown col_type %q", yr.ColType))
		}
		row := Row{
			ColType:        ct,
			SQLType:        odbcapi.SQLType(yr.SQLType),
			ColumnSize:     yr.ColumnSize,
			DecimalDigits:  yr.DecimalDigits,
			LiteralPrefix:  yr.LiteralPrefix,
			LiteralSuffix:  yr.LiteralSuffix,
			LocalTypeName:  yr.LocalTypeName,
			Searchable:     yr.Searchable,
			Unsigned:       yr.Unsigned,
			CaseSensitive:  yr.CaseSensitive,
			FixedPrecScale: yr.FixedPrecScale,
			NumPrecRadix:   yr.NumPrecRadix,
		}
		byColType[ct] = row
		bySQLType[row.SQLType] = append(bySQLType[row.SQLType], row)
	}
}

// Lookup returns the registry row for a tinySQL column type.
// Unknown/unsupported types default to VARCHAR
func Lookup(ct tinysql.ColType) Row {
	if row, ok := byColType[ct]; ok {
		return row
	}
	return Row{ColType: ct, SQLType: odbcapi.TVarchar, LocalTypeName: "VARCHAR", Searchable: 3}
}

// FindRelatedSQLType implements find_related_sql_type(engine_type_id) from
//.
func FindRelatedSQLType(ct tinysql.ColType) odbcapi.SQLType {
	return Lookup(ct).SQLType
}

// FindDataTypes implements find_data_types(sql_type) from: all
// registry rows whose canonical SQL type matches, used to materialize
// GetTypeInfo's result set. sqlType == 0 (SQL_ALL_TYPES) returns every row.
func FindDataTypes(sqlType odbcapi.SQLType) []Row {
	if sqlType == 0 {
		all := make([]Row, 0, len(byColType))
		for _, row := range byColType {
			all = append(all, row)
		}
		return all
	}
	return bySQLType[sqlType]
}

// Resolver implements descriptor.TypeResolver: a (concise type, datetime/
// interval subcode) pair is consistent iff the type is the interval base
// with a subcode from 101 to 113, or some registry row maps to that SQL
// type, or the type is one of the character, wide-character, binary,
// DECIMAL/NUMERIC or GUID types listed below, which are accepted whether or
// not a registry row maps to them.
type Resolver struct{}

func (Resolver) Resolve(conciseType odbcapi.SQLType, subcode int16) bool {
	if conciseType == odbcapi.TIntervalBase {
		return subcode >= 101 && subcode <= 113
	}
	if len(bySQLType[conciseType]) > 0 {
		return true
	}
	switch conciseType {
	case odbcapi.TChar, odbcapi.TVarchar, odbcapi.TLongVarchar,
		odbcapi.TWChar, odbcapi.TWVarchar, odbcapi.TWLongVarchar,
		odbcapi.TBinary, odbcapi.TVarbinary, odbcapi.TLongVarbinary,
		odbcapi.TNumeric, odbcapi.TDecimal, odbcapi.TGUID:
		return true
	default:
		return false
	}
}
