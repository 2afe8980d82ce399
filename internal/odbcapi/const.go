// Package odbcapi defines the Go-native mirror of the ODBC 3.x constants and
// enumerations used throughout the driver. Every other internal package
// works in terms of these values; only the cgo boundary in package odbc
// converts them to and from the platform's sql.h/sqlext.h types. Most numeric
// values are identical to the real ODBC header constants, so most of the cgo
// boundary is a plain cast. FieldID is the exception: it uses its own
// driver-internal numbering, and package odbc translates the C SQL_DESC_*
// ids into it with fieldIDFromC.
package odbcapi

// ReturnCode mirrors SQLRETURN.
type ReturnCode int16

const (
	Success          ReturnCode = 0
	SuccessWithInfo  ReturnCode = 1
	NoData           ReturnCode = 100
	Error            ReturnCode = -1
	InvalidHandle    ReturnCode = -2
	NeedData         ReturnCode = 99
	StillExecuting   ReturnCode = 2
)

// HandleKind mirrors the four SQL_HANDLE_* values.
type HandleKind int16

const (
	HandleEnv  HandleKind = 1
	HandleDbc  HandleKind = 2
	HandleStmt HandleKind = 3
	HandleDesc HandleKind = 4
)

func (k HandleKind) String() string {
	switch k {
	case HandleEnv:
		return "ENV"
	case HandleDbc:
		return "DBC"
	case HandleStmt:
		return "STMT"
	case HandleDesc:
		return "DESC"
	default:
		return "UNKNOWN"
	}
}

// DescRole identifies which of the four descriptor roles a descriptor is
// currently bound as. A single explicit descriptor can play different roles
// over its lifetime (it's just a slot reference), so this is carried on the
// *binding*, not baked into the descriptor itself, except for implicit
// descriptors which are born into one role forever.
type DescRole int8

const (
	RoleAPD DescRole = iota // Application Parameter Descriptor
	RoleIPD                 // Implementation Parameter Descriptor
	RoleARD                 // Application Row Descriptor
	RoleIRD                 // Implementation Row Descriptor
)

func (r DescRole) String() string {
	return [...]string{"APD", "IPD", "ARD", "IRD"}[r]
}

// AllocType mirrors SQL_DESC_ALLOC_TYPE values.
type AllocType int16

const (
	AllocAuto AllocType = 1 // SQL_DESC_ALLOC_AUTO (implicit)
	AllocUser AllocType = 2 // SQL_DESC_ALLOC_USER (explicit)
)

// FieldID enumerates the SQL_DESC_* field identifiers.
type FieldID int16

const (
	FieldCount FieldID = 1001 + iota
	FieldAllocType
	FieldArraySize
	FieldArrayStatusPtr
	FieldBindOffsetPtr
	FieldBindType
	FieldRowsProcessedPtr

	FieldAutoUniqueValue
	FieldBaseColumnName
	FieldBaseTableName
	FieldCaseSensitive
	FieldCatalogName
	FieldConciseType
	FieldDataPtr
	FieldDatetimeIntervalCode
	FieldDatetimeIntervalPrecision
	FieldDisplaySize
	FieldFixedPrecScale
	FieldIndicatorPtr
	FieldLabel
	FieldLength
	FieldLiteralPrefix
	FieldLiteralSuffix
	FieldLocalTypeName
	FieldName
	FieldNullable
	FieldNumPrecRadix
	FieldOctetLength
	FieldOctetLengthPtr
	FieldParameterType
	FieldPrecision
	FieldRowver
	FieldScale
	FieldSchemaName
	FieldSearchable
	FieldTableName
	FieldType
	FieldTypeName
	FieldUnnamed
	FieldUnsigned
	FieldUpdatable
)

// field category / validity routing,.
type fieldClass struct {
	header   bool
	readOnly [4]bool // indexed by DescRole; true = read-only under that role
	invalid  [4]bool // indexed by DescRole; true = field invalid under that role
}

var fieldRouting = map[FieldID]fieldClass{
	FieldAllocType:        {header: true, readOnly: [4]bool{true, true, true, true}},
	FieldArraySize:        {header: true, invalid: [4]bool{false, true, false, true}},
	FieldBindOffsetPtr:    {header: true, invalid: [4]bool{false, true, false, true}},
	FieldBindType:         {header: true, invalid: [4]bool{false, true, false, true}},
	FieldRowsProcessedPtr: {header: true, invalid: [4]bool{true, false, true, false}},
	FieldCount:            {header: true, readOnly: [4]bool{false, false, false, true}},

	FieldAutoUniqueValue: allRO(),
	FieldDisplaySize:     allRO(),
	FieldBaseColumnName:  allRO(),
	FieldBaseTableName:   allRO(),
	FieldCatalogName:     allRO(),
	FieldSchemaName:      allRO(),
	FieldLiteralPrefix:   allRO(),
	FieldLiteralSuffix:   allRO(),
	FieldSearchable:      allRO(),
	FieldCaseSensitive:   allRO(),
	FieldFixedPrecScale:  allRO(),
	FieldLabel:           allRO(),
	FieldNullable:        allRO(),
	FieldRowver:          allRO(),
	FieldTableName:       allRO(),
	FieldTypeName:        allRO(),
	FieldUpdatable:       allRO(),

	FieldConciseType:               {readOnly: [4]bool{false, false, false, true}},
	FieldType:                      {readOnly: [4]bool{false, false, false, true}},
	FieldDatetimeIntervalCode:      {readOnly: [4]bool{false, false, false, true}},
	FieldNumPrecRadix:              {readOnly: [4]bool{false, false, false, true}},
	FieldLength:                    {readOnly: [4]bool{false, false, false, true}},
	FieldOctetLength:               {readOnly: [4]bool{false, false, false, true}},
	FieldPrecision:                 {readOnly: [4]bool{false, false, false, true}},
	FieldScale:                     {readOnly: [4]bool{false, false, false, true}},
	FieldUnsigned:                  {readOnly: [4]bool{false, false, false, true}},
	FieldLocalTypeName:             {readOnly: [4]bool{false, false, false, true}},
	FieldDatetimeIntervalPrecision: {readOnly: [4]bool{false, false, false, true}},

	FieldName:    {invalid: [4]bool{true, false, true, true}},
	FieldUnnamed: {invalid: [4]bool{true, false, true, true}},

	FieldParameterType: {invalid: [4]bool{true, false, true, true}},

	FieldDataPtr:         {invalid: [4]bool{false, true, false, true}},
	FieldIndicatorPtr:    {invalid: [4]bool{false, true, false, true}},
	FieldOctetLengthPtr:  {invalid: [4]bool{false, true, false, true}},
}

func allRO() fieldClass { return fieldClass{readOnly: [4]bool{true, true, true, true}} }

// ReadOnlyUnder reports whether field is read-only to the client under role.
func ReadOnlyUnder(f FieldID, role DescRole) bool {
	fc, ok := fieldRouting[f]
	if !ok {
		return false
	}
	return fc.readOnly[role]
}

// InvalidUnder reports whether field cannot be used at all under role.
func InvalidUnder(f FieldID, role DescRole) bool {
	fc, ok := fieldRouting[f]
	if !ok {
		return false
	}
	return fc.invalid[role]
}

// IsHeaderField reports whether f is a descriptor-header field (vs record).
func IsHeaderField(f FieldID) bool {
	return fieldRouting[f].header
}

// CType enumerates the SQL_C_* application buffer type codes.
type CType int16

const (
	CChar          CType = 1
	CNumeric       CType = 2
	CDate          CType = 9
	CTime          CType = 10
	CTimestamp     CType = 11
	CBinary        CType = -2
	CBit           CType = -7
	CTinyint       CType = -6
	CStinyint      CType = -6
	CUtinyint      CType = -26
	CSshort        CType = -16 // SQL_C_SSHORT wire value isn't standardized here; internal only
	CShort         CType = 5
	CSlong         CType = -18
	CLong          CType = 4
	CFloat         CType = 7
	CDouble        CType = 8
	CWChar         CType = -8
	CSBigint       CType = -25
	CUBigint       CType = -27
	CGUID          CType = -11
	CInterval      CType = 101 // synthetic: any SQL_C_INTERVAL_* subtype
	CDefault       CType = 99
)

// SQLType enumerates the SQL_* data type codes.
type SQLType int16

const (
	TChar            SQLType = 1
	TNumeric         SQLType = 2
	TDecimal         SQLType = 3
	TInteger         SQLType = 4
	TSmallint        SQLType = 5
	TFloat           SQLType = 6
	TReal            SQLType = 7
	TDouble          SQLType = 8
	TDate            SQLType = 91
	TTime            SQLType = 92
	TTimestamp       SQLType = 93
	TVarchar         SQLType = 12
	TLongVarchar     SQLType = -1
	TBinary          SQLType = -2
	TVarbinary       SQLType = -3
	TLongVarbinary   SQLType = -4
	TBigint          SQLType = -5
	TTinyint         SQLType = -6
	TBit             SQLType = -7
	TWChar           SQLType = -8
	TWVarchar        SQLType = -9
	TWLongVarchar    SQLType = -10
	TGUID            SQLType = -11
	TIntervalBase    SQLType = 100 // driver-internal base; real subtypes are 101-113 per ODBC
)

// ParamDirection mirrors SQL_PARAM_* (IPD-only field).
type ParamDirection int16

const (
	ParamInput       ParamDirection = 1
	ParamInputOutput ParamDirection = 2
	ParamOutput      ParamDirection = 4
)

// RowStatus mirrors SQL_ROW_* outcome codes written to ARD.array_status_ptr.
type RowStatus int16

const (
	RowSuccess         RowStatus = 0
	RowSuccessWithInfo RowStatus = 1
	RowError           RowStatus = 2
	RowNoRow           RowStatus = 3
)

// FetchOrientation mirrors SQL_FETCH_* cursor directions.
type FetchOrientation int16

const (
	FetchNext     FetchOrientation = 1
	FetchFirst    FetchOrientation = 2
	FetchLast     FetchOrientation = 3
	FetchPrior    FetchOrientation = 4
	FetchAbsolute FetchOrientation = 5
	FetchRelative FetchOrientation = 6
)

// CursorType mirrors SQL_CURSOR_* statement attribute values.
type CursorType int32

const (
	CursorForwardOnly CursorType = 0
	CursorKeyset      CursorType = 1
	CursorDynamic     CursorType = 2
	CursorStatic      CursorType = 3
)

// SQLSTATE values used throughout the driver.
const (
	StateStringTruncated             = "01004"
	StateOptionValueChanged          = "01S02"
	StateUnrecognizedConnectOption   = "01S09"
	StateConnectionAlreadyEstablished = "01S00"
	StateInvalidDescriptorIndex      = "07009"
	StateRestrictedDataType          = "07006"
	StateConnectionNotOpen           = "IM003"
	StateInvalidCursorState          = "HY010"
	StateFunctionSequenceError       = "HY010"
	StateInvalidStringLength         = "HY090"
	StateInvalidAttributeValue       = "HY024"
	StateReadOnlyAttribute           = "HY092"
	StateInconsistentDescriptor      = "HY021"
	StateOptionalFeatureNotImpl      = "HYC00"
	StateDriverManagerOnly           = "HY000"
	StateGeneralError                = "HY000"
	StateInvalidCursorPosition       = "HY109"
)
