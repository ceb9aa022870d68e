package workflow

// Type identifies a transaction kind; it is immutable after creation and
// selects the routing rule for the transaction's whole lifetime.
type Type string

const (
	TypeLeaveRequest          Type = "LEAVE_REQUEST"
	TypeFinance60             Type = "FINANCE_60"
	TypeSettlement            Type = "SETTLEMENT"
	TypeContract              Type = "CONTRACT"
	TypeTangibleCustody       Type = "TANGIBLE_CUSTODY"
	TypeTangibleCustodyReturn Type = "TANGIBLE_CUSTODY_RETURN"
	TypeWarning               Type = "WARNING"
	TypeAsset                 Type = "ASSET"
	TypeAttendanceCorrection  Type = "ATTENDANCE_CORRECTION"
	TypeAddFinanceCode        Type = "ADD_FINANCE_CODE"
)

// refPrefixes maps each type to the prefix used for its human-facing ref_no serial.
var refPrefixes = map[Type]string{
	TypeLeaveRequest:          "LR",
	TypeFinance60:             "F60",
	TypeSettlement:            "SET",
	TypeContract:              "CON",
	TypeTangibleCustody:       "TC",
	TypeTangibleCustodyReturn: "TCR",
	TypeWarning:               "WRN",
	TypeAsset:                 "AST",
	TypeAttendanceCorrection:  "ATT",
	TypeAddFinanceCode:        "AFC",
}

// AllTypes lists every supported transaction type; the routing table must
// cover all of them.
func AllTypes() []Type {
	return []Type{
		TypeLeaveRequest,
		TypeFinance60,
		TypeSettlement,
		TypeContract,
		TypeTangibleCustody,
		TypeTangibleCustodyReturn,
		TypeWarning,
		TypeAsset,
		TypeAttendanceCorrection,
		TypeAddFinanceCode,
	}
}

// IsValid returns true if the type is a supported transaction type
func (t Type) IsValid() bool {
	_, ok := refPrefixes[t]
	return ok
}

// RefPrefix returns the ref_no prefix for the type
func (t Type) RefPrefix() string {
	return refPrefixes[t]
}

// String returns the string representation of the type
func (t Type) String() string {
	return string(t)
}
