package magnitude

import "fmt"

// TLErrorKind partitions transmission-loss failures into the categories
// callers branch on, while Code preserves the exact legacy numeric code
// (TLreadWarn1..TLreadErr7) for callers migrating off it.
type TLErrorKind int

const (
	TLWarn TLErrorKind = iota
	TLReadErr
	TLFormatErr
	TLNoTables
	TLAllocation
)

var tlErrorText = map[int]string{
	0: "TL: Successful TL condition!",
	1: "TLreadWarn1: A requested TL file was not found!",
	2: "TLreadErr1: Cannot open TLSF!",
	3: "TLreadErr2: TLSF incorrectly formatted!",
	4: "TLreadErr3: No TL tables could be found!",
	5: "TLreadErr4: TL table incorrectly formatted!",
	6: "TLreadErr5: TL modelling error table incorrectly formatted!",
	7: "TLreadErr6: TL test-site corr. file incorrectly formatted!",
	8: "TLreadErr7: Error allocating memory while reading TL info!",
}

var tlKindByCode = map[int]TLErrorKind{
	1: TLWarn,
	2: TLReadErr,
	3: TLFormatErr,
	4: TLNoTables,
	5: TLFormatErr,
	6: TLFormatErr,
	7: TLFormatErr,
	8: TLAllocation,
}

// TLError is the closed sum type covering every failure mode the TL-table
// loader/store can report.
type TLError struct {
	Kind   TLErrorKind
	Code   int
	Detail string
}

func (e *TLError) Error() string {
	msg := TLErrorMessage(e.Code)
	if e.Detail == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, e.Detail)
}

// TLErrorMessage returns the legacy message text for a numeric TL error
// code, identical to TL_error_msg's table.
func TLErrorMessage(code int) string {
	if msg, ok := tlErrorText[code]; ok {
		return msg
	}
	return "TL: Input error code is out-of-range!"
}

func newTLError(code int, detail string) *TLError {
	kind, ok := tlKindByCode[code]
	if !ok {
		kind = TLReadErr
	}
	return &TLError{Kind: kind, Code: code, Detail: detail}
}

func NewTLFileNotFound(detail string) *TLError     { return newTLError(1, detail) }
func NewTLCannotOpenTLSF(detail string) *TLError   { return newTLError(2, detail) }
func NewTLSFFormat(detail string) *TLError         { return newTLError(3, detail) }
func NewTLNoTables(detail string) *TLError         { return newTLError(4, detail) }
func NewTLTableFormat(detail string) *TLError      { return newTLError(5, detail) }
func NewTLModelErrorFormat(detail string) *TLError { return newTLError(6, detail) }
func NewTLTestSiteFormat(detail string) *TLError   { return newTLError(7, detail) }
func NewTLAllocation(detail string) *TLError       { return newTLError(8, detail) }

// MagErrorKind partitions magnitude-descriptor and magnitude-computation
// failures into the categories callers branch on.
type MagErrorKind int

const (
	MagReadErr MagErrorKind = iota
	MagFormat
	MagNoMatch
	MagAllocation
	MagSiteMissing
)

var magErrorText = map[int]string{
	0: "Magnitude: Successful magnitude computed!",
	1: "MDreadErr1: Cannot open MDF!",
	2: "MDreadErr2: MDF incorrectly formatted!",
	3: "MDreadErr3: No matching TLtype found for info specified in TLSF!",
	4: "MDreadErr4: Error allocating memory while reading mag info!",
	5: "SSgetErr1: No input site table info available for Sta_Pt!",
	6: "SSgetErr2: Error allocating memory while trying to set Sta_Pt info!",
	7: "NetMagErrX: Cannot set Sta_Pt structure!  Site table likely missing!",
}

var magKindByCode = map[int]MagErrorKind{
	1: MagReadErr,
	2: MagFormat,
	3: MagNoMatch,
	4: MagAllocation,
	5: MagSiteMissing,
	6: MagAllocation,
	7: MagSiteMissing,
}

// MagError is the closed sum type covering every failure mode the MDF
// loader/store and magnitude engines can report. The unnumbered NetMagErrX
// case from the original is assigned code 7 for table continuity.
type MagError struct {
	Kind   MagErrorKind
	Code   int
	Detail string
}

func (e *MagError) Error() string {
	msg := MagErrorMessage(e.Code)
	if e.Detail == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, e.Detail)
}

// MagErrorMessage returns the legacy message text for a numeric magnitude
// error code, identical to mag_error_msg's table.
func MagErrorMessage(code int) string {
	if msg, ok := magErrorText[code]; ok {
		return msg
	}
	return "Magnitude: Input error code is out-of-range!"
}

func newMagError(code int, detail string) *MagError {
	kind, ok := magKindByCode[code]
	if !ok {
		kind = MagReadErr
	}
	return &MagError{Kind: kind, Code: code, Detail: detail}
}

func NewMagCannotOpenMDF(detail string) *MagError    { return newMagError(1, detail) }
func NewMagMDFFormat(detail string) *MagError        { return newMagError(2, detail) }
func NewMagNoMatchingTLtype(detail string) *MagError { return newMagError(3, detail) }
func NewMagAllocation(detail string) *MagError       { return newMagError(4, detail) }
func NewMagNoSiteInfo(detail string) *MagError       { return newMagError(5, detail) }
func NewMagSiteAllocation(detail string) *MagError   { return newMagError(6, detail) }
func NewMagSiteTableMissing(detail string) *MagError { return newMagError(7, detail) }
