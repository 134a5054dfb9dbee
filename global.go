package x12claims

const (
	isaSegmentId = "ISA"
	ieaSegmentId = "IEA"
	gsSegmentId  = "GS"
	geSegmentId  = "GE"
	stSegmentId  = "ST"
	seSegmentId  = "SE"
	bhtSegmentId = "BHT"
	hlSegmentId  = "HL"
	nm1SegmentId = "NM1"
	n3SegmentId  = "N3"
	n4SegmentId  = "N4"
	perSegmentId = "PER"
	refSegmentId = "REF"
	sbrSegmentId = "SBR"
	dmgSegmentId = "DMG"
	clmSegmentId = "CLM"
	dtpSegmentId = "DTP"
	cl1SegmentId = "CL1"
	hiSegmentId  = "HI"
	lxSegmentId  = "LX"
	sv1SegmentId = "SV1"
)

// The ISA header is fixed-width: the element separator and the
// sub-element (component) separator sit at fixed offsets, and the
// segment terminator is the first non-separator, non-whitespace
// character in a short window just past the header.
const (
	isaByteCount                = 106
	isaElementSeparatorIndex    = 3
	isaSubElementSeparatorIndex = 104
	terminatorScanStart         = 105
	terminatorScanEnd           = 108
)

const (
	claimTransactionCode          = "837"
	acknowledgmentTransactionCode = "999"
	claimFunctionalGroupCode      = "HC"
	implGuidePrefixLength         = 12
)

const (
	isaIndexSenderIdQualifier   = 5
	isaIndexSenderId            = 6
	isaIndexReceiverIdQualifier = 7
	isaIndexReceiverId          = 8
	isaIndexDate                = 9
	isaIndexTime                = 10
	isaIndexVersion             = 12
	isaIndexControlNumber       = 13
	isaIndexUsageIndicator      = 15
)

const (
	ieaIndexFunctionalGroupCount = iota + 1
	ieaIndexControlNumber
)

const (
	gsIndexFunctionalIdentifierCode = iota + 1
	gsIndexSenderCode
	gsIndexReceiverCode
	gsIndexDate
	gsIndexTime
	gsIndexControlNumber
	gsIndexResponsibleAgencyCode
	gsIndexVersion
)

const (
	geIndexNumberOfIncludedTransactionSets = iota + 1
	geIndexControlNumber
)

const (
	stIndexTransactionSetCode = iota + 1
	stIndexControlNumber
	stIndexImplementationGuide
)

const (
	seIndexNumberOfIncludedSegments = iota + 1
	seIndexControlNumber
)

const (
	bhtIndexStructureCode = iota + 1
	bhtIndexPurposeCode
	bhtIndexReferenceId
	bhtIndexDate
	bhtIndexTime
	bhtIndexTransactionTypeCode
)

const (
	hlIndexHierarchicalId = iota + 1
	hlIndexParentId
	hlIndexLevelCode
	hlIndexChildCode
)

const (
	nm1IndexEntityIdCode        = 1
	nm1IndexEntityTypeQualifier = 2
	nm1IndexNameLastOrOrg       = 3
	nm1IndexNameFirst           = 4
	nm1IndexNameMiddle          = 5
	nm1IndexIdQualifier         = 8
	nm1IndexIdCode              = 9
)

const (
	clmIndexClaimId           = 1
	clmIndexChargeAmount      = 2
	clmIndexFacilityInfo      = 5
	clmIndexProviderSignature = 6
	clmIndexAssignment        = 7
	clmIndexRelease           = 8
	clmIndexPatientSignature  = 9
)

const (
	dtpIndexQualifier = iota + 1
	dtpIndexFormat
	dtpIndexDate
)

const (
	sv1IndexProcedure      = 1
	sv1IndexChargeAmount   = 2
	sv1IndexUnit           = 3
	sv1IndexQuantity       = 4
	sv1IndexPlaceOfService = 6
)

const (
	sbrIndexPayerResponsibility  = 1
	sbrIndexRelationshipCode     = 2
	sbrIndexClaimFilingIndicator = 9
)

const (
	perIndexName      = 2
	perIndexPhone     = 4
	perIndexExtension = 6
)

const (
	cl1IndexAdmissionType = iota + 1
	cl1IndexAdmissionSource
	cl1IndexPatientStatus
)

const (
	n3IndexStreet = 1

	n4IndexCity  = 1
	n4IndexState = 2
	n4IndexZip   = 3

	refIndexQualifier = 1
	refIndexValue     = 2

	dmgIndexBirthDate = 2
	dmgIndexGender    = 3

	lxIndexLineNumber = 1
)

// Entity identifier codes (NM101) relevant to the 837 claim family
const (
	entityIdBillingProvider = "85"
	entityIdSubmitter       = "41"
	entityIdReceiver        = "40"
	entityIdInsured         = "IL"
	entityIdPayer           = "PR"
	entityIdPatient         = "QC"
)

// Hierarchical level codes (HL03)
const (
	hlLevelBillingProvider = "20"
	hlLevelSubscriber      = "22"
)

// DTP date/time qualifiers (DTP01)
const (
	dtpQualifierAdmission      = "431"
	dtpQualifierStatementDates = "434"
	dtpQualifierServiceDate    = "472"
)

// REF qualifier identifying the billing provider's tax identification
// number
const refQualifierEmployerId = "EI"

const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2100
)

// Bounded-lookahead defaults for the loop walker. These bound how far a
// forward scan runs when a loop is never terminated by a stop marker.
// All of them can be overridden through Options.
const (
	defaultRelatedSegmentWindow = 5
	defaultProviderLoopBound    = 20
	defaultSubscriberLoopBound  = 30
	defaultClaimLoopBound       = 50
	defaultServiceLineWindow    = 5
)

// validSegments837P holds the segment identifiers recognized for the
// 837P transaction family. Unknown identifiers are tolerated but
// flagged with a warning.
var validSegments837P = map[string]struct{}{
	isaSegmentId: {}, gsSegmentId: {}, stSegmentId: {}, bhtSegmentId: {},
	refSegmentId: {}, nm1SegmentId: {}, n3SegmentId: {}, n4SegmentId: {},
	perSegmentId: {}, hlSegmentId: {}, "PRV": {}, sbrSegmentId: {},
	"PAT": {}, clmSegmentId: {}, dtpSegmentId: {}, cl1SegmentId: {},
	hiSegmentId: {}, lxSegmentId: {}, sv1SegmentId: {}, seSegmentId: {},
	geSegmentId: {}, ieaSegmentId: {},
}

var entityTypeCodes = map[string]string{
	"1": "Person",
	"2": "Non-Person Entity",
}

var entityIdentifierCodes = map[string]string{
	"1P": "Provider",
	"2B": "Third-Party Administrator",
	"36": "Employer",
	"40": "Receiver",
	"41": "Submitter",
	"85": "Billing Provider",
	"87": "Pay-to Provider",
	"IL": "Insured",
	"PR": "Payer",
	"QC": "Patient",
}

// dateFormatQualifiers are the DTP02 values the validator recognizes:
// D8 (CCYYMMDD) and RD8 (a CCYYMMDD-CCYYMMDD range).
var dateFormatQualifiers = []string{"D8", "RD8"}

// diagnosisQualifiers are the HI composite qualifiers the validator
// recognizes (ICD-10 and ICD-9 principal diagnosis).
var diagnosisQualifiers = []string{"ABK", "BK"}

// transactionSetDescriptions maps ST01 transaction set codes to their
// X12N names.
var transactionSetDescriptions = map[string]string{
	"837": "Health Care Claim",
	"835": "Health Care Claim Payment/Advice",
	"270": "Eligibility, Coverage or Benefit Inquiry",
	"271": "Eligibility, Coverage or Benefit Information",
	"276": "Health Care Claim Status Request",
	"277": "Health Care Claim Status Response",
	"278": "Health Care Services Review Information",
	"999": "Implementation Acknowledgment",
}

// functionalGroupDescriptions maps GS01 functional identifier codes to
// their names.
var functionalGroupDescriptions = map[string]string{
	"HC": "Health Care Claim",
	"HP": "Health Care Claim Payment",
	"HS": "Health Care Services Review",
	"HB": "Health Care Eligibility/Benefit Response",
	"HR": "Health Care Claim Status Request",
	"HN": "Health Care Claim Status Response",
	"FA": "Functional Acknowledgment",
}

// implementationGuides837 maps 12-character ST03 implementation guide
// prefixes to the 837 variant they identify. Dental guides are listed
// so they're recognized, but classification only resolves the
// professional and institutional variants; a dental guide falls back to
// the functional-group check.
var implementationGuides837 = map[string]string{
	"005010X222":   "837P - Professional",
	"005010X222A1": "837P - Professional",
	"005010X223":   "837I - Institutional",
	"005010X223A1": "837I - Institutional",
	"005010X223A2": "837I - Institutional",
	"005010X224":   "837D - Dental",
	"005010X224A1": "837D - Dental",
	"005010X224A2": "837D - Dental",
}
