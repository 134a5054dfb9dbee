package x12claims

import (
	"fmt"
	"strings"
)

// TransactionType identifies an X12 healthcare transaction variant.
type TransactionType string

const (
	Transaction837P    TransactionType = "837P"
	Transaction837I    TransactionType = "837I"
	Transaction835     TransactionType = "835"
	Transaction270     TransactionType = "270"
	Transaction271     TransactionType = "271"
	Transaction276     TransactionType = "276"
	Transaction277     TransactionType = "277"
	Transaction278     TransactionType = "278"
	Transaction999     TransactionType = "999"
	TransactionUnknown TransactionType = "UNKNOWN"
)

// Confidence grades how certain a classification is. HIGH means the
// type was pinned by direct evidence (the transaction code, or the code
// plus a recognized implementation guide); MEDIUM means a plausible
// default was chosen from weaker evidence; LOW means the type could not
// be determined.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// TransactionInfo is the classification result for one X12 file. The
// validity flag here is independent of the validator's: it reflects
// only whether the envelope evidence is self-consistent, not whether
// the file passes validation.
type TransactionInfo struct {
	TransactionType     TransactionType `json:"transaction_type"`
	TransactionCode     string          `json:"transaction_code"`
	ImplementationGuide string          `json:"implementation_guide,omitempty"`
	FunctionalGroupCode string          `json:"functional_group_code"`
	Description         string          `json:"description"`
	IsValid             bool            `json:"is_valid"`
	Confidence          Confidence      `json:"confidence"`
	Details             []string        `json:"details"`
}

// expectedFunctionalGroups maps each resolved transaction type to the
// functional identifier code its GS segment should carry.
var expectedFunctionalGroups = map[TransactionType]string{
	Transaction837P: "HC",
	Transaction837I: "HC",
	Transaction835:  "HP",
	Transaction270:  "HS",
	Transaction271:  "HB",
	Transaction276:  "HR",
	Transaction277:  "HN",
	Transaction278:  "HS",
	Transaction999:  "FA",
}

var transactionDescriptions = map[TransactionType]string{
	Transaction837P: "837P - Professional Health Care Claim",
	Transaction837I: "837I - Institutional Health Care Claim",
	Transaction835:  "835 - Health Care Claim Payment/Remittance Advice",
	Transaction270:  "270 - Health Care Eligibility/Benefit Inquiry",
	Transaction271:  "271 - Health Care Eligibility/Benefit Response",
	Transaction276:  "276 - Health Care Claim Status Request",
	Transaction277:  "277 - Health Care Claim Status Response",
	Transaction278:  "278 - Health Care Services Review (Authorization)",
	Transaction999:  "999 - Implementation Acknowledgment for Health Care",
}

// codesResolvedDirectly maps the ST01 codes that identify a transaction
// type on their own, without consulting the implementation guide.
var codesResolvedDirectly = map[string]TransactionType{
	acknowledgmentTransactionCode: Transaction999,
	"835":                         Transaction835,
	"270":                         Transaction270,
	"271":                         Transaction271,
	"276":                         Transaction276,
	"277":                         Transaction277,
	"278":                         Transaction278,
}

// Classify inspects a file's envelope and identifies its transaction
// type. It never returns an error: unreadable or unrecognizable input
// yields an UNKNOWN result at LOW confidence with the reason recorded
// in Details.
func Classify(data []byte) *TransactionInfo {
	raw, err := Read(data)
	if err != nil {
		return &TransactionInfo{
			TransactionType: TransactionUnknown,
			Description:     "Invalid X12 format: cannot parse ISA segment",
			IsValid:         false,
			Confidence:      ConfidenceLow,
			Details:         []string{fmt.Sprintf("unable to parse delimiters: %s", err)},
		}
	}
	return ClassifyMessage(raw)
}

// ClassifyMessage classifies an already-tokenized message.
func ClassifyMessage(raw *RawMessage) *TransactionInfo {
	segments := raw.Segments()
	details := []string{
		fmt.Sprintf(
			"delimiters detected: element=%q segment=%q sub-element=%q",
			raw.Delimiters.Element, raw.Delimiters.Segment,
			raw.Delimiters.SubElement,
		),
		fmt.Sprintf("total segments: %d", len(segments)),
	}

	st, ok := firstSegment(segments, stSegmentId)
	if !ok {
		return &TransactionInfo{
			TransactionType: TransactionUnknown,
			Description:     "Invalid X12: missing ST segment",
			IsValid:         false,
			Confidence:      ConfidenceLow,
			Details:         append(details, "ST segment not found"),
		}
	}

	transactionCode := st.Get(stIndexTransactionSetCode)
	implGuide := st.Get(stIndexImplementationGuide)
	details = append(
		details,
		fmt.Sprintf("transaction code (ST01): %s", transactionCode),
		fmt.Sprintf("implementation guide (ST03): %s", implGuide),
	)

	var functionalGroup string
	if gs, ok := firstSegment(segments, gsSegmentId); ok {
		functionalGroup = gs.Get(gsIndexFunctionalIdentifierCode)
		details = append(
			details,
			fmt.Sprintf("functional group (GS01): %s", functionalGroup),
		)
	}

	transactionType, confidence, details := resolveTransactionType(
		transactionCode, implGuide, functionalGroup, details,
	)

	info := &TransactionInfo{
		TransactionType:     transactionType,
		TransactionCode:     transactionCode,
		ImplementationGuide: implGuide,
		FunctionalGroupCode: functionalGroup,
		Description:         describeTransaction(transactionType, transactionCode),
		IsValid:             true,
		Confidence:          confidence,
		Details:             details,
	}

	// Consistency check: a functional group that contradicts the
	// resolved type demotes validity but leaves the confidence grade
	// untouched; the type itself was still identified.
	if expected, ok := expectedFunctionalGroups[transactionType]; ok {
		if functionalGroup != "" && functionalGroup != expected {
			info.IsValid = false
			info.Details = append(
				info.Details, fmt.Sprintf(
					"WARNING: functional group %q does not match expected %q for %s",
					functionalGroup, expected, transactionType,
				),
			)
		}
	}
	return info
}

// resolveTransactionType decides the transaction type and confidence.
// Most ST01 codes identify the type directly; 837 needs the ST03
// implementation guide to split professional from institutional, with
// the functional group as a weaker fallback.
func resolveTransactionType(
	transactionCode, implGuide, functionalGroup string,
	details []string,
) (TransactionType, Confidence, []string) {
	if transactionType, ok := codesResolvedDirectly[transactionCode]; ok {
		details = append(
			details, fmt.Sprintf(
				"identified as %s",
				transactionDescriptions[transactionType],
			),
		)
		return transactionType, ConfidenceHigh, details
	}

	if transactionCode != claimTransactionCode {
		details = append(
			details,
			fmt.Sprintf("unknown transaction code: %s", transactionCode),
		)
		return TransactionUnknown, ConfidenceLow, details
	}

	if implGuide != "" {
		prefix := implGuide
		if len(prefix) > implGuidePrefixLength {
			prefix = prefix[:implGuidePrefixLength]
		}
		if guide, ok := implementationGuides837[prefix]; ok {
			switch {
			case strings.Contains(guide, "Professional"):
				details = append(
					details, fmt.Sprintf(
						"837P identified via implementation guide: %s",
						implGuide,
					),
				)
				return Transaction837P, ConfidenceHigh, details
			case strings.Contains(guide, "Institutional"):
				details = append(
					details, fmt.Sprintf(
						"837I identified via implementation guide: %s",
						implGuide,
					),
				)
				return Transaction837I, ConfidenceHigh, details
			}
		}
	}

	if functionalGroup == claimFunctionalGroupCode {
		details = append(
			details, "837 type unclear, defaulting to 837P (most common)",
		)
		return Transaction837P, ConfidenceMedium, details
	}

	details = append(details, "837 variant cannot be determined with confidence")
	return TransactionUnknown, ConfidenceLow, details
}

func describeTransaction(
	transactionType TransactionType,
	transactionCode string,
) string {
	if description, ok := transactionDescriptions[transactionType]; ok {
		return description
	}
	base, ok := transactionSetDescriptions[transactionCode]
	if !ok {
		base = "Unknown Transaction"
	}
	return fmt.Sprintf("%s - %s", transactionCode, base)
}
