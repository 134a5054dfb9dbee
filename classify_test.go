package x12claims

import (
	"strings"
	"testing"
)

func TestClassifyProfessionalClaim(t *testing.T) {
	info := Classify(claimMessage(t))

	assertEqual(t, info.TransactionType, Transaction837P)
	assertEqual(t, info.TransactionCode, "837")
	assertEqual(t, info.ImplementationGuide, "005010X222A1")
	assertEqual(t, info.FunctionalGroupCode, "HC")
	assertEqual(t, info.Confidence, ConfidenceHigh)
	assertEqual(t, info.IsValid, true)
	assertEqual(t, info.Description, "837P - Professional Health Care Claim")
}

func TestClassifyInstitutionalGuide(t *testing.T) {
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*837*0001*005010X223A2~",
	)
	info := Classify(data)

	assertEqual(t, info.TransactionType, Transaction837I)
	assertEqual(t, info.Confidence, ConfidenceHigh)
	assertEqual(t, info.IsValid, true)
}

func TestClassifyFunctionalGroupFallback(t *testing.T) {
	// No implementation guide: the claim variant can't be pinned, so
	// the functional group's HC steers to 837P at reduced confidence.
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*837*0001~",
	)
	info := Classify(data)

	assertEqual(t, info.TransactionType, Transaction837P)
	assertEqual(t, info.Confidence, ConfidenceMedium)
	assertEqual(t, info.IsValid, true)
}

func TestClassifyDentalGuideFallsBack(t *testing.T) {
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*837*0001*005010X224A2~",
	)
	info := Classify(data)

	assertEqual(t, info.TransactionType, Transaction837P)
	assertEqual(t, info.Confidence, ConfidenceMedium)
}

func TestClassifyLongGuidePrefix(t *testing.T) {
	// Only the first 12 characters of the guide are significant.
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*837*0001*005010X222A1XTRA~",
	)
	info := Classify(data)

	assertEqual(t, info.TransactionType, Transaction837P)
	assertEqual(t, info.Confidence, ConfidenceHigh)
}

func TestClassifyUnknownCode(t *testing.T) {
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*820*0001~",
	)
	info := Classify(data)

	assertEqual(t, info.TransactionType, TransactionUnknown)
	assertEqual(t, info.Confidence, ConfidenceLow)
	assertEqual(t, info.Description, "820 - Unknown Transaction")
}

func TestClassifyAcknowledgment(t *testing.T) {
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*999*0001~",
	)
	info := Classify(data)

	// The type is identified with certainty from ST01, but the
	// functional group contradicts it: validity drops, confidence
	// doesn't.
	assertEqual(t, info.TransactionType, Transaction999)
	assertEqual(t, info.Confidence, ConfidenceHigh)
	assertEqual(t, info.IsValid, false)

	found := false
	for _, detail := range info.Details {
		if strings.Contains(detail, "does not match expected") {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestClassifyMissingTransactionSet(t *testing.T) {
	data := dropSegmentLine(t, "ST*837*0001*005010X222A1~")
	info := Classify(data)

	assertEqual(t, info.TransactionType, TransactionUnknown)
	assertEqual(t, info.Confidence, ConfidenceLow)
	assertEqual(t, info.IsValid, false)
	assertSliceContains(t, info.Details, "ST segment not found")
}

func TestClassifyUnreadableInput(t *testing.T) {
	info := Classify([]byte("not an EDI file"))

	assertEqual(t, info.TransactionType, TransactionUnknown)
	assertEqual(t, info.Confidence, ConfidenceLow)
	assertEqual(t, info.IsValid, false)
}

func TestClassifyRecordsEvidence(t *testing.T) {
	info := Classify(claimMessage(t))

	var sawDelimiters, sawCode bool
	for _, detail := range info.Details {
		if strings.HasPrefix(detail, "delimiters detected") {
			sawDelimiters = true
		}
		if strings.Contains(detail, "transaction code (ST01): 837") {
			sawCode = true
		}
	}
	assertEqual(t, sawDelimiters, true)
	assertEqual(t, sawCode, true)
}
