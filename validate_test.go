package x12claims

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateCleanFile(t *testing.T) {
	result := NewValidator().Validate(claimMessage(t))

	assertEqual(t, result.IsValid, true)
	assertEqual(t, result.SegmentCount, 28)

	summary := result.Summary()
	assertEqual(t, summary[SeverityError], 0)
	assertEqual(t, summary[SeverityWarning], 1)

	// DMG isn't in the recognized segment set, so the only finding on
	// an otherwise clean file is a warning there.
	warnings := result.Warnings()
	assertEqual(t, len(warnings), 1)
	assertEqual(t, warnings[0].SegmentId, dmgSegmentId)
}

func TestValidateMalformedHeader(t *testing.T) {
	result := NewValidator().Validate([]byte("this is not an EDI file"))

	assertEqual(t, result.IsValid, false)
	assertEqual(t, result.SegmentCount, 0)
	assertEqual(t, len(result.Issues), 1)
	assertEqual(t, result.Issues[0].Level, SeverityError)
	assertEqual(t, result.Issues[0].SegmentId, isaSegmentId)
	assertEqual(t, result.Issues[0].SegmentNumber, 0)
}

func TestValidateMissingBillingProvider(t *testing.T) {
	data := dropSegmentLine(
		t, "NM1*85*2*GOOD HEALTH CLINIC*****XX*1234567893~",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "Billing Provider") {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateMissingSubscriber(t *testing.T) {
	data := dropSegmentLine(t, "NM1*IL*1*SMITH*JOHN*A***MI*MEMBER123~")
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "Subscriber/Insured") {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateControlNumberMismatch(t *testing.T) {
	data := modifyClaimMessage(t, "SE*24*0001~", "SE*24*9999~")
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	assertEqual(t, len(result.Errors()), 1)
	found := false
	for _, issue := range result.Errors() {
		if issue.SegmentId == seSegmentId &&
			issue.ElementPosition == seIndexControlNumber {
			found = true
			assertEqual(
				t, issue.Message,
				`SE control number "9999" does not match ST "0001"`,
			)
		}
	}
	assertEqual(t, found, true)
}

func TestValidateTrailerCountMismatch(t *testing.T) {
	data := modifyClaimMessage(t, "GE*1*1~", "GE*3*1~")
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	assertEqual(t, len(result.Errors()), 1)
	found := false
	for _, issue := range result.Errors() {
		if issue.SegmentId == geSegmentId &&
			strings.Contains(issue.Message, "GE reports 3 transaction sets") {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateWrongTransactionSet(t *testing.T) {
	data := modifyClaimMessage(
		t, "ST*837*0001*005010X222A1~", "ST*835*0001*005010X221A1~",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if issue.SegmentId == stSegmentId &&
			issue.ElementPosition == stIndexTransactionSetCode {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateMissingEnvelope(t *testing.T) {
	data := dropSegmentLine(t, "ST*837*0001*005010X222A1~")
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if issue.SegmentId == stSegmentId && issue.SegmentNumber == 0 {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateBadClaimAmount(t *testing.T) {
	data := modifyClaimMessage(
		t, "CLM*CLAIM001*100.00*", "CLM*CLAIM001*ABC*",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if issue.SegmentId == clmSegmentId &&
			issue.ElementPosition == clmIndexChargeAmount {
			found = true
			assertEqual(
				t, issue.Message, `claim amount "ABC" is not a valid number`,
			)
		}
	}
	assertEqual(t, found, true)
}

func TestValidateChargeTotalMismatch(t *testing.T) {
	data := modifyClaimMessage(
		t, "CLM*CLAIM001*100.00*", "CLM*CLAIM001*150.00*",
	)
	result := NewValidator().Validate(data)

	// A totals mismatch is advisory only.
	assertEqual(t, result.IsValid, true)
	found := false
	for _, issue := range result.Warnings() {
		if strings.Contains(issue.Message, "does not match service line total") {
			found = true
			assertEqual(
				t, issue.Message,
				"claim amount ($150.00) does not match service line total ($100.00)",
			)
		}
	}
	assertEqual(t, found, true)
}

func TestValidateChargeToleranceOption(t *testing.T) {
	data := modifyClaimMessage(
		t, "CLM*CLAIM001*100.00*", "CLM*CLAIM001*100.01*",
	)
	result := NewValidator().Validate(data)

	// A one-cent difference sits inside the default tolerance.
	for _, issue := range result.Warnings() {
		if strings.Contains(issue.Message, "service line total") {
			t.Errorf("unexpected totals warning: %v", issue)
		}
	}
}

func TestValidateImplausibleDate(t *testing.T) {
	data := modifyClaimMessage(
		t, "DTP*431*D8*20250110~", "DTP*431*D8*20251345~",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	var messages []string
	for _, issue := range result.Errors() {
		if issue.SegmentId == dtpSegmentId {
			messages = append(messages, issue.Message)
		}
	}
	assertSliceContains(t, messages, "date month 13 is invalid")
	assertSliceContains(t, messages, "date day 45 is invalid")
}

func TestValidateUnusualYear(t *testing.T) {
	data := modifyClaimMessage(
		t, "DTP*431*D8*20250110~", "DTP*431*D8*18990110~",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, true)
	found := false
	for _, issue := range result.Warnings() {
		if issue.Message == "date year 1899 seems unusual" {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateYearRangeOption(t *testing.T) {
	data := modifyClaimMessage(
		t, "DTP*431*D8*20250110~", "DTP*431*D8*18990110~",
	)
	result := NewValidator(WithPlausibleYearRange(1800, 2100)).Validate(data)

	for _, issue := range result.Warnings() {
		if strings.Contains(issue.Message, "seems unusual") {
			t.Errorf("unexpected year warning: %v", issue)
		}
	}
}

func TestValidateNonNumericDate(t *testing.T) {
	data := modifyClaimMessage(
		t, "DTP*431*D8*20250110~", "DTP*431*D8*2025011X~",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if issue.Message == `date "2025011X" not in CCYYMMDD format` {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateUnrecognizedSegment(t *testing.T) {
	data := modifyClaimMessage(t, "LX*1~", "ZZZ*1~\nLX*1~")
	result := NewValidator().Validate(data)

	found := false
	for _, issue := range result.Warnings() {
		if issue.SegmentId == "ZZZ" {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateUnrecognizedEntityCode(t *testing.T) {
	data := modifyClaimMessage(
		t, "NM1*40*2*UNIFIED INSURANCE CO", "NM1*ZZ*2*UNIFIED INSURANCE CO",
	)
	result := NewValidator().Validate(data)

	found := false
	for _, issue := range result.Warnings() {
		if issue.SegmentId == nm1SegmentId &&
			issue.ElementPosition == nm1IndexEntityIdCode {
			found = true
			if issue.Context == "" {
				t.Errorf("expected context on entity code warning")
			}
		}
	}
	assertEqual(t, found, true)
}

func TestValidateEmptyEntityName(t *testing.T) {
	data := modifyClaimMessage(
		t, "NM1*40*2*UNIFIED INSURANCE CO*****46*66783~", "NM1*40*2******46*66783~",
	)
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if issue.Message == "entity name is required but empty" {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateEmptyDiagnosisCode(t *testing.T) {
	data := modifyClaimMessage(t, "HI*ABK:J20.9~", "HI*ABK:~")
	result := NewValidator().Validate(data)

	assertEqual(t, result.IsValid, false)
	found := false
	for _, issue := range result.Errors() {
		if issue.SegmentId == hiSegmentId &&
			issue.Message == "diagnosis code is empty" {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateNegativeServiceLine(t *testing.T) {
	data := modifyClaimMessage(
		t, "SV1*HC:99213*100.00*UN*1**11~", "SV1*HC:99213*-100.00*UN*1**11~",
	)
	result := NewValidator().Validate(data)

	found := false
	for _, issue := range result.Warnings() {
		if issue.SegmentId == sv1SegmentId &&
			strings.Contains(issue.Message, "negative") {
			found = true
		}
	}
	assertEqual(t, found, true)
}

func TestValidateDeterminism(t *testing.T) {
	data := claimMessage(t)
	first := NewValidator().Validate(data)
	second := NewValidator().Validate(data)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different results")
	}
}

func TestValidationResultSummary(t *testing.T) {
	result := &ValidationResult{
		Issues: []Issue{
			errorIssue("CLM", 1, 2, "bad amount"),
			warningIssue("DMG", 2, 0, "unrecognized"),
			warningIssue("DTP", 3, 3, "odd year"),
		},
	}
	summary := result.Summary()
	assertEqual(t, summary[SeverityError], 1)
	assertEqual(t, summary[SeverityWarning], 2)
	assertEqual(t, summary[SeverityInfo], 0)
	assertEqual(t, len(result.Errors()), 1)
	assertEqual(t, len(result.Warnings()), 2)
}

func TestValidationResultErr(t *testing.T) {
	clean := NewValidator().Validate(claimMessage(t))
	assertNoError(t, clean.Err())

	data := modifyClaimMessage(t, "SE*24*0001~", "SE*24*9999~")
	invalid := NewValidator().Validate(data)
	err := invalid.Err()
	assertErrorNotNil(t, err)
	if !strings.Contains(err.Error(), "SE control number") {
		t.Errorf("joined error missing issue text: %v", err)
	}
}

func TestIssueString(t *testing.T) {
	issue := errorIssue("SE", 26, 2, `SE control number "9999" does not match ST "0001"`)
	s := issue.String()
	assertEqual(
		t, s,
		`[ERROR] segment 26 (SE), element 2: SE control number "9999" does not match ST "0001"`,
	)
}
