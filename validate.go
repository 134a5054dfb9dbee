package x12claims

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Severity indicates how serious a validation issue is. Only ERROR
// issues affect the result's validity flag.
type Severity string

const (
	// SeverityError marks issues expected to prevent processing.
	SeverityError Severity = "ERROR"
	// SeverityWarning marks issues that may cause rejection by a payer
	// but don't invalidate the file.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo is reserved for informational findings.
	SeverityInfo Severity = "INFO"
)

// Issue is a single validation finding.
type Issue struct {
	Level         Severity `json:"level"`
	SegmentId     string   `json:"segment_id"`
	SegmentNumber int      `json:"segment_number"`
	// ElementPosition is the 1-based element position within the
	// segment, or 0 when the issue applies to the segment as a whole.
	ElementPosition int    `json:"element_position,omitempty"`
	Message         string `json:"message"`
	Context         string `json:"context,omitempty"`
}

// IsError reports whether the issue is ERROR-level.
func (i Issue) IsError() bool {
	return i.Level == SeverityError
}

func (i Issue) String() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(
		&b, "[%s] segment %d (%s)", i.Level, i.SegmentNumber, i.SegmentId,
	)
	if i.ElementPosition > 0 {
		_, _ = fmt.Fprintf(&b, ", element %d", i.ElementPosition)
	}
	_, _ = fmt.Fprintf(&b, ": %s", i.Message)
	return b.String()
}

// ValidationResult aggregates every issue found in one pass over a
// file. It's built once and never mutated afterward; IsValid is false
// iff any ERROR-level issue exists.
type ValidationResult struct {
	IsValid      bool    `json:"is_valid"`
	Issues       []Issue `json:"issues"`
	SegmentCount int     `json:"segment_count"`
}

// Summary returns the number of issues per severity level.
func (r *ValidationResult) Summary() map[Severity]int {
	summary := map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityInfo:    0,
	}
	for _, issue := range r.Issues {
		summary[issue.Level]++
	}
	return summary
}

// Errors returns the ERROR-level issues, in file order.
func (r *ValidationResult) Errors() []Issue {
	return r.issuesWithLevel(SeverityError)
}

// Warnings returns the WARNING-level issues, in file order.
func (r *ValidationResult) Warnings() []Issue {
	return r.issuesWithLevel(SeverityWarning)
}

// Err joins the ERROR-level issues into a single error value for
// callers that want an error instead of inspecting the issue list.
// Returns nil when the result is valid.
func (r *ValidationResult) Err() error {
	var errs []error
	for _, issue := range r.Issues {
		if issue.IsError() {
			errs = append(errs, errors.New(issue.String()))
		}
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) issuesWithLevel(level Severity) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Level == level {
			issues = append(issues, issue)
		}
	}
	return issues
}

// Validator checks an 837P claim file for structural integrity,
// envelope consistency, per-segment grammar, and business rules. It
// never returns an error: every problem it detects becomes an Issue in
// the result, including an unreadable ISA header.
type Validator struct {
	opts *Options
}

// NewValidator creates a Validator with the given options applied over
// the defaults.
func NewValidator(opts ...Option) *Validator {
	return &Validator{opts: newOptions(opts...)}
}

// Validate runs all validation passes over the given content. The four
// passes are independent: a structural failure in one doesn't stop the
// others from reporting their own findings. Each pass folds its issues
// into the result here rather than mutating shared state.
func (v *Validator) Validate(data []byte) *ValidationResult {
	result := &ValidationResult{IsValid: true, Issues: []Issue{}}

	delimiters, err := DetectDelimiters(string(data))
	if err != nil {
		result.Issues = append(
			result.Issues,
			errorIssue(isaSegmentId, 0, 0, err.Error()),
		)
		result.IsValid = false
		return result
	}

	segments := Tokenize(string(data), delimiters)
	result.SegmentCount = len(segments)
	if len(segments) == 0 {
		result.Issues = append(
			result.Issues,
			errorIssue("FILE", 0, 0, "no segments found in file"),
		)
		result.IsValid = false
		return result
	}

	result.Issues = append(result.Issues, v.structurePass(segments)...)
	result.Issues = append(result.Issues, v.envelopePass(segments)...)
	result.Issues = append(result.Issues, v.grammarPass(segments, delimiters)...)
	result.Issues = append(result.Issues, v.businessRulesPass(segments)...)

	for _, issue := range result.Issues {
		if issue.IsError() {
			result.IsValid = false
			break
		}
	}
	return result
}

func errorIssue(segmentId string, number, elementPos int, message string) Issue {
	return Issue{
		Level:           SeverityError,
		SegmentId:       segmentId,
		SegmentNumber:   number,
		ElementPosition: elementPos,
		Message:         message,
	}
}

func warningIssue(segmentId string, number, elementPos int, message string) Issue {
	return Issue{
		Level:           SeverityWarning,
		SegmentId:       segmentId,
		SegmentNumber:   number,
		ElementPosition: elementPos,
		Message:         message,
	}
}

// structurePass checks that every segment has an identifier recognized
// for the 837P family and at least two elements.
func (v *Validator) structurePass(segments []RawSegment) []Issue {
	var issues []Issue
	for i, segment := range segments {
		number := i + 1
		segmentId := segment.ID()
		if segmentId == "" {
			issues = append(
				issues,
				errorIssue("UNKNOWN", number, 0, "segment has no identifier"),
			)
			continue
		}
		if _, ok := validSegments837P[segmentId]; !ok {
			issues = append(
				issues, warningIssue(
					segmentId, number, 0, fmt.Sprintf(
						"segment ID %q not recognized for 837P transaction",
						segmentId,
					),
				),
			)
		}
		if len(segment) < 2 {
			issues = append(
				issues, errorIssue(
					segmentId, number, 0, fmt.Sprintf(
						"segment has insufficient elements (found %d)",
						len(segment),
					),
				),
			)
		}
	}
	return issues
}

// envelopePass reconciles the three nested envelope layers: control
// numbers must match between header and trailer, and each trailer's
// count must equal the observed number of next-inner headers. Trailers
// are matched lexically as they appear; mismatches are reported by
// direct comparison, never corrected.
func (v *Validator) envelopePass(segments []RawSegment) []Issue {
	var issues []Issue
	var isaCount, gsCount, stCount int
	var isaControl, gsControl, stControl string

	for i, segment := range segments {
		number := i + 1
		switch segment.ID() {
		case isaSegmentId:
			isaCount++
			if isaCount > 1 {
				issues = append(
					issues, errorIssue(
						isaSegmentId, number, 0,
						"multiple ISA segments found (should be exactly one)",
					),
				)
			}
			if len(segment) > isaIndexControlNumber {
				isaControl = segment[isaIndexControlNumber]
			} else {
				issues = append(
					issues, errorIssue(
						isaSegmentId, number, isaIndexControlNumber,
						"ISA segment missing control number",
					),
				)
			}
		case ieaSegmentId:
			if len(segment) > ieaIndexControlNumber {
				ieaControl := segment[ieaIndexControlNumber]
				if isaControl != "" && ieaControl != isaControl {
					issues = append(
						issues, errorIssue(
							ieaSegmentId, number, ieaIndexControlNumber,
							fmt.Sprintf(
								"IEA control number %q does not match ISA %q",
								ieaControl, isaControl,
							),
						),
					)
				}
				expectedGroups := segment[ieaIndexFunctionalGroupCount]
				if expectedGroups != strconv.Itoa(gsCount) {
					issues = append(
						issues, errorIssue(
							ieaSegmentId, number, ieaIndexFunctionalGroupCount,
							fmt.Sprintf(
								"IEA reports %s functional groups but found %d",
								expectedGroups, gsCount,
							),
						),
					)
				}
			}
		case gsSegmentId:
			gsCount++
			if len(segment) > gsIndexControlNumber {
				gsControl = segment[gsIndexControlNumber]
			} else {
				issues = append(
					issues, errorIssue(
						gsSegmentId, number, gsIndexControlNumber,
						"GS segment missing control number",
					),
				)
			}
		case geSegmentId:
			if len(segment) > geIndexControlNumber {
				geControl := segment[geIndexControlNumber]
				if gsControl != "" && geControl != gsControl {
					issues = append(
						issues, errorIssue(
							geSegmentId, number, geIndexControlNumber,
							fmt.Sprintf(
								"GE control number %q does not match GS %q",
								geControl, gsControl,
							),
						),
					)
				}
				expectedSets := segment[geIndexNumberOfIncludedTransactionSets]
				if expectedSets != strconv.Itoa(stCount) {
					issues = append(
						issues, errorIssue(
							geSegmentId, number,
							geIndexNumberOfIncludedTransactionSets,
							fmt.Sprintf(
								"GE reports %s transaction sets but found %d",
								expectedSets, stCount,
							),
						),
					)
				}
			}
		case stSegmentId:
			stCount++
			if len(segment) > stIndexControlNumber {
				stControl = segment[stIndexControlNumber]
				if segment[stIndexTransactionSetCode] != claimTransactionCode {
					issues = append(
						issues, errorIssue(
							stSegmentId, number, stIndexTransactionSetCode,
							fmt.Sprintf(
								"expected transaction set '%s' but found %q",
								claimTransactionCode,
								segment[stIndexTransactionSetCode],
							),
						),
					)
				}
			} else {
				issues = append(
					issues, errorIssue(
						stSegmentId, number, stIndexControlNumber,
						"ST segment missing control number",
					),
				)
			}
		case seSegmentId:
			if len(segment) > seIndexControlNumber {
				seControl := segment[seIndexControlNumber]
				if stControl != "" && seControl != stControl {
					issues = append(
						issues, errorIssue(
							seSegmentId, number, seIndexControlNumber,
							fmt.Sprintf(
								"SE control number %q does not match ST %q",
								seControl, stControl,
							),
						),
					)
				}
			}
		}
	}

	if isaCount == 0 {
		issues = append(
			issues,
			errorIssue(isaSegmentId, 0, 0, "missing ISA segment (required)"),
		)
	}
	if gsCount == 0 {
		issues = append(
			issues,
			errorIssue(gsSegmentId, 0, 0, "missing GS segment (required)"),
		)
	}
	if stCount == 0 {
		issues = append(
			issues,
			errorIssue(stSegmentId, 0, 0, "missing ST segment (required)"),
		)
	}
	return issues
}

// segmentCheck validates one segment type's field grammar.
type segmentCheck func(*Validator, RawSegment, int, Delimiters) []Issue

// segmentChecks dispatches grammar checks by segment identifier,
// keeping the set of checked segment types declarative.
var segmentChecks = map[string]segmentCheck{
	nm1SegmentId: (*Validator).checkEntityName,
	clmSegmentId: (*Validator).checkClaim,
	dtpSegmentId: (*Validator).checkDate,
	hiSegmentId:  (*Validator).checkDiagnosis,
	sv1SegmentId: (*Validator).checkServiceLine,
}

func (v *Validator) grammarPass(
	segments []RawSegment,
	delimiters Delimiters,
) []Issue {
	var issues []Issue
	for i, segment := range segments {
		check, ok := segmentChecks[segment.ID()]
		if !ok {
			continue
		}
		issues = append(issues, check(v, segment, i+1, delimiters)...)
	}
	return issues
}

// entityCodeContext is appended to unrecognized-entity warnings. Kept as
// a fixed string so issue output is deterministic.
const entityCodeContext = "valid codes include: 1P, 2B, 36, 40, 41, 85, 87, IL, PR, QC"

func (v *Validator) checkEntityName(
	segment RawSegment,
	number int,
	_ Delimiters,
) []Issue {
	var issues []Issue
	if len(segment) < 4 {
		return append(
			issues, errorIssue(
				nm1SegmentId, number, 0, fmt.Sprintf(
					"NM1 segment has insufficient elements (found %d, need at least 4)",
					len(segment),
				),
			),
		)
	}

	entityCode := segment[nm1IndexEntityIdCode]
	if _, ok := entityIdentifierCodes[entityCode]; !ok {
		issue := warningIssue(
			nm1SegmentId, number, nm1IndexEntityIdCode,
			fmt.Sprintf("entity identifier code %q not recognized", entityCode),
		)
		issue.Context = entityCodeContext
		issues = append(issues, issue)
	}

	entityType := segment[nm1IndexEntityTypeQualifier]
	if _, ok := entityTypeCodes[entityType]; !ok {
		issues = append(
			issues, errorIssue(
				nm1SegmentId, number, nm1IndexEntityTypeQualifier,
				fmt.Sprintf(
					"invalid entity type qualifier %q (must be 1 or 2)",
					entityType,
				),
			),
		)
	}

	if strings.TrimSpace(segment[nm1IndexNameLastOrOrg]) == "" {
		issues = append(
			issues, errorIssue(
				nm1SegmentId, number, nm1IndexNameLastOrOrg,
				"entity name is required but empty",
			),
		)
	}
	return issues
}

func (v *Validator) checkClaim(
	segment RawSegment,
	number int,
	delimiters Delimiters,
) []Issue {
	var issues []Issue
	if len(segment) < 6 {
		return append(
			issues, errorIssue(
				clmSegmentId, number, 0, fmt.Sprintf(
					"CLM segment has insufficient elements (found %d, need at least 6)",
					len(segment),
				),
			),
		)
	}

	rawAmount := segment[clmIndexChargeAmount]
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		issues = append(
			issues, errorIssue(
				clmSegmentId, number, clmIndexChargeAmount,
				fmt.Sprintf("claim amount %q is not a valid number", rawAmount),
			),
		)
	} else if !amount.IsPositive() {
		issues = append(
			issues, warningIssue(
				clmSegmentId, number, clmIndexChargeAmount,
				fmt.Sprintf(
					"claim amount is %s (should be positive)", amount,
				),
			),
		)
	}

	facilityInfo := segment[clmIndexFacilityInfo]
	parts := strings.Split(facilityInfo, string(delimiters.SubElement))
	if len(parts) >= 3 {
		facilityCode := parts[0]
		if len(facilityCode) != 2 || !isDigits(facilityCode) {
			issues = append(
				issues, warningIssue(
					clmSegmentId, number, clmIndexFacilityInfo,
					fmt.Sprintf(
						"facility code %q should be 2 digits", facilityCode,
					),
				),
			)
		}
	}
	return issues
}

func (v *Validator) checkDate(
	segment RawSegment,
	number int,
	_ Delimiters,
) []Issue {
	var issues []Issue
	if len(segment) < 4 {
		return append(
			issues, errorIssue(
				dtpSegmentId, number, 0, fmt.Sprintf(
					"DTP segment has insufficient elements (found %d, need 4)",
					len(segment),
				),
			),
		)
	}

	dateFormat := segment[dtpIndexFormat]
	if !sliceContains(dateFormatQualifiers, dateFormat) {
		issues = append(
			issues, warningIssue(
				dtpSegmentId, number, dtpIndexFormat,
				fmt.Sprintf(
					"date format qualifier %q not standard (expected D8 or RD8)",
					dateFormat,
				),
			),
		)
	}

	if dateFormat != "D8" {
		return issues
	}
	dateValue := segment[dtpIndexDate]
	if len(dateValue) != 8 || !isDigits(dateValue) {
		return append(
			issues, errorIssue(
				dtpSegmentId, number, dtpIndexDate,
				fmt.Sprintf("date %q not in CCYYMMDD format", dateValue),
			),
		)
	}

	year, _ := strconv.Atoi(dateValue[0:4])
	month, _ := strconv.Atoi(dateValue[4:6])
	day, _ := strconv.Atoi(dateValue[6:8])

	if year < v.opts.MinPlausibleYear || year > v.opts.MaxPlausibleYear {
		issues = append(
			issues, warningIssue(
				dtpSegmentId, number, dtpIndexDate,
				fmt.Sprintf("date year %d seems unusual", year),
			),
		)
	}
	if month < 1 || month > 12 {
		issues = append(
			issues, errorIssue(
				dtpSegmentId, number, dtpIndexDate,
				fmt.Sprintf("date month %d is invalid", month),
			),
		)
	}
	if day < 1 || day > 31 {
		issues = append(
			issues, errorIssue(
				dtpSegmentId, number, dtpIndexDate,
				fmt.Sprintf("date day %d is invalid", day),
			),
		)
	}
	return issues
}

func (v *Validator) checkDiagnosis(
	segment RawSegment,
	number int,
	delimiters Delimiters,
) []Issue {
	var issues []Issue
	if len(segment) < 2 {
		return append(
			issues, errorIssue(
				hiSegmentId, number, 0,
				"HI segment must contain at least one diagnosis code",
			),
		)
	}

	for i := 1; i < len(segment); i++ {
		element := segment[i]
		if !strings.ContainsRune(element, delimiters.SubElement) {
			continue
		}
		parts := strings.Split(element, string(delimiters.SubElement))
		if len(parts) < 2 {
			continue
		}
		qualifier, code := parts[0], parts[1]
		if !sliceContains(diagnosisQualifiers, qualifier) {
			issues = append(
				issues, warningIssue(
					hiSegmentId, number, i,
					fmt.Sprintf(
						"diagnosis code qualifier %q not standard", qualifier,
					),
				),
			)
		}
		if strings.TrimSpace(code) == "" {
			issues = append(
				issues,
				errorIssue(hiSegmentId, number, i, "diagnosis code is empty"),
			)
		}
	}
	return issues
}

func (v *Validator) checkServiceLine(
	segment RawSegment,
	number int,
	_ Delimiters,
) []Issue {
	var issues []Issue
	if len(segment) < 3 {
		return append(
			issues, errorIssue(
				sv1SegmentId, number, 0, fmt.Sprintf(
					"SV1 segment has insufficient elements (found %d)",
					len(segment),
				),
			),
		)
	}

	rawCharge := segment[sv1IndexChargeAmount]
	charge, err := decimal.NewFromString(rawCharge)
	if err != nil {
		issues = append(
			issues, errorIssue(
				sv1SegmentId, number, sv1IndexChargeAmount,
				fmt.Sprintf(
					"line item charge %q is not a valid number", rawCharge,
				),
			),
		)
	} else if charge.IsNegative() {
		issues = append(
			issues, warningIssue(
				sv1SegmentId, number, sv1IndexChargeAmount,
				fmt.Sprintf("line item charge is negative: %s", charge),
			),
		)
	}

	if len(segment) > sv1IndexQuantity {
		rawUnits := segment[sv1IndexQuantity]
		units, unitErr := decimal.NewFromString(rawUnits)
		if unitErr != nil {
			issues = append(
				issues, errorIssue(
					sv1SegmentId, number, sv1IndexQuantity,
					fmt.Sprintf(
						"service units %q is not a valid number", rawUnits,
					),
				),
			)
		} else if !units.IsPositive() {
			issues = append(
				issues, warningIssue(
					sv1SegmentId, number, sv1IndexQuantity,
					fmt.Sprintf(
						"service units should be positive (found %s)", units,
					),
				),
			)
		}
	}
	return issues
}

// businessRulesPass makes one linear scan accumulating presence flags
// and running charge totals, then checks the cross-segment rules:
// billing provider, subscriber and claim must all be present, and the
// claim total should reconcile with the service-line sum. The totals
// check is advisory (WARNING), with a small rounding tolerance.
func (v *Validator) businessRulesPass(segments []RawSegment) []Issue {
	var issues []Issue
	var hasBillingProvider, hasSubscriber, hasClaim bool
	claimAmount := decimal.Zero
	serviceLineTotal := decimal.Zero

	for _, segment := range segments {
		switch segment.ID() {
		case nm1SegmentId:
			switch segment.Get(nm1IndexEntityIdCode) {
			case entityIdBillingProvider:
				hasBillingProvider = true
			case entityIdInsured:
				hasSubscriber = true
			}
		case clmSegmentId:
			hasClaim = true
			if amount, err := decimal.NewFromString(
				segment.Get(clmIndexChargeAmount),
			); err == nil {
				claimAmount = amount
			}
		case sv1SegmentId:
			if charge, err := decimal.NewFromString(
				segment.Get(sv1IndexChargeAmount),
			); err == nil {
				serviceLineTotal = serviceLineTotal.Add(charge)
			}
		}
	}

	if !hasBillingProvider {
		issues = append(
			issues, errorIssue(
				nm1SegmentId, 0, 0,
				"missing required Billing Provider (NM1*85)",
			),
		)
	}
	if !hasSubscriber {
		issues = append(
			issues, errorIssue(
				nm1SegmentId, 0, 0,
				"missing required Subscriber/Insured (NM1*IL)",
			),
		)
	}
	if !hasClaim {
		issues = append(
			issues, errorIssue(
				clmSegmentId, 0, 0,
				"missing required CLM (Claim Information) segment",
			),
		)
	}

	if claimAmount.IsPositive() && serviceLineTotal.IsPositive() {
		difference := claimAmount.Sub(serviceLineTotal).Abs()
		if difference.GreaterThan(v.opts.ChargeTolerance) {
			issues = append(
				issues, warningIssue(
					clmSegmentId, 0, clmIndexChargeAmount,
					fmt.Sprintf(
						"claim amount ($%s) does not match service line total ($%s)",
						claimAmount.StringFixed(2),
						serviceLineTotal.StringFixed(2),
					),
				),
			)
		}
	}
	return issues
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
