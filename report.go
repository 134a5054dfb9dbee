package x12claims

import (
	"fmt"
	"strings"
)

const reportRule = 80

// FormatValidationReport renders a validation result as a plain-text
// report, grouping issues by severity.
func FormatValidationReport(result *ValidationResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportRule)
	thin := strings.Repeat("-", reportRule)

	b.WriteString(rule + "\n")
	b.WriteString("X12 837P VALIDATION REPORT\n")
	b.WriteString(rule + "\n\n")

	_, _ = fmt.Fprintf(&b, "Total Segments Processed: %d\n", result.SegmentCount)
	status := "INVALID"
	if result.IsValid {
		status = "VALID"
	}
	_, _ = fmt.Fprintf(&b, "Overall Status: %s\n\n", status)

	summary := result.Summary()
	b.WriteString("Issue Summary:\n")
	_, _ = fmt.Fprintf(&b, "  Errors:   %d\n", summary[SeverityError])
	_, _ = fmt.Fprintf(&b, "  Warnings: %d\n", summary[SeverityWarning])
	_, _ = fmt.Fprintf(&b, "  Info:     %d\n", summary[SeverityInfo])

	if len(result.Issues) == 0 {
		b.WriteString("\nNo validation issues found\n")
		b.WriteString(rule + "\n")
		return b.String()
	}

	b.WriteString("\n" + thin + "\n")
	b.WriteString("VALIDATION ISSUES\n")
	b.WriteString(thin + "\n")

	for _, level := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		issues := result.issuesWithLevel(level)
		if len(issues) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(&b, "\n%sS (%d):\n", level, len(issues))
		b.WriteString(thin + "\n")
		for _, issue := range issues {
			elementInfo := ""
			if issue.ElementPosition > 0 {
				elementInfo = fmt.Sprintf(", Element %d", issue.ElementPosition)
			}
			_, _ = fmt.Fprintf(
				&b, "  [%s] Segment %d%s\n",
				issue.SegmentId, issue.SegmentNumber, elementInfo,
			)
			_, _ = fmt.Fprintf(&b, "    %s\n", issue.Message)
			if issue.Context != "" {
				_, _ = fmt.Fprintf(&b, "    Context: %s\n", issue.Context)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// FormatTransactionReport renders a classification result as a
// plain-text report.
func FormatTransactionReport(info *TransactionInfo) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportRule)
	thin := strings.Repeat("-", reportRule)

	b.WriteString(rule + "\n")
	b.WriteString("X12 TRANSACTION TYPE DETECTION REPORT\n")
	b.WriteString(rule + "\n\n")

	status := "INVALID"
	if info.IsValid {
		status = "VALID"
	}
	_, _ = fmt.Fprintf(&b, "Status: %s\n", status)
	_, _ = fmt.Fprintf(&b, "Confidence: %s\n\n", info.Confidence)

	b.WriteString("TRANSACTION INFORMATION\n")
	b.WriteString(thin + "\n")
	_, _ = fmt.Fprintf(&b, "Type: %s\n", info.TransactionType)
	_, _ = fmt.Fprintf(&b, "Description: %s\n", info.Description)
	_, _ = fmt.Fprintf(&b, "Transaction Code: %s\n", info.TransactionCode)
	if info.ImplementationGuide != "" {
		_, _ = fmt.Fprintf(
			&b, "Implementation Guide: %s\n", info.ImplementationGuide,
		)
	}
	if info.FunctionalGroupCode != "" {
		description, ok := functionalGroupDescriptions[info.FunctionalGroupCode]
		if !ok {
			description = "Unknown"
		}
		_, _ = fmt.Fprintf(
			&b, "Functional Group: %s (%s)\n",
			info.FunctionalGroupCode, description,
		)
	}

	if len(info.Details) > 0 {
		b.WriteString("\nDETECTION DETAILS\n")
		b.WriteString(thin + "\n")
		for _, detail := range info.Details {
			_, _ = fmt.Fprintf(&b, "  - %s\n", detail)
		}
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}
