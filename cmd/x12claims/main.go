// Command x12claims inspects, validates and converts X12 837P
// professional claim files.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donfox/x12claims"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "x12claims",
		Short:         "X12 837P claim file toolkit",
		Long:          "Detects, validates and converts X12 EDI healthcare claim files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newDetectCommand(),
		newValidateCommand(),
		newConvertCommand(),
		newProcessCommand(),
	)
	return root
}

func newDetectCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Identify the transaction type of an X12 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info := x12claims.Classify(data)
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), info); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), x12claims.FormatTransactionReport(info))
			}
			if !info.IsValid || info.TransactionType == x12claims.TransactionUnknown {
				return errors.New("transaction type could not be confirmed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an 837P claim file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result := x12claims.NewValidator().Validate(data)
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), x12claims.FormatValidationReport(result))
			}
			if !result.IsValid {
				return errors.New("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	return cmd
}

func newConvertCommand() *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an 837P claim file to semantic JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			raw, err := x12claims.Read(data)
			if err != nil {
				return err
			}
			document := x12claims.NewMapper().Convert(raw)
			encoded, err := json.MarshalIndent(document, "", "  ")
			if err != nil {
				return err
			}
			if outputFile == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}
			return os.WriteFile(outputFile, append(encoded, '\n'), 0o644)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write JSON to a file instead of stdout")
	return cmd
}

func newProcessCommand() *cobra.Command {
	var (
		skipValidation bool
		saveReport     bool
		outputDir      string
	)
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Run the full pipeline: detect, validate, convert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0], skipValidation, saveReport, outputDir)
		},
	}
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "skip the validation step")
	cmd.Flags().BoolVar(&saveReport, "report", false, "save the validation report next to the output")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory for converted JSON")
	return cmd
}

func runProcess(
	cmd *cobra.Command,
	inputFile string,
	skipValidation, saveReport bool,
	outputDir string,
) error {
	out := cmd.OutOrStdout()
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Input File: %s (%d bytes)\n\n", filepath.Base(inputFile), len(data))

	fmt.Fprintln(out, "STEP 1: Transaction Type Detection")
	info := x12claims.Classify(data)
	fmt.Fprintf(out, "  Type:        %s\n", info.TransactionType)
	fmt.Fprintf(out, "  Description: %s\n", info.Description)
	fmt.Fprintf(out, "  Confidence:  %s\n\n", info.Confidence)
	if !info.IsValid {
		return errors.New("transaction detection failed, file may be malformed")
	}

	if skipValidation {
		fmt.Fprintln(out, "STEP 2: Validation (SKIPPED)")
		fmt.Fprintln(out, "  Warning: processing unvalidated data")
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "STEP 2: Validation")
		switch info.TransactionType {
		case x12claims.Transaction837P:
			result := x12claims.NewValidator().Validate(data)
			if saveReport {
				reportPath := reportFileName(inputFile, outputDir)
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return err
				}
				report := x12claims.FormatValidationReport(result)
				if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(out, "  Report: %s\n", reportPath)
			}
			summary := result.Summary()
			fmt.Fprintf(out, "  Errors:   %d\n", summary[x12claims.SeverityError])
			fmt.Fprintf(out, "  Warnings: %d\n\n", summary[x12claims.SeverityWarning])
			if !result.IsValid {
				return errors.New("validation failed, fix errors before conversion")
			}
		default:
			fmt.Fprintf(out, "  No validator available for %s, proceeding with detection only\n\n",
				info.TransactionType)
		}
	}

	fmt.Fprintln(out, "STEP 3: JSON Conversion")
	raw, err := x12claims.Read(data)
	if err != nil {
		return err
	}
	document := x12claims.NewMapper().Convert(raw)
	encoded, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	outputFile := jsonFileName(inputFile, outputDir)
	if err := os.WriteFile(outputFile, append(encoded, '\n'), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Output: %s\n", outputFile)
	return nil
}

func jsonFileName(inputFile, outputDir string) string {
	return filepath.Join(outputDir, baseName(inputFile)+".json")
}

func reportFileName(inputFile, outputDir string) string {
	return filepath.Join(outputDir, baseName(inputFile)+"_validation.txt")
}

func baseName(inputFile string) string {
	base := filepath.Base(inputFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeJSON(out io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
