package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"honnef.co/go/lens"
	"honnef.co/go/lens/lensfile"
)

// ValidationIssue is one problem found in a lens file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Lenses int               `json:"lenses"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a lens file for structural and optical problems",
		Long: `Validate a lens file against the lens file schema, then check every
surface for impossible parameters: negative or inverted diameters, a zero
base radius, non-finite conic constants or coefficients, and spheres whose
clear aperture is wider than the sphere itself.

All problems are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := lensfile.ReadDocument(path)
	if err != nil {
		var pathErr *fs.PathError
		switch {
		case errors.Is(err, lensfile.ErrUnknownFormat):
			return formatter.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("cannot tell the format of %s", path), err)
		case errors.As(err, &pathErr):
			return formatter.Fail(ExitCommandError, ErrCodeRead, fmt.Sprintf("reading %s", path), err)
		}
		return outputValidationErrors(formatter, []ValidationIssue{{Code: ErrCodeSchema, Message: err.Error()}})
	}

	issues, lenses := validateDocument(doc, formatter)
	if len(issues) > 0 {
		return outputValidationErrors(formatter, issues)
	}
	return outputValidateSuccess(formatter, lenses)
}

// validateDocument collects every problem in doc and returns the number of
// lenses it holds.
func validateDocument(doc lensfile.Document, formatter *OutputFormatter) ([]ValidationIssue, int) {
	if err := lensfile.Validate(doc); err != nil {
		var issues []ValidationIssue
		for _, v := range lensfile.Violations(err) {
			issues = append(issues, ValidationIssue{Code: ErrCodeSchema, Field: v.Field, Message: v.Msg})
		}
		if len(issues) == 0 {
			issues = append(issues, ValidationIssue{Code: ErrCodeSchema, Message: err.Error()})
		}
		return issues, 0
	}

	lenses, err := lensfile.Lenses(doc)
	if err != nil {
		var se *lens.SchemaError
		if errors.As(err, &se) {
			msg := se.Msg
			if se.Err != nil {
				msg += ": " + se.Err.Error()
			}
			return []ValidationIssue{{Code: ErrCodeSchema, Field: se.Field, Message: msg}}, 0
		}
		return []ValidationIssue{{Code: ErrCodeSchema, Message: err.Error()}}, 0
	}

	var issues []ValidationIssue
	for i, l := range lenses {
		formatter.VerboseLog("Validating lens %d: %s", i, l.Name)
		for _, err := range flatten(l.Validate()) {
			issues = append(issues, ValidationIssue{
				Code:    ErrCodeInvalid,
				Field:   strconv.Itoa(i),
				Message: strings.ReplaceAll(err.Error(), "\n", "; "),
			})
		}
	}
	return issues, len(lenses)
}

// flatten splits a joined error into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, lenses int) error {
	return formatter.Success(ValidationResult{Valid: true, Lenses: lenses},
		fmt.Sprintf("✓ %d lens(es) valid", lenses))
}

// outputValidationErrors outputs all validation problems.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Field != "" {
			fmt.Fprintf(formatter.Writer, "  [%s] %s: %s\n", issue.Code, issue.Field, issue.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  [%s] %s\n", issue.Code, issue.Message)
		}
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "%d problem(s) found\n", len(issues))

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
