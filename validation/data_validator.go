// Package validation checks user input reaching the HTTP handlers and the
// drug documents loaded into the record store.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/interfaces"
)

const (
	MaxTermLength = 200
	maxNameLength = 300
	reportSample  = 10
)

// Pre-compiled patterns, reused for all validations
var (
	// BNF codes and chapter numbers: 0407010H0, 4.7.1
	codeRegex = regexp.MustCompile(`^[0-9A-Za-z.]{1,20}$`)

	// A JavaScript identifier path: cb, jQuery123_456, app.handlers.drug
	callbackRegex = regexp.MustCompile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*)*$`)
)

// Compile-time checks
var (
	_ interfaces.InputValidator = (*DataValidatorImpl)(nil)
	_ interfaces.DataValidator  = (*DataValidatorImpl)(nil)
)

// DataValidatorImpl implements the InputValidator and DataValidator interfaces
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateTerm checks a search term. Empty terms are valid (they match every
// record) and so are the OR separators.
func (v *DataValidatorImpl) ValidateTerm(term string) error {
	if !utf8.ValidString(term) {
		return fmt.Errorf("search term must be valid UTF-8")
	}

	if len(term) > MaxTermLength {
		return fmt.Errorf("search term too long: maximum %d bytes", MaxTermLength)
	}

	for _, r := range term {
		if unicode.IsControl(r) {
			return fmt.Errorf("search term contains control characters")
		}
	}

	return nil
}

// ValidateCode checks a BNF code path parameter
func (v *DataValidatorImpl) ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if !codeRegex.MatchString(code) {
		return fmt.Errorf("code must be 1 to 20 letters, digits or dots")
	}
	return nil
}

// ValidateCallback checks a JSONP callback name
func (v *DataValidatorImpl) ValidateCallback(callback string) error {
	if len(callback) > 128 {
		return fmt.Errorf("callback too long: maximum 128 characters")
	}
	if !callbackRegex.MatchString(callback) {
		return fmt.Errorf("callback must be a JavaScript identifier")
	}
	return nil
}

// ValidateDrug checks a drug document before it is served or imported
func (v *DataValidatorImpl) ValidateDrug(d *entities.Drug) error {
	if d == nil {
		return fmt.Errorf("drug is nil")
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("drug has an empty name")
	}

	if len(d.Name) > maxNameLength {
		return fmt.Errorf("name too long: %d characters, maximum %d", len(d.Name), maxNameLength)
	}

	if !utf8.ValidString(d.Name) {
		return fmt.Errorf("name of %q is not valid UTF-8", name)
	}

	return nil
}

// ReportDataQuality looks for duplicate names and codes, drugs without doses,
// and code mappings naming a drug that does not exist.
func (v *DataValidatorImpl) ReportDataQuality(drugs []entities.Drug, codes []entities.CodeMapping) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateNames:         []string{},
		DuplicateCodes:         []string{},
		DrugsWithoutDosesNames: []string{},
		DanglingCodesList:      []string{},
	}

	names := make(map[string]bool, len(drugs))
	for _, d := range drugs {
		if names[d.Name] {
			report.DuplicateNames = append(report.DuplicateNames, d.Name)
		}
		names[d.Name] = true

		if strings.TrimSpace(d.Text("doses")) == "" {
			report.DrugsWithoutDoses++
			if len(report.DrugsWithoutDosesNames) < reportSample {
				report.DrugsWithoutDosesNames = append(report.DrugsWithoutDosesNames, d.Name)
			}
		}
	}

	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if seen[c.Code] {
			report.DuplicateCodes = append(report.DuplicateCodes, c.Code)
		}
		seen[c.Code] = true

		if !names[c.Name] {
			report.DanglingCodes++
			if len(report.DanglingCodesList) < reportSample {
				report.DanglingCodesList = append(report.DanglingCodesList, c.Code)
			}
		}
	}

	return report
}
