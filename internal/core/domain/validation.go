package domain

import (
	"regexp"
	"strings"
)

var (
	nonDigits  = regexp.MustCompile(`[^\d]`)
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeCPF strips every non-digit character. The normalized form is the
// canonical storage and lookup key.
func NormalizeCPF(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// ValidateCPF accepts any input whose digit-only form has exactly 11 digits
// that are not all identical. This is a format sanity check, not the official
// CPF checksum algorithm.
func ValidateCPF(raw string) bool {
	cpf := NormalizeCPF(raw)
	if len(cpf) != 11 {
		return false
	}
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			return true
		}
	}
	return false
}

// ValidateEmail checks for exactly one "@", at least one "." after it, and no
// embedded whitespace.
func ValidateEmail(raw string) bool {
	return emailShape.MatchString(raw)
}

// ValidationResult accumulates human-readable rule violations in check order.
type ValidationResult struct {
	Errors []string
}

func (r ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// Err returns the result as a *ValidationError, or nil when valid.
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return &ValidationError{Messages: r.Errors}
}

// ValidatePassword enforces the length bounds. Both checks are independent.
func ValidatePassword(password string) ValidationResult {
	var res ValidationResult
	if len(password) < 6 {
		res.Errors = append(res.Errors, "password must have a minimum of 6 characters")
	}
	if len(password) > 255 {
		res.Errors = append(res.Errors, "password must have a maximum of 255 characters")
	}
	return res
}

// TutorRegistration is the input for tutor sign-up.
type TutorRegistration struct {
	CPF      string
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
	Clinics  []string
}

// Validate accumulates every violated rule: cpf, name, email, password, then
// the minimum-one-clinic rule.
func (in TutorRegistration) Validate() ValidationResult {
	res := validateIdentity(in.CPF, in.Name, in.Email, in.Password)
	if len(in.Clinics) == 0 {
		res.Errors = append(res.Errors, "tutor must be linked to at least one clinic")
	}
	return res
}

// EmployeeRegistration is the input for employee sign-up. AccessLevel is a
// pointer so an explicit 0 is distinguishable from an omitted value.
type EmployeeRegistration struct {
	CPF                      string
	Name                     string
	Email                    string
	Password                 string
	Role                     string
	ProfessionalRegistration *string
	AccessLevel              *int
}

// Validate accumulates every violated rule: cpf, name, email, password, role,
// then the access-level range when one was supplied.
func (in EmployeeRegistration) Validate() ValidationResult {
	res := validateIdentity(in.CPF, in.Name, in.Email, in.Password)
	if strings.TrimSpace(in.Role) == "" {
		res.Errors = append(res.Errors, "role is required")
	}
	if in.AccessLevel != nil && (*in.AccessLevel < 0 || *in.AccessLevel > 10) {
		res.Errors = append(res.Errors, "access level must be between 0 and 10")
	}
	return res
}

// validateIdentity checks the fields shared by both registration kinds.
// Checks after a missing required field are skipped for that field only.
func validateIdentity(cpf, name, email, password string) ValidationResult {
	var res ValidationResult
	if cpf == "" {
		res.Errors = append(res.Errors, "cpf is required")
	} else if !ValidateCPF(cpf) {
		res.Errors = append(res.Errors, "invalid cpf")
	}
	if strings.TrimSpace(name) == "" {
		res.Errors = append(res.Errors, "name is required")
	}
	if email == "" {
		res.Errors = append(res.Errors, "email is required")
	} else if !ValidateEmail(email) {
		res.Errors = append(res.Errors, "invalid email")
	}
	if password == "" {
		res.Errors = append(res.Errors, "password is required")
	} else {
		res.Errors = append(res.Errors, ValidatePassword(password).Errors...)
	}
	return res
}
