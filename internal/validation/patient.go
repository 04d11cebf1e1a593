package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iudanet/medfichas/internal/models"
)

const (
	// MaxFullNameLen максимальная длина имени пациента (в символах)
	MaxFullNameLen = 200
	// MaxNotesLen максимальная длина клинических заметок
	MaxNotesLen = 10000
)

// PhonePattern допускает цифры, пробелы, +, -, точки и скобки
var PhonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{6,20}$`)

// Genders допустимые значения поля gender (пустое значение тоже допустимо)
var Genders = []string{"male", "female", "other"}

// ValidatePatient checks the user-editable fields of a patient card.
// All violations are reported together.
func ValidatePatient(p *models.Patient, now time.Time) error {
	if p == nil {
		return fmt.Errorf("patient cannot be nil")
	}

	var errs []error

	name := strings.TrimSpace(p.FullName)
	switch {
	case name == "":
		errs = append(errs, fmt.Errorf("full_name cannot be empty"))
	case utf8.RuneCountInString(name) > MaxFullNameLen:
		errs = append(errs, fmt.Errorf("full_name must not exceed %d characters", MaxFullNameLen))
	}

	if p.Email != "" {
		if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
			errs = append(errs, fmt.Errorf("email %q is not a valid address", p.Email))
		}
	}

	if p.PhoneNumber != "" && !PhonePattern.MatchString(p.PhoneNumber) {
		errs = append(errs, fmt.Errorf("phone_number %q is not a valid phone number", p.PhoneNumber))
	}

	if p.Gender != "" && !isGender(p.Gender) {
		errs = append(errs, fmt.Errorf("gender must be one of %s", strings.Join(Genders, ", ")))
	}

	if p.DOB != "" {
		dob, err := time.Parse(models.DateLayout, p.DOB)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("dob must be in YYYY-MM-DD format"))
		case dob.After(now):
			errs = append(errs, fmt.Errorf("dob cannot be in the future"))
		}
	}

	if utf8.RuneCountInString(p.Notes) > MaxNotesLen {
		errs = append(errs, fmt.Errorf("notes must not exceed %d characters", MaxNotesLen))
	}

	return errors.Join(errs...)
}

func isGender(g string) bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}
