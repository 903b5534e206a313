package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxItemNameLength        = 100
	MaxItemDescriptionLength = 500
	MinPasswordLength        = 8
	MinUserNameLength        = 2

	msgValidEmail          = "Please enter a valid email address"
	msgPasswordLength      = "Password must be at least 8 characters"
	msgUserNameLength      = "Name must be at least 2 characters"
	msgItemNameRequired    = "Name is required"
	msgItemNameTooLong     = "Name is too long"
	msgItemDescTooLong     = "Description is too long"
	msgFullNameRequired    = "El nombre completo es requerido"
	msgPaymentDateRequired = "La fecha de pago es requerida"
	msgBonusRangeRequired  = "El rango de fechas es requerido"
	msgWeekdayInvalid      = "El día de la semana no es válido"
	msgStartTimeInvalid    = "La hora debe tener el formato HH:MM"
)

type WaitlistInput struct {
	Email string `json:"email,omitempty"`
}

// ValidateWaitlist trims and lowercases the email before checking it.
func ValidateWaitlist(in WaitlistInput) (WaitlistInput, error) {
	var errs FieldErrors
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if validate.Var(in.Email, "required,email") != nil {
		errs.add("email", msgValidEmail)
	}
	return in, errs.result()
}

type ItemInput struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func ValidateItem(in ItemInput) (ItemInput, error) {
	var errs FieldErrors
	switch n := utf8.RuneCountInString(in.Name); {
	case n == 0:
		errs.add("name", msgItemNameRequired)
	case n > MaxItemNameLength:
		errs.add("name", msgItemNameTooLong)
	}
	if in.Description != nil {
		if *in.Description == "" {
			in.Description = nil
		} else if utf8.RuneCountInString(*in.Description) > MaxItemDescriptionLength {
			errs.add("description", msgItemDescTooLong)
		}
	}
	return in, errs.result()
}

type SignInInput struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func ValidateSignIn(in SignInInput) (SignInInput, error) {
	var errs FieldErrors
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if validate.Var(in.Email, "required,email") != nil {
		errs.add("email", msgValidEmail)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		errs.add("password", msgPasswordLength)
	}
	return in, errs.result()
}

type SignUpInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func ValidateSignUp(in SignUpInput) (SignUpInput, error) {
	var errs FieldErrors
	if utf8.RuneCountInString(in.Name) < MinUserNameLength {
		errs.add("name", msgUserNameLength)
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if validate.Var(in.Email, "required,email") != nil {
		errs.add("email", msgValidEmail)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		errs.add("password", msgPasswordLength)
	}
	return in, errs.result()
}

type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// StudentInput is a beginners-class student ("alumnx").
type StudentInput struct {
	FullName       string     `json:"fullName,omitempty"`
	PaymentDate    *time.Time `json:"paymentDate,omitempty"`
	BonusDateRange *DateRange `json:"bonusDateRange,omitempty"`
}

func ValidateStudent(in StudentInput) (StudentInput, error) {
	var errs FieldErrors
	if in.FullName == "" {
		errs.add("fullName", msgFullNameRequired)
	}
	if in.PaymentDate == nil || in.PaymentDate.IsZero() {
		errs.add("paymentDate", msgPaymentDateRequired)
	}
	r := in.BonusDateRange
	if r == nil || r.From == nil || r.To == nil || r.From.IsZero() || r.To.IsZero() {
		errs.add("bonusDateRange", msgBonusRangeRequired)
	}
	return in, errs.result()
}

var startTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ClassInput struct {
	Name      string `json:"name,omitempty"`
	Weekday   int    `json:"weekday,omitempty" doc:"0 = Sunday ... 6 = Saturday"`
	StartTime string `json:"startTime,omitempty" doc:"HH:MM"`
}

func ValidateClass(in ClassInput) (ClassInput, error) {
	var errs FieldErrors
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errs.add("name", msgItemNameRequired)
	}
	if in.Weekday < int(time.Sunday) || in.Weekday > int(time.Saturday) {
		errs.add("weekday", msgWeekdayInvalid)
	}
	if !startTimePattern.MatchString(in.StartTime) {
		errs.add("startTime", msgStartTimeInvalid)
	}
	return in, errs.result()
}
