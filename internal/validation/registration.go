package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/magnetic-studio/studio-api/internal/models"
)

const (
	MinAdultAge = 18

	MaxNameLength     = 50
	MaxSurnamesLength = 100
	MaxAddressLength  = 200
	MaxCityLength     = 50
	MaxProvinceLength = 50
)

// MinBirthDate bounds the form date picker. Birth dates are not range
// checked by ValidateRegistration.
var MinBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	dniPattern        = regexp.MustCompile(`^[A-Za-z0-9]{5,20}$`)
	postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)
	ibanPattern       = regexp.MustCompile(`(?i)^[A-Z]{2}[0-9]{2}[A-Z0-9]{4}[0-9]{7}([A-Z0-9]?){0,16}$`)

	// e164 alone lets a country code start with 0.
	phoneTag = "e164,startsnotwith=+0"

	validate = validator.New()
)

const (
	msgNameRequired     = "El nombre es obligatorio"
	msgNameTooLong      = "El nombre no puede exceder 50 caracteres"
	msgSurnamesRequired = "Los apellidos son obligatorios"
	msgSurnamesTooLong  = "Los apellidos no pueden exceder 100 caracteres"
	msgDNIInvalid       = "Formato de DNI inválido (ej: 12345678A)"
	msgPhoneRequired    = "El teléfono es obligatorio"
	msgPhoneInvalid     = "Este teléfono no es válido"
	msgAddressRequired  = "El domicilio es obligatorio"
	msgAddressTooLong   = "El domicilio no puede exceder 200 caracteres"
	msgCityRequired     = "La localidad es obligatoria"
	msgCityTooLong      = "La localidad no puede exceder 50 caracteres"
	msgProvinceRequired = "La provincia es obligatoria"
	msgProvinceTooLong  = "La provincia no puede exceder 50 caracteres"
	msgPostalCode       = "El código postal debe tener 5 dígitos"
	msgEmailRequired    = "El correo electrónico es obligatorio"
	msgEmailInvalid     = "Formato de correo electrónico inválido"
	msgBirthDate        = "La fecha de nacimiento es obligatoria"
	msgParentNameType   = "El nombre del tutor legal no es válido"
	msgParentBirthDate  = "La fecha de nacimiento del tutor legal no es válida"
	msgIBANInvalid      = "Formato de IBAN inválido"
	msgAcceptTerms      = "Debe aceptar las normas y condiciones de la escuela"
	msgAcceptServices   = "Debe aceptar recibir comunicaciones sobre servicios"
	msgBooleanInvalid   = "Valor inválido"

	msgParentNameRequired      = "El nombre del tutor legal es obligatorio para menores de edad"
	msgParentPhoneRequired     = "El teléfono del tutor legal es obligatorio para menores de edad"
	msgParentBirthDateRequired = "La fecha de nacimiento del tutor legal es obligatoria para menores de edad"
	msgParentMustBeAdult       = "El tutor legal debe ser mayor de edad (18 años o más)"
	msgParentDNIRequired       = "El DNI del tutor legal es obligatorio para menores de edad"
)

// registrationState carries the typed output plus what the cross-field
// rules need to know about fields that failed to parse.
type registrationState struct {
	fields                 models.RegistrationFields
	birthDateOK            bool
	parentBirthDateInvalid bool
}

// fieldRule checks one field and returns a message when it is invalid.
type fieldRule struct {
	path  string
	check func(raw Raw, st *registrationState) string
}

// crossRule inspects the parsed record as a whole.
type crossRule func(st *registrationState, today time.Time, errs *FieldErrors)

var registrationFieldRules = []fieldRule{
	// Step 1: personal data
	lengthRule("name", MaxNameLength, msgNameRequired, msgNameTooLong, func(f *models.RegistrationFields, v string) { f.Name = v }),
	lengthRule("surnames", MaxSurnamesLength, msgSurnamesRequired, msgSurnamesTooLong, func(f *models.RegistrationFields, v string) { f.Surnames = v }),
	{path: "dni", check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.text("dni")
		if !ok || !dniPattern.MatchString(v) {
			return msgDNIInvalid
		}
		st.fields.DNI = strings.ToUpper(v)
		return ""
	}},
	formatRule("phone", phoneTag, msgPhoneRequired, msgPhoneInvalid, func(f *models.RegistrationFields, v string) { f.Phone = v }),
	lengthRule("address", MaxAddressLength, msgAddressRequired, msgAddressTooLong, func(f *models.RegistrationFields, v string) { f.Address = v }),
	lengthRule("city", MaxCityLength, msgCityRequired, msgCityTooLong, func(f *models.RegistrationFields, v string) { f.City = v }),
	lengthRule("province", MaxProvinceLength, msgProvinceRequired, msgProvinceTooLong, func(f *models.RegistrationFields, v string) { f.Province = v }),
	{path: "postalCode", check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.text("postalCode")
		if !ok || !postalCodePattern.MatchString(v) {
			return msgPostalCode
		}
		st.fields.PostalCode = v
		return ""
	}},
	formatRule("email", "email", msgEmailRequired, msgEmailInvalid, func(f *models.RegistrationFields, v string) { f.Email = v }),
	{path: "birthDate", check: func(raw Raw, st *registrationState) string {
		d, present, ok := raw.date("birthDate")
		if !present || !ok {
			return msgBirthDate
		}
		st.fields.BirthDate = d
		st.birthDateOK = true
		return ""
	}},

	// Step 1: legal guardian, conditionally required below
	{path: "parentName", check: func(raw Raw, st *registrationState) string {
		v, present, ok := raw.text("parentName")
		if !ok {
			return msgParentNameType
		}
		if present && v != "" {
			st.fields.ParentName = &v
		}
		return ""
	}},
	optionalFormatRule("parentPhone", phoneTag, msgPhoneInvalid, func(f *models.RegistrationFields, v *string) { f.ParentPhone = v }),
	{path: "parentBirthDate", check: func(raw Raw, st *registrationState) string {
		d, present, ok := raw.date("parentBirthDate")
		if !ok {
			st.parentBirthDateInvalid = true
			return msgParentBirthDate
		}
		if present {
			st.fields.ParentBirthDate = &d
		}
		return ""
	}},
	optionalPatternRule("parentDni", dniPattern, msgDNIInvalid, strings.ToUpper, func(f *models.RegistrationFields, v *string) { f.ParentDNI = v }),

	// Step 1: banking
	optionalPatternRule("iban", ibanPattern, msgIBANInvalid, nil, func(f *models.RegistrationFields, v *string) { f.IBAN = v }),

	// Step 2: terms
	mustAcceptRule("acceptTerms", msgAcceptTerms, func(f *models.RegistrationFields) { f.AcceptTerms = true }),

	// Step 3: privacy and marketing
	mustAcceptRule("acceptServices", msgAcceptServices, func(f *models.RegistrationFields) { f.AcceptServices = true }),
	optionalBoolRule("acceptAdvertisements", func(f *models.RegistrationFields, v bool) { f.AcceptAdvertisements = v }),
	optionalBoolRule("acceptImageRights", func(f *models.RegistrationFields, v bool) { f.AcceptImageRights = v }),
}

var registrationCrossRules = []crossRule{
	requireGuardianForMinors,
}

// ValidateRegistration runs every field rule, then the cross-field rules, and
// returns either the normalized record or a FieldErrors in declaration order.
// today is only used to derive ages, so the same input can validate
// differently on either side of a birthday.
func ValidateRegistration(raw Raw, today time.Time) (models.RegistrationFields, error) {
	var (
		st   registrationState
		errs FieldErrors
	)

	for _, rule := range registrationFieldRules {
		if msg := rule.check(raw, &st); msg != "" {
			errs.add(rule.path, msg)
		}
	}

	for _, rule := range registrationCrossRules {
		rule(&st, today, &errs)
	}

	if len(errs) > 0 {
		return models.RegistrationFields{}, errs
	}
	return st.fields, nil
}

func requireGuardianForMinors(st *registrationState, today time.Time, errs *FieldErrors) {
	if !st.birthDateOK || Age(st.fields.BirthDate, today) >= MinAdultAge {
		return
	}

	// A guardian field that already failed its own rule keeps that error only.
	requireField := func(path string, blank bool, msg string) {
		if blank && len(errs.For(path)) == 0 {
			errs.add(path, msg)
		}
	}

	f := st.fields
	requireField("parentName", isBlank(f.ParentName), msgParentNameRequired)
	requireField("parentPhone", isBlank(f.ParentPhone), msgParentPhoneRequired)
	switch {
	case st.parentBirthDateInvalid:
		// already reported by the field rule
	case f.ParentBirthDate == nil:
		errs.add("parentBirthDate", msgParentBirthDateRequired)
	case Age(*f.ParentBirthDate, today) < MinAdultAge:
		errs.add("parentBirthDate", msgParentMustBeAdult)
	}
	requireField("parentDni", isBlank(f.ParentDNI), msgParentDNIRequired)
}

// Age returns the full calendar years between birth and today, counting a
// year only once its birthday has been reached.
func Age(birth, today time.Time) int {
	by, bm, bd := birth.Date()
	ty, tm, td := today.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}

// IsMinor reports whether someone born on birth is under MinAdultAge.
func IsMinor(birth, today time.Time) bool {
	return Age(birth, today) < MinAdultAge
}

func lengthRule(path string, max int, requiredMsg, tooLongMsg string, set func(*models.RegistrationFields, string)) fieldRule {
	return fieldRule{path: path, check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.text(path)
		switch n := utf8.RuneCountInString(v); {
		case !ok || n == 0:
			return requiredMsg
		case n > max:
			return tooLongMsg
		}
		set(&st.fields, v)
		return ""
	}}
}

func formatRule(path, tag, requiredMsg, invalidMsg string, set func(*models.RegistrationFields, string)) fieldRule {
	return fieldRule{path: path, check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.text(path)
		if ok && v == "" {
			return requiredMsg
		}
		if !ok || validate.Var(v, tag) != nil {
			return invalidMsg
		}
		set(&st.fields, v)
		return ""
	}}
}

// optionalFormatRule treats "" as not provided.
func optionalFormatRule(path, tag, invalidMsg string, set func(*models.RegistrationFields, *string)) fieldRule {
	return fieldRule{path: path, check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.text(path)
		if !ok {
			return invalidMsg
		}
		if v == "" {
			return ""
		}
		if validate.Var(v, tag) != nil {
			return invalidMsg
		}
		set(&st.fields, &v)
		return ""
	}}
}

// optionalPatternRule treats "" as not provided. transform runs on the
// output only, after the original value matched.
func optionalPatternRule(path string, re *regexp.Regexp, invalidMsg string, transform func(string) string, set func(*models.RegistrationFields, *string)) fieldRule {
	return fieldRule{path: path, check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.text(path)
		if !ok {
			return invalidMsg
		}
		if v == "" {
			return ""
		}
		if !re.MatchString(v) {
			return invalidMsg
		}
		if transform != nil {
			v = transform(v)
		}
		set(&st.fields, &v)
		return ""
	}}
}

func mustAcceptRule(path, msg string, set func(*models.RegistrationFields)) fieldRule {
	return fieldRule{path: path, check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.boolean(path)
		if !ok || !v {
			return msg
		}
		set(&st.fields)
		return ""
	}}
}

func optionalBoolRule(path string, set func(*models.RegistrationFields, bool)) fieldRule {
	return fieldRule{path: path, check: func(raw Raw, st *registrationState) string {
		v, _, ok := raw.boolean(path)
		if !ok {
			return msgBooleanInvalid
		}
		set(&st.fields, v)
		return ""
	}}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// RegistrationRaw turns a normalized record back into Raw input.
func RegistrationRaw(f models.RegistrationFields) Raw {
	raw := Raw{
		"name":                 f.Name,
		"surnames":             f.Surnames,
		"dni":                  f.DNI,
		"phone":                f.Phone,
		"address":              f.Address,
		"city":                 f.City,
		"province":             f.Province,
		"postalCode":           f.PostalCode,
		"email":                f.Email,
		"birthDate":            f.BirthDate,
		"acceptTerms":          f.AcceptTerms,
		"acceptServices":       f.AcceptServices,
		"acceptAdvertisements": f.AcceptAdvertisements,
		"acceptImageRights":    f.AcceptImageRights,
	}
	if f.ParentName != nil {
		raw["parentName"] = *f.ParentName
	}
	if f.ParentPhone != nil {
		raw["parentPhone"] = *f.ParentPhone
	}
	if f.ParentBirthDate != nil {
		raw["parentBirthDate"] = *f.ParentBirthDate
	}
	if f.ParentDNI != nil {
		raw["parentDni"] = *f.ParentDNI
	}
	if f.IBAN != nil {
		raw["iban"] = *f.IBAN
	}
	return raw
}
