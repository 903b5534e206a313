package validation

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.June, 15, 10, 30, 0, 0, time.UTC)

func yearsAgo(n int) time.Time {
	return time.Date(today.Year()-n, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
}

func adultInput() Raw {
	return Raw{
		"name":           "Ana",
		"surnames":       "Ruiz",
		"dni":            "12345678Z",
		"phone":          "+34612345678",
		"address":        "Calle 1",
		"city":           "Gijón",
		"province":       "Asturias",
		"postalCode":     "33001",
		"email":          "a@b.com",
		"birthDate":      yearsAgo(30),
		"acceptTerms":    true,
		"acceptServices": true,
	}
}

func minorInput() Raw {
	raw := adultInput()
	raw["birthDate"] = yearsAgo(16)
	raw["parentName"] = "Luis Ruiz"
	raw["parentPhone"] = "+34611111111"
	raw["parentBirthDate"] = yearsAgo(45)
	raw["parentDni"] = "87654321x"
	return raw
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestValidateRegistration_Adult(t *testing.T) {
	out, err := ValidateRegistration(adultInput(), today)
	require.NoError(t, err)

	assert.Equal(t, "Ana", out.Name)
	assert.Equal(t, "12345678Z", out.DNI)
	assert.Nil(t, out.ParentName)
	assert.Nil(t, out.ParentBirthDate)
	assert.Nil(t, out.IBAN)
	assert.True(t, out.AcceptTerms)
	assert.True(t, out.AcceptServices)
	assert.False(t, out.AcceptAdvertisements)
	assert.False(t, out.AcceptImageRights)
}

func TestValidateRegistration_AdultIgnoresGuardianRules(t *testing.T) {
	raw := adultInput()
	raw["parentName"] = "  "
	raw["parentBirthDate"] = yearsAgo(10)

	_, err := ValidateRegistration(raw, today)
	assert.NoError(t, err)
}

func TestValidateRegistration_MinorWithoutGuardian(t *testing.T) {
	raw := adultInput()
	raw["birthDate"] = yearsAgo(16)

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)

	assert.Equal(t, []string{"parentName", "parentPhone", "parentBirthDate", "parentDni"}, fe.Paths())
	assert.Equal(t, []string{msgParentBirthDateRequired}, fe.For("parentBirthDate"))
}

func TestValidateRegistration_MinorWithBlankGuardianFields(t *testing.T) {
	raw := minorInput()
	raw["parentName"] = "   "
	raw["parentPhone"] = ""
	raw["parentDni"] = ""

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)

	assert.Equal(t, []string{"parentName", "parentPhone", "parentDni"}, fe.Paths())
	assert.Equal(t, []string{msgParentNameRequired}, fe.For("parentName"))
}

func TestValidateRegistration_MinorGuardianIsMinor(t *testing.T) {
	raw := minorInput()
	raw["parentBirthDate"] = yearsAgo(17)

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)

	require.Len(t, fe, 1)
	assert.Equal(t, FieldError{Path: "parentBirthDate", Message: msgParentMustBeAdult}, fe[0])
}

func TestValidateRegistration_MinorWithGuardian(t *testing.T) {
	out, err := ValidateRegistration(minorInput(), today)
	require.NoError(t, err)

	require.NotNil(t, out.ParentDNI)
	assert.Equal(t, "87654321X", *out.ParentDNI)
	require.NotNil(t, out.ParentName)
	assert.Equal(t, "Luis Ruiz", *out.ParentName)
}

func TestValidateRegistration_BirthdayBoundary(t *testing.T) {
	raw := adultInput()
	raw["birthDate"] = time.Date(2008, time.June, 16, 0, 0, 0, 0, time.UTC)

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)
	assert.Len(t, fe, 4)

	nextDay := today.AddDate(0, 0, 1)
	_, err = ValidateRegistration(raw, nextDay)
	assert.NoError(t, err)
}

func TestValidateRegistration_DNINormalization(t *testing.T) {
	raw := adultInput()
	raw["dni"] = "12345678a"

	out, err := ValidateRegistration(raw, today)
	require.NoError(t, err)
	assert.Equal(t, "12345678A", out.DNI)
}

func TestValidateRegistration_IBAN(t *testing.T) {
	t.Run("empty is absent", func(t *testing.T) {
		raw := adultInput()
		raw["iban"] = ""
		out, err := ValidateRegistration(raw, today)
		require.NoError(t, err)
		assert.Nil(t, out.IBAN)
	})

	t.Run("invalid", func(t *testing.T) {
		raw := adultInput()
		raw["iban"] = "INVALID"
		_, err := ValidateRegistration(raw, today)
		fe := fieldErrors(t, err)
		assert.Equal(t, []string{msgIBANInvalid}, fe.For("iban"))
	})

	t.Run("lowercase accepted", func(t *testing.T) {
		raw := adultInput()
		raw["iban"] = "es9121000418450200051332"
		out, err := ValidateRegistration(raw, today)
		require.NoError(t, err)
		require.NotNil(t, out.IBAN)
		assert.Equal(t, "es9121000418450200051332", *out.IBAN)
	})
}

func TestValidateRegistration_CollectsAllFieldErrors(t *testing.T) {
	raw := Raw{
		"name":       "",
		"surnames":   string(make([]rune, 101)),
		"dni":        "12-34",
		"phone":      "612345678",
		"address":    "Calle 1",
		"city":       "Gijón",
		"province":   "Asturias",
		"postalCode": "3300",
		"email":      "not-an-email",
		"parentDni":  "x",
	}

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)

	assert.Equal(t, []string{
		"name", "surnames", "dni", "phone", "postalCode", "email", "birthDate",
		"parentDni", "acceptTerms", "acceptServices",
	}, fe.Paths())
	assert.Equal(t, msgNameRequired, fe.For("name")[0])
	assert.Equal(t, msgPhoneInvalid, fe.For("phone")[0])
}

func TestValidateRegistration_CrossFieldErrorsComeLast(t *testing.T) {
	raw := adultInput()
	raw["birthDate"] = yearsAgo(12)
	raw["acceptTerms"] = false
	raw["postalCode"] = "ABCDE"

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)

	assert.Equal(t, []string{
		"postalCode", "acceptTerms",
		"parentName", "parentPhone", "parentBirthDate", "parentDni",
	}, fe.Paths())
}

func TestValidateRegistration_DNIRegexRunsOnOriginalCasing(t *testing.T) {
	raw := adultInput()
	raw["dni"] = "1234ñ"

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)
	assert.Equal(t, []string{msgDNIInvalid}, fe.For("dni"))
}

func TestValidateRegistration_EmptyPhoneIsRequired(t *testing.T) {
	raw := adultInput()
	raw["phone"] = ""

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)
	assert.Equal(t, []string{msgPhoneRequired}, fe.For("phone"))
}

func TestValidateRegistration_PhoneCountryCode(t *testing.T) {
	for _, phone := range []string{"+0612345678", "+00000000", "+123456", "+1234567890123456"} {
		t.Run(phone, func(t *testing.T) {
			raw := minorInput()
			raw["phone"] = phone
			raw["parentPhone"] = phone

			_, err := ValidateRegistration(raw, today)
			fe := fieldErrors(t, err)
			assert.Equal(t, []string{msgPhoneInvalid}, fe.For("phone"))
			assert.Equal(t, []string{msgPhoneInvalid}, fe.For("parentPhone"))
			assert.Equal(t, []string{"phone", "parentPhone"}, fe.Paths())
		})
	}

	raw := adultInput()
	raw["phone"] = "+442071838750"
	_, err := ValidateRegistration(raw, today)
	require.NoError(t, err)
}

func TestValidateRegistration_MalformedGuardianFieldHasOneError(t *testing.T) {
	raw := minorInput()
	raw["parentDni"] = "x"

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)
	assert.Equal(t, []string{msgDNIInvalid}, fe.For("parentDni"))
	assert.Equal(t, []string{"parentDni"}, fe.Paths())
}

func TestValidateRegistration_Idempotent(t *testing.T) {
	for name, raw := range map[string]Raw{"adult": adultInput(), "minor": minorInput()} {
		t.Run(name, func(t *testing.T) {
			raw["dni"] = "12345678z"
			raw["iban"] = "ES9121000418450200051332"
			raw["acceptImageRights"] = true

			first, err := ValidateRegistration(raw, today)
			require.NoError(t, err)

			second, err := ValidateRegistration(RegistrationRaw(first), today)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestValidateRegistration_FormInput(t *testing.T) {
	form := url.Values{
		"name":            {"Ana"},
		"surnames":        {"Ruiz"},
		"dni":             {"12345678z"},
		"phone":           {"+34612345678"},
		"address":         {"Calle 1"},
		"city":            {"Gijón"},
		"province":        {"Asturias"},
		"postalCode":      {"33001"},
		"email":           {"a@b.com"},
		"birthDate":       {"2010-01-20"},
		"parentName":      {"Luis"},
		"parentPhone":     {"+34611111111"},
		"parentBirthDate": {"1980-05-02"},
		"parentDni":       {"87654321x"},
		"iban":            {""},
		"acceptTerms":     {"on"},
		"acceptServices":  {"on"},
	}

	out, err := ValidateRegistration(FromForm(form), today)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2010, time.January, 20, 0, 0, 0, 0, time.UTC), out.BirthDate)
	assert.Equal(t, "87654321X", *out.ParentDNI)
	assert.Nil(t, out.IBAN)
	assert.False(t, out.AcceptAdvertisements)
}

func TestValidateRegistration_InvalidDates(t *testing.T) {
	raw := minorInput()
	raw["parentBirthDate"] = "yesterday"

	_, err := ValidateRegistration(raw, today)
	fe := fieldErrors(t, err)
	assert.Equal(t, []string{msgParentBirthDate}, fe.For("parentBirthDate"))

	for _, date := range []string{"31/12/1990", "2008-06-14T22:00:00.000Z", "1990-05-20T00:00:00Z"} {
		raw = adultInput()
		raw["birthDate"] = date
		_, err = ValidateRegistration(raw, today)
		fe = fieldErrors(t, err)
		assert.Equal(t, []string{"birthDate"}, fe.Paths(), date)
	}
}

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		today time.Time
		want  int
	}{
		{"birthday today", time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), today, 26},
		{"birthday tomorrow", time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC), today, 25},
		{"birthday last month", time.Date(2000, 5, 30, 0, 0, 0, 0, time.UTC), today, 26},
		{"birthday next month", time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC), today, 25},
		{"leap day before feb 29", time.Date(2008, 2, 29, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), 17},
		{"leap day on mar 1", time.Date(2008, 2, 29, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, tt.today))
		})
	}
}
