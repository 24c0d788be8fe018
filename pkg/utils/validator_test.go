package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128,password"`
	Phone    string `json:"phone" validate:"required,phone"`
	Age      int    `json:"age" validate:"max=120"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(signup{Email: "a@x.com", Password: "Passw0rd", Phone: "+14155552671"})
	assert.Empty(t, errs)
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	errs := ValidateStruct(signup{Email: "nope", Password: "short", Phone: "0123", Age: 200})

	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Minimum length is 8", errs["password"])
	assert.Equal(t, "Invalid phone number format", errs["phone"])
	assert.Equal(t, "Must be at most 120", errs["age"])
}

func TestValidateStruct_PasswordPolicy(t *testing.T) {
	cases := map[string]bool{
		"Passw0rd":  true,
		"12345678a": true,
		"password":  false,
		"12345678":  false,
		"Pass 0rd!": true,
	}

	for password, ok := range cases {
		errs := ValidateStruct(signup{Email: "a@x.com", Password: password, Phone: "+14155552671"})
		if ok {
			assert.Empty(t, errs, password)
		} else {
			assert.Equal(t, "Password must contain at least one letter and one number", errs["password"], password)
		}
	}
}

func TestValidateStruct_PhonePattern(t *testing.T) {
	valid := []string{"+14155552671", "9876543210", "+919876543210"}
	invalid := []string{"0123456", "+0123", "phone", "+1 415 555", "1234567890123456"}

	for _, phone := range valid {
		assert.Empty(t, ValidateStruct(signup{Email: "a@x.com", Password: "Passw0rd", Phone: phone}), phone)
	}
	for _, phone := range invalid {
		errs := ValidateStruct(signup{Email: "a@x.com", Password: "Passw0rd", Phone: phone})
		assert.Contains(t, errs, "phone", phone)
	}
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{
		"phone": "bad",
		"email": "worse",
	})
	assert.Equal(t, "email: worse; phone: bad", msg)
}

func TestCalculatePagination(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
	assert.Equal(t, 0, CalculateTotalPages(5, 0))

	assert.Equal(t, 0, CalculateOffset(1, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("x", 1))
	assert.Equal(t, 1, ParseInt("-3", 1))
}
