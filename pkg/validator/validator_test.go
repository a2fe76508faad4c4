package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name   string   `json:"name" validate:"required"`
	Email  string   `json:"email" validate:"required,email"`
	Rating float64  `json:"rating" validate:"gte=0,lte=5"`
	Tags   []string `json:"tags" validate:"required"`
}

func valid() sampleInput {
	return sampleInput{
		Name:   "acme",
		Email:  "a@example.com",
		Rating: 4.2,
		Tags:   []string{"x"},
	}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(valid()))
}

func TestValidate_RequiredField(t *testing.T) {
	in := valid()
	in.Name = ""

	err := Validate(in)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["Name"])
}

func TestValidate_Email(t *testing.T) {
	in := valid()
	in.Email = "not-an-email"

	err := Validate(in)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Email"], "valid email")
}

func TestValidate_RangeBounds(t *testing.T) {
	in := valid()
	in.Rating = 5.5

	err := Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rating")
}

func TestValidationError_JoinsMessages(t *testing.T) {
	err := Validate(sampleInput{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Fields(), 3)
	assert.Contains(t, err.Error(), ";")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"name":"acme","email":"a@example.com","rating":4,"tags":["x"]}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var in sampleInput
	require.NoError(t, DecodeAndValidate(req, &in))
	assert.Equal(t, "acme", in.Name)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("{{nope"))

	var in sampleInput
	err := DecodeAndValidate(req, &in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_FailsValidation(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"acme"}`))

	var in sampleInput
	err := DecodeAndValidate(req, &in)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}
