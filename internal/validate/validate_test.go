package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestStructValid(t *testing.T) {
	fe := Struct(signupPayload{Username: "@gm", Email: "gm@example.com", Password: "secure不"})
	assert.Nil(t, fe)
}

func TestStructCollectsAllFieldErrors(t *testing.T) {
	fe := Struct(signupPayload{})
	require.NotNil(t, fe)

	// Every failing field is reported, not just the first.
	assert.Equal(t, []string{"This field is required."}, fe["username"])
	assert.Equal(t, []string{"This field is required."}, fe["email"])
	assert.Equal(t, []string{"This field is required."}, fe["password"])
}

func TestStructInvalidEmail(t *testing.T) {
	for _, bad := range []string{"name", "na.me", "@name", "@nam.e", "gm@"} {
		fe := Struct(signupPayload{Username: "u", Email: bad, Password: "p"})
		require.NotNil(t, fe, "email %q should fail", bad)
		assert.Equal(t, []string{"Enter a valid email address."}, fe["email"])
	}
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	fe := Struct(signupPayload{Username: "u", Password: "p"})
	require.NotNil(t, fe)
	_, hasJSONName := fe["email"]
	_, hasGoName := fe["Email"]
	assert.True(t, hasJSONName)
	assert.False(t, hasGoName)
}

func TestStructNotBlank(t *testing.T) {
	type payload struct {
		Content string `json:"content" validate:"required,notblank"`
	}
	fe := Struct(payload{Content: "   \n\t"})
	require.NotNil(t, fe)
	assert.Equal(t, []string{"This field may not be blank."}, fe["content"])

	assert.Nil(t, Struct(payload{Content: "hello"}))
}
