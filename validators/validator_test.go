package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/yatube/internal/models"
)

func TestValidate_PostForm(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&models.PostForm{Text: "hello"}))
	require.NoError(t, v.Validate(&models.PostForm{Text: "hello", Group: "12"}))

	err := v.Validate(&models.PostForm{Group: "abc"})
	require.Error(t, err)
	errs := FieldErrors(err)
	assert.Equal(t, "This field is required.", errs["text"])
	assert.Equal(t, "Select a valid choice.", errs["group"])
}

func TestValidate_SignupForm(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		form  models.SignupForm
		field string
	}{
		{"bad username", models.SignupForm{Username: "bad name", Password: "password1", PasswordConfirm: "password1"}, "username"},
		{"short password", models.SignupForm{Username: "leo", Password: "short", PasswordConfirm: "short"}, "password"},
		{"mismatch", models.SignupForm{Username: "leo", Password: "password1", PasswordConfirm: "password2"}, "password_confirm"},
		{"bad email", models.SignupForm{Username: "leo", Email: "nope", Password: "password1", PasswordConfirm: "password1"}, "email"},
		{"reserved username", models.SignupForm{Username: "follow", Password: "password1", PasswordConfirm: "password1"}, "username"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := FieldErrors(v.Validate(&tc.form))
			assert.Contains(t, errs, tc.field)
		})
	}

	ok := models.SignupForm{Username: "leo.t@x+y-z_1", Password: "password1", PasswordConfirm: "password1"}
	assert.NoError(t, v.Validate(&ok))
}

func TestIsReservedUsername(t *testing.T) {
	for _, name := range []string{"new", "follow", "group", "auth", "about", "media", "health", "Follow"} {
		assert.True(t, IsReservedUsername(name), name)
	}
	for _, name := range []string{"leo", "newton", "followers", ""} {
		assert.False(t, IsReservedUsername(name), name)
	}

	errs := FieldErrors(NewValidator().Validate(&models.SignupForm{Username: "media", Password: "password1", PasswordConfirm: "password1"}))
	assert.Equal(t, "This username is reserved.", errs["username"])
}

func TestValidate_GroupSlug(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.Group{Title: "Cats", Slug: "cats_and-dogs1"}))

	errs := FieldErrors(v.Validate(&models.Group{Title: "Cats", Slug: "cats & dogs"}))
	assert.Contains(t, errs["slug"], "valid slug")
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	errs := FieldErrors(errors.New("boom"))
	assert.Equal(t, "boom", errs[NonFieldErrors])
}
