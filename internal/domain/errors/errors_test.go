package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())
	assert.ErrorIs(t, err, ErrBadRequest)

	assert.Equal(t, "plain", NewAppError(http.StatusTeapot, "TEAPOT", "plain", nil).Error())

	assert.Equal(t, http.StatusNotFound, NotFound("missing").Status)
	assert.Equal(t, CodeForbidden, Forbidden("no").Code)
	assert.Equal(t, CodeUnauthorized, Unauthorized("no").Code)
	assert.Equal(t, http.StatusConflict, Conflict("dup").Status)
	assert.Equal(t, CodeBadRequest, BadRequest("x").Code)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternal, internal.Code)
}

func TestValidationError(t *testing.T) {
	v := NewValidationError(Field("email", FieldRequired, "email is required"))
	v.Add("password", FieldWeakPassword, "password is too weak")

	assert.ErrorIs(t, v, ErrInvalidInput)
	assert.NotErrorIs(t, v, ErrUploadRejected)
	assert.NotErrorIs(t, v, ErrAlreadyExists)
	assert.True(t, v.HasCode(FieldRequired))
	assert.False(t, v.HasCode(FieldUnique))
	assert.Contains(t, v.Error(), "email: email is required")
	assert.Contains(t, v.Error(), "password: password is too weak")

	assert.ErrorIs(t, Unique("email"), ErrAlreadyExists)
	assert.ErrorIs(t, UploadRejected("government_id", "too large"), ErrUploadRejected)

	wrapped := fmt.Errorf("step 1: %w", Unique("store_name"))
	var got *ValidationError
	require.True(t, stderrors.As(wrapped, &got))
	assert.Equal(t, "store_name", got.Fields[0].Field)

	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
	assert.NoError(t, (&ValidationError{}).OrNil())
	var nilV *ValidationError
	assert.NoError(t, nilV.OrNil())
	assert.Error(t, v.OrNil())
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Unique("email"), http.StatusUnprocessableEntity, CodeValidationFailed},
		{"upload", UploadRejected("live_selfie", "pdf not allowed"), http.StatusUnprocessableEntity, CodeUploadRejected},
		{"missing cursor", fmt.Errorf("step 2: %w", ErrMissingCursor), http.StatusSeeOther, CodeSessionExpired},
		{"step conflict", ErrStepConflict, http.StatusConflict, CodeStepConflict},
		{"step in progress", ErrStepInProgress, http.StatusConflict, CodeStepConflict},
		{"transition", fmt.Errorf("approved -> approved: %w", ErrInvalidTransition), http.StatusConflict, CodeInvalidTransition},
		{"registration closed", ErrRegistrationClosed, http.StatusConflict, CodeInvalidTransition},
		{"stock", ErrInsufficientStock, http.StatusConflict, CodeConflict},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized},
		{"not approved", ErrNotApproved, http.StatusForbidden, CodeForbidden},
		{"not found", ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"bad input", ErrInvalidInput, http.StatusBadRequest, CodeBadRequest},
		{"app error passthrough", Forbidden("role mismatch"), http.StatusForbidden, CodeForbidden},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}

	assert.Nil(t, ToAppError(nil))

	fields := ToAppError(Unique("store_name")).Fields
	require.Len(t, fields, 1)
	assert.Equal(t, FieldUnique, fields[0].Code)

	defaulted := ToAppError(&AppError{Message: "bare"})
	assert.Equal(t, http.StatusBadRequest, defaulted.Status)
	assert.Equal(t, CodeBadRequest, defaulted.Code)
}
