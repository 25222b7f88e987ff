package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := Invalid("email", "must not be empty")

	require.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "email: must not be empty", err.Error())

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
}

func TestValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("reset password: %w", Invalid("confirmation", "passwords do not match"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNetwork))
}
