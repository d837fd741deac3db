package validator

import (
	"testing"

	"dayflow/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string      `validate:"required"`
	Role entity.Role `validate:"required,role"`
}

func TestCustomValidator(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Name: "a", Role: entity.RoleAdmin}))

	err := v.Validate(&sample{Role: entity.RoleEmployee})
	require.Error(t, err)
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "Name", validationErrs[0].Field())

	err = v.Validate(&sample{Name: "a", Role: "manager"})
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "role", validationErrs[0].Tag())
}
