package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/domain/validation"
)

func TestClassify(t *testing.T) {
	var in models.FarmCreate
	verr := validation.Decode([]byte(`{}`), &in)

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", verr, KindValidation},
		{"wrapped validation", fmt.Errorf("decode: %w", verr), KindValidation},
		{"storage", Storage("insert lote", errors.New("connection refused")), KindStorage},
		{"context canceled from a store", Storage("insert lote", context.Canceled), KindStorage},
		{"plain error", errors.New("boom"), KindUnexpected},
		{"create error keeps its kind", &CreateError{Entity: models.EntityBatch, Kind: KindStorage, Err: errors.New("x")}, KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestStorage_WrapsBothCauses(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Storage("insert granja", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert granja: storage failure: duplicate key", err.Error())
}

func TestCreateError(t *testing.T) {
	cause := Storage("insert pollo", errors.New("timeout"))
	err := NewCreateError(models.EntityAnimal, cause)

	assert.Equal(t, KindStorage, err.Kind)
	assert.Equal(t, "create pollo: insert pollo: storage failure: timeout", err.Error())
	assert.Equal(t, "insert pollo: storage failure: timeout", Message(err))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "storage", KindStorage.String())
	assert.Equal(t, "unexpected", KindUnexpected.String())
}
