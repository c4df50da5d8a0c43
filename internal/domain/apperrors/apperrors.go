// Package apperrors holds the error kinds shared by the ingestion core, its stores and
// the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/domain/validation"
)

// ErrStorage marks failures raised by a persistence backend. Stores wrap their driver
// errors with it.
var ErrStorage = errors.New("storage failure")

// Kind classifies why a record could not be created.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return "unexpected"
	}
}

// CreateError is returned by every failed creation.
type CreateError struct {
	Entity models.Entity
	Kind   Kind
	Err    error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Entity, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// NewCreateError classifies err and attaches the entity.
func NewCreateError(entity models.Entity, err error) *CreateError {
	return &CreateError{Entity: entity, Kind: Classify(err), Err: err}
}

// Storage wraps a backend failure so it is recognised as KindStorage.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Classify derives the kind of an arbitrary error.
func Classify(err error) Kind {
	var createErr *CreateError
	if errors.As(err, &createErr) {
		return createErr.Kind
	}

	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrStorage):
		return KindStorage
	default:
		return KindUnexpected
	}
}

// Message is the human readable cause without the entity prefix.
func Message(err error) string {
	var createErr *CreateError
	if errors.As(err, &createErr) && createErr.Err != nil {
		return createErr.Err.Error()
	}
	return err.Error()
}
