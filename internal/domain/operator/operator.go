package operator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid operator")
	ErrNotFound     = errors.New("operator not found")
	ErrDuplicate    = errors.New("operator email already registered")
)

// Operator is a technologist who can own tasks. Operators are deactivated, never deleted.
type Operator struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func New(name, email string) (Operator, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" {
		return Operator{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return Operator{}, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}
	return Operator{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}, nil
}
