package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Record is one successful hand-off of an external task to an operator.
// Records are append-only; today's count per operator is the quota figure.
type Record struct {
	ID            uuid.UUID `json:"id"`
	TaskID        string    `json:"task_id"`
	OperatorEmail string    `json:"operator_email"`
	AssignedAt    time.Time `json:"assigned_at"`
}

func New(taskID, operatorEmail string, at time.Time) Record {
	return Record{
		ID:            uuid.New(),
		TaskID:        taskID,
		OperatorEmail: operatorEmail,
		AssignedAt:    at,
	}
}
