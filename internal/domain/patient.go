package domain

import (
	"time"

	"github.com/google/uuid"
)

// Patient is owned by the registration subsystem; the admission core only
// references it from candidacies and never mutates it mid-transaction.
// NationalID is the unique national health identifier used to find or
// auto-register a patient during document intake.
type Patient struct {
	ID         uuid.UUID `json:"id"`
	NationalID string    `json:"national_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
