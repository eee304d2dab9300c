package domain

import (
	"time"

	"github.com/google/uuid"
)

// CandidacyStatus enumerates the states of a candidacy's lifecycle.
// Only AwaitingAnalysis -> Approved and AwaitingAnalysis -> Rejected pass
// through the admission transaction; Waitlisted and CostAssistance are
// assigned manually by a manager and are not capacity-checked.
// Approved and Rejected are terminal: no reversal or seat-release path exists.
type CandidacyStatus string

const (
	StatusAwaitingAnalysis CandidacyStatus = "Awaiting_Analysis"
	StatusApproved         CandidacyStatus = "Approved"
	StatusRejected         CandidacyStatus = "Rejected"
	StatusWaitlisted       CandidacyStatus = "Waitlisted"
	StatusCostAssistance   CandidacyStatus = "CostAssistance"
)

// ParseCandidacyStatus validates a status string from an external caller.
// Returns ErrValidation for anything outside the closed enumeration.
func ParseCandidacyStatus(s string) (CandidacyStatus, error) {
	switch CandidacyStatus(s) {
	case StatusAwaitingAnalysis, StatusApproved, StatusRejected, StatusWaitlisted, StatusCostAssistance:
		return CandidacyStatus(s), nil
	}
	return "", ErrValidation
}

// BoardingStatus tracks the driver's check-in of an approved passenger.
type BoardingStatus string

const (
	BoardingPending BoardingStatus = "Pending"
	BoardingBoarded BoardingStatus = "Boarded"
	BoardingAbsent  BoardingStatus = "Absent"
)

// ParseBoardingStatus validates a boarding status string.
func ParseBoardingStatus(s string) (BoardingStatus, error) {
	switch BoardingStatus(s) {
	case BoardingPending, BoardingBoarded, BoardingAbsent:
		return BoardingStatus(s), nil
	}
	return "", ErrValidation
}

// Priority bounds. 5 is the most urgent (oncology, hemodialysis);
// 1 is elective/routine and also the safe default when classification fails.
const (
	PriorityMin     = 1
	PriorityMax     = 5
	PriorityDefault = 1
)

// ClampPriority forces a classifier- or caller-supplied priority into the
// valid 1..5 range. A failed classification reports 0, which lands on the
// default rather than blocking intake.
func ClampPriority(p int) int {
	if p < PriorityMin {
		return PriorityDefault
	}
	if p > PriorityMax {
		return PriorityMax
	}
	return p
}

// Candidacy is a patient's request for a seat on a specific trip.
// TripID is nil until a trip is chosen. CreatedAt is assigned by the
// database at insert time and is immutable; it is the ranking tie-break.
type Candidacy struct {
	ID             uuid.UUID       `json:"id"`
	PatientID      uuid.UUID       `json:"patient_id"`
	TripID         *uuid.UUID      `json:"trip_id,omitempty"`
	Priority       int             `json:"priority"`
	Companion      bool            `json:"companion"`
	Procedure      string          `json:"procedure,omitempty"`
	Status         CandidacyStatus `json:"status"`
	Approved       bool            `json:"approved"`
	BoardingStatus BoardingStatus  `json:"boarding_status"`
	ClassifierNote string          `json:"classifier_note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RequiredSeats returns how many seats an approval of this candidacy
// consumes: 2 with a companion, 1 otherwise.
func (c Candidacy) RequiredSeats() int {
	if c.Companion {
		return 2
	}
	return 1
}

// RankedCandidate is one row of the manager's ranking view: a candidacy
// joined with its patient, ordered by (priority desc, created_at asc, id asc).
type RankedCandidate struct {
	Candidacy
	PatientName       string `json:"patient_name"`
	PatientNationalID string `json:"patient_national_id"`
}

// ManifestEntry is one row of the driver's boarding list: an approved
// candidacy joined with its patient.
type ManifestEntry struct {
	CandidacyID       uuid.UUID      `json:"candidacy_id"`
	PatientName       string         `json:"patient_name"`
	PatientNationalID string         `json:"patient_national_id"`
	Companion         bool           `json:"companion"`
	BoardingStatus    BoardingStatus `json:"boarding_status"`
}
