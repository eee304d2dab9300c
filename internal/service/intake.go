package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/classifier"
	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
)

// maxDiagnosticLen bounds the classifier failure text recorded on a
// candidacy so a pathological error message cannot bloat the row.
const maxDiagnosticLen = 100

// IntakeService turns an uploaded patient document into a candidacy.
// Classification seeds the priority; a failed classification is never fatal
// — the candidacy still enters the queue at the default priority with a
// truncated diagnostic recorded on it.
//
// Reclassification of an existing candidacy runs on a background worker so
// classifier latency never blocks admission decisions or ranking queries.
type IntakeService struct {
	classifier  classifier.Classifier
	patients    repo.PatientRepo
	trips       repo.TripRepo
	candidacies repo.CandidacyRepo
	logger      *slog.Logger

	jobs chan reclassifyJob
	wg   sync.WaitGroup
	once sync.Once
}

// reclassifyJob re-runs classification for an existing candidacy.
type reclassifyJob struct {
	candidacyID uuid.UUID
	data        []byte
	filename    string
}

// NewIntakeService constructs an IntakeService. queueSize bounds the number
// of pending background reclassifications; Enqueue fails once it is full
// rather than blocking intake.
func NewIntakeService(c classifier.Classifier, patients repo.PatientRepo, trips repo.TripRepo, candidacies repo.CandidacyRepo, logger *slog.Logger, queueSize int) *IntakeService {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &IntakeService{
		classifier:  c,
		patients:    patients,
		trips:       trips,
		candidacies: candidacies,
		logger:      logger,
		jobs:        make(chan reclassifyJob, queueSize),
	}
}

// IntakeRequest carries an uploaded document plus the caller's context.
// PatientID and TripID are optional: when PatientID is zero the patient is
// resolved (or auto-registered) from the identifier extracted from the
// document.
type IntakeRequest struct {
	Data      []byte
	Filename  string
	PatientID uuid.UUID
	TripID    *uuid.UUID
	Companion bool
}

// IntakeResult reports the created candidacy together with what the
// classifier saw, so the operator can verify the extraction.
type IntakeResult struct {
	Candidacy      domain.Candidacy
	Patient        domain.Patient
	Classification classifier.Result
}

// ProcessDocument classifies the document and creates the candidacy
// synchronously. Classification failure downgrades to the default priority
// with a diagnostic note; only a missing patient reference aborts intake.
func (s *IntakeService) ProcessDocument(ctx context.Context, req IntakeRequest) (IntakeResult, error) {
	res, cerr := s.classifier.Classify(ctx, req.Data, req.Filename)
	if cerr != nil {
		s.logger.Warn("classification failed, continuing at default priority",
			"filename", req.Filename, "error", cerr)
	}

	patient, err := s.resolvePatient(ctx, req, res)
	if err != nil {
		return IntakeResult{}, err
	}

	if req.TripID != nil {
		if _, err := s.trips.GetByID(ctx, *req.TripID); err != nil {
			return IntakeResult{}, fmt.Errorf("service.IntakeService.ProcessDocument: trip: %w", err)
		}
	}

	c := domain.Candidacy{
		PatientID:      patient.ID,
		TripID:         req.TripID,
		Priority:       domain.ClampPriority(res.PriorityLevel),
		Companion:      req.Companion,
		Procedure:      procedureFromResult(res),
		ClassifierNote: classifierNote(res, cerr),
	}

	created, err := s.candidacies.Create(ctx, c)
	if err != nil {
		return IntakeResult{}, fmt.Errorf("service.IntakeService.ProcessDocument: %w", err)
	}

	return IntakeResult{Candidacy: created, Patient: patient, Classification: res}, nil
}

// Enqueue schedules a background reclassification of an existing candidacy.
// It never blocks: when the queue is full the job is refused and the
// candidacy simply keeps its current priority.
func (s *IntakeService) Enqueue(candidacyID uuid.UUID, data []byte, filename string) error {
	select {
	case s.jobs <- reclassifyJob{candidacyID: candidacyID, data: data, filename: filename}:
		return nil
	default:
		return fmt.Errorf("service.IntakeService.Enqueue: classification queue full")
	}
}

// Start launches the background classification worker. Call Close to drain
// the queue and stop it.
func (s *IntakeService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for job := range s.jobs {
			s.process(ctx, job)
		}
	}()
}

// Close stops accepting jobs, waits for queued ones to finish, and returns.
func (s *IntakeService) Close() {
	s.once.Do(func() { close(s.jobs) })
	s.wg.Wait()
}

// process applies one background classification result. The repo refuses
// the update once the candidacy has been decided, so a slow classifier can
// never overwrite an approved or rejected record.
func (s *IntakeService) process(ctx context.Context, job reclassifyJob) {
	res, cerr := s.classifier.Classify(ctx, job.data, job.filename)

	current, err := s.candidacies.GetByID(ctx, job.candidacyID)
	if err != nil {
		s.logger.Warn("reclassification target gone", "candidacy_id", job.candidacyID, "error", err)
		return
	}
	if current.Status != domain.StatusAwaitingAnalysis {
		return
	}

	priority := current.Priority
	procedure := current.Procedure
	if cerr == nil {
		priority = domain.ClampPriority(res.PriorityLevel)
		if p := procedureFromResult(res); p != "" {
			procedure = p
		}
	}

	if _, err := s.candidacies.ApplyClassification(ctx, job.candidacyID, priority, procedure, classifierNote(res, cerr)); err != nil {
		// A decision may have landed between the status read and the update;
		// the conditional UPDATE then matches nothing, which is fine.
		s.logger.Warn("reclassification not applied", "candidacy_id", job.candidacyID, "error", err)
		return
	}

	s.logger.Info("classification applied",
		"candidacy_id", job.candidacyID,
		"document_type", res.DocumentType,
		"priority", priority,
	)
}

// resolvePatient returns the explicitly given patient, or finds/registers
// one by the national identifier the classifier extracted.
func (s *IntakeService) resolvePatient(ctx context.Context, req IntakeRequest, res classifier.Result) (domain.Patient, error) {
	if req.PatientID != uuid.Nil {
		patient, err := s.patients.GetByID(ctx, req.PatientID)
		if err != nil {
			return domain.Patient{}, fmt.Errorf("service.IntakeService.ProcessDocument: patient: %w", err)
		}
		return patient, nil
	}

	if res.PatientID == "" {
		return domain.Patient{}, fmt.Errorf("%w: no patient reference: document has no readable national id", domain.ErrValidation)
	}

	patient, err := s.patients.GetByNationalID(ctx, res.PatientID)
	if err == nil {
		return patient, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Patient{}, fmt.Errorf("service.IntakeService.ProcessDocument: patient lookup: %w", err)
	}

	name := res.PatientName
	if name == "" {
		name = "Pending verification"
	}
	created, err := s.patients.Create(ctx, domain.Patient{NationalID: res.PatientID, Name: name})
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.IntakeService.ProcessDocument: auto-register patient: %w", err)
	}
	s.logger.Info("patient auto-registered from document", "national_id", res.PatientID)
	return created, nil
}

// procedureFromResult pulls the procedure description the classifier found,
// if any.
func procedureFromResult(res classifier.Result) string {
	if p := res.Fields["procedure"]; p != "" {
		return p
	}
	return ""
}

// classifierNote summarizes the classification outcome for the candidacy
// record. Failure diagnostics are truncated.
func classifierNote(res classifier.Result, cerr error) string {
	if cerr != nil {
		msg := cerr.Error()
		if len(msg) > maxDiagnosticLen {
			msg = msg[:maxDiagnosticLen]
		}
		return "classification failed: " + msg
	}
	return "classified as " + string(res.DocumentType)
}
