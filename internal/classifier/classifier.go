// Package classifier infers a document type and a medical priority level
// from an uploaded patient document. The admission core consumes only the
// priority level and the type tag; everything else in Result is
// informational enrichment for the intake operator.
//
// Document-type detection is a tagged-strategy dispatch: each strategy
// claims a document from its textual content and extracts type-specific
// fields. New document types are added by registering a strategy, without
// touching the admission core.
package classifier

import (
	"context"
	"strings"
)

// DocumentType tags the kind of document a strategy recognized.
type DocumentType string

const (
	// ReferralReport is a physician's referral describing a diagnosis;
	// it carries the priority signal.
	ReferralReport DocumentType = "ReferralReport"
	// SchedulingConfirmation confirms an external appointment; it carries
	// the appointment date and destination.
	SchedulingConfirmation DocumentType = "SchedulingConfirmation"
	// Unknown means no strategy claimed the document. Intake proceeds at
	// the default priority.
	Unknown DocumentType = "Unknown"
	// Error means classification itself failed. Never fatal to intake.
	Error DocumentType = "Error"
)

// Result is the classifier's output contract. PriorityLevel is 1..5 on
// success and 0 on failure; callers clamp it before it enters ranking.
type Result struct {
	DocumentType  DocumentType
	PriorityLevel int
	PatientID     string
	PatientName   string
	Fields        map[string]string
}

// Classifier is the external contract the intake service depends on.
type Classifier interface {
	Classify(ctx context.Context, data []byte, filename string) (Result, error)
}

// strategy recognizes one document family and extracts its fields.
type strategy interface {
	// Claims reports whether this strategy recognizes the document text.
	Claims(text string) bool
	// Extract fills type-specific fields into the result.
	Extract(text string, res *Result)
}

// Keyword is a keyword-driven Classifier working over the document's
// extracted text. It is the production implementation; tests and callers
// that stub classification implement the Classifier interface directly.
type Keyword struct {
	extractor  TextExtractor
	strategies []strategy
}

// NewKeyword builds the keyword classifier with the built-in strategies
// (referral report, scheduling confirmation) and the given text extractor.
func NewKeyword(extractor TextExtractor) *Keyword {
	return &Keyword{
		extractor: extractor,
		strategies: []strategy{
			referralStrategy{},
			schedulingStrategy{},
		},
	}
}

// Classify extracts text from the document and dispatches to the first
// strategy that claims it. Extraction failure yields the Error result with
// priority 0; the caller admits the candidacy at the default priority.
func (k *Keyword) Classify(ctx context.Context, data []byte, filename string) (Result, error) {
	text, err := k.extractor.Extract(ctx, data, filename)
	if err != nil {
		return Result{DocumentType: Error, PriorityLevel: 0}, err
	}

	upper := strings.ToUpper(text)

	res := Result{
		DocumentType:  Unknown,
		PriorityLevel: priorityFromText(upper),
		PatientID:     findNationalID(text),
		PatientName:   findPatientName(text),
		Fields:        map[string]string{},
	}

	for _, s := range k.strategies {
		if s.Claims(upper) {
			s.Extract(text, &res)
			break
		}
	}

	return res, nil
}

// Priority tiers, highest first. A document matching any tier-5 keyword is
// maximum urgency regardless of what else it contains.
var (
	criticalKeywords = []string{
		"ONCOLOG", "CANCER", "QUIMIOTERAPIA", "CHEMOTHERAPY",
		"HEMODIALISE", "HEMODIALYSIS", "CARDIOPATIA GRAVE",
	}
	urgentKeywords = []string{
		"URGENTE", "URGENT", "PRIORIDADE", "PRIORITY",
		"GESTANTE", "PREGNANT", "IDOSO", "ELDERLY",
	}
)

// priorityFromText maps keyword tiers to priority levels:
// critical conditions 5, urgency markers 3, everything else 1 (elective).
func priorityFromText(upper string) int {
	for _, kw := range criticalKeywords {
		if strings.Contains(upper, kw) {
			return 5
		}
	}
	for _, kw := range urgentKeywords {
		if strings.Contains(upper, kw) {
			return 3
		}
	}
	return 1
}
