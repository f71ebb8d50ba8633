// Package submit gate-checks a completed registration draft, bundles it with
// the transient document uploads, and performs the one-shot registration
// call against the marketplace registry.
package submit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pharmaport/portal-backend/internal/config"
	"github.com/pharmaport/portal-backend/internal/draft"
	"github.com/pharmaport/portal-backend/internal/models"
	"github.com/pharmaport/portal-backend/internal/registry"
)

// Registrar is the slice of the registry client the pipeline needs.
type Registrar interface {
	Register(ctx context.Context, req registry.RegisterRequest) (*registry.RegisterResponse, error)
}

// GateError is a precondition failure: the submission was refused before any
// network call was attempted. The message is wizard-facing.
type GateError struct {
	Message string
	Fields  map[string]string
}

func (e *GateError) Error() string { return e.Message }

// Result reports a successful submission.
type Result struct {
	ApplicationID string `json:"applicationId"`
	Complete      bool   `json:"registrationComplete"`
}

// Pipeline performs registrations. It enforces at most one in-flight
// submission per subject; the backend owns any deeper deduplication.
type Pipeline struct {
	registrar Registrar
	checklist *config.DocumentChecklist

	mu       sync.Mutex
	inflight map[string]bool
}

// NewPipeline creates a submission pipeline.
func NewPipeline(registrar Registrar, checklist *config.DocumentChecklist) *Pipeline {
	return &Pipeline{
		registrar: registrar,
		checklist: checklist,
		inflight:  map[string]bool{},
	}
}

// Submit drains a completed draft and the session's document slots into
// exactly one registration call.
//
// On success the draft is cleared and the slots evicted; on any failure the
// draft is left untouched so the user can retry without re-entering data,
// and a registry rejection comes back verbatim.
func (p *Pipeline) Submit(ctx context.Context, store *draft.Store, slots map[int]*models.DocumentSlot, creds models.Credentials, subject string, evict func()) (*Result, error) {
	if !p.begin(subject) {
		return nil, &GateError{Message: "A submission is already in progress"}
	}
	defer p.end(subject)

	snapshot := store.Snapshot()
	if !snapshot.Complete() {
		return nil, &GateError{Message: "Please complete all registration steps before submitting"}
	}

	if docResult := ValidateDocuments(slots, p.checklist); !docResult.Complete {
		return nil, &GateError{Message: docResult.Message()}
	}

	if fieldErrs := ValidateCredentials(creds); len(fieldErrs) > 0 {
		return nil, &GateError{Message: "Please correct the highlighted fields", Fields: fieldErrs}
	}

	req := registry.RegisterRequest{
		Sections: snapshot.Sections,
		Email:    creds.Email,
		Password: creds.Password,
	}
	for i := range p.checklist.Requirements {
		doc := slots[i]
		req.Documents = append(req.Documents, registry.DocumentPart{
			Category:    doc.Category,
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			Content:     doc.Content,
		})
	}

	resp, err := p.registrar.Register(ctx, req)
	if err != nil {
		// Draft stays intact for retry; the registry message passes through
		// untouched.
		logrus.WithError(err).WithField("subject", subject).Warn("Registration submission failed")
		return nil, err
	}

	store.Clear(ctx)
	if evict != nil {
		evict()
	}

	logrus.WithFields(logrus.Fields{
		"subject":       subject,
		"applicationId": resp.ApplicationID,
	}).Info("Registration submitted")

	return &Result{ApplicationID: resp.ApplicationID, Complete: true}, nil
}

func (p *Pipeline) begin(subject string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[subject] {
		return false
	}
	p.inflight[subject] = true
	return true
}

func (p *Pipeline) end(subject string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, subject)
}

var _ Registrar = (*registry.Client)(nil)
