// Package draft owns the in-progress registration application: the step
// cursor, the validated section slots, and their durable persistence. All
// step components mutate the draft exclusively through a Store; nothing else
// touches another step's slot.
package draft

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pharmaport/portal-backend/internal/models"
)

// Namespace keys every persisted draft so the collection can host other
// flows later without collisions.
const Namespace = "pharmaport:registration"

// Persistence is the durable storage port. Only the whitelisted subset
// {currentStep, sections} ever crosses it.
type Persistence interface {
	Save(ctx context.Context, d models.PersistedDraft) error
	Load(ctx context.Context, namespace, subject string) (*models.PersistedDraft, error)
	Delete(ctx context.Context, namespace, subject string) error
}

// Store accumulates one subject's registration draft. Mutations are
// last-write-wins per section slot and persist after every change;
// persistence failures degrade to in-memory operation with a warning rather
// than failing the mutation.
type Store struct {
	subject string
	draft   models.RegistrationDraft
	persist Persistence
	log     *logrus.Entry
}

// NewStore creates an empty draft store for a subject.
func NewStore(subject string, persist Persistence) *Store {
	return &Store{
		subject: subject,
		draft:   models.EmptyDraft(),
		persist: persist,
		log:     logrus.WithField("subject", subject),
	}
}

// Resume loads the persisted draft for a subject, or returns a fresh store
// when none exists. Credentials are never part of the persisted subset, so a
// resumed draft always comes back without them.
func Resume(ctx context.Context, subject string, persist Persistence) *Store {
	s := NewStore(subject, persist)
	saved, err := persist.Load(ctx, Namespace, subject)
	if err != nil {
		s.log.WithError(err).Warn("Failed to load persisted draft, starting empty")
		return s
	}
	if saved == nil {
		return s
	}

	s.draft.CurrentStep = clampStep(saved.CurrentStep)
	if saved.Sections != nil {
		s.draft.Sections = saved.Sections
	}
	// A tampered or stale cursor still honors the sequencing invariant.
	if max := s.draft.HighestCompletedStep() + 1; s.draft.CurrentStep > max {
		s.draft.CurrentStep = clampStep(max)
	}
	return s
}

// Snapshot returns a copy of the current draft.
func (s *Store) Snapshot() models.RegistrationDraft {
	out := s.draft
	out.Sections = make(map[models.StepID]models.SectionPayload, len(s.draft.Sections))
	for k, v := range s.draft.Sections {
		out.Sections[k] = v
	}
	return out
}

// CurrentStep returns the cursor position.
func (s *Store) CurrentStep() int { return s.draft.CurrentStep }

// UpdateFormData overwrites the named section slot with a payload that has
// already passed the step's own validation. The store does no cross-field
// checking here; it never fails.
func (s *Store) UpdateFormData(ctx context.Context, step models.StepID, data models.SectionPayload) {
	s.draft.Sections[step] = data
	s.save(ctx)
}

// SetCredentials captures the final-step credentials in memory only.
func (s *Store) SetCredentials(c models.Credentials) {
	s.draft.Credentials = &c
}

// NextStep advances the cursor by one, clamped at the last step. The caller
// asserts that the step being left passed its validation; advancing past an
// incomplete step is refused so a forgotten call-site check cannot skip a
// gate.
func (s *Store) NextStep(ctx context.Context, stepValid bool) bool {
	if !stepValid {
		return false
	}
	if s.draft.CurrentStep >= models.LastStep {
		return false
	}
	if s.draft.CurrentStep > s.draft.HighestCompletedStep() {
		return false
	}
	s.draft.CurrentStep++
	s.save(ctx)
	return true
}

// PrevStep retreats the cursor by one; no-op at the first step.
func (s *Store) PrevStep(ctx context.Context) {
	if s.draft.CurrentStep <= models.FirstStep {
		return
	}
	s.draft.CurrentStep--
	s.save(ctx)
}

// SetStep jumps the cursor directly, clamping any integer into the valid
// range and never past one beyond the highest completed step.
func (s *Store) SetStep(ctx context.Context, n int) {
	n = clampStep(n)
	if max := s.draft.HighestCompletedStep() + 1; n > max {
		n = clampStep(max)
	}
	s.draft.CurrentStep = n
	s.save(ctx)
}

// Clear resets to the empty draft and drops the persisted copy. Called once
// after a successful submission or on explicit abandonment; calling it again
// is harmless.
func (s *Store) Clear(ctx context.Context) {
	s.draft = models.EmptyDraft()
	if err := s.persist.Delete(ctx, Namespace, s.subject); err != nil {
		s.log.WithError(err).Warn("Failed to delete persisted draft")
	}
}

func (s *Store) save(ctx context.Context) {
	err := s.persist.Save(ctx, models.PersistedDraft{
		Subject:     s.subject,
		Namespace:   Namespace,
		CurrentStep: s.draft.CurrentStep,
		Sections:    s.draft.Sections,
	})
	if err != nil {
		// Losing durability degrades to in-memory only; the flow keeps going.
		s.log.WithError(err).Warn("Failed to persist draft")
	}
}

func clampStep(n int) int {
	if n < models.FirstStep {
		return models.FirstStep
	}
	if n > models.LastStep {
		return models.LastStep
	}
	return n
}
