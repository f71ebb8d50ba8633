package draft

import (
	"context"
	"sync"
	"time"

	"github.com/pharmaport/portal-backend/internal/models"
)

// MemoryPersistence is an in-process Persistence used by tests and as the
// degraded mode when no database is reachable at startup.
type MemoryPersistence struct {
	mu     sync.Mutex
	drafts map[string]models.PersistedDraft
}

// NewMemoryPersistence returns an empty in-memory store.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{drafts: map[string]models.PersistedDraft{}}
}

func (m *MemoryPersistence) key(namespace, subject string) string {
	return namespace + "/" + subject
}

func (m *MemoryPersistence) Save(_ context.Context, d models.PersistedDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.drafts[m.key(d.Namespace, d.Subject)]
	if ok {
		d.Version = prev.Version + 1
	} else {
		d.Version = 1
	}
	d.UpdatedAt = time.Now()
	m.drafts[m.key(d.Namespace, d.Subject)] = d
	return nil
}

func (m *MemoryPersistence) Load(_ context.Context, namespace, subject string) (*models.PersistedDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[m.key(namespace, subject)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryPersistence) Delete(_ context.Context, namespace, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, m.key(namespace, subject))
	return nil
}
