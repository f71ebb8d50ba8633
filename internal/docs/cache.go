// Package docs holds the transient document slots for an in-progress
// registration. Slot contents exist only in memory for the lifetime of the
// session; they are attached to the submission directly and never reach
// durable storage.
package docs

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/pharmaport/portal-backend/internal/config"
	"github.com/pharmaport/portal-backend/internal/models"
)

const (
	sessionTTL      = 4 * time.Hour
	cleanupInterval = 10 * time.Minute
)

type sessionSlots struct {
	mu    sync.Mutex
	slots map[int]*models.DocumentSlot
}

// Cache keeps one slot set per session, expiring idle sessions and releasing
// their preview handles on eviction.
type Cache struct {
	mu        sync.Mutex
	sessions  *gocache.Cache
	checklist *config.DocumentChecklist
	preview   Previewer
}

// NewCache creates the slot cache over the configured document checklist.
func NewCache(checklist *config.DocumentChecklist, preview Previewer) *Cache {
	c := &Cache{
		sessions:  gocache.New(sessionTTL, cleanupInterval),
		checklist: checklist,
		preview:   preview,
	}
	c.sessions.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*sessionSlots); ok {
			c.releaseAll(s)
		}
	})
	return c
}

// session returns the slot set for id, creating it if absent. The lookup and
// create run under one lock so concurrent requests share a single slot set,
// and every access re-Sets the entry so the TTL measures idleness rather than
// age; an active wizard session never expires mid-flow.
func (c *Cache) session(id string) *sessionSlots {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.sessions.Get(id); ok {
		s := v.(*sessionSlots)
		c.sessions.SetDefault(id, s)
		return s
	}
	s := &sessionSlots{slots: map[int]*models.DocumentSlot{}}
	c.sessions.SetDefault(id, s)
	return s
}

// Put validates an upload against its slot's requirement and stores it,
// replacing any previous upload in that slot and releasing its preview.
// Validation problems are recorded on the slot rather than returned as an
// error, so the wizard can show them inline; only a nonexistent slot index
// is an outright failure.
func (c *Cache) Put(ctx context.Context, sessionID string, slot int, declaredType, filename string, content []byte) (*models.DocumentSlot, error) {
	req, ok := c.checklist.Requirement(slot)
	if !ok {
		return nil, fmt.Errorf("no document slot %d", slot)
	}

	doc := &models.DocumentSlot{
		Slot:       slot,
		Category:   req.Category,
		FileName:   filename,
		Size:       int64(len(content)),
		Content:    content,
		UploadedAt: time.Now(),
	}

	switch {
	case len(content) == 0:
		doc.ValidationError = "File is empty"
	case doc.Size > req.MaxBytes:
		doc.ValidationError = fmt.Sprintf("File exceeds the %dMB limit", req.MaxBytes>>20)
	case declaredType != "" && declaredType != req.Category:
		doc.ValidationError = fmt.Sprintf("Slot %d expects a %s", slot, req.Label)
	default:
		// Sniff the real content type rather than trusting the upload header.
		doc.ContentType = http.DetectContentType(sniff(content))
		if !allowed(req.ContentTypes, doc.ContentType) {
			doc.ValidationError = "Unsupported file type. Please upload JPG, PNG, or PDF"
		}
	}

	s := c.session(sessionID)
	s.mu.Lock()
	prev := s.slots[slot]
	s.slots[slot] = doc
	s.mu.Unlock()

	if prev != nil && prev.PreviewID != "" {
		if err := c.preview.Release(ctx, prev.PreviewID); err != nil {
			logrus.WithError(err).Warn("Failed to release replaced document preview")
		}
	}

	if doc.ValidationError == "" {
		url, id, err := c.preview.Create(ctx, content, filename)
		if err != nil {
			logrus.WithError(err).Warn("Failed to create document preview")
		} else {
			doc.PreviewURL = url
			doc.PreviewID = id
		}
	}

	return doc, nil
}

// Remove clears one slot and releases its preview.
func (c *Cache) Remove(ctx context.Context, sessionID string, slot int) {
	s := c.session(sessionID)
	s.mu.Lock()
	prev := s.slots[slot]
	delete(s.slots, slot)
	s.mu.Unlock()

	if prev != nil && prev.PreviewID != "" {
		if err := c.preview.Release(ctx, prev.PreviewID); err != nil {
			logrus.WithError(err).Warn("Failed to release document preview")
		}
	}
}

// Slots returns the session's slots keyed by slot index.
func (c *Cache) Slots(sessionID string) map[int]*models.DocumentSlot {
	s := c.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]*models.DocumentSlot, len(s.slots))
	for k, v := range s.slots {
		out[k] = v
	}
	return out
}

// Evict tears down a session's slots immediately, releasing every preview.
// Called when the registration flow completes or is abandoned.
func (c *Cache) Evict(sessionID string) {
	// Delete fires the OnEvicted hook, which releases the previews.
	c.sessions.Delete(sessionID)
}

func (c *Cache) releaseAll(s *sessionSlots) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, doc := range s.slots {
		if doc.PreviewID != "" {
			if err := c.preview.Release(ctx, doc.PreviewID); err != nil {
				logrus.WithError(err).Warn("Failed to release document preview on eviction")
			}
		}
	}
	s.slots = map[int]*models.DocumentSlot{}
}

func sniff(content []byte) []byte {
	if len(content) > 512 {
		return content[:512]
	}
	return content
}

func allowed(types []string, contentType string) bool {
	for _, t := range types {
		if t == contentType {
			return true
		}
	}
	return false
}
