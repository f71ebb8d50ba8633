package models

import "time"

// DocumentRequirement describes one entry of the required-document checklist.
// The checklist itself is configuration (internal/config), never a
// hard-coded count.
type DocumentRequirement struct {
	Category     string   `json:"category" mapstructure:"category"`
	Label        string   `json:"label" mapstructure:"label"`
	MaxBytes     int64    `json:"maxBytes" mapstructure:"max_bytes"`
	ContentTypes []string `json:"contentTypes" mapstructure:"content_types"`
}

// DocumentSlot is one transient upload slot. Slots live only in the session
// cache; the binary content is never written to durable storage.
type DocumentSlot struct {
	Slot            int       `json:"slot"`
	Category        string    `json:"category"`
	FileName        string    `json:"fileName"`
	ContentType     string    `json:"contentType"`
	Size            int64     `json:"size"`
	Content         []byte    `json:"-"`
	ValidationError string    `json:"validationError,omitempty"`
	PreviewURL      string    `json:"previewUrl,omitempty"`
	PreviewID       string    `json:"-"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

// Valid reports whether the slot holds a usable upload.
func (s *DocumentSlot) Valid() bool {
	return s != nil && len(s.Content) > 0 && s.ValidationError == ""
}
