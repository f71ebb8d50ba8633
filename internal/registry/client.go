// Package registry is the HTTP client for the external marketplace registry,
// which owns vendor accounts and their lifecycle status.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/pharmaport/portal-backend/internal/models"
)

// Error is a registry rejection. Message is surfaced to the caller verbatim;
// Status/Reason are populated for status-specific failures.
type Error struct {
	Code    int
	Message string
	Status  models.LifecycleStatus
	Reason  string
}

func (e *Error) Error() string { return e.Message }

// DocumentPart is one binary attachment of a registration submission.
type DocumentPart struct {
	Category    string
	FileName    string
	ContentType string
	Content     []byte
}

// RegisterRequest is the full bundle for the one-shot registration call.
type RegisterRequest struct {
	Sections  map[models.StepID]models.SectionPayload
	Documents []DocumentPart
	Email     string
	Password  string
}

// RegisterResponse carries the server-issued application identifier.
type RegisterResponse struct {
	ApplicationID string `json:"applicationId"`
}

// Client talks to the registry over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a registry client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Register issues the single multipart registration call: one JSON part per
// section slot, one binary part per document, plus the credential fields.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, step := range models.StepSequence {
		payload, ok := req.Sections[step]
		if !ok {
			continue
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode section %s: %w", step, err)
		}
		part, err := w.CreatePart(jsonPartHeader(string(step)))
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(encoded); err != nil {
			return nil, err
		}
	}

	for _, doc := range req.Documents {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, doc.Category, doc.FileName))
		h.Set("Content-Type", doc.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, err
		}
	}

	if err := w.WriteField("email", req.Email); err != nil {
		return nil, err
	}
	if err := w.WriteField("password", req.Password); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	var out RegisterResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	if out.ApplicationID == "" {
		return nil, fmt.Errorf("registry returned no application id")
	}
	return &out, nil
}

// CurrentAccount fetches the live account state. This is always a fresh
// request; status can change server-side between navigations, so the result
// is deliberately never cached.
func (c *Client) CurrentAccount(ctx context.Context, token string) (*models.VendorAccount, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, raw)
	}

	// Decode into a raw record first; historical account shapes are all
	// flattened through the models normalization at this boundary.
	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return models.AccountFromRecord(record), nil
}

func jsonPartHeader(name string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, name))
	h.Set("Content-Type", "application/json")
	return h
}

func decodeError(code int, raw []byte) *Error {
	e := &Error{Code: code, Message: strings.TrimSpace(string(raw))}

	var body struct {
		Message string                 `json:"message"`
		Error   string                 `json:"error"`
		Status  models.LifecycleStatus `json:"status"`
		Reason  string                 `json:"reason"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			e.Message = body.Message
		} else if body.Error != "" {
			e.Message = body.Error
		}
		e.Status = body.Status
		e.Reason = body.Reason
	}
	if e.Message == "" {
		e.Message = http.StatusText(code)
	}
	return e
}
