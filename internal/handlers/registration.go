package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pharmaport/portal-backend/internal/config"
	"github.com/pharmaport/portal-backend/internal/docs"
	"github.com/pharmaport/portal-backend/internal/draft"
	"github.com/pharmaport/portal-backend/internal/models"
	"github.com/pharmaport/portal-backend/internal/submit"
	"github.com/pharmaport/portal-backend/utils"
)

var registrationValidator = validator.New()

// RegistrationHandler serves the multi-step vendor registration wizard: step
// saves, navigation, transient document uploads, and the final one-shot
// submission.
type RegistrationHandler struct {
	Persist   draft.Persistence
	Documents *docs.Cache
	Pipeline  *submit.Pipeline
	Checklist *config.DocumentChecklist
}

func NewRegistrationHandler(persist draft.Persistence, documents *docs.Cache, pipeline *submit.Pipeline, checklist *config.DocumentChecklist) *RegistrationHandler {
	return &RegistrationHandler{
		Persist:   persist,
		Documents: documents,
		Pipeline:  pipeline,
		Checklist: checklist,
	}
}

// GetDraft returns the resumable draft subset so a fresh session picks up
// where the last one left off.
func (h *RegistrationHandler) GetDraft(c *gin.Context) {
	subject := c.GetString("userId")
	store := draft.Resume(c.Request.Context(), subject, h.Persist)
	snapshot := store.Snapshot()

	c.JSON(http.StatusOK, utils.SuccessResponse("Draft fetched successfully", gin.H{
		"currentStep": snapshot.CurrentStep,
		"sections":    snapshot.Sections,
	}))
}

// SaveStep validates one step's form body and writes it into the draft's
// section slot, advancing the cursor when the saved step is the current one.
func (h *RegistrationHandler) SaveStep(c *gin.Context) {
	subject := c.GetString("userId")

	stepNum, err := strconv.Atoi(c.Param("step"))
	if err != nil || models.StepIDForNumber(stepNum) == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Unknown registration step"))
		return
	}
	stepID := models.StepIDForNumber(stepNum)

	payload, err := bindStepInput(c, stepID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed: "+err.Error()))
		return
	}

	store := draft.Resume(c.Request.Context(), subject, h.Persist)
	store.UpdateFormData(c.Request.Context(), stepID, payload)

	advanced := false
	if store.CurrentStep() == stepNum {
		advanced = store.NextStep(c.Request.Context(), true)
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Step saved", gin.H{
		"step":        stepNum,
		"section":     stepID,
		"currentStep": store.CurrentStep(),
		"advanced":    advanced,
	}))
}

type navigationInput struct {
	Action string `json:"action" validate:"required,oneof=next prev goto"`
	Step   int    `json:"step"`
}

// Navigate moves the wizard cursor. Forward movement past an incomplete step
// is refused; backward movement and resuming jumps are always allowed.
func (h *RegistrationHandler) Navigate(c *gin.Context) {
	subject := c.GetString("userId")

	var input navigationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid JSON format"))
		return
	}
	if err := registrationValidator.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed: "+err.Error()))
		return
	}

	store := draft.Resume(c.Request.Context(), subject, h.Persist)

	switch input.Action {
	case "next":
		completed := models.StepIDForNumber(store.CurrentStep())
		_, stepDone := store.Snapshot().Sections[completed]
		if !store.NextStep(c.Request.Context(), stepDone) {
			c.JSON(http.StatusConflict, utils.ErrorResponse("Complete the current step before moving on"))
			return
		}
	case "prev":
		store.PrevStep(c.Request.Context())
	case "goto":
		store.SetStep(c.Request.Context(), input.Step)
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Navigation updated", gin.H{
		"currentStep": store.CurrentStep(),
	}))
}

// UploadDocument stores one required document in the session's transient
// slot set. The binary never touches durable storage; it lives in memory
// until submission or teardown.
func (h *RegistrationHandler) UploadDocument(c *gin.Context) {
	subject := c.GetString("userId")

	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid document slot"))
		return
	}

	req, ok := h.Checklist.Requirement(slot)
	if !ok {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid document slot"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, req.MaxBytes+(1<<20))

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No file provided or file too large"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to read uploaded file"))
		return
	}

	declaredType := c.PostForm("declaredType")
	doc, err := h.Documents.Put(c.Request.Context(), subject, slot, declaredType, header.Filename, content)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	if doc.ValidationError != "" {
		c.JSON(http.StatusOK, utils.SuccessResponse("Document stored with errors", gin.H{
			"slot":            slot,
			"category":        doc.Category,
			"validationError": doc.ValidationError,
		}))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Document uploaded", gin.H{
		"slot":       slot,
		"category":   doc.Category,
		"fileName":   doc.FileName,
		"size":       doc.Size,
		"type":       doc.ContentType,
		"previewUrl": doc.PreviewURL,
	}))
}

// RemoveDocument clears one slot and releases its preview handle.
func (h *RegistrationHandler) RemoveDocument(c *gin.Context) {
	subject := c.GetString("userId")

	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid document slot"))
		return
	}

	h.Documents.Remove(c.Request.Context(), subject, slot)
	c.JSON(http.StatusOK, utils.SuccessResponse("Document removed", gin.H{"slot": slot}))
}

// ListDocuments reports the checklist with each slot's upload state, without
// the binary contents.
func (h *RegistrationHandler) ListDocuments(c *gin.Context) {
	subject := c.GetString("userId")
	slots := h.Documents.Slots(subject)

	entries := make([]gin.H, 0, h.Checklist.Len())
	for i, req := range h.Checklist.Requirements {
		entry := gin.H{
			"slot":     i,
			"category": req.Category,
			"label":    req.Label,
			"filled":   false,
		}
		if doc, ok := slots[i]; ok && doc != nil {
			entry["filled"] = len(doc.Content) > 0
			entry["fileName"] = doc.FileName
			entry["previewUrl"] = doc.PreviewURL
			if doc.ValidationError != "" {
				entry["validationError"] = doc.ValidationError
			}
		}
		entries = append(entries, entry)
	}

	result := submit.ValidateDocuments(slots, h.Checklist)
	c.JSON(http.StatusOK, utils.SuccessResponse("Documents fetched", gin.H{
		"documents": entries,
		"complete":  result.Complete,
	}))
}

// Submit performs the one-shot registration. On success the draft is
// destroyed and the application id returned; on failure the draft survives
// for a retry and the registry's message passes through verbatim.
func (h *RegistrationHandler) Submit(c *gin.Context) {
	subject := c.GetString("userId")

	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid JSON format"))
		return
	}

	store := draft.Resume(c.Request.Context(), subject, h.Persist)
	store.SetCredentials(creds)
	slots := h.Documents.Slots(subject)

	result, err := h.Pipeline.Submit(c.Request.Context(), store, slots, creds, subject, func() {
		h.Documents.Evict(subject)
	})
	if err != nil {
		var gateErr *submit.GateError
		if errors.As(err, &gateErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   gateErr.Message,
				"fields":  gateErr.Fields,
			})
			return
		}
		c.JSON(http.StatusBadGateway, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Registration submitted", gin.H{
		"applicationId":        result.ApplicationID,
		"registrationComplete": result.Complete,
	}))
}

// Abandon discards the draft and evicts the transient documents.
func (h *RegistrationHandler) Abandon(c *gin.Context) {
	subject := c.GetString("userId")

	store := draft.Resume(c.Request.Context(), subject, h.Persist)
	store.Clear(c.Request.Context())
	h.Documents.Evict(subject)

	c.JSON(http.StatusOK, utils.SuccessResponse("Registration abandoned", nil))
}

// bindStepInput binds and validates the typed form body for a step, then
// flattens it into the generic section payload stored on the draft.
func bindStepInput(c *gin.Context, step models.StepID) (models.SectionPayload, error) {
	var input interface{}
	switch step {
	case models.StepPharmacyInfo:
		input = &models.PharmacyInfoInput{}
	case models.StepPharmacyOwner:
		input = &models.PharmacyOwnerInput{}
	case models.StepPrimaryContact:
		input = &models.PrimaryContactInput{}
	case models.StepPharmacyLicense:
		input = &models.PharmacyLicenseInput{}
	case models.StepPharmacyQuestions:
		input = &models.PharmacyQuestionsInput{}
	case models.StepReferralInfo:
		input = &models.ReferralInfoInput{}
	case models.StepBankAccount:
		input = &models.BankAccountInput{}
	case models.StepDocumentsMeta:
		input = &models.DocumentsMetaInput{}
	}

	if err := c.ShouldBindJSON(input); err != nil {
		return nil, err
	}
	if err := registrationValidator.Struct(input); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var payload models.SectionPayload
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
