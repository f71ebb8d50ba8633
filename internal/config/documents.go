package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pharmaport/portal-backend/internal/models"
)

// DocumentChecklist is the authoritative list of required registration
// documents, in slot order. The count is whatever the file says, not a
// constant baked into the pipeline.
type DocumentChecklist struct {
	Requirements []models.DocumentRequirement
}

// Len returns the number of required documents.
func (c *DocumentChecklist) Len() int { return len(c.Requirements) }

// Requirement returns the requirement for a 0-based slot index.
func (c *DocumentChecklist) Requirement(slot int) (models.DocumentRequirement, bool) {
	if slot < 0 || slot >= len(c.Requirements) {
		return models.DocumentRequirement{}, false
	}
	return c.Requirements[slot], true
}

// LoadDocumentChecklist reads the checklist from a YAML file.
func LoadDocumentChecklist(path string) (*DocumentChecklist, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read document checklist: %w", err)
	}

	var reqs []models.DocumentRequirement
	if err := v.UnmarshalKey("documents", &reqs); err != nil {
		return nil, fmt.Errorf("parse document checklist: %w", err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("document checklist %s lists no documents", path)
	}
	for i, r := range reqs {
		if r.Category == "" {
			return nil, fmt.Errorf("document checklist entry %d has no category", i)
		}
	}

	return &DocumentChecklist{Requirements: reqs}, nil
}

// DefaultChecklist mirrors config/documents.yaml and backs tests and
// environments that ship without the file mounted.
func DefaultChecklist() *DocumentChecklist {
	mb := func(n int64) int64 { return n << 20 }
	images := []string{"image/jpeg", "image/png", "application/pdf"}
	return &DocumentChecklist{Requirements: []models.DocumentRequirement{
		{Category: "state_pharmacy_license", Label: "State Pharmacy License", MaxBytes: mb(10), ContentTypes: images},
		{Category: "dea_registration", Label: "DEA Registration Certificate", MaxBytes: mb(10), ContentTypes: images},
		{Category: "business_license", Label: "Business License", MaxBytes: mb(10), ContentTypes: images},
		{Category: "owner_government_id", Label: "Owner Government-Issued ID", MaxBytes: mb(10), ContentTypes: images},
		{Category: "w9_form", Label: "Completed W-9", MaxBytes: mb(10), ContentTypes: images},
		{Category: "voided_check", Label: "Voided Check or Bank Letter", MaxBytes: mb(10), ContentTypes: images},
		{Category: "liability_insurance", Label: "Certificate of Liability Insurance", MaxBytes: mb(10), ContentTypes: images},
	}}
}
