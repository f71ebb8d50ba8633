package submit

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pharmaport/portal-backend/internal/config"
	"github.com/pharmaport/portal-backend/internal/models"
)

var credentialValidator = validator.New()

// DocumentsResult is the outcome of the document completeness gate. The two
// failure modes are reported separately so the wizard can tell the user
// whether documents are missing or broken.
type DocumentsResult struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing,omitempty"`
	Errored  []string `json:"errored,omitempty"`
}

// Message renders the blocking summary for an incomplete document set.
func (r DocumentsResult) Message() string {
	switch {
	case r.Complete:
		return ""
	case len(r.Errored) > 0 && len(r.Missing) > 0:
		return fmt.Sprintf("Missing documents: %s. Documents with errors: %s",
			strings.Join(r.Missing, ", "), strings.Join(r.Errored, ", "))
	case len(r.Errored) > 0:
		return "Documents with errors: " + strings.Join(r.Errored, ", ")
	default:
		return "Missing documents: " + strings.Join(r.Missing, ", ")
	}
}

// ValidateDocuments checks that every slot of the configured checklist is
// filled and free of validation errors.
func ValidateDocuments(slots map[int]*models.DocumentSlot, checklist *config.DocumentChecklist) DocumentsResult {
	result := DocumentsResult{Complete: true}

	for i, req := range checklist.Requirements {
		doc := slots[i]
		if doc == nil || len(doc.Content) == 0 {
			result.Complete = false
			result.Missing = append(result.Missing, req.Label)
			continue
		}
		if !doc.Valid() {
			result.Complete = false
			result.Errored = append(result.Errored, req.Label)
		}
	}
	return result
}

// ValidateCredentials returns a field→message map; an empty map means valid.
// These are computed synchronously and never travel the error channel.
func ValidateCredentials(c models.Credentials) map[string]string {
	errs := map[string]string{}

	if err := credentialValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Email":
					errs["email"] = "A valid email address is required"
				case "Password":
					errs["password"] = "Password must be at least 8 characters"
				case "ConfirmPassword":
					errs["confirmPassword"] = "Please confirm your password"
				}
			}
		} else {
			errs["credentials"] = "Invalid credentials"
		}
	}

	if _, ok := errs["confirmPassword"]; !ok && c.Password != c.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}
