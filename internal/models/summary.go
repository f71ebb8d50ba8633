package models

// VendorSummary is the single canonical shape for displaying a vendor record.
// Registry records arrive in several historical shapes (flat fields, nested
// pharmacyInfo, nested businessDetails), so everything is funneled through
// NormalizeVendorSummary at the ingestion boundary and nothing downstream
// does its own field fallbacks.
type VendorSummary struct {
	ID           string          `json:"id"`
	BusinessName string          `json:"businessName"`
	ContactEmail string          `json:"contactEmail"`
	Phone        string          `json:"phone"`
	State        string          `json:"state"`
	Status       LifecycleStatus `json:"status"`
	StatusReason string          `json:"statusReason,omitempty"`
}

// NormalizeVendorSummary flattens a raw registry vendor document into a
// VendorSummary. Field precedence, in one place:
//
//	business name: pharmacyInfo.legalBusinessName > businessName > storeName
//	contact email: primaryContact.email > email
//	phone:         pharmacyInfo.phone > phone
//	state:         pharmacyInfo.state > state
//
// Missing fields normalize to the zero value; an unknown status is kept
// verbatim so the caller can decide how to present it.
func NormalizeVendorSummary(raw map[string]interface{}) VendorSummary {
	s := VendorSummary{
		ID:     str(raw["id"]),
		Status: LifecycleStatus(str(raw["status"])),
	}

	info := sub(raw, "pharmacyInfo")
	contact := sub(raw, "primaryContact")

	s.BusinessName = first(str(info["legalBusinessName"]), str(raw["businessName"]), str(raw["storeName"]))
	s.ContactEmail = first(str(contact["email"]), str(raw["email"]))
	s.Phone = first(str(info["phone"]), str(raw["phone"]))
	s.State = first(str(info["state"]), str(raw["state"]))

	switch s.Status {
	case StatusRejected:
		s.StatusReason = str(raw["rejectionReason"])
	case StatusSuspended:
		s.StatusReason = str(raw["suspensionReason"])
	}

	return s
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func sub(raw map[string]interface{}, key string) map[string]interface{} {
	if m, ok := raw[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
