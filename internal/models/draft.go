package models

import (
	"time"
)

// StepID names one section slot of the registration draft. The wizard walks
// these in order; each slot is only populated once its step's local
// validation has passed.
type StepID string

const (
	StepPharmacyInfo      StepID = "pharmacyInfo"
	StepPharmacyOwner     StepID = "pharmacyOwner"
	StepPrimaryContact    StepID = "primaryContact"
	StepPharmacyLicense   StepID = "pharmacyLicense"
	StepPharmacyQuestions StepID = "pharmacyQuestions"
	StepReferralInfo      StepID = "referralInfo"
	StepBankAccount       StepID = "bankAccount"
	StepDocumentsMeta     StepID = "documentsMeta"
)

// StepSequence is the wizard order. Step numbers used by the draft cursor are
// 1-based indexes into this slice.
var StepSequence = []StepID{
	StepPharmacyInfo,
	StepPharmacyOwner,
	StepPrimaryContact,
	StepPharmacyLicense,
	StepPharmacyQuestions,
	StepReferralInfo,
	StepBankAccount,
	StepDocumentsMeta,
}

const (
	FirstStep = 1
	LastStep  = 8
)

// StepIDForNumber maps a 1-based cursor to its section slot name.
// Returns "" for out-of-range numbers.
func StepIDForNumber(n int) StepID {
	if n < FirstStep || n > LastStep {
		return ""
	}
	return StepSequence[n-1]
}

// SectionPayload is one validated step's data, kept as a generic document the
// same way the teacher keeps stepData. Each step's handler binds its own
// typed input before anything lands here.
type SectionPayload map[string]interface{}

// Credentials are captured on the final step only and are never written to
// durable storage.
type Credentials struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// RegistrationDraft is the accumulating vendor application. Only
// {CurrentStep, Sections} survive a reload; Credentials live in memory for
// the lifetime of the final step.
type RegistrationDraft struct {
	CurrentStep int                       `json:"currentStep" bson:"currentStep"`
	Sections    map[StepID]SectionPayload `json:"sections" bson:"sections"`
	Credentials *Credentials              `json:"-" bson:"-"`
}

// EmptyDraft returns a fresh draft positioned at the first step.
func EmptyDraft() RegistrationDraft {
	return RegistrationDraft{
		CurrentStep: FirstStep,
		Sections:    map[StepID]SectionPayload{},
	}
}

// HighestCompletedStep returns the largest step number whose slot is
// populated, or 0 when nothing has been completed yet.
func (d *RegistrationDraft) HighestCompletedStep() int {
	highest := 0
	for i, id := range StepSequence {
		if _, ok := d.Sections[id]; ok && i+1 > highest {
			highest = i + 1
		}
	}
	return highest
}

// Complete reports whether every section slot holds a validated payload.
func (d *RegistrationDraft) Complete() bool {
	for _, id := range StepSequence {
		if _, ok := d.Sections[id]; !ok {
			return false
		}
	}
	return true
}

// PersistedDraft is the whitelisted subset of a draft written to durable
// storage: the cursor and the validated sections, nothing else. Credentials
// must never appear here.
type PersistedDraft struct {
	Subject     string                    `json:"subject" bson:"subject"`
	Namespace   string                    `json:"namespace" bson:"namespace"`
	CurrentStep int                       `json:"currentStep" bson:"currentStep"`
	Sections    map[StepID]SectionPayload `json:"sections" bson:"sections"`
	Version     int                       `json:"version" bson:"version"`
	UpdatedAt   time.Time                 `json:"updatedAt" bson:"updatedAt"`
}

// PharmacyInfoInput is the step 1 form body.
type PharmacyInfoInput struct {
	LegalBusinessName string `json:"legalBusinessName" validate:"required,min=2"`
	DBAName           string `json:"dbaName,omitempty"`
	PharmacyType      string `json:"pharmacyType" validate:"required,oneof=retail hospital compounding specialty long_term_care"`
	Phone             string `json:"phone" validate:"required,e164"`
	Fax               string `json:"fax,omitempty"`
	AddressLine1      string `json:"addressLine1" validate:"required"`
	AddressLine2      string `json:"addressLine2,omitempty"`
	City              string `json:"city" validate:"required"`
	State             string `json:"state" validate:"required,len=2"`
	Zip               string `json:"zip" validate:"required,len=5,numeric"`
}

// PharmacyOwnerInput is the step 2 form body.
type PharmacyOwnerInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,e164"`
	OwnershipPct  int    `json:"ownershipPct" validate:"required,min=1,max=100"`
	YearsAsOwner  int    `json:"yearsAsOwner" validate:"min=0"`
	PreviousOwner bool   `json:"previousOwner"`
}

// PrimaryContactInput is the step 3 form body.
type PrimaryContactInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,e164"`
}

// PharmacyLicenseInput is the step 4 form body. DEA numbers are two letters
// followed by seven digits; NPI is ten digits.
type PharmacyLicenseInput struct {
	StateLicenseNumber string `json:"stateLicenseNumber" validate:"required"`
	LicenseState       string `json:"licenseState" validate:"required,len=2"`
	LicenseExpiry      string `json:"licenseExpiry" validate:"required,datetime=2006-01-02"`
	DEANumber          string `json:"deaNumber" validate:"required,len=9"`
	NPINumber          string `json:"npiNumber" validate:"required,len=10,numeric"`
	NCPDPNumber        string `json:"ncpdpNumber,omitempty"`
}

// PharmacyQuestionsInput is the step 5 form body.
type PharmacyQuestionsInput struct {
	MonthlyPurchaseVolume string   `json:"monthlyPurchaseVolume" validate:"required,oneof=under_10k 10k_50k 50k_100k over_100k"`
	PrimaryWholesaler     string   `json:"primaryWholesaler" validate:"required"`
	SecondaryWholesalers  []string `json:"secondaryWholesalers,omitempty"`
	DispensingSoftware    string   `json:"dispensingSoftware,omitempty"`
	Returns340B           bool     `json:"returns340b"`
}

// ReferralInfoInput is the step 6 form body.
type ReferralInfoInput struct {
	Source       string `json:"source" validate:"required,oneof=sales_rep trade_show colleague web_search other"`
	ReferrerName string `json:"referrerName,omitempty"`
	PromoCode    string `json:"promoCode,omitempty"`
}

// BankAccountInput is the step 7 form body.
type BankAccountInput struct {
	AccountHolderName string `json:"accountHolderName" validate:"required"`
	BankName          string `json:"bankName" validate:"required"`
	RoutingNumber     string `json:"routingNumber" validate:"required,len=9,numeric"`
	AccountNumber     string `json:"accountNumber" validate:"required,min=4,max=17,numeric"`
	AccountType       string `json:"accountType" validate:"required,oneof=checking savings"`
}

// DocumentsMetaInput is the step 8 form body: declarations about the uploaded
// document set. The binary files themselves never touch the draft.
type DocumentsMetaInput struct {
	AttestedComplete bool   `json:"attestedComplete" validate:"required"`
	AttestedBy       string `json:"attestedBy" validate:"required"`
	Notes            string `json:"notes,omitempty"`
}
