package entity

import (
	"time"
)

type ScamType string

const (
	ScamTypePhone    ScamType = "phone"
	ScamTypeEmail    ScamType = "email"
	ScamTypeBusiness ScamType = "business"
)

func (t ScamType) Valid() bool {
	switch t {
	case ScamTypePhone, ScamTypeEmail, ScamTypeBusiness:
		return true
	}
	return false
}

// ProofFile is metadata only; the bytes live in the proof storage bucket.
type ProofFile struct {
	Path     string `json:"path" firestore:"path"`
	FileName string `json:"fileName" firestore:"fileName"`
	FileType string `json:"fileType" firestore:"fileType"`
	FileSize int64  `json:"fileSize" firestore:"fileSize"`
}

// ScamReport is a single user submission. Exactly one of the identifier
// fields is populated, selected by ScamType.
type ScamReport struct {
	ID               string   `json:"id" firestore:"id"`
	ReporterID       string   `json:"reporterId" firestore:"reporterId"`
	ScamType         ScamType `json:"scamType" firestore:"scamType"`
	ScamPhoneNumber  string   `json:"scamPhoneNumber,omitempty" firestore:"scamPhoneNumber,omitempty"`
	ScamEmail        string   `json:"scamEmail,omitempty" firestore:"scamEmail,omitempty"`
	ScamBusinessName string   `json:"scamBusinessName,omitempty" firestore:"scamBusinessName,omitempty"`

	IncidentDate time.Time `json:"incidentDate" firestore:"incidentDate"`
	Country      string    `json:"country,omitempty" firestore:"country,omitempty"`
	City         string    `json:"city,omitempty" firestore:"city,omitempty"`
	State        string    `json:"state,omitempty" firestore:"state,omitempty"`
	ZipCode      string    `json:"zipCode,omitempty" firestore:"zipCode,omitempty"`
	Description  string    `json:"description" firestore:"description"`

	Proof *ProofFile `json:"proof,omitempty" firestore:"proof,omitempty"`

	ReportedAt time.Time `json:"reportedAt" firestore:"reportedAt"`

	IsVerified bool       `json:"isVerified" firestore:"isVerified"`
	VerifiedBy *string    `json:"verifiedBy" firestore:"verifiedBy"`
	VerifiedAt *time.Time `json:"verifiedAt" firestore:"verifiedAt"`

	// Nil on legacy rows, which count as published.
	IsPublished *bool      `json:"isPublished" firestore:"isPublished"`
	PublishedBy *string    `json:"publishedBy" firestore:"publishedBy"`
	PublishedAt *time.Time `json:"publishedAt" firestore:"publishedAt"`
}

func (r *ScamReport) Published() bool {
	return r.IsPublished == nil || *r.IsPublished
}

func (r *ScamReport) HasProof() bool {
	return r.Proof != nil && r.Proof.Path != ""
}

// VisibleTo reports whether viewer may read the report; unpublished reports
// are limited to admins and the original reporter.
func (r *ScamReport) VisibleTo(viewer *Identity) bool {
	if r.Published() {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || viewer.UserID == r.ReporterID
}

// VerificationFilter narrows listings by verification status.
type VerificationFilter string

const (
	VerificationAny        VerificationFilter = ""
	VerificationVerified   VerificationFilter = "verified"
	VerificationUnverified VerificationFilter = "unverified"
)

type ScamReportFilter struct {
	ScamType      ScamType
	Verification  VerificationFilter
	Search        string
	ReporterID    string
	PublishedOnly bool
}
