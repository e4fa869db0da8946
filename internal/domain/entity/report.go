package entity

import "time"

// PartnerReport is the partner-side record of a lab sample. Its status
// vocabulary is internal to the partner store; customers never see it.
type PartnerReport struct {
	Meta
	CustomerMobile string `json:"customerMobile"`
	Status         string `json:"status"`
	ReportURL      string `json:"reportUrl,omitempty"`
	SampleName     string `json:"sampleName,omitempty"`

	// Parameters is either a display string or a structured object of
	// measured values; the customer projection flattens it to text.
	Parameters any `json:"parameters,omitempty"`
}

// ApprovedReport is the customer-visible record written when a partner
// report is approved. The collection is a read projection: it is owned by no
// account and customers cannot mutate it.
type ApprovedReport struct {
	Meta
	SampleName   string    `json:"sampleName,omitempty"`
	PartnerEmail string    `json:"partnerEmail"`
	ReportURL    string    `json:"reportUrl,omitempty"`
	Parameters   any       `json:"parameters,omitempty"`
	ApprovedAt   time.Time `json:"approvedAt,omitzero"`
}

// LabReportStatus is the only status a customer ever sees. Approved reports
// have exactly one customer-visible state.
const LabReportStatus = "ready"

// LabReport is the UI-facing projection of an ApprovedReport. It owns no
// storage; it is recomputed from the approved-report feed on every change.
type LabReport struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	SampleID     string `json:"sampleId"`
	Status       string `json:"status"`
	PartnerEmail string `json:"partnerEmail"`
	URL          string `json:"url,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
