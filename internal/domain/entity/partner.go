package entity

// PartnerStatus is the lifecycle state of a lab partner account.
type PartnerStatus string

const (
	PartnerInvited  PartnerStatus = "invited"
	PartnerActive   PartnerStatus = "active"
	PartnerInactive PartnerStatus = "inactive"
)

var validPartnerStatuses = map[PartnerStatus]bool{
	PartnerInvited:  true,
	PartnerActive:   true,
	PartnerInactive: true,
}

// IsValid returns true for a known partner status.
func (s PartnerStatus) IsValid() bool {
	return validPartnerStatuses[s]
}

// LabPartner is a farm partner invited by the account owner. Partners are
// created invited and only ever transition by explicit owner action, never
// automatically.
type LabPartner struct {
	Meta
	Email  string        `json:"email"`
	Status PartnerStatus `json:"status"`
}
