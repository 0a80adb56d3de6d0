package models

// AccountRiskLevel bands the account-risk score. This is a separate metric
// namespace from content risk: what was said vs. who the account is.
type AccountRiskLevel string

const (
	AccountRiskLow    AccountRiskLevel = "low"
	AccountRiskMedium AccountRiskLevel = "medium"
	AccountRiskHigh   AccountRiskLevel = "high"
)

// ParticipantProfile holds per-user account attributes from the
// account-inspection collaborator plus the computed account-risk score.
type ParticipantProfile struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`

	IsScam       bool `json:"is_scam"`
	IsFake       bool `json:"is_fake"`
	IsRestricted bool `json:"is_restricted"`
	HasNoPhoto   bool `json:"has_no_photo"`

	RiskScore int              `json:"risk_score"`
	RiskLevel AccountRiskLevel `json:"risk_level"`
}
