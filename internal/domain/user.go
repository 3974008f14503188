package domain

// User represents an account known to this server. Accounts are provisioned
// automatically the first time a verified token subject shows up; credential
// management lives in the external auth service.
type User struct {
	Timestamps
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}
