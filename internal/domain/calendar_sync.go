package domain

import "time"

// CalendarSyncStatus represents the health of a calendar sync record.
type CalendarSyncStatus string

const (
	CalendarSyncActive CalendarSyncStatus = "active"
	CalendarSyncError  CalendarSyncStatus = "error"
	CalendarSyncPaused CalendarSyncStatus = "paused"
)

// CalendarSync records a user's link to an external calendar provider.
// One record exists per (owner, provider). Access and refresh tokens are
// obtained out of band; they are stored for the refresh job and filtered
// from API responses (see View).
type CalendarSync struct {
	Timestamps
	OwnerID        string             `json:"owner_id"`
	Provider       string             `json:"provider"`
	ProviderUserID string             `json:"provider_user_id,omitempty"`
	CalendarID     string             `json:"calendar_id,omitempty"`
	AccessToken    string             `json:"access_token,omitempty"`
	RefreshToken   string             `json:"refresh_token,omitempty"`
	Status         CalendarSyncStatus `json:"status"`
	SyncedAt       *time.Time         `json:"synced_at,omitempty"`
	LastError      string             `json:"last_error,omitempty"`
}

// CalendarSyncView is the API representation of a sync record. Token
// fields are deliberately absent.
type CalendarSyncView struct {
	Timestamps
	OwnerID        string             `json:"owner_id"`
	Provider       string             `json:"provider"`
	ProviderUserID string             `json:"provider_user_id,omitempty"`
	CalendarID     string             `json:"calendar_id,omitempty"`
	Status         CalendarSyncStatus `json:"status"`
	SyncedAt       *time.Time         `json:"synced_at,omitempty"`
	LastError      string             `json:"last_error,omitempty"`
}

// View strips credential fields for API responses.
func (c *CalendarSync) View() CalendarSyncView {
	return CalendarSyncView{
		Timestamps:     c.Timestamps,
		OwnerID:        c.OwnerID,
		Provider:       c.Provider,
		ProviderUserID: c.ProviderUserID,
		CalendarID:     c.CalendarID,
		Status:         c.Status,
		SyncedAt:       c.SyncedAt,
		LastError:      c.LastError,
	}
}
