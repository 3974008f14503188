package domain

import "time"

// Badge is an entry in the global achievement catalog. The catalog is
// read-only at the API; cmd/seed populates it.
type Badge struct {
	Timestamps
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Threshold   int    `json:"threshold,omitempty"`
}

// UserBadge records a badge awarded to a user. The (user, badge) pair is
// unique at the storage layer.
type UserBadge struct {
	Timestamps
	UserID    string    `json:"user_id"`
	BadgeID   string    `json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
}
