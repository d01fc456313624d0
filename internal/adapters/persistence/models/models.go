package models

import "time"

// AppSnapshot represents app_snapshots table. Each row holds a full
// serialized application state under a key; the live state and its
// backups are separate rows.
type AppSnapshot struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Data      []byte    `gorm:"type:longblob;not null" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AppSnapshot) TableName() string {
	return "app_snapshots"
}

// RefreshToken represents refresh_tokens table. Session state lives
// here rather than inside the application snapshot.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:64;index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}
