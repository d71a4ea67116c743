package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// Session is a server-held login session keyed by the token stored in the
// browser cookie. User and tenant names are denormalised so a request can be
// rendered without extra lookups.
type Session struct {
	Token      string    `gorm:"primaryKey;size:64" json:"-"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	UserName   string    `gorm:"type:varchar(100)" json:"user_name"`
	TenantID   uint      `gorm:"index;not null" json:"tenant_id"`
	TenantName string    `gorm:"type:varchar(100)" json:"tenant_name"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate fills in a random token when none was supplied.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.Token == "" {
		s.Token = generateSecureToken()
	}
	return nil
}

// IsExpired reports whether the session has passed its deadline.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// generateSecureToken creates a secure random token string
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
