package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is the poster identity stored in PostgreSQL. Credentials and token
// issuance belong to the external auth service; this row carries only what
// the feed and the verification middleware need.
type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"uniqueIndex"`
	Email       string `json:"email,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"index"` // set when Firebase verification is in use
}

// UserCompact is the poster projection embedded in feed responses.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// ToCompact projects the user onto the fields feed responses expose.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username}
}

// JwtCustomClaims are the claims the external auth service signs into
// access tokens, extending standard jwt.RegisteredClaims.
type JwtCustomClaims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}
