package models

import "time"

type User struct {
	ID               string    `json:"id" bson:"_id"`
	Email            string    `json:"email" bson:"email"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	PlaidAccessToken string    `json:"-" bson:"plaidAccessToken,omitempty"`
}

// LoginCode is a pending passwordless sign-in code. Only the bcrypt hash of
// the 6-digit code is stored; codes are single-use and expire.
type LoginCode struct {
	Email     string    `bson:"_id"`
	CodeHash  []byte    `bson:"codeHash"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (c LoginCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
