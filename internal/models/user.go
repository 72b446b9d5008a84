package models

import "time"

// UserProfile mirrors the account data owned by the identity provider. The
// user id is opaque and issued upstream; this service never mints one.
type UserProfile struct {
	UserID    string    `bson:"_id" json:"user_id"`
	Email     string    `bson:"email" json:"email"`
	Username  string    `bson:"username" json:"username"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
