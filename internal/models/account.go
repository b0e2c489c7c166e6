package models

import "time"

// Account is a registered identity: a unique email plus a bcrypt password hash.
type Account struct {
	ID           int64     `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
