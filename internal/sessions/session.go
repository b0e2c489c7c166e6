package sessions

import "time"

// Token is an opaque bearer credential bound to one account. At most one
// token per account is live at any time.
type Token struct {
	Token     string    `bson:"token" json:"token"`
	AccountID int64     `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
