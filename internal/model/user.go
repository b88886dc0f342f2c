package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account. The password is stored only as an
// argon2 encoded hash; the reset fields are set between a password reset
// request and its redemption and are unset otherwise.
type User struct {
	ID                  bson.ObjectID `bson:"_id,omitempty"       json:"id"`
	FirstName           string        `bson:"first_name"          json:"first_name"`
	LastName            string        `bson:"last_name"           json:"last_name"`
	Email               string        `bson:"email"               json:"email"`
	Phone               string        `bson:"phone"               json:"phone"`
	Role                string        `bson:"role"                json:"role"`
	SecurityAnswer      string        `bson:"security_answer"     json:"-"`
	PasswordHash        string        `bson:"password_hash"       json:"-"`
	ResetToken          *string       `bson:"reset_token,omitempty"            json:"-"`
	ResetTokenExpiresAt *time.Time    `bson:"reset_token_expires_at,omitempty" json:"-"`
	CreatedAt           time.Time     `bson:"created_at"          json:"created_at"`
	UpdatedAt           time.Time     `bson:"updated_at"          json:"updated_at"`
}
