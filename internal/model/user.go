package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a back-office user. A user belongs to exactly one company
// and one team, and carries both direct permissions and role names. The OTP
// fields are transient: they are overwritten on every login attempt and unset
// once a code has been consumed.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"           json:"id"`
	Name         string        `bson:"name"                    json:"name"`
	Surname      string        `bson:"surname"                 json:"surname"`
	Email        string        `bson:"email"                   json:"email"`
	PasswordHash string        `bson:"password_hash"           json:"-"`
	NationalID   string        `bson:"national_id"             json:"national_id"`
	BirthYear    int           `bson:"birth_year"              json:"birth_year"`
	CompanyID    bson.ObjectID `bson:"company_id"              json:"company_id"`
	TeamID       bson.ObjectID `bson:"team_id"                 json:"team_id"`
	OTPCode      string        `bson:"otp_code,omitempty"      json:"-"`
	OTPExpiresAt time.Time     `bson:"otp_expires_at,omitempty" json:"-"`
	Roles        []string      `bson:"roles"                   json:"roles"`
	Permissions  []string      `bson:"permissions"             json:"permissions"`
	CreatedAt    time.Time     `bson:"created_at"              json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"              json:"updated_at"`
}
