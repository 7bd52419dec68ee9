package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is a named, reusable bundle of permissions assignable to users.
type Role struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name"          json:"name"`
	Permissions []string      `bson:"permissions"   json:"permissions"`
	CreatedAt   time.Time     `bson:"created_at"    json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"    json:"updated_at"`
}

// Permission is a named, atomic authorization unit, e.g. "view users".
type Permission struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name"          json:"name"`
	CreatedAt time.Time     `bson:"created_at"    json:"created_at"`
}
