package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Company owns teams and users and can be a party in transactions.
type Company struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name"          json:"name"`
	Balance   float64       `bson:"balance"       json:"balance"`
	CreatedAt time.Time     `bson:"created_at"    json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updated_at"`
}
