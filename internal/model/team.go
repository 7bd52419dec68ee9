package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Team belongs to exactly one company.
type Team struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name"          json:"name"`
	CompanyID bson.ObjectID `bson:"company_id"    json:"company_id"`
	CreatedAt time.Time     `bson:"created_at"    json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updated_at"`
}
