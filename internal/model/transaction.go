package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TransactionType distinguishes money coming in from money going out. The
// amount itself is always non-negative; direction is carried by the type.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// PartyKind tags which collection a transaction party refers to.
type PartyKind string

const (
	PartyKindUser    PartyKind = "user"
	PartyKindCompany PartyKind = "company"
)

// Valid reports whether the kind is one of the known party kinds.
func (k PartyKind) Valid() bool {
	return k == PartyKindUser || k == PartyKindCompany
}

// Party identifies a transaction sender or receiver as a tagged union of
// either a user or a company.
type Party struct {
	Kind PartyKind     `bson:"kind" json:"kind"`
	ID   bson.ObjectID `bson:"id"   json:"id"`
}

// Transaction is a signed money movement between two parties, optionally
// attributed to a team.
type Transaction struct {
	ID              bson.ObjectID     `bson:"_id,omitempty"              json:"id"`
	Amount          float64           `bson:"amount"                     json:"amount"`
	Type            TransactionType   `bson:"type"                       json:"type"`
	Status          TransactionStatus `bson:"status"                     json:"status"`
	Sender          Party             `bson:"sender"                     json:"sender"`
	Receiver        Party             `bson:"receiver"                   json:"receiver"`
	TeamID          *bson.ObjectID    `bson:"team_id,omitempty"          json:"team_id,omitempty"`
	Description     string            `bson:"description"                json:"description"`
	Category        string            `bson:"category"                   json:"category"`
	Date            time.Time         `bson:"date"                      json:"date"`
	ReferenceNumber string            `bson:"reference_number,omitempty" json:"reference_number,omitempty"`
	CreatedAt       time.Time         `bson:"created_at"                 json:"created_at"`
	UpdatedAt       time.Time         `bson:"updated_at"                 json:"updated_at"`
}
