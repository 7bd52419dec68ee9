package payload

import "time"

type PartyRequest struct {
	Kind string `json:"kind" validate:"required,oneof=user company"`
	ID   string `json:"id"   validate:"required"`
}

type CreateTransactionRequest struct {
	Amount          float64      `json:"amount"                     validate:"required,gt=0"`
	Type            string       `json:"type"                       validate:"required,oneof=income expense"`
	Status          string       `json:"status"                     validate:"required,oneof=pending completed failed"`
	Sender          PartyRequest `json:"sender"                     validate:"required"`
	Receiver        PartyRequest `json:"receiver"                   validate:"required"`
	TeamID          *string      `json:"team_id,omitempty"          validate:"omitempty"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Date            time.Time    `json:"date"                       validate:"required"`
	ReferenceNumber string       `json:"reference_number,omitempty"`
}

type UpdateTransactionRequest struct {
	Amount          *float64   `json:"amount,omitempty"           validate:"omitempty,gt=0"`
	Type            *string    `json:"type,omitempty"             validate:"omitempty,oneof=income expense"`
	Status          *string    `json:"status,omitempty"           validate:"omitempty,oneof=pending completed failed"`
	TeamID          *string    `json:"team_id,omitempty"          validate:"omitempty"`
	Description     *string    `json:"description,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	ReferenceNumber *string    `json:"reference_number,omitempty"`
}
