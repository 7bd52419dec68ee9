package payload

type CreateCompanyRequest struct {
	Name    string  `json:"name"    validate:"required"`
	Balance float64 `json:"balance" validate:"gte=0"`
}

type UpdateCompanyRequest struct {
	Name    *string  `json:"name,omitempty"    validate:"omitempty,min=1"`
	Balance *float64 `json:"balance,omitempty" validate:"omitempty,gte=0"`
}
