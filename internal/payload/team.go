package payload

type CreateTeamRequest struct {
	Name      string `json:"name"       validate:"required"`
	CompanyID string `json:"company_id" validate:"required"`
}

type UpdateTeamRequest struct {
	Name      *string `json:"name,omitempty"       validate:"omitempty,min=1"`
	CompanyID *string `json:"company_id,omitempty" validate:"omitempty"`
}
