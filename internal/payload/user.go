package payload

type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"        validate:"omitempty,min=1"`
	Surname    *string `json:"surname,omitempty"     validate:"omitempty,min=1"`
	Email      *string `json:"email,omitempty"       validate:"omitempty,email"`
	Password   *string `json:"password,omitempty"    validate:"omitempty,min=8"`
	NationalID *string `json:"national_id,omitempty" validate:"omitempty,len=11,numeric"`
	BirthYear  *int    `json:"birth_year,omitempty"  validate:"omitempty,gte=1900"`
	CompanyID  *string `json:"company_id,omitempty"  validate:"omitempty"`
	TeamID     *string `json:"team_id,omitempty"     validate:"omitempty"`
}
