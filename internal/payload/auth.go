package payload

type RegisterRequest struct {
	Name       string `json:"name"        validate:"required"`
	Surname    string `json:"surname"     validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=8"`
	NationalID string `json:"national_id" validate:"required,len=11,numeric"`
	BirthYear  int    `json:"birth_year"  validate:"required,gte=1900"`
	CompanyID  string `json:"company_id"  validate:"required"`
	TeamID     string `json:"team_id"     validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}
