package payload

type CreateRoleRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

type SetRolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,required"`
}

type PermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required"`
}
