package usecase

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRoleNotFound        = errors.New("role not found")

	ErrEmailTaken           = errors.New("email is already taken")
	ErrRoleExists           = errors.New("role already exists")
	ErrReferenceNumberTaken = errors.New("reference number is already taken")
	ErrUnknownPermission    = errors.New("unknown permission")

	// ErrTeamCompanyMismatch is returned when a user's team does not belong
	// to the user's company.
	ErrTeamCompanyMismatch = errors.New("team does not belong to the company")
)
