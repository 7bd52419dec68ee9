package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
	"github.com/vasapolrittideah/backoffice-api/shared/security"
)

// UserUsecase defines the business logic for user management.
type UserUsecase interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, limit, offset uint64) ([]*model.User, error)

	// ExportUsersCSV renders every user as CSV for back-office download.
	ExportUsersCSV(ctx context.Context) ([]byte, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
type UpdateUserParams struct {
	Name       *string
	Surname    *string
	Email      *string
	Password   *string
	NationalID *string
	BirthYear  *int
	CompanyID  *string
	TeamID     *string
}

type userUsecase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	teamRepo    repository.TeamRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	teamRepo repository.TeamRepository,
) UserUsecase {
	return &userUsecase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		teamRepo:    teamRepo,
	}
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *userUsecase) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error) {
	current, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	repoParams := repository.UpdateUserParams{
		Name:       params.Name,
		Surname:    params.Surname,
		Email:      params.Email,
		NationalID: params.NationalID,
		BirthYear:  params.BirthYear,
	}

	if params.Password != nil {
		passwordHash, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		repoParams.PasswordHash = &passwordHash
	}

	// When either ownership link changes, re-check that the resulting
	// company/team pair is consistent.
	if params.CompanyID != nil || params.TeamID != nil {
		companyID := current.CompanyID
		teamID := current.TeamID

		if params.CompanyID != nil {
			companyID, err = bson.ObjectIDFromHex(*params.CompanyID)
			if err != nil {
				return nil, ErrCompanyNotFound
			}
			if _, err := u.companyRepo.GetCompany(ctx, *params.CompanyID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrCompanyNotFound
				}
				return nil, err
			}
			repoParams.CompanyID = &companyID
		}

		if params.TeamID != nil {
			teamID, err = bson.ObjectIDFromHex(*params.TeamID)
			if err != nil {
				return nil, ErrTeamNotFound
			}
			repoParams.TeamID = &teamID
		}

		team, err := u.teamRepo.GetTeam(ctx, teamID.Hex())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
		if team.CompanyID != companyID {
			return nil, ErrTeamCompanyMismatch
		}
	}

	user, err := u.userRepo.UpdateUser(ctx, id, repoParams)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrEmailTaken
		default:
			return nil, err
		}
	}

	return user, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *userUsecase) ListUsers(ctx context.Context, limit, offset uint64) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx, repository.FilterUsersParams{
		Limit:  limit,
		Offset: offset,
	})
}

func (u *userUsecase) ExportUsersCSV(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Name", "Surname", "Email", "National ID", "Company ID", "Team ID", "Created At", "Updated At"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	const pageSize = 500
	var offset uint64

	for {
		users, err := u.userRepo.ListUsers(ctx, repository.FilterUsersParams{
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}

		for _, user := range users {
			record := []string{
				user.ID.Hex(),
				user.Name,
				user.Surname,
				user.Email,
				user.NationalID,
				user.CompanyID.Hex(),
				user.TeamID.Hex(),
				user.CreatedAt.Format(time.RFC3339),
				user.UpdatedAt.Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}

		if uint64(len(users)) < pageSize {
			break
		}
		offset += pageSize
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ExportFilename builds the timestamped attachment name for a users export.
func ExportFilename(now time.Time) string {
	return "users_" + now.Format("2006-01-02_15-04-05") + ".csv"
}
