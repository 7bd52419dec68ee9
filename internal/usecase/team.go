package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
)

// TeamUsecase defines the business logic for team management.
type TeamUsecase interface {
	CreateTeam(ctx context.Context, params CreateTeamParams) (*model.Team, error)
	GetTeam(ctx context.Context, id string) (*model.Team, error)
	UpdateTeam(ctx context.Context, id string, params UpdateTeamParams) (*model.Team, error)
	DeleteTeam(ctx context.Context, id string) (*model.Team, error)
	ListTeams(ctx context.Context, limit, offset uint64) ([]*model.Team, error)
}

// CreateTeamParams defines the parameters for creating a team.
type CreateTeamParams struct {
	Name      string
	CompanyID string
}

// UpdateTeamParams defines the optional parameters for updating a team.
type UpdateTeamParams struct {
	Name      *string
	CompanyID *string
}

type teamUsecase struct {
	teamRepo    repository.TeamRepository
	companyRepo repository.CompanyRepository
}

// NewTeamUsecase creates a new instance of TeamUsecase.
func NewTeamUsecase(teamRepo repository.TeamRepository, companyRepo repository.CompanyRepository) TeamUsecase {
	return &teamUsecase{
		teamRepo:    teamRepo,
		companyRepo: companyRepo,
	}
}

func (u *teamUsecase) CreateTeam(ctx context.Context, params CreateTeamParams) (*model.Team, error) {
	companyID, err := u.resolveCompany(ctx, params.CompanyID)
	if err != nil {
		return nil, err
	}

	return u.teamRepo.CreateTeam(ctx, &model.Team{
		Name:      params.Name,
		CompanyID: companyID,
	})
}

func (u *teamUsecase) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	team, err := u.teamRepo.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return team, nil
}

func (u *teamUsecase) UpdateTeam(ctx context.Context, id string, params UpdateTeamParams) (*model.Team, error) {
	repoParams := repository.UpdateTeamParams{
		Name: params.Name,
	}

	if params.CompanyID != nil {
		companyID, err := u.resolveCompany(ctx, *params.CompanyID)
		if err != nil {
			return nil, err
		}
		repoParams.CompanyID = &companyID
	}

	team, err := u.teamRepo.UpdateTeam(ctx, id, repoParams)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return team, nil
}

func (u *teamUsecase) DeleteTeam(ctx context.Context, id string) (*model.Team, error) {
	team, err := u.teamRepo.DeleteTeam(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return team, nil
}

func (u *teamUsecase) ListTeams(ctx context.Context, limit, offset uint64) ([]*model.Team, error) {
	return u.teamRepo.ListTeams(ctx, limit, offset)
}

func (u *teamUsecase) resolveCompany(ctx context.Context, id string) (bson.ObjectID, error) {
	companyID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, ErrCompanyNotFound
	}

	if _, err := u.companyRepo.GetCompany(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return bson.ObjectID{}, ErrCompanyNotFound
		}
		return bson.ObjectID{}, err
	}

	return companyID, nil
}
