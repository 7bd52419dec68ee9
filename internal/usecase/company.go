package usecase

import (
	"context"
	"errors"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
)

// CompanyUsecase defines the business logic for company management.
type CompanyUsecase interface {
	CreateCompany(ctx context.Context, params CreateCompanyParams) (*model.Company, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	UpdateCompany(ctx context.Context, id string, params UpdateCompanyParams) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context, limit, offset uint64) ([]*model.Company, error)

	CompanyStatistics(ctx context.Context, id string) (*CompanyStatistics, error)
	GlobalStatistics(ctx context.Context) (*GlobalStatistics, error)
}

// CreateCompanyParams defines the parameters for creating a company.
type CreateCompanyParams struct {
	Name    string
	Balance float64
}

// UpdateCompanyParams defines the optional parameters for updating a company.
type UpdateCompanyParams struct {
	Name    *string
	Balance *float64
}

// CompanyStatistics aggregates ownership and transaction counts for one company.
type CompanyStatistics struct {
	TotalUsers           int64 `json:"total_users"`
	TotalTeams           int64 `json:"total_teams"`
	TeamsWithUsers       int64 `json:"teams_with_users"`
	TeamsWithoutUsers    int64 `json:"teams_without_users"`
	TotalTransactions    int64 `json:"total_transactions"`
	SentTransactions     int64 `json:"sent_transactions"`
	ReceivedTransactions int64 `json:"received_transactions"`
}

// GlobalStatistics aggregates counts across all companies.
type GlobalStatistics struct {
	TotalCompanies        int64 `json:"total_companies"`
	TotalUsers            int64 `json:"total_users"`
	TotalTeams            int64 `json:"total_teams"`
	CompaniesWithUsers    int64 `json:"companies_with_users"`
	CompaniesWithoutUsers int64 `json:"companies_without_users"`
	CompaniesWithTeams    int64 `json:"companies_with_teams"`
	CompaniesWithoutTeams int64 `json:"companies_without_teams"`
}

type companyUsecase struct {
	companyRepo     repository.CompanyRepository
	teamRepo        repository.TeamRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
}

// NewCompanyUsecase creates a new instance of CompanyUsecase.
func NewCompanyUsecase(
	companyRepo repository.CompanyRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
) CompanyUsecase {
	return &companyUsecase{
		companyRepo:     companyRepo,
		teamRepo:        teamRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

func (u *companyUsecase) CreateCompany(ctx context.Context, params CreateCompanyParams) (*model.Company, error) {
	return u.companyRepo.CreateCompany(ctx, &model.Company{
		Name:    params.Name,
		Balance: params.Balance,
	})
}

func (u *companyUsecase) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	company, err := u.companyRepo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	return company, nil
}

func (u *companyUsecase) UpdateCompany(
	ctx context.Context,
	id string,
	params UpdateCompanyParams,
) (*model.Company, error) {
	company, err := u.companyRepo.UpdateCompany(ctx, id, repository.UpdateCompanyParams{
		Name:    params.Name,
		Balance: params.Balance,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	return company, nil
}

func (u *companyUsecase) DeleteCompany(ctx context.Context, id string) (*model.Company, error) {
	company, err := u.companyRepo.DeleteCompany(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	return company, nil
}

func (u *companyUsecase) ListCompanies(ctx context.Context, limit, offset uint64) ([]*model.Company, error) {
	return u.companyRepo.ListCompanies(ctx, limit, offset)
}

func (u *companyUsecase) CompanyStatistics(ctx context.Context, id string) (*CompanyStatistics, error) {
	company, err := u.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	totalUsers, err := u.userRepo.CountUsersByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	totalTeams, err := u.teamRepo.CountTeamsByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	staffedTeams, err := u.userRepo.DistinctTeamIDs(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	teamsWithUsers := int64(len(staffedTeams))

	party := model.Party{Kind: model.PartyKindCompany, ID: company.ID}

	sent, err := u.transactionRepo.CountBySender(ctx, party)
	if err != nil {
		return nil, err
	}

	received, err := u.transactionRepo.CountByReceiver(ctx, party)
	if err != nil {
		return nil, err
	}

	return &CompanyStatistics{
		TotalUsers:           totalUsers,
		TotalTeams:           totalTeams,
		TeamsWithUsers:       teamsWithUsers,
		TeamsWithoutUsers:    totalTeams - teamsWithUsers,
		TotalTransactions:    sent + received,
		SentTransactions:     sent,
		ReceivedTransactions: received,
	}, nil
}

func (u *companyUsecase) GlobalStatistics(ctx context.Context) (*GlobalStatistics, error) {
	totalCompanies, err := u.companyRepo.CountCompanies(ctx)
	if err != nil {
		return nil, err
	}

	totalUsers, err := u.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	totalTeams, err := u.teamRepo.CountTeams(ctx)
	if err != nil {
		return nil, err
	}

	companiesWithUsers, err := u.userRepo.DistinctCompanyIDs(ctx)
	if err != nil {
		return nil, err
	}

	companiesWithTeams, err := u.teamRepo.DistinctCompanyIDs(ctx)
	if err != nil {
		return nil, err
	}

	withUsers := int64(len(companiesWithUsers))
	withTeams := int64(len(companiesWithTeams))

	return &GlobalStatistics{
		TotalCompanies:        totalCompanies,
		TotalUsers:            totalUsers,
		TotalTeams:            totalTeams,
		CompaniesWithUsers:    withUsers,
		CompaniesWithoutUsers: totalCompanies - withUsers,
		CompaniesWithTeams:    withTeams,
		CompaniesWithoutTeams: totalCompanies - withTeams,
	}, nil
}
