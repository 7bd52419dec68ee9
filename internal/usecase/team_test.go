package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
)

func newTeamFixture(t *testing.T) (*fakeCompanyRepo, TeamUsecase, *model.Company) {
	t.Helper()

	companyRepo := newFakeCompanyRepo()
	teamRepo := newFakeTeamRepo()

	company, err := companyRepo.CreateCompany(context.Background(), &model.Company{Name: "Acme"})
	require.NoError(t, err)

	return companyRepo, NewTeamUsecase(teamRepo, companyRepo), company
}

func TestCreateTeamRequiresCompany(t *testing.T) {
	_, teams, _ := newTeamFixture(t)

	_, err := teams.CreateTeam(context.Background(), CreateTeamParams{
		Name:      "Sales",
		CompanyID: "deadbeefdeadbeefdeadbeef",
	})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestTeamCRUD(t *testing.T) {
	companyRepo, teams, company := newTeamFixture(t)
	ctx := context.Background()

	created, err := teams.CreateTeam(ctx, CreateTeamParams{Name: "Sales", CompanyID: company.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, company.ID, created.CompanyID)

	other, err := companyRepo.CreateCompany(ctx, &model.Company{Name: "Other"})
	require.NoError(t, err)

	otherID := other.ID.Hex()
	updated, err := teams.UpdateTeam(ctx, created.ID.Hex(), UpdateTeamParams{CompanyID: &otherID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.CompanyID)

	unknown := "deadbeefdeadbeefdeadbeef"
	_, err = teams.UpdateTeam(ctx, created.ID.Hex(), UpdateTeamParams{CompanyID: &unknown})
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	deleted, err := teams.DeleteTeam(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = teams.GetTeam(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
