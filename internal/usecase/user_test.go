package usecase

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
)

type userFixture struct {
	userRepo    *fakeUserRepo
	companyRepo *fakeCompanyRepo
	teamRepo    *fakeTeamRepo
	usecase     UserUsecase

	company *model.Company
	team    *model.Team
	user    *model.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	companyRepo := newFakeCompanyRepo()
	teamRepo := newFakeTeamRepo()

	company, err := companyRepo.CreateCompany(context.Background(), &model.Company{Name: "Acme"})
	require.NoError(t, err)

	team, err := teamRepo.CreateTeam(context.Background(), &model.Team{Name: "Sales", CompanyID: company.ID})
	require.NoError(t, err)

	user, err := userRepo.CreateUser(context.Background(), &model.User{
		Name:      "Ada",
		Surname:   "Lovelace",
		Email:     "ada@example.com",
		CompanyID: company.ID,
		TeamID:    team.ID,
	})
	require.NoError(t, err)

	return &userFixture{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		teamRepo:    teamRepo,
		usecase:     NewUserUsecase(userRepo, companyRepo, teamRepo),
		company:     company,
		team:        team,
		user:        user,
	}
}

func TestUpdateUserBasicFields(t *testing.T) {
	f := newUserFixture(t)

	name := "Augusta"
	updated, err := f.usecase.UpdateUser(context.Background(), f.user.ID.Hex(), UpdateUserParams{
		Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.Name)
	assert.Equal(t, "Lovelace", updated.Surname)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	f := newUserFixture(t)

	password := "new-password"
	updated, err := f.usecase.UpdateUser(context.Background(), f.user.ID.Hex(), UpdateUserParams{
		Password: &password,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, updated.PasswordHash)
	assert.NotEqual(t, password, updated.PasswordHash)
}

func TestUpdateUserTeamMustMatchCompany(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	other, err := f.companyRepo.CreateCompany(ctx, &model.Company{Name: "Other"})
	require.NoError(t, err)
	otherTeam, err := f.teamRepo.CreateTeam(ctx, &model.Team{Name: "Ops", CompanyID: other.ID})
	require.NoError(t, err)

	// Moving to the other company's team without moving company fails.
	teamID := otherTeam.ID.Hex()
	_, err = f.usecase.UpdateUser(ctx, f.user.ID.Hex(), UpdateUserParams{TeamID: &teamID})
	assert.ErrorIs(t, err, ErrTeamCompanyMismatch)

	// Moving company and team together succeeds.
	companyID := other.ID.Hex()
	updated, err := f.usecase.UpdateUser(ctx, f.user.ID.Hex(), UpdateUserParams{
		CompanyID: &companyID,
		TeamID:    &teamID,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.CompanyID)
	assert.Equal(t, otherTeam.ID, updated.TeamID)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.userRepo.CreateUser(ctx, &model.User{
		Email:     "taken@example.com",
		CompanyID: f.company.ID,
		TeamID:    f.team.ID,
	})
	require.NoError(t, err)

	email := "taken@example.com"
	_, err = f.usecase.UpdateUser(ctx, f.user.ID.Hex(), UpdateUserParams{Email: &email})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture(t)

	deleted, err := f.usecase.DeleteUser(context.Background(), f.user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, deleted.ID)

	_, err = f.usecase.GetUser(context.Background(), f.user.ID.Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExportUsersCSV(t *testing.T) {
	f := newUserFixture(t)

	data, err := f.usecase.ExportUsersCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"ID", "Name", "Surname", "Email", "National ID", "Company ID", "Team ID", "Created At", "Updated At",
	}, records[0])

	assert.Equal(t, f.user.ID.Hex(), records[1][0])
	assert.Equal(t, "Ada", records[1][1])
	assert.Equal(t, "ada@example.com", records[1][3])
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	assert.Equal(t, "users_2026-08-28_14-30-05.csv", ExportFilename(now))
}
