package usecase

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/backoffice-api/internal/config"
	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/shared/auth"
)

type authFixture struct {
	userRepo    *fakeUserRepo
	companyRepo *fakeCompanyRepo
	teamRepo    *fakeTeamRepo
	roleRepo    *fakeRoleRepo
	permRepo    *fakePermRepo
	mailer      *fakeMailer
	access      AccessUsecase
	auth        AuthUsecase
	cfg         *config.Config
	jwtAuth     auth.JWTAuthenticator

	company *model.Company
	team    *model.Team
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		Token: config.TokenConfig{
			Secret:    "test-secret",
			Issuer:    "backoffice-api",
			ExpiresIn: 24 * time.Hour,
		},
		OTP: config.OTPConfig{ExpiresIn: 10 * time.Minute},
	}

	userRepo := newFakeUserRepo()
	companyRepo := newFakeCompanyRepo()
	teamRepo := newFakeTeamRepo()
	roleRepo := newFakeRoleRepo()
	permRepo := newFakePermRepo(AllPermissions...)
	mailer := newFakeMailer()

	company, err := companyRepo.CreateCompany(context.Background(), &model.Company{Name: "Acme"})
	require.NoError(t, err)

	team, err := teamRepo.CreateTeam(context.Background(), &model.Team{Name: "Sales", CompanyID: company.ID})
	require.NoError(t, err)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	access := NewAccessUsecase(userRepo, roleRepo, permRepo)
	logger := zerolog.Nop()

	return &authFixture{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		teamRepo:    teamRepo,
		roleRepo:    roleRepo,
		permRepo:    permRepo,
		mailer:      mailer,
		access:      access,
		auth: NewAuthUsecase(
			userRepo, companyRepo, teamRepo, access, jwtAuth, mailer, cfg, &logger,
		),
		cfg:     cfg,
		jwtAuth: jwtAuth,
		company: company,
		team:    team,
	}
}

func (f *authFixture) register(t *testing.T, email string) *model.User {
	t.Helper()

	user, err := f.auth.Register(context.Background(), RegisterParams{
		Name:       "Ada",
		Surname:    "Lovelace",
		Email:      email,
		Password:   "correct-horse",
		NationalID: "12345678901",
		BirthYear:  1990,
		CompanyID:  f.company.ID.Hex(),
		TeamID:     f.team.ID.Hex(),
	})
	require.NoError(t, err)

	return user
}

func TestRegisterGrantsDefaultPermissions(t *testing.T) {
	f := newAuthFixture(t)

	user := f.register(t, "ada@example.com")

	assert.Equal(t, []string{PermViewOwnProfile, PermEditOwnProfile}, user.Permissions)
	assert.Empty(t, user.Roles)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "ada@example.com")

	_, err := f.auth.Register(context.Background(), RegisterParams{
		Name:      "Ada",
		Surname:   "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct-horse",
		BirthYear: 1990,
		CompanyID: f.company.ID.Hex(),
		TeamID:    f.team.ID.Hex(),
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterTeamCompanyMismatch(t *testing.T) {
	f := newAuthFixture(t)

	other, err := f.companyRepo.CreateCompany(context.Background(), &model.Company{Name: "Other"})
	require.NoError(t, err)

	_, err = f.auth.Register(context.Background(), RegisterParams{
		Name:      "Ada",
		Surname:   "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct-horse",
		BirthYear: 1990,
		CompanyID: other.ID.Hex(),
		TeamID:    f.team.ID.Hex(),
	})
	assert.ErrorIs(t, err, ErrTeamCompanyMismatch)
}

func TestRegisterUnknownCompany(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Register(context.Background(), RegisterParams{
		Name:      "Ada",
		Surname:   "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct-horse",
		BirthYear: 1990,
		CompanyID: "deadbeefdeadbeefdeadbeef",
		TeamID:    f.team.ID.Hex(),
	})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.auth.Login(context.Background(), LoginParams{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(context.Background(), LoginParams{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoresOTPAndDispatchesEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	before := time.Now()
	email, err := f.auth.Login(context.Background(), LoginParams{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	user, err := f.userRepo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)

	require.Len(t, user.OTPCode, 6)
	code, err := strconv.Atoi(user.OTPCode)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code, 100000)
	assert.LessOrEqual(t, code, 999999)

	assert.WithinDuration(t, before.Add(f.cfg.OTP.ExpiresIn), user.OTPExpiresAt, 2*time.Second)

	sent, ok := f.mailer.wait(time.Second)
	require.True(t, ok, "expected OTP email to be dispatched")
	assert.Equal(t, []string{"ada@example.com"}, sent.to)
	assert.Equal(t, "Login OTP", sent.subject)
	assert.Contains(t, sent.body, user.OTPCode)
}

func TestLoginOverwritesPendingOTP(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	login := func() string {
		_, err := f.auth.Login(context.Background(), LoginParams{
			Email:    "ada@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)

		user, err := f.userRepo.GetUserByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		return user.OTPCode
	}

	first := login()
	second := login()

	// The first code is no longer consumable once a second login replaced it.
	if first != second {
		_, err := f.auth.VerifyOTP(context.Background(), VerifyOTPParams{
			Email: "ada@example.com",
			OTP:   first,
		})
		assert.ErrorIs(t, err, ErrOTPInvalid)
	}
}

func TestVerifyOTPMintsScopedToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.auth.Login(context.Background(), LoginParams{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	user, err := f.userRepo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)

	verified, err := f.auth.VerifyOTP(context.Background(), VerifyOTPParams{
		Email: "ada@example.com",
		OTP:   user.OTPCode,
	})
	require.NoError(t, err)
	require.NotEmpty(t, verified.Token)
	assert.Equal(t, []string{PermEditOwnProfile, PermViewOwnProfile}, verified.Permissions)

	claims := &auth.AccessClaims{}
	_, err = f.jwtAuth.ValidateTokenWithClaims(verified.Token, f.cfg.Token.Secret, claims)
	require.NoError(t, err)

	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.ElementsMatch(t, DefaultUserPermissions, claims.Permissions)

	// Grants made after minting do not alter the token's snapshot.
	_, err = f.access.GrantPermissions(context.Background(), user.ID.Hex(), []string{PermManageCompanies})
	require.NoError(t, err)

	later := &auth.AccessClaims{}
	_, err = f.jwtAuth.ValidateTokenWithClaims(verified.Token, f.cfg.Token.Secret, later)
	require.NoError(t, err)
	assert.NotContains(t, later.Permissions, PermManageCompanies)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.auth.Login(context.Background(), LoginParams{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	user, err := f.userRepo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if user.OTPCode == wrong {
		wrong = "000001"
	}

	_, err = f.auth.VerifyOTP(context.Background(), VerifyOTPParams{
		Email: "ada@example.com",
		OTP:   wrong,
	})
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTPExpired(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ada@example.com")

	err := f.userRepo.SetOTP(context.Background(), user.ID.Hex(), "123456", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = f.auth.VerifyOTP(context.Background(), VerifyOTPParams{
		Email: "ada@example.com",
		OTP:   "123456",
	})
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com")

	_, err := f.auth.Login(context.Background(), LoginParams{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	user, err := f.userRepo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	code := user.OTPCode

	_, err = f.auth.VerifyOTP(context.Background(), VerifyOTPParams{Email: "ada@example.com", OTP: code})
	require.NoError(t, err)

	_, err = f.auth.VerifyOTP(context.Background(), VerifyOTPParams{Email: "ada@example.com", OTP: code})
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTPUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.VerifyOTP(context.Background(), VerifyOTPParams{
		Email: "nobody@example.com",
		OTP:   "123456",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.False(t, strings.HasPrefix(code, "0"), "code %s must not have a leading zero", code)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}
