package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/backoffice-api/internal/config"
	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
	"github.com/vasapolrittideah/backoffice-api/shared/auth"
	"github.com/vasapolrittideah/backoffice-api/shared/security"
)

// Mailer is the outbound notification channel used to deliver login codes.
type Mailer interface {
	SendSimple(to []string, subject, body string) error
}

// AuthUsecase defines the interface for authentication-related use cases.
//
// Login never returns a token. It only verifies credentials and starts an OTP
// cycle; the token is minted by VerifyOTP once the emailed code comes back.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	Login(ctx context.Context, params LoginParams) (string, error)
	VerifyOTP(ctx context.Context, params VerifyOTPParams) (*VerifiedLogin, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name       string
	Surname    string
	Email      string
	Password   string
	NationalID string
	BirthYear  int
	CompanyID  string
	TeamID     string
}

// LoginParams defines the parameters for the credential check.
type LoginParams struct {
	Email    string
	Password string
}

// VerifyOTPParams defines the parameters for the OTP verification step.
type VerifyOTPParams struct {
	Email string
	OTP   string
}

// VerifiedLogin is the outcome of a successful OTP verification: the minted
// capability-scoped token and the user it belongs to.
type VerifiedLogin struct {
	Token       string
	User        *model.User
	Permissions []string
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOTPInvalid         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP has expired")
)

type authUsecase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	teamRepo    repository.TeamRepository
	access      AccessUsecase
	jwtAuth     auth.JWTAuthenticator
	mailer      Mailer
	cfg         *config.Config
	logger      *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	teamRepo repository.TeamRepository,
	access AccessUsecase,
	jwtAuth auth.JWTAuthenticator,
	mailer Mailer,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		teamRepo:    teamRepo,
		access:      access,
		jwtAuth:     jwtAuth,
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	companyID, err := bson.ObjectIDFromHex(params.CompanyID)
	if err != nil {
		return nil, ErrCompanyNotFound
	}
	if _, err := u.companyRepo.GetCompany(ctx, params.CompanyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	teamID, err := bson.ObjectIDFromHex(params.TeamID)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	team, err := u.teamRepo.GetTeam(ctx, params.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.CompanyID != companyID {
		return nil, ErrTeamCompanyMismatch
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Surname:      params.Surname,
		Email:        params.Email,
		PasswordHash: passwordHash,
		NationalID:   params.NationalID,
		BirthYear:    params.BirthYear,
		CompanyID:    companyID,
		TeamID:       teamID,
		Roles:        []string{},
		Permissions:  append([]string(nil), DefaultUserPermissions...),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the password and starts an OTP cycle: a fresh 6-digit code
// overwrites any pending one, and the code is dispatched by email without
// blocking the response. A dispatch failure is logged, never surfaced.
func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(u.cfg.OTP.ExpiresIn)
	if err := u.userRepo.SetOTP(ctx, user.ID.Hex(), code, expiresAt); err != nil {
		return "", err
	}

	go u.dispatchOTP(user.Email, code)

	return user.Email, nil
}

func (u *authUsecase) VerifyOTP(ctx context.Context, params VerifyOTPParams) (*VerifiedLogin, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.OTPCode == "" {
		return nil, ErrOTPInvalid
	}

	if time.Now().After(user.OTPExpiresAt) {
		return nil, ErrOTPExpired
	}

	// The consume is a compare-and-unset on email+code, so of two concurrent
	// attempts with the same still-valid code at most one can win.
	verified, err := u.userRepo.ConsumeOTP(ctx, params.Email, params.OTP)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOTPInvalid
		}
		return nil, err
	}

	permissions, err := u.access.ResolvePermissions(ctx, verified)
	if err != nil {
		return nil, err
	}

	token, err := u.generateAccessToken(verified, permissions)
	if err != nil {
		return nil, err
	}

	return &VerifiedLogin{
		Token:       token,
		User:        verified,
		Permissions: permissions,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *model.User, permissions []string) (string, error) {
	now := time.Now()
	claims := auth.AccessClaims{
		UserID:      user.ID.Hex(),
		Email:       user.Email,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    u.cfg.Token.Issuer,
			Audience:  jwt.ClaimStrings{u.cfg.Token.Issuer},
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.cfg.Token.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return u.jwtAuth.GenerateToken(claims, u.cfg.Token.Secret)
}

func (u *authUsecase) dispatchOTP(email, code string) {
	body := fmt.Sprintf(
		"Your OTP for login is: %s\n"+
			"This OTP will expire in %s.\n"+
			"If you did not request this OTP, please ignore this email.\n"+
			"Thank you for using our application!",
		code, u.cfg.OTP.ExpiresIn,
	)

	if err := u.mailer.SendSimple([]string{email}, "Login OTP", body); err != nil {
		u.logger.Error().Err(err).Str("email", email).Msg("failed to send login OTP email")
	}
}

// generateOTP returns a uniform random 6-digit decimal code in
// [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
