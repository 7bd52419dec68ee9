package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
)

// TransactionUsecase defines the business logic for transaction management.
type TransactionUsecase interface {
	CreateTransaction(ctx context.Context, params CreateTransactionParams) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, params UpdateTransactionParams) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, limit, offset uint64) ([]*model.Transaction, error)

	// TeamTransactions lists the transactions attributed to one team,
	// newest first.
	TeamTransactions(ctx context.Context, teamID string, limit, offset uint64) ([]*model.Transaction, error)
}

// PartyParams identifies one side of a transaction by kind and hex ID.
type PartyParams struct {
	Kind string
	ID   string
}

// CreateTransactionParams defines the parameters for creating a transaction.
type CreateTransactionParams struct {
	Amount          float64
	Type            string
	Status          string
	Sender          PartyParams
	Receiver        PartyParams
	TeamID          *string
	Description     string
	Category        string
	Date            time.Time
	ReferenceNumber string
}

// UpdateTransactionParams defines the optional parameters for updating a
// transaction.
type UpdateTransactionParams struct {
	Amount          *float64
	Type            *string
	Status          *string
	TeamID          *string
	Description     *string
	Category        *string
	Date            *time.Time
	ReferenceNumber *string
}

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidParty             = errors.New("invalid transaction party")
)

type transactionUsecase struct {
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	companyRepo     repository.CompanyRepository
	teamRepo        repository.TeamRepository
}

// NewTransactionUsecase creates a new instance of TransactionUsecase.
func NewTransactionUsecase(
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	teamRepo repository.TeamRepository,
) TransactionUsecase {
	return &transactionUsecase{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		companyRepo:     companyRepo,
		teamRepo:        teamRepo,
	}
}

func (u *transactionUsecase) CreateTransaction(
	ctx context.Context,
	params CreateTransactionParams,
) (*model.Transaction, error) {
	txType, err := parseTransactionType(params.Type)
	if err != nil {
		return nil, err
	}

	status, err := parseTransactionStatus(params.Status)
	if err != nil {
		return nil, err
	}

	sender, err := u.resolveParty(ctx, params.Sender)
	if err != nil {
		return nil, err
	}

	receiver, err := u.resolveParty(ctx, params.Receiver)
	if err != nil {
		return nil, err
	}

	var teamID *bson.ObjectID
	if params.TeamID != nil {
		id, err := u.resolveTeam(ctx, *params.TeamID)
		if err != nil {
			return nil, err
		}
		teamID = &id
	}

	reference := params.ReferenceNumber
	if reference == "" {
		reference = uuid.NewString()
	}

	transaction, err := u.transactionRepo.CreateTransaction(ctx, &model.Transaction{
		Amount:          params.Amount,
		Type:            txType,
		Status:          status,
		Sender:          sender,
		Receiver:        receiver,
		TeamID:          teamID,
		Description:     params.Description,
		Category:        params.Category,
		Date:            params.Date,
		ReferenceNumber: reference,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrReferenceNumberTaken
		}
		return nil, err
	}

	return transaction, nil
}

func (u *transactionUsecase) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	transaction, err := u.transactionRepo.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return transaction, nil
}

func (u *transactionUsecase) UpdateTransaction(
	ctx context.Context,
	id string,
	params UpdateTransactionParams,
) (*model.Transaction, error) {
	repoParams := repository.UpdateTransactionParams{
		Amount:      params.Amount,
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
	}

	if params.Type != nil {
		txType, err := parseTransactionType(*params.Type)
		if err != nil {
			return nil, err
		}
		repoParams.Type = &txType
	}

	if params.Status != nil {
		status, err := parseTransactionStatus(*params.Status)
		if err != nil {
			return nil, err
		}
		repoParams.Status = &status
	}

	if params.TeamID != nil {
		teamID, err := u.resolveTeam(ctx, *params.TeamID)
		if err != nil {
			return nil, err
		}
		repoParams.TeamID = &teamID
	}

	if params.ReferenceNumber != nil && *params.ReferenceNumber != "" {
		repoParams.ReferenceNumber = params.ReferenceNumber
	}

	transaction, err := u.transactionRepo.UpdateTransaction(ctx, id, repoParams)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTransactionNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrReferenceNumberTaken
		default:
			return nil, err
		}
	}

	return transaction, nil
}

func (u *transactionUsecase) DeleteTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	transaction, err := u.transactionRepo.DeleteTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return transaction, nil
}

func (u *transactionUsecase) ListTransactions(
	ctx context.Context,
	limit, offset uint64,
) ([]*model.Transaction, error) {
	return u.transactionRepo.ListTransactions(ctx, repository.FilterTransactionsParams{
		Limit:  limit,
		Offset: offset,
	})
}

func (u *transactionUsecase) TeamTransactions(
	ctx context.Context,
	teamID string,
	limit, offset uint64,
) ([]*model.Transaction, error) {
	id, err := u.resolveTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return u.transactionRepo.ListTransactions(ctx, repository.FilterTransactionsParams{
		TeamID: &id,
		Limit:  limit,
		Offset: offset,
	})
}

// resolveParty checks that the party kind is known and that the referenced
// user or company document exists.
func (u *transactionUsecase) resolveParty(ctx context.Context, params PartyParams) (model.Party, error) {
	kind := model.PartyKind(params.Kind)
	if !kind.Valid() {
		return model.Party{}, ErrInvalidParty
	}

	id, err := bson.ObjectIDFromHex(params.ID)
	if err != nil {
		return model.Party{}, ErrInvalidParty
	}

	switch kind {
	case model.PartyKindUser:
		if _, err := u.userRepo.GetUser(ctx, params.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.Party{}, ErrUserNotFound
			}
			return model.Party{}, err
		}
	case model.PartyKindCompany:
		if _, err := u.companyRepo.GetCompany(ctx, params.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.Party{}, ErrCompanyNotFound
			}
			return model.Party{}, err
		}
	}

	return model.Party{Kind: kind, ID: id}, nil
}

func (u *transactionUsecase) resolveTeam(ctx context.Context, id string) (bson.ObjectID, error) {
	teamID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, ErrTeamNotFound
	}

	if _, err := u.teamRepo.GetTeam(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return bson.ObjectID{}, ErrTeamNotFound
		}
		return bson.ObjectID{}, err
	}

	return teamID, nil
}

func parseTransactionType(s string) (model.TransactionType, error) {
	switch t := model.TransactionType(s); t {
	case model.TransactionTypeIncome, model.TransactionTypeExpense:
		return t, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

func parseTransactionStatus(s string) (model.TransactionStatus, error) {
	switch st := model.TransactionStatus(s); st {
	case model.TransactionStatusPending, model.TransactionStatusCompleted, model.TransactionStatusFailed:
		return st, nil
	default:
		return "", ErrInvalidTransactionStatus
	}
}
