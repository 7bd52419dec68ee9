package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
)

// TransactionRepository defines the interface for transaction-related database operations.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, transaction *model.Transaction) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, params UpdateTransactionParams) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, params FilterTransactionsParams) ([]*model.Transaction, error)
	CountBySender(ctx context.Context, party model.Party) (int64, error)
	CountByReceiver(ctx context.Context, party model.Party) (int64, error)
}

// UpdateTransactionParams defines the optional parameters for updating a transaction.
type UpdateTransactionParams struct {
	Amount          *float64
	Type            *model.TransactionType
	Status          *model.TransactionStatus
	TeamID          *bson.ObjectID
	Description     *string
	Category        *string
	Date            *time.Time
	ReferenceNumber *string
}

// FilterTransactionsParams defines the parameters for filtering and
// paginating transactions. Results are always ordered by date, newest first.
type FilterTransactionsParams struct {
	TeamID *bson.ObjectID
	Limit  uint64
	Offset uint64
}

const transactionCollection = "transactions"

type transactionMongoRepository struct {
	db *mongo.Database
}

// NewTransactionMongoRepository creates a MongoDB repository for transactions
// and ensures the sparse unique reference number index exists.
func NewTransactionMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) TransactionRepository {
	collection := db.Collection(transactionCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "date", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create transaction indexes")
	}

	return &transactionMongoRepository{db: db}
}

func (r *transactionMongoRepository) CreateTransaction(
	ctx context.Context,
	transaction *model.Transaction,
) (*model.Transaction, error) {
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	result, err := r.db.Collection(transactionCollection).InsertOne(ctx, transaction)
	if err != nil {
		return nil, mapMongoError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		transaction.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return transaction, nil
}

func (r *transactionMongoRepository) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(transactionCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var transaction model.Transaction
	if err := result.Decode(&transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionMongoRepository) UpdateTransaction(
	ctx context.Context,
	id string,
	params UpdateTransactionParams,
) (*model.Transaction, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	updateMap := bson.M{}
	if params.Amount != nil {
		updateMap["amount"] = *params.Amount
	}
	if params.Type != nil {
		updateMap["type"] = *params.Type
	}
	if params.Status != nil {
		updateMap["status"] = *params.Status
	}
	if params.TeamID != nil {
		updateMap["team_id"] = *params.TeamID
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Category != nil {
		updateMap["category"] = *params.Category
	}
	if params.Date != nil {
		updateMap["date"] = *params.Date
	}
	if params.ReferenceNumber != nil {
		updateMap["reference_number"] = *params.ReferenceNumber
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no transaction fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(transactionCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var transaction model.Transaction
	if err := result.Decode(&transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionMongoRepository) DeleteTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(transactionCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var transaction model.Transaction
	if err := result.Decode(&transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionMongoRepository) ListTransactions(
	ctx context.Context,
	params FilterTransactionsParams,
) ([]*model.Transaction, error) {
	findOptions := options.Find()

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	findOptions.SetLimit(int64(limit))

	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	findOptions.SetSort(bson.D{{Key: "date", Value: -1}})

	filter := bson.M{}
	if params.TeamID != nil {
		filter["team_id"] = *params.TeamID
	}

	cursor, err := r.db.Collection(transactionCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []*model.Transaction
	for cursor.Next(ctx) {
		var transaction model.Transaction
		if err := cursor.Decode(&transaction); err != nil {
			return nil, err
		}
		transactions = append(transactions, &transaction)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *transactionMongoRepository) CountBySender(ctx context.Context, party model.Party) (int64, error) {
	return r.db.Collection(transactionCollection).CountDocuments(ctx, bson.M{
		"sender.kind": party.Kind,
		"sender.id":   party.ID,
	})
}

func (r *transactionMongoRepository) CountByReceiver(ctx context.Context, party model.Party) (int64, error) {
	return r.db.Collection(transactionCollection).CountDocuments(ctx, bson.M{
		"receiver.kind": party.Kind,
		"receiver.id":   party.ID,
	})
}
