package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
)

// CompanyRepository defines the interface for company-related database operations.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company *model.Company) (*model.Company, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	UpdateCompany(ctx context.Context, id string, params UpdateCompanyParams) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context, limit, offset uint64) ([]*model.Company, error)
	CountCompanies(ctx context.Context) (int64, error)
}

// UpdateCompanyParams defines the optional parameters for updating a company.
type UpdateCompanyParams struct {
	Name    *string
	Balance *float64
}

const companyCollection = "companies"

type companyMongoRepository struct {
	db *mongo.Database
}

func NewCompanyMongoRepository(db *mongo.Database) CompanyRepository {
	return &companyMongoRepository{db: db}
}

func (r *companyMongoRepository) CreateCompany(ctx context.Context, company *model.Company) (*model.Company, error) {
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	result, err := r.db.Collection(companyCollection).InsertOne(ctx, company)
	if err != nil {
		return nil, mapMongoError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		company.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return company, nil
}

func (r *companyMongoRepository) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(companyCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var company model.Company
	if err := result.Decode(&company); err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *companyMongoRepository) UpdateCompany(
	ctx context.Context,
	id string,
	params UpdateCompanyParams,
) (*model.Company, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Balance != nil {
		updateMap["balance"] = *params.Balance
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no company fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(companyCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var company model.Company
	if err := result.Decode(&company); err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *companyMongoRepository) DeleteCompany(ctx context.Context, id string) (*model.Company, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(companyCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var company model.Company
	if err := result.Decode(&company); err != nil {
		return nil, err
	}

	return &company, nil
}

func (r *companyMongoRepository) ListCompanies(ctx context.Context, limit, offset uint64) ([]*model.Company, error) {
	findOptions := options.Find()

	if limit == 0 {
		limit = 10
	}
	findOptions.SetLimit(int64(limit))

	if offset > 0 {
		findOptions.SetSkip(int64(offset))
	}

	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(companyCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var companies []*model.Company
	for cursor.Next(ctx) {
		var company model.Company
		if err := cursor.Decode(&company); err != nil {
			return nil, err
		}
		companies = append(companies, &company)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *companyMongoRepository) CountCompanies(ctx context.Context) (int64, error) {
	return r.db.Collection(companyCollection).CountDocuments(ctx, bson.M{})
}
