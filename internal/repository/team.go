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

// TeamRepository defines the interface for team-related database operations.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *model.Team) (*model.Team, error)
	GetTeam(ctx context.Context, id string) (*model.Team, error)
	UpdateTeam(ctx context.Context, id string, params UpdateTeamParams) (*model.Team, error)
	DeleteTeam(ctx context.Context, id string) (*model.Team, error)
	ListTeams(ctx context.Context, limit, offset uint64) ([]*model.Team, error)
	CountTeams(ctx context.Context) (int64, error)
	CountTeamsByCompany(ctx context.Context, companyID bson.ObjectID) (int64, error)
	DistinctCompanyIDs(ctx context.Context) ([]bson.ObjectID, error)
}

// UpdateTeamParams defines the optional parameters for updating a team.
type UpdateTeamParams struct {
	Name      *string
	CompanyID *bson.ObjectID
}

const teamCollection = "teams"

type teamMongoRepository struct {
	db *mongo.Database
}

func NewTeamMongoRepository(db *mongo.Database) TeamRepository {
	return &teamMongoRepository{db: db}
}

func (r *teamMongoRepository) CreateTeam(ctx context.Context, team *model.Team) (*model.Team, error) {
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	result, err := r.db.Collection(teamCollection).InsertOne(ctx, team)
	if err != nil {
		return nil, mapMongoError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		team.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return team, nil
}

func (r *teamMongoRepository) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(teamCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var team model.Team
	if err := result.Decode(&team); err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *teamMongoRepository) UpdateTeam(
	ctx context.Context,
	id string,
	params UpdateTeamParams,
) (*model.Team, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.CompanyID != nil {
		updateMap["company_id"] = *params.CompanyID
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no team fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(teamCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var team model.Team
	if err := result.Decode(&team); err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *teamMongoRepository) DeleteTeam(ctx context.Context, id string) (*model.Team, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(teamCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var team model.Team
	if err := result.Decode(&team); err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *teamMongoRepository) ListTeams(ctx context.Context, limit, offset uint64) ([]*model.Team, error) {
	findOptions := options.Find()

	if limit == 0 {
		limit = 10
	}
	findOptions.SetLimit(int64(limit))

	if offset > 0 {
		findOptions.SetSkip(int64(offset))
	}

	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(teamCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []*model.Team
	for cursor.Next(ctx) {
		var team model.Team
		if err := cursor.Decode(&team); err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamMongoRepository) CountTeams(ctx context.Context) (int64, error) {
	return r.db.Collection(teamCollection).CountDocuments(ctx, bson.M{})
}

func (r *teamMongoRepository) CountTeamsByCompany(ctx context.Context, companyID bson.ObjectID) (int64, error) {
	return r.db.Collection(teamCollection).CountDocuments(ctx, bson.M{"company_id": companyID})
}

func (r *teamMongoRepository) DistinctCompanyIDs(ctx context.Context) ([]bson.ObjectID, error) {
	result := r.db.Collection(teamCollection).Distinct(ctx, "company_id", bson.M{})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var ids []bson.ObjectID
	if err := result.Decode(&ids); err != nil {
		return nil, err
	}

	return ids, nil
}
