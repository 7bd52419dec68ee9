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

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, params FilterUsersParams) ([]*model.User, error)

	// SetOTP overwrites the pending one-time code and its expiry on the user.
	SetOTP(ctx context.Context, id string, code string, expiresAt time.Time) error

	// ConsumeOTP atomically clears a matching pending code and returns the
	// user. It fails with ErrNotFound when no user holds exactly that code,
	// which covers both a wrong code and a concurrently consumed one.
	ConsumeOTP(ctx context.Context, email, code string) (*model.User, error)

	AddPermissions(ctx context.Context, id string, permissions []string) (*model.User, error)
	RemovePermissions(ctx context.Context, id string, permissions []string) (*model.User, error)
	AddRole(ctx context.Context, id string, role string) (*model.User, error)
	RemoveRole(ctx context.Context, id string, role string) (*model.User, error)

	CountUsers(ctx context.Context) (int64, error)
	CountUsersByCompany(ctx context.Context, companyID bson.ObjectID) (int64, error)
	DistinctTeamIDs(ctx context.Context, companyID bson.ObjectID) ([]bson.ObjectID, error)
	DistinctCompanyIDs(ctx context.Context) ([]bson.ObjectID, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Name         *string
	Surname      *string
	Email        *string
	PasswordHash *string
	NationalID   *string
	BirthYear    *int
	CompanyID    *bson.ObjectID
	TeamID       *bson.ObjectID
}

// FilterUsersParams defines the parameters for filtering and paginating users.
type FilterUsersParams struct {
	Email     *string
	CompanyID *bson.ObjectID
	TeamID    *bson.ObjectID
	Limit     uint64
	Offset    uint64
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a MongoDB repository for users and ensures
// the unique email index exists.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "company_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "team_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, mapMongoError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Surname != nil {
		updateMap["surname"] = *params.Surname
	}
	if params.Email != nil {
		updateMap["email"] = *params.Email
	}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}
	if params.NationalID != nil {
		updateMap["national_id"] = *params.NationalID
	}
	if params.BirthYear != nil {
		updateMap["birth_year"] = *params.BirthYear
	}
	if params.CompanyID != nil {
		updateMap["company_id"] = *params.CompanyID
	}
	if params.TeamID != nil {
		updateMap["team_id"] = *params.TeamID
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(userCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ListUsers(ctx context.Context, params FilterUsersParams) ([]*model.User, error) {
	findOptions := options.Find()

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	findOptions.SetLimit(int64(limit))

	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	filter := bson.M{}
	if params.Email != nil {
		filter["email"] = *params.Email
	}
	if params.CompanyID != nil {
		filter["company_id"] = *params.CompanyID
	}
	if params.TeamID != nil {
		filter["team_id"] = *params.TeamID
	}

	cursor, err := r.db.Collection(userCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) SetOTP(ctx context.Context, id string, code string, expiresAt time.Time) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"otp_code":       code,
			"otp_expires_at": expiresAt,
			"updated_at":     time.Now(),
		},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userMongoRepository) ConsumeOTP(ctx context.Context, email, code string) (*model.User, error) {
	filter := bson.M{
		"email":    email,
		"otp_code": code,
	}
	update := bson.M{
		"$unset": bson.M{
			"otp_code":       "",
			"otp_expires_at": "",
		},
		"$set": bson.M{
			"updated_at": time.Now(),
		},
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) AddPermissions(ctx context.Context, id string, permissions []string) (*model.User, error) {
	return r.updateGrants(ctx, id, bson.M{
		"$addToSet": bson.M{"permissions": bson.M{"$each": permissions}},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

func (r *userMongoRepository) RemovePermissions(ctx context.Context, id string, permissions []string) (*model.User, error) {
	return r.updateGrants(ctx, id, bson.M{
		"$pullAll": bson.M{"permissions": permissions},
		"$set":     bson.M{"updated_at": time.Now()},
	})
}

func (r *userMongoRepository) AddRole(ctx context.Context, id string, role string) (*model.User, error) {
	return r.updateGrants(ctx, id, bson.M{
		"$addToSet": bson.M{"roles": role},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

func (r *userMongoRepository) RemoveRole(ctx context.Context, id string, role string) (*model.User, error) {
	return r.updateGrants(ctx, id, bson.M{
		"$pull": bson.M{"roles": role},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (r *userMongoRepository) updateGrants(ctx context.Context, id string, update bson.M) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.db.Collection(userCollection).CountDocuments(ctx, bson.M{})
}

func (r *userMongoRepository) CountUsersByCompany(ctx context.Context, companyID bson.ObjectID) (int64, error) {
	return r.db.Collection(userCollection).CountDocuments(ctx, bson.M{"company_id": companyID})
}

func (r *userMongoRepository) DistinctTeamIDs(ctx context.Context, companyID bson.ObjectID) ([]bson.ObjectID, error) {
	return r.distinctObjectIDs(ctx, "team_id", bson.M{"company_id": companyID})
}

func (r *userMongoRepository) DistinctCompanyIDs(ctx context.Context) ([]bson.ObjectID, error) {
	return r.distinctObjectIDs(ctx, "company_id", bson.M{})
}

func (r *userMongoRepository) distinctObjectIDs(ctx context.Context, field string, filter bson.M) ([]bson.ObjectID, error) {
	result := r.db.Collection(userCollection).Distinct(ctx, field, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var ids []bson.ObjectID
	if err := result.Decode(&ids); err != nil {
		return nil, err
	}

	return ids, nil
}
