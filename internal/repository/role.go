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

// RoleRepository defines the interface for role-related database operations.
type RoleRepository interface {
	CreateRole(ctx context.Context, role *model.Role) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	GetRolesByNames(ctx context.Context, names []string) ([]*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
	SetRolePermissions(ctx context.Context, name string, permissions []string) (*model.Role, error)
}

// PermissionRepository defines the interface for the permission catalog.
type PermissionRepository interface {
	// EnsurePermissions upserts the given permission names, used to seed the
	// catalog at boot.
	EnsurePermissions(ctx context.Context, names []string) error
	ListPermissions(ctx context.Context) ([]*model.Permission, error)
	AllExist(ctx context.Context, names []string) (bool, error)
}

const (
	roleCollection       = "roles"
	permissionCollection = "permissions"
)

type roleMongoRepository struct {
	db *mongo.Database
}

// NewRoleMongoRepository creates a MongoDB repository for roles and ensures
// the unique name index exists.
func NewRoleMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) RoleRepository {
	collection := db.Collection(roleCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create role indexes")
	}

	return &roleMongoRepository{db: db}
}

func (r *roleMongoRepository) CreateRole(ctx context.Context, role *model.Role) (*model.Role, error) {
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now

	if role.Permissions == nil {
		role.Permissions = []string{}
	}

	result, err := r.db.Collection(roleCollection).InsertOne(ctx, role)
	if err != nil {
		return nil, mapMongoError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		role.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return role, nil
}

func (r *roleMongoRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	result := r.db.Collection(roleCollection).FindOne(ctx, bson.M{"name": name})
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var role model.Role
	if err := result.Decode(&role); err != nil {
		return nil, err
	}

	return &role, nil
}

func (r *roleMongoRepository) GetRolesByNames(ctx context.Context, names []string) ([]*model.Role, error) {
	cursor, err := r.db.Collection(roleCollection).Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*model.Role
	for cursor.Next(ctx) {
		var role model.Role
		if err := cursor.Decode(&role); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *roleMongoRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	cursor, err := r.db.Collection(roleCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*model.Role
	for cursor.Next(ctx) {
		var role model.Role
		if err := cursor.Decode(&role); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *roleMongoRepository) SetRolePermissions(
	ctx context.Context,
	name string,
	permissions []string,
) (*model.Role, error) {
	if permissions == nil {
		permissions = []string{}
	}

	result := r.db.Collection(roleCollection).FindOneAndUpdate(
		ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{
			"permissions": permissions,
			"updated_at":  time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var role model.Role
	if err := result.Decode(&role); err != nil {
		return nil, err
	}

	return &role, nil
}

type permissionMongoRepository struct {
	db *mongo.Database
}

// NewPermissionMongoRepository creates a MongoDB repository for the
// permission catalog and ensures the unique name index exists.
func NewPermissionMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) PermissionRepository {
	collection := db.Collection(permissionCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create permission indexes")
	}

	return &permissionMongoRepository{db: db}
}

func (r *permissionMongoRepository) EnsurePermissions(ctx context.Context, names []string) error {
	collection := r.db.Collection(permissionCollection)

	for _, name := range names {
		_, err := collection.UpdateOne(
			ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{
				"name":       name,
				"created_at": time.Now(),
			}},
			options.UpdateOne().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *permissionMongoRepository) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	cursor, err := r.db.Collection(permissionCollection).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var permissions []*model.Permission
	for cursor.Next(ctx) {
		var permission model.Permission
		if err := cursor.Decode(&permission); err != nil {
			return nil, err
		}
		permissions = append(permissions, &permission)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return permissions, nil
}

func (r *permissionMongoRepository) AllExist(ctx context.Context, names []string) (bool, error) {
	unique := dedupeNames(names)
	if len(unique) == 0 {
		return true, nil
	}

	count, err := r.db.Collection(permissionCollection).CountDocuments(ctx, bson.M{
		"name": bson.M{"$in": unique},
	})
	if err != nil {
		return false, err
	}

	return count == int64(len(unique)), nil
}

// dedupeNames drops repeated entries so the $in count matches the number of
// distinct documents even when a request repeats a name.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}
