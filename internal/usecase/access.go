package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vasapolrittideah/backoffice-api/internal/model"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
)

// AccessUsecase owns permission resolution and role/grant administration.
//
// Resolution computes the effective capability set of a user as the union of
// the user's direct permissions and the permissions of every role the user
// holds. Role permission bundles are cached in memory; the cache entry for a
// role is invalidated exactly at the point its bundle is mutated, never by an
// ambient global reset.
type AccessUsecase interface {
	ResolvePermissions(ctx context.Context, user *model.User) ([]string, error)

	CreateRole(ctx context.Context, name string, permissions []string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
	SetRolePermissions(ctx context.Context, name string, permissions []string) (*model.Role, error)
	ListPermissions(ctx context.Context) ([]*model.Permission, error)

	GrantPermissions(ctx context.Context, userID string, permissions []string) (*model.User, error)
	RevokePermissions(ctx context.Context, userID string, permissions []string) (*model.User, error)
	AssignRole(ctx context.Context, userID, role string) (*model.User, error)
	RemoveRole(ctx context.Context, userID, role string) (*model.User, error)
}

type accessUsecase struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository

	mu        sync.RWMutex
	roleCache map[string][]string
}

// NewAccessUsecase creates a new instance of AccessUsecase.
func NewAccessUsecase(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permRepo repository.PermissionRepository,
) AccessUsecase {
	return &accessUsecase{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		permRepo:  permRepo,
		roleCache: make(map[string][]string),
	}
}

func (u *accessUsecase) ResolvePermissions(ctx context.Context, user *model.User) ([]string, error) {
	set := make(map[string]struct{}, len(user.Permissions))
	for _, perm := range user.Permissions {
		set[perm] = struct{}{}
	}

	var misses []string

	u.mu.RLock()
	for _, name := range user.Roles {
		perms, ok := u.roleCache[name]
		if !ok {
			misses = append(misses, name)
			continue
		}
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
	}
	u.mu.RUnlock()

	if len(misses) > 0 {
		// A role name with no backing document resolves to no permissions.
		roles, err := u.roleRepo.GetRolesByNames(ctx, misses)
		if err != nil {
			return nil, err
		}

		u.mu.Lock()
		for _, role := range roles {
			u.roleCache[role.Name] = role.Permissions
		}
		u.mu.Unlock()

		for _, role := range roles {
			for _, perm := range role.Permissions {
				set[perm] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for perm := range set {
		out = append(out, perm)
	}
	sort.Strings(out)

	return out, nil
}

func (u *accessUsecase) CreateRole(ctx context.Context, name string, permissions []string) (*model.Role, error) {
	if err := u.checkPermissionsExist(ctx, permissions); err != nil {
		return nil, err
	}

	role, err := u.roleRepo.CreateRole(ctx, &model.Role{
		Name:        name,
		Permissions: permissions,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrRoleExists
		}
		return nil, err
	}

	return role, nil
}

func (u *accessUsecase) ListRoles(ctx context.Context) ([]*model.Role, error) {
	return u.roleRepo.ListRoles(ctx)
}

func (u *accessUsecase) SetRolePermissions(
	ctx context.Context,
	name string,
	permissions []string,
) (*model.Role, error) {
	if err := u.checkPermissionsExist(ctx, permissions); err != nil {
		return nil, err
	}

	role, err := u.roleRepo.SetRolePermissions(ctx, name, permissions)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	u.mu.Lock()
	delete(u.roleCache, name)
	u.mu.Unlock()

	return role, nil
}

func (u *accessUsecase) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	return u.permRepo.ListPermissions(ctx)
}

func (u *accessUsecase) GrantPermissions(
	ctx context.Context,
	userID string,
	permissions []string,
) (*model.User, error) {
	if err := u.checkPermissionsExist(ctx, permissions); err != nil {
		return nil, err
	}

	user, err := u.userRepo.AddPermissions(ctx, userID, permissions)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *accessUsecase) RevokePermissions(
	ctx context.Context,
	userID string,
	permissions []string,
) (*model.User, error) {
	user, err := u.userRepo.RemovePermissions(ctx, userID, permissions)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *accessUsecase) AssignRole(ctx context.Context, userID, role string) (*model.User, error) {
	if _, err := u.roleRepo.GetRoleByName(ctx, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	user, err := u.userRepo.AddRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *accessUsecase) RemoveRole(ctx context.Context, userID, role string) (*model.User, error) {
	user, err := u.userRepo.RemoveRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *accessUsecase) checkPermissionsExist(ctx context.Context, permissions []string) error {
	ok, err := u.permRepo.AllExist(ctx, permissions)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownPermission
	}

	return nil
}
