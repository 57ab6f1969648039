package identity

import (
	"context"

	"confreg/internal/apperrors"
	"confreg/internal/models"
)

// Directory is the account lookup the registry consults.
type Directory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetPrivilegeOverrides(ctx context.Context, userID int64) ([]Override, error)
}

// PermissionCache stores resolved permission sets. A miss is not an error;
// the registry recomputes and writes back. Invalidation is explicit, called
// whenever a role or override changes.
type PermissionCache interface {
	GetPermissions(ctx context.Context, userID int64) (PermissionSet, bool)
	SetPermissions(ctx context.Context, userID int64, set PermissionSet)
	InvalidatePermissions(ctx context.Context, userID int64)
}

// Registry answers privilege questions for the engine. It is the only
// authorization authority; services delegate verdicts here.
type Registry struct {
	directory Directory
	cache     PermissionCache
}

// NewRegistry builds a registry. cache may be nil, in which case every call
// resolves from the directory.
func NewRegistry(directory Directory, cache PermissionCache) *Registry {
	return &Registry{directory: directory, cache: cache}
}

// HasPrivilege reports whether the user may perform action on resource.
// Unknown or inactive users hold no privileges.
func (r *Registry) HasPrivilege(ctx context.Context, userID int64, resource, action string) (bool, error) {
	if r.cache != nil {
		if set, ok := r.cache.GetPermissions(ctx, userID); ok {
			return set.Allows(resource, action), nil
		}
	}

	user, err := r.directory.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || !user.IsActive {
		return false, nil
	}

	overrides, err := r.directory.GetPrivilegeOverrides(ctx, userID)
	if err != nil {
		return false, err
	}

	set := ResolvePrivileges(user.Role, overrides)
	if r.cache != nil {
		r.cache.SetPermissions(ctx, userID, set)
	}
	return set.Allows(resource, action), nil
}

// Require returns a Forbidden error unless the user holds the privilege.
func (r *Registry) Require(ctx context.Context, userID int64, resource, action string) error {
	ok, err := r.HasPrivilege(ctx, userID, resource, action)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.E(apperrors.KindForbidden, apperrors.CodeForbidden,
			"actor lacks privilege for this operation")
	}
	return nil
}

// Invalidate drops the cached permission set for a user. Call after any
// role or override change.
func (r *Registry) Invalidate(ctx context.Context, userID int64) {
	if r.cache != nil {
		r.cache.InvalidatePermissions(ctx, userID)
	}
}
