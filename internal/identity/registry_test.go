package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confreg/internal/apperrors"
	"confreg/internal/models"
)

type fakeDirectory struct {
	users     map[int64]*models.User
	overrides map[int64][]Override
	lookups   int
}

func (f *fakeDirectory) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.lookups++
	return f.users[id], nil
}

func (f *fakeDirectory) GetPrivilegeOverrides(_ context.Context, userID int64) ([]Override, error) {
	return f.overrides[userID], nil
}

type fakeCache struct {
	sets map[int64]PermissionSet
}

func newFakeCache() *fakeCache {
	return &fakeCache{sets: make(map[int64]PermissionSet)}
}

func (f *fakeCache) GetPermissions(_ context.Context, userID int64) (PermissionSet, bool) {
	set, ok := f.sets[userID]
	return set, ok
}

func (f *fakeCache) SetPermissions(_ context.Context, userID int64, set PermissionSet) {
	f.sets[userID] = set
}

func (f *fakeCache) InvalidatePermissions(_ context.Context, userID int64) {
	delete(f.sets, userID)
}

func TestRegistryHasPrivilege(t *testing.T) {
	dir := &fakeDirectory{users: map[int64]*models.User{
		1: {ID: 1, Role: "organizer", IsActive: true},
		2: {ID: 2, Role: "participant", IsActive: true},
		3: {ID: 3, Role: "organizer", IsActive: false},
	}}
	r := NewRegistry(dir, nil)

	ok, err := r.HasPrivilege(context.Background(), 1, ResourcePayment, ActionComplete)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasPrivilege(context.Background(), 2, ResourcePayment, ActionComplete)
	require.NoError(t, err)
	assert.False(t, ok)

	// Inactive accounts hold no privileges regardless of role.
	ok, err = r.HasPrivilege(context.Background(), 3, ResourcePayment, ActionComplete)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown users likewise.
	ok, err = r.HasPrivilege(context.Background(), 404, ResourcePayment, ActionComplete)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryRequire(t *testing.T) {
	dir := &fakeDirectory{users: map[int64]*models.User{
		1: {ID: 1, Role: "participant", IsActive: true},
	}}
	r := NewRegistry(dir, nil)

	err := r.Require(context.Background(), 1, ResourceContract, ActionManage)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestRegistryCachesResolvedSet(t *testing.T) {
	dir := &fakeDirectory{users: map[int64]*models.User{
		1: {ID: 1, Role: "organizer", IsActive: true},
	}}
	cache := newFakeCache()
	r := NewRegistry(dir, cache)

	ok, err := r.HasPrivilege(context.Background(), 1, ResourcePayment, ActionRecord)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, dir.lookups)

	// Second check is served from cache.
	ok, err = r.HasPrivilege(context.Background(), 1, ResourcePayment, ActionRecord)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, dir.lookups)
}

func TestRegistryInvalidateForcesResolution(t *testing.T) {
	dir := &fakeDirectory{users: map[int64]*models.User{
		1: {ID: 1, Role: "organizer", IsActive: true},
	}}
	cache := newFakeCache()
	r := NewRegistry(dir, cache)

	_, err := r.HasPrivilege(context.Background(), 1, ResourcePayment, ActionRecord)
	require.NoError(t, err)

	// An override lands and the cache entry is dropped.
	dir.overrides = map[int64][]Override{
		1: {{Resource: ResourcePayment, Action: ActionRecord, Allowed: false}},
	}
	r.Invalidate(context.Background(), 1)

	ok, err := r.HasPrivilege(context.Background(), 1, ResourcePayment, ActionRecord)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, dir.lookups)
}
