package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"confreg/internal/identity"

	"github.com/redis/rueidis"
)

// Config holds Valkey connection settings.
type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// ValkeyClient caches resolved permission sets. Cache trouble is never
// fatal: reads fall through to the directory, writes are best effort.
type ValkeyClient struct {
	client rueidis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{cfg.Addr},
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ValkeyClient{client: client, ttl: ttl}, nil
}

func permissionsKey(userID int64) string {
	return fmt.Sprintf("privileges:%d", userID)
}

// GetPermissions returns the cached permission set for a user, if any.
func (v *ValkeyClient) GetPermissions(ctx context.Context, userID int64) (identity.PermissionSet, bool) {
	raw, err := v.client.Do(ctx, v.client.B().Get().Key(permissionsKey(userID)).Build()).AsBytes()
	if err != nil {
		return nil, false
	}

	var set identity.PermissionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		slog.Warn("Dropping malformed cached permission set", "user_id", userID, "error", err)
		v.InvalidatePermissions(ctx, userID)
		return nil, false
	}
	return set, true
}

// SetPermissions stores a resolved permission set with the configured TTL.
func (v *ValkeyClient) SetPermissions(ctx context.Context, userID int64, set identity.PermissionSet) {
	raw, err := json.Marshal(set)
	if err != nil {
		return
	}
	cmd := v.client.B().Set().Key(permissionsKey(userID)).Value(string(raw)).Ex(v.ttl).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		slog.Warn("Failed to cache permission set", "user_id", userID, "error", err)
	}
}

// InvalidatePermissions drops a user's cached permission set.
func (v *ValkeyClient) InvalidatePermissions(ctx context.Context, userID int64) {
	cmd := v.client.B().Del().Key(permissionsKey(userID)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		slog.Warn("Failed to invalidate cached permission set", "user_id", userID, "error", err)
	}
}

func (v *ValkeyClient) Close() {
	v.client.Close()
}
