package profilestore

import (
	"context"
	"encoding/json"

	"github.com/valkey-io/valkey-go"

	"github.com/jedalosa/energymatch/internal/domain/profile"
)

// ValkeyStore persists the saved profile in a Valkey-compatible database
// under one fixed key. No TTL, no versioning: the last write wins.
type ValkeyStore struct {
	client valkey.Client
	key    string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, key string) *ValkeyStore {
	if key == "" {
		key = "energyMatch_userProfile"
	}
	return &ValkeyStore{client: client, key: key}
}

// Save serializes and overwrites the stored profile.
func (s *ValkeyStore) Save(ctx context.Context, p profile.Profile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.key).Value(string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Load returns the stored profile, if any.
func (s *ValkeyStore) Load(ctx context.Context) (profile.Profile, bool, error) {
	cmd := s.client.B().Get().Key(s.key).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, err
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return profile.Profile{}, false, err
	}
	return p, true, nil
}

var _ profile.Store = (*ValkeyStore)(nil)
