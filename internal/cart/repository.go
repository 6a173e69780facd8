package cart

import (
	"encoding/json"
	"fmt"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/pkg/kvstore"
	"github.com/narayanji/distributor-app/pkg/logger"
)

// Storage keys, carried over from the mobile client.
const (
	cartKey  = "narayanji_cart"
	tokenKey = "narayanji_auth"
	nameKey  = "narayanji_distributor_name"
)

// Repository is the persisted side of the cart: the serialized line list,
// the session token and the cached distributor name, all stored wholesale.
type Repository interface {
	LoadLines() ([]model.CartLine, error)
	SaveLines(lines []model.CartLine) error
	ClearLines() error

	Token() (string, error)
	SetToken(token string) error
	ClearToken() error

	DisplayName() (string, error)
	SetDisplayName(name string) error
}

type kvRepository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) Repository {
	return &kvRepository{store: store}
}

func (r *kvRepository) LoadLines() ([]model.CartLine, error) {
	raw, ok, err := r.store.Get(cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted cart: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		logger.Warn("Persisted cart is corrupt, treating as empty", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}
	return lines, nil
}

func (r *kvRepository) SaveLines(lines []model.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := r.store.Set(cartKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (r *kvRepository) ClearLines() error {
	return r.store.Delete(cartKey)
}

func (r *kvRepository) Token() (string, error) {
	token, _, err := r.store.Get(tokenKey)
	return token, err
}

func (r *kvRepository) SetToken(token string) error {
	return r.store.Set(tokenKey, token)
}

func (r *kvRepository) ClearToken() error {
	return r.store.Delete(tokenKey)
}

func (r *kvRepository) DisplayName() (string, error) {
	name, _, err := r.store.Get(nameKey)
	return name, err
}

func (r *kvRepository) SetDisplayName(name string) error {
	return r.store.Set(nameKey, name)
}
