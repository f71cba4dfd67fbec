package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/domain/repositories"
)

// AssetRegistry provides an in-memory equipment catalog.
type AssetRegistry struct {
	mu     sync.RWMutex
	assets map[entities.AssetID]*entities.Asset
}

// NewAssetRegistry creates an empty in-memory asset registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{
		assets: make(map[entities.AssetID]*entities.Asset),
	}
}

// Verify interface compliance
var _ repositories.AssetRegistry = (*AssetRegistry)(nil)

// LoadAssets loads assets into the registry.
func (r *AssetRegistry) LoadAssets(assets []*entities.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, asset := range assets {
		if asset.ID == "" {
			return fmt.Errorf("asset id cannot be empty")
		}
		a := *asset
		r.assets[asset.ID] = &a
	}
	return nil
}

// AddAsset adds a single asset to the registry.
func (r *AssetRegistry) AddAsset(asset *entities.Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := *asset
	r.assets[asset.ID] = &a
}

// GetAsset returns the asset or ErrAssetNotFound.
func (r *AssetRegistry) GetAsset(ctx context.Context, id entities.AssetID) (*entities.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrAssetNotFound, id)
	}
	a := *asset
	return &a, nil
}

// ListAssets returns all assets in the registry.
func (r *AssetRegistry) ListAssets(ctx context.Context) ([]*entities.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	assets := make([]*entities.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		a := *asset
		assets = append(assets, &a)
	}
	return assets, nil
}
