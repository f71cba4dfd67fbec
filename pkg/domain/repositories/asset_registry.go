package repositories

import (
	"context"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// AssetRegistry provides read access to the equipment catalog. The catalog is
// owned elsewhere; the reservation engine only needs each asset's identity
// and total owned quantity.
type AssetRegistry interface {
	GetAsset(ctx context.Context, id entities.AssetID) (*entities.Asset, error)
	ListAssets(ctx context.Context) ([]*entities.Asset, error)
}
