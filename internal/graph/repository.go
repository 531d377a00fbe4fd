package graph

import (
	"context"

	"github.com/efebarandurmaz/pronet/internal/network"
)

// Repository mirrors a programmer network in an external graph store.
type Repository interface {
	// StoreNetwork persists the entire network, replacing what was stored.
	StoreNetwork(ctx context.Context, n *network.Network) error
	// LoadNetwork retrieves and validates the stored network.
	LoadNetwork(ctx context.Context) (*network.Network, error)
	// Close releases resources.
	Close(ctx context.Context) error
}
