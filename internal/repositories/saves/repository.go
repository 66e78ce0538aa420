// Package saves stores save-game envelopes. Two backends exist: flat
// JSON files under a saves directory, and Redis for hosts that already
// run one.
package saves

//go:generate mockgen -destination=mock/mock_repository.go -package=mocksaves -source=repository.go

import (
	"context"
	"time"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/game"
)

// Save is the on-disk envelope around a game state. The engine version
// is checked on load; the campaign reference lets the host verify the
// right campaign is installed before resuming.
type Save struct {
	ID        string              `json:"id,omitempty"`
	Version   string              `json:"version"`
	Timestamp time.Time           `json:"timestamp"`
	Campaign  *campaign.Reference `json:"campaign_reference,omitempty"`
	State     *game.State         `json:"game_state"`
}

// Repository defines the interface for save-game storage.
type Repository interface {
	// Put writes a save under the given name, overwriting any existing
	// save with that name.
	Put(ctx context.Context, name string, save *Save) error

	// Get retrieves a save by name.
	Get(ctx context.Context, name string) (*Save, error)

	// List returns the names of all saves, sorted alphabetically.
	List(ctx context.Context) ([]string, error)

	// Delete removes a save by name.
	Delete(ctx context.Context, name string) error
}
