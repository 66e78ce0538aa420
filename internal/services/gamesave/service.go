// Package gamesave snapshots a running game into the save repository
// and restores it, enforcing engine and campaign version checks on the
// way back in.
package gamesave

//go:generate mockgen -destination=mock/mock_service.go -package=mockgamesave -source=service.go

import (
	"context"
	"log"
	"time"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/errors"
	"github.com/wyrmgate/engine/internal/game"
	"github.com/wyrmgate/engine/internal/repositories/saves"
	"github.com/wyrmgate/engine/internal/uuid"
	"github.com/wyrmgate/engine/internal/version"
)

// Service saves and restores game states.
type Service interface {
	// Save writes the game state under the given name, stamping the
	// current engine version and timestamp.
	Save(ctx context.Context, name string, state *game.State) error

	// Load restores a save. The save must have been written by this
	// engine version. When expected is non-nil, the save's campaign
	// reference must match it; the caller is responsible for having
	// the campaign's content loaded.
	Load(ctx context.Context, name string, expected *campaign.Reference) (*game.State, error)

	// ListSaves returns all save names, sorted.
	ListSaves(ctx context.Context) ([]string, error)

	// DeleteSave removes a save.
	DeleteSave(ctx context.Context, name string) error
}

type service struct {
	repo          saves.Repository
	uuidGenerator uuid.Generator
	now           func() time.Time
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Repository    saves.Repository
	UUIDGenerator uuid.Generator

	// Now overrides the timestamp source. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new game save service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("save repository is required")
	}
	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: cfg.Repository, uuidGenerator: gen, now: now}
}

func (s *service) Save(ctx context.Context, name string, state *game.State) error {
	if state == nil {
		return errors.InvalidArgument("game state cannot be nil")
	}

	save := &saves.Save{
		ID:        s.uuidGenerator.New(),
		Version:   version.Engine,
		Timestamp: s.now().UTC(),
		Campaign:  state.Campaign,
		State:     state,
	}
	if err := s.repo.Put(ctx, name, save); err != nil {
		return err
	}
	log.Printf("saved game %q (day %d, %d party members)",
		name, state.Time.Day, len(state.Party.Members))
	return nil
}

func (s *service) Load(ctx context.Context, name string, expected *campaign.Reference) (*game.State, error) {
	save, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	// Strict equality for now; semver-compatible loading can come later.
	if save.Version != version.Engine {
		return nil, errors.VersionMismatchf(
			"save %q was written by engine %s, this is %s",
			name, save.Version, version.Engine)
	}

	if expected != nil {
		if save.Campaign == nil {
			return nil, errors.VersionMismatchf(
				"save %q has no campaign reference, expected %s v%s",
				name, expected.ID, expected.Version)
		}
		if save.Campaign.ID != expected.ID || save.Campaign.Version != expected.Version {
			return nil, errors.VersionMismatchf(
				"save %q belongs to campaign %s v%s, expected %s v%s",
				name, save.Campaign.ID, save.Campaign.Version,
				expected.ID, expected.Version)
		}
	}

	if save.State == nil {
		return nil, errors.Validationf("save %q has no game state", name)
	}
	return save.State, nil
}

func (s *service) ListSaves(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

func (s *service) DeleteSave(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, name)
}
