// Package campaign loads authored content from a campaign directory
// into an in-memory database and validates it for referential
// integrity.
package campaign

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
)

// Difficulty scales encounters and rewards.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyBrutal Difficulty = "brutal"
)

// Config is the gameplay section of a campaign manifest.
type Config struct {
	StartingMap       shared.MapID     `json:"starting_map"`
	StartingPosition  shared.Position  `json:"starting_position"`
	StartingDirection shared.Direction `json:"starting_direction"`
	StartingGold      uint32           `json:"starting_gold"`
	StartingFood      uint32           `json:"starting_food"`
	StartingInnkeeper *shared.NpcID    `json:"starting_innkeeper,omitempty"`
	MaxPartySize      int              `json:"max_party_size"`
	MaxRosterSize     int              `json:"max_roster_size"`
	Difficulty        Difficulty       `json:"difficulty"`
	Permadeath        bool             `json:"permadeath"`
	AllowMulticlass   bool             `json:"allow_multiclassing"`
	StartingLevel     uint8            `json:"starting_level"`
	MaxLevel          uint8            `json:"max_level"`
}

// DataPaths are the content file locations relative to the campaign root.
type DataPaths struct {
	Items      string `json:"items"`
	Spells     string `json:"spells"`
	Monsters   string `json:"monsters"`
	Classes    string `json:"classes"`
	Races      string `json:"races"`
	Conditions string `json:"conditions"`
	Characters string `json:"characters"`
	Maps       string `json:"maps"`
	Quests     string `json:"quests"`
	Dialogues  string `json:"dialogues"`
}

// AssetPaths are presentation asset locations. The engine never reads
// them; host applications do.
type AssetPaths struct {
	Tilesets string `json:"tilesets"`
	Music    string `json:"music"`
	Sounds   string `json:"sounds"`
	Images   string `json:"images"`
}

// Campaign is a parsed campaign manifest.
type Campaign struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Version          string     `json:"version"`
	Author           string     `json:"author"`
	Description      string     `json:"description"`
	EngineVersion    string     `json:"engine_version"`
	RequiredFeatures []string   `json:"required_features,omitempty"`
	Config           Config     `json:"config"`
	Data             DataPaths  `json:"data"`
	Assets           AssetPaths `json:"assets"`

	// RootPath is the directory the manifest was loaded from. Never
	// serialized.
	RootPath string `json:"-"`
}

// Reference identifies the campaign a save was made against.
type Reference struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Name    string `json:"name"`
}

// Reference builds the save-file reference for the campaign.
func (c *Campaign) Reference() Reference {
	return Reference{ID: c.ID, Version: c.Version, Name: c.Name}
}

func defaultManifest() Campaign {
	return Campaign{
		Config: Config{
			MaxPartySize:  6,
			MaxRosterSize: 20,
			Difficulty:    DifficultyNormal,
			StartingLevel: 1,
			MaxLevel:      20,
		},
		Data: DataPaths{
			Items:      "data/items.json",
			Spells:     "data/spells.json",
			Monsters:   "data/monsters.json",
			Classes:    "data/classes.json",
			Races:      "data/races.json",
			Conditions: "data/conditions.json",
			Characters: "data/characters.json",
			Maps:       "data/maps",
			Quests:     "data/quests.json",
			Dialogues:  "data/dialogues.json",
		},
		Assets: AssetPaths{
			Tilesets: "assets/tilesets",
			Music:    "assets/music",
			Sounds:   "assets/sounds",
			Images:   "assets/images",
		},
	}
}

// LoadManifest reads and parses campaign.json from the given campaign
// directory. The campaign id is taken from the directory name.
func LoadManifest(dir string) (*Campaign, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NotFoundf("campaign directory %q not found", dir)
	}
	if !info.IsDir() {
		return nil, errors.Validationf("campaign path %q is not a directory", dir)
	}

	manifestPath := filepath.Join(dir, "campaign.json")
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeIO, "reading "+manifestPath)
	}

	manifest := defaultManifest()
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "parsing "+manifestPath)
	}

	manifest.RootPath = dir
	manifest.ID = filepath.Base(dir)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (c *Campaign) validate() error {
	if c.Name == "" {
		return errors.Validation("campaign name is required")
	}
	if c.Version == "" {
		return errors.Validation("campaign version is required")
	}
	if c.Config.MaxPartySize <= 0 {
		return errors.Validation("max_party_size must be positive")
	}
	if c.Config.MaxRosterSize < c.Config.MaxPartySize {
		return errors.Validationf("max_roster_size %d is below max_party_size %d",
			c.Config.MaxRosterSize, c.Config.MaxPartySize)
	}
	if c.Config.StartingLevel > c.Config.MaxLevel {
		return errors.Validationf("starting_level %d exceeds max_level %d",
			c.Config.StartingLevel, c.Config.MaxLevel)
	}
	switch c.Config.Difficulty {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyBrutal:
	default:
		return errors.Validationf("unknown difficulty %q", c.Config.Difficulty)
	}
	return nil
}
