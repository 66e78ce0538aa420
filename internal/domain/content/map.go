package content

import (
	"encoding/json"
	"fmt"

	"github.com/wyrmgate/engine/internal/domain/shared"
)

// TerrainType is the ground type of a tile.
type TerrainType string

const (
	TerrainGround   TerrainType = "ground"
	TerrainGrass    TerrainType = "grass"
	TerrainWater    TerrainType = "water"
	TerrainSwamp    TerrainType = "swamp"
	TerrainDesert   TerrainType = "desert"
	TerrainMountain TerrainType = "mountain"
	TerrainForest   TerrainType = "forest"
	TerrainLava     TerrainType = "lava"
)

// WallType is the wall on a tile, if any.
type WallType string

const (
	WallNone   WallType = "none"
	WallSolid  WallType = "solid"
	WallDoor   WallType = "door"
	WallSecret WallType = "secret"
)

// Tile is one cell of a map grid.
type Tile struct {
	Terrain      TerrainType     `json:"terrain"`
	Wall         WallType        `json:"wall_type"`
	Blocked      bool            `json:"blocked,omitempty"`
	EventTrigger *shared.EventID `json:"event_trigger,omitempty"`
}

// IsBlocked reports whether the party cannot enter the tile.
func (t *Tile) IsBlocked() bool {
	return t.Blocked || t.Wall == WallSolid || t.Terrain == TerrainWater || t.Terrain == TerrainLava
}

// MapEventKind discriminates MapEvent.
type MapEventKind string

const (
	EventEncounter            MapEventKind = "encounter"
	EventTreasure             MapEventKind = "treasure"
	EventTeleport             MapEventKind = "teleport"
	EventTrap                 MapEventKind = "trap"
	EventSign                 MapEventKind = "sign"
	EventNpcDialogue          MapEventKind = "npc_dialogue"
	EventRecruitableCharacter MapEventKind = "recruitable_character"
	EventEnterInn             MapEventKind = "enter_inn"
	EventFurniture            MapEventKind = "furniture"
)

// FurnitureFlags are furniture state bits.
type FurnitureFlags struct {
	Lit      bool `json:"lit,omitempty"`
	Locked   bool `json:"locked,omitempty"`
	Blocking bool `json:"blocking,omitempty"`
}

// FurnitureData describes a prop placed by a furniture event.
type FurnitureData struct {
	FurnitureType string         `json:"furniture_type"`
	RotationY     *float32       `json:"rotation_y,omitempty"`
	Scale         float32        `json:"scale,omitempty"`
	Material      string         `json:"material,omitempty"`
	Flags         FurnitureFlags `json:"flags,omitempty"`
	ColorTint     *[3]float32    `json:"color_tint,omitempty"`
}

// MapEvent is something that happens when the party steps on (or
// interacts with) a tile.
type MapEvent struct {
	Kind        MapEventKind
	Name        string
	Description string
	// encounter
	MonsterGroup []shared.MonsterID
	// treasure
	Loot []shared.ItemID
	// teleport
	Destination shared.Position
	MapID       shared.MapID
	// trap
	Damage uint16
	Effect string
	// sign
	Text string
	// npc_dialogue / enter_inn
	NpcID shared.NpcID
	// recruitable_character
	CharacterID shared.CharacterID
	DialogueID  *shared.DialogueID
	// furniture
	Furniture *FurnitureData
}

type mapEventStaged struct {
	Type         MapEventKind        `json:"type"`
	Name         string              `json:"name,omitempty"`
	Description  string              `json:"description,omitempty"`
	MonsterGroup []shared.MonsterID  `json:"monster_group,omitempty"`
	Loot         []shared.ItemID     `json:"loot,omitempty"`
	Destination  *shared.Position    `json:"destination,omitempty"`
	MapID        shared.MapID        `json:"map_id,omitempty"`
	Damage       uint16              `json:"damage,omitempty"`
	Effect       string              `json:"effect,omitempty"`
	Text         string              `json:"text,omitempty"`
	NpcID        shared.NpcID        `json:"npc_id,omitempty"`
	CharacterID  shared.CharacterID  `json:"character_id,omitempty"`
	DialogueID   *shared.DialogueID  `json:"dialogue_id,omitempty"`
	InnkeeperID  shared.NpcID        `json:"innkeeper_id,omitempty"`
	Furniture    *FurnitureData      `json:"furniture,omitempty"`
}

func (e MapEvent) MarshalJSON() ([]byte, error) {
	staged := mapEventStaged{
		Type:        e.Kind,
		Name:        e.Name,
		Description: e.Description,
	}
	switch e.Kind {
	case EventEncounter:
		staged.MonsterGroup = e.MonsterGroup
	case EventTreasure:
		staged.Loot = e.Loot
	case EventTeleport:
		dest := e.Destination
		staged.Destination = &dest
		staged.MapID = e.MapID
	case EventTrap:
		staged.Damage = e.Damage
		staged.Effect = e.Effect
	case EventSign:
		staged.Text = e.Text
	case EventNpcDialogue:
		staged.NpcID = e.NpcID
	case EventRecruitableCharacter:
		staged.CharacterID = e.CharacterID
		staged.DialogueID = e.DialogueID
	case EventEnterInn:
		staged.InnkeeperID = e.NpcID
	case EventFurniture:
		staged.Furniture = e.Furniture
	default:
		return nil, fmt.Errorf("unknown map event %q", e.Kind)
	}
	return json.Marshal(staged)
}

func (e *MapEvent) UnmarshalJSON(data []byte) error {
	var staged mapEventStaged
	if err := json.Unmarshal(data, &staged); err != nil {
		return err
	}
	*e = MapEvent{
		Kind:         staged.Type,
		Name:         staged.Name,
		Description:  staged.Description,
		MonsterGroup: staged.MonsterGroup,
		Loot:         staged.Loot,
		MapID:        staged.MapID,
		Damage:       staged.Damage,
		Effect:       staged.Effect,
		Text:         staged.Text,
		NpcID:        staged.NpcID,
		CharacterID:  staged.CharacterID,
		DialogueID:   staged.DialogueID,
		Furniture:    staged.Furniture,
	}
	if staged.Destination != nil {
		e.Destination = *staged.Destination
	}
	switch staged.Type {
	case EventEncounter, EventTreasure, EventTeleport, EventTrap, EventSign,
		EventNpcDialogue, EventRecruitableCharacter, EventFurniture:
	case EventEnterInn:
		e.NpcID = staged.InnkeeperID
	default:
		return fmt.Errorf("unknown map event %q", staged.Type)
	}
	return nil
}

// PlacedEvent is a map event bound to a tile position. ID 0 means
// unassigned; the loader backfills missing ids.
type PlacedEvent struct {
	ID       shared.EventID  `json:"id,omitempty"`
	Position shared.Position `json:"position"`
	Event    MapEvent        `json:"event"`
}

// Map is a 2D tile grid with placed events. Tiles are stored row-major
// (y*width + x). Events keep authoring order so iteration stays
// deterministic.
type Map struct {
	ID          shared.MapID  `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Width       uint32        `json:"width"`
	Height      uint32        `json:"height"`
	Tiles       []Tile        `json:"tiles"`
	Events      []PlacedEvent `json:"events,omitempty"`
}

// NewMap creates a map of open ground tiles.
func NewMap(id shared.MapID, name string, width, height uint32) *Map {
	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i] = Tile{Terrain: TerrainGround, Wall: WallNone}
	}
	return &Map{ID: id, Name: name, Width: width, Height: height, Tiles: tiles}
}

// InBounds reports whether the position is on the map.
func (m *Map) InBounds(pos shared.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < int32(m.Width) && pos.Y < int32(m.Height)
}

// TileAt returns the tile at pos, or nil when out of bounds.
func (m *Map) TileAt(pos shared.Position) *Tile {
	if !m.InBounds(pos) {
		return nil
	}
	return &m.Tiles[int(pos.Y)*int(m.Width)+int(pos.X)]
}

// EventAt returns the event placed at pos, or nil.
func (m *Map) EventAt(pos shared.Position) *PlacedEvent {
	for i := range m.Events {
		if m.Events[i].Position == pos {
			return &m.Events[i]
		}
	}
	return nil
}

// EventByID returns the event with the given id, or nil.
func (m *Map) EventByID(id shared.EventID) *PlacedEvent {
	for i := range m.Events {
		if m.Events[i].ID == id {
			return &m.Events[i]
		}
	}
	return nil
}

// BackfillEventIDs assigns sequential ids, starting after the highest
// existing id, to events that lack one, and stamps each event's tile
// trigger. Legacy maps authored without event ids load through this.
func (m *Map) BackfillEventIDs() {
	var next shared.EventID
	for i := range m.Events {
		if m.Events[i].ID > next {
			next = m.Events[i].ID
		}
	}
	for i := range m.Events {
		ev := &m.Events[i]
		if ev.ID == 0 {
			next++
			ev.ID = next
		}
		if tile := m.TileAt(ev.Position); tile != nil && tile.EventTrigger == nil {
			id := ev.ID
			tile.EventTrigger = &id
		}
	}
}
