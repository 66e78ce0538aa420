package campaign

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wyrmgate/engine/internal/domain/content"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
	"github.com/wyrmgate/engine/internal/version"
)

// Load reads a campaign directory: manifest, then content files, then
// referential validation. The returned database is fully validated.
func Load(dir string) (*Campaign, *Database, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, nil, err
	}

	if manifest.EngineVersion != "" && manifest.EngineVersion != version.Engine {
		return nil, nil, errors.VersionMismatchf(
			"campaign %q requires engine %s, running %s",
			manifest.ID, manifest.EngineVersion, version.Engine)
	}

	db, err := LoadContent(manifest)
	if err != nil {
		return nil, nil, err
	}
	if err := Validate(manifest, db); err != nil {
		return nil, nil, err
	}

	counts := db.Counts()
	log.Printf("loaded campaign %q v%s: %d items, %d spells, %d monsters, %d maps, %d quests",
		manifest.ID, manifest.Version,
		counts.Items, counts.Spells, counts.Monsters, counts.Maps, counts.Quests)
	return manifest, db, nil
}

// parseFile decodes one JSON content file into out. Unknown fields are
// rejected so authoring typos fail at load time instead of silently
// dropping data.
func parseFile(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeIO, "reading "+path)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "parsing "+path)
	}
	return nil
}

// optional kinds load as empty when their file is absent.
func parseOptionalFile(path string, out any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return parseFile(path, out)
}

// firstParseError picks the failure with the lexically smallest path,
// so the reported error never depends on goroutine scheduling.
func firstParseError(paths []string, errs []error) error {
	first := -1
	for i, err := range errs {
		if err == nil {
			continue
		}
		if first < 0 || paths[i] < paths[first] {
			first = i
		}
	}
	if first < 0 {
		return nil
	}
	return errs[first]
}

// LoadContent parses every content file named by the manifest into a
// database. Files parse concurrently; errors are reported for the
// lexically first failing file, and insertion happens afterwards in a
// fixed kind order, so the outcome is deterministic.
func LoadContent(manifest *Campaign) (*Database, error) {
	root := manifest.RootPath
	data := manifest.Data

	var (
		items      []content.Item
		spells     []content.Spell
		monsters   []content.MonsterDefinition
		classes    []content.ClassDefinition
		races      []content.RaceDefinition
		conditions []content.ConditionDefinition
		characters []content.CharacterDefinition
		quests     []content.Quest
		dialogues  []content.Dialogue
		maps       []*content.Map
	)

	tasks := []struct {
		path string
		run  func(string) error
	}{
		{filepath.Join(root, data.Items), func(p string) error { return parseFile(p, &items) }},
		{filepath.Join(root, data.Spells), func(p string) error { return parseFile(p, &spells) }},
		{filepath.Join(root, data.Monsters), func(p string) error { return parseFile(p, &monsters) }},
		{filepath.Join(root, data.Classes), func(p string) error { return parseFile(p, &classes) }},
		{filepath.Join(root, data.Races), func(p string) error { return parseFile(p, &races) }},
		{filepath.Join(root, data.Characters), func(p string) error { return parseFile(p, &characters) }},
		{filepath.Join(root, data.Conditions), func(p string) error { return parseOptionalFile(p, &conditions) }},
		{filepath.Join(root, data.Quests), func(p string) error { return parseOptionalFile(p, &quests) }},
		{filepath.Join(root, data.Dialogues), func(p string) error { return parseOptionalFile(p, &dialogues) }},
		{filepath.Join(root, data.Maps), func(p string) error {
			var err error
			maps, err = parseMaps(p)
			return err
		}},
	}

	paths := make([]string, len(tasks))
	errs := make([]error, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		paths[i] = task.path
		g.Go(func() error {
			errs[i] = task.run(task.path)
			return nil
		})
	}
	// goroutines record into errs and never fail the group
	_ = g.Wait()
	if err := firstParseError(paths, errs); err != nil {
		return nil, err
	}

	db := NewDatabase()
	for i := range items {
		if err := db.AddItem(&items[i]); err != nil {
			return nil, err
		}
	}
	for i := range spells {
		if err := db.AddSpell(&spells[i]); err != nil {
			return nil, err
		}
	}
	for i := range monsters {
		if err := db.AddMonster(&monsters[i]); err != nil {
			return nil, err
		}
	}
	for i := range classes {
		if err := db.AddClass(&classes[i]); err != nil {
			return nil, err
		}
	}
	for i := range races {
		if err := db.AddRace(&races[i]); err != nil {
			return nil, err
		}
	}
	for i := range conditions {
		if err := db.AddCondition(&conditions[i]); err != nil {
			return nil, err
		}
	}
	for i := range characters {
		if err := db.AddCharacter(&characters[i]); err != nil {
			return nil, err
		}
	}
	for i := range quests {
		if err := db.AddQuest(&quests[i]); err != nil {
			return nil, err
		}
	}
	for i := range dialogues {
		if err := db.AddDialogue(&dialogues[i]); err != nil {
			return nil, err
		}
	}
	for _, m := range maps {
		if err := db.AddMap(m); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// parseMaps loads every map_*.json under the maps directory in
// lexical filename order. Event ids are backfilled after parse.
func parseMaps(dir string) ([]*content.Map, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeIO, "reading maps directory "+dir)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "map_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, errors.Validationf("no map files found in %s", dir)
	}

	maps := make([]*content.Map, len(files))
	paths := make([]string, len(files))
	errs := make([]error, len(files))
	var g errgroup.Group
	for i, name := range files {
		paths[i] = filepath.Join(dir, name)
		g.Go(func() error {
			var m content.Map
			errs[i] = parseFile(paths[i], &m)
			maps[i] = &m
			return nil
		})
	}
	_ = g.Wait()
	if err := firstParseError(paths, errs); err != nil {
		return nil, err
	}

	for i, m := range maps {
		if err := checkMapGeometry(files[i], m); err != nil {
			return nil, err
		}
		m.BackfillEventIDs()
		if err := checkEventPlacement(files[i], m); err != nil {
			return nil, err
		}
	}
	return maps, nil
}

func checkMapGeometry(file string, m *content.Map) error {
	if m.Width == 0 || m.Height == 0 {
		return errors.Validationf("%s: map %d has zero dimension", file, m.ID)
	}
	if expected := int(m.Width) * int(m.Height); len(m.Tiles) != expected {
		return errors.Validationf("%s: map %d has %d tiles, expected %d",
			file, m.ID, len(m.Tiles), expected)
	}
	return nil
}

// checkEventPlacement verifies event positions are on the map, at most
// one event sits on a tile, and event ids are unique.
func checkEventPlacement(file string, m *content.Map) error {
	seenPos := make(map[shared.Position]bool, len(m.Events))
	seenID := make(map[shared.EventID]bool, len(m.Events))
	for i := range m.Events {
		ev := &m.Events[i]
		if !m.InBounds(ev.Position) {
			return errors.Validationf("%s: event %d at (%d,%d) is out of bounds",
				file, ev.ID, ev.Position.X, ev.Position.Y)
		}
		if seenPos[ev.Position] {
			return errors.Validationf("%s: multiple events at (%d,%d)",
				file, ev.Position.X, ev.Position.Y)
		}
		seenPos[ev.Position] = true
		if seenID[ev.ID] {
			return errors.Validationf("%s: duplicate event id %d", file, ev.ID)
		}
		seenID[ev.ID] = true
	}
	return nil
}
