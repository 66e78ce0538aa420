// campaign-check loads and validates campaign directories, printing a
// content summary for each. Authors run it before shipping a campaign;
// CI runs it on every content change.
//
// Usage:
//
//	campaign-check [-config engine.yaml] [campaign-dir ...]
//
// With no arguments, every subdirectory of the configured campaigns
// directory is checked.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/config"
	"github.com/wyrmgate/engine/internal/version"
)

func main() {
	configPath := flag.String("config", "engine.yaml", "path to the engine config file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dirs := flag.Args()
	if len(dirs) == 0 {
		dirs, err = discoverCampaigns(cfg.CampaignsDir)
		if err != nil {
			log.Fatalf("Failed to list campaigns in %s: %v", cfg.CampaignsDir, err)
		}
		if len(dirs) == 0 {
			log.Fatalf("No campaigns found in %s", cfg.CampaignsDir)
		}
	}

	fmt.Printf("engine %s, checking %d campaign(s)\n\n", version.Engine, len(dirs))

	failed := 0
	for _, dir := range dirs {
		if err := check(dir); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", dir, err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func discoverCampaigns(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	return dirs, nil
}

func check(dir string) error {
	manifest, db, err := campaign.Load(dir)
	if err != nil {
		return err
	}

	counts := db.Counts()
	fmt.Printf("OK   %s — %s v%s by %s\n", dir, manifest.Name, manifest.Version, manifest.Author)
	fmt.Printf("     items=%d spells=%d monsters=%d classes=%d races=%d\n",
		counts.Items, counts.Spells, counts.Monsters, counts.Classes, counts.Races)
	fmt.Printf("     conditions=%d characters=%d maps=%d quests=%d dialogues=%d\n",
		counts.Conditions, counts.Characters, counts.Maps, counts.Quests, counts.Dialogues)
	return nil
}
