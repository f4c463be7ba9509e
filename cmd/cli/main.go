package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// Migration tool: exports a user's links and profile to JSON, or imports a
// previously exported file into another database.

type export struct {
	UserID  string          `json:"user_id"`
	Profile *domain.Profile `json:"profile"`
	Links   []domain.Link   `json:"links"`
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportUser := exportCmd.String("user", "", "user id to export")
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if *exportUser == "" {
			exportCmd.PrintDefaults()
			os.Exit(1)
		}
		doExport(repo, *exportUser)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(repo *sqlite.SQLiteRepository, userID string) {
	ctx := context.Background()

	links, err := repo.ListByUser(ctx, userID)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	profile, err := repo.GetProfile(ctx, userID)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		log.Fatalf("Export failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export{UserID: userID, Profile: profile, Links: links}); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}

func doImport(repo *sqlite.SQLiteRepository, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	var dump export
	if err := json.NewDecoder(file).Decode(&dump); err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	ctx := context.Background()
	count := 0
	// Re-insert in exported (position) order so the store re-derives dense
	// ranks 0..n-1 even if the source data had gaps.
	for _, l := range dump.Links {
		link := domain.Link{
			UserID:    dump.UserID,
			Title:     l.Title,
			URL:       l.URL,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		}
		if err := repo.Insert(ctx, &link); err != nil {
			log.Printf("Failed to import %q: %v", l.Title, err)
			continue
		}
		count++
	}

	if dump.Profile != nil {
		if err := repo.CreateProfile(ctx, dump.Profile); err != nil {
			log.Printf("Failed to import profile: %v", err)
		}
	}
	log.Printf("Imported %d links", count)
}
