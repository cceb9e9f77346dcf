package main

import (
	"github.com/DevelopmentCats/meowventure/internal/catalog"
	"github.com/DevelopmentCats/meowventure/internal/logging"
	"github.com/DevelopmentCats/meowventure/internal/narrator"
	"github.com/DevelopmentCats/meowventure/internal/storage"
)

func loadCatalogOrExit(path string) *catalog.Catalog {
	cat, err := catalog.Load(path)
	if err != nil {
		logging.Fatal("Missing or invalid catalog", err, logging.Fields{
			"catalog_path": path,
			"hint":         "create a catalog JSON with 'cat_list', 'ability_list', 'pool_list' and 'affinity_advantages'",
		})
	}
	if cat.NarratorPrompt != "" {
		narrator.SetPromptTemplate(cat.NarratorPrompt)
	}
	return cat
}

func openRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.Open(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewRepository(db)
}
