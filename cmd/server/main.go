package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/course-compass/backend/internal/api"
	"github.com/course-compass/backend/internal/catalog"
	"github.com/course-compass/backend/internal/config"
	"github.com/course-compass/backend/internal/recommender"
	"github.com/course-compass/backend/internal/storage"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "course-api")

	entry.Info("Starting Course Compass API Service")

	// 1. Config
	cfg := config.Load()

	// 2. Vector cache
	var cache *storage.SnapshotStore
	if cfg.Cache.Enabled {
		var err error
		cache, err = storage.NewSnapshotStore(cfg.Cache.Dir)
		if err != nil {
			entry.Fatalf("Failed to initialize snapshot store: %v", err)
		}
	}

	// 3. Engine
	eng := recommender.NewEngine(cfg.Index, entry, cache)

	// 4. Catalog
	source := &catalogSource{cfg: cfg.Catalog, logger: entry}
	courses, err := source.Courses()
	if err != nil {
		entry.Fatalf("Failed to load course catalog: %v", err)
	}
	if err := eng.Load(courses); err != nil {
		entry.Fatalf("Failed to build course index: %v", err)
	}

	// 5. API Server
	server := api.NewServer(eng, source, entry)

	entry.Infof("Course API ready on port %s", cfg.Server.Port)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		entry.Fatal(err)
	}
}

// catalogSource loads courses from the configured CSV file, falling back
// to scraping the catalog URL (and saving the result as CSV for next time).
type catalogSource struct {
	cfg    config.CatalogConfig
	logger *logrus.Entry
}

func (cs *catalogSource) Courses() ([]catalog.Course, error) {
	if cs.cfg.CSVPath != "" {
		if _, err := os.Stat(cs.cfg.CSVPath); err == nil {
			courses, err := catalog.LoadCSV(cs.cfg.CSVPath)
			if err != nil {
				return nil, err
			}
			cs.logger.Infof("Loaded %d courses from %s", len(courses), cs.cfg.CSVPath)
			return courses, nil
		}
	}

	if cs.cfg.URL == "" {
		return nil, fmt.Errorf("no course CSV at %q and no catalog URL configured", cs.cfg.CSVPath)
	}

	scraper := catalog.NewScraper(cs.cfg, cs.logger)
	courses, err := scraper.Fetch(context.Background())
	if err != nil {
		return nil, err
	}
	if cs.cfg.CSVPath != "" {
		if err := catalog.SaveCSV(cs.cfg.CSVPath, courses); err != nil {
			cs.logger.WithError(err).Warn("Could not save scraped catalog")
		}
	}
	return courses, nil
}
