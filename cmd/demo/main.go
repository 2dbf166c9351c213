package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/course-compass/backend/internal/catalog"
	"github.com/course-compass/backend/internal/config"
	"github.com/course-compass/backend/internal/recommender"
	"github.com/course-compass/backend/internal/storage"
)

// Interactive showcase of the course recommender: canned searches,
// similar-course lookups, then a free-form query prompt.
func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	entry := logger.WithField("service", "demo")

	cfg := config.Load()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Course Compass - TF-IDF Course Discovery Demo")
	fmt.Println(strings.Repeat("=", 60))

	courses, err := catalog.LoadCSV(cfg.Catalog.CSVPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load courses: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d courses from %s\n", len(courses), cfg.Catalog.CSVPath)

	var cache *storage.SnapshotStore
	if cfg.Cache.Enabled {
		if cache, err = storage.NewSnapshotStore(cfg.Cache.Dir); err != nil {
			fmt.Fprintf(os.Stderr, "Could not open snapshot store: %v\n", err)
			os.Exit(1)
		}
	}

	eng := recommender.NewEngine(cfg.Index, entry, cache)
	if err := eng.Load(courses); err != nil {
		fmt.Fprintf(os.Stderr, "Could not build index: %v\n", err)
		os.Exit(1)
	}

	stats := eng.Stats()
	fmt.Printf("Indexed %d courses with %d features\n", stats.TotalCourses, stats.VocabularySize)

	runExampleSearches(eng)
	runSimilarShowcase(eng, courses)
	runInteractive(eng)
}

func runExampleSearches(eng *recommender.Engine) {
	fmt.Println("\n--- Example Searches ---")
	for _, query := range eng.Examples()[:3] {
		fmt.Printf("\nQuery: %q\n", query)
		results, err := eng.Search(query, 3)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		printResults(results)
	}
}

func runSimilarShowcase(eng *recommender.Engine, courses []catalog.Course) {
	fmt.Println("\n--- Similar Courses ---")
	limit := 3
	if len(courses) < limit {
		limit = len(courses)
	}
	for _, course := range courses[:limit] {
		fmt.Printf("\nCourses similar to %s (%s):\n", course.Code, course.Title)
		results, err := eng.SimilarTo(course.Code, 3)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		printResults(results)
	}
}

func runInteractive(eng *recommender.Engine) {
	fmt.Println("\n--- Custom Queries ---")
	fmt.Println("Type a search query, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nsearch> ")
		if !scanner.Scan() {
			return
		}
		query := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(query) {
		case "quit", "exit", "q":
			return
		}

		results, err := eng.Search(query, 5)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		if len(results) == 0 {
			fmt.Println("  no results")
			continue
		}
		printResults(results)
	}
}

func printResults(results []recommender.Result) {
	for _, r := range results {
		fmt.Printf("  %d. %s: %s (score: %.3f)\n", r.Rank, r.Code, r.Title, r.Score)
	}
}
