package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"

	"github.com/course-compass/backend/internal/config"
)

// creditsPattern matches credit annotations like "3 credits" or
// "1-3 credits" inside a course body.
var creditsPattern = regexp.MustCompile(`(?i)\b\d+(?:-\d+)?\s*credits?\b`)

// headingPattern splits a course heading like "CSE 214: Data Structures"
// into code and title.
var headingPattern = regexp.MustCompile(`^([A-Z]{2,4}\s?\d+[A-Z]?)\s*[:\-]?\s*(.*)$`)

// Scraper downloads a catalog listing page and extracts course records.
// It checks robots.txt before fetching and enforces a minimum delay
// between successive fetches.
type Scraper struct {
	config config.CatalogConfig
	client *http.Client
	logger *logrus.Entry

	mu        sync.Mutex
	lastFetch time.Time
}

// NewScraper creates a catalog scraper for the configured listing URL.
func NewScraper(cfg config.CatalogConfig, logger *logrus.Entry) *Scraper {
	return &Scraper{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// Fetch downloads the catalog page and parses it into course records.
func (s *Scraper) Fetch(ctx context.Context) ([]Course, error) {
	target, err := url.Parse(s.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}

	if !s.allowed(ctx, target) {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", s.config.URL)
	}
	s.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	courses, err := s.parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}
	s.logger.Infof("Scraped %d courses from catalog", len(courses))
	return courses, nil
}

// allowed checks the host's robots.txt for permission to fetch the target
// path. Failures to fetch or parse robots.txt allow the request, matching
// common crawler behavior.
func (s *Scraper) allowed(ctx context.Context, target *url.URL) bool {
	if !s.config.EnableRobotsCheck {
		return true
	}

	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to get robots.txt, allowing request")
		return true
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return true
	}
	group := robots.FindGroup(s.config.UserAgent)
	if group == nil {
		return true
	}
	return group.Test(target.Path)
}

// wait blocks until the configured fetch delay has passed since the last
// fetch, so repeated Fetch calls stay polite to the catalog host.
func (s *Scraper) wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.FetchDelay > 0 && !s.lastFetch.IsZero() {
		if since := time.Since(s.lastFetch); since < s.config.FetchDelay {
			time.Sleep(s.config.FetchDelay - since)
		}
	}
	s.lastFetch = time.Now()
}

// parse walks the catalog HTML with the standard tokenizer. Each h3
// heading starts a course section; the text until the next heading is its
// body.
func (s *Scraper) parse(body io.Reader) ([]Course, error) {
	tokenizer := html.NewTokenizer(body)
	var courses []Course
	var heading strings.Builder
	var content strings.Builder
	inHeading := false
	inSkipped := false

	flush := func() {
		if heading.Len() == 0 {
			return
		}
		if c, ok := parseCourse(heading.String(), content.String()); ok {
			courses = append(courses, c)
		}
		heading.Reset()
		content.Reset()
	}

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				flush()
				return courses, nil
			}
			return nil, tokenizer.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "h3":
				flush()
				inHeading = true
			case "script", "style":
				inSkipped = true
			case "br", "p", "div":
				content.WriteString("\n")
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "h3":
				inHeading = false
			case "script", "style":
				inSkipped = false
			case "p", "div":
				content.WriteString("\n")
			}

		case html.TextToken:
			if inSkipped {
				continue
			}
			text := tokenizer.Token().Data
			if inHeading {
				heading.WriteString(text)
			} else if heading.Len() > 0 {
				content.WriteString(text)
			}
		}
	}
}

// parseCourse turns a heading and its body text into a Course. Credit
// annotations become the credits field and prerequisite lines are
// dropped; everything else joins into the description.
func parseCourse(heading, body string) (Course, bool) {
	heading = strings.Join(strings.Fields(heading), " ")
	m := headingPattern.FindStringSubmatch(heading)
	if m == nil {
		return Course{}, false
	}

	course := Course{
		Code:  m[1],
		Title: strings.TrimSpace(m[2]),
	}

	var description []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if course.Credits == "" {
			if credits := creditsPattern.FindString(line); credits != "" {
				course.Credits = credits
				continue
			}
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "prerequisite:") || strings.HasPrefix(lower, "prerequisites:") {
			continue
		}
		description = append(description, line)
	}
	course.Description = strings.Join(description, " ")
	return course, true
}
