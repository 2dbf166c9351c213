package catalog

// Course is one record scraped from the university course catalog. A
// course with no description in the catalog carries an empty string, not
// an error.
type Course struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Credits     string `json:"credits"`
	Description string `json:"description"`
}
