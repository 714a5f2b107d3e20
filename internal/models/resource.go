// internal/models/resource.go
package models

// Resource is a normalized row of a communication-directory worksheet.
type Resource struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Tags    string `json:"tags"`
}

// Category describes one communication-directory worksheet tab, as configured
// in the site config.
type Category struct {
	GID         string `json:"gid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Accent      string `json:"accent"`
}

// CategoryBlock pairs a category with its fetched resources. A category whose
// fetch failed carries an empty resource list so siblings still render.
type CategoryBlock struct {
	Category  Category   `json:"category"`
	Resources []Resource `json:"resources"`
}

// Protocol is a normalized row of the protocols worksheet.
type Protocol struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
	Link    string `json:"link"`
	Updated string `json:"updated"`
}
