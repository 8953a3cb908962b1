// Package types provides type definitions for structured data used throughout the backgrounder system.
package types

// GitHubRepo represents one repository summarized on a GitHub profile.
type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars"`
	Language    string `json:"language,omitempty"`
	URL         string `json:"url"`
}

// GitHubProfile represents a GitHub account attributed to the person.
type GitHubProfile struct {
	Username    string       `json:"username"`
	URL         string       `json:"url"`
	Name        string       `json:"name,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Company     string       `json:"company,omitempty"`
	Location    string       `json:"location,omitempty"`
	Blog        string       `json:"blog,omitempty"`
	PublicRepos int          `json:"public_repos"`
	Followers   int          `json:"followers"`
	Following   int          `json:"following"`
	TopRepos    []GitHubRepo `json:"top_repos,omitempty"`
}
