package sources

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/url"
	"strings"

	"backgrounder/internal/httpx"
	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// DefaultImgBBUploadURL is the ImgBB upload endpoint.
const DefaultImgBBUploadURL = "https://api.imgbb.com/1/upload"

// imgbbExpirationSeconds keeps uploaded probe photos short-lived.
const imgbbExpirationSeconds = 600

// domainPlatforms maps URL domains to platform names for photo matches.
// Ordered so the more specific domains match first.
var domainPlatforms = []struct {
	domain   string
	platform string
}{
	{"scholar.google.com", "Google Scholar"},
	{"linkedin.com", "LinkedIn"},
	{"twitter.com", "Twitter/X"},
	{"x.com", "Twitter/X"},
	{"facebook.com", "Facebook"},
	{"instagram.com", "Instagram"},
	{"github.com", "GitHub"},
	{"youtube.com", "YouTube"},
	{"reddit.com", "Reddit"},
	{"medium.com", "Medium"},
	{"dev.to", "Dev.to"},
	{"stackoverflow.com", "Stack Overflow"},
	{"quora.com", "Quora"},
	{"kaggle.com", "Kaggle"},
	{"behance.net", "Behance"},
	{"dribbble.com", "Dribbble"},
	{"flickr.com", "Flickr"},
	{"pinterest.com", "Pinterest"},
	{"tumblr.com", "Tumblr"},
	{"vimeo.com", "Vimeo"},
	{"tiktok.com", "TikTok"},
	{"researchgate.net", "ResearchGate"},
	{"leetcode.com", "LeetCode"},
	{"hackerrank.com", "HackerRank"},
	{"gitlab.com", "GitLab"},
	{"huggingface.co", "HuggingFace"},
	{"substack.com", "Substack"},
}

// DetectPlatform names the platform a URL belongs to, or "".
func DetectPlatform(rawURL string) string {
	urlLower := strings.ToLower(rawURL)
	for _, entry := range domainPlatforms {
		if strings.Contains(urlLower, entry.domain) {
			return entry.platform
		}
	}
	return ""
}

// PhotoUploader pushes raw photo bytes to ImgBB so the reverse image engine
// can reach them by URL.
type PhotoUploader struct {
	// UploadURL may be overridden in tests; defaults to DefaultImgBBUploadURL.
	UploadURL string

	http   *httpx.Client
	apiKey string
}

// NewPhotoUploader creates an uploader. With no API key Upload fails fast.
func NewPhotoUploader(client *httpx.Client, apiKey string) *PhotoUploader {
	return &PhotoUploader{
		UploadURL: DefaultImgBBUploadURL,
		http:      client,
		apiKey:    apiKey,
	}
}

// Upload stores the photo and returns its temporary public URL.
func (u *PhotoUploader) Upload(ctx context.Context, photo []byte) (string, error) {
	if u.apiKey == "" {
		return "", fmt.Errorf("imgbb: no API key configured for photo upload")
	}

	form := url.Values{
		"key":        {u.apiKey},
		"image":      {base64.StdEncoding.EncodeToString(photo)},
		"expiration": {fmt.Sprintf("%d", imgbbExpirationSeconds)},
	}
	var data struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := u.http.PostFormJSON(ctx, u.UploadURL, nil, form, &data); err != nil {
		return "", fmt.Errorf("imgbb upload failed: %w", err)
	}
	if data.Data.URL == "" {
		return "", fmt.Errorf("imgbb upload returned no URL")
	}
	log.Printf("[SOURCE] photo uploaded: %s", data.Data.URL)
	return data.Data.URL, nil
}

// PhotoSearcher runs reverse image searches and classifies the matches.
type PhotoSearcher struct {
	lens websearch.LensClient
}

// NewPhotoSearcher creates a searcher on top of a reverse image backend.
func NewPhotoSearcher(lens websearch.LensClient) *PhotoSearcher {
	return &PhotoSearcher{lens: lens}
}

// Search reverse-searches the image and returns visual matches plus any
// platform profiles recognized among them, deduplicated by URL.
func (s *PhotoSearcher) Search(ctx context.Context, imageURL string) (*types.PhotoSearchResult, error) {
	lens, err := s.lens.ReverseImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	result := &types.PhotoSearchResult{}
	seen := make(map[string]bool)

	for _, match := range lens.VisualMatches {
		if match.Link == "" || seen[match.Link] {
			continue
		}
		seen[match.Link] = true

		platform := DetectPlatform(match.Link)
		result.VisualMatches = append(result.VisualMatches, types.PhotoMatch{
			URL:       match.Link,
			Title:     match.Title,
			Source:    match.Source,
			Thumbnail: match.Thumbnail,
			Platform:  platform,
		})
		if platform != "" {
			result.Profiles = append(result.Profiles, types.SocialProfile{
				Platform: platform + " (photo match)",
				URL:      match.Link,
				Username: extractLastPathSegment(match.Link),
				Snippet:  fmt.Sprintf("Photo found on %s: %s", platform, truncate(match.Title, 150)),
			})
		}
	}

	// Knowledge graph: Google put a name on the face.
	for _, entity := range lens.KnowledgeGraph {
		if entity.Title == "" || entity.Link == "" || seen[entity.Link] {
			continue
		}
		seen[entity.Link] = true
		result.VisualMatches = append(result.VisualMatches, types.PhotoMatch{
			URL:      entity.Link,
			Title:    "Google identified: " + entity.Title,
			Source:   "Google Knowledge Graph",
			Platform: DetectPlatform(entity.Link),
		})
	}

	for _, match := range lens.ExactMatches {
		if match.Link == "" || seen[match.Link] {
			continue
		}
		seen[match.Link] = true

		platform := DetectPlatform(match.Link)
		title := match.Title
		if title == "" {
			title = "Exact image match"
		}
		result.VisualMatches = append(result.VisualMatches, types.PhotoMatch{
			URL:       match.Link,
			Title:     title,
			Source:    match.Source,
			Thumbnail: match.Thumbnail,
			Platform:  platform,
		})
		if platform != "" {
			result.Profiles = append(result.Profiles, types.SocialProfile{
				Platform: platform + " (exact match)",
				URL:      match.Link,
				Username: extractLastPathSegment(match.Link),
				Snippet:  "Exact photo match on " + platform,
			})
		}
	}

	return result, nil
}

// extractLastPathSegment guesses a username from the final URL segment.
func extractLastPathSegment(rawURL string) string {
	parts := splitPath(rawURL)
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	if strings.Contains(last, ".") {
		return ""
	}
	switch last {
	case "profile", "users", "user", "u", "in":
		return ""
	}
	return last
}
