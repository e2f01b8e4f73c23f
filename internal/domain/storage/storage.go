package storage

import (
	"path"
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain/document"
)

// Document is a file in raw storage, independent of the search index.
type Document struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	URL      string `json:"url,omitempty"`
}

// Count is the backend's storage tally.
type Count struct {
	TotalDocuments int    `json:"total_documents"`
	StorageBackend string `json:"storage_backend"`
}

// Stats summarizes raw storage.
type Stats struct {
	TotalDocuments int    `json:"total_documents"`
	TotalSize      int64  `json:"total_size"`
	StorageBackend string `json:"storage_backend"`
	LastUpdated    string `json:"last_updated"`
}

// NewStats combines a count with a listing. The listing supplies the total size.
func NewStats(c Count, docs []Document, now time.Time) Stats {
	var total int64
	for _, d := range docs {
		total += d.Size
	}
	return Stats{
		TotalDocuments: c.TotalDocuments,
		TotalSize:      total,
		StorageBackend: c.StorageBackend,
		LastUpdated:    now.UTC().Format(time.RFC3339),
	}
}

// FileSearch is the payload of a file-name search.
type FileSearch struct {
	Documents     []document.FileMatch `json:"documents"`
	ExactMatch    bool                 `json:"exact_match,omitempty"`
	Limit         int                  `json:"limit,omitempty"`
	SearchPattern string               `json:"search_pattern,omitempty"`
	TotalFound    int                  `json:"total_found"`
}

// FromMatch converts a file search match into a storage listing entry.
func FromMatch(baseURL string, m document.FileMatch, now time.Time) Document {
	name := m.Filename
	if name == "" {
		name = path.Base(m.Path)
	}
	modified := m.Modified
	if modified == "" {
		modified = now.UTC().Format(time.RFC3339)
	}
	url := document.FileURL(baseURL, m.Path)
	if m.APIURL != "" {
		url, _ = document.FileMatch{APIURL: m.APIURL}.URL(baseURL)
	}
	return Document{Path: m.Path, Name: name, Size: m.Size, Modified: modified, URL: url}
}
