package document

import (
	"net/url"
	"strings"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// FilesPath is the backend file serving endpoint.
const FilesPath = "/api/v1/files/"

// FileURL builds the file serving URL for a storage path or identifier.
func FileURL(baseURL, pathOrID string) string {
	return strings.TrimRight(baseURL, "/") + FilesPath + strings.TrimPrefix(pathOrID, "/")
}

// ResolveURL picks the best download location for a document without contacting
// the backend. It fails with domain.ErrNoDocumentURL when only the file name is
// known (a file search is needed) or nothing usable is present.
func ResolveURL(baseURL string, d *Document) (string, error) {
	switch {
	case d.FilePath != "":
		return FileURL(baseURL, d.FilePath), nil
	case strings.HasPrefix(d.FileURL, "http"):
		return d.FileURL, nil
	case d.FileName != "":
		return "", domain.ErrNoDocumentURL
	case d.ID != "":
		return FileURL(baseURL, url.PathEscape(d.ID)), nil
	case d.S3URI != "":
		return d.S3URI, nil
	default:
		return "", domain.ErrNoDocumentURL
	}
}

// FileMatch is a file located by name through the backend file search.
type FileMatch struct {
	APIURL    string `json:"api_url"`
	DirectURL string `json:"direct_url,omitempty"`
	SignedURL string `json:"signed_url,omitempty"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	FileType  string `json:"file_type,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Modified  string `json:"last_modified,omitempty"`
}

// BestMatch returns the match whose filename equals name case-insensitively,
// or the first match.
func BestMatch(name string, matches []FileMatch) (FileMatch, bool) {
	if len(matches) == 0 {
		return FileMatch{}, false
	}
	for _, m := range matches {
		if strings.EqualFold(m.Filename, name) {
			return m, true
		}
	}
	return matches[0], true
}

// URL resolves a file match to a download URL: api_url (made absolute),
// then the storage path, then a signed or direct URL.
func (m FileMatch) URL(baseURL string) (string, bool) {
	switch {
	case m.APIURL != "":
		if strings.HasPrefix(m.APIURL, "/") {
			return strings.TrimRight(baseURL, "/") + m.APIURL, true
		}
		return m.APIURL, true
	case m.Path != "":
		return FileURL(baseURL, m.Path), true
	case m.SignedURL != "":
		return m.SignedURL, true
	case m.DirectURL != "":
		return m.DirectURL, true
	default:
		return "", false
	}
}
