// Package linkgen turns application paths into navigable links.
package linkgen

import (
	"fmt"
	"net/url"
	"strings"
)

// Generator produces a link for a path relative to the application root
type Generator interface {
	To(path string) string
}

// BaseURL generates absolute links rooted at a fixed base URL
type BaseURL struct {
	base *url.URL
}

// New parses the application base URL
func New(base string) (*BaseURL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return &BaseURL{base: u}, nil
}

// To joins path onto the base URL. Every segment is treated as literal path
// text, so schemes, query and fragment markers and escapes in path end up
// percent-encoded under the base. Empty and dot segments are dropped.
func (g *BaseURL) To(path string) string {
	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segments = append(segments, seg)
	}

	u := *g.base
	u.Path = g.base.Path + "/" + strings.Join(segments, "/")
	return u.String()
}
