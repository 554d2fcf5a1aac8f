package imdb

import (
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://www.imdb.com"

// Site knows the IMDb URL scheme.
type Site struct {
	BaseURL string
}

func NewSite(baseURL string) Site {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Site{BaseURL: baseURL}
}

// PageURL is the title page of an id like "tt0113277".
func (s Site) PageURL(id string) string {
	return s.BaseURL + "/title/" + id + "/"
}

// CreditsURL maps a title page to its full credits page.
func (s Site) CreditsURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return strings.TrimRight(pageURL, "/") + "/fullcredits"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/") + "/fullcredits"
	return u.String()
}

// IDFromURL extracts the title id from a page URL or a bare id.
func (s Site) IDFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		if id := reTitleID.FindString(u.Path); id != "" {
			return id, true
		}
	}
	id := reTitleID.FindString(raw)
	return id, id != ""
}
