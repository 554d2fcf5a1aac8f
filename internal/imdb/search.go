package imdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/pokerjest/movieAutoTool/internal/logging"
)

const DefaultSearchURL = "https://v3.sg.media-imdb.com/suggestion"

type suggestionResponse struct {
	D []suggestion `json:"d"`
}

type suggestion struct {
	ID    string `json:"id"`
	Label string `json:"l"`
	QID   string `json:"qid"`
	Year  int    `json:"y"`
}

// Searcher resolves titles through the IMDb suggestion endpoint.
type Searcher struct {
	client    *Client
	site      Site
	searchURL string
}

func NewSearcher(client *Client, site Site, searchURL string) *Searcher {
	searchURL = strings.TrimRight(strings.TrimSpace(searchURL), "/")
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Searcher{client: client, site: site, searchURL: searchURL}
}

// Search returns the page URL of the first suggestion of the given kind
// ("movie"), or "" when nothing matches.
func (s *Searcher) Search(ctx context.Context, query, kind string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	body, err := s.client.Get(ctx, s.suggestionURL(query))
	if err != nil {
		var se *HTTPStatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("imdb search %q: %w", query, err)
	}

	var resp suggestionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("imdb search %q: decode: %w", query, err)
	}
	for _, sg := range resp.D {
		if !strings.HasPrefix(sg.ID, "tt") {
			continue
		}
		if kind != "" && !strings.EqualFold(sg.QID, kind) {
			continue
		}
		logging.Debug().Str("query", query).Str("id", sg.ID).Str("label", sg.Label).Int("year", sg.Year).Msg("IMDb: search hit")
		return s.site.PageURL(sg.ID), nil
	}
	return "", nil
}

// suggestionURL builds /suggestion/<first letter>/<query>.json.
func (s *Searcher) suggestionURL(query string) string {
	q := strings.ToLower(query)
	first := "x"
	for _, r := range q {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			first = string(r)
		}
		break
	}
	if first[0] >= 0x80 {
		first = "x"
	}
	return fmt.Sprintf("%s/%s/%s.json", s.searchURL, first, url.PathEscape(q))
}
