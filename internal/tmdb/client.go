package tmdb

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/pokerjest/movieAutoTool/internal/logging"
)

const (
	BaseURL        = "https://api.themoviedb.org/3"
	imdbTitleURL   = "https://www.imdb.com/title/%s/"
	searchKindFilm = "movie"
)

type Client struct {
	client  *resty.Client
	Token   string
	BaseURL string
}

func NewClient(token string, proxyURL string) *Client {
	c := resty.New()
	c.SetTimeout(10 * time.Second)
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	c.SetHeader("Authorization", "Bearer "+token)
	c.SetHeader("Content-Type", "application/json")

	return &Client{
		client:  c,
		Token:   token,
		BaseURL: BaseURL,
	}
}

type SearchResponse struct {
	Results []Movie `json:"results"`
}

type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
}

type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// SearchMovie returns the best match for query, or nil when there is none.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Movie, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("language", "en-US").
		SetQueryParam("include_adult", "false").
		Get(c.BaseURL + "/search/movie")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("TMDB Error: %s", resp.Status())
	}

	var result SearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	if len(result.Results) > 0 {
		m := result.Results[0]
		return &m, nil
	}
	return nil, nil // Not found
}

// GetExternalIDs fetches the cross-site ids of a movie
func (c *Client) GetExternalIDs(ctx context.Context, id int) (*ExternalIDs, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/movie/%d/external_ids", c.BaseURL, id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("TMDB Error: %s", resp.Status())
	}

	var ids ExternalIDs
	if err := json.Unmarshal(resp.Body(), &ids); err != nil {
		return nil, err
	}
	return &ids, nil
}

// Search resolves a title to its IMDb page through TMDB. Only movies are
// supported; other kinds are a clean miss.
func (c *Client) Search(ctx context.Context, query, kind string) (string, error) {
	if kind != "" && kind != searchKindFilm {
		return "", nil
	}
	m, err := c.SearchMovie(ctx, query)
	if err != nil || m == nil {
		return "", err
	}
	ids, err := c.GetExternalIDs(ctx, m.ID)
	if err != nil {
		return "", err
	}
	if ids.IMDbID == "" {
		logging.Debug().Str("query", query).Int("tmdb_id", m.ID).Msg("TMDB: match has no IMDb id")
		return "", nil
	}
	return fmt.Sprintf(imdbTitleURL, ids.IMDbID), nil
}
