package imdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		switch r.URL.Path {
		case "/title/tt0113277/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<h1 data-testid="hero__pageTitle">Heat</h1>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "movie-test", Timeout: 5 * time.Second})
	doc, err := c.Fetch(context.Background(), srv.URL+"/title/tt0113277/")
	require.NoError(t, err)
	assert.Equal(t, "Heat", doc.Find("h1").Text())
	assert.Equal(t, "movie-test", gotUA)
	assert.Equal(t, DefaultAcceptLanguage, gotLang)

	_, err = c.Fetch(context.Background(), srv.URL+"/title/tt0000000/")
	var se *HTTPStatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Options{FailureThreshold: 2, BreakerTimeout: time.Hour})
	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.Error(t, err)
	}
	_, err := c.Get(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 2, calls)
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(Options{FailureThreshold: 1, BreakerTimeout: time.Hour})
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		var se *HTTPStatusError
		require.ErrorAs(t, err, &se)
	}
}

func TestSearcher(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"d":[
			{"id":"nm0000199","l":"Al Pacino","s":"Actor, Heat (1995)"},
			{"id":"tt0816316","l":"Heat","qid":"tvSeries","q":"TV series","y":2010},
			{"id":"tt0113277","l":"Heat","qid":"movie","q":"feature","y":1995}
		],"q":"heat","v":1}`))
	}))
	defer srv.Close()

	s := NewSearcher(NewClient(Options{}), NewSite("https://www.imdb.com"), srv.URL)
	u, err := s.Search(context.Background(), "Heat", "movie")
	require.NoError(t, err)
	assert.Equal(t, "https://www.imdb.com/title/tt0113277/", u)
	assert.Equal(t, "/h/heat.json", gotPath)

	u, err = s.Search(context.Background(), "Heat", "videoGame")
	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestSearcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/m/missing.json" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSearcher(NewClient(Options{}), NewSite(""), srv.URL)
	u, err := s.Search(context.Background(), "missing", "movie")
	require.NoError(t, err, "an unknown query is a clean miss")
	assert.Empty(t, u)

	_, err = s.Search(context.Background(), "Heat", "movie")
	assert.Error(t, err)
}

func TestSite(t *testing.T) {
	s := NewSite("")
	assert.Equal(t, "https://www.imdb.com/title/tt0113277/", s.PageURL("tt0113277"))
	assert.Equal(t, "https://www.imdb.com/title/tt0113277/fullcredits", s.CreditsURL("https://www.imdb.com/title/tt0113277/?ref_=nv_sr_1"))

	tests := map[string]string{
		"https://www.imdb.com/title/tt0113277/":              "tt0113277",
		"https://m.imdb.com/title/tt0113277/fullcredits?x=1": "tt0113277",
		"tt10872600":                                         "tt10872600",
		" https://www.imdb.com/title/tt0113277 ":             "tt0113277",
	}
	for in, want := range tests {
		id, ok := s.IDFromURL(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, id, in)
	}
	_, ok := s.IDFromURL("https://www.imdb.com/name/nm0000199/")
	assert.False(t, ok)
	_, ok = s.IDFromURL("")
	assert.False(t, ok)
}
