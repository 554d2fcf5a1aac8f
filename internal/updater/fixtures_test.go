package updater_test

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pokerjest/movieAutoTool/internal/db"
	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/service"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// fakeSite mirrors the reference site's URL scheme on a test host.
type fakeSite struct{}

var titleIDPattern = regexp.MustCompile(`tt\d+`)

func (fakeSite) PageURL(id string) string        { return "https://ref.test/title/" + id + "/" }
func (fakeSite) CreditsURL(pageURL string) string { return strings.TrimSuffix(pageURL, "/") + "/fullcredits" }
func (fakeSite) IDFromURL(raw string) (string, bool) {
	id := titleIDPattern.FindString(raw)
	return id, id != ""
}

// fakePages serves canned HTML and records every request.
type fakePages struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newFakePages() *fakePages {
	return &fakePages{pages: make(map[string]string)}
}

func (f *fakePages) set(url, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = html
}

func (f *fakePages) Fetch(_ context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("GET %s: status 404", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakePages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSearcher struct {
	result  string
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query, _ string) (string, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

// fakeImages pretends to store files; fail makes every Download fail.
type fakeImages struct {
	existing   map[string]bool
	fail       bool
	downloads  []string
	onDownload func()
}

func (f *fakeImages) Exists(dir, name string) bool {
	return f.existing[filepath.Join(dir, name)]
}

func (f *fakeImages) Download(_ context.Context, url, dir, preferredName string) (string, string, error) {
	f.downloads = append(f.downloads, url)
	if f.onDownload != nil {
		f.onDownload()
	}
	if f.fail {
		return "", "", fmt.Errorf("download %s: connection reset", url)
	}
	if f.existing == nil {
		f.existing = make(map[string]bool)
	}
	f.existing[filepath.Join(dir, preferredName)] = true
	return filepath.Join(dir, preferredName), preferredName, nil
}

// testChains reads each category from simple id/class markers.
func testChains(t *testing.T) *updater.ChainRegistry {
	t.Helper()
	text := func(sel string) func(*goquery.Document) (any, bool) {
		return func(doc *goquery.Document) (any, bool) {
			s := doc.Find(sel).First()
			return strings.TrimSpace(s.Text()), s.Length() > 0
		}
	}
	number := func(sel string) func(*goquery.Document) (any, bool) {
		return func(doc *goquery.Document) (any, bool) {
			n, err := strconv.Atoi(strings.TrimSpace(doc.Find(sel).First().Text()))
			return n, err == nil
		}
	}
	list := func(sel string) func(*goquery.Document) (any, bool) {
		return func(doc *goquery.Document) (any, bool) {
			var out []string
			doc.Find(sel).Each(func(_ int, s *goquery.Selection) { out = append(out, s.Text()) })
			return out, len(out) > 0
		}
	}

	var regs []updater.Registration
	add := func(c updater.Category, fn func(*goquery.Document) (any, bool)) {
		regs = append(regs, updater.Registration{Category: c, Extractors: []updater.Extractor{
			updater.ExtractorFunc{ID: "test", Fn: fn},
		}})
	}
	for _, c := range []updater.Category{updater.CategoryTitle, updater.CategoryOriginalTitle, updater.CategoryStoryline,
		updater.CategoryPoster, updater.CategoryContentRating} {
		add(c, text("#"+c.String()))
	}
	for _, c := range []updater.Category{updater.CategoryProductionYear, updater.CategoryCriticScore, updater.CategoryRuntime} {
		add(c, number("#"+c.String()))
	}
	add(updater.CategoryRating, func(doc *goquery.Document) (any, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(doc.Find("#rating").Text()), 64)
		return f, err == nil
	})
	for _, c := range []updater.Category{updater.CategoryGenre, updater.CategoryCountry, updater.CategoryLanguage} {
		add(c, list("."+c.String()))
	}
	add(updater.CategoryCast, func(doc *goquery.Document) (any, bool) {
		var out []updater.CastMember
		doc.Find("li.cast").Each(func(_ int, s *goquery.Selection) {
			out = append(out, updater.CastMember{
				IMDbID:    s.AttrOr("data-id", ""),
				Name:      s.Text(),
				Character: s.AttrOr("data-character", ""),
				PhotoURL:  s.AttrOr("data-photo", ""),
			})
		})
		return out, len(out) > 0
	})
	add(updater.CategoryCrew, func(doc *goquery.Document) (any, bool) {
		var out []updater.CrewMember
		doc.Find("li.crew").Each(func(_ int, s *goquery.Selection) {
			out = append(out, updater.CrewMember{IMDbID: s.AttrOr("data-id", ""), Name: s.Text()})
		})
		return out, len(out) > 0
	})

	reg, err := updater.NewChainRegistry(regs...)
	require.NoError(t, err)
	return reg
}

const heatPage = `<html><body>
<h1 id="title">Heat</h1>
<span id="production_year">1995</span>
<span id="rating">8.3</span>
<span id="critic_score">76</span>
<span id="runtime">170</span>
<span id="content_rating">R</span>
<p id="storyline">A group of high-end professional thieves start to feel the heat.</p>
<span id="poster">https://img.test/heat.jpg</span>
<a class="genre">Crime</a><a class="genre">Drama</a><a class="genre">crime</a>
<a class="country">United States</a>
<a class="language">English</a><a class="language">Spanish</a>
</body></html>`

const heatCredits = `<html><body><ul>
<li class="cast" data-id="nm0000199" data-character="Lt. Vincent Hanna" data-photo="https://img.test/pacino.jpg">Al Pacino</li>
<li class="cast" data-id="nm0000134" data-character="Neil McCauley">Robert De Niro</li>
<li class="cast" data-id="nm0000199" data-character="Hanna again">Al Pacino</li>
<li class="crew" data-id="nm0000520">Michael Mann</li>
</ul></body></html>`

type harness struct {
	db       *gorm.DB
	store    *service.Store
	pages    *fakePages
	searcher *fakeSearcher
	images   *fakeImages
	updater  *updater.Updater
	now      time.Time
}

func newHarness(t *testing.T, enabled updater.CategorySet) *harness {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	h := &harness{
		db:       conn,
		store:    service.NewStore(conn),
		pages:    newFakePages(),
		searcher: &fakeSearcher{},
		images:   &fakeImages{},
		now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	processors, err := updater.DefaultProcessors(h.images, "posters", "photos")
	require.NoError(t, err)

	site := fakeSite{}
	fetcher := updater.NewFetcher(h.pages, testChains(t), site.CreditsURL)
	h.updater = updater.New(h.store, fetcher, processors, h.searcher, site, updater.Config{
		IntervalDays: 30,
		Enabled:      enabled,
	})
	h.updater.SetClock(func() time.Time { return h.now })
	return h
}

// trackingStore reports whether a transaction is open.
type trackingStore struct {
	*service.Store
	inTx *bool
}

func (s trackingStore) Transaction(fn func(tx updater.Store) error) error {
	*s.inTx = true
	defer func() { *s.inTx = false }()
	return s.Store.Transaction(fn)
}

func (h *harness) addMovie(t *testing.T, m *model.Movie) *model.Movie {
	t.Helper()
	require.NoError(t, h.db.Create(m).Error)
	return m
}

func (h *harness) reload(t *testing.T, id uint) *model.Movie {
	t.Helper()
	m, err := service.NewMovieService(h.db).Detail(id)
	require.NoError(t, err)
	return m
}

func ptr[T any](v T) *T { return &v }
