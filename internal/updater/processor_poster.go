package updater

import (
	"context"
	"strings"

	"github.com/pokerjest/movieAutoTool/internal/logging"
)

// StoredPoster is a poster file name under PosterDir.
type StoredPoster string

// PosterProcessor stores the poster under a name derived from the reference
// id. An existing file is reused; a failed download leaves the field alone.
type PosterProcessor struct {
	Images    ImageStore
	PosterDir string
}

// Prepare downloads the poster unless a file for imdbID is already stored.
func (p PosterProcessor) Prepare(ctx context.Context, _ Store, imdbID string, value any) (any, bool) {
	posterURL, ok := value.(string)
	if !ok {
		return value, true
	}
	if imdbID == "" || p.Images == nil {
		return nil, false
	}

	name := PosterFileName(imdbID)
	if p.Images.Exists(p.PosterDir, name) {
		return StoredPoster(name), true
	}
	_, saved, err := p.Images.Download(ctx, strings.TrimSpace(posterURL), p.PosterDir, name)
	if err != nil {
		logging.Warn().Err(err).Str("imdb_id", imdbID).Str("url", posterURL).Msg("Updater: poster download failed")
		return nil, false
	}
	return StoredPoster(saved), true
}

func (p PosterProcessor) Process(s *Session, value any) (Result, error) {
	name, ok := value.(StoredPoster)
	if !ok {
		return Result{}, unexpectedValue(CategoryPoster, value)
	}
	col, _ := CategoryPoster.Column()
	return Result{Fields: map[string]interface{}{col: string(name)}}, nil
}

// PosterFileName is the stable poster file name for a reference id.
func PosterFileName(imdbID string) string {
	return imdbID + ".jpg"
}
