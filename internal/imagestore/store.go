package imagestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Store keeps images on the local disk.
type Store struct {
	client *resty.Client
}

func New(userAgent, proxyURL string) *Store {
	c := resty.New()
	c.SetTimeout(30 * time.Second)
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	if userAgent != "" {
		c.SetHeader("User-Agent", userAgent)
	}
	return &Store{client: c}
}

// Exists reports whether dir/name is a regular file.
func (s *Store) Exists(dir, name string) bool {
	name = cleanName(name)
	if name == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.Mode().IsRegular()
}

// Download saves url to dir/preferredName, replacing any previous file.
// The file is written under a temporary name first so a failed download
// never leaves a truncated image behind.
func (s *Store) Download(ctx context.Context, url, dir, preferredName string) (string, string, error) {
	name := cleanName(preferredName)
	if name == "" {
		return "", "", errors.New("image name is empty")
	}
	if strings.TrimSpace(url) == "" {
		return "", "", errors.New("image url is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create image dir: %w", err)
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", "", fmt.Errorf("download %s: %w", url, err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("download %s: %s", url, resp.Status())
	}
	body := resp.Body()
	if len(body) == 0 {
		return "", "", fmt.Errorf("download %s: empty body", url)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", "", err
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", "", err
	}
	return path, name, nil
}

// cleanName keeps only the base name so callers cannot escape dir.
func cleanName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
