package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNoReferenceData is returned when the page can be neither fetched nor
// read from the local copy.
var ErrNoReferenceData = errors.New("no reference data available")

// UserAgent identifies the generator to the wiki.
const UserAgent = "X4LuaDocGenerator/1.0"

// DefaultTimeout bounds the single fetch attempt.
const DefaultTimeout = 10 * time.Second

// Source loads the reference page from the wiki, keeping a local copy for
// offline runs.
type Source struct {
	URL       string
	CachePath string
	Offline   bool
	Client    *http.Client
	Logger    *slog.Logger
}

// NewClient returns an HTTP client that gives up after timeout and follows
// at most one redirect.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 1 {
				return http.ErrUseLastResponse
			}
			req.Header.Set("User-Agent", UserAgent)
			return nil
		},
	}
}

// Load returns the page content. A successful fetch is saved to CachePath;
// a failed fetch falls back to it.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	log := s.logger()
	if !s.Offline && s.URL != "" {
		log.Info("fetching reference page", "url", s.URL)
		page, err := s.fetch(ctx)
		if err == nil {
			if err := s.save(page); err != nil {
				log.Warn("saving local copy", "path", s.CachePath, "error", err)
			}
			return page, nil
		}
		log.Warn("fetching reference page failed, using local copy", "error", err)
	}

	page, err := os.ReadFile(s.CachePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoReferenceData, err)
	}
	log.Info("using local reference page", "path", s.CachePath)
	return page, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = NewClient(DefaultTimeout)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *Source) save(page []byte) error {
	if s.CachePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.CachePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.CachePath, page, 0o644)
}

func (s *Source) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
