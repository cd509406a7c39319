// Package leaderboard reads the server's read-only leaderboard and keeps the
// last good copy for offline display.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLimit is the number of entries requested when none is given.
const DefaultLimit = 10

// ErrUnavailable wraps every failure to obtain a fresh leaderboard.
var ErrUnavailable = errors.New("leaderboard: unavailable")

// Entry is one aggregated player row.
type Entry struct {
	PlayerName   string  `json:"player_name"`
	TotalWins    int     `json:"total_wins"`
	TotalMatches int     `json:"total_matches"`
	WinRate      float64 `json:"win_rate"` // percent
	TotalScore   int     `json:"total_score"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// Losses returns matches not won.
func (e Entry) Losses() int {
	return e.TotalMatches - e.TotalWins
}

type response struct {
	Success bool    `json:"success"`
	Data    []Entry `json:"data"`
	Count   int     `json:"count"`
}

// Client queries GET {base}/leaderboard.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch returns up to limit entries, best first.
func (c *Client) Fetch(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	u, err := url.Parse(c.base + "/leaderboard")
	if err != nil {
		return nil, fmt.Errorf("%w: bad url: %v", ErrUnavailable, err)
	}
	u.RawQuery = url.Values{"limit": {strconv.Itoa(limit)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %s", ErrUnavailable, resp.Status)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: server reported failure", ErrUnavailable)
	}
	if len(body.Data) > limit {
		body.Data = body.Data[:limit]
	}
	return body.Data, nil
}

// Cache stores the last fetched leaderboard.
type Cache interface {
	SaveLeaderboard(entries []Entry, fetchedAt time.Time) error
	Leaderboard(limit int) ([]Entry, time.Time, error)
}

// Board is what the leaderboard screen shows.
type Board struct {
	Entries   []Entry
	FetchedAt time.Time
	Offline   bool // served from cache after a failed fetch
}

// Service fetches fresh data and falls back to the cache.
type Service struct {
	client *Client
	cache  Cache
	logger *log.Logger
	now    func() time.Time
}

// NewService combines a client with an optional cache.
func NewService(client *Client, cache Cache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{client: client, cache: cache, logger: logger.WithPrefix("leaderboard"), now: time.Now}
}

// Load returns the live leaderboard, replacing the cache on success. On
// failure the cached copy is returned marked Offline; if there is none the
// fetch error is returned.
func (s *Service) Load(ctx context.Context, limit int) (Board, error) {
	entries, err := s.client.Fetch(ctx, limit)
	if err == nil {
		at := s.now()
		if s.cache != nil {
			if cerr := s.cache.SaveLeaderboard(entries, at); cerr != nil {
				s.logger.Warn("cache write failed", "err", cerr)
			}
		}
		return Board{Entries: entries, FetchedAt: at}, nil
	}

	s.logger.Warn("fetch failed", "err", err)
	if s.cache == nil {
		return Board{}, err
	}
	cached, at, cerr := s.cache.Leaderboard(limit)
	if cerr != nil || at.IsZero() {
		return Board{}, err
	}
	return Board{Entries: cached, FetchedAt: at, Offline: true}, nil
}
