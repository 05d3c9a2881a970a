package churchtools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CEuchner/churchtools-song-export/internal/churchtools/dto"
	"github.com/CEuchner/churchtools-song-export/internal/library"
	"github.com/CEuchner/churchtools-song-export/internal/model"
)

// DefaultPageSize is the number of songs requested per page.
const DefaultPageSize = 100

// maxPages guards against servers that never report a last page.
const maxPages = 10000

// ErrMissingURL is returned when the client has no instance URL.
var ErrMissingURL = errors.New("churchtools url is not configured")

// StatusError is returned for responses other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %s", e.URL, e.Status)
}

// Client talks to the REST API of a ChurchTools instance.
//
// Client provides:
//   - Login token authentication
//   - A configured User-Agent header and timeout
//   - Paginated listing of songs and song tags
//
// Example usage:
//
//	client, err := churchtools.NewClient("https://example.church.tools", token)
//	if err != nil {
//	    return err
//	}
//	songs, err := client.Songs(ctx)
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	userAgent  string
	pageSize   int
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize sets the number of songs requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the instance at rawURL.
//
// The client is configured with:
//   - 60 second timeout
//   - "songexport" User-Agent header
//   - Authorization "Login <token>" when token is not empty
func NewClient(rawURL, token string, opts ...Option) (*Client, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse churchtools url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse churchtools url: unsupported scheme %q", base.Scheme)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:   base,
		token:     token,
		userAgent: "songexport",
		pageSize:  DefaultPageSize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get performs a GET request against the API and returns the response body.
//
// path is relative to the instance URL, e.g. "/api/songs".
//
// Returns a *StatusError if the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Login "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Debug("churchtools request", "url", u.Redacted(), "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: u.Redacted(), StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// getPage fetches one list page and decodes its data into out.
func (c *Client) getPage(ctx context.Context, path string, query url.Values, out any) (dto.JSONMeta, error) {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return dto.JSONMeta{}, err
	}

	var page dto.JSONPage
	if err := json.Unmarshal(body, &page); err != nil {
		return dto.JSONMeta{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(page.Data) > 0 {
		if err := json.Unmarshal(page.Data, out); err != nil {
			return dto.JSONMeta{}, fmt.Errorf("decode %s data: %w", path, err)
		}
	}
	return page.Meta, nil
}

// Tags returns all song tags of the instance.
func (c *Client) Tags(ctx context.Context) ([]model.Tag, error) {
	var raw []dto.JSONTag
	if _, err := c.getPage(ctx, "/api/tags", url.Values{"type": {"songs"}}, &raw); err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}

	tags := make([]model.Tag, 0, len(raw))
	for i := range raw {
		tags = append(tags, raw[i].ToTag())
	}
	return tags, nil
}

// Songs returns all songs of the instance, following the pagination until
// the last page. Tags referenced by id are resolved against known.
func (c *Client) Songs(ctx context.Context, known []model.Tag) ([]model.Song, error) {
	tagsByID := make(map[int]model.Tag, len(known))
	for _, tag := range known {
		tagsByID[tag.ID] = tag
	}

	var songs []model.Song
	for page := 1; page <= maxPages; page++ {
		query := url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(c.pageSize)},
		}

		var raw []dto.JSONSong
		meta, err := c.getPage(ctx, "/api/songs", query, &raw)
		if err != nil {
			return nil, fmt.Errorf("fetch songs page %d: %w", page, err)
		}
		for i := range raw {
			songs = append(songs, raw[i].ToSong(tagsByID))
		}

		if meta.Pagination == nil || page >= meta.Pagination.LastPage || len(raw) == 0 {
			break
		}
	}

	c.logger.Debug("fetched songs", "count", len(songs))
	return songs, nil
}

// Load fetches tags and songs and implements library.Source.
// Categories are derived from the songs.
func (c *Client) Load(ctx context.Context) (*library.Library, error) {
	tags, err := c.Tags(ctx)
	if err != nil {
		return nil, err
	}
	songs, err := c.Songs(ctx, tags)
	if err != nil {
		return nil, err
	}

	lib := &library.Library{Songs: songs, Tags: tags}
	lib.Complete()
	return lib, nil
}
