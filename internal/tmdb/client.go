package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultTimeout      = 5 * time.Second
	WebBaseURL          = "https://www.themoviedb.org"
	userAgent           = "Reel/1.0"
)

// Options configures a Client
type Options struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Language     string // optional default language, e.g. "fr-FR"
	Timeout      time.Duration
}

// Client implements domain.Catalog for TMDB v3
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ domain.Catalog = (*Client)(nil)

// NewClient creates a new TMDB API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		apiKey:       opts.APIKey,
		language:     opts.Language,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET. Caller parameters are kept as
// given except api_key, which is always the configured credential.
func (c *Client) doRequest(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	params := url.Values{}
	for k, v := range query {
		params[k] = append([]string(nil), v...)
	}
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.ServiceError{Op: op, Kind: domain.KindTransport, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "op", op, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := domain.KindTransport
		if isTimeout(err) {
			kind = domain.KindTimeout
		}
		c.logger.Error("tmdb request failed", "op", op, "kind", kind.String(), "error", err)
		return nil, &domain.ServiceError{Op: op, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := domain.KindTransport
		if isTimeout(err) {
			kind = domain.KindTimeout
		}
		return nil, &domain.ServiceError{Op: op, Kind: kind, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := domain.KindTransport
		switch resp.StatusCode {
		case http.StatusNotFound:
			kind = domain.KindNotFound
		case http.StatusUnauthorized:
			kind = domain.KindUnauthorized
		}
		c.logger.Error("tmdb request error", "op", op, "status", resp.StatusCode, "body", string(body))
		return nil, &domain.ServiceError{Op: op, Kind: kind, StatusCode: resp.StatusCode, Err: statusError(body)}
	}

	return body, nil
}

// getJSON performs a request and decodes the body into dest
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, op, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "op", op, "error", err, "bodyLen", len(body))
		return &domain.ServiceError{Op: op, Kind: domain.KindDecode, Err: err}
	}
	return nil
}

// SearchMovies returns the mapped results of one search page. The query is
// sent as given; callers decide whether an empty query is worth a request.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]domain.MovieSummary, error) {
	result, err := c.SearchMoviesPage(ctx, query, page)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// SearchMoviesPage is SearchMovies with the paging envelope
func (c *Client) SearchMoviesPage(ctx context.Context, query string, page int) (domain.SearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var resp SearchResponse
	if err := c.getJSON(ctx, "search movies", "/search/movie", params, &resp); err != nil {
		return domain.SearchPage{}, err
	}

	return domain.SearchPage{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      MapMovies(resp.Results),
	}, nil
}

// GetMovieDetails returns the full record for one movie
func (c *Client) GetMovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	var resp MovieDetails
	path := fmt.Sprintf("/movie/%d", id)
	if err := c.getJSON(ctx, "get movie details", path, nil, &resp); err != nil {
		return nil, err
	}
	detail := MapMovieDetail(resp)
	return &detail, nil
}

// GetMoviesGenres returns the movie genre lookup table
func (c *Client) GetMoviesGenres(ctx context.Context) ([]domain.Genre, error) {
	return c.getGenres(ctx, "get movie genres", "/genre/movie/list")
}

// GetTVShowsGenres returns the TV genre lookup table
func (c *Client) GetTVShowsGenres(ctx context.Context) ([]domain.Genre, error) {
	return c.getGenres(ctx, "get tv genres", "/genre/tv/list")
}

func (c *Client) getGenres(ctx context.Context, op, path string) ([]domain.Genre, error) {
	var resp GenreResponse
	if err := c.getJSON(ctx, op, path, nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// MoviePageURL returns the public web page of a movie
func MoviePageURL(id int) string {
	return fmt.Sprintf("%s/movie/%d", WebBaseURL, id)
}

// ImageURL returns the full URL for an image path ("" when absent)
func (c *Client) ImageURL(path *string) string {
	p := domain.StringValue(path)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.imageBaseURL + p
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusError extracts TMDB's status_message when the body carries one
func statusError(body []byte) error {
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.StatusMessage != "" {
		return errors.New(e.StatusMessage)
	}
	return nil
}
