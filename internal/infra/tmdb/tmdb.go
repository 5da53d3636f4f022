package infra_tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/humanbelnik/moviematch/internal/config"
	"github.com/humanbelnik/moviematch/internal/infra/metrics"
	"github.com/humanbelnik/moviematch/internal/model"
	usecase_catalog "github.com/humanbelnik/moviematch/internal/usecase/catalog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var ErrUpstream = errors.New("tmdb upstream error")

// errCallerDone marks failures caused by the caller's context, not by TMDB.
var errCallerDone = errors.New("caller context done")

const (
	breakerName = "tmdb"
	maxBodySize = 4 << 20
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBreaker replaces the default breaker trip policy and open-state timeout.
func WithBreaker(consecutiveFailures uint32, timeout time.Duration) Option {
	return func(c *Client) {
		c.cb = c.newBreaker(consecutiveFailures, timeout)
	}
}

func New(cfg config.Catalog, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := int(cfg.RPS)
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  slog.Default(),
	}
	c.cb = c.newBreaker(5, 30*time.Second)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newBreaker(consecutiveFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		// A missing movie is an answer, not an outage, and a caller
		// hanging up says nothing about TMDB health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, usecase_catalog.ErrResourceNotFound) ||
				errors.Is(err, errCallerDone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("catalog breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CatalogBreakerState.Set(float64(to))
		},
	})
}

type genreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genresDTO struct {
	Genres []genreDTO `json:"genres"`
}

type movieDTO struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Overview         string     `json:"overview"`
	PosterPath       *string    `json:"poster_path"`
	BackdropPath     *string    `json:"backdrop_path"`
	ReleaseDate      string     `json:"release_date"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	GenreIDs         []int      `json:"genre_ids"`
	Genres           []genreDTO `json:"genres"` // details endpoint only
	Adult            bool       `json:"adult"`
	OriginalLanguage string     `json:"original_language"`
	OriginalTitle    string     `json:"original_title"`
	Popularity       float64    `json:"popularity"`
	Video            bool       `json:"video"`
}

func (dto movieDTO) toModel() model.Movie {
	genreIDs := dto.GenreIDs
	if len(genreIDs) == 0 && len(dto.Genres) > 0 {
		genreIDs = make([]int, 0, len(dto.Genres))
		for _, g := range dto.Genres {
			genreIDs = append(genreIDs, g.ID)
		}
	}
	if genreIDs == nil {
		genreIDs = []int{}
	}

	return model.Movie{
		ID:               dto.ID,
		Title:            dto.Title,
		Overview:         dto.Overview,
		PosterPath:       dto.PosterPath,
		BackdropPath:     dto.BackdropPath,
		ReleaseDate:      dto.ReleaseDate,
		VoteAverage:      dto.VoteAverage,
		VoteCount:        dto.VoteCount,
		GenreIDs:         genreIDs,
		Adult:            dto.Adult,
		OriginalLanguage: dto.OriginalLanguage,
		OriginalTitle:    dto.OriginalTitle,
		Popularity:       dto.Popularity,
		Video:            dto.Video,
	}
}

type pageDTO struct {
	Page         int        `json:"page"`
	Results      []movieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

func (dto pageDTO) toModel() model.MoviePage {
	movies := make([]model.Movie, 0, len(dto.Results))
	for _, m := range dto.Results {
		movies = append(movies, m.toModel())
	}
	return model.MoviePage{
		Movies:       movies,
		Page:         dto.Page,
		TotalPages:   dto.TotalPages,
		TotalResults: dto.TotalResults,
	}
}

func (c *Client) Genres(ctx context.Context) ([]model.Genre, error) {
	var resp genresDTO
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}

	genres := make([]model.Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, model.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

func (c *Client) DiscoverByGenre(ctx context.Context, genreID int, page int) (model.MoviePage, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")

	var resp pageDTO
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return model.MoviePage{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) Movie(ctx context.Context, movieID int64) (model.Movie, error) {
	var resp movieDTO
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(movieID, 10), nil, &resp); err != nil {
		return model.Movie{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (model.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var resp pageDTO
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return model.MoviePage{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		body, err := c.do(ctx, endpoint, params)
		if err != nil && ctx.Err() != nil {
			return nil, errors.Join(errCallerDone, err)
		}
		return body, err
	})
	if err != nil {
		result := "failure"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			result = "rejected"
		case errors.Is(err, usecase_catalog.ErrResourceNotFound):
			result = "not_found"
		case errors.Is(err, errCallerDone):
			result = "canceled"
		}
		metrics.CatalogRequests.WithLabelValues(endpointLabel(endpoint), result).Inc()
		return err
	}
	metrics.CatalogRequests.WithLabelValues(endpointLabel(endpoint), "success").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, usecase_catalog.ErrResourceNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s %s", ErrUpstream, endpoint, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Movie ids are collapsed so the label set stays bounded.
func endpointLabel(endpoint string) string {
	if strings.HasPrefix(endpoint, "/movie/") {
		return "/movie/{id}"
	}
	return endpoint
}
