package http_catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviematch/internal/delivery/http/common"
	usecase_catalog "github.com/humanbelnik/moviematch/internal/usecase/catalog"
)

type Controller struct {
	usecase *usecase_catalog.Usecase
	logger  *slog.Logger
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_catalog.Usecase, opts ...Option) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/genres", c.genres)
	router.GET("/genres/:genre_id/movies", c.discover)

	movies := router.Group("/movies")
	{
		movies.GET("/search", c.search)
		movies.GET("/:movie_id", c.movie)
	}
}

type GenresResponseDTO struct {
	Genres []http_common.GenreDTO `json:"genres"`
}

// Genres lists catalog genres
// @Summary List genres
// @Tags Catalog
// @Produce json
// @Success 200 {object} GenresResponseDTO
// @Failure 502 {object} http_common.ErrorResponse
// @Router /genres [get]
func (c *Controller) genres(ctx *gin.Context) {
	genres, err := c.usecase.Genres(ctx)
	if err != nil {
		c.fail(ctx, "failed to list genres", err)
		return
	}

	resp := GenresResponseDTO{Genres: make([]http_common.GenreDTO, 0, len(genres))}
	for _, g := range genres {
		resp.Genres = append(resp.Genres, http_common.GenreDTO{ID: g.ID, Name: g.Name})
	}
	ctx.JSON(http.StatusOK, resp)
}

// Discover lists popular movies of a genre
// @Summary Movies by genre
// @Tags Catalog
// @Produce json
// @Param genre_id path int true "Genre id"
// @Param page query int false "Page, 1..500"
// @Success 200 {object} http_common.MoviePageDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /genres/{genre_id}/movies [get]
func (c *Controller) discover(ctx *gin.Context) {
	genreID, err := strconv.Atoi(ctx.Param("genre_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "genre_id must be a number",
		})
		return
	}
	page, ok := queryPage(ctx)
	if !ok {
		return
	}

	movies, err := c.usecase.DiscoverByGenre(ctx, genreID, page)
	if err != nil {
		c.fail(ctx, "failed to discover movies", err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.ToMoviePageDTO(movies))
}

type MovieResponseDTO struct {
	Movie http_common.MovieDTO `json:"movie"`
}

// Movie returns movie details
// @Summary Movie details
// @Tags Catalog
// @Produce json
// @Param movie_id path int true "Movie id"
// @Success 200 {object} MovieResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /movies/{movie_id} [get]
func (c *Controller) movie(ctx *gin.Context) {
	movieID, err := strconv.ParseInt(ctx.Param("movie_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "movie_id must be a number",
		})
		return
	}

	movie, err := c.usecase.Movie(ctx, movieID)
	if err != nil {
		c.fail(ctx, "failed to get movie", err)
		return
	}
	ctx.JSON(http.StatusOK, MovieResponseDTO{
		Movie: http_common.ToMovieDTO(movie),
	})
}

// Search finds movies by title
// @Summary Search movies
// @Tags Catalog
// @Produce json
// @Param query query string true "Search text"
// @Param page query int false "Page, 1..500"
// @Success 200 {object} http_common.MoviePageDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /movies/search [get]
func (c *Controller) search(ctx *gin.Context) {
	page, ok := queryPage(ctx)
	if !ok {
		return
	}

	movies, err := c.usecase.Search(ctx, ctx.Query("query"), page)
	if err != nil {
		c.fail(ctx, "failed to search movies", err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.ToMoviePageDTO(movies))
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase_catalog.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, usecase_catalog.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "catalog unavailable",
		})
	}
}

// Absent page is passed on as zero, which the use case reads as the first page.
func queryPage(ctx *gin.Context) (int, bool) {
	raw := ctx.Query("page")
	if raw == "" {
		return 0, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "page must be a number",
		})
		return 0, false
	}
	return page, true
}
