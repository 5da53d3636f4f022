package usecase_catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/humanbelnik/moviematch/internal/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrResourceNotFound   = errors.New("no such resource")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// TMDB refuses pages above this.
const MaxPage = 500

//go:generate mockery --name=Catalog --output=./mocks/catalog --filename=catalog.go
type Catalog interface {
	Genres(ctx context.Context) ([]model.Genre, error)
	DiscoverByGenre(ctx context.Context, genreID int, page int) (model.MoviePage, error)
	Movie(ctx context.Context, movieID int64) (model.Movie, error)
	Search(ctx context.Context, query string, page int) (model.MoviePage, error)
}

type Usecase struct {
	catalog Catalog
}

func New(catalog Catalog) *Usecase {
	return &Usecase{
		catalog: catalog,
	}
}

func (u *Usecase) Genres(ctx context.Context) ([]model.Genre, error) {
	genres, err := u.catalog.Genres(ctx)
	if err != nil {
		return nil, u.wrap(err)
	}
	return genres, nil
}

// A zero page means the first one.
func (u *Usecase) DiscoverByGenre(ctx context.Context, genreID int, page int) (model.MoviePage, error) {
	if genreID <= 0 {
		return model.MoviePage{}, fmt.Errorf("%w: genre id must be positive", ErrInvalidInput)
	}
	page, err := normalizePage(page)
	if err != nil {
		return model.MoviePage{}, err
	}

	movies, err := u.catalog.DiscoverByGenre(ctx, genreID, page)
	if err != nil {
		return model.MoviePage{}, u.wrap(err)
	}
	return movies, nil
}

func (u *Usecase) Movie(ctx context.Context, movieID int64) (model.Movie, error) {
	if movieID <= 0 {
		return model.Movie{}, fmt.Errorf("%w: movie id must be positive", ErrInvalidInput)
	}

	movie, err := u.catalog.Movie(ctx, movieID)
	if err != nil {
		return model.Movie{}, u.wrap(err)
	}
	return movie, nil
}

func (u *Usecase) Search(ctx context.Context, query string, page int) (model.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.MoviePage{}, fmt.Errorf("%w: query cannot be empty", ErrInvalidInput)
	}
	page, err := normalizePage(page)
	if err != nil {
		return model.MoviePage{}, err
	}

	movies, err := u.catalog.Search(ctx, query, page)
	if err != nil {
		return model.MoviePage{}, u.wrap(err)
	}
	return movies, nil
}

func (u *Usecase) wrap(err error) error {
	if errors.Is(err, ErrResourceNotFound) {
		return ErrResourceNotFound
	}
	return errors.Join(ErrCatalogUnavailable, err)
}

func normalizePage(page int) (int, error) {
	if page == 0 {
		return 1, nil
	}
	if page < 0 || page > MaxPage {
		return 0, fmt.Errorf("%w: page must be within 1..%d", ErrInvalidInput, MaxPage)
	}
	return page, nil
}
