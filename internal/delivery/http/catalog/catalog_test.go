package http_catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviematch/internal/delivery/http/common"
	"github.com/humanbelnik/moviematch/internal/model"
	usecase_catalog "github.com/humanbelnik/moviematch/internal/usecase/catalog"
	catalog_mocks "github.com/humanbelnik/moviematch/internal/usecase/catalog/mocks/catalog"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CatalogControllerSuite struct {
	suite.Suite

	catalog *catalog_mocks.Catalog
	engine  *gin.Engine
}

func (s *CatalogControllerSuite) BeforeAll(t provider.T) {
	gin.SetMode(gin.TestMode)
}

func (s *CatalogControllerSuite) BeforeEach(t provider.T) {
	s.catalog = catalog_mocks.NewCatalog(t)
	s.engine = gin.New()
	New(usecase_catalog.New(s.catalog)).RegisterRoutes(s.engine.Group("/api/v1"))
}

func (s *CatalogControllerSuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (s *CatalogControllerSuite) TestGenres(t provider.T) {
	t.Run("Should list genres", func(t provider.T) {
		s.catalog.On("Genres", mock.Anything).Return([]model.Genre{{ID: 28, Name: "Action"}}, nil).Once()

		w := s.get("/api/v1/genres")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"genres":[{"id":28,"name":"Action"}]}`, w.Body.String())
	})

	t.Run("Should map catalog failure to bad gateway", func(t provider.T) {
		s.catalog.On("Genres", mock.Anything).Return(nil, errors.New("upstream down")).Once()

		w := s.get("/api/v1/genres")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		var resp http_common.ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Message, "upstream down")
	})
}

func (s *CatalogControllerSuite) TestDiscover(t provider.T) {
	t.Run("Should return camel case paging", func(t provider.T) {
		page := model.MoviePage{
			Movies:       []model.Movie{{ID: 550, Title: "Fight Club", GenreIDs: []int{18}}},
			Page:         2,
			TotalPages:   9,
			TotalResults: 170,
		}
		s.catalog.On("DiscoverByGenre", mock.Anything, 18, 2).Return(page, nil).Once()

		w := s.get("/api/v1/genres/18/movies?page=2")

		assert.Equal(t, http.StatusOK, w.Code)
		var raw map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, float64(9), raw["totalPages"])
		assert.Equal(t, float64(170), raw["totalResults"])
		assert.Len(t, raw["movies"], 1)
	})

	t.Run("Should reject out of range page", func(t provider.T) {
		assert.Equal(t, http.StatusBadRequest, s.get("/api/v1/genres/18/movies?page=501").Code)
		assert.Equal(t, http.StatusBadRequest, s.get("/api/v1/genres/18/movies?page=x").Code)
		assert.Equal(t, http.StatusBadRequest, s.get("/api/v1/genres/action/movies").Code)
	})
}

func (s *CatalogControllerSuite) TestMovie(t provider.T) {
	t.Run("Should return movie", func(t provider.T) {
		s.catalog.On("Movie", mock.Anything, int64(603)).Return(model.Movie{ID: 603, Title: "The Matrix"}, nil).Once()

		w := s.get("/api/v1/movies/603")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp MovieResponseDTO
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "The Matrix", resp.Movie.Title)
	})

	t.Run("Should report unknown movie", func(t provider.T) {
		s.catalog.On("Movie", mock.Anything, int64(1)).Return(model.Movie{}, usecase_catalog.ErrResourceNotFound).Once()

		assert.Equal(t, http.StatusNotFound, s.get("/api/v1/movies/1").Code)
	})
}

func (s *CatalogControllerSuite) TestSearch(t provider.T) {
	t.Run("Should route search before movie id", func(t provider.T) {
		s.catalog.On("Search", mock.Anything, "matrix", 1).Return(model.MoviePage{Page: 1}, nil).Once()

		w := s.get("/api/v1/movies/search?query=matrix")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should reject blank query", func(t provider.T) {
		assert.Equal(t, http.StatusBadRequest, s.get("/api/v1/movies/search?query=").Code)
	})
}

func TestCatalogControllerSuite(t *testing.T) {
	suite.RunSuite(t, new(CatalogControllerSuite))
}
