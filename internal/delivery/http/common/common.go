package http_common

import (
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviematch/internal/model"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

const MsgInternal = "internal error"

type SessionDTO struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	GenreID   *int       `json:"genre_id"`
	UserAID   uuid.UUID  `json:"user_a_id"`
	UserBID   *uuid.UUID `json:"user_b_id"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToSessionDTO(s model.Session) SessionDTO {
	return SessionDTO{
		ID:        s.ID,
		Code:      s.Code,
		Status:    s.Status,
		GenreID:   s.GenreID,
		UserAID:   s.UserAID,
		UserBID:   s.UserBID,
		CreatedAt: s.CreatedAt,
	}
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SessionID uuid.UUID `json:"session_id"`
	IsReady   bool      `json:"is_ready"`
}

func ToUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		SessionID: u.SessionID,
		IsReady:   u.IsReady,
	}
}

func ToUserDTOs(users []model.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}

type SwipeDTO struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

func ToSwipeDTOs(swipes []model.Swipe) []SwipeDTO {
	out := make([]SwipeDTO, 0, len(swipes))
	for _, s := range swipes {
		out = append(out, SwipeDTO{
			ID:        s.ID,
			SessionID: s.SessionID,
			UserID:    s.UserID,
			MovieID:   s.MovieID,
			Action:    s.Action,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

type MatchDTO struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	MovieID   int64     `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMatchDTO(m model.Match) MatchDTO {
	return MatchDTO{
		ID:        m.ID,
		SessionID: m.SessionID,
		MovieID:   m.MovieID,
		CreatedAt: m.CreatedAt,
	}
}

func ToMatchDTOs(matches []model.Match) []MatchDTO {
	out := make([]MatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, ToMatchDTO(m))
	}
	return out
}

type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MovieDTO struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Popularity       float64 `json:"popularity"`
	Video            bool    `json:"video"`
}

func ToMovieDTO(m model.Movie) MovieDTO {
	return MovieDTO{
		ID:               m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		ReleaseDate:      m.ReleaseDate,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		GenreIDs:         m.GenreIDs,
		Adult:            m.Adult,
		OriginalLanguage: m.OriginalLanguage,
		OriginalTitle:    m.OriginalTitle,
		Popularity:       m.Popularity,
		Video:            m.Video,
	}
}

// MoviePageDTO keeps the camelCase paging keys the clients already read.
type MoviePageDTO struct {
	Movies       []MovieDTO `json:"movies"`
	Page         int        `json:"page"`
	TotalPages   int        `json:"totalPages"`
	TotalResults int        `json:"totalResults"`
}

func ToMoviePageDTO(p model.MoviePage) MoviePageDTO {
	movies := make([]MovieDTO, 0, len(p.Movies))
	for _, m := range p.Movies {
		movies = append(movies, ToMovieDTO(m))
	}
	return MoviePageDTO{
		Movies:       movies,
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
}
