package http_session

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/moviematch/internal/delivery/http/common"
	"github.com/humanbelnik/moviematch/internal/model"
	usecase_session "github.com/humanbelnik/moviematch/internal/usecase/session"
	usecase_swipe "github.com/humanbelnik/moviematch/internal/usecase/swipe"
)

// Shared by every rejected join so clients cannot probe which codes exist.
const msgNotJoinable = "invalid or unavailable session"

var shareCodeRe = regexp.MustCompile(`^\d{6}$`)

type Controller struct {
	sessions     *usecase_session.Usecase
	swipes       *usecase_swipe.Usecase
	joinThrottle gin.HandlerFunc
	logger       *slog.Logger
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithJoinThrottle(h gin.HandlerFunc) Option {
	return func(c *Controller) {
		c.joinThrottle = h
	}
}

func New(
	sessions *usecase_session.Usecase,
	swipes *usecase_swipe.Usecase,
	opts ...Option,
) *Controller {
	c := &Controller{
		sessions: sessions,
		swipes:   swipes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", c.create)
		sessions.GET("", c.lookup)
		if c.joinThrottle != nil {
			sessions.POST("/join", c.joinThrottle, c.join)
		} else {
			sessions.POST("/join", c.join)
		}
		sessions.GET("/:session_id", c.get)
		sessions.PUT("/:session_id/genre", c.updateGenre)
		sessions.GET("/:session_id/matches", c.matches)
		sessions.GET("/:session_id/swipes", c.swipesOf)
	}
	router.GET("/users/:user_id", c.user)
	router.GET("/matches/:match_id", c.match)
}

type CreateRequestDTO struct {
	UserName string `json:"userName"`
}

type SessionUserResponseDTO struct {
	Session http_common.SessionDTO `json:"session"`
	User    http_common.UserDTO    `json:"user"`
}

// Create opens a session for its owner
// @Summary Create session
// @Description Opens a waiting session and registers the caller as its owner
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateRequestDTO true "Owner name"
// @Success 201 {object} SessionUserResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse
// @Router /sessions [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	session, owner, err := c.sessions.Create(ctx, req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, usecase_session.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "user name is required",
			})
		case errors.Is(err, usecase_session.ErrCodeGenerationExhausted):
			c.logger.Error("failed to create session", slog.String("error", err.Error()))
			ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{
				Message: "unavailable",
			})
		default:
			c.logger.Error("failed to create session", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: http_common.MsgInternal,
			})
		}
		return
	}

	ctx.JSON(http.StatusCreated, SessionUserResponseDTO{
		Session: http_common.ToSessionDTO(session),
		User:    http_common.ToUserDTO(owner),
	})
}

type JoinRequestDTO struct {
	Code     string `json:"code"`
	UserName string `json:"userName"`
}

// Join adds the second participant
// @Summary Join session
// @Description Joins a waiting session by its 6-digit code
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body JoinRequestDTO true "Share code and name"
// @Success 200 {object} SessionUserResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse
// @Failure 429 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /sessions/join [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	session, guest, err := c.sessions.Join(ctx, req.Code, req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, usecase_session.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "code and user name are required",
			})
		case errors.Is(err, usecase_session.ErrSessionNotJoinable),
			errors.Is(err, usecase_session.ErrSessionAlreadyFull):
			c.logger.Info("join rejected", slog.String("error", err.Error()))
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: msgNotJoinable,
			})
		default:
			c.logger.Error("failed to join session", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: http_common.MsgInternal,
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, SessionUserResponseDTO{
		Session: http_common.ToSessionDTO(session),
		User:    http_common.ToUserDTO(guest),
	})
}

type SessionResponseDTO struct {
	Session http_common.SessionDTO `json:"session"`
}

// Lookup finds a session by id or share code
// @Summary Lookup session
// @Description A UUID is looked up by id, a 6-digit value as the share code of a live session
// @Tags Sessions
// @Produce json
// @Param code query string true "Session id or share code"
// @Success 200 {object} SessionResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /sessions [get]
func (c *Controller) lookup(ctx *gin.Context) {
	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "code is required",
		})
		return
	}

	var (
		session *model.Session
		err     error
	)
	if id, parseErr := uuid.Parse(code); parseErr == nil {
		session, err = c.sessions.Get(ctx, id)
	} else if shareCodeRe.MatchString(code) {
		session, err = c.sessions.GetByCode(ctx, code)
	} else {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "code must be a session id or a 6-digit code",
		})
		return
	}

	if err != nil {
		c.logger.Error("failed to look up session", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}
	if session == nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
		return
	}

	ctx.JSON(http.StatusOK, SessionResponseDTO{
		Session: http_common.ToSessionDTO(*session),
	})
}

type SessionUsersResponseDTO struct {
	Session http_common.SessionDTO `json:"session"`
	Users   []http_common.UserDTO  `json:"users"`
}

// Get returns a session with its participants
// @Summary Get session
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} SessionUsersResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /sessions/{session_id} [get]
func (c *Controller) get(ctx *gin.Context) {
	id, ok := c.pathUUID(ctx, "session_id")
	if !ok {
		return
	}

	session, err := c.sessions.Get(ctx, id)
	if err != nil {
		c.logger.Error("failed to get session", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}
	if session == nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
		return
	}

	users, err := c.sessions.Users(ctx, id)
	if err != nil {
		c.logger.Error("failed to get session users", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}

	ctx.JSON(http.StatusOK, SessionUsersResponseDTO{
		Session: http_common.ToSessionDTO(*session),
		Users:   http_common.ToUserDTOs(users),
	})
}

type UpdateGenreRequestDTO struct {
	GenreID int `json:"genreId"`
}

// UpdateGenre picks the genre and activates the session
// @Summary Set session genre
// @Tags Sessions
// @Accept json
// @Param session_id path string true "Session id"
// @Param request body UpdateGenreRequestDTO true "Genre"
// @Success 204
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/genre [put]
func (c *Controller) updateGenre(ctx *gin.Context) {
	id, ok := c.pathUUID(ctx, "session_id")
	if !ok {
		return
	}

	var req UpdateGenreRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	if err := c.sessions.UpdateGenre(ctx, id, req.GenreID); err != nil {
		switch {
		case errors.Is(err, usecase_session.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "genreId must be positive",
			})
		case errors.Is(err, usecase_session.ErrResourceNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
		case errors.Is(err, usecase_session.ErrStatusRegression):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: "session is completed",
			})
		default:
			c.logger.Error("failed to update genre", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: http_common.MsgInternal,
			})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

type MatchesResponseDTO struct {
	Matches []http_common.MatchDTO `json:"matches"`
}

// Matches lists a session's matches, newest first
// @Summary Session matches
// @Tags Matches
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} MatchesResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/matches [get]
func (c *Controller) matches(ctx *gin.Context) {
	id, ok := c.pathUUID(ctx, "session_id")
	if !ok {
		return
	}

	matches, err := c.swipes.Matches(ctx, id)
	if err != nil {
		c.logger.Error("failed to list matches", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}

	ctx.JSON(http.StatusOK, MatchesResponseDTO{
		Matches: http_common.ToMatchDTOs(matches),
	})
}

type SwipesResponseDTO struct {
	Swipes []http_common.SwipeDTO `json:"swipes"`
}

// Swipes lists one participant's swipes in a session
// @Summary User swipes
// @Tags Swipes
// @Produce json
// @Param session_id path string true "Session id"
// @Param userId query string true "User id"
// @Success 200 {object} SwipesResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/swipes [get]
func (c *Controller) swipesOf(ctx *gin.Context) {
	sessionID, ok := c.pathUUID(ctx, "session_id")
	if !ok {
		return
	}
	userID, err := uuid.Parse(ctx.Query("userId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "userId must be a valid id",
		})
		return
	}

	swipes, err := c.swipes.Swipes(ctx, sessionID, userID)
	if err != nil {
		c.logger.Error("failed to list swipes", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}

	ctx.JSON(http.StatusOK, SwipesResponseDTO{
		Swipes: http_common.ToSwipeDTOs(swipes),
	})
}

type UserResponseDTO struct {
	User http_common.UserDTO `json:"user"`
}

// User returns a participant
// @Summary Get user
// @Tags Users
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} UserResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /users/{user_id} [get]
func (c *Controller) user(ctx *gin.Context) {
	id, ok := c.pathUUID(ctx, "user_id")
	if !ok {
		return
	}

	user, err := c.sessions.User(ctx, id)
	if err != nil {
		c.logger.Error("failed to get user", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}
	if user == nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
		return
	}

	ctx.JSON(http.StatusOK, UserResponseDTO{
		User: http_common.ToUserDTO(*user),
	})
}

type MatchResponseDTO struct {
	Match http_common.MatchDTO `json:"match"`
}

// Match returns a single match
// @Summary Get match
// @Tags Matches
// @Produce json
// @Param match_id path string true "Match id"
// @Success 200 {object} MatchResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /matches/{match_id} [get]
func (c *Controller) match(ctx *gin.Context) {
	id, ok := c.pathUUID(ctx, "match_id")
	if !ok {
		return
	}

	match, err := c.swipes.Match(ctx, id)
	if err != nil {
		c.logger.Error("failed to get match", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: http_common.MsgInternal,
		})
		return
	}
	if match == nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
		return
	}

	ctx.JSON(http.StatusOK, MatchResponseDTO{
		Match: http_common.ToMatchDTO(*match),
	})
}

func (c *Controller) pathUUID(ctx *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: param + " must be a valid id",
		})
		return uuid.Nil, false
	}
	return id, true
}
