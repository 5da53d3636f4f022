package http_swipe

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/moviematch/internal/delivery/http/common"
	usecase_swipe "github.com/humanbelnik/moviematch/internal/usecase/swipe"
)

type Controller struct {
	usecase *usecase_swipe.Usecase
	logger  *slog.Logger
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_swipe.Usecase, opts ...Option) *Controller {
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
	router.POST("/swipes", c.swipe)
}

type SwipeRequestDTO struct {
	SessionID string `json:"sessionId" binding:"required,uuid"`
	UserID    string `json:"userId" binding:"required,uuid"`
	MovieID   int64  `json:"movieId" binding:"required,gt=0"`
	Action    string `json:"action" binding:"required,oneof=like pass"`
}

type SwipeResponseDTO struct {
	Success bool                  `json:"success"`
	Match   *http_common.MatchDTO `json:"match"`
}

// Swipe records a like or pass and reports a match if it completes one
// @Summary Swipe on a movie
// @Tags Swipes
// @Accept json
// @Produce json
// @Param request body SwipeRequestDTO true "Swipe"
// @Success 200 {object} SwipeResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 403 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /swipes [post]
func (c *Controller) swipe(ctx *gin.Context) {
	var req SwipeRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "sessionId, userId, movieId and action are required",
		})
		return
	}

	sessionID, errSession := uuid.Parse(req.SessionID)
	userID, errUser := uuid.Parse(req.UserID)
	if errSession != nil || errUser != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "sessionId and userId must be valid ids",
		})
		return
	}

	_, match, err := c.usecase.Swipe(ctx, sessionID, userID, req.MovieID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, usecase_swipe.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid swipe",
			})
		case errors.Is(err, usecase_swipe.ErrInvalidParticipant):
			ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{
				Message: "user is not a participant of this session",
			})
		default:
			c.logger.Error("failed to record swipe",
				slog.String("error", err.Error()),
				slog.String("session_id", req.SessionID),
				slog.Int64("movie_id", req.MovieID),
			)
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: http_common.MsgInternal,
			})
		}
		return
	}

	resp := SwipeResponseDTO{Success: true}
	if match != nil {
		dto := http_common.ToMatchDTO(*match)
		resp.Match = &dto
	}
	ctx.JSON(http.StatusOK, resp)
}
