package usecase_swipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviematch/internal/infra/metrics"
	"github.com/humanbelnik/moviematch/internal/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidParticipant = errors.New("invalid participant")
	ErrResourceNotFound   = errors.New("no such resource")
	ErrInternal           = errors.New("internal error")
)

//go:generate mockery --name=SwipeRepository --output=./mocks/repository --filename=repository.go
type SwipeRepository interface {
	Insert(ctx context.Context, swipe model.Swipe) error
	// LikedBy returns the user id of every like-swipe on the movie, duplicates included.
	LikedBy(ctx context.Context, sessionID uuid.UUID, movieID int64) ([]uuid.UUID, error)
	// CreateMatchOnce returns the stored match for the pair, inserting it if absent.
	// created is true only for the call that inserted it.
	CreateMatchOnce(ctx context.Context, match model.Match) (stored model.Match, created bool, err error)
	SwipeByID(ctx context.Context, id uuid.UUID) (model.Swipe, error)
	SwipesByUser(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) ([]model.Swipe, error)
	MatchByID(ctx context.Context, id uuid.UUID) (model.Match, error)
	MatchesBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Match, error)
}

//go:generate mockery --name=ParticipantChecker --output=./mocks/participant --filename=participant.go
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) (bool, error)
}

type Usecase struct {
	repository   SwipeRepository
	participants ParticipantChecker
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(
	repository SwipeRepository,
	participants ParticipantChecker,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		repository:   repository,
		participants: participants,
		logger:       slog.Default(),
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Record appends a swipe fact. Repeated swipes on the same movie are stored as distinct facts.
func (u *Usecase) Record(
	ctx context.Context,
	sessionID uuid.UUID,
	userID uuid.UUID,
	movieID int64,
	action model.SwipeAction,
) (model.Swipe, error) {
	if !model.IsValidAction(action) {
		return model.Swipe{}, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
	if movieID <= 0 {
		return model.Swipe{}, fmt.Errorf("%w: movie id must be positive", ErrInvalidInput)
	}

	ok, err := u.participants.IsParticipant(ctx, sessionID, userID)
	if err != nil {
		return model.Swipe{}, errors.Join(ErrInternal, err)
	}
	if !ok {
		return model.Swipe{}, ErrInvalidParticipant
	}

	swipe := model.Swipe{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		MovieID:   movieID,
		Action:    action,
		CreatedAt: u.now(),
	}
	if err := u.repository.Insert(ctx, swipe); err != nil {
		return model.Swipe{}, errors.Join(ErrInternal, err)
	}

	metrics.SwipesRecorded.WithLabelValues(action).Inc()
	return swipe, nil
}

// CheckForMatch is safe to call any number of times from either participant:
// once both have liked the movie every call returns the same match.
func (u *Usecase) CheckForMatch(ctx context.Context, sessionID uuid.UUID, movieID int64) (*model.Match, error) {
	likers, err := u.repository.LikedBy(ctx, sessionID, movieID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if len(likers) < 2 {
		metrics.MatchChecks.WithLabelValues(metrics.MatchNone).Inc()
		return nil, nil
	}

	distinct := make(map[uuid.UUID]struct{}, len(likers))
	for _, id := range likers {
		distinct[id] = struct{}{}
	}
	if len(distinct) < 2 {
		metrics.MatchChecks.WithLabelValues(metrics.MatchNone).Inc()
		return nil, nil
	}

	match, created, err := u.repository.CreateMatchOnce(ctx, model.Match{
		ID:        uuid.New(),
		SessionID: sessionID,
		MovieID:   movieID,
		CreatedAt: u.now(),
	})
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	if created {
		metrics.MatchChecks.WithLabelValues(metrics.MatchCreated).Inc()
		u.logger.Info("match created",
			slog.String("session_id", sessionID.String()),
			slog.Int64("movie_id", movieID),
			slog.String("match_id", match.ID.String()),
		)
	} else {
		metrics.MatchChecks.WithLabelValues(metrics.MatchExisting).Inc()
	}
	return &match, nil
}

// Swipe records the decision and, for a like, checks whether it completes a match.
func (u *Usecase) Swipe(
	ctx context.Context,
	sessionID uuid.UUID,
	userID uuid.UUID,
	movieID int64,
	action model.SwipeAction,
) (model.Swipe, *model.Match, error) {
	swipe, err := u.Record(ctx, sessionID, userID, movieID, action)
	if err != nil {
		return model.Swipe{}, nil, err
	}
	if action != model.LikeAction {
		return swipe, nil, nil
	}

	match, err := u.CheckForMatch(ctx, sessionID, movieID)
	if err != nil {
		return swipe, nil, err
	}
	return swipe, match, nil
}

func (u *Usecase) SwipeByID(ctx context.Context, id uuid.UUID) (*model.Swipe, error) {
	swipe, err := u.repository.SwipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return &swipe, nil
}

func (u *Usecase) Swipes(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) ([]model.Swipe, error) {
	swipes, err := u.repository.SwipesByUser(ctx, sessionID, userID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return swipes, nil
}

func (u *Usecase) Match(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	match, err := u.repository.MatchByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return &match, nil
}

// Matches are returned newest first.
func (u *Usecase) Matches(ctx context.Context, sessionID uuid.UUID) ([]model.Match, error) {
	matches, err := u.repository.MatchesBySession(ctx, sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return matches, nil
}
