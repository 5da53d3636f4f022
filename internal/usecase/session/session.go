package usecase_session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/humanbelnik/moviematch/internal/infra/metrics"
	"github.com/humanbelnik/moviematch/internal/model"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrSessionNotJoinable      = errors.New("session not joinable")
	ErrSessionAlreadyFull      = errors.New("session already full")
	ErrCodeConflict            = errors.New("code conflict")
	ErrCodeGenerationExhausted = errors.New("code generation exhausted")
	ErrStatusRegression        = errors.New("status regression")
	ErrResourceNotFound        = errors.New("no such resource")
	ErrInternal                = errors.New("internal error")
)

const defaultCodeAttempts = 5

//go:generate mockery --name=SessionRepository --output=./mocks/repository --filename=repository.go
type SessionRepository interface {
	// CreateWithOwner stores the session and its creator atomically.
	// A live session already holding the code yields ErrCodeConflict.
	CreateWithOwner(ctx context.Context, session model.Session, owner model.User) error
	WaitingByCode(ctx context.Context, code string) (model.Session, error)
	// Join sets user_b_id only while it is still unset, and stores the guest.
	// Losing the race yields ErrSessionAlreadyFull.
	Join(ctx context.Context, sessionID uuid.UUID, guest model.User) error
	ByID(ctx context.Context, id uuid.UUID) (model.Session, error)
	LiveByCode(ctx context.Context, code string) (model.Session, error)
	SetGenre(ctx context.Context, id uuid.UUID, genreID int) error
	UserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	UsersBySession(ctx context.Context, sessionID uuid.UUID) ([]model.User, error)
}

type createInput struct {
	UserName string `validate:"required,max=64"`
}

type joinInput struct {
	Code     string `validate:"required,len=6,number"`
	UserName string `validate:"required,max=64"`
}

type Usecase struct {
	repository SessionRepository
	validate   *validator.Validate
	logger     *slog.Logger

	codeSource   func() string
	codeAttempts int
	now          func() time.Time
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithCodeSource(source func() string) Option {
	return func(u *Usecase) {
		u.codeSource = source
	}
}

func WithCodeAttempts(n int) Option {
	return func(u *Usecase) {
		if n > 0 {
			u.codeAttempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(repository SessionRepository, opts ...Option) *Usecase {
	u := &Usecase{
		repository:   repository,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       slog.Default(),
		codeSource:   BuildCode,
		codeAttempts: defaultCodeAttempts,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// BuildCode draws a uniformly random code in [100000, 999999].
func BuildCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}

func (u *Usecase) Create(ctx context.Context, userName string) (model.Session, model.User, error) {
	userName = strings.TrimSpace(userName)
	if err := u.validate.Struct(createInput{UserName: userName}); err != nil {
		return model.Session{}, model.User{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	owner := model.User{
		ID:   uuid.New(),
		Name: userName,
	}

	// Codes are only unique among live sessions, so a draw may collide.
	for attempt := 1; attempt <= u.codeAttempts; attempt++ {
		session := model.Session{
			ID:        uuid.New(),
			Code:      u.codeSource(),
			Status:    model.StatusWaiting,
			UserAID:   owner.ID,
			CreatedAt: u.now(),
		}
		owner.SessionID = session.ID

		err := u.repository.CreateWithOwner(ctx, session, owner)
		if err == nil {
			metrics.SessionsCreated.Inc()
			return session, owner, nil
		}
		if !errors.Is(err, ErrCodeConflict) {
			return model.Session{}, model.User{}, errors.Join(ErrInternal, err)
		}

		metrics.SessionCodeConflicts.Inc()
		u.logger.Warn("session code conflict",
			slog.String("code", session.Code),
			slog.Int("attempt", attempt),
		)
	}

	return model.Session{}, model.User{}, ErrCodeGenerationExhausted
}

// Not-found and already-full both reject the join; callers must not tell them apart to clients.
func (u *Usecase) Join(ctx context.Context, code string, userName string) (model.Session, model.User, error) {
	in := joinInput{
		Code:     strings.TrimSpace(code),
		UserName: strings.TrimSpace(userName),
	}
	if err := u.validate.Struct(in); err != nil {
		return model.Session{}, model.User{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	session, err := u.repository.WaitingByCode(ctx, in.Code)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			metrics.JoinAttempts.WithLabelValues(metrics.JoinNotJoinable).Inc()
			return model.Session{}, model.User{}, ErrSessionNotJoinable
		}
		return model.Session{}, model.User{}, errors.Join(ErrInternal, err)
	}

	guest := model.User{
		ID:        uuid.New(),
		Name:      in.UserName,
		SessionID: session.ID,
	}
	if err := u.repository.Join(ctx, session.ID, guest); err != nil {
		if errors.Is(err, ErrSessionAlreadyFull) {
			metrics.JoinAttempts.WithLabelValues(metrics.JoinFull).Inc()
			return model.Session{}, model.User{}, ErrSessionAlreadyFull
		}
		return model.Session{}, model.User{}, errors.Join(ErrInternal, err)
	}

	metrics.JoinAttempts.WithLabelValues(metrics.JoinOK).Inc()
	session.UserBID = &guest.ID
	return session, guest, nil
}

// Get returns nil without error when there is no such session.
func (u *Usecase) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	session, err := u.repository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return &session, nil
}

// GetByCode looks up the waiting or active session holding code.
func (u *Usecase) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	session, err := u.repository.LiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return &session, nil
}

// UpdateGenre may be called repeatedly; the last genre wins and the session becomes active.
func (u *Usecase) UpdateGenre(ctx context.Context, id uuid.UUID, genreID int) error {
	if genreID <= 0 {
		return fmt.Errorf("%w: genre id must be positive", ErrInvalidInput)
	}

	if err := u.repository.SetGenre(ctx, id, genreID); err != nil {
		switch {
		case errors.Is(err, ErrResourceNotFound):
			return ErrResourceNotFound
		case errors.Is(err, ErrStatusRegression):
			return ErrStatusRegression
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// An unknown session has no participants.
func (u *Usecase) IsParticipant(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) (bool, error) {
	session, err := u.repository.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return false, nil
		}
		return false, errors.Join(ErrInternal, err)
	}
	return session.HasParticipant(userID), nil
}

func (u *Usecase) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := u.repository.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return &user, nil
}

func (u *Usecase) Users(ctx context.Context, sessionID uuid.UUID) ([]model.User, error) {
	users, err := u.repository.UsersBySession(ctx, sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return users, nil
}
