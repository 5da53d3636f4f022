package infra_postgres_swipe

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviematch/internal/model"
	usecase_swipe "github.com/humanbelnik/moviematch/internal/usecase/swipe"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	reader *sqlx.DB
	writer *sqlx.DB
}

func New(
	reader *sqlx.DB,
	writer *sqlx.DB,
) *Driver {
	return &Driver{
		reader: reader,
		writer: writer,
	}
}

type swipeDTO struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	UserID    uuid.UUID `db:"user_id"`
	MovieID   int64     `db:"movie_id"`
	Action    string    `db:"action"`
	CreatedAt time.Time `db:"created_at"`
}

func (dto swipeDTO) toModel() model.Swipe {
	return model.Swipe{
		ID:        dto.ID,
		SessionID: dto.SessionID,
		UserID:    dto.UserID,
		MovieID:   dto.MovieID,
		Action:    dto.Action,
		CreatedAt: dto.CreatedAt,
	}
}

type matchDTO struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	MovieID   int64     `db:"movie_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (dto matchDTO) toModel() model.Match {
	return model.Match{
		ID:        dto.ID,
		SessionID: dto.SessionID,
		MovieID:   dto.MovieID,
		CreatedAt: dto.CreatedAt,
	}
}

func (d *Driver) Insert(ctx context.Context, swipe model.Swipe) error {
	const (
		q = `
		INSERT INTO swipes (id, session_id, user_id, movie_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		`
	)

	_, err := d.writer.ExecContext(ctx, q,
		swipe.ID,
		swipe.SessionID,
		swipe.UserID,
		swipe.MovieID,
		swipe.Action,
		swipe.CreatedAt,
	)
	return err
}

// Read through the writer so a caller always sees the like it has just stored.
func (d *Driver) LikedBy(ctx context.Context, sessionID uuid.UUID, movieID int64) ([]uuid.UUID, error) {
	const (
		q = `
		SELECT user_id
		FROM swipes
		WHERE session_id = $1 AND movie_id = $2 AND action = $3
		`
	)

	var userIDs []uuid.UUID
	if err := d.writer.SelectContext(ctx, &userIDs, q, sessionID, movieID, model.LikeAction); err != nil {
		return nil, err
	}
	return userIDs, nil
}

// CreateMatchOnce relies on the (session_id, movie_id) unique constraint:
// a losing insert returns no row and the winner's match is read back instead.
func (d *Driver) CreateMatchOnce(ctx context.Context, match model.Match) (model.Match, bool, error) {
	const (
		qInsert = `
		INSERT INTO matches (id, session_id, movie_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, movie_id) DO NOTHING
		RETURNING id, session_id, movie_id, created_at
		`
		qExisting = `
		SELECT id, session_id, movie_id, created_at
		FROM matches
		WHERE session_id = $1 AND movie_id = $2
		`
	)

	var dto matchDTO
	err := d.writer.GetContext(ctx, &dto, qInsert, match.ID, match.SessionID, match.MovieID, match.CreatedAt)
	if err == nil {
		return dto.toModel(), true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Match{}, false, err
	}

	if err := d.writer.GetContext(ctx, &dto, qExisting, match.SessionID, match.MovieID); err != nil {
		return model.Match{}, false, err
	}
	return dto.toModel(), false, nil
}

func (d *Driver) SwipeByID(ctx context.Context, id uuid.UUID) (model.Swipe, error) {
	const (
		q = `SELECT id, session_id, user_id, movie_id, action, created_at FROM swipes WHERE id = $1`
	)

	var dto swipeDTO
	if err := d.reader.GetContext(ctx, &dto, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Swipe{}, usecase_swipe.ErrResourceNotFound
		}
		return model.Swipe{}, err
	}
	return dto.toModel(), nil
}

func (d *Driver) SwipesByUser(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) ([]model.Swipe, error) {
	const (
		q = `
		SELECT id, session_id, user_id, movie_id, action, created_at
		FROM swipes
		WHERE session_id = $1 AND user_id = $2
		ORDER BY created_at
		`
	)

	var rows []swipeDTO
	if err := d.reader.SelectContext(ctx, &rows, q, sessionID, userID); err != nil {
		return nil, err
	}

	swipes := make([]model.Swipe, 0, len(rows))
	for _, row := range rows {
		swipes = append(swipes, row.toModel())
	}
	return swipes, nil
}

func (d *Driver) MatchByID(ctx context.Context, id uuid.UUID) (model.Match, error) {
	const (
		q = `SELECT id, session_id, movie_id, created_at FROM matches WHERE id = $1`
	)

	var dto matchDTO
	if err := d.reader.GetContext(ctx, &dto, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Match{}, usecase_swipe.ErrResourceNotFound
		}
		return model.Match{}, err
	}
	return dto.toModel(), nil
}

func (d *Driver) MatchesBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Match, error) {
	const (
		q = `
		SELECT id, session_id, movie_id, created_at
		FROM matches
		WHERE session_id = $1
		ORDER BY created_at DESC
		`
	)

	var rows []matchDTO
	if err := d.reader.SelectContext(ctx, &rows, q, sessionID); err != nil {
		return nil, err
	}

	matches := make([]model.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toModel())
	}
	return matches, nil
}
