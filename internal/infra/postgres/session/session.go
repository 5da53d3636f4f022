package infra_postgres_session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviematch/internal/infra/postgres/pgerr"
	"github.com/humanbelnik/moviematch/internal/model"
	usecase_session "github.com/humanbelnik/moviematch/internal/usecase/session"
	"github.com/jmoiron/sqlx"
)

const liveCodeConstraint = "sessions_live_code_uq"

// Driver reads through the restricted connection and writes through the privileged one.
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

type sessionDTO struct {
	ID        uuid.UUID     `db:"id"`
	Code      string        `db:"code"`
	Status    string        `db:"status"`
	GenreID   sql.NullInt32 `db:"genre_id"`
	UserAID   uuid.UUID     `db:"user_a_id"`
	UserBID   uuid.NullUUID `db:"user_b_id"`
	CreatedAt time.Time     `db:"created_at"`
}

func (dto sessionDTO) toModel() model.Session {
	s := model.Session{
		ID:        dto.ID,
		Code:      dto.Code,
		Status:    dto.Status,
		UserAID:   dto.UserAID,
		CreatedAt: dto.CreatedAt,
	}
	if dto.GenreID.Valid {
		genreID := int(dto.GenreID.Int32)
		s.GenreID = &genreID
	}
	if dto.UserBID.Valid {
		userBID := dto.UserBID.UUID
		s.UserBID = &userBID
	}
	return s
}

type userDTO struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	SessionID uuid.UUID `db:"session_id"`
	IsReady   bool      `db:"is_ready"`
}

func (dto userDTO) toModel() model.User {
	return model.User{
		ID:        dto.ID,
		Name:      dto.Name,
		SessionID: dto.SessionID,
		IsReady:   dto.IsReady,
	}
}

const (
	selectSession = `SELECT id, code, status, genre_id, user_a_id, user_b_id, created_at FROM sessions`
	insertUser    = `
		INSERT INTO users (id, name, session_id, is_ready)
		VALUES ($1, $2, $3, $4)
	`
)

func (d *Driver) CreateWithOwner(ctx context.Context, session model.Session, owner model.User) error {
	const (
		q = `
		INSERT INTO sessions (id, code, status, user_a_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		`
	)

	tx, err := d.writer.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, q,
		session.ID,
		session.Code,
		session.Status,
		session.UserAID,
		session.CreatedAt,
	)
	if err != nil {
		if pgerr.IsUniqueViolation(err, liveCodeConstraint) {
			return usecase_session.ErrCodeConflict
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, insertUser, owner.ID, owner.Name, owner.SessionID, owner.IsReady); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *Driver) WaitingByCode(ctx context.Context, code string) (model.Session, error) {
	const (
		q = selectSession + ` WHERE code = $1 AND status = $2`
	)

	var dto sessionDTO
	if err := d.reader.GetContext(ctx, &dto, q, code, model.StatusWaiting); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, usecase_session.ErrResourceNotFound
		}
		return model.Session{}, err
	}
	return dto.toModel(), nil
}

// The update only matches while user_b_id is unset, so of two racing joins exactly one wins.
func (d *Driver) Join(ctx context.Context, sessionID uuid.UUID, guest model.User) error {
	const (
		q = `
		UPDATE sessions
		SET user_b_id = $1
		WHERE id = $2 AND user_b_id IS NULL AND status = $3
		`
	)

	tx, err := d.writer.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, q, guest.ID, sessionID, model.StatusWaiting)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return usecase_session.ErrSessionAlreadyFull
	}

	if _, err := tx.ExecContext(ctx, insertUser, guest.ID, guest.Name, guest.SessionID, guest.IsReady); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *Driver) ByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	const (
		q = selectSession + ` WHERE id = $1`
	)

	var dto sessionDTO
	if err := d.reader.GetContext(ctx, &dto, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, usecase_session.ErrResourceNotFound
		}
		return model.Session{}, err
	}
	return dto.toModel(), nil
}

func (d *Driver) LiveByCode(ctx context.Context, code string) (model.Session, error) {
	const (
		q = selectSession + ` WHERE code = $1 AND status IN ($2, $3)`
	)

	var dto sessionDTO
	if err := d.reader.GetContext(ctx, &dto, q, code, model.StatusWaiting, model.StatusActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, usecase_session.ErrResourceNotFound
		}
		return model.Session{}, err
	}
	return dto.toModel(), nil
}

// SetGenre never moves a completed session back to active.
func (d *Driver) SetGenre(ctx context.Context, id uuid.UUID, genreID int) error {
	const (
		q = `
		UPDATE sessions
		SET genre_id = $1, status = $2
		WHERE id = $3 AND status <> $4
		`
		qStatus = `SELECT status FROM sessions WHERE id = $1`
	)

	res, err := d.writer.ExecContext(ctx, q, genreID, model.StatusActive, id, model.StatusCompleted)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	var status string
	if err := d.writer.GetContext(ctx, &status, qStatus, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return usecase_session.ErrResourceNotFound
		}
		return err
	}
	return usecase_session.ErrStatusRegression
}

func (d *Driver) UserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	const (
		q = `SELECT id, name, session_id, is_ready FROM users WHERE id = $1`
	)

	var dto userDTO
	if err := d.reader.GetContext(ctx, &dto, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, usecase_session.ErrResourceNotFound
		}
		return model.User{}, err
	}
	return dto.toModel(), nil
}

// Owner first.
func (d *Driver) UsersBySession(ctx context.Context, sessionID uuid.UUID) ([]model.User, error) {
	const (
		q = `
		SELECT u.id, u.name, u.session_id, u.is_ready
		FROM users u
		JOIN sessions s ON s.id = u.session_id
		WHERE u.session_id = $1
		ORDER BY (u.id = s.user_a_id) DESC
		`
	)

	var rows []userDTO
	if err := d.reader.SelectContext(ctx, &rows, q, sessionID); err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}
