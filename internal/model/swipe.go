package model

import (
	"time"

	"github.com/google/uuid"
)

type SwipeAction = string

const (
	LikeAction SwipeAction = "like"
	PassAction SwipeAction = "pass"
)

func IsValidAction(a SwipeAction) bool {
	return a == LikeAction || a == PassAction
}

type Swipe struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	UserID    uuid.UUID
	MovieID   int64
	Action    SwipeAction
	CreatedAt time.Time
}

// Match is a confirmed mutual like. There is at most one per (SessionID, MovieID).
type Match struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	MovieID   int64
	CreatedAt time.Time
}
