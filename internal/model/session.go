package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus = string

const (
	StatusWaiting   SessionStatus = "waiting"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

const CodeLen = 6

type Session struct {
	ID        uuid.UUID
	Code      string
	Status    SessionStatus
	GenreID   *int
	UserAID   uuid.UUID
	UserBID   *uuid.UUID
	CreatedAt time.Time
}

// HasParticipant reports whether userID is one of the two registered participants.
func (s Session) HasParticipant(userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	if s.UserAID == userID {
		return true
	}
	return s.UserBID != nil && *s.UserBID == userID
}

func (s Session) IsFull() bool {
	return s.UserBID != nil
}
