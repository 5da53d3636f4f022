package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionHasParticipant(t *testing.T) {
	owner, guest := uuid.New(), uuid.New()

	waiting := Session{UserAID: owner}
	assert.True(t, waiting.HasParticipant(owner))
	assert.False(t, waiting.HasParticipant(guest))
	assert.False(t, waiting.HasParticipant(uuid.Nil))
	assert.False(t, waiting.IsFull())

	full := Session{UserAID: owner, UserBID: &guest}
	assert.True(t, full.HasParticipant(guest))
	assert.False(t, full.HasParticipant(uuid.New()))
	assert.True(t, full.IsFull())
}

func TestIsValidAction(t *testing.T) {
	assert.True(t, IsValidAction(LikeAction))
	assert.True(t, IsValidAction(PassAction))
	assert.False(t, IsValidAction("LIKE"))
	assert.False(t, IsValidAction(""))
}
