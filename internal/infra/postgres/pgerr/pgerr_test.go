package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "sessions_live_code_uq"}

	tt := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "any constraint", err: unique, want: true},
		{name: "matching constraint", err: unique, constraint: "sessions_live_code_uq", want: true},
		{name: "other constraint", err: unique, constraint: "matches_session_movie_uq", want: false},
		{name: "wrapped", err: fmt.Errorf("insert: %w", unique), want: true},
		{name: "foreign key violation", err: &pq.Error{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsUniqueViolation(tc.err, tc.constraint))
		})
	}
}
