package usecase_session

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviematch/internal/model"
	repo_mocks "github.com/humanbelnik/moviematch/internal/usecase/session/mocks/repository"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var codeRe = regexp.MustCompile(`^\d{6}$`)

type UsecaseSessionUnitSuite struct {
	suite.Suite

	usecase *Usecase
	repo    *repo_mocks.SessionRepository

	ctx context.Context
	now time.Time
}

func (s *UsecaseSessionUnitSuite) BeforeEach(t provider.T) {
	s.repo = repo_mocks.NewSessionRepository(t)
	s.now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.usecase = New(s.repo, WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func fixedCodes(codes ...string) func() string {
	i := 0
	return func() string {
		c := codes[i%len(codes)]
		i++
		return c
	}
}

func (s *UsecaseSessionUnitSuite) TestBuildCode(t provider.T) {
	t.Run("Should always draw six digits without a leading zero", func(t provider.T) {
		for i := 0; i < 1000; i++ {
			code := BuildCode()
			assert.Regexp(t, codeRe, code)

			n, err := strconv.Atoi(code)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, n, 100000)
			assert.LessOrEqual(t, n, 999999)
		}
	})
}

func (s *UsecaseSessionUnitSuite) TestCreate(t provider.T) {
	t.Run("Should create waiting session owned by creator", func(t provider.T) {
		var stored model.Session
		var storedOwner model.User
		s.repo.On("CreateWithOwner", s.ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(model.Session)
				storedOwner = args.Get(2).(model.User)
			}).
			Return(nil).Once()

		session, owner, err := s.usecase.Create(s.ctx, "  Alice  ")

		assert.NoError(t, err)
		assert.Regexp(t, codeRe, session.Code)
		assert.Equal(t, model.StatusWaiting, session.Status)
		assert.Nil(t, session.GenreID)
		assert.Nil(t, session.UserBID)
		assert.NotEqual(t, uuid.Nil, session.ID)
		assert.Equal(t, owner.ID, session.UserAID)
		assert.Equal(t, session.ID, owner.SessionID)
		assert.Equal(t, "Alice", owner.Name)
		assert.False(t, owner.IsReady)
		assert.Equal(t, s.now, session.CreatedAt)
		assert.Equal(t, session, stored)
		assert.Equal(t, owner, storedOwner)
	})

	t.Run("Should redraw code on conflict", func(t provider.T) {
		uc := New(s.repo, WithCodeSource(fixedCodes("111111", "222222")))

		s.repo.On("CreateWithOwner", s.ctx, mock.MatchedBy(func(ss model.Session) bool {
			return ss.Code == "111111"
		}), mock.Anything).Return(ErrCodeConflict).Once()
		s.repo.On("CreateWithOwner", s.ctx, mock.MatchedBy(func(ss model.Session) bool {
			return ss.Code == "222222"
		}), mock.Anything).Return(nil).Once()

		session, _, err := uc.Create(s.ctx, "Alice")

		assert.NoError(t, err)
		assert.Equal(t, "222222", session.Code)
	})

	t.Run("Should give up after configured attempts", func(t provider.T) {
		uc := New(s.repo, WithCodeAttempts(3), WithCodeSource(fixedCodes("333333")))

		s.repo.On("CreateWithOwner", s.ctx, mock.Anything, mock.Anything).Return(ErrCodeConflict).Times(3)

		_, _, err := uc.Create(s.ctx, "Alice")

		assert.ErrorIs(t, err, ErrCodeGenerationExhausted)
	})

	t.Run("Should reject blank name without touching storage", func(t provider.T) {
		_, _, err := s.usecase.Create(s.ctx, "   ")

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Should reject overlong name", func(t provider.T) {
		long := make([]rune, 65)
		for i := range long {
			long[i] = 'a'
		}

		_, _, err := s.usecase.Create(s.ctx, string(long))

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Should wrap storage failure as internal", func(t provider.T) {
		repoErr := errors.New("connection reset")
		s.repo.On("CreateWithOwner", s.ctx, mock.Anything, mock.Anything).Return(repoErr).Once()

		_, _, err := s.usecase.Create(s.ctx, "Alice")

		assert.ErrorIs(t, err, ErrInternal)
		assert.ErrorContains(t, err, repoErr.Error())
	})
}

func (s *UsecaseSessionUnitSuite) TestJoin(t provider.T) {
	waiting := model.Session{
		ID:      uuid.New(),
		Code:    "654321",
		Status:  model.StatusWaiting,
		UserAID: uuid.New(),
	}

	t.Run("Should add second participant", func(t provider.T) {
		s.repo.On("WaitingByCode", s.ctx, "654321").Return(waiting, nil).Once()
		s.repo.On("Join", s.ctx, waiting.ID, mock.MatchedBy(func(u model.User) bool {
			return u.Name == "Bob" && u.SessionID == waiting.ID
		})).Return(nil).Once()

		session, guest, err := s.usecase.Join(s.ctx, " 654321 ", "Bob")

		assert.NoError(t, err)
		assert.Equal(t, waiting.ID, session.ID)
		if assert.NotNil(t, session.UserBID) {
			assert.Equal(t, guest.ID, *session.UserBID)
		}
		assert.NotEqual(t, session.UserAID, guest.ID)
	})

	t.Run("Should reject unknown code as not joinable", func(t provider.T) {
		s.repo.On("WaitingByCode", s.ctx, "000001").Return(model.Session{}, ErrResourceNotFound).Once()

		_, _, err := s.usecase.Join(s.ctx, "000001", "Bob")

		assert.ErrorIs(t, err, ErrSessionNotJoinable)
	})

	t.Run("Should report full session", func(t provider.T) {
		s.repo.On("WaitingByCode", s.ctx, "654321").Return(waiting, nil).Once()
		s.repo.On("Join", s.ctx, waiting.ID, mock.Anything).Return(ErrSessionAlreadyFull).Once()

		_, _, err := s.usecase.Join(s.ctx, "654321", "Carol")

		assert.ErrorIs(t, err, ErrSessionAlreadyFull)
	})

	t.Run("Should reject malformed code without touching storage", func(t provider.T) {
		for _, code := range []string{"", "12345", "1234567", "12a456"} {
			_, _, err := s.usecase.Join(s.ctx, code, "Bob")
			assert.ErrorIs(t, err, ErrInvalidInput, code)
		}
	})

	t.Run("Should reject blank name", func(t provider.T) {
		_, _, err := s.usecase.Join(s.ctx, "654321", " ")

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func (s *UsecaseSessionUnitSuite) TestGet(t provider.T) {
	t.Run("Should return stored session", func(t provider.T) {
		stored := model.Session{ID: uuid.New(), Code: "123456", Status: model.StatusWaiting}
		s.repo.On("ByID", s.ctx, stored.ID).Return(stored, nil).Once()

		session, err := s.usecase.Get(s.ctx, stored.ID)

		assert.NoError(t, err)
		assert.Equal(t, &stored, session)
	})

	t.Run("Should return nil for unknown id", func(t provider.T) {
		id := uuid.New()
		s.repo.On("ByID", s.ctx, id).Return(model.Session{}, ErrResourceNotFound).Once()

		session, err := s.usecase.Get(s.ctx, id)

		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("Should return nil for unknown code", func(t provider.T) {
		s.repo.On("LiveByCode", s.ctx, "999999").Return(model.Session{}, ErrResourceNotFound).Once()

		session, err := s.usecase.GetByCode(s.ctx, "999999")

		assert.NoError(t, err)
		assert.Nil(t, session)
	})
}

func (s *UsecaseSessionUnitSuite) TestUpdateGenre(t provider.T) {
	id := uuid.New()

	t.Run("Should accept repeated updates", func(t provider.T) {
		s.repo.On("SetGenre", s.ctx, id, 28).Return(nil).Twice()

		assert.NoError(t, s.usecase.UpdateGenre(s.ctx, id, 28))
		assert.NoError(t, s.usecase.UpdateGenre(s.ctx, id, 28))
	})

	t.Run("Should reject non-positive genre", func(t provider.T) {
		assert.ErrorIs(t, s.usecase.UpdateGenre(s.ctx, id, 0), ErrInvalidInput)
		assert.ErrorIs(t, s.usecase.UpdateGenre(s.ctx, id, -3), ErrInvalidInput)
	})

	t.Run("Should pass not found through", func(t provider.T) {
		s.repo.On("SetGenre", s.ctx, id, 35).Return(ErrResourceNotFound).Once()

		assert.ErrorIs(t, s.usecase.UpdateGenre(s.ctx, id, 35), ErrResourceNotFound)
	})

	t.Run("Should refuse to reactivate completed session", func(t provider.T) {
		s.repo.On("SetGenre", s.ctx, id, 18).Return(ErrStatusRegression).Once()

		assert.ErrorIs(t, s.usecase.UpdateGenre(s.ctx, id, 18), ErrStatusRegression)
	})

	t.Run("Should keep the last genre and stay active", func(t provider.T) {
		uc := New(newMemRepository())

		session, _, err := uc.Create(s.ctx, "Alice")
		assert.NoError(t, err)

		for _, genreID := range []int{28, 35} {
			assert.NoError(t, uc.UpdateGenre(s.ctx, session.ID, genreID))

			stored, err := uc.Get(s.ctx, session.ID)
			assert.NoError(t, err)
			if assert.NotNil(t, stored) {
				assert.Equal(t, model.StatusActive, stored.Status)
				if assert.NotNil(t, stored.GenreID) {
					assert.Equal(t, genreID, *stored.GenreID)
				}
			}
		}
	})
}

func (s *UsecaseSessionUnitSuite) TestIsParticipant(t provider.T) {
	owner, guest := uuid.New(), uuid.New()
	stored := model.Session{ID: uuid.New(), UserAID: owner, UserBID: &guest}

	t.Run("Should recognise both participants only", func(t provider.T) {
		s.repo.On("ByID", s.ctx, stored.ID).Return(stored, nil).Times(3)

		ok, err := s.usecase.IsParticipant(s.ctx, stored.ID, owner)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.usecase.IsParticipant(s.ctx, stored.ID, guest)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.usecase.IsParticipant(s.ctx, stored.ID, uuid.New())
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should treat unknown session as having no participants", func(t provider.T) {
		id := uuid.New()
		s.repo.On("ByID", s.ctx, id).Return(model.Session{}, ErrResourceNotFound).Once()

		ok, err := s.usecase.IsParticipant(s.ctx, id, owner)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func (s *UsecaseSessionUnitSuite) TestUsers(t provider.T) {
	t.Run("Should return nil user for unknown id", func(t provider.T) {
		id := uuid.New()
		s.repo.On("UserByID", s.ctx, id).Return(model.User{}, ErrResourceNotFound).Once()

		user, err := s.usecase.User(s.ctx, id)

		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Should list session users", func(t provider.T) {
		sessionID := uuid.New()
		users := []model.User{{ID: uuid.New(), Name: "Alice", SessionID: sessionID}}
		s.repo.On("UsersBySession", s.ctx, sessionID).Return(users, nil).Once()

		got, err := s.usecase.Users(s.ctx, sessionID)

		assert.NoError(t, err)
		assert.Equal(t, users, got)
	})
}

func (s *UsecaseSessionUnitSuite) TestConcurrentJoin(t provider.T) {
	t.Run("Should admit exactly one of two racing joiners", func(t provider.T) {
		repo := newMemRepository()
		uc := New(repo)

		session, _, err := uc.Create(s.ctx, "Alice")
		assert.NoError(t, err)

		const joiners = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			wins    int
			rejects int
		)
		for i := 0; i < joiners; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, err := uc.Join(context.Background(), session.Code, "guest-"+strconv.Itoa(i))

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, ErrSessionAlreadyFull):
					rejects++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, joiners-1, rejects)

		stored, err := uc.Get(s.ctx, session.ID)
		assert.NoError(t, err)
		if assert.NotNil(t, stored) && assert.NotNil(t, stored.UserBID) {
			assert.NotEqual(t, stored.UserAID, *stored.UserBID)
		}

		users, err := uc.Users(s.ctx, session.ID)
		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseSessionUnitSuite))
}

// memRepository mirrors the storage guarantees: live codes are unique and
// user_b_id is set at most once.
type memRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
	users    map[uuid.UUID]model.User
}

func newMemRepository() *memRepository {
	return &memRepository{
		sessions: make(map[uuid.UUID]model.Session),
		users:    make(map[uuid.UUID]model.User),
	}
}

func (r *memRepository) CreateWithOwner(_ context.Context, session model.Session, owner model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Code == session.Code && s.Status != model.StatusCompleted {
			return ErrCodeConflict
		}
	}
	r.sessions[session.ID] = session
	r.users[owner.ID] = owner
	return nil
}

func (r *memRepository) WaitingByCode(_ context.Context, code string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Code == code && s.Status == model.StatusWaiting {
			return s, nil
		}
	}
	return model.Session{}, ErrResourceNotFound
}

func (r *memRepository) Join(_ context.Context, sessionID uuid.UUID, guest model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.UserBID != nil || s.Status != model.StatusWaiting {
		return ErrSessionAlreadyFull
	}
	id := guest.ID
	s.UserBID = &id
	r.sessions[sessionID] = s
	r.users[guest.ID] = guest
	return nil
}

func (r *memRepository) ByID(_ context.Context, id uuid.UUID) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return model.Session{}, ErrResourceNotFound
	}
	return s, nil
}

func (r *memRepository) LiveByCode(_ context.Context, code string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Code == code && s.Status != model.StatusCompleted {
			return s, nil
		}
	}
	return model.Session{}, ErrResourceNotFound
}

func (r *memRepository) SetGenre(_ context.Context, id uuid.UUID, genreID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrResourceNotFound
	}
	if s.Status == model.StatusCompleted {
		return ErrStatusRegression
	}
	s.GenreID = &genreID
	s.Status = model.StatusActive
	r.sessions[id] = s
	return nil
}

func (r *memRepository) UserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, ErrResourceNotFound
	}
	return u, nil
}

func (r *memRepository) UsersBySession(_ context.Context, sessionID uuid.UUID) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.SessionID == sessionID {
			out = append(out, u)
		}
	}
	return out, nil
}
