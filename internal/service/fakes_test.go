package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

// memoryState is a tiny in-memory database. WithTx works on a copy and only
// swaps it in when the callback succeeds.
type memoryState struct {
	users      []domain.User
	otps       []domain.Otp
	tasks      map[int64]domain.Task
	nextUserID int64
	nextOtpID  int64
	nextTaskID int64
	otpErr     error
}

func newMemoryState() *memoryState {
	return &memoryState{tasks: map[int64]domain.Task{}}
}

func (s *memoryState) clone() *memoryState {
	c := *s
	c.users = append([]domain.User(nil), s.users...)
	c.otps = append([]domain.Otp(nil), s.otps...)
	c.tasks = make(map[int64]domain.Task, len(s.tasks))
	for id, t := range s.tasks {
		c.tasks[id] = t
	}
	return &c
}

func (s *memoryState) repositories() ports.Repositories {
	return ports.Repositories{
		Users: &memoryUserRepo{state: s},
		Otps:  &memoryOtpRepo{state: s},
		Tasks: &memoryTaskRepo{state: s},
	}
}

type memoryStore struct {
	state *memoryState
	txs   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: newMemoryState()}
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	m.txs++
	staged := m.state.clone()
	if err := fn(staged.repositories()); err != nil {
		return err
	}
	m.state = staged
	return nil
}

// users follows the committed state, like a pool-backed repository would.
func (m *memoryStore) users() ports.UserRepository {
	return &storeUserRepo{store: m}
}

type storeUserRepo struct{ store *memoryStore }

func (r *storeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return (&memoryUserRepo{state: r.store.state}).Create(ctx, u)
}

func (r *storeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return (&memoryUserRepo{state: r.store.state}).FindByEmail(ctx, email)
}

func (r *storeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return (&memoryUserRepo{state: r.store.state}).FindByID(ctx, id)
}

type memoryUserRepo struct{ state *memoryState }

func (r *memoryUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.state.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("insert user: %w", ports.ErrDuplicate)
		}
	}
	r.state.nextUserID++
	created := *u
	created.ID = r.state.nextUserID
	r.state.users = append(r.state.users, created)
	return &created, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.state.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *memoryUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.state.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ports.ErrNotFound
}

type memoryOtpRepo struct{ state *memoryState }

func (r *memoryOtpRepo) Create(_ context.Context, userID int64, code string) (*domain.Otp, error) {
	if r.state.otpErr != nil {
		return nil, r.state.otpErr
	}
	r.state.nextOtpID++
	otp := domain.Otp{ID: r.state.nextOtpID, UserID: userID, OTPCode: code}
	r.state.otps = append(r.state.otps, otp)
	return &otp, nil
}

func (r *memoryOtpRepo) ListByUser(_ context.Context, userID int64) ([]domain.Otp, error) {
	var out []domain.Otp
	for _, o := range r.state.otps {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memoryTaskRepo struct{ state *memoryState }

func (r *memoryTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.state.nextTaskID++
	created := *t
	created.ID = r.state.nextTaskID
	r.state.tasks[created.ID] = created
	return &created, nil
}

func (r *memoryTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(r.state.tasks))
	for _, t := range r.state.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.state.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &t, nil
}

func (r *memoryTaskRepo) Update(_ context.Context, t *domain.Task) (*domain.Task, error) {
	if _, ok := r.state.tasks[t.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.state.tasks[t.ID] = *t
	updated := *t
	return &updated, nil
}

func (r *memoryTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.state.tasks[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.state.tasks, id)
	return nil
}

type otpCall struct {
	to   string
	code string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []otpCall
	err   error
	panic bool
}

func (n *recordingNotifier) SendOTP(_ context.Context, to, code string) error {
	n.mu.Lock()
	n.calls = append(n.calls, otpCall{to: to, code: code})
	n.mu.Unlock()
	if n.panic {
		panic("smtp exploded")
	}
	return n.err
}

func (n *recordingNotifier) snapshot() []otpCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]otpCall(nil), n.calls...)
}

// blockingNotifier waits for its context, the way a hung relay would.
type blockingNotifier struct {
	err chan error
}

func (n *blockingNotifier) SendOTP(ctx context.Context, _, _ string) error {
	<-ctx.Done()
	n.err <- ctx.Err()
	return ctx.Err()
}
