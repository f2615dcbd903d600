package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ratehub/internal/auth"
	"ratehub/internal/domain/admindashboard"
	"ratehub/internal/domain/ratings"
	"ratehub/internal/domain/storage"
	"ratehub/internal/domain/stores"
	"ratehub/internal/domain/users"
	"ratehub/internal/ratelimiter"

	"go.uber.org/zap"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	return &application{
		config: config{
			addr:        ":0",
			env:         "test",
			frontendURL: "http://localhost:5173",
			auth: authConfig{
				basic: basicConfig{user: "admin", pass: "admin"},
				token: tokenConfig{secret: "test-secret", iss: "ratehub"},
			},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		store: &storage.Container{
			Users:          newFakeUserStore(),
			Stores:         newFakeStoreRepo(),
			Ratings:        newFakeRatingStore(),
			AdminDashboard: &fakeDashboardStore{},
		},
		logger:        zap.NewNop().Sugar(),
		mailer:        &fakeMailer{},
		authenticator: auth.NewJWTAuthenticator("test-secret", "ratehub", "ratehub"),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected response code %d, got %d", expected, actual)
	}
}

func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func bearerToken(t *testing.T, app *application, userID int64, role users.Role) string {
	t.Helper()
	token, err := app.authenticator.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // recipient emails in send order
}

func (m *fakeMailer) Send(templateFile, username, email string, data any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return 200, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*users.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]*users.User{}}
}

func (s *fakeUserStore) add(u *users.User) *users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.users[cp.ID] = &cp
	return u
}

func (s *fakeUserStore) Create(ctx context.Context, user *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return users.ErrDuplicateEmail
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.users[cp.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, userID int64) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s *fakeUserStore) Update(ctx context.Context, user *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return users.ErrNotFound
	}
	cp := *user
	cp.UpdatedAt = time.Now()
	s.users[cp.ID] = &cp
	return nil
}

func (s *fakeUserStore) UpdateResetToken(ctx context.Context, email, resetToken string, resetTokenExpires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u.ResetPasswordToken = resetToken
			u.ResetPasswordExpires = resetTokenExpires
			return nil
		}
	}
	return users.ErrNotFound
}

func (s *fakeUserStore) GetByResetToken(ctx context.Context, resetToken string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetPasswordToken != "" && u.ResetPasswordToken == resetToken {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

func (s *fakeUserStore) List(ctx context.Context, filters users.Filters, limit, offset int) ([]users.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]users.User, 0)
	for id := int64(1); id < s.nextID; id++ {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if filters.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(filters.Name)) {
			continue
		}
		if filters.Email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(filters.Email)) {
			continue
		}
		if filters.Role != "" && string(u.Role) != filters.Role {
			continue
		}
		matched = append(matched, *u)
	}

	total := len(matched)
	if offset >= total {
		return []users.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	nextID int64
	stores map[int64]*stores.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{nextID: 1, stores: map[int64]*stores.Store{}}
}

func (s *fakeStoreRepo) add(st *stores.Store) *stores.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.nextID
	s.nextID++
	cp := *st
	s.stores[cp.ID] = &cp
	return st
}

func (s *fakeStoreRepo) Create(ctx context.Context, store *stores.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	store.ID = s.nextID
	s.nextID++
	store.CreatedAt = time.Now()
	store.UpdatedAt = store.CreatedAt
	cp := *store
	s.stores[cp.ID] = &cp
	return nil
}

func (s *fakeStoreRepo) GetByID(ctx context.Context, storeID int64) (*stores.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[storeID]
	if !ok {
		return nil, stores.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *fakeStoreRepo) List(ctx context.Context, filters stores.Filters) ([]stores.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]stores.Store, 0)
	for id := int64(1); id < s.nextID; id++ {
		st, ok := s.stores[id]
		if !ok {
			continue
		}
		if filters.Name != "" && !strings.Contains(strings.ToLower(st.Name), strings.ToLower(filters.Name)) {
			continue
		}
		if filters.Email != "" && !strings.Contains(strings.ToLower(st.Email), strings.ToLower(filters.Email)) {
			continue
		}
		if filters.Address != "" && !strings.Contains(strings.ToLower(st.Address), strings.ToLower(filters.Address)) {
			continue
		}
		out = append(out, *st)
	}
	return out, nil
}

func (s *fakeStoreRepo) Update(ctx context.Context, store *stores.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[store.ID]; !ok {
		return stores.ErrNotFound
	}
	cp := *store
	cp.UpdatedAt = time.Now()
	s.stores[cp.ID] = &cp
	return nil
}

func (s *fakeStoreRepo) Delete(ctx context.Context, storeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[storeID]; !ok {
		return stores.ErrNotFound
	}
	delete(s.stores, storeID)
	return nil
}

type ratingKey struct {
	userID  int64
	storeID int64
}

// fakeRatingStore mirrors the upsert semantics of the SQL version: one
// row per (user, store), resubmission overwrites in place.
type fakeRatingStore struct {
	mu       sync.Mutex
	stores   map[int64]*stores.Store // known stores for FK checks
	owners   map[int64]int64         // storeID -> ownerID
	ratings  map[ratingKey]*ratings.Rating
	userName map[int64]string
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{
		stores:   map[int64]*stores.Store{},
		owners:   map[int64]int64{},
		ratings:  map[ratingKey]*ratings.Rating{},
		userName: map[int64]string{},
	}
}

func (s *fakeRatingStore) addStore(st *stores.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *st
	s.stores[cp.ID] = &cp
	if cp.OwnerID != nil {
		s.owners[cp.ID] = *cp.OwnerID
	}
}

func (s *fakeRatingStore) Upsert(ctx context.Context, rating *ratings.Rating) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[rating.StoreID]; !ok {
		return false, ratings.ErrStoreNotFound
	}

	key := ratingKey{userID: rating.UserID, storeID: rating.StoreID}
	now := time.Now()
	if existing, ok := s.ratings[key]; ok {
		existing.Rating = rating.Rating
		existing.UpdatedAt = now
		rating.CreatedAt = existing.CreatedAt
		rating.UpdatedAt = existing.UpdatedAt
		return false, nil
	}

	cp := *rating
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.ratings[key] = &cp
	rating.CreatedAt = now
	rating.UpdatedAt = now
	return true, nil
}

func (s *fakeRatingStore) GetStoreView(ctx context.Context, storeID, userID int64) (*ratings.StoreView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stores[storeID]
	if !ok {
		return nil, ratings.ErrStoreNotFound
	}

	view := &ratings.StoreView{
		ID:      st.ID,
		Name:    st.Name,
		Email:   st.Email,
		Address: st.Address,
		OwnerID: st.OwnerID,
	}

	var sum, count int
	for key, r := range s.ratings {
		if key.storeID != storeID {
			continue
		}
		sum += r.Rating
		count++
		if key.userID == userID {
			v := r.Rating
			view.UserRating = &v
		}
	}
	if count > 0 {
		view.AverageRating = roundOne(float64(sum) / float64(count))
	}
	return view, nil
}

func (s *fakeRatingStore) GetOwnerFeedback(ctx context.Context, ownerID int64) (*ratings.OwnerFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	feedback := &ratings.OwnerFeedback{Ratings: make([]ratings.OwnerRating, 0)}
	var sum, count int
	for key, r := range s.ratings {
		if s.owners[key.storeID] != ownerID {
			continue
		}
		st := s.stores[key.storeID]
		feedback.Ratings = append(feedback.Ratings, ratings.OwnerRating{
			StoreID:   key.storeID,
			StoreName: st.Name,
			UserName:  s.userName[key.userID],
			Rating:    r.Rating,
			UpdatedAt: r.UpdatedAt,
		})
		sum += r.Rating
		count++
	}
	if count > 0 {
		feedback.AverageRating = roundOne(float64(sum) / float64(count))
	}
	return feedback, nil
}

func roundOne(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}

type fakeDashboardStore struct {
	overview admindashboard.Overview
}

func (s *fakeDashboardStore) GetOverview(ctx context.Context) (*admindashboard.Overview, error) {
	cp := s.overview
	return &cp, nil
}
