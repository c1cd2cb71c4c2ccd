package handler_test

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarmin881340/taka-portal/internal/config"
	"github.com/sarmin881340/taka-portal/internal/handler"
	"github.com/sarmin881340/taka-portal/internal/model"
	"github.com/sarmin881340/taka-portal/internal/render"
	"github.com/sarmin881340/taka-portal/internal/repository"
	"github.com/sarmin881340/taka-portal/internal/router"
	"github.com/sarmin881340/taka-portal/internal/session"
	"github.com/sarmin881340/taka-portal/internal/utils"
)

// In-memory fakes behind the handler store interfaces.  They implement only
// bookkeeping; the guarded transitions they rely on come from the model so
// the handlers are exercised against the real rules.

type fakeUserStore struct {
	mu      sync.Mutex
	seq     uint64
	users   map[uint64]*model.User
	deleted []uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, name, phone, email, password string, cost int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	s.seq++
	u := &model.User{
		ID:           s.seq,
		MemberID:     utils.NewMemberID(s.seq, time.Now().UTC()),
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return *u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByMemberID(_ context.Context, memberID string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	memberID = strings.TrimSpace(memberID)
	for _, u := range s.users {
		if u.MemberID == memberID {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) ListAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeUserStore) DeleteCascade(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeUserStore) credit(id uint64, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Balance += amount
	}
}

func (s *fakeUserStore) balance(id uint64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u.Balance
	}
	return 0
}

type fakePaymentStore struct {
	mu       sync.Mutex
	seq      uint64
	payments map[uint64]*model.Payment
	users    *fakeUserStore
}

func newFakePaymentStore(users *fakeUserStore) *fakePaymentStore {
	return &fakePaymentStore{payments: map[uint64]*model.Payment{}, users: users}
}

func (s *fakePaymentStore) Create(_ context.Context, userID uint64, senderNumber string, amount int64) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p := &model.Payment{
		ID:            s.seq,
		UserID:        userID,
		SenderNumber:  senderNumber,
		Amount:        amount,
		ReceiveNumber: model.ReceiveNumber,
		Status:        model.PaymentPending,
		SubmittedAt:   time.Now().UTC(),
	}
	s.payments[p.ID] = p
	return *p, nil
}

func (s *fakePaymentStore) GetByID(_ context.Context, id uint64) (model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[id]; ok {
		return *p, nil
	}
	return model.Payment{}, repository.ErrNotFound
}

func (s *fakePaymentStore) ListByUser(_ context.Context, userID uint64) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePaymentStore) ListAll(_ context.Context) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	for _, p := range s.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakePaymentStore) Approve(_ context.Context, paymentID, adminID uint64) error {
	s.mu.Lock()
	p, ok := s.payments[paymentID]
	if !ok {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	if err := p.Review(model.PaymentApproved, adminID, time.Now().UTC()); err != nil {
		s.mu.Unlock()
		return err
	}
	userID, amount := p.UserID, p.Amount
	s.mu.Unlock()
	s.users.credit(userID, amount)
	return nil
}

func (s *fakePaymentStore) Reject(_ context.Context, paymentID, adminID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return repository.ErrNotFound
	}
	return p.Review(model.PaymentRejected, adminID, time.Now().UTC())
}

type fakeReviewStore struct {
	mu      sync.Mutex
	seq     uint64
	reviews []model.Review
}

func (s *fakeReviewStore) Create(_ context.Context, userID uint64, returnNumber, message string, screenshot *string) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	r := model.Review{
		ID:           s.seq,
		UserID:       userID,
		ReturnNumber: returnNumber,
		Message:      message,
		Screenshot:   screenshot,
		Status:       model.ReviewPending,
		SubmittedAt:  time.Now().UTC(),
	}
	s.reviews = append(s.reviews, r)
	return r, nil
}

func (s *fakeReviewStore) ListAll(_ context.Context) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Review(nil), s.reviews...), nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	seq      uint64
	messages []model.Message
}

func (s *fakeMessageStore) Create(_ context.Context, senderID, receiverID uint64, body string) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	m := model.Message{
		ID:         s.seq,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		SentAt:     time.Now().UTC(),
	}
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *fakeMessageStore) Conversation(_ context.Context, a, b uint64) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (s *fakeMessageStore) ListAll(_ context.Context) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...), nil
}

type fakeAdminStore struct {
	admins map[uint64]model.Admin
}

func newFakeAdminStore(t *testing.T, email, password string) *fakeAdminStore {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &fakeAdminStore{admins: map[uint64]model.Admin{
		1: {ID: 1, Email: email, PasswordHash: hash, Name: "Admin"},
	}}
}

func (s *fakeAdminStore) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	for _, a := range s.admins {
		if a.Email == strings.ToLower(strings.TrimSpace(email)) {
			return a, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *fakeAdminStore) GetByID(_ context.Context, id uint64) (model.Admin, error) {
	if a, ok := s.admins[id]; ok {
		return a, nil
	}
	return model.Admin{}, repository.ErrNotFound
}

type fakeShots struct {
	saved []string
}

func (s *fakeShots) SaveScreenshot(fh *multipart.FileHeader) (string, error) {
	name := "stored-" + fh.Filename
	s.saved = append(s.saved, name)
	return name, nil
}

// testApp wires the real routers, middleware and renderer over the fakes.
type testApp struct {
	e        *echo.Echo
	users    *fakeUserStore
	payments *fakePaymentStore
	reviews  *fakeReviewStore
	messages *fakeMessageStore
	admins   *fakeAdminStore
	shots    *fakeShots
	adminH   *handler.AdminHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := newFakeUserStore()
	payments := newFakePaymentStore(users)
	reviews := &fakeReviewStore{}
	messages := &fakeMessageStore{}
	admins := newFakeAdminStore(t, "admin@example.com", "admin123")
	shots := &fakeShots{}

	sessRepo := repository.NewSessionRepo(nil, time.Hour)
	userMgr := session.NewUserManager("test-secret", time.Hour, sessRepo)
	adminMgr := session.NewAdminManager("test-secret", time.Hour, sessRepo)

	authH := handler.NewAuthHandler(users, userMgr, bcrypt.MinCost)
	memberH := handler.NewMemberHandler(payments, reviews, shots)
	msgH := handler.NewMessageHandler(users, messages)
	adminH := handler.NewAdminHandler(admins, users, payments, reviews, messages, adminMgr)
	adminH.Publish = nil // tests install their own publisher when they care

	e := echo.New()
	e.Renderer = render.New()
	router.RegisterPublic(e, authH, adminH, config.RateLimitConfig{}, nil, t.TempDir())
	router.RegisterMember(e, memberH, msgH, authH, userMgr, users)
	router.RegisterAdmin(e, adminH, adminMgr, admins)

	return &testApp{
		e:        e,
		users:    users,
		payments: payments,
		reviews:  reviews,
		messages: messages,
		admins:   admins,
		shots:    shots,
		adminH:   adminH,
	}
}

func (a *testApp) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// register creates a member through the real endpoint.
func (a *testApp) register(t *testing.T, name, email, password string) model.User {
	t.Helper()
	rec := a.do(http.MethodPost, "/register", url.Values{
		"name":     {name},
		"phone":    {"01700000000"},
		"email":    {email},
		"password": {password},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	u, err := a.users.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

// login authenticates through the real endpoint and returns the session
// cookie.
func (a *testApp) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login %s: status %d", email, rec.Code)
	}
	return findCookie(t, rec, session.UserCookie)
}

// adminLogin authenticates on the admin track.
func (a *testApp) adminLogin(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/admin_login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"admin123"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("admin login: status %d", rec.Code)
	}
	return findCookie(t, rec, session.AdminCookie)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return nil
}
