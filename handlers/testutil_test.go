package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/dgrijalva/jwt-go"
	cont "github.com/gorilla/context"

	"github.com/fintrackhq/fintrack-backend/config"
	"github.com/fintrackhq/fintrack-backend/middleware"
	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/store"
)

// fakeStore is an in-memory Store that mirrors the Mongo implementation's
// semantics, including the ownership predicate on every path.
type fakeStore struct {
	mu           sync.Mutex
	transactions map[string]models.Transaction
	users        map[string]models.User
	userIDByMail map[string]string
	codes        map[string]models.LoginCode
	nextUserID   int

	failInserts bool
	failQueries bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[string]models.Transaction),
		users:        make(map[string]models.User),
		userIDByMail: make(map[string]string),
		codes:        make(map[string]models.LoginCode),
	}
}

var errFake = errors.New("store unavailable")

func (f *fakeStore) InsertTransaction(_ context.Context, tx models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInserts {
		return errFake
	}
	if !store.CanAccess(tx.UserID, tx, store.OpCreate) {
		return store.ErrNotFound
	}

	f.transactions[tx.ID] = tx
	return nil
}

func (f *fakeStore) ListTransactions(_ context.Context, userID string, opts store.ListOptions) ([]models.Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failQueries {
		return nil, 0, errFake
	}

	var txs []models.Transaction
	for _, tx := range f.transactions {
		if store.CanAccess(userID, tx, store.OpView) {
			txs = append(txs, tx)
		}
	}

	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

	count := int64(len(txs))
	if opts.Limit > 0 {
		start := opts.Page * opts.Limit
		if start > count {
			start = count
		}
		end := start + opts.Limit
		if end > count {
			end = count
		}
		txs = txs[start:end]
	}

	return txs, count, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx, ok := f.transactions[id]
	if !ok || !store.CanAccess(userID, tx, store.OpDelete) {
		return store.ErrNotFound
	}

	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) SummarizeTransactions(_ context.Context, userID string) (models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failQueries {
		return models.Summary{}, errFake
	}

	summary := models.Summary{ExpensesByCategory: make(map[string]float64)}
	for _, tx := range f.transactions {
		if !store.CanAccess(userID, tx, store.OpView) {
			continue
		}
		switch tx.Type {
		case models.Income:
			summary.TotalIncome += tx.Amount
		case models.Expense:
			summary.TotalExpense += tx.Amount
			summary.ExpensesByCategory[tx.Category] += tx.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	return summary, nil
}

func (f *fakeStore) UpsertUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id, ok := f.userIDByMail[email]; ok {
		return f.users[id], nil
	}

	f.nextUserID++
	user := models.User{ID: fmt.Sprintf("u%d", f.nextUserID), Email: email}
	f.users[user.ID] = user
	f.userIDByMail[email] = user.ID
	return user, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) SetPlaidAccessToken(_ context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.PlaidAccessToken = token
	f.users[userID] = user
	return nil
}

func (f *fakeStore) SaveLoginCode(_ context.Context, code models.LoginCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[code.Email] = code
	return nil
}

func (f *fakeStore) GetLoginCode(_ context.Context, email string) (models.LoginCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	code, ok := f.codes[email]
	if !ok {
		return models.LoginCode{}, store.ErrNotFound
	}
	return code, nil
}

func (f *fakeStore) DeleteLoginCode(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.codes, email)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:      "5001",
		MongoURI:  "mongodb://localhost",
		SecretKey: "test-secret",
		APIKey:    "test-key",
		DevMode:   true,
	}
}

func newTestHandler(s store.Store) *Handler {
	return New(s, testConfig(), nil)
}

// withSession attaches verified session claims the way the authentication
// middleware would.
func withSession(r *http.Request, userID string) *http.Request {
	cont.Set(r, middleware.UserContextKey, jwt.MapClaims{"user_id": userID})
	return r
}

func doRequest(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}
