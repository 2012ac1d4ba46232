package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/emreacar/kafepos/internal/domain/models"
	"github.com/emreacar/kafepos/internal/server/handlers"
	"github.com/emreacar/kafepos/internal/state"
	"github.com/emreacar/kafepos/pkg/clients/supabase"
)

type fakeGate struct {
	authed     bool
	session    *supabase.Session
	refreshErr error
	refreshed  bool
}

func (f *fakeGate) Authenticated() bool        { return f.authed }
func (f *fakeGate) Session() *supabase.Session { return f.session }

func (f *fakeGate) Refresh(_ context.Context) (supabase.Session, error) {
	f.refreshed = true
	if f.refreshErr != nil {
		return supabase.Session{}, f.refreshErr
	}
	return supabase.Session{AccessToken: "fresh"}, nil
}

type fakeAuth struct{}

func (fakeAuth) SignIn(_ context.Context, email, _ string) (supabase.Session, error) {
	return supabase.Session{Email: email}, nil
}

func (fakeAuth) SignOut(_ context.Context) error { return nil }

type fakeMutator struct{}

func (fakeMutator) ApplyDelta(_ context.Context, _ int64, _ int) error { return nil }

type fakeStats struct{}

func (fakeStats) ComputePeriod(_ context.Context, _ models.Period) (models.PeriodStats, error) {
	return models.PeriodStats{}, nil
}

type fakeExpenses struct{}

func (fakeExpenses) CreateExpense(_ context.Context, name string, amount decimal.Decimal) (models.Expense, error) {
	return models.Expense{ID: 1, Name: name, Amount: amount}, nil
}

func testEngine(gate SessionGate) http.Handler {
	products := state.NewCollection()
	products.Replace([]models.Product{{ID: 1, Name: "Latte", Category: "Kahve", Stock: 5, Active: true}})

	auth := handlers.NewAuthHandler(fakeAuth{}, nil)
	menu := handlers.NewMenuHandler(products)
	panel := handlers.NewPanelHandler(products, fakeMutator{}, fakeStats{}, nil)
	reports := handlers.NewReportsHandler(fakeStats{}, fakeExpenses{}, nil)

	return New(gate, auth, menu, panel, reports, nil)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestOpenRoutes(t *testing.T) {
	h := testEngine(&fakeGate{})

	if w := get(h, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}
	if w := get(h, "/api/menu"); w.Code != http.StatusOK {
		t.Fatalf("menu must not require a session, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := testEngine(&fakeGate{})

	for _, path := range []string{"/api/panel", "/api/reports"} {
		w := get(h, path)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s = %d, want 401", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "/login") {
			t.Fatalf("%s must point back to the login surface: %s", path, w.Body.String())
		}
	}
}

func TestProtectedRoutesPassWhenAuthenticated(t *testing.T) {
	h := testEngine(&fakeGate{authed: true})

	if w := get(h, "/api/panel"); w.Code != http.StatusOK {
		t.Fatalf("panel = %d, want 200", w.Code)
	}
	if w := get(h, "/api/reports"); w.Code != http.StatusOK {
		t.Fatalf("reports = %d, want 200", w.Code)
	}
}

func TestExpiredSessionGetsOneRefresh(t *testing.T) {
	gate := &fakeGate{session: &supabase.Session{RefreshToken: "refresh-1"}}
	h := testEngine(gate)

	if w := get(h, "/api/panel"); w.Code != http.StatusOK {
		t.Fatalf("a refreshable session must pass, got %d", w.Code)
	}
	if !gate.refreshed {
		t.Fatalf("refresh was never attempted")
	}
}

func TestFailedRefreshRejects(t *testing.T) {
	gate := &fakeGate{
		session:    &supabase.Session{RefreshToken: "refresh-1"},
		refreshErr: errors.New("refresh token revoked"),
	}
	h := testEngine(gate)

	if w := get(h, "/api/panel"); w.Code != http.StatusUnauthorized {
		t.Fatalf("a failed refresh must reject, got %d", w.Code)
	}
}
