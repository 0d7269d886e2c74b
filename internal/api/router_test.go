package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"casino-engine/internal/api"
	"casino-engine/internal/config"
	"casino-engine/internal/model"
	"casino-engine/internal/service"
	"casino-engine/internal/service/round"
	"casino-engine/internal/service/session"
	"casino-engine/internal/service/table"
	"casino-engine/internal/service/wallet"
	"casino-engine/pkg/logger"
	"casino-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type seededSource struct {
	r *mrand.Rand
}

func (s seededSource) Intn(n int) int { return s.r.Intn(n) }

var initOnce sync.Once

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	initOnce.Do(func() {
		logger.InitLogger("debug")
		gin.SetMode(gin.TestMode)
	})
	config.GlobalConfig = &config.Config{
		Session: config.SessionConfig{Secret: "test-secret", Expire: 1},
		Admin:   config.AdminConfig{APIToken: "admin-token"},
		Casino: config.CasinoConfig{
			StartingBalance: 1000,
			Tables: []config.TableLimitEntry{
				{Game: "blackjack", MinBet: 1, MaxBet: 500},
				{Game: "roulette", MinBet: 1, MaxBet: 500},
				{Game: "baccarat", MinBet: 1, MaxBet: 500},
			},
		},
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(&model.Player{}, &model.Wallet{}, &model.BetLog{}, &model.RoundLog{}, &model.TableLimit{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	wallets := wallet.NewService(db)
	tables := table.NewService(db)
	if err := tables.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults error: %v", err)
	}
	services := &service.Container{
		Session: session.NewService(db, wallets),
		Wallet:  wallets,
		Table:   tables,
		Round: round.NewService(db, wallets, tables, round.NewMemoryLocker(),
			seededSource{r: mrand.New(mrand.NewSource(5))}),
	}

	r := gin.New()
	api.RegisterRoutes(r, services)
	return r
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed response.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		parsed = response.Body{}
	}
	return rec, parsed
}

func openSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec, body := do(t, router, http.MethodPost, "/session", "", gin.H{"displayName": "tester"})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /session = %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("session payload = %v", body.Data)
	}
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("session response missing token")
	}
	return token
}

func TestSessionAndWallet(t *testing.T) {
	router := newRouter(t)
	token := openSession(t, router)

	rec, body := do(t, router, http.MethodGet, "/casino/v1/wallet", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /wallet = %d: %s", rec.Code, rec.Body.String())
	}
	data := body.Data.(map[string]interface{})
	if got := data["BalanceAvailable"].(float64); got != 1000 {
		t.Fatalf("balance = %v, want 1000", got)
	}
}

func TestSessionRequired(t *testing.T) {
	router := newRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/casino/v1/wallet", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", rec.Code)
	}
	rec, _ = do(t, router, http.MethodGet, "/casino/v1/wallet", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d, want 401", rec.Code)
	}
}

func TestRouletteOverHTTP(t *testing.T) {
	router := newRouter(t)
	token := openSession(t, router)

	rec, _ := do(t, router, http.MethodPost, "/casino/v1/roulette/bets", token,
		gin.H{"category": "red", "amount": 50})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST bets = %d: %s", rec.Code, rec.Body.String())
	}

	// Another game while a roulette round is open.
	rec, _ = do(t, router, http.MethodPost, "/casino/v1/blackjack/deal", token, gin.H{"bet": 10})
	if rec.Code != http.StatusConflict {
		t.Fatalf("cross-game deal = %d, want 409", rec.Code)
	}

	rec, body := do(t, router, http.MethodPost, "/casino/v1/roulette/spin", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST spin = %d: %s", rec.Code, rec.Body.String())
	}
	data := body.Data.(map[string]interface{})
	roulette := data["roulette"].(map[string]interface{})
	if roulette["phase"] != "settled" {
		t.Fatalf("phase = %v, want settled", roulette["phase"])
	}

	// The settled round is gone.
	rec, _ = do(t, router, http.MethodGet, "/casino/v1/round", token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("GET /round after settle = %d, want 409", rec.Code)
	}

	rec, _ = do(t, router, http.MethodGet, "/casino/v1/rounds/history?page=1&pageSize=10", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET history = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBadRequestsOverHTTP(t *testing.T) {
	router := newRouter(t)
	token := openSession(t, router)

	rec, _ := do(t, router, http.MethodPost, "/casino/v1/roulette/bets", token,
		gin.H{"category": "purple", "amount": 50})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad category = %d, want 400", rec.Code)
	}
	rec, _ = do(t, router, http.MethodPost, "/casino/v1/blackjack/deal", token, gin.H{"bet": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero bet = %d, want 400", rec.Code)
	}
	rec, _ = do(t, router, http.MethodPost, "/casino/v1/blackjack/deal", token, gin.H{"bet": 9999})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("over-limit bet = %d, want 400", rec.Code)
	}
	rec, _ = do(t, router, http.MethodPost, "/casino/v1/blackjack/hit", token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("hit without round = %d, want 409", rec.Code)
	}
}

func TestAdminTableLimits(t *testing.T) {
	router := newRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/admin/table_limits", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no admin token = %d, want 401", rec.Code)
	}
	rec, _ = do(t, router, http.MethodGet, "/admin/table_limits", "wrong", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong admin token = %d, want 401", rec.Code)
	}

	rec, body := do(t, router, http.MethodGet, "/admin/table_limits", "admin-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET table_limits = %d: %s", rec.Code, rec.Body.String())
	}
	if items, ok := body.Data.([]interface{}); !ok || len(items) != 3 {
		t.Fatalf("table limits = %v, want 3 entries", body.Data)
	}

	rec, _ = do(t, router, http.MethodPut, "/admin/table_limits/blackjack", "admin-token",
		gin.H{"minBet": 10, "maxBet": 100, "status": "disabled"})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT table_limits = %d: %s", rec.Code, rec.Body.String())
	}

	// A disabled table refuses new rounds.
	token := openSession(t, router)
	rec, _ = do(t, router, http.MethodPost, "/casino/v1/blackjack/deal", token, gin.H{"bet": 10})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("deal at disabled table = %d, want 403", rec.Code)
	}

	rec, _ = do(t, router, http.MethodPut, "/admin/table_limits/craps", "admin-token",
		gin.H{"minBet": 1, "maxBet": 100})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown game = %d, want 404", rec.Code)
	}
}

func TestPing(t *testing.T) {
	router := newRouter(t)
	rec, _ := do(t, router, http.MethodGet, "/ping", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /ping = %d", rec.Code)
	}
}
