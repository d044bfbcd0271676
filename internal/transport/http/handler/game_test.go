package handler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mafia-game/mafia-backend/internal/domain"
	"github.com/mafia-game/mafia-backend/internal/transport/http/handler"
)

// newGameRouter injects a current user the way LoadUser would.
func newGameRouter(user *domain.User) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := handler.NewGameHandler(logger)

	r := gin.New()
	setUser := func(c *gin.Context) {
		if user != nil {
			c.Set("currentUser", user)
		}
		c.Next()
	}
	r.POST("/actions/vote", setUser, h.Vote)
	r.POST("/actions/night/mafia-kill", setUser, h.MafiaKill)
	r.GET("/catalog/roles", h.Roles)
	return r
}

var gameUser = &domain.User{ID: 1, Username: "alice", Email: "a@x.com", IsActive: true, IsVerified: true}

func TestVote_EchoesActorAndTarget(t *testing.T) {
	w := doJSON(newGameRouter(gameUser), http.MethodPost, "/actions/vote",
		`{"target_player_id":7}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status   string `json:"status"`
		Actor    string `json:"actor"`
		VotedFor int64  `json:"voted_for"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Status != "ok" || resp.Actor != "alice" || resp.VotedFor != 7 {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestMafiaKill_EchoesActorAndTarget(t *testing.T) {
	w := doJSON(newGameRouter(gameUser), http.MethodPost, "/actions/night/mafia-kill",
		`{"target_player_id":3}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status           string `json:"status"`
		Actor            string `json:"actor"`
		TargetEliminated int64  `json:"target_eliminated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Status != "ok" || resp.Actor != "alice" || resp.TargetEliminated != 3 {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestVote_NoCurrentUser_Returns401(t *testing.T) {
	w := doJSON(newGameRouter(nil), http.MethodPost, "/actions/vote",
		`{"target_player_id":7}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestVote_BadPayload_Returns400(t *testing.T) {
	w := doJSON(newGameRouter(gameUser), http.MethodPost, "/actions/vote", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRoles_ReturnsStaticCatalog(t *testing.T) {
	w := doJSON(newGameRouter(nil), http.MethodGet, "/catalog/roles", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var roles []domain.Role
	if err := json.Unmarshal(w.Body.Bytes(), &roles); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(roles) != 4 {
		t.Fatalf("got %d roles, want 4", len(roles))
	}
	if roles[0].ID != "villager" || roles[1].Alignment != "mafia" {
		t.Errorf("unexpected catalog: %+v", roles)
	}
}
