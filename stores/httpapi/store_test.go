package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Khushitha-V/altarmaker/core"
)

func staticToken(token string) TokenFunc {
	return func(ctx context.Context) (string, error) { return token, nil }
}

func TestListHitsSessionsEndpointWithBearer(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"sessions": []map[string]any{{"id": "s-1", "session_name": "Diwali Altar", "room_type": "Pooja"}},
		})
	}))
	defer srv.Close()

	s := NewStore(srv.URL, staticToken("tok-123"))
	sessions, err := s.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if gotPath != "/api/sessions" {
		t.Errorf("List() hit %q", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("List() sent Authorization %q", gotAuth)
	}
	if len(sessions) != 1 || sessions[0].Name != "Diwali Altar" {
		t.Errorf("List() decoded %+v", sessions)
	}
}

func TestListNullSessionsDecodesAsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sessions": null}`))
	}))
	defer srv.Close()

	s := NewStore(srv.URL, staticToken("t"))
	sessions, err := s.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Errorf("List() returned %v, want an empty slice", sessions)
	}
}

func TestCreateAdoptsServerIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions" {
			t.Errorf("create sent %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["session_name"] != "Diwali Altar" {
			t.Errorf("create payload name %v", payload["session_name"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Session created successfully",
			"session": map[string]any{"id": "srv-9", "session_name": "Diwali Altar"},
		})
	}))
	defer srv.Close()

	s := NewStore(srv.URL, staticToken("t"))
	sess := &core.Session{Name: "Diwali Altar", Walls: core.EmptyWallDesigns()}
	id, err := s.Create(context.Background(), sess)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if id != "srv-9" || sess.ID != "srv-9" {
		t.Errorf("Create() adopted id %q, session carries %q", id, sess.ID)
	}
}

func TestUpdateAndDeleteAddressTheSession(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		w.Write([]byte(`{"message": "ok"}`))
	}))
	defer srv.Close()

	s := NewStore(srv.URL, staticToken("t"))
	ctx := context.Background()

	if err := s.Update(ctx, &core.Session{ID: "s-7", Name: "x"}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if err := s.Delete(ctx, "user-1", "s-7"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	want := []call{
		{http.MethodPut, "/api/sessions/s-7"},
		{http.MethodDelete, "/api/sessions/s-7"},
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("call %d was %v, want %v", i, calls[i], w)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": "token expired"}`, core.IsUnauthorized},
		{"unauthorized without body", http.StatusUnauthorized, ``, core.IsUnauthorized},
		{"not found", http.StatusNotFound, `{"error": "Session not found"}`, core.IsNotFound},
		{"conflict", http.StatusConflict, `{"error": "A session with this name already exists"}`, core.IsConflict},
		{"bad request", http.StatusBadRequest, `{"error": "Session name is required"}`, core.IsValidation},
		{"structured server error", http.StatusInternalServerError, `{"error": "database unavailable"}`, func(err error) bool {
			var e *core.ServerError
			return errors.As(err, &e) && e.Message == "database unavailable"
		}},
		{"unstructured failure", http.StatusBadGateway, `<html>bad gateway</html>`, func(err error) bool {
			var e *core.NetworkError
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewStore(srv.URL, staticToken("t"))
			_, err := s.List(context.Background(), "user-1")
			if err == nil {
				t.Fatal("List() against a failing server succeeded")
			}
			if !tt.check(err) {
				t.Errorf("status %d mapped to %T: %v", tt.status, err, err)
			}
		})
	}
}

func TestServerMessageCarriedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "A session with this name already exists"}`))
	}))
	defer srv.Close()

	s := NewStore(srv.URL, staticToken("t"))
	_, err := s.Create(context.Background(), &core.Session{Name: "dup"})

	var conflict *core.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Create() returned %T, want ConflictError", err)
	}
	if conflict.Message != "A session with this name already exists" {
		t.Errorf("server message mangled: %q", conflict.Message)
	}
}

func TestTokenFailureShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewStore(srv.URL, func(ctx context.Context) (string, error) {
		return "", errors.New("keychain locked")
	})
	_, err := s.List(context.Background(), "user-1")
	if !core.IsUnauthorized(err) {
		t.Fatalf("List() returned %v, want UnauthorizedError", err)
	}
	if called {
		t.Error("token failure still reached the network")
	}
}

func TestConnectionFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	s := NewStore(srv.URL, staticToken("t"))
	_, err := s.List(context.Background(), "user-1")

	var netErr *core.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("List() against a dead server returned %T: %v", err, err)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	var savedBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/designs/wall-designs" {
			t.Errorf("draft call hit %q", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"roomType": "Pooja", "selectedWall": "front", "wallDesigns": {"front": {"elements": [], "wallpaper": null}}}`))
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&savedBody)
			w.Write([]byte(`{"success": true, "message": "Wall designs saved successfully"}`))
		}
	}))
	defer srv.Close()

	s := NewStore(srv.URL, staticToken("t"))
	ctx := context.Background()

	draft, err := s.GetDraft(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetDraft() failed: %v", err)
	}
	if draft.RoomType != "Pooja" || draft.SelectedWall != core.WallFront {
		t.Errorf("GetDraft() decoded %q/%q", draft.RoomType, draft.SelectedWall)
	}
	if draft.UserID != "user-1" {
		t.Errorf("GetDraft() returned user %q", draft.UserID)
	}

	if err := s.SaveDraft(ctx, &core.Draft{RoomType: "Meditation", Walls: core.EmptyWallDesigns()}); err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}
	if savedBody["roomType"] != "Meditation" {
		t.Errorf("SaveDraft() sent roomType %v", savedBody["roomType"])
	}
}
