package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
)

// TokenFunc supplies the ambient bearer token for each request. Returning
// an error marks the call unauthorized without touching the network.
type TokenFunc func(ctx context.Context) (string, error)

// Store is the remote session repository client: an implementation of
// SessionStore and DraftStore over the service's REST API. The owning
// user is implied by the bearer token, so the userID arguments carried by
// the interfaces are not sent on the wire.
type Store struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
}

// NewStore creates a client against baseURL, e.g. "https://altars.example.com".
func NewStore(baseURL string, token TokenFunc) *Store {
	return &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
}

type (
	listResponse struct {
		Sessions []*core.Session `json:"sessions"`
	}

	sessionResponse struct {
		Session *core.Session `json:"session"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Store) List(ctx context.Context, userID string) ([]*core.Session, error) {
	var out listResponse
	if err := s.do(ctx, http.MethodGet, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	if out.Sessions == nil {
		out.Sessions = []*core.Session{}
	}
	return out.Sessions, nil
}

func (s *Store) Get(ctx context.Context, userID, id string) (*core.Session, error) {
	var out sessionResponse
	if err := s.do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &out); err != nil {
		return nil, err
	}
	if out.Session == nil {
		return nil, &core.NetworkError{Err: fmt.Errorf("malformed session response")}
	}
	return out.Session, nil
}

func (s *Store) Create(ctx context.Context, session *core.Session) (string, error) {
	var out sessionResponse
	if err := s.do(ctx, http.MethodPost, "/api/sessions", session, &out); err != nil {
		return "", err
	}
	if out.Session == nil || out.Session.ID == "" {
		return "", &core.NetworkError{Err: fmt.Errorf("create response carried no session id")}
	}
	session.ID = out.Session.ID
	session.CreatedAt = out.Session.CreatedAt
	session.UpdatedAt = out.Session.UpdatedAt
	return out.Session.ID, nil
}

func (s *Store) Update(ctx context.Context, session *core.Session) error {
	return s.do(ctx, http.MethodPut, "/api/sessions/"+session.ID, session, nil)
}

func (s *Store) Delete(ctx context.Context, userID, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

func (s *Store) GetDraft(ctx context.Context, userID string) (*core.Draft, error) {
	var out core.Draft
	if err := s.do(ctx, http.MethodGet, "/api/designs/wall-designs", nil, &out); err != nil {
		return nil, err
	}
	out.UserID = userID
	return &out, nil
}

func (s *Store) SaveDraft(ctx context.Context, draft *core.Draft) error {
	return s.do(ctx, http.MethodPost, "/api/designs/wall-designs", draft, nil)
}

// do runs one API call: marshal the payload, attach the bearer token,
// decode a 2xx body into out, and translate every failure into the error
// taxonomy.
func (s *Store) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return &core.NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if s.token != nil {
		token, err := s.token(ctx)
		if err != nil {
			return &core.UnauthorizedError{Message: fmt.Sprintf("no auth token: %v", err)}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &core.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &core.NetworkError{Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// decodeError maps a non-2xx response onto the error taxonomy. A
// structured {"error": ...} body becomes the status-appropriate typed
// error with the server message carried verbatim; anything else is a
// NetworkError.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload errorResponse
	hasMessage := json.Unmarshal(body, &payload) == nil && payload.Error != ""

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		msg := payload.Error
		if msg == "" {
			msg = "authentication required"
		}
		return &core.UnauthorizedError{Message: msg}
	case http.StatusNotFound:
		if hasMessage {
			return &core.NotFoundError{Message: payload.Error}
		}
		return &core.NotFoundError{Message: "session not found"}
	case http.StatusConflict:
		if hasMessage {
			return &core.ConflictError{Message: payload.Error}
		}
		return &core.ConflictError{Message: "resource already exists"}
	case http.StatusBadRequest:
		if hasMessage {
			return &core.ValidationError{Message: payload.Error}
		}
	}

	if hasMessage {
		return &core.ServerError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &core.NetworkError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
}
