package sessions

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/Khushitha-V/altarmaker/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// HandleList returns all sessions owned by the caller, without wall
// payloads.
func HandleList(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		sessions, err := store.List(r.Context(), claims.Subject)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"userID": claims.Subject,
			}).Error("Failed to list sessions")
			renderStoreError(w, r, err, "Failed to list sessions")
			return
		}

		if sessions == nil {
			sessions = []*core.Session{}
		}
		render.JSON(w, r, map[string]any{"sessions": sessions})
	}
}

// HandleCreate stores a new named session for the caller. A blank name is
// rejected, and a name already used by one of the caller's sessions is a
// conflict.
func HandleCreate(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		var sess core.Session
		if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		defer r.Body.Close()

		sess.Name = strings.TrimSpace(sess.Name)
		if sess.Name == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Session name is required"})
			return
		}

		existing, err := store.List(r.Context(), claims.Subject)
		if err != nil {
			logrus.WithField("error", err).Error("Failed to check for duplicate session name")
			renderStoreError(w, r, err, "Failed to save session")
			return
		}
		for _, other := range existing {
			if other.Name == sess.Name {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, map[string]string{"error": "A session with this name already exists"})
				return
			}
		}

		sess.UserID = claims.Subject
		if _, err := store.Create(r.Context(), &sess); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"userID": claims.Subject,
			}).Error("Failed to create session")
			renderStoreError(w, r, err, "Failed to save session")
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "Session saved successfully",
			"session": sess,
		})
	}
}

// HandleGet returns a full session by id.
func HandleGet(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		id := chi.URLParam(r, "id")
		sess, err := store.Get(r.Context(), claims.Subject, id)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"userID":     claims.Subject,
				"session_id": id,
			}).Warn("Failed to get session")
			renderStoreError(w, r, err, "Failed to get session")
			return
		}

		render.JSON(w, r, map[string]any{"session": sess})
	}
}

// HandleUpdate replaces a session's content, keeping its identity.
func HandleUpdate(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		var sess core.Session
		if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		defer r.Body.Close()

		sess.ID = chi.URLParam(r, "id")
		sess.UserID = claims.Subject

		if err := store.Update(r.Context(), &sess); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"userID":     claims.Subject,
				"session_id": sess.ID,
			}).Error("Failed to update session")
			renderStoreError(w, r, err, "Failed to update session")
			return
		}

		render.JSON(w, r, map[string]string{"message": "Session updated successfully"})
	}
}

// HandleDelete removes a session by id.
func HandleDelete(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), claims.Subject, id); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"userID":     claims.Subject,
				"session_id": id,
			}).Error("Failed to delete session")
			renderStoreError(w, r, err, "Failed to delete session")
			return
		}

		render.JSON(w, r, map[string]string{"message": "Session deleted successfully"})
	}
}

// renderStoreError maps a store error onto the wire, falling back to a
// generic 500 message that hides internals.
func renderStoreError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case core.IsNotFound(err):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	case core.IsConflict(err):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	case core.IsValidation(err):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": err.Error()})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": fallback})
	}
}
