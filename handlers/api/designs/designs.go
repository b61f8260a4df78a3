package designs

import (
	"encoding/json"
	"net/http"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/Khushitha-V/altarmaker/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// HandleGetDraft returns the caller's autosaved draft. A user who has
// never autosaved gets an empty room rather than an error, so the editor
// can always start from the response.
func HandleGetDraft(store core.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		draft, err := store.GetDraft(r.Context(), claims.Subject)
		if err != nil {
			if core.IsNotFound(err) {
				render.JSON(w, r, core.Draft{
					Dimensions: core.DefaultDimensions(),
					Walls:      core.EmptyWallDesigns(),
				})
				return
			}
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"userID": claims.Subject,
			}).Error("Failed to get draft")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to get wall designs"})
			return
		}

		render.JSON(w, r, draft)
	}
}

// HandleSaveDraft overwrites the caller's single draft slot.
func HandleSaveDraft(store core.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "User claims not found"})
			return
		}

		var draft core.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		defer r.Body.Close()

		draft.UserID = claims.Subject
		if err := store.SaveDraft(r.Context(), &draft); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"userID": claims.Subject,
			}).Error("Failed to save draft")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to save wall designs"})
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Wall designs saved successfully",
		})
	}
}
