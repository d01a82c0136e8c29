package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/tagstock/tagstock/internal/asset"
	"github.com/tagstock/tagstock/internal/auth"
	"github.com/tagstock/tagstock/internal/repo"
)

func ListAssetsHandler(w http.ResponseWriter, r *http.Request, svc *asset.Service) {
	// Grab user ID from the middleware context
	userID, ok := r.Context().Value("userID").(uint)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	summaries, err := svc.List(r.Context(), userID)
	if err != nil {
		log.Println("ERROR LIST: ", err)
		http.Error(w, "Error listing assets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"assets": summaries,
	})
}

func AssetDetailHandler(w http.ResponseWriter, r *http.Request, svc *asset.Service) {
	// Grab user ID from the middleware context
	userID, ok := r.Context().Value("userID").(uint)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "assetID")

	detail, err := svc.Detail(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, asset.ErrMissingID):
			http.Error(w, "Asset ID is required", http.StatusBadRequest)
		case errors.Is(err, repo.ErrNotFound):
			// Not owned and nonexistent look the same on purpose.
			http.Error(w, "Asset not found", http.StatusNotFound)
		default:
			log.Println("ERROR DETAIL: ", err)
			http.Error(w, "Error loading asset", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

func DeleteAssetHandler(w http.ResponseWriter, r *http.Request, svc *asset.Service) {
	// Grab user ID from the middleware context
	userID, ok := r.Context().Value("userID").(uint)
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "assetID")

	// ParseForm ignores the body on DELETE, so pull the form fields out
	// by hand.
	mainImage, err := deleteFormValue(r, "mainImage")
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	if mainImage == "" {
		http.Error(w, "mainImage is required", http.StatusBadRequest)
		return
	}

	if err := svc.Delete(r.Context(), userID, id, mainImage); err != nil {
		switch {
		case errors.Is(err, asset.ErrMissingID):
			http.Error(w, "Asset ID is required", http.StatusBadRequest)
		case errors.Is(err, repo.ErrNotFound):
			http.Error(w, "Asset not found", http.StatusNotFound)
		default:
			log.Println("ERROR DELETE: ", err)
			http.Error(w, "Error deleting asset", http.StatusInternalServerError)
		}
		return
	}

	// Hand the caller back a refreshed session cookie along with the
	// redirect to the listing.
	if err := auth.CommitSession(w, r); err != nil {
		log.Println("ERROR COMMIT SESSION: ", err)
	}
	http.Redirect(w, r, "/assets", http.StatusSeeOther)
}

func deleteFormValue(r *http.Request, field string) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	defer r.Body.Close()

	vals, err := url.ParseQuery(string(body))
	if err != nil {
		return "", err
	}
	return vals.Get(field), nil
}
