package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"palika_profile/middleware"
	"palika_profile/repository"
)

// Shared media upload for every registry entity: multipart form with a
// "file" part, optional "caption" and "primary" fields. The owning entity
// is verified to exist before the object is stored.

const maxMediaUploadBytes = 10 << 20 // 10 MiB

func uploadEntityMedia(w http.ResponseWriter, r *http.Request, resource string, exists func() error, media *repository.MediaRepo) {
	if !requireAuthz(w, r, middleware.ActionUpdate, resource) {
		return
	}
	if media == nil {
		respondError(w, CodeInternal, "media storage is not configured")
		return
	}

	if err := exists(); err != nil {
		respondRepoError(w, "UploadMedia["+resource+"]", err)
		return
	}

	if err := r.ParseMultipartForm(maxMediaUploadBytes); err != nil {
		respondError(w, CodeBadRequest, "malformed multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, CodeBadRequest, "file part is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	caption := r.FormValue("caption")
	isPrimary := r.FormValue("primary") == "true"

	item, err := media.Add(r.Context(), mux.Vars(r)["id"], file, contentType, caption, isPrimary)
	if err != nil {
		respondRepoError(w, "UploadMedia["+resource+"]", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": item.ID})
}
