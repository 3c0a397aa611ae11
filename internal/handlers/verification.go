package handlers

import (
	"log"
	"net/http"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
)

// UploadVerificationDocument accepts a student ID document as multipart
// form-data (field "document"), stores it in Cloudinary, and attaches the
// URL to the student profile for later audits.
func (h *Handler) UploadVerificationDocument(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	if user.Kind != models.AccountStudent {
		http.Error(w, "Only student accounts can upload verification documents", http.StatusForbidden)
		return
	}

	if h.Uploads == nil {
		http.Error(w, "File upload service not available", http.StatusServiceUnavailable)
		return
	}

	// 10MB cap for a single ID document.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers, exists := r.MultipartForm.File["document"]
	if !exists || len(headers) == 0 {
		http.Error(w, "A document file is required", http.StatusBadRequest)
		return
	}

	url, err := h.Uploads.UploadFileFromHeader(r.Context(), headers[0], services.VerificationFolder)
	if err != nil {
		log.Printf("ERROR: verification document upload failed for %s: %v", user.ID, err)
		http.Error(w, "Failed to upload document", http.StatusInternalServerError)
		return
	}

	if err := h.Users.AttachVerificationDocument(r.Context(), user.ID, url); err != nil {
		log.Printf("ERROR: failed to attach verification document for %s: %v", user.ID, err)
		http.Error(w, "Failed to save document reference", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		DocumentURL string `json:"document_url"`
	}{
		Success:     true,
		Message:     "Verification document uploaded",
		DocumentURL: url,
	})
}
