package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"obmenBack/internal/models"
	"obmenBack/internal/services"
	"obmenBack/utils"
)

type AdHandler struct {
	Service    *services.AdService
	SigningKey string
}

func (h *AdHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	var ad models.Ad
	if err := json.NewDecoder(r.Body).Decode(&ad); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateAd(r.Context(), actorID(r), ad)
	if err != nil {
		writeAdError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *AdHandler) GetAdByID(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ad ID", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ad ID", http.StatusBadRequest)
		return
	}

	ad, err := h.Service.GetAdByID(r.Context(), id)
	if err != nil {
		writeAdError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ad)
}

// GetAds lists other users' ads. Anonymous viewers see the full set, an
// authenticated viewer's own ads are excluded.
func (h *AdHandler) GetAds(w http.ResponseWriter, r *http.Request) {
	userID := optionalActorID(r, h.SigningKey)

	ads, err := h.Service.GetOtherAds(r.Context(), userID)
	if err != nil {
		log.Printf("GetAds error: %v", err)
		http.Error(w, "Failed to list ads", http.StatusInternalServerError)
		return
	}
	if ads == nil {
		ads = []models.Ad{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ads)
}

func (h *AdHandler) GetMyAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.Service.GetMyAds(r.Context(), actorID(r))
	if err != nil {
		log.Printf("GetMyAds error: %v", err)
		http.Error(w, "Failed to list ads", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ads)
}

func (h *AdHandler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ad ID", http.StatusBadRequest)
		return
	}

	var upd models.AdUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ad, err := h.Service.UpdateAd(r.Context(), actorID(r), id, upd)
	if err != nil {
		writeAdError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ad)
}

func (h *AdHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ad ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteAd(r.Context(), actorID(r), id); err != nil {
		writeAdError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchAds handles GET /ad/search?query=&category=&condition=&page=.
func (h *AdHandler) SearchAds(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	req := models.AdSearchRequest{
		Query:     r.URL.Query().Get("query"),
		Category:  r.URL.Query().Get("category"),
		Condition: r.URL.Query().Get("condition"),
		Page:      page,
	}

	resp, err := h.Service.SearchAds(r.Context(), req)
	if err != nil {
		writeAdError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetAdOptions exposes the closed category and condition lists for choice
// controls.
func (h *AdHandler) GetAdOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Service.Options())
}

// UploadAdImage accepts a multipart image, stores it in object storage and
// attaches the resulting URL to the ad.
func (h *AdHandler) UploadAdImage(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ad ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read image", http.StatusInternalServerError)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	fileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	imageURL, err := utils.UploadFileToS3(data, fileName, "ad_images")
	if err != nil {
		log.Printf("UploadAdImage error: %v", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	ad, err := h.Service.SetAdImage(r.Context(), actorID(r), id, imageURL)
	if err != nil {
		writeAdError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ad)
}

func writeAdError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrUnauthenticated):
		http.Error(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, models.ErrPermissionDenied):
		http.Error(w, "Permission denied", http.StatusForbidden)
	case errors.Is(err, models.ErrAdNotFound):
		http.Error(w, "Ad not found", http.StatusNotFound)
	default:
		log.Printf("ad handler error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
