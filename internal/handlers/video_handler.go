package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fleetboard/internal/audit"
	"fleetboard/internal/config"
	"fleetboard/internal/interfaces"
	"fleetboard/internal/middleware"
	"fleetboard/internal/models"
)

type VideoHandler struct {
	repo          interfaces.VideoRepository
	s3Client      *s3.Client
	bucket        string
	publicBaseURL string
	recorder      *audit.Recorder
}

func NewVideoHandler(repo interfaces.VideoRepository, s3Config *config.S3Config, recorder *audit.Recorder) *VideoHandler {
	h := &VideoHandler{repo: repo, recorder: recorder}
	if s3Config != nil {
		h.s3Client = s3Config.Client
		h.bucket = s3Config.Bucket
		h.publicBaseURL = s3Config.PublicBaseURL
	}
	return h
}

// UploadVideo handles POST /api/v1/videos/upload: one multipart file plus
// title and duration_sec. The file streams to S3 through the upload manager
// while the checksum accumulates on the way past.
func (h *VideoHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	if h.s3Client == nil {
		writeJSONErrorResponse(w, http.StatusServiceUnavailable, "storage_unavailable", "Video storage is not configured")
		return
	}

	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "title is required")
		return
	}

	duration, err := strconv.ParseFloat(r.FormValue("duration_sec"), 64)
	if err != nil || duration <= 0 {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "duration_sec must be a positive number")
		return
	}

	fileHeaders := r.MultipartForm.File["file"]
	if len(fileHeaders) == 0 {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "No file uploaded")
		return
	}
	fileHeader := fileHeaders[0]

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("failed to open upload %s: %v", fileHeader.Filename, err)
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to read file")
		return
	}
	defer file.Close()

	key := filepath.Join("videos", uuid.New().String()+filepath.Ext(fileHeader.Filename))
	hasher := sha256.New()

	uploader := manager.NewUploader(h.s3Client)
	_, err = uploader.Upload(r.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   io.TeeReader(file, hasher),
	})
	if err != nil {
		log.Printf("failed to upload %s to S3: %v", fileHeader.Filename, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "upload_failed", "Failed to upload video")
		return
	}

	video := &models.Video{
		Title:       title,
		ObjectKey:   key,
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
		DurationSec: duration,
		SizeBytes:   fileHeader.Size,
		Status:      models.VideoStatusReady,
	}

	if err := h.repo.Create(r.Context(), video); err != nil {
		log.Printf("failed to save video %s: %v", fileHeader.Filename, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_video_failed", "Failed to save video")
		return
	}

	h.recorder.Record(middleware.ActorFromContext(r.Context()), "upload", "video", video.ID, video.Title)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(video)
}

// GetVideo handles GET /api/v1/videos/{id}
func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Video ID is required")
		return
	}

	video, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "video not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_video_failed", "Failed to fetch video")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(video)
}

// ListVideos handles GET /api/v1/videos
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.repo.List(r.Context(), 100, 0)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_videos_failed", "Failed to list videos")
		return
	}

	if videos == nil {
		videos = []*models.Video{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(videos)
}
