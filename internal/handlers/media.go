package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"csxhub/internal/imaging"
	"csxhub/internal/middleware"
	"csxhub/internal/models"
	"csxhub/internal/storage"
	"csxhub/internal/store"
)

// maxUploadSize is the maximum allowed file upload size (10 MB).
// Uploads here are cover images and avatars, not arbitrary documents.
const maxUploadSize = 10 << 20

// allowedUploadTypes defines MIME types accepted for upload.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Media groups the upload endpoints. The storage client may be nil when
// object storage is not configured; uploads then return 503 while the
// rest of the API keeps working.
type Media struct {
	mediaStore *store.MediaStore
	storage    *storage.Client
}

// NewMedia creates a new Media handler group.
func NewMedia(mediaStore *store.MediaStore, storageClient *storage.Client) *Media {
	return &Media{
		mediaStore: mediaStore,
		storage:    storageClient,
	}
}

// Upload accepts a multipart image, stores it in the bucket with a
// generated thumbnail, records the metadata, and returns the public URLs.
func (m *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	// Detect content type by sniffing, never by trusting the filename.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeServerError(w, "upload read failed", err)
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedUploadTypes[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeServerError(w, "upload seek failed", err)
		return
	}
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeServerError(w, "upload read failed", err)
		return
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.New().String()
	key := fmt.Sprintf("uploads/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	ctx := r.Context()
	if err := m.storage.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		writeServerError(w, "upload to storage failed", err)
		return
	}

	// Thumbnail failures are logged, not fatal; the original upload stands.
	var thumbKey *string
	if thumbableTypes[contentType] {
		thumbData, err := imaging.Thumbnail(fileBytes)
		if err != nil {
			slog.Warn("thumbnail generation failed", "key", key, "error", err)
		} else {
			tk := fmt.Sprintf("uploads/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), fileID)
			if err := m.storage.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "key", tk, "error", err)
			} else {
				thumbKey = &tk
			}
		}
	}

	created, err := m.mediaStore.Create(&models.Media{
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileBytes)),
		StorageKey:   key,
		ThumbKey:     thumbKey,
		UploaderID:   sess.UserID,
	})
	if err != nil {
		writeServerError(w, "media record create failed", err)
		return
	}

	var thumbURL string
	if created.ThumbKey != nil {
		thumbURL = m.storage.FileURL(*created.ThumbKey)
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        created.ID,
		"url":       m.storage.FileURL(created.StorageKey),
		"thumb_url": thumbURL,
		"filename":  created.OriginalName,
		"size":      created.HumanSize(),
		"type":      created.ContentType,
	})
}

// List returns the caller's uploads, newest first.
func (m *Media) List(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	items, err := m.mediaStore.ListByUploader(sess.UserID, 50, 0)
	if err != nil {
		writeServerError(w, "media list failed", err)
		return
	}

	type mediaView struct {
		models.Media
		URL      string `json:"url"`
		ThumbURL string `json:"thumb_url,omitempty"`
	}
	views := make([]mediaView, 0, len(items))
	for _, item := range items {
		mv := mediaView{Media: item, URL: m.storage.FileURL(item.StorageKey)}
		if item.ThumbKey != nil {
			mv.ThumbURL = m.storage.FileURL(*item.ThumbKey)
		}
		views = append(views, mv)
	}

	writeJSON(w, http.StatusOK, map[string]any{"media": views})
}

// Delete removes the caller's upload from both storage and the database.
func (m *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if m.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	media, err := m.mediaStore.FindByID(id)
	if err != nil {
		writeServerError(w, "media lookup failed", err)
		return
	}
	if media == nil {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}
	if media.UploaderID != sess.UserID {
		writeError(w, http.StatusForbidden, "you do not own this upload")
		return
	}

	if err := m.mediaStore.Delete(media.ID); err != nil {
		writeServerError(w, "media delete failed", err)
		return
	}

	// Storage cleanup is best-effort; the record is already gone.
	ctx := r.Context()
	if err := m.storage.Delete(ctx, media.StorageKey); err != nil {
		slog.Warn("storage delete failed", "key", media.StorageKey, "error", err)
	}
	if media.ThumbKey != nil {
		if err := m.storage.Delete(ctx, *media.ThumbKey); err != nil {
			slog.Warn("thumbnail delete failed", "key", *media.ThumbKey, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
