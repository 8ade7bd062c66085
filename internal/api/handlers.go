package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/constants"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/common"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/similarity"
)

// handleProcessImage accepts a multipart NID image upload plus optional
// "Name" and "Date of Birth" form fields, runs extraction, scores
// similarity against the provided values and returns the result record.
func (s *Server) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := s.log.With("request_id", requestID)
	ctx := common.WithRequestID(r.Context(), requestID)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("upload exceeds size limit")
			jsonError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Warn("invalid multipart form", "error", err)
		jsonError(w, "No image provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Warn("no image provided")
		jsonError(w, "No image provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		log.Warn("empty filename")
		jsonError(w, "Empty filename", http.StatusBadRequest)
		return
	}
	if !constants.IsAllowedExt(header.Filename) {
		log.Warn("file type not allowed", "filename", header.Filename)
		jsonError(w, "File type not allowed", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(s.cfg.Upload.CacheDir, 0o750); err != nil {
		log.Error("cache directory error", "error", err)
		jsonError(w, "Server configuration error", http.StatusInternalServerError)
		return
	}

	imagePath, err := saveUpload(file, s.cfg.Upload.CacheDir)
	if err != nil {
		log.Error("failed to save uploaded image", "error", err)
		jsonError(w, "Failed to process image upload", http.StatusInternalServerError)
		return
	}
	defer cleanupUpload(imagePath, s.cfg.Upload.CacheDir)
	log.Info("saved uploaded image", "path", imagePath)

	// Extension checks are easily fooled; sniff the stored bytes as well.
	if !sniffAllowedMIME(imagePath) {
		log.Warn("invalid mime type", "path", imagePath)
		jsonError(w, "Invalid file format", http.StatusBadRequest)
		return
	}

	result := s.engine.Extract(ctx, imagePath)

	providedName := strings.TrimSpace(r.FormValue("Name"))
	providedDOB := strings.TrimSpace(r.FormValue("Date of Birth"))
	result.Similarity = similarity.Score(providedName, providedDOB, result.Name, result.DateOfBirth)

	log.Info("processing complete", "error", result.Error)
	writeJSON(w, http.StatusOK, result)
}

// saveUpload streams the multipart file into a randomly named temp file
// under the cache directory.
func saveUpload(file io.Reader, cacheDir string) (string, error) {
	tmp, err := os.CreateTemp(cacheDir, "upload-*.jpg")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	_, cpErr := io.Copy(tmp, file)
	if cErr := tmp.Close(); cpErr == nil {
		cpErr = cErr
	}
	if cpErr != nil {
		_ = os.Remove(name)
		return "", cpErr
	}
	return name, nil
}

// cleanupUpload removes the temp file and the cache directory when it ends
// up empty.
func cleanupUpload(path, cacheDir string) {
	_ = os.Remove(path)
	if entries, err := os.ReadDir(cacheDir); err == nil && len(entries) == 0 {
		_ = os.Remove(cacheDir)
	}
}

// sniffAllowedMIME checks the stored file's content type from its leading
// bytes.
func sniffAllowedMIME(path string) bool {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	mime := http.DetectContentType(buf[:n])
	_, ok := constants.AllowedMIMETypes[mime]
	return ok
}
