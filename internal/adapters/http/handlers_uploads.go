package web

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	maxImageBytes = 5 << 20
	maxFileBytes  = 10 << 20
	// multipart framing allowance on top of the payload ceilings
	formOverhead      = 1 << 20
	maxFilesPerUpload = 10
	maxFileNameLength = 100
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// uploadedObject is the JSON shape returned for every stored upload.
// The file widget appends these directly to a lesson's attachments.
type uploadedObject struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// parseUpload reads a multipart body capped at limit bytes. It writes the error response itself.
func parseUpload(w http.ResponseWriter, r *http.Request, limit int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return false
	}
	return true
}

// handleUploadImage handles POST /admin/uploads/images
func handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if !parseUpload(w, r, maxImageBytes+formOverhead) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		http.Error(w, "image must be 5 MB or smaller", http.StatusRequestEntityTooLarge)
		return
	}
	contentType, err := sniffContentType(file)
	if err != nil {
		internalError(w, err)
		return
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		http.Error(w, "only PNG and JPEG images are accepted", http.StatusBadRequest)
		return
	}

	key := "images/" + generateID() + ext
	if err := objects.Put(r.Context(), key, contentType, file); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("upload_event", "event", "image_uploaded", "key", key, "bytes", header.Size)
	writeJSON(w, http.StatusOK, uploadedObject{Name: header.Filename, URL: objects.PublicURL(key)})
}

// handleUploadFiles handles POST /admin/uploads/files
func handleUploadFiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if !parseUpload(w, r, maxFilesPerUpload*maxFileBytes+formOverhead) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	if len(headers) > maxFilesPerUpload {
		http.Error(w, "too many files", http.StatusBadRequest)
		return
	}
	for _, h := range headers {
		if h.Size > maxFileBytes {
			http.Error(w, h.Filename+" is larger than 10 MB", http.StatusRequestEntityTooLarge)
			return
		}
	}

	uploaded := make([]uploadedObject, 0, len(headers))
	for _, h := range headers {
		obj, err := storeAttachment(r, h)
		if err != nil {
			internalError(w, err)
			return
		}
		uploaded = append(uploaded, obj)
	}
	slog.Info("upload_event", "event", "files_uploaded", "count", len(uploaded))
	writeJSON(w, http.StatusOK, uploaded)
}

func storeAttachment(r *http.Request, h *multipart.FileHeader) (uploadedObject, error) {
	f, err := h.Open()
	if err != nil {
		return uploadedObject{}, err
	}
	defer f.Close()

	contentType := h.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := "files/" + generateID() + "-" + sanitizeFileName(h.Filename)
	if err := objects.Put(r.Context(), key, contentType, f); err != nil {
		return uploadedObject{}, err
	}
	return uploadedObject{Name: h.Filename, URL: objects.PublicURL(key)}, nil
}

// sniffContentType detects the type from the first 512 bytes and rewinds f.
func sniffContentType(f multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// sanitizeFileName keeps letters, digits, dot, dash and underscore.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if len(out) > maxFileNameLength {
		out = out[len(out)-maxFileNameLength:]
	}
	if out == "" {
		return "file"
	}
	return out
}
