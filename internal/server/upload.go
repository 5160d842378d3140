package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// allowedUploadTypes are the only content types accepted on the file
// endpoints. Anything else is rejected before any pipeline stage runs.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/bmp":       true,
	"application/pdf": true,
}

// uploadError distinguishes client mistakes from server failures.
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string {
	return e.message
}

// saveUpload validates the uploaded file and spools it to a temp file.
// The returned cleanup must run on every exit path of the request —
// success, rejection, or failure — so no upload outlives its request.
func (s *Server) saveUpload(r *http.Request) (path string, cleanup func(), err error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return "", nil, &uploadError{http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err)}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, &uploadError{http.StatusBadRequest, "missing file field"}
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return "", nil, &uploadError{
			http.StatusBadRequest,
			fmt.Sprintf("Unsupported file type: %s. Allowed: images and PDFs", contentType),
		}
	}

	suffix := filepath.Ext(header.Filename)
	if suffix == "" {
		suffix = ".tmp"
	}

	tmp, err := os.CreateTemp("", "claimgate-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}

	cleanup = func() {
		os.Remove(tmp.Name())
	}

	// Read one byte past the limit so an oversized upload is detected and
	// rejected instead of silently truncated into a corrupt spool file.
	written, err := io.Copy(tmp, io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("spool upload: %w", err)
	}
	if written > s.maxUploadBytes {
		tmp.Close()
		cleanup()
		return "", nil, &uploadError{
			http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large: limit is %d bytes", s.maxUploadBytes),
		}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), cleanup, nil
}
