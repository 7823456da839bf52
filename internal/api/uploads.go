package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// saveUpload stores one multipart file in the upload directory under a
// hex millisecond-timestamp name, keeping the original extension. The
// returned filename carries no path; callers prepend /uploads/ for the
// stored reference the frontends load.
func (s *Server) saveUpload(r *http.Request, field string) (string, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		return "", fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return s.writeUpload(file, header)
}

func (s *Server) writeUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	name := strconv.FormatInt(time.Now().UnixMilli(), 16) + ext

	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}

// optionalUpload behaves like saveUpload but treats a missing file as
// empty, for forms where the attachment is optional.
func (s *Server) optionalUpload(r *http.Request, field string) (string, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		return "", fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	return s.writeUpload(file, header)
}

func (s *Server) maxUploadBytes() int64 {
	if s.cfg.MaxUploadBytes > 0 {
		return s.cfg.MaxUploadBytes
	}
	return 5 << 20
}
