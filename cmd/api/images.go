package main

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

const (
	maxEventImages    = 5
	maxEventImageSize = 10 << 20 // 10 MiB per file
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// parseEventForm parses the multipart submission: an "event" JSON part, an
// "address" JSON part and up to five "images" files.
func (app *application) parseEventForm(w http.ResponseWriter, r *http.Request, event any, address any) ([]*multipart.FileHeader, error) {
	const maxBytes = 60 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	if err := json.Unmarshal([]byte(r.FormValue("event")), event); err != nil {
		return nil, fmt.Errorf("event payload: %w", err)
	}
	if err := json.Unmarshal([]byte(r.FormValue("address")), address); err != nil {
		return nil, fmt.Errorf("address payload: %w", err)
	}

	return r.MultipartForm.File["images"], nil
}

// validateImages checks the whole batch before anything is uploaded. One bad
// file rejects the entire submission.
func validateImages(files []*multipart.FileHeader) error {
	if len(files) > maxEventImages {
		return fmt.Errorf("maximum %d images allowed", maxEventImages)
	}

	for _, fileHeader := range files {
		if fileHeader.Size > maxEventImageSize {
			return fmt.Errorf("image %q exceeds the 10MB size limit", fileHeader.Filename)
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			return fmt.Errorf("image %q has unsupported type %q, only JPEG, PNG and GIF are allowed", fileHeader.Filename, contentType)
		}
	}

	return nil
}
