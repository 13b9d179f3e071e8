package controllers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/zaika/pkg/reqid"
	"github.com/shashiranjanraj/zaika/pkg/response"
	"github.com/shashiranjanraj/zaika/pkg/storage"
)

// maxUploadBytes caps uploaded images at 5 MB.
const maxUploadBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Image accepts a multipart "image" field, stores it on the default disk
// (S3 when configured), and returns the public URL for use as a food's
// image reference.
func (c *UploadController) Image(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "missing image field")
		return
	}
	defer file.Close()

	// Sniff the actual content type rather than trusting the header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		response.BadRequest(w, "unreadable image")
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		response.Error(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported image type %s", contentType))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, r, err)
		return
	}

	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	key := fmt.Sprintf("images/%d-%s-%s%s",
		time.Now().UTC().Unix(), reqid.New()[:8], sanitize(name), ext)

	if err := storage.PutStream(key, file); err != nil {
		respondError(w, r, err)
		return
	}

	response.Created(w, map[string]string{"image_url": storage.URL(key)})
}

// sanitize strips path and shell oddities out of a client-chosen filename.
func sanitize(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
