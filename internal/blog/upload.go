package blog

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayush/blog-platform/backend/internal/web"
)

const (
	uploadField   = "featuredImage"
	maxUploadSize = 5 << 20 // 5 MiB
	uploadPrefix  = "/uploads/"
)

// upload is a validated featured-image file ready to store.
type upload struct {
	key         string
	contentType string
	data        []byte
}

func (u *upload) path() string {
	return uploadPrefix + u.key
}

// uploadKey maps a stored public path back to its object key.
func uploadKey(path string) string {
	return strings.TrimPrefix(path, uploadPrefix)
}

// readUpload parses the optional featuredImage multipart part. Returns nil
// when no file was attached; rejected files come back as field errors.
func readUpload(r *http.Request) (*upload, []web.FieldError, error) {
	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		return nil, []web.FieldError{{Field: uploadField, Message: "Image must be 5MB or smaller"}}, nil
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, []web.FieldError{{Field: uploadField, Message: "Only image files are allowed"}}, nil
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, nil, err
	}
	if len(data) > maxUploadSize {
		return nil, []web.FieldError{{Field: uploadField, Message: "Image must be 5MB or smaller"}}, nil
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uploadField, ext)
	return &upload{key: key, contentType: contentType, data: data}, nil, nil
}
