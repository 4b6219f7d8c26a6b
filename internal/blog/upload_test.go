package blog

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"strings"
	"testing"
)

// multipartBody builds a multipart form with the given fields and an
// optional file part under the featuredImage field.
func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="featuredImage"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, fields map[string]string, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	body, ct := multipartBody(t, fields, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func TestReadUploadAcceptsImage(t *testing.T) {
	req := uploadRequest(t, nil, "photo.PNG", "image/png", []byte("fake image bytes"))

	up, details, err := readUpload(req)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("unexpected violations: %v", details)
	}
	if up == nil {
		t.Fatal("expected an upload")
	}
	if !regexp.MustCompile(`^\d+-featuredImage\.png$`).MatchString(up.key) {
		t.Fatalf("unexpected key %q", up.key)
	}
	if up.contentType != "image/png" {
		t.Fatalf("unexpected content type %q", up.contentType)
	}
	if string(up.data) != "fake image bytes" {
		t.Fatalf("data mangled: %q", up.data)
	}
	if !strings.HasPrefix(up.path(), "/uploads/") {
		t.Fatalf("unexpected path %q", up.path())
	}
}

func TestReadUploadRejectsNonImage(t *testing.T) {
	req := uploadRequest(t, nil, "notes.txt", "text/plain", []byte("hello"))

	up, details, err := readUpload(req)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if up != nil {
		t.Fatal("expected rejection")
	}
	if len(details) != 1 || details[0].Field != uploadField {
		t.Fatalf("expected a featuredImage violation, got %v", details)
	}
}

func TestReadUploadRejectsOversize(t *testing.T) {
	req := uploadRequest(t, nil, "big.png", "image/png", make([]byte, maxUploadSize+1))

	up, details, err := readUpload(req)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if up != nil || len(details) != 1 {
		t.Fatalf("expected an oversize violation, got up=%v details=%v", up, details)
	}
}

func TestReadUploadNoFile(t *testing.T) {
	req := uploadRequest(t, map[string]string{"title": "no file here"}, "", "", nil)

	up, details, err := readUpload(req)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if up != nil || details != nil {
		t.Fatalf("expected nothing, got up=%v details=%v", up, details)
	}
}

func TestUploadKeyRoundTrip(t *testing.T) {
	up := &upload{key: "123-featuredImage.png"}
	if got := uploadKey(up.path()); got != up.key {
		t.Fatalf("expected %q, got %q", up.key, got)
	}
}
