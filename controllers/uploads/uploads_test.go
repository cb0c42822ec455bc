package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divluffy/lightforgaza/utils"
)

func multipartImage(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestImage_StoreUnavailable(t *testing.T) {
	c := NewUploadController(nil)

	body, ct := multipartImage(t, "image", "photo.jpg")
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	c.Image(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestImage_Unauthenticated(t *testing.T) {
	c := NewUploadController(&utils.ObjectStore{})

	body, ct := multipartImage(t, "image", "photo.jpg")
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	c.Image(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImage_UnsupportedExtension(t *testing.T) {
	c := NewUploadController(&utils.ObjectStore{})

	body, ct := multipartImage(t, "image", "malware.exe")
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/image", body)
	req.Header.Set("Content-Type", ct)
	ctx := context.WithValue(req.Context(), utils.UserIDKey, "u1")
	rec := httptest.NewRecorder()
	c.Image(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImage_ForeignPreviousObjectRejected(t *testing.T) {
	c := NewUploadController(&utils.ObjectStore{})

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("previous", "images/victim/old.jpg"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/image", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	ctx := context.WithValue(req.Context(), utils.UserIDKey, "u1")
	rec := httptest.NewRecorder()
	c.Image(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImage_MissingFile(t *testing.T) {
	c := NewUploadController(&utils.ObjectStore{})

	body, ct := multipartImage(t, "document", "photo.jpg")
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads/image", body)
	req.Header.Set("Content-Type", ct)
	ctx := context.WithValue(req.Context(), utils.UserIDKey, "u1")
	rec := httptest.NewRecorder()
	c.Image(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
