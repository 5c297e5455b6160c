package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/intralink/intralink/testing"
)

// Minimal valid PNG header, enough for content sniffing.
var pngHead = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestStore(t *testing.T, maxSize int64) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), maxSize)
	require.NoError(t, err)
	return store
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts/attachments", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestSaveStoresFile(t *testing.T) {
	store := newTestStore(t, 1<<20)

	rel, err := store.Save(multipartRequest(t, "file", "img.png", pngHead), "file", "attachments")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rel, "attachments/"))
	require.True(t, strings.HasSuffix(rel, ".png"))
}

func TestSaveRejectsMalformedBody(t *testing.T) {
	store := newTestStore(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/posts/attachments", strings.NewReader("not multipart at all"))
	req.Header.Set("Content-Type", "application/json")

	_, err := store.Save(req, "file", "attachments")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSaveRejectsMissingField(t *testing.T) {
	store := newTestStore(t, 1<<20)

	_, err := store.Save(multipartRequest(t, "other", "img.png", pngHead), "file", "attachments")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t, 64)

	content := append(append([]byte{}, pngHead...), make([]byte, 256)...)
	_, err := store.Save(multipartRequest(t, "file", "img.png", content), "file", "attachments")
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := newTestStore(t, 1<<20)

	_, err := store.Save(multipartRequest(t, "file", "run.sh", []byte("#!/bin/sh\nrm -rf /\n")), "file", "attachments")
	require.ErrorIs(t, err, ErrUnsupportedType)
}
