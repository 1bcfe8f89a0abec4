package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OCRSpace_Unavailable(t *testing.T) {
	ocr := NewOCRSpaceService("", "")

	assert.False(t, ocr.Available())

	_, err := ocr.Recognize(context.Background(), "scan.png", "image/png", []byte{1})
	assert.Error(t, err)
}

func Test_OCRSpace_Recognize(t *testing.T) {
	var gotAPIKey, gotEngine string
	var gotFile bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotAPIKey = r.FormValue("apikey")
		gotEngine = r.FormValue("OCREngine")
		_, _, err := r.FormFile("file")
		gotFile = err == nil

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"IsErroredOnProcessing": false,
			"ParsedResults": [{"ParsedText": "scanned resume text"}]
		}`))
	}))
	defer server.Close()

	ocr := NewOCRSpaceService("test-key", server.URL)
	require.True(t, ocr.Available())

	text, err := ocr.Recognize(context.Background(), "scan.png", "image/png", []byte("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "scanned resume text", text)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "2", gotEngine)
	assert.True(t, gotFile)
}

func Test_OCRSpace_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"IsErroredOnProcessing": true,
			"ErrorMessage": ["file is corrupted"]
		}`))
	}))
	defer server.Close()

	ocr := NewOCRSpaceService("test-key", server.URL)

	_, err := ocr.Recognize(context.Background(), "scan.png", "image/png", []byte{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")
}

func Test_OCRSpace_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	ocr := NewOCRSpaceService("test-key", server.URL)

	_, err := ocr.Recognize(context.Background(), "scan.png", "image/png", []byte{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func Test_OCRSpace_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IsErroredOnProcessing": false, "ParsedResults": []}`))
	}))
	defer server.Close()

	ocr := NewOCRSpaceService("test-key", server.URL)

	text, err := ocr.Recognize(context.Background(), "scan.png", "image/png", []byte{1})
	require.NoError(t, err)
	assert.Empty(t, text)
}
