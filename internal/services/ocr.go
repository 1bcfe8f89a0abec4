package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRService recognizes text in scanned documents and images. Any failure is
// treated by the extraction pipeline as "OCR unavailable".
type OCRService interface {
	Available() bool
	Provider() string
	Recognize(ctx context.Context, filename, mimeType string, data []byte) (string, error)
}

type ocrSpaceService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewOCRSpaceService talks to the OCR.space parse/image API. An empty apiKey
// produces a service that reports itself as unavailable.
func NewOCRSpaceService(apiKey, endpoint string) OCRService {
	if endpoint == "" {
		endpoint = "https://api.ocr.space/parse/image"
	}
	return &ocrSpaceService{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Available implements OCRService.
func (o *ocrSpaceService) Available() bool {
	return o.apiKey != ""
}

// Provider implements OCRService.
func (o *ocrSpaceService) Provider() string {
	return "ocr.space"
}

type ocrSpaceResponse struct {
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
}

// Recognize implements OCRService.
func (o *ocrSpaceService) Recognize(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	if !o.Available() {
		return "", fmt.Errorf("ocr api key not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}

	fields := map[string]string{
		"apikey":            o.apiKey,
		"language":          "eng",
		"isOverlayRequired": "false",
		"scale":             "true", // improves small text accuracy
		"OCREngine":         "2",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to build ocr request: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr provider returned status %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ocr response: %w", err)
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse ocr response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr provider error: %s", string(parsed.ErrorMessage))
	}

	if len(parsed.ParsedResults) == 0 {
		return "", nil
	}

	return parsed.ParsedResults[0].ParsedText, nil
}
