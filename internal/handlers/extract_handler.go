package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"pivotpath/pivot-api/internal/models"
	"pivotpath/pivot-api/internal/services"
)

type ExtractHandler struct {
	extractor services.ExtractionService
}

func NewExtractHandler(extractor services.ExtractionService) *ExtractHandler {
	return &ExtractHandler{
		extractor: extractor,
	}
}

// HandleExtract handles POST /extract
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	fileHeader := pickFirstFile(form)
	if fileHeader == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	data, err := readFile(fileHeader)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	result := h.extractor.Extract(
		c.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)

	return c.JSON(models.ExtractResponse{
		Text:        result.Text,
		Source:      result.Source,
		OCRProvider: result.OCRProvider,
	})
}

// pickFirstFile prefers the "file" field and otherwise takes the first file
// found under any field.
func pickFirstFile(form *multipart.Form) *multipart.FileHeader {
	if files, ok := form.File["file"]; ok && len(files) > 0 {
		return files[0]
	}

	for _, files := range form.File {
		if len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
