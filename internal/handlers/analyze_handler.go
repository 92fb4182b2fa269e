package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/repositories"
	"resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer       services.AnalyzerService
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:       analyzer,
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze: a multipart form with one
// skills_required field and one or more resume_files attachments.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	skillsRequired := c.FormValue("skills_required")
	if skillsRequired == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "skills_required is required",
		})
	}

	fileHeaders := form.File["resume_files"]
	if len(fileHeaders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one resume file is required. Please upload 'resume_files' as PDF files.",
		})
	}

	var resumeFiles []services.ResumeFile
	for _, fileHeader := range fileHeaders {
		if fileHeader.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		src, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to open uploaded file: %v", err),
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read uploaded file: %v", err),
			})
		}

		resumeFiles = append(resumeFiles, services.ResumeFile{
			DocumentID: h.archiveUpload(fileHeader),
			Name:       fileHeader.Filename,
			Data:       data,
		})
	}

	results := h.analyzer.AnalyzeBatch(c.Context(), skillsRequired, resumeFiles)

	return c.JSON(models.AnalyzeResponse{
		Success:         true,
		ResponseMessage: fmt.Sprintf("Processed %d resume(s)", len(results)),
		ResponseCode:    fiber.StatusOK,
		Data:            results,
	})
}

// archiveUpload saves the upload on disk and records it. Archival is
// best-effort: the analysis still runs when it fails, just without a stored
// document to point back to.
func (h *AnalyzeHandler) archiveUpload(fileHeader *multipart.FileHeader) *uuid.UUID {
	filename, filePath, err := h.storageService.SaveFile(fileHeader)
	if err != nil {
		log.Printf("⚠️  Failed to archive upload %s: %v", fileHeader.Filename, err)
		return nil
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: fileHeader.Filename,
		FilePath:         filePath,
		SizeBytes:        fileHeader.Size,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup archived file if database insert fails
		h.storageService.DeleteFile(filename)
		log.Printf("⚠️  Failed to record upload %s: %v", fileHeader.Filename, err)
		return nil
	}

	return &doc.ID
}
