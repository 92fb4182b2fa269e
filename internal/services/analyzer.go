package services

import (
	"context"
	"log"
	"strconv"

	"github.com/google/uuid"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/repositories"
)

const (
	messageSkillsMatched = "Skills Matched"
	messageNoContactInfo = "No valid contact info"
)

// ResumeFile is one uploaded document handed to the analyzer.
type ResumeFile struct {
	DocumentID *uuid.UUID
	Name       string
	Data       []byte
}

// AnalyzerService runs the per-batch pipeline: one shared skill set, then
// each document processed sequentially so reference ids are assigned and
// persisted in document order.
type AnalyzerService interface {
	AnalyzeBatch(ctx context.Context, skillsRequired string, files []ResumeFile) []models.DocumentResult
}

type analyzerService struct {
	textExtractor TextExtractor
	contacts      ContactExtractor
	counter       ReferenceCounter
	analysisRepo  repositories.AnalysisRepository
}

func NewAnalyzerService(
	textExtractor TextExtractor,
	contacts ContactExtractor,
	counter ReferenceCounter,
	analysisRepo repositories.AnalysisRepository,
) AnalyzerService {
	return &analyzerService{
		textExtractor: textExtractor,
		contacts:      contacts,
		counter:       counter,
		analysisRepo:  analysisRepo,
	}
}

func (a *analyzerService) AnalyzeBatch(ctx context.Context, skillsRequired string, files []ResumeFile) []models.DocumentResult {
	skills := ParseSkillSet(skillsRequired)

	results := make([]models.DocumentResult, 0, len(files))
	for _, file := range files {
		result := a.analyzeDocument(ctx, skillsRequired, skills, file)
		a.saveAnalysis(file, result)
		results = append(results, result)
	}
	return results
}

// analyzeDocument processes one document to completion. Failures are
// isolated: they become failure results and never abort the batch. A
// document consumes a reference id even when its extraction fails.
func (a *analyzerService) analyzeDocument(ctx context.Context, skillsRequired string, skills SkillSet, file ResumeFile) models.DocumentResult {
	refID := ""
	next, err := a.counter.Next(ctx)
	if err != nil {
		log.Printf("❌ Failed to assign reference id for %s: %v", file.Name, err)
		return failureResult(refID, file.Name, err.Error())
	}
	refID = strconv.FormatInt(next, 10)

	text, err := a.textExtractor.ExtractText(file.Data)
	if err != nil {
		log.Printf("❌ Failed to extract text from %s: %v", file.Name, err)
		return failureResult(refID, file.Name, err.Error())
	}

	contact, err := a.contacts.Extract(ctx, text)
	if err != nil {
		log.Printf("❌ Failed to extract contact info from %s: %v", file.Name, err)
		return failureResult(refID, file.Name, err.Error())
	}

	// A resume we cannot reach anyone through is rejected outright, even
	// when its skills matched.
	if contact.Email == "" && contact.Phone == "" {
		return rejectedResult(refID, file.Name)
	}

	matched, missing := MatchSkills(text, skills)
	confidence := Confidence(len(matched), skills.Len())

	return models.DocumentResult{
		Matched:         true,
		Message:         messageSkillsMatched,
		RefID:           refID,
		FileName:        file.Name,
		SkillsRequired:  strPtr(skillsRequired),
		Confidence:      strPtr(confidence),
		SkillsExtracted: matched,
		SkillsMissing:   missing,
		Name:            strPtr(contact.Name),
		Email:           strPtr(contact.Email),
		Phone:           strPtr(contact.Phone),
	}
}

func (a *analyzerService) saveAnalysis(file ResumeFile, result models.DocumentResult) {
	analysis := &models.Analysis{
		ID:              uuid.New(),
		DocumentID:      file.DocumentID,
		RefID:           result.RefID,
		FileName:        result.FileName,
		Matched:         result.Matched,
		Message:         result.Message,
		SkillsRequired:  result.SkillsRequired,
		Confidence:      result.Confidence,
		SkillsExtracted: result.SkillsExtracted,
		SkillsMissing:   result.SkillsMissing,
		Name:            result.Name,
		Email:           result.Email,
		Phone:           result.Phone,
	}

	if err := a.analysisRepo.Create(analysis); err != nil {
		// The analysis itself succeeded; losing the stored row is not a
		// reason to fail the document.
		log.Printf("⚠️  Failed to save analysis for %s: %v", result.FileName, err)
	}
}

func failureResult(refID, fileName, message string) models.DocumentResult {
	return models.DocumentResult{
		Matched:         false,
		Message:         message,
		RefID:           refID,
		FileName:        fileName,
		SkillsExtracted: []string{},
		SkillsMissing:   []string{},
	}
}

func rejectedResult(refID, fileName string) models.DocumentResult {
	return models.DocumentResult{
		Matched:         false,
		Message:         messageNoContactInfo,
		RefID:           refID,
		FileName:        fileName,
		SkillsExtracted: []string{},
		SkillsMissing:   []string{},
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
