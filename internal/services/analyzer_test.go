package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/models"
)

// stubTextExtractor treats the raw bytes as the extracted text, and fails
// for the sentinel payload "broken".
type stubTextExtractor struct{}

func (stubTextExtractor) ExtractText(data []byte) (string, error) {
	if string(data) == "broken" {
		return "", errors.New("failed to open PDF: broken stream")
	}
	return string(data), nil
}

type fakeAnalysisRepo struct {
	created []*models.Analysis
	err     error
}

func (r *fakeAnalysisRepo) Create(analysis *models.Analysis) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, analysis)
	return nil
}

func (r *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	return nil, errors.New("analysis not found")
}

func (r *fakeAnalysisRepo) FindByRefID(refID string) (*models.Analysis, error) {
	return nil, errors.New("analysis not found")
}

const sampleResume = `Jane Doe
jane.doe@gmail.com | +1 415-555-2671
Experienced Python developer with a background in cloud infrastructure.`

func newTestAnalyzer(t *testing.T, store CounterStore, repo *fakeAnalysisRepo) AnalyzerService {
	t.Helper()
	counter, err := NewReferenceCounter(context.Background(), store)
	require.NoError(t, err)
	contacts := NewContactExtractor(stubRecognizer{})
	return NewAnalyzerService(stubTextExtractor{}, contacts, counter, repo)
}

func TestAnalyzeBatchAssignsSequentialRefIDs(t *testing.T) {
	store := &memCounterStore{value: 5, found: true}
	analyzer := newTestAnalyzer(t, store, &fakeAnalysisRepo{})

	results := analyzer.AnalyzeBatch(context.Background(), "Python", []ResumeFile{
		{Name: "a.pdf", Data: []byte(sampleResume)},
		{Name: "b.pdf", Data: []byte(sampleResume)},
		{Name: "c.pdf", Data: []byte(sampleResume)},
	})

	require.Len(t, results, 3)
	assert.Equal(t, "5", results[0].RefID)
	assert.Equal(t, "6", results[1].RefID)
	assert.Equal(t, "7", results[2].RefID)

	persisted, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(8), persisted)
}

func TestAnalyzeBatchPopulatesMatchedResult(t *testing.T) {
	analyzer := newTestAnalyzer(t, &memCounterStore{}, &fakeAnalysisRepo{})

	results := analyzer.AnalyzeBatch(context.Background(), "Python, Java", []ResumeFile{
		{Name: "jane.pdf", Data: []byte(sampleResume)},
	})

	require.Len(t, results, 1)
	result := results[0]

	assert.True(t, result.Matched)
	assert.Equal(t, "Skills Matched", result.Message)
	assert.Equal(t, "1", result.RefID)
	assert.Equal(t, "jane.pdf", result.FileName)
	require.NotNil(t, result.SkillsRequired)
	assert.Equal(t, "Python, Java", *result.SkillsRequired)
	require.NotNil(t, result.Confidence)
	assert.Equal(t, "50.00%", *result.Confidence)
	assert.Equal(t, []string{"python"}, result.SkillsExtracted)
	assert.Equal(t, []string{"java"}, result.SkillsMissing)
	require.NotNil(t, result.Name)
	assert.Equal(t, "Jane Doe", *result.Name)
	require.NotNil(t, result.Email)
	assert.Equal(t, "jane.doe@gmail.com", *result.Email)
	require.NotNil(t, result.Phone)
	assert.Equal(t, "14155552671", *result.Phone)
}

func TestAnalyzeBatchIsolatesFailures(t *testing.T) {
	analyzer := newTestAnalyzer(t, &memCounterStore{}, &fakeAnalysisRepo{})

	results := analyzer.AnalyzeBatch(context.Background(), "Python", []ResumeFile{
		{Name: "a.pdf", Data: []byte(sampleResume)},
		{Name: "b.pdf", Data: []byte("broken")},
		{Name: "c.pdf", Data: []byte(sampleResume)},
	})

	require.Len(t, results, 3)

	assert.True(t, results[0].Matched)

	assert.False(t, results[1].Matched)
	assert.Contains(t, results[1].Message, "failed to open PDF")
	// The failed document still consumed a reference id.
	assert.Equal(t, "2", results[1].RefID)
	assert.Empty(t, results[1].SkillsExtracted)
	assert.Empty(t, results[1].SkillsMissing)
	assert.Nil(t, results[1].Confidence)

	assert.True(t, results[2].Matched)
	assert.Equal(t, "3", results[2].RefID)
}

func TestAnalyzeBatchRejectsMissingContactInfo(t *testing.T) {
	analyzer := newTestAnalyzer(t, &memCounterStore{}, &fakeAnalysisRepo{})

	// Every required skill is present, but there is no way to reach the
	// candidate.
	text := "Anonymous\nSeasoned Python and Go engineer."
	results := analyzer.AnalyzeBatch(context.Background(), "Python", []ResumeFile{
		{Name: "anon.pdf", Data: []byte(text)},
	})

	require.Len(t, results, 1)
	result := results[0]

	assert.False(t, result.Matched)
	assert.Equal(t, "No valid contact info", result.Message)
	assert.Equal(t, "1", result.RefID)
	assert.Equal(t, []string{}, result.SkillsExtracted)
	assert.Equal(t, []string{}, result.SkillsMissing)
	assert.Nil(t, result.SkillsRequired)
	assert.Nil(t, result.Confidence)
	assert.Nil(t, result.Name)
	assert.Nil(t, result.Email)
	assert.Nil(t, result.Phone)
}

func TestAnalyzeBatchSavesEveryResult(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	analyzer := newTestAnalyzer(t, &memCounterStore{}, repo)

	docID := uuid.New()
	analyzer.AnalyzeBatch(context.Background(), "Python", []ResumeFile{
		{DocumentID: &docID, Name: "a.pdf", Data: []byte(sampleResume)},
		{Name: "b.pdf", Data: []byte("broken")},
	})

	require.Len(t, repo.created, 2)

	assert.Equal(t, &docID, repo.created[0].DocumentID)
	assert.Equal(t, "a.pdf", repo.created[0].FileName)
	assert.True(t, repo.created[0].Matched)

	assert.Nil(t, repo.created[1].DocumentID)
	assert.False(t, repo.created[1].Matched)
	assert.Equal(t, "2", repo.created[1].RefID)
}

func TestAnalyzeBatchToleratesSaveFailures(t *testing.T) {
	repo := &fakeAnalysisRepo{err: errors.New("connection refused")}
	analyzer := newTestAnalyzer(t, &memCounterStore{}, repo)

	results := analyzer.AnalyzeBatch(context.Background(), "Python", []ResumeFile{
		{Name: "a.pdf", Data: []byte(sampleResume)},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
}
