package models

// DocumentResult is the per-document payload returned from the analyze
// endpoint. The nullable fields serialize as JSON null for rejected or
// failed documents.
type DocumentResult struct {
	Matched         bool     `json:"matched"`
	Message         string   `json:"message"`
	RefID           string   `json:"ref_id"`
	FileName        string   `json:"file_name"`
	SkillsRequired  *string  `json:"skills_required"`
	Confidence      *string  `json:"confidence"`
	SkillsExtracted []string `json:"skills_extracted"`
	SkillsMissing   []string `json:"skills_missing"`
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
}

// AnalyzeResponse is the envelope wrapping all document results of one batch.
type AnalyzeResponse struct {
	Success         bool             `json:"success"`
	ResponseMessage string           `json:"responseMessage"`
	ResponseCode    int              `json:"responseCode"`
	Data            []DocumentResult `json:"data"`
}
