package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the stored outcome of analyzing a single resume document.
// One row per processed document, written immediately after processing so
// results stay queryable after the response has been sent.
type Analysis struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID      *uuid.UUID `gorm:"type:uuid" json:"document_id,omitempty"`
	RefID           string     `gorm:"type:text;not null" json:"ref_id"`
	FileName        string     `gorm:"type:text" json:"file_name"`
	Matched         bool       `gorm:"not null;default:false" json:"matched"`
	Message         string     `gorm:"type:text" json:"message"`
	SkillsRequired  *string    `gorm:"type:text" json:"skills_required,omitempty"`
	Confidence      *string    `gorm:"type:text" json:"confidence,omitempty"`
	SkillsExtracted []string   `gorm:"serializer:json" json:"skills_extracted"`
	SkillsMissing   []string   `gorm:"serializer:json" json:"skills_missing"`
	Name            *string    `gorm:"type:text" json:"name,omitempty"`
	Email           *string    `gorm:"type:text" json:"email,omitempty"`
	Phone           *string    `gorm:"type:text" json:"phone,omitempty"`
	CreatedAt       time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}
