package services

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"
)

// PersonLabel is the entity label the contact extractor consumes.
const PersonLabel = "PERSON"

// EntitySpan is one span of text tagged by the recognizer.
type EntitySpan struct {
	Text  string
	Label string
}

// EntityRecognizer is the named-entity recognition collaborator. The contact
// extractor only looks at spans labeled PERSON; recognizers may return other
// labels.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]EntitySpan, error)
}

type proseRecognizer struct{}

// NewProseRecognizer returns the default in-process recognizer backed by the
// prose NLP library.
func NewProseRecognizer() EntityRecognizer {
	return &proseRecognizer{}
}

func (p *proseRecognizer) Recognize(ctx context.Context, text string) ([]EntitySpan, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(true))
	if err != nil {
		return nil, fmt.Errorf("failed to run entity recognition: %w", err)
	}

	var spans []EntitySpan
	for _, ent := range doc.Entities() {
		spans = append(spans, EntitySpan{Text: ent.Text, Label: ent.Label})
	}
	return spans, nil
}
