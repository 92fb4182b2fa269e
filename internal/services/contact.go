package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// Email pattern tolerates whitespace around '@' and '.' so addresses
	// split by PDF line wrapping are still caught.
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+(?:@|\s*@\s*)[A-Za-z0-9.-]+(?:\.|\s*\.\s*)[A-Za-z]{2,}\b`)

	// Three alternatives: international prefix with grouped digits, the
	// 03xx local format, and a generic 3-3-4 grouping. First match wins.
	phonePattern = regexp.MustCompile(`\+\d{1,3}[\s().-]*\d{1,3}[\s().-]*\d{3}[\s().-]*\d{4}|\b03\d{2}[\s().-]*\d{3}[\s().-]*\d{4}\b|\b\d{3}[\s().-]*\d{3}[\s().-]*\d{4}\b`)

	whitespacePattern = regexp.MustCompile(`\s+`)
	nonDigitPattern   = regexp.MustCompile(`\D`)
	urlPattern        = regexp.MustCompile(`http[s]?://\S+|www\.\S+`)
	parenPattern      = regexp.MustCompile(`\([^)]*\)`)
)

// validEmailDomains disambiguates when a resume contains several addresses
// (personal vs. a university or employer address in the footer).
var validEmailDomains = []string{"gmail.com", "yahoo.com", "outlook.com", "hotmail.com"}

// Contact holds the resolved contact fields of one resume. Empty string
// means the field could not be resolved.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ContactExtractor resolves a candidate's name, email and phone number from
// extracted resume text.
type ContactExtractor interface {
	Extract(ctx context.Context, text string) (Contact, error)
}

type contactExtractor struct {
	recognizer EntityRecognizer
}

func NewContactExtractor(recognizer EntityRecognizer) ContactExtractor {
	return &contactExtractor{recognizer: recognizer}
}

func (c *contactExtractor) Extract(ctx context.Context, text string) (Contact, error) {
	email := resolveEmail(text)
	phone := resolvePhone(text)

	name, err := c.resolveName(ctx, text, email, phone)
	if err != nil {
		return Contact{}, err
	}

	return Contact{Name: name, Email: email, Phone: phone}, nil
}

// resolveEmail picks at most one email address. A single candidate is
// accepted as-is; multiple candidates are narrowed to the personal-mail
// domains, and the first survivor wins.
func resolveEmail(text string) string {
	matches := emailPattern.FindAllString(text, -1)
	for i, match := range matches {
		// Rejoin addresses that were split across lines.
		matches[i] = whitespacePattern.ReplaceAllString(match, "")
	}

	if len(matches) > 1 {
		for _, match := range matches {
			for _, domain := range validEmailDomains {
				if strings.Contains(match, domain) {
					return match
				}
			}
		}
		return ""
	}

	if len(matches) == 1 {
		return matches[0]
	}
	return ""
}

// resolvePhone takes the first phone-like match and strips it down to bare
// digits.
func resolvePhone(text string) string {
	match := phonePattern.FindString(text)
	if match == "" {
		return ""
	}
	return nonDigitPattern.ReplaceAllString(match, "")
}

// resolveName blends two candidates: the cleaned first line of the document
// and the first PERSON span the recognizer finds. When both exist, the one
// more similar to the email's local part wins; ties go to the first line.
func (c *contactExtractor) resolveName(ctx context.Context, text, email, phone string) (string, error) {
	lines := strings.Split(text, "\n")
	firstLineName := strings.TrimSpace(lines[0])
	if email != "" {
		firstLineName = strings.ReplaceAll(firstLineName, email, "")
	}
	if phone != "" {
		firstLineName = strings.ReplaceAll(firstLineName, phone, "")
	}
	firstLineName = strings.TrimSpace(firstLineName)

	spans, err := c.recognizer.Recognize(ctx, cleanForRecognition(text))
	if err != nil {
		return "", fmt.Errorf("failed to recognize entities: %w", err)
	}

	entityName := ""
	for _, span := range spans {
		if span.Label == PersonLabel {
			entityName = strings.TrimSpace(span.Text)
			break
		}
	}
	if entityName == "" {
		return firstLineName, nil
	}

	emailLocalPart := ""
	if email != "" {
		emailLocalPart = strings.ToLower(strings.SplitN(email, "@", 2)[0])
	}

	firstLineScore := 0.0
	if firstLineName != "" {
		firstLineScore = similarity(strings.ToLower(firstLineName), emailLocalPart)
	}
	entityScore := similarity(strings.ToLower(entityName), emailLocalPart)

	// The entity has to beat the first line outright.
	if entityScore > firstLineScore {
		return entityName, nil
	}
	return firstLineName, nil
}

// cleanForRecognition flattens the text for the recognizer: whitespace runs
// become single spaces, and form feeds, URLs and parenthesized spans (like
// "(LinkedIn)") are dropped.
func cleanForRecognition(text string) string {
	cleaned := strings.ReplaceAll(text, "\f", "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = urlPattern.ReplaceAllString(cleaned, "")
	cleaned = parenPattern.ReplaceAllString(cleaned, "")
	return cleaned
}

// similarity is a normalized Levenshtein ratio in [0,1]: symmetric, 1.0 for
// identical strings.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
