package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// skillVariants folds known misspellings and versioned spellings onto one
// canonical skill name. Keys must already be trimmed and lower-cased.
var skillVariants = map[string]string{
	"pyhton":  "python",
	"python3": "python",
}

var digitPattern = regexp.MustCompile(`\d+`)

// NormalizeSkill returns the canonical matching form of a skill token:
// trimmed, lower-cased, variant-folded, digits stripped. Idempotent.
func NormalizeSkill(skill string) string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := skillVariants[skill]; ok {
		return canonical
	}
	return strings.TrimSpace(digitPattern.ReplaceAllString(skill, ""))
}

// SkillSet is a de-duplicated set of normalized skills, shared read-only by
// every document in a batch.
type SkillSet struct {
	skills []string
}

// ParseSkillSet expands a requirement string into a SkillSet. Tokens are
// separated by commas, and each comma token may list alternatives separated
// by slashes ("Python, Java/Kotlin" -> python, java, kotlin).
func ParseSkillSet(skillsRequired string) SkillSet {
	seen := make(map[string]struct{})
	var skills []string
	for _, group := range strings.Split(skillsRequired, ",") {
		for _, token := range strings.Split(group, "/") {
			normalized := NormalizeSkill(token)
			if normalized == "" {
				continue
			}
			if _, ok := seen[normalized]; ok {
				continue
			}
			seen[normalized] = struct{}{}
			skills = append(skills, normalized)
		}
	}
	sort.Strings(skills)
	return SkillSet{skills: skills}
}

// Skills returns the normalized skills in sorted order.
func (s SkillSet) Skills() []string {
	out := make([]string, len(s.skills))
	copy(out, s.skills)
	return out
}

func (s SkillSet) Len() int {
	return len(s.skills)
}

// MatchSkills splits the set into skills present in the text and skills
// absent from it. Matching is case-insensitive substring containment, not
// word-boundary matching: a short skill can match inside a longer word
// ("java" matches "javascript"). That over-match is part of the contract.
func MatchSkills(text string, required SkillSet) (matched, missing []string) {
	lower := strings.ToLower(text)
	matched = []string{}
	missing = []string{}
	for _, skill := range required.skills {
		if strings.Contains(lower, skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}

// Confidence formats the matched/required ratio as a percentage with two
// decimals. An empty requirement set yields "0.00%" instead of dividing by
// zero.
func Confidence(matchedCount, requiredCount int) string {
	if requiredCount == 0 {
		return "0.00%"
	}
	rate := float64(matchedCount) / float64(requiredCount) * 100
	return fmt.Sprintf("%.2f%%", rate)
}
