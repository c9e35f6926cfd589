package knowledgeGraph

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
)

const relationPrompt = `You are a knowledge graph extractor. Read the text and list every relationship between named entities.

Output one relationship per line in exactly this format:
Subject|SubjectType|RELATION|Object|ObjectType

Examples:
Tim Cook|Person|CEO_OF|Apple|Company
Apple|Company|ANNOUNCED|iPhone 15|Product
iPhone 15|Product|UNVEILED_AT|California|Location
Obsidian Trust|Company|FUNDED_WITH|$200 million|Money
Obsidian Trust|Company|SENT_MONEY_TO|Zenith AI|Company
Sarah Vane|Person|HAS_TITLE|VP|Role
Sarah Vane|Person|WORKS_AT|Global Horizon Bank|Company

Rules:
- No markdown, no numbering, no explanations.
- RELATION is UPPER_CASE with underscores, at most 25 characters.
- Types are single PascalCase words such as Person, Company, Product, Location, Event, Role, Policy, Money.
- Use the most specific name that appears in the text.

Text:
%s`

var (
	nonRelationChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	nonAlphanumeric  = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// characters models like to wrap values in
const wrappingChars = "\"'`*_#"

// ParseRelations reads the extractor output. Lines without a separator or with fewer than
// five fields are skipped; extra fields are ignored.
func ParseRelations(raw string) []commonModels.RelationTriple {
	var triples []commonModels.RelationTriple
	for line := range strings.Lines(raw) {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 5 {
			continue
		}
		triples = append(triples, commonModels.RelationTriple{
			Subject:     strings.TrimSpace(parts[0]),
			SubjectType: strings.TrimSpace(parts[1]),
			Relation:    strings.TrimSpace(parts[2]),
			Object:      strings.TrimSpace(parts[3]),
			ObjectType:  strings.TrimSpace(parts[4]),
		})
	}
	return triples
}

// Sanitize makes a triple safe to interpolate as labels and relation type. ok is false when a
// required field ends up empty. Sanitize(Sanitize(t)) == Sanitize(t).
func Sanitize(t commonModels.RelationTriple) (commonModels.RelationTriple, bool) {
	out := commonModels.RelationTriple{
		Subject:     cleanValue(t.Subject),
		SubjectType: cleanType(t.SubjectType),
		Relation:    cleanRelation(t.Relation),
		Object:      cleanValue(t.Object),
		ObjectType:  cleanType(t.ObjectType),
	}
	ok := out.Subject != "" && out.Object != "" && out.Relation != "" &&
		out.SubjectType != "" && out.ObjectType != ""
	return out, ok
}

func cleanRelation(rel string) string {
	rel = nonRelationChars.ReplaceAllString(rel, "_")
	return strings.Trim(strings.ToUpper(rel), "_")
}

func cleanType(typ string) string {
	typ = nonAlphanumeric.ReplaceAllString(typ, "")
	if typ == "" {
		return ""
	}
	runes := []rune(strings.ToLower(typ))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func cleanValue(v string) string {
	for {
		next := strings.TrimSpace(strings.Trim(v, wrappingChars))
		if next == v {
			break
		}
		v = next
	}
	return strings.Join(strings.Fields(v), " ")
}
