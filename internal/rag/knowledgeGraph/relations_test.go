package knowledgeGraph

import (
	"testing"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseRelations(t *testing.T) {
	raw := "Here are the relations:\n" +
		"Tim Cook|Person|CEO_OF|Apple|Company\n" +
		"Apple|Company|ANNOUNCED\n" +
		"\n" +
		" Sarah Vane | Person | WORKS_AT | Global Horizon Bank | Company | extra\n"

	got := ParseRelations(raw)

	assert.Equal(t, []commonModels.RelationTriple{
		{Subject: "Tim Cook", SubjectType: "Person", Relation: "CEO_OF", Object: "Apple", ObjectType: "Company"},
		{Subject: "Sarah Vane", SubjectType: "Person", Relation: "WORKS_AT", Object: "Global Horizon Bank", ObjectType: "Company"},
	}, got)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		in     commonModels.RelationTriple
		want   commonModels.RelationTriple
		wantOk bool
	}{
		{
			name:   "relation normalised",
			in:     commonModels.RelationTriple{Subject: "Apple", SubjectType: "company", Relation: "unveiled at", Object: "California", ObjectType: "LOCATION"},
			want:   commonModels.RelationTriple{Subject: "Apple", SubjectType: "Company", Relation: "UNVEILED_AT", Object: "California", ObjectType: "Location"},
			wantOk: true,
		},
		{
			name:   "markdown and quotes stripped",
			in:     commonModels.RelationTriple{Subject: "**Obsidian  Trust**", SubjectType: "`Company`", Relation: "-funded-with-", Object: "\"$200 million\"", ObjectType: "Money"},
			want:   commonModels.RelationTriple{Subject: "Obsidian Trust", SubjectType: "Company", Relation: "FUNDED_WITH", Object: "$200 million", ObjectType: "Money"},
			wantOk: true,
		},
		{
			name:   "inner quote kept as data",
			in:     commonModels.RelationTriple{Subject: "O'Brien", SubjectType: "Person", Relation: "WORKS_AT", Object: "Acme", ObjectType: "Company"},
			want:   commonModels.RelationTriple{Subject: "O'Brien", SubjectType: "Person", Relation: "WORKS_AT", Object: "Acme", ObjectType: "Company"},
			wantOk: true,
		},
		{
			name:   "empty relation",
			in:     commonModels.RelationTriple{Subject: "A", SubjectType: "Person", Relation: "---", Object: "B", ObjectType: "Person"},
			wantOk: false,
		},
		{
			name:   "empty type",
			in:     commonModels.RelationTriple{Subject: "A", SubjectType: "??", Relation: "KNOWS", Object: "B", ObjectType: "Person"},
			wantOk: false,
		},
		{
			name:   "empty value",
			in:     commonModels.RelationTriple{Subject: "\"\"", SubjectType: "Person", Relation: "KNOWS", Object: "B", ObjectType: "Person"},
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sanitize(tt.in)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		field := rapid.StringMatching(`[ a-zA-Z0-9_'"*#\-.$]{0,20}`)
		in := commonModels.RelationTriple{
			Subject:     field.Draw(t, "subject"),
			SubjectType: field.Draw(t, "subjectType"),
			Relation:    field.Draw(t, "relation"),
			Object:      field.Draw(t, "object"),
			ObjectType:  field.Draw(t, "objectType"),
		}

		once, okOnce := Sanitize(in)
		twice, okTwice := Sanitize(once)

		if once != twice {
			t.Fatalf("not idempotent: %+v then %+v", once, twice)
		}
		if okOnce != okTwice {
			t.Fatalf("validity changed on second pass: %v then %v", okOnce, okTwice)
		}
	})
}

func TestSanitize_LabelsOnlyAlphanumeric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := commonModels.RelationTriple{
			Subject:     "a",
			SubjectType: rapid.String().Draw(t, "subjectType"),
			Relation:    rapid.String().Draw(t, "relation"),
			Object:      "b",
			ObjectType:  rapid.String().Draw(t, "objectType"),
		}
		out, ok := Sanitize(in)
		if !ok {
			return
		}
		for _, s := range []string{out.SubjectType, out.ObjectType, out.Relation} {
			if nonRelationChars.MatchString(s) {
				t.Fatalf("label %q contains characters outside [A-Za-z0-9_]", s)
			}
		}
	})
}
