package neo4jDB

import (
	"testing"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
)

func node(elementId string, id string) dbtype.Node {
	return dbtype.Node{ElementId: elementId, Props: map[string]any{"id": id}}
}

func TestFormatPath(t *testing.T) {
	tim, apple, iphone := node("1", "Tim Cook"), node("2", "Apple"), node("3", "iPhone 15")

	tests := []struct {
		name string
		path dbtype.Path
		want string
	}{
		{
			name: "empty",
			path: dbtype.Path{},
			want: "",
		},
		{
			name: "forward chain",
			path: dbtype.Path{
				Nodes: []dbtype.Node{tim, apple, iphone},
				Relationships: []dbtype.Relationship{
					{StartElementId: "1", EndElementId: "2", Type: "CEO_OF"},
					{StartElementId: "2", EndElementId: "3", Type: "ANNOUNCED"},
				},
			},
			want: "Tim Cook -[CEO_OF]-> Apple -[ANNOUNCED]-> iPhone 15",
		},
		{
			name: "traversed against direction",
			path: dbtype.Path{
				Nodes:         []dbtype.Node{apple, tim},
				Relationships: []dbtype.Relationship{{StartElementId: "1", EndElementId: "2", Type: "CEO_OF"}},
			},
			want: "Apple <-[CEO_OF]- Tim Cook",
		},
		{
			name: "node without id prop",
			path: dbtype.Path{Nodes: []dbtype.Node{{ElementId: "4:abc:9"}}},
			want: "4:abc:9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPath(tt.path))
		})
	}
}

func TestMergeStatement_BindsValues(t *testing.T) {
	stmt := MergeStatement(commonModels.RelationTriple{
		Subject: "O'Brien", SubjectType: "Person", Relation: "WORKS_AT", Object: "Acme", ObjectType: "Company",
	})

	assert.Equal(t, "MERGE (a:`Person` {id: $subject}) MERGE (b:`Company` {id: $object}) MERGE (a)-[:`WORKS_AT`]->(b)", stmt)
	assert.NotContains(t, stmt, "O'Brien")
}
