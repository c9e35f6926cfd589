package commonModels

import "time"

const GraphSourceId = "graph_retrieval"

type Document struct {
	Id                  string    `json:"doc_id"`
	Name                string    `json:"filename"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"content_type"`
}

type DocChunk struct {
	Doc        Document
	ChunkId    string `json:"chunk_id"`
	Chunk      string `json:"content"`
	ChunkIndex int    `json:"chunk_index"`
}

// ContextChunk is one retrieved piece of context. Score is a similarity for vector hits;
// the synthetic graph chunk carries a fixed placeholder score.
type ContextChunk struct {
	Text     string  `json:"text"`
	SourceId string  `json:"source_id"`
	Score    float32 `json:"score"`
}

func (c ContextChunk) IsGraph() bool {
	return c.SourceId == GraphSourceId
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

// RelationTriple is one extracted edge: (Subject:SubjectType)-[Relation]->(Object:ObjectType).
type RelationTriple struct {
	Subject     string `json:"subject"`
	SubjectType string `json:"subject_type"`
	Relation    string `json:"relation"`
	Object      string `json:"object"`
	ObjectType  string `json:"object_type"`
}
