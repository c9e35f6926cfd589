package api

// responses---------------------

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"query is required"`
}

type ContextMetadata struct {
	DocId string  `json:"doc_id" example:"handbook.pdf"`
	Score float32 `json:"score" example:"0.83"`
}

type DocumentContext struct {
	PageContent string          `json:"page_content"`
	Metadata    ContextMetadata `json:"metadata"`
}

type ChatResponse struct {
	Answer   string            `json:"answer"`
	Contexts []DocumentContext `json:"contexts"`
}

type UploadResponse struct {
	Status string `json:"status" example:"success"`
	DocId  string `json:"doc_id" example:"handbook.pdf"`
	Path   string `json:"path"`
}

type SyncResponse struct {
	JobId  string `json:"job_id" example:"job_1700000000"`
	Status string `json:"status" example:"Queued"`
}

type DeleteVectorResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// requests---------------------

type ChatRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

type SyncRequest struct {
	DocId    string `json:"doc_id" validate:"required"`
	Filename string `json:"filename" validate:"required"`
}
