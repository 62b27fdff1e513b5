package models

type AnalyzeResponse struct {
	Result       string `json:"result"`
	DocumentID   string `json:"documentId,omitempty"`
	DocumentName string `json:"documentName,omitempty"`
}

type ChatRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Result string `json:"result"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
