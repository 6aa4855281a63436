package dto

// Respuesta is the success envelope; failures use apierror.APIError.
type Respuesta struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}
