package dto

// ErrorResponse cuerpo de error HTTP. Kind es una de las seis categorías de dominio.
type ErrorResponse struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// SuccessResponse respuesta explícita de éxito para comandos sin cuerpo propio.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
