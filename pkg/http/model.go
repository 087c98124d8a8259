package http

// APIResponse is the envelope of every API response.
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty" example:"Bad Request"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// APIResponse400Err represents 400 error response.
type APIResponse400Err struct {
	Success bool              `json:"success" example:"false"`
	Error   string            `json:"error" example:"Bad Request"`
	Message string            `json:"message,omitempty" example:"pe is required"`
	Details []ValidationError `json:"details,omitempty"`
}

// APIResponse500Err represents 500 error response.
type APIResponse500Err struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Internal Server Error"`
	Message string `json:"message,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"pe"`
	Message string                 `json:"message,omitempty" example:"pe is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
