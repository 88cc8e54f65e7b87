package dto

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error" example:"folio is closed"`
}

// WarningResponse describes a non-fatal condition attached to a successful write.
type WarningResponse struct {
	Code    string `json:"code" example:"credit_limit_exceeded"`
	Message string `json:"message"`
}

// ListParams are the cursor pagination query parameters.
type ListParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}
