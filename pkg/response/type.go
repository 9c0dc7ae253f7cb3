package response

// Status strings used across every channel payload.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Resp is the standard JSON response body.
type Resp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
