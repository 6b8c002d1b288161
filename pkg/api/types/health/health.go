package health

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	DatabaseConnected = "connected"

	DirectoryOk    = "ok"
	DirectoryError = "error"

	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Health is the body of /health.
//
// On failure, only Status and Code are set.
type Health struct {
	Status             string `json:"status"`
	Database           string `json:"database,omitempty"`
	TemplatesDirectory string `json:"templates_directory,omitempty"`
	Version            string `json:"version,omitempty"`
	Code               string `json:"code,omitempty"`
}
