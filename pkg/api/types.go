package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CodecInfo describes one transcode codec exposed by the API
type CodecInfo struct {
	Name        string   `json:"name"`
	Operations  []string `json:"operations"`
	Description string   `json:"description"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port            int
	Bind            string
	APIKey          string
	MaxRequestBytes int64 // Per-request body limit; 0 means the default
}

// DefaultMaxRequestBytes bounds transcode request bodies when the config
// does not say otherwise.
const DefaultMaxRequestBytes = 8 << 20
