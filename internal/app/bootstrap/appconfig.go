// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: core settings like HTTP
// ports, TLS, and log level live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Media storage configuration (idea attachments)
	MediaLocalPath string // Local storage path (e.g., "./uploads/media")
	MediaLocalURL  string // URL prefix for serving stored files (e.g., "/files/media")

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://halloffame.example.com" or "http://localhost:3000"

	// Audit logging settings ("all", "db", "log", or "off")
	AuditLogAuth   string
	AuditLogDomain string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Write rate limiting (mutating endpoints, per client IP)
	WriteRateLimit  int // requests allowed per window
	WriteRateWindow int // window length in seconds
}
