// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends.
const (
	StoreMongo = "mongo"
	StoreJSON  = "json"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Framework-level settings such
// as ports, TLS and log level live in WAFFLE's CoreConfig.
type AppConfig struct {
	// Document store
	StoreType    string // "mongo" or "json"
	StoreJSONDir string // json backend: directory of <collection>.json files; blank keeps data in memory

	// MongoDB connection configuration (store_type=mongo)
	MongoURI      string
	MongoDatabase string

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: adarshgram-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // Cookie lifetime

	// Remote sentiment classifier; blank URL means lexicon only
	ClassifierURL        string
	ClassifierToken      string
	ClassifierTimeout    time.Duration
	ClassifierRatePerMin int

	// Lexicon tables (YAML); blank uses the built-in tables
	LexiconFile string

	// Report photos are written under PhotoDir; blank drops photos
	PhotoDir string

	// Per-IP limits on public writes, per minute; 0 disables
	SubmitRatePerMin   int
	RegisterRatePerMin int

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth      string
	AuditLogLifecycle string

	// Seed the demo contractor into an empty contractors collection
	SeedDemoContractor bool
}
