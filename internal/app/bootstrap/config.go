// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/app/system/inputval"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Adarsh Gram.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_type, mongo_uri, etc.
//   - Environment variables: ADARSHGRAM_STORE_TYPE, ADARSHGRAM_MONGO_URI, etc.
//   - Command-line flags: --store_type, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_type", Default: StoreMongo, Desc: "Document store backend: 'mongo' or 'json'"},
	{Name: "store_json_dir", Default: "./data", Desc: "Directory for the json store (blank keeps data in memory)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "adarsh_gram", Desc: "MongoDB database name"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "adarshgram-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "24h", Desc: "Session cookie lifetime (e.g., 12h, 30m)"},

	// Remote sentiment classifier
	{Name: "classifier_url", Default: "", Desc: "Sentiment inference endpoint (blank uses the lexicon only)"},
	{Name: "classifier_token", Default: "", Desc: "Bearer token for the inference endpoint"},
	{Name: "classifier_timeout", Default: "5s", Desc: "Timeout of one classifier call"},
	{Name: "classifier_rate_per_min", Default: 60, Desc: "Classifier calls allowed per minute (0 = unlimited)"},

	{Name: "lexicon_file", Default: "", Desc: "YAML lexicon tables (blank uses the built-in tables)"},
	{Name: "photo_dir", Default: "./data/photos", Desc: "Directory for report photos (blank drops photos)"},

	// Abuse limits on public writes
	{Name: "submit_rate_per_min", Default: 30, Desc: "Report submissions per client IP per minute (0 = unlimited)"},
	{Name: "register_rate_per_min", Default: 10, Desc: "Contractor registrations per client IP per minute (0 = unlimited)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: auditlog.All, Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_lifecycle", Default: auditlog.All, Desc: "Lifecycle event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "seed_demo_contractor", Default: true, Desc: "Create the demo contractor when no contractor exists"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ADARSHGRAM_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ADARSHGRAM", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreType:    appValues.String("store_type"),
		StoreJSONDir: appValues.String("store_json_dir"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", 24*time.Hour),

		ClassifierURL:        appValues.String("classifier_url"),
		ClassifierToken:      appValues.String("classifier_token"),
		ClassifierTimeout:    appValues.Duration("classifier_timeout", 5*time.Second),
		ClassifierRatePerMin: appValues.Int("classifier_rate_per_min"),

		LexiconFile: appValues.String("lexicon_file"),
		PhotoDir:    appValues.String("photo_dir"),

		SubmitRatePerMin:   appValues.Int("submit_rate_per_min"),
		RegisterRatePerMin: appValues.Int("register_rate_per_min"),

		AuditLogAuth:      appValues.String("audit_log_auth"),
		AuditLogLifecycle: appValues.String("audit_log_lifecycle"),

		SeedDemoContractor: appValues.Bool("seed_demo_contractor"),
	}

	// Applied here so ConnectDB already runs with the overrides.
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		t := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Duration("ping", t.Ping),
			zap.Duration("short", t.Short),
			zap.Duration("medium", t.Medium),
			zap.Duration("long", t.Long))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreType {
	case StoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required when store_type is %q", StoreMongo)
		}
	case StoreJSON:
	default:
		return fmt.Errorf("store_type must be %q or %q, got %q", StoreMongo, StoreJSON, appCfg.StoreType)
	}

	for key, v := range map[string]string{
		"audit_log_auth":      appCfg.AuditLogAuth,
		"audit_log_lifecycle": appCfg.AuditLogLifecycle,
	} {
		switch v {
		case auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}

	if appCfg.ClassifierRatePerMin < 0 || appCfg.SubmitRatePerMin < 0 || appCfg.RegisterRatePerMin < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}

	if appCfg.ClassifierURL == "" {
		logger.Info("no classifier_url configured; sentiment comes from the lexicon only")
	} else if !inputval.IsValidHTTPURL(appCfg.ClassifierURL) {
		return fmt.Errorf("classifier_url must be an http or https URL, got %q", appCfg.ClassifierURL)
	}
	return nil
}
