// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	All = "all" // store + zap
	DB  = "db"  // store only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login and logout events.
	Auth string
	// Lifecycle controls logging for registrations, reports, assignments,
	// progress updates and completions.
	Lifecycle string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to a Sink (when one is configured) and to zap.
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. sink may be nil, in which case "all" and
// "db" only reach zap.
func New(sink Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		sink:   sink,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request: the first
// X-Forwarded-For hop, then X-Real-IP, then RemoteAddr without its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ContractorID != nil {
		fields = append(fields, zap.String("contractor_id", event.ContractorID.Hex()))
	}
	if event.IssueID != nil {
		fields = append(fields, zap.String("issue_id", event.IssueID.Hex()))
	}
	if event.ProjectID != nil {
		fields = append(fields, zap.String("project_id", event.ProjectID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests and handlers can run without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryLifecycle:
		setting = l.config.Lifecycle
	default:
		setting = All
	}
	if setting == "" {
		setting = All
	}

	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.sink != nil {
		if err := l.sink.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) request(r *http.Request, e audit.Event) audit.Event {
	e.IP = getClientIP(r)
	e.UserAgent = r.UserAgent()
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, contractorID primitive.ObjectID, username string) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:     audit.CategoryAuth,
		EventType:    audit.EventLoginSuccess,
		ContractorID: &contractorID,
		Success:      true,
		Details:      map[string]string{"username": username},
	}))
}

// LoginFailed logs a rejected login. eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, attemptedUsername, reason string) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		FailureReason: reason,
		Details:       map[string]string{"attempted_username": attemptedUsername},
	}))
}

// Logout logs a logout. Invalid ids are recorded without a contractor.
func (l *Logger) Logout(ctx context.Context, r *http.Request, contractorIDStr string) {
	var contractorID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(contractorIDStr); err == nil {
		contractorID = &oid
	}
	l.Log(ctx, l.request(r, audit.Event{
		Category:     audit.CategoryAuth,
		EventType:    audit.EventLogout,
		ContractorID: contractorID,
		Success:      true,
	}))
}

// --- Lifecycle Events ---

// ContractorRegistered logs a new contractor.
func (l *Logger) ContractorRegistered(ctx context.Context, r *http.Request, contractorID primitive.ObjectID, username, specialization string) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:     audit.CategoryLifecycle,
		EventType:    audit.EventContractorRegistered,
		ContractorID: &contractorID,
		Success:      true,
		Details: map[string]string{
			"username":       username,
			"specialization": specialization,
		},
	}))
}

// ReportSubmitted logs a triaged report.
func (l *Logger) ReportSubmitted(ctx context.Context, r *http.Request, issueID primitive.ObjectID, category string, urgency int, sentimentSource string) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventReportSubmitted,
		IssueID:   &issueID,
		Success:   true,
		Details: map[string]string{
			"category":         category,
			"urgency":          strconv.Itoa(urgency),
			"sentiment_source": sentimentSource,
		},
	}))
}

// IssueAssigned logs an issue promoted to a project.
func (l *Logger) IssueAssigned(ctx context.Context, r *http.Request, contractorID, issueID, projectID primitive.ObjectID) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:     audit.CategoryLifecycle,
		EventType:    audit.EventIssueAssigned,
		ContractorID: &contractorID,
		IssueID:      &issueID,
		ProjectID:    &projectID,
		Success:      true,
	}))
}

// ProgressUpdated logs a progress change.
func (l *Logger) ProgressUpdated(ctx context.Context, r *http.Request, projectID primitive.ObjectID, progress int, status string) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventProgressUpdated,
		ProjectID: &projectID,
		Success:   true,
		Details: map[string]string{
			"progress": strconv.Itoa(progress),
			"status":   status,
		},
	}))
}

// ProjectCompleted logs a completion. shortcut is true when a pending
// project was completed directly.
func (l *Logger) ProjectCompleted(ctx context.Context, r *http.Request, contractorID *primitive.ObjectID, projectID, issueID primitive.ObjectID, shortcut bool) {
	l.Log(ctx, l.request(r, audit.Event{
		Category:     audit.CategoryLifecycle,
		EventType:    audit.EventProjectCompleted,
		ContractorID: contractorID,
		ProjectID:    &projectID,
		IssueID:      &issueID,
		Success:      true,
		Details:      map[string]string{"shortcut": strconv.FormatBool(shortcut)},
	}))
}
