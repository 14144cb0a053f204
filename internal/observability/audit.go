package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const auditEventVersion = 1

type AuditInput struct {
	EventName   string
	ActorUserID string
	TargetType  string
	TargetID    string
	Action      string
	Outcome     string
	Reason      string
}

type AuditEvent struct {
	EventVersion int    `json:"event_version"`
	EventName    string `json:"event_name"`
	ActorUserID  string `json:"actor_user_id"`
	ActorIP      string `json:"actor_ip"`
	TargetType   string `json:"target_type"`
	TargetID     string `json:"target_id"`
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason"`
	RequestID    string `json:"request_id"`
	TS           string `json:"ts"`
}

// Validate reports every missing required field in one error.
func (e AuditEvent) Validate() error {
	if e.EventVersion != auditEventVersion {
		return fmt.Errorf("unsupported audit event_version %d", e.EventVersion)
	}
	required := []struct {
		name  string
		value string
	}{
		{"event_name", e.EventName},
		{"actor_user_id", e.ActorUserID},
		{"actor_ip", e.ActorIP},
		{"target_type", e.TargetType},
		{"target_id", e.TargetID},
		{"action", e.Action},
		{"outcome", e.Outcome},
		{"reason", e.Reason},
		{"request_id", e.RequestID},
		{"ts", e.TS},
	}
	var errs []error
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("audit field %s is required", f.name))
		}
	}
	return errors.Join(errs...)
}

func BuildAuditEvent(r *http.Request, in AuditInput) AuditEvent {
	return AuditEvent{
		EventVersion: auditEventVersion,
		EventName:    in.EventName,
		ActorUserID:  defaultString(in.ActorUserID, "anonymous"),
		ActorIP:      defaultString(requestIP(r), "unknown"),
		TargetType:   defaultString(in.TargetType, "none"),
		TargetID:     defaultString(in.TargetID, "none"),
		Action:       in.Action,
		Outcome:      in.Outcome,
		Reason:       defaultString(in.Reason, "none"),
		RequestID:    defaultString(requestID(r), "unknown"),
		TS:           time.Now().UTC().Format(time.RFC3339),
	}
}

// EmitAudit logs a structured audit event. Invalid events are still logged
// with an audit_invalid attribute so nothing is dropped silently. Trace
// correlation comes from the process log handler.
func EmitAudit(r *http.Request, in AuditInput, attrs ...any) {
	ev := BuildAuditEvent(r, in)
	args := make([]any, 0, 26+len(attrs))
	args = append(args,
		"event_version", ev.EventVersion,
		"event_name", ev.EventName,
		"actor_user_id", ev.ActorUserID,
		"actor_ip", ev.ActorIP,
		"target_type", ev.TargetType,
		"target_id", ev.TargetID,
		"action", ev.Action,
		"outcome", ev.Outcome,
		"reason", ev.Reason,
		"request_id", ev.RequestID,
		"ts", ev.TS,
		"method", r.Method,
		"path", r.URL.Path,
	)
	if err := ev.Validate(); err != nil {
		args = append(args, "audit_invalid", err.Error())
	}
	slog.InfoContext(r.Context(), "audit", append(args, attrs...)...)
}

func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(chimiddleware.RequestIDHeader)
}

func requestIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
