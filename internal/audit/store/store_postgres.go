package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"storeguard/internal/audit/models"
)

// PostgresStore persists the audit trail in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AppendAuditLog(ctx context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("audit log entry is required")
	}
	oldValues, err := marshalJSON(entry.OldValues)
	if err != nil {
		return fmt.Errorf("marshal old values: %w", err)
	}
	newValues, err := marshalJSON(entry.NewValues)
	if err != nil {
		return fmt.Errorf("marshal new values: %w", err)
	}
	query := `
		INSERT INTO audit_logs (id, admin_id, action, resource_type, resource_id, old_values, new_values, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		nullString(entry.ActorID),
		entry.Action,
		entry.ResourceType,
		nullString(entry.ResourceID),
		oldValues,
		newValues,
		string(entry.Status),
		nullString(entry.ErrorMessage),
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendSecurityEvent(ctx context.Context, event *models.SecurityEvent) error {
	if event == nil {
		return fmt.Errorf("security event is required")
	}
	metadata, err := marshalJSON(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	query := `
		INSERT INTO security_events (id, event_type, severity, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		event.ID,
		string(event.Type),
		string(event.Severity),
		event.Description,
		metadata,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append security event: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendFailedLogin(ctx context.Context, attempt *models.FailedLogin) error {
	if attempt == nil {
		return fmt.Errorf("failed login attempt is required")
	}
	query := `
		INSERT INTO failed_login_attempts (id, email, ip_address, user_agent, attempted_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.Email,
		nullString(attempt.IPAddress),
		nullString(attempt.UserAgent),
		attempt.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append failed login: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountFailedLogins(ctx context.Context, email string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM failed_login_attempts
		WHERE lower(email) = lower($1) AND attempted_at >= $2
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, email, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count failed logins: %w", err)
	}
	return count, nil
}

// marshalJSON returns a nil value for empty maps so the column stays NULL.
func marshalJSON(v map[string]any) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
