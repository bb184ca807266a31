package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"storeguard/internal/audit/models"
)

// InMemoryStore keeps the audit trail in process memory.
type InMemoryStore struct {
	mu           sync.RWMutex
	auditLogs    []models.Entry
	events       []models.SecurityEvent
	failedLogins []models.FailedLogin
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) AppendAuditLog(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append(s.auditLogs, *entry)
	return nil
}

func (s *InMemoryStore) AppendSecurityEvent(_ context.Context, event *models.SecurityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *InMemoryStore) AppendFailedLogin(_ context.Context, attempt *models.FailedLogin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedLogins = append(s.failedLogins, *attempt)
	return nil
}

// CountFailedLogins counts attempts for email (case-insensitive) at or after since.
func (s *InMemoryStore) CountFailedLogins(_ context.Context, email string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, attempt := range s.failedLogins {
		if strings.EqualFold(attempt.Email, email) && !attempt.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) AuditLogs() []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Entry{}, s.auditLogs...)
}

func (s *InMemoryStore) SecurityEvents() []models.SecurityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SecurityEvent{}, s.events...)
}

func (s *InMemoryStore) FailedLogins() []models.FailedLogin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FailedLogin{}, s.failedLogins...)
}

// Clear drops every record.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = nil
	s.events = nil
	s.failedLogins = nil
}
