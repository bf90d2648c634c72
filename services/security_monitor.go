package services

import (
	"log"
	"sync"
	"time"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = 1 * time.Hour
	maxStoredAlerts      = 100
)

// SecurityEventMonitor counts failed logins per source IP and per targeted account
type SecurityEventMonitor struct {
	mu        sync.Mutex
	failures  map[string][]time.Time // "ip:<addr>" or "account:<role>/<login>" -> failure timestamps
	lastAlert map[string]time.Time
	alerts    []SecurityAlert
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time `json:"timestamp"`
	Key       string    `json:"key"`
	Reason    string    `json:"reason"`
	Level     string    `json:"level"`
}

// Monitor is the process-wide monitor fed by the login handlers
var Monitor *SecurityEventMonitor

// InitSecurityMonitor initializes the global monitor
func InitSecurityMonitor() {
	Monitor = NewSecurityEventMonitor()
	go Monitor.cleanup()
}

// NewSecurityEventMonitor returns an empty monitor without a cleanup loop
func NewSecurityEventMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		failures:  make(map[string][]time.Time),
		lastAlert: make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failed attempt from ip against login of the given role.
// Five failures inside ten minutes on either key raise an alert, at most once an hour per key.
func (m *SecurityEventMonitor) TrackFailedLogin(ip, role, login string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.recordLocked("ip:"+ip, now, "Repeated failed logins from one address")
	if login != "" {
		m.recordLocked("account:"+role+"/"+login, now, "Repeated failed logins against one account")
	}
}

func (m *SecurityEventMonitor) recordLocked(key string, now time.Time, reason string) {
	windowStart := now.Add(-failedLoginWindow)
	recent := m.failures[key][:0]
	for _, t := range m.failures[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.failures[key] = recent

	if len(recent) < failedLoginThreshold {
		return
	}
	if last, ok := m.lastAlert[key]; ok && now.Sub(last) < alertCooldown {
		return
	}
	m.lastAlert[key] = now

	alert := SecurityAlert{Timestamp: now, Key: key, Reason: reason, Level: "CRITICAL"}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxStoredAlerts {
		m.alerts = m.alerts[:maxStoredAlerts]
	}
	log.Printf("[SECURITY ALERT] %s (%s)", reason, key)
}

// GetRecentAlerts returns a copy of recent alerts, newest first
func (m *SecurityEventMonitor) GetRecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alertsCopy := make([]SecurityAlert, len(m.alerts))
	copy(alertsCopy, m.alerts)
	return alertsCopy
}

// cleanup periodically drops keys with no recent activity
func (m *SecurityEventMonitor) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for key, attempts := range m.failures {
			if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > failedLoginWindow {
				delete(m.failures, key)
			}
		}
		for key, last := range m.lastAlert {
			if now.Sub(last) > alertCooldown {
				delete(m.lastAlert, key)
			}
		}
		m.mu.Unlock()
	}
}
