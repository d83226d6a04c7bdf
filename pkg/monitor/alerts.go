// Package monitor observes executed statements and raises in-process
// alerts, adapted from a SQL-Server-log-watching alert manager into an
// Engine-embedded statement observer: no log files, just the statement the
// engine just ran.
package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/corvid-db/corvid/pkg/parser"
)

// AlertLevel is the severity of an Alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertError
)

func (a AlertLevel) String() string {
	switch a {
	case AlertInfo:
		return "INFO"
	case AlertWarning:
		return "WARNING"
	case AlertError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ExecutedStatement is what an Engine reports to a StatementMonitor after
// running one statement, successfully or not.
type ExecutedStatement struct {
	Text        string
	Statement   parser.Statement // nil if parsing failed
	Duration    time.Duration
	Err         error
	RowsScanned int // rows iterated while evaluating a SELECT's WHERE tree
}

// Alert is one triggered AlertRule's finding.
type Alert struct {
	Level     AlertLevel
	Type      string
	Message   string
	Statement *ExecutedStatement
	Timestamp time.Time
}

// AlertRule inspects an ExecutedStatement and optionally raises an Alert.
type AlertRule interface {
	Check(es *ExecutedStatement) *Alert
	Name() string
}

// AlertHandler reacts to a triggered Alert, e.g. logging it.
type AlertHandler func(*Alert)

// StatementMonitor evaluates a set of AlertRules against every statement
// an Engine executes, recording triggered alerts and dispatching them to
// any registered handlers.
type StatementMonitor struct {
	mu       sync.RWMutex
	rules    []AlertRule
	handlers []AlertHandler
	alerts   []*Alert
}

// NewStatementMonitor builds an empty monitor; callers add rules with
// AddRule before attaching it to an Engine.
func NewStatementMonitor() *StatementMonitor {
	return &StatementMonitor{}
}

// AddRule registers an AlertRule evaluated on every Observe call.
func (m *StatementMonitor) AddRule(rule AlertRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
}

// AddHandler registers a callback invoked whenever a rule triggers.
func (m *StatementMonitor) AddHandler(handler AlertHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Observe runs every registered rule against es, recording and dispatching
// any triggered alerts.
func (m *StatementMonitor) Observe(es *ExecutedStatement) {
	m.mu.RLock()
	rules := m.rules
	handlers := m.handlers
	m.mu.RUnlock()

	for _, rule := range rules {
		alert := rule.Check(es)
		if alert == nil {
			continue
		}
		m.mu.Lock()
		m.alerts = append(m.alerts, alert)
		m.mu.Unlock()
		for _, handler := range handlers {
			handler(alert)
		}
	}
}

// Alerts returns every alert raised so far, oldest first.
func (m *StatementMonitor) Alerts() []*Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// SlowStatementRule alerts when a statement's Duration meets or exceeds
// Threshold.
type SlowStatementRule struct {
	Threshold time.Duration
}

func (r *SlowStatementRule) Name() string { return "SlowStatementRule" }

func (r *SlowStatementRule) Check(es *ExecutedStatement) *Alert {
	if es.Duration < r.Threshold {
		return nil
	}
	return &Alert{
		Level:     AlertWarning,
		Type:      "SLOW_STATEMENT",
		Message:   fmt.Sprintf("statement took %s (threshold %s)", es.Duration, r.Threshold),
		Statement: es,
		Timestamp: time.Now(),
	}
}

// FullTableScanRule alerts when a SELECT with no WHERE clause scans at
// least RowThreshold rows.
type FullTableScanRule struct {
	RowThreshold int
}

func (r *FullTableScanRule) Name() string { return "FullTableScanRule" }

func (r *FullTableScanRule) Check(es *ExecutedStatement) *Alert {
	sel, ok := es.Statement.(*parser.SelectStatement)
	if !ok || sel.Where != nil {
		return nil
	}
	if es.RowsScanned < r.RowThreshold {
		return nil
	}
	return &Alert{
		Level:     AlertWarning,
		Type:      "FULL_TABLE_SCAN",
		Message:   fmt.Sprintf("SELECT FROM %s has no WHERE clause and scanned %d rows", sel.Table, es.RowsScanned),
		Statement: es,
		Timestamp: time.Now(),
	}
}

// ExecutionErrorRule alerts whenever a statement fails, regardless of
// which stage (lex/parse/validate) raised the error.
type ExecutionErrorRule struct{}

func (r *ExecutionErrorRule) Name() string { return "ExecutionErrorRule" }

func (r *ExecutionErrorRule) Check(es *ExecutedStatement) *Alert {
	if es.Err == nil {
		return nil
	}
	return &Alert{
		Level:     AlertError,
		Type:      "STATEMENT_ERROR",
		Message:   es.Err.Error(),
		Statement: es,
		Timestamp: time.Now(),
	}
}

// ConsoleAlertHandler prints an alert to stdout.
func ConsoleAlertHandler(alert *Alert) {
	fmt.Printf("[%s] %s: %s\n", alert.Level, alert.Type, alert.Message)
}
