package interfaces_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/giygas/openbnf/handlers"
	"github.com/giygas/openbnf/health"
	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/scheduler"
	"github.com/giygas/openbnf/search"
	"github.com/giygas/openbnf/store"
	"github.com/giygas/openbnf/validation"
)

// The concrete types wired together in cmd/serve.go
var (
	_ interfaces.RecordStore    = (*store.MemoryStore)(nil)
	_ interfaces.RecordStore    = (*store.MongoStore)(nil)
	_ interfaces.NameIndexInfo  = (*search.NameIndex)(nil)
	_ interfaces.SearchService  = (*search.Service)(nil)
	_ interfaces.Scheduler      = (*scheduler.Scheduler)(nil)
	_ interfaces.HealthChecker  = (*health.HealthCheckerImpl)(nil)
	_ interfaces.InputValidator = (*validation.DataValidatorImpl)(nil)
	_ interfaces.DataValidator  = (*validation.DataValidatorImpl)(nil)
	_ interfaces.HTTPHandler    = (*handlers.HTTPHandlerImpl)(nil)
)

// MockScheduler implements Scheduler interface for testing
type MockScheduler struct {
	started bool
	stopped bool
}

func (m *MockScheduler) Start() error {
	if m.started {
		return errors.New("already started")
	}
	m.started = true
	return nil
}

func (m *MockScheduler) Stop() {
	m.stopped = true
}

func TestSchedulerContract(t *testing.T) {
	var s interfaces.Scheduler = &MockScheduler{}

	if err := s.Start(); err != nil {
		t.Fatalf("First start should succeed: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("Second start should fail")
	}
	s.Stop()
	if !s.(*MockScheduler).stopped {
		t.Error("Stop should be recorded")
	}
}

func TestDataQualityReportJSON(t *testing.T) {
	report := interfaces.DataQualityReport{
		DuplicateNames:    []string{"Aspirin"},
		DanglingCodes:     1,
		DanglingCodesList: []string{"9999"},
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal report: %v", err)
	}

	for _, key := range []string{
		"duplicate_names",
		"duplicate_codes",
		"drugs_without_doses",
		"drugs_without_doses_names",
		"dangling_codes",
		"dangling_codes_list",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %s in report JSON", key)
		}
	}
	if decoded["dangling_codes"] != float64(1) {
		t.Errorf("Expected dangling_codes 1, got %v", decoded["dangling_codes"])
	}
}
