package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/skyops/nightplan/core/mqtt"
	"github.com/skyops/nightplan/core/model"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Plans []model.Schedule
	Fail  bool
	mu    sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishPlan records the plan or returns an error if configured to fail.
func (m *MockPublisher) PublishPlan(s model.Schedule) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return "", fmt.Errorf("publish failed")
	}
	m.Plans = append(m.Plans, s)
	return fmt.Sprintf("plan-%d", len(m.Plans)), nil
}
