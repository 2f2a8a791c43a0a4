package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// WorkflowStatus is the processing state of an invoice inside one work section.
type WorkflowStatus string

const (
	// WorkflowStatusNotStarted is only stored for records that carry notes before work began.
	WorkflowStatusNotStarted WorkflowStatus = "not_started"
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
)

func (s WorkflowStatus) String() string {
	return string(s)
}

// rank orders the states so transitions can be checked for monotonicity.
func (s WorkflowStatus) rank() int {
	switch s {
	case WorkflowStatusInProgress:
		return 1
	case WorkflowStatusCompleted:
		return 2
	default:
		return 0
	}
}

// Before reports whether s comes strictly before other in the workflow.
func (s WorkflowStatus) Before(other WorkflowStatus) bool {
	return s.rank() < other.rank()
}

func (s WorkflowStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *WorkflowStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = WorkflowStatus(str)
	return nil
}

func (s WorkflowStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *WorkflowStatus) Scan(value interface{}) error {
	if value == nil {
		*s = WorkflowStatusNotStarted
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = WorkflowStatus(v)
	case []byte:
		*s = WorkflowStatus(string(v))
	}
	return nil
}
