package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Company events
	EventCompanyRegistered = "company.registered"
	EventCompanyBlocked    = "company.blocked"
	EventCompanyUnblocked  = "company.unblocked"
	EventCompanyDeleted    = "company.deleted"

	// Employee events
	EventEmployeeCreated     = "timeclock.employee.created"
	EventEmployeeUpdated     = "timeclock.employee.updated"
	EventEmployeeDeactivated = "timeclock.employee.deactivated"

	// Schedule events
	EventScheduleUpserted = "timeclock.schedule.upserted"

	// Punch events
	EventPunchRegistered = "timeclock.punch.registered"
	EventPunchUpdated    = "timeclock.punch.updated"
	EventPunchCleared    = "timeclock.punch.cleared"

	// Recalculation events
	EventRecordRecalculated = "timeclock.record.recalculated"
)

// Exchange names
const (
	ExchangeTimeclockEvents  = "timeclock.events"
	ExchangeBackofficeEvents = "backoffice.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Company Events

// CompanyRegisteredEvent is published when a company signs up
type CompanyRegisteredEvent struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	CNPJ      string `json:"cnpj"`
	Email     string `json:"email"`
}

// CompanyBlockedEvent is published when the backoffice blocks a company
type CompanyBlockedEvent struct {
	CompanyID string    `json:"company_id"`
	Reason    string    `json:"reason"`
	BlockedAt time.Time `json:"blocked_at"`
	BlockedBy string    `json:"blocked_by"`
}

// CompanyUnblockedEvent is published when the backoffice unblocks a company
type CompanyUnblockedEvent struct {
	CompanyID   string `json:"company_id"`
	UnblockedBy string `json:"unblocked_by"`
}

// CompanyDeletedEvent is published when the backoffice deletes a company
type CompanyDeletedEvent struct {
	CompanyID string `json:"company_id"`
	DeletedBy string `json:"deleted_by"`
}

// Employee Events

// EmployeeCreatedEvent is published when an employee is created
type EmployeeCreatedEvent struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Name       string `json:"name"`
}

// EmployeeUpdatedEvent is published when an employee is updated
type EmployeeUpdatedEvent struct {
	EmployeeID string         `json:"employee_id"`
	Fields     map[string]any `json:"fields"`
}

// EmployeeDeactivatedEvent is published when an employee is deactivated
type EmployeeDeactivatedEvent struct {
	EmployeeID string `json:"employee_id"`
}

// Schedule Events

// ScheduleUpsertedEvent is published when a weekday schedule is saved
type ScheduleUpsertedEvent struct {
	CompanyID  string  `json:"company_id"`
	DayOfWeek  int     `json:"day_of_week"`
	EntryTime  *string `json:"entry_time,omitempty"`
	LunchStart *string `json:"lunch_start,omitempty"`
	LunchEnd   *string `json:"lunch_end,omitempty"`
	ExitTime   *string `json:"exit_time,omitempty"`
}

// Punch Events

// PunchRegisteredEvent is published when a punch is registered
type PunchRegisteredEvent struct {
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	RecordDate string `json:"record_date"`
	PunchKind  string `json:"punch_kind"`
	PunchTime  string `json:"punch_time"`
}

// PunchUpdatedEvent is published when an existing punch is edited
type PunchUpdatedEvent struct {
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	RecordDate string `json:"record_date"`
	PunchKind  string `json:"punch_kind"`
	PunchTime  string `json:"punch_time"`
}

// PunchClearedEvent is published when a punch field is cleared
type PunchClearedEvent struct {
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	RecordDate string `json:"record_date"`
	PunchKind  string `json:"punch_kind"`
}

// Recalculation Events

// RecordRecalculatedEvent is published after the deviation totals for an
// employee+date are recomputed and persisted
type RecordRecalculatedEvent struct {
	EmployeeID     string `json:"employee_id"`
	RecordDate     string `json:"record_date"`
	ExtraMinutes   int    `json:"extra_minutes"`
	MissingMinutes int    `json:"missing_minutes"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
