package activity

import "time"

// ActivityType represents the kind of mutation that was logged
type ActivityType string

const (
	TypeClientCreated        ActivityType = "client_created"
	TypeClientUpdated        ActivityType = "client_updated"
	TypeClientDeleted        ActivityType = "client_deleted"
	TypeLeadCreated          ActivityType = "lead_created"
	TypeLeadUpdated          ActivityType = "lead_updated"
	TypeLeadStatusChanged    ActivityType = "lead_status_changed"
	TypeLeadDeleted          ActivityType = "lead_deleted"
	TypeProjectCreated       ActivityType = "project_created"
	TypeProjectUpdated       ActivityType = "project_updated"
	TypeProjectStatusChanged ActivityType = "project_status_changed"
	TypeProjectDeleted       ActivityType = "project_deleted"
	TypeTaskAdded            ActivityType = "task_added"
	TypeTaskToggled          ActivityType = "task_toggled"
	TypeTaskRenamed          ActivityType = "task_renamed"
	TypeTaskDeleted          ActivityType = "task_deleted"
	TypeTransactionCreated   ActivityType = "transaction_created"
	TypeTransactionPaid      ActivityType = "transaction_paid"
	TypeTransactionDeleted   ActivityType = "transaction_deleted"
)

// EntityType names the relation an entry refers to
type EntityType string

const (
	EntityClient      EntityType = "client"
	EntityLead        EntityType = "lead"
	EntityProject     EntityType = "project"
	EntityTask        EntityType = "task"
	EntityTransaction EntityType = "transaction"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           string       `json:"id"`
	Actor        string       `json:"actor"`
	EntityType   EntityType   `json:"entity_type"`
	EntityID     string       `json:"entity_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}
