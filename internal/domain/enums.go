package domain

// Frequency represents how often a template produces occurrences.
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiweekly  Frequency = "BIWEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

func (f Frequency) String() string { return string(f) }

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// ChecklistStatus represents where a checklist sits in its lifecycle.
type ChecklistStatus string

const (
	ChecklistStatusPending    ChecklistStatus = "PENDING"
	ChecklistStatusInProgress ChecklistStatus = "IN_PROGRESS"
	ChecklistStatusCompleted  ChecklistStatus = "COMPLETED"
	ChecklistStatusApproved   ChecklistStatus = "APPROVED"
	ChecklistStatusRejected   ChecklistStatus = "REJECTED"
)

func (s ChecklistStatus) String() string { return string(s) }

func (s ChecklistStatus) IsValid() bool {
	switch s {
	case ChecklistStatusPending, ChecklistStatusInProgress, ChecklistStatusCompleted,
		ChecklistStatusApproved, ChecklistStatusRejected:
		return true
	}
	return false
}

// ItemDataType represents the kind of value a checklist item records.
type ItemDataType string

const (
	ItemDataTypeText    ItemDataType = "TEXT"
	ItemDataTypeNumber  ItemDataType = "NUMBER"
	ItemDataTypeBoolean ItemDataType = "BOOLEAN"
	ItemDataTypePhoto   ItemDataType = "PHOTO"
)

func (t ItemDataType) String() string { return string(t) }

func (t ItemDataType) IsValid() bool {
	switch t {
	case ItemDataTypeText, ItemDataTypeNumber, ItemDataTypeBoolean, ItemDataTypePhoto:
		return true
	}
	return false
}

// ApprovalDecision represents a reviewer's verdict on an item response.
type ApprovalDecision string

const (
	ApprovalDecisionApproved ApprovalDecision = "APPROVED"
	ApprovalDecisionRejected ApprovalDecision = "REJECTED"
)

func (d ApprovalDecision) String() string { return string(d) }

func (d ApprovalDecision) IsValid() bool {
	switch d {
	case ApprovalDecisionApproved, ApprovalDecisionRejected:
		return true
	}
	return false
}

// TriggerSource records what initiated a generation run.
type TriggerSource string

const (
	TriggerSourceScheduled TriggerSource = "SCHEDULED"
	TriggerSourceManual    TriggerSource = "MANUAL"
)

func (t TriggerSource) String() string { return string(t) }

func (t TriggerSource) IsValid() bool {
	switch t {
	case TriggerSourceScheduled, TriggerSourceManual:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeTemplate  EntityType = "TEMPLATE"
	EntityTypeProperty  EntityType = "PROPERTY"
	EntityTypeChecklist EntityType = "CHECKLIST"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeTemplate, EntityTypeProperty, EntityTypeChecklist:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionRetire       AuditAction = "RETIRE"
	AuditActionAssign       AuditAction = "ASSIGN"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionRetire,
		AuditActionAssign, AuditActionStatusChange:
		return true
	}
	return false
}
