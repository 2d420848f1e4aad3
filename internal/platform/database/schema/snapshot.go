package schema

// SnapshotTable represents the 'snapshot' audit-trail table.
type SnapshotTable struct {
	Table        string
	ID           string
	UserID       string
	Operation    string
	ResourceType string
	ResourceID   string
	ResourceName string
	Data         string
	Time         string
}

var Snapshot = SnapshotTable{
	Table:        "snapshot",
	ID:           "id",
	UserID:       "user_id",
	Operation:    "operation",
	ResourceType: "resource_type",
	ResourceID:   "resource_id",
	ResourceName: "resource_name",
	Data:         "data",
	Time:         "time",
}

func (t SnapshotTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Operation, t.ResourceType, t.ResourceID, t.ResourceName, t.Data, t.Time}
}
