package model

// Snapshot is the full exportable state. A nil collection means the
// collection was absent from the serialized form.
type Snapshot struct {
	Events     map[string]Event   `json:"events"`
	Days       map[Date]DayRecord `json:"days"`
	Categories []Category         `json:"categories"`
}
