package event

// Type identifies the type of domain event
type Type string

const (
	TypeSupplyAdded          Type = "supply.added"
	TypeAbsenceAdded         Type = "absence.added"
	TypeAbsenceStatusChanged Type = "absence.status_changed"
	TypeExportGenerated      Type = "export.generated"
)

// Types lists every event the cabinet publishes.
func Types() []Type {
	return []Type{TypeSupplyAdded, TypeAbsenceAdded, TypeAbsenceStatusChanged, TypeExportGenerated}
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSupplyAdded,
		TypeAbsenceAdded,
		TypeAbsenceStatusChanged,
		TypeExportGenerated:
		return true
	default:
		return false
	}
}
