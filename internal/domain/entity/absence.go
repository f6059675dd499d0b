package entity

// Absence represents a staff absence request
type Absence struct {
	ID        string `json:"id"`
	Employee  string `json:"employee"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}
