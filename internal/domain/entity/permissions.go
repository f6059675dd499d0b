package entity

// Permission identifiers granted to console users.
const (
	PermViewDashboard    = "view_dashboard"
	PermViewAppointments = "view_appointments"
	PermViewPatients     = "view_patients"
	PermViewTreatments   = "view_treatments"
	PermViewBilling      = "view_billing"
	PermViewSupplies     = "view_supplies"
	PermManageUsers      = "manage_users"
	PermExportData       = "export_data"
)

// AllPermissions lists every permission known to the console.
func AllPermissions() []string {
	return []string{
		PermViewDashboard,
		PermViewAppointments,
		PermViewPatients,
		PermViewTreatments,
		PermViewBilling,
		PermViewSupplies,
		PermManageUsers,
		PermExportData,
	}
}
