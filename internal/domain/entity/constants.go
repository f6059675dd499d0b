package entity

// Tax status constants for Supply
const (
	TaxStatusTTC = "TTC" // toutes taxes comprises
	TaxStatusHT  = "HT"  // hors taxes
)

// Payment type constants for Supply
const (
	PaymentTypeCard     = "Carte Bancaire"
	PaymentTypeCash     = "Espèces"
	PaymentTypeCheque   = "Chèque"
	PaymentTypeTransfer = "Virement"
)

// Status constants for Absence
const (
	AbsenceStatusPending  = "En attente"
	AbsenceStatusApproved = "Validé"
	AbsenceStatusRejected = "Refusé"
)

// IsValidTaxStatus reports whether s is a known tax designation.
func IsValidTaxStatus(s string) bool {
	return s == TaxStatusTTC || s == TaxStatusHT
}

// IsValidPaymentType reports whether s is a known payment type.
func IsValidPaymentType(s string) bool {
	switch s {
	case PaymentTypeCard, PaymentTypeCash, PaymentTypeCheque, PaymentTypeTransfer:
		return true
	}
	return false
}

// IsValidAbsenceStatus reports whether s is a known absence workflow state.
func IsValidAbsenceStatus(s string) bool {
	switch s {
	case AbsenceStatusPending, AbsenceStatusApproved, AbsenceStatusRejected:
		return true
	}
	return false
}
