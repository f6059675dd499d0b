package cabinet

import (
	"time"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// DemoSupplies is the sample data shown on a fresh console.
func DemoSupplies() []entity.Supply {
	return []entity.Supply{
		{
			ID:           "1",
			Item:         "Papier d'impression",
			PurchaseDate: entity.NewDate(2024, time.March, 15),
			Invoiced:     true,
			Price:        entity.MustParsePrice("45,00"),
			PaymentType:  entity.PaymentTypeCard,
			TaxStatus:    entity.TaxStatusTTC,
		},
		{
			ID:           "2",
			Item:         "Stylos",
			PurchaseDate: entity.NewDate(2024, time.March, 16),
			Invoiced:     false,
			Price:        entity.MustParsePrice("12,50"),
			PaymentType:  entity.PaymentTypeCash,
			TaxStatus:    entity.TaxStatusHT,
		},
	}
}

// DemoAbsences is the sample absence list shown on a fresh console.
func DemoAbsences() []entity.Absence {
	return []entity.Absence{
		{
			ID:        "1",
			Employee:  "Marie Secrétaire",
			StartDate: entity.NewDate(2024, time.March, 20),
			EndDate:   entity.NewDate(2024, time.March, 22),
			Reason:    "Congé",
			Status:    entity.AbsenceStatusPending,
		},
	}
}

// DemoState is NewState loaded with the demo records.
func DemoState() State {
	s := NewState()
	for _, supply := range DemoSupplies() {
		s = s.WithSupply(supply)
	}
	for _, absence := range DemoAbsences() {
		s = s.WithAbsence(absence)
	}
	return s
}
