package cabinet

import (
	"fmt"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// Column is an exportable field: its record key and its header label.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Supply column identifiers.
const (
	ColumnItem         = "item"
	ColumnPurchaseDate = "dateAchat"
	ColumnInvoiced     = "facture"
	ColumnPrice        = "prix"
	ColumnPaymentType  = "typePaiement"
	ColumnTaxStatus    = "taxe"
)

// Absence column identifiers.
const (
	ColumnEmployee  = "employee"
	ColumnStartDate = "startDate"
	ColumnEndDate   = "endDate"
	ColumnReason    = "reason"
	ColumnStatus    = "status"
)

// SupplyColumns lists the supply columns in export order.
func SupplyColumns() []Column {
	return []Column{
		{ID: ColumnItem, Label: "Article"},
		{ID: ColumnPurchaseDate, Label: "Date d'achat"},
		{ID: ColumnInvoiced, Label: "Facture"},
		{ID: ColumnPrice, Label: "Prix (Dhs)"},
		{ID: ColumnPaymentType, Label: "Type de paiement"},
		{ID: ColumnTaxStatus, Label: "Taxe"},
	}
}

// AbsenceColumns lists the fixed absence export schema.
func AbsenceColumns() []Column {
	return []Column{
		{ID: ColumnEmployee, Label: "Employé"},
		{ID: ColumnStartDate, Label: "Date de début"},
		{ID: ColumnEndDate, Label: "Date de fin"},
		{ID: ColumnReason, Label: "Motif"},
		{ID: ColumnStatus, Label: "Statut"},
	}
}

// ColumnSelection holds one checkbox per supply column.
type ColumnSelection struct {
	Item         bool `json:"item"`
	PurchaseDate bool `json:"dateAchat"`
	Invoiced     bool `json:"facture"`
	Price        bool `json:"prix"`
	PaymentType  bool `json:"typePaiement"`
	TaxStatus    bool `json:"taxe"`
}

// AllColumns is the default selection.
func AllColumns() ColumnSelection {
	return ColumnSelection{
		Item:         true,
		PurchaseDate: true,
		Invoiced:     true,
		Price:        true,
		PaymentType:  true,
		TaxStatus:    true,
	}
}

// SelectColumns builds a selection from column ids.
func SelectColumns(ids ...string) (ColumnSelection, error) {
	var sel ColumnSelection
	for _, id := range ids {
		flag := sel.flag(id)
		if flag == nil {
			return ColumnSelection{}, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
		}
		*flag = true
	}
	return sel, nil
}

// With returns a copy with the given column toggled on or off.
func (c ColumnSelection) With(id string, selected bool) (ColumnSelection, error) {
	flag := c.flag(id)
	if flag == nil {
		return c, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	*flag = selected
	return c, nil
}

// IsSelected reports the checkbox of a column id.
func (c ColumnSelection) IsSelected(id string) bool {
	flag := c.flag(id)
	return flag != nil && *flag
}

// Selected returns the checked supply columns in export order.
func (c ColumnSelection) Selected() []Column {
	var out []Column
	for _, col := range SupplyColumns() {
		if c.IsSelected(col.ID) {
			out = append(out, col)
		}
	}
	return out
}

func (c *ColumnSelection) flag(id string) *bool {
	switch id {
	case ColumnItem:
		return &c.Item
	case ColumnPurchaseDate:
		return &c.PurchaseDate
	case ColumnInvoiced:
		return &c.Invoiced
	case ColumnPrice:
		return &c.Price
	case ColumnPaymentType:
		return &c.PaymentType
	case ColumnTaxStatus:
		return &c.TaxStatus
	}
	return nil
}

// ExportPlan is everything the spreadsheet writer needs.
type ExportPlan struct {
	Tab          Tab
	FilenameBase string
	SheetName    string
	Columns      []Column
	Rows         [][]string
}

// PlanExport builds the export of the active tab.
func PlanExport(s State) (ExportPlan, error) {
	switch s.Tab {
	case TabSupplies, "":
		return PlanSupplyExport(s)
	case TabAbsences:
		return PlanAbsenceExport(s), nil
	}
	return ExportPlan{}, ErrUnknownTab
}

// PlanSupplyExport exports the filtered supplies restricted to the selected
// columns.
func PlanSupplyExport(s State) (ExportPlan, error) {
	columns := s.Columns.Selected()
	if len(columns) == 0 {
		return ExportPlan{}, ErrNoColumnsSelected
	}
	supplies := s.FilteredSupplies()
	rows := make([][]string, 0, len(supplies))
	for _, supply := range supplies {
		rows = append(rows, project(SupplyValues(supply), columns))
	}
	return ExportPlan{
		Tab:          TabSupplies,
		FilenameBase: filenameBase("fournitures", s.Filter.Range),
		SheetName:    "Fournitures",
		Columns:      columns,
		Rows:         rows,
	}, nil
}

// PlanAbsenceExport exports every absence with the fixed schema. The filename
// carries the supplies date range even though absences are not filtered by it.
func PlanAbsenceExport(s State) ExportPlan {
	columns := AbsenceColumns()
	rows := make([][]string, 0, len(s.Absences))
	for _, absence := range s.Absences {
		rows = append(rows, project(AbsenceValues(absence), columns))
	}
	return ExportPlan{
		Tab:          TabAbsences,
		FilenameBase: filenameBase("absences", s.Filter.Range),
		SheetName:    "Absences",
		Columns:      columns,
		Rows:         rows,
	}
}

// SupplyValues renders a supply the way the table shows it.
func SupplyValues(s entity.Supply) map[string]string {
	invoiced := "Non"
	if s.Invoiced {
		invoiced = "Oui"
	}
	return map[string]string{
		ColumnItem:         s.Item,
		ColumnPurchaseDate: s.PurchaseDate.String(),
		ColumnInvoiced:     invoiced,
		ColumnPrice:        s.Price.Display(),
		ColumnPaymentType:  s.PaymentType,
		ColumnTaxStatus:    s.TaxStatus,
	}
}

// AbsenceValues renders an absence the way the list shows it.
func AbsenceValues(a entity.Absence) map[string]string {
	return map[string]string{
		ColumnEmployee:  a.Employee,
		ColumnStartDate: a.StartDate.String(),
		ColumnEndDate:   a.EndDate.String(),
		ColumnReason:    a.Reason,
		ColumnStatus:    a.Status,
	}
}

func project(values map[string]string, columns []Column) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = values[col.ID]
	}
	return row
}

// unknownBound names a range bound that did not parse.
const unknownBound = "sans-date"

// filenameBase names the export after the parsed range only; raw request
// strings never reach file names or archive paths.
func filenameBase(prefix string, r DateRange) string {
	return fmt.Sprintf("%s_%s_%s", prefix, filenameBound(r.StartRaw), filenameBound(r.EndRaw))
}

func filenameBound(raw string) string {
	d, err := entity.ParseISODate(raw)
	if err != nil || d.IsZero() {
		return unknownBound
	}
	return d.ISO()
}
