package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// UpdateStatusRequest is the body of PATCH /absences/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ExportRequest is the body of POST /api/v1/cabinet/export. Absent dates
// default to today; absent columns select every column.
type ExportRequest struct {
	Tab       string   `json:"tab"`
	Search    string   `json:"search"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	Columns   []string `json:"columns"`
}

// viewOptions converts the request into a cabinet view
func (r ExportRequest) viewOptions() (service.ViewOptions, error) {
	tab, err := cabinet.ParseTab(r.Tab)
	if err != nil {
		return service.ViewOptions{}, err
	}
	columns := cabinet.AllColumns()
	if r.Columns != nil {
		if columns, err = cabinet.SelectColumns(r.Columns...); err != nil {
			return service.ViewOptions{}, err
		}
	}
	today := entity.Today().ISO()
	start, end := today, today
	if r.StartDate != nil {
		start = *r.StartDate
	}
	if r.EndDate != nil {
		end = *r.EndDate
	}
	return service.ViewOptions{
		Tab:     tab,
		Filter:  cabinet.Filter{Search: r.Search, Range: cabinet.ParseDateRange(start, end)},
		Columns: columns,
	}, nil
}

// filterFromQuery reads search, startDate and endDate. A missing bound
// defaults to today; a present but unparseable one empties the result.
func filterFromQuery(c *gin.Context) cabinet.Filter {
	today := entity.Today().ISO()
	start, ok := c.GetQuery("startDate")
	if !ok {
		start = today
	}
	end, ok := c.GetQuery("endDate")
	if !ok {
		end = today
	}
	return cabinet.Filter{
		Search: c.Query("search"),
		Range:  cabinet.ParseDateRange(start, end),
	}
}

// SupplyListResponse is the data of GET /supplies
type SupplyListResponse struct {
	Supplies []entity.Supply `json:"supplies"`
	Count    int             `json:"count"`
	Range    RangeResponse   `json:"range"`
	Search   string          `json:"search"`
}

// RangeResponse echoes the applied date range
type RangeResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Valid     bool   `json:"valid"`
}

// AbsenceListResponse is the data of GET /absences
type AbsenceListResponse struct {
	Absences []entity.Absence `json:"absences"`
	Count    int              `json:"count"`
}

// StatusUpdateResponse reports whether a record changed
type StatusUpdateResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Updated bool   `json:"updated"`
}

// NavigationResponse is the data of GET /navigation
type NavigationResponse struct {
	Subject   string     `json:"subject"`
	Roles     []string   `json:"roles"`
	Items     []MenuItem `json:"items"`
	Current   *MenuItem  `json:"current,omitempty"`
	CanExport bool       `json:"canExport"`
}

// MenuItem is one sidebar link
type MenuItem struct {
	Icon   string `json:"icon"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}
