package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/domain/navigation"
	"github.com/cabinet-medical/cabinet-console/internal/observability"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// pageData feeds every console template
type pageData struct {
	Title     string
	Subject   string
	Menu      []navigation.Item
	CanExport bool
	Error     string

	Tab       cabinet.Tab
	Search    string
	StartDate string
	EndDate   string

	Supplies       []entity.Supply
	Absences       []entity.Absence
	SupplyColumns  []cabinet.Column
	AbsenceColumns []cabinet.Column
	ColumnOptions  []columnOption
	PaymentTypes   []string
	TaxStatuses    []string
	Statuses       []string
}

type columnOption struct {
	cabinet.Column
	Selected bool
}

// Pages renders the server-side console
type Pages struct {
	templates  *template.Template
	cabinet    service.CabinetService
	navigation service.NavigationService
	metrics    *observability.Metrics
	logger     Logger
}

// NewPages creates the HTML handlers
func NewPages(
	templates *template.Template,
	cabinet service.CabinetService,
	navigation service.NavigationService,
	metrics *observability.Metrics,
	logger Logger,
) *Pages {
	return &Pages{
		templates:  templates,
		cabinet:    cabinet,
		navigation: navigation,
		metrics:    metrics,
		logger:     logger,
	}
}

// Dashboard handles GET /
func (p *Pages) Dashboard(c *gin.Context) {
	p.render(c, http.StatusOK, "dashboard.html", p.base(c, "Tableau de bord"))
}

// Cabinet handles GET /cabinet
func (p *Pages) Cabinet(c *gin.Context) {
	tab, err := cabinet.ParseTab(c.Query("tab"))
	if err != nil {
		tab = cabinet.TabSupplies
	}
	opts := service.DefaultViewOptions()
	opts.Tab = tab
	opts.Filter = filterFromQuery(c)
	p.renderCabinet(c, http.StatusOK, opts, "")
}

// CreateSupply handles the "Nouvelle fourniture" form
func (p *Pages) CreateSupply(c *gin.Context) {
	supply, err := supplyFromForm(c)
	if err == nil {
		_, err = p.cabinet.AddSupply(c.Request.Context(), supply)
	}
	if err != nil {
		p.renderCabinet(c, statusFor(err), keptView(c, cabinet.TabSupplies), err.Error())
		return
	}
	p.metrics.RecordCreated("supply")
	c.Redirect(http.StatusSeeOther, cabinetURL(c, cabinet.TabSupplies))
}

// CreateAbsence handles the "Nouvelle absence" form
func (p *Pages) CreateAbsence(c *gin.Context) {
	absence, err := absenceFromForm(c)
	if err == nil {
		_, err = p.cabinet.AddAbsence(c.Request.Context(), absence)
	}
	if err != nil {
		p.renderCabinet(c, statusFor(err), keptView(c, cabinet.TabAbsences), err.Error())
		return
	}
	p.metrics.RecordCreated("absence")
	c.Redirect(http.StatusSeeOther, cabinetURL(c, cabinet.TabAbsences))
}

// UpdateAbsenceStatus handles the status select of an absence row
func (p *Pages) UpdateAbsenceStatus(c *gin.Context) {
	if _, err := p.cabinet.UpdateAbsenceStatus(c.Request.Context(), c.Param("id"), c.PostForm("status")); err != nil {
		p.renderCabinet(c, statusFor(err), keptView(c, cabinet.TabAbsences), err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, cabinetURL(c, cabinet.TabAbsences))
}

// Export handles the export form
func (p *Pages) Export(c *gin.Context) {
	tab, err := cabinet.ParseTab(c.PostForm("tab"))
	if err != nil {
		tab = cabinet.TabSupplies
	}
	opts := viewFromForm(c, tab)
	if tab == cabinet.TabSupplies {
		opts.Columns, err = cabinet.SelectColumns(c.PostFormArray("columns")...)
		if err != nil {
			p.renderCabinet(c, http.StatusBadRequest, opts, err.Error())
			return
		}
	}

	file, err := p.cabinet.Export(c.Request.Context(), opts)
	p.metrics.ObserveExport(string(tab), rowsOf(file), err)
	if err != nil {
		p.renderCabinet(c, statusFor(err), opts, exportMessage(err))
		return
	}
	sendFile(c, file)
}

func (p *Pages) renderCabinet(c *gin.Context, status int, opts service.ViewOptions, message string) {
	ctx := c.Request.Context()
	data := p.base(c, "Gestion Cabinet")
	data.Error = message

	state, err := p.cabinet.Snapshot(ctx, opts)
	if err != nil {
		p.logger.Error("Failed to load cabinet", "error", err)
		status, data.Error = http.StatusInternalServerError, "Impossible de charger les données du cabinet."
	}

	data.Tab = state.Tab
	if data.Tab == "" {
		data.Tab = opts.Tab
	}
	data.Search = opts.Filter.Search
	data.StartDate = opts.Filter.Range.StartRaw
	data.EndDate = opts.Filter.Range.EndRaw
	data.Supplies = state.FilteredSupplies()
	data.Absences = state.Absences
	data.SupplyColumns = cabinet.SupplyColumns()
	data.AbsenceColumns = cabinet.AbsenceColumns()
	for _, col := range cabinet.SupplyColumns() {
		data.ColumnOptions = append(data.ColumnOptions, columnOption{Column: col, Selected: opts.Columns.IsSelected(col.ID)})
	}
	data.PaymentTypes = []string{entity.PaymentTypeCard, entity.PaymentTypeCash, entity.PaymentTypeCheque, entity.PaymentTypeTransfer}
	data.TaxStatuses = []string{entity.TaxStatusTTC, entity.TaxStatusHT}
	data.Statuses = []string{entity.AbsenceStatusPending, entity.AbsenceStatusApproved, entity.AbsenceStatusRejected}

	p.render(c, status, "cabinet.html", data)
}

func (p *Pages) base(c *gin.Context, title string) pageData {
	ctx := c.Request.Context()
	subject := subjectOf(c)
	return pageData{
		Title:     title,
		Subject:   subject,
		Menu:      p.navigation.Menu(ctx, subject, c.Request.URL.Path),
		CanExport: p.navigation.CanExport(ctx, subject),
	}
}

func (p *Pages) render(c *gin.Context, status int, name string, data pageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := p.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		p.logger.Error("Failed to render page", "page", name, "error", err)
	}
}

func viewFromForm(c *gin.Context, tab cabinet.Tab) service.ViewOptions {
	return service.ViewOptions{
		Tab: tab,
		Filter: cabinet.Filter{
			Search: c.PostForm("search"),
			Range:  cabinet.ParseDateRange(c.PostForm("startDate"), c.PostForm("endDate")),
		},
		Columns: cabinet.AllColumns(),
	}
}

// keptFilter maps the hidden "keepfilter" fields to the list query parameters
var keptFilter = map[string]string{
	"filterSearch": "search",
	"filterStart":  "startDate",
	"filterEnd":    "endDate",
}

// cabinetURL points back at the tab with the filter the form carried
func cabinetURL(c *gin.Context, tab cabinet.Tab) string {
	q := url.Values{"tab": {string(tab)}}
	for field, param := range keptFilter {
		if v, ok := c.GetPostForm(field); ok {
			q.Set(param, v)
		}
	}
	return "/cabinet?" + q.Encode()
}

// keptView re-renders a failed form with the filter it carried. Missing
// bounds default to today, like a fresh page.
func keptView(c *gin.Context, tab cabinet.Tab) service.ViewOptions {
	opts := service.DefaultViewOptions()
	opts.Tab = tab
	today := entity.Today().ISO()
	start, ok := c.GetPostForm("filterStart")
	if !ok {
		start = today
	}
	end, ok := c.GetPostForm("filterEnd")
	if !ok {
		end = today
	}
	opts.Filter = cabinet.Filter{Search: c.PostForm("filterSearch"), Range: cabinet.ParseDateRange(start, end)}
	return opts
}

func supplyFromForm(c *gin.Context) (entity.Supply, error) {
	purchaseDate, err := entity.ParseDate(c.PostForm("dateAchat"))
	if err != nil {
		return entity.Supply{}, formError(err)
	}
	price, err := entity.ParsePrice(c.PostForm("prix"))
	if err != nil {
		return entity.Supply{}, formError(err)
	}
	return entity.Supply{
		Item:         c.PostForm("item"),
		PurchaseDate: purchaseDate,
		Invoiced:     c.PostForm("facture") == "true",
		Price:        price,
		PaymentType:  c.PostForm("typePaiement"),
		TaxStatus:    c.PostForm("taxe"),
	}, nil
}

func absenceFromForm(c *gin.Context) (entity.Absence, error) {
	start, err := entity.ParseDate(c.PostForm("startDate"))
	if err != nil {
		return entity.Absence{}, formError(err)
	}
	end, err := entity.ParseDate(c.PostForm("endDate"))
	if err != nil {
		return entity.Absence{}, formError(err)
	}
	return entity.Absence{
		Employee:  c.PostForm("employee"),
		StartDate: start,
		EndDate:   end,
		Reason:    c.PostForm("reason"),
	}, nil
}

func formError(err error) error {
	return errors.Join(service.ErrInvalidInput, err)
}

func exportMessage(err error) string {
	if errors.Is(err, cabinet.ErrNoColumnsSelected) {
		return "Sélectionnez au moins une colonne à exporter."
	}
	if statusFor(err) == http.StatusInternalServerError {
		return "L'export a échoué."
	}
	return err.Error()
}

func rowsOf(file *port.ExportFile) int {
	if file == nil {
		return 0
	}
	return file.Rows
}
