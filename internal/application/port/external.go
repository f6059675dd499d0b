package port

import (
	"context"

	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/event"
)

// PermissionProvider answers capability queries for a console user
type PermissionProvider interface {
	HasPermission(ctx context.Context, subject, permission string) (bool, error)
}

// RoleProvider lists the roles directly assigned to a console user
type RoleProvider interface {
	RolesFor(subject string) ([]string, error)
}

// ExportFile is a rendered spreadsheet ready for download
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

// SpreadsheetExporter serializes an export plan into a workbook
type SpreadsheetExporter interface {
	Export(ctx context.Context, plan cabinet.ExportPlan) (*ExportFile, error)
}

// EventPublisher receives cabinet change events after they are committed
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event)
}
