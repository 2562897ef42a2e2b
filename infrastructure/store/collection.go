package store

import (
	"context"

	"cwsdash/infrastructure/backend"
)

// Collection names one slice of backend state held by a Store.
type Collection string

const (
	Farmers          Collection = "farmers"
	Deliveries       Collection = "deliveries"
	Lots             Collection = "lots"
	ProcessingLogs   Collection = "processing_logs"
	Seasons          Collection = "seasons"
	Expenses         Collection = "expenses"
	Revenues         Collection = "revenues"
	Assets           Collection = "assets"
	LaborLogs        Collection = "labor_logs"
	StorageBags      Collection = "storage_bags"
	QualityChecks    Collection = "quality_checks"
	ComplianceChecks Collection = "compliance_checks"
	AuditLogs        Collection = "audit_logs"
	Users            Collection = "users"
)

// InitialLoad is fetched by Start. Quality, compliance, audit and user
// collections are loaded on demand by the pages that show them.
var InitialLoad = []Collection{
	Farmers, Deliveries, Lots, ProcessingLogs, Seasons,
	Expenses, Revenues, Assets, StorageBags, LaborLogs,
}

func ParseCollection(raw string) (Collection, bool) {
	c := Collection(raw)
	switch c {
	case Farmers, Deliveries, Lots, ProcessingLogs, Seasons, Expenses, Revenues,
		Assets, LaborLogs, StorageBags, QualityChecks, ComplianceChecks, AuditLogs, Users:
		return c, true
	}
	return "", false
}

// Source is the read side of the backend. *backend.API satisfies it.
type Source interface {
	ListFarmers(ctx context.Context) ([]backend.Farmer, error)
	ListDeliveries(ctx context.Context) ([]backend.Delivery, error)
	ListLots(ctx context.Context) ([]backend.Lot, error)
	ListProcessingLogs(ctx context.Context) ([]backend.ProcessingLog, error)
	ListSeasons(ctx context.Context) ([]backend.Season, error)
	ListExpenses(ctx context.Context) ([]backend.Expense, error)
	ListRevenues(ctx context.Context) ([]backend.Revenue, error)
	ListAssets(ctx context.Context) ([]backend.Asset, error)
	ListLaborLogs(ctx context.Context) ([]backend.LaborLog, error)
	ListStorageBags(ctx context.Context) ([]backend.StorageBag, error)
	ListComplianceLogs(ctx context.Context, lotID *int64) ([]backend.ComplianceLog, error)
	ListAuditLogs(ctx context.Context, filter backend.AuditFilter) ([]backend.AuditLog, error)
	ListUsers(ctx context.Context) ([]backend.User, error)
}

var _ Source = (*backend.API)(nil)
