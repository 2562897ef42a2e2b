package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// API is the set of resource accessors for one bearer token.
type API struct {
	c     *Client
	token string
}

func list[T any](ctx context.Context, a *API, path string, query url.Values) ([]T, error) {
	var out []T
	if err := a.c.do(ctx, a.token, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func send[T any](ctx context.Context, a *API, method, path string, in any) (T, error) {
	var out T
	err := a.c.do(ctx, a.token, method, path, nil, in, &out)
	return out, err
}

func itemPath(resource string, id int64) string {
	return resource + "/" + strconv.FormatInt(id, 10)
}

func (a *API) ListFarmers(ctx context.Context) ([]Farmer, error) {
	return list[Farmer](ctx, a, "/farmers", nil)
}

func (a *API) CreateFarmer(ctx context.Context, in FarmerInput) (Farmer, error) {
	return send[Farmer](ctx, a, http.MethodPost, "/farmers", in)
}

func (a *API) ListDeliveries(ctx context.Context) ([]Delivery, error) {
	return list[Delivery](ctx, a, "/deliveries", nil)
}

func (a *API) CreateDelivery(ctx context.Context, in DeliveryInput) (Delivery, error) {
	return send[Delivery](ctx, a, http.MethodPost, "/deliveries", in)
}

func (a *API) UpdateDeliveryPayment(ctx context.Context, id int64, in PaymentUpdate) (Delivery, error) {
	return send[Delivery](ctx, a, http.MethodPut, itemPath("/deliveries", id), in)
}

func (a *API) ListLots(ctx context.Context) ([]Lot, error) {
	return list[Lot](ctx, a, "/lots", nil)
}

func (a *API) CreateLot(ctx context.Context, in LotInput) (Lot, error) {
	return send[Lot](ctx, a, http.MethodPost, "/lots", in)
}

func (a *API) UpdateLotStatus(ctx context.Context, id int64, in LotStatusUpdate) (Lot, error) {
	return send[Lot](ctx, a, http.MethodPut, itemPath("/lots", id), in)
}

func (a *API) ListProcessingLogs(ctx context.Context) ([]ProcessingLog, error) {
	return list[ProcessingLog](ctx, a, "/processing-logs", nil)
}

func (a *API) CreateProcessingLog(ctx context.Context, in ProcessingLogInput) (ProcessingLog, error) {
	return send[ProcessingLog](ctx, a, http.MethodPost, "/processing-logs", in)
}

func (a *API) ListSeasons(ctx context.Context) ([]Season, error) {
	return list[Season](ctx, a, "/seasons", nil)
}

func (a *API) CurrentSeason(ctx context.Context) (Season, error) {
	return send[Season](ctx, a, http.MethodGet, "/seasons/current", nil)
}

func (a *API) CreateSeason(ctx context.Context, in SeasonInput) (Season, error) {
	return send[Season](ctx, a, http.MethodPost, "/seasons", in)
}

func (a *API) ListExpenses(ctx context.Context) ([]Expense, error) {
	return list[Expense](ctx, a, "/expenses", nil)
}

func (a *API) CreateExpense(ctx context.Context, in ExpenseInput) (Expense, error) {
	return send[Expense](ctx, a, http.MethodPost, "/expenses", in)
}

func (a *API) ListRevenues(ctx context.Context) ([]Revenue, error) {
	return list[Revenue](ctx, a, "/revenues", nil)
}

func (a *API) CreateRevenue(ctx context.Context, in RevenueInput) (Revenue, error) {
	return send[Revenue](ctx, a, http.MethodPost, "/revenues", in)
}

func (a *API) ListAssets(ctx context.Context) ([]Asset, error) {
	return list[Asset](ctx, a, "/assets", nil)
}

func (a *API) CreateAsset(ctx context.Context, in AssetInput) (Asset, error) {
	return send[Asset](ctx, a, http.MethodPost, "/assets", in)
}

func (a *API) ListLaborLogs(ctx context.Context) ([]LaborLog, error) {
	return list[LaborLog](ctx, a, "/labor-logs", nil)
}

func (a *API) CreateLaborLog(ctx context.Context, in LaborLogInput) (LaborLog, error) {
	return send[LaborLog](ctx, a, http.MethodPost, "/labor-logs", in)
}

func (a *API) ListStorageBags(ctx context.Context) ([]StorageBag, error) {
	return list[StorageBag](ctx, a, "/storage", nil)
}

func (a *API) CreateStorageBag(ctx context.Context, in StorageBagInput) (StorageBag, error) {
	return send[StorageBag](ctx, a, http.MethodPost, "/storage", in)
}

func (a *API) DispatchStorageBag(ctx context.Context, id int64, in DispatchUpdate) (StorageBag, error) {
	return send[StorageBag](ctx, a, http.MethodPut, itemPath("/storage", id), in)
}

// ListComplianceLogs returns every log, or only the lot's logs when lotID is set.
func (a *API) ListComplianceLogs(ctx context.Context, lotID *int64) ([]ComplianceLog, error) {
	var query url.Values
	if lotID != nil {
		query = url.Values{"lot_id": {strconv.FormatInt(*lotID, 10)}}
	}
	return list[ComplianceLog](ctx, a, "/compliance-logs", query)
}

func (a *API) CreateComplianceLog(ctx context.Context, in ComplianceLogInput) (ComplianceLog, error) {
	return send[ComplianceLog](ctx, a, http.MethodPost, "/compliance-logs", in)
}

func (a *API) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]AuditLog, error) {
	query := url.Values{}
	if filter.User != "" {
		query.Set("user", filter.User)
	}
	if filter.Action != "" {
		query.Set("action", filter.Action)
	}
	if filter.TableName != "" {
		query.Set("table_name", filter.TableName)
	}
	return list[AuditLog](ctx, a, "/audit-logs", query)
}

func (a *API) ListUsers(ctx context.Context) ([]User, error) {
	return list[User](ctx, a, "/users", nil)
}

func (a *API) Register(ctx context.Context, in RegisterInput) (User, error) {
	return send[User](ctx, a, http.MethodPost, "/auth/register", in)
}

func (a *API) Me(ctx context.Context) (User, error) {
	return send[User](ctx, a, http.MethodGet, "/auth/me", nil)
}

// Login exchanges credentials for a bearer token. No token is attached.
func (c *Client) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, "", http.MethodPost, "/auth/login", nil, in, &out)
	return out, err
}
