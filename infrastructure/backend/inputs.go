package backend

// Request payloads. The validate tags are checked by the form handlers
// before anything is sent.

type FarmerInput struct {
	Name     string        `json:"name" validate:"required,min=2,max=120"`
	Phone    string        `json:"phone" validate:"required"`
	Location LocationInput `json:"location"`
	Active   bool          `json:"active"`
}

type LocationInput struct {
	Sector   string `json:"sector" validate:"required"`
	Cell     string `json:"cell"`
	Village  string `json:"village"`
	FarmType string `json:"farm_type"`
}

type DeliveryInput struct {
	FarmerID      int64   `json:"farmer_id" validate:"required,gt=0"`
	SeasonID      *int64  `json:"season_id,omitempty"`
	LotID         *int64  `json:"lot_id,omitempty"`
	DeliveryDate  string  `json:"delivery_date" validate:"required"`
	WeightKg      float64 `json:"weight_kg" validate:"gt=0"`
	UnitPrice     float64 `json:"unit_price" validate:"gt=0"`
	TotalAmount   float64 `json:"total_amount"`
	QualityScore  float64 `json:"quality_score" validate:"gte=0,lte=100"`
	PaymentStatus string  `json:"payment_status" validate:"oneof=pending paid"`
}

type PaymentUpdate struct {
	PaymentStatus string `json:"payment_status" validate:"oneof=pending paid"`
}

type LotInput struct {
	LotName          string `json:"lot_name" validate:"required,max=80"`
	ProcessingMethod string `json:"processing_method" validate:"oneof=washed natural honey"`
	Grade            string `json:"grade"`
	Status           string `json:"status" validate:"oneof=created in_process completed cancelled"`
	SeasonID         *int64 `json:"season_id,omitempty"`
}

type LotStatusUpdate struct {
	Status string `json:"status" validate:"oneof=created in_process completed cancelled"`
}

type ProcessingLogInput struct {
	LotID    int64  `json:"lot_id" validate:"required,gt=0"`
	Stage    string `json:"stage" validate:"oneof=received pulped fermented washed dried stored"`
	LoggedAt string `json:"logged_at" validate:"required"`
	Notes    string `json:"notes"`
}

type StorageBagInput struct {
	LotID      int64   `json:"lot_id" validate:"required,gt=0"`
	BagCode    string  `json:"bag_code" validate:"required,max=40"`
	WeightKg   float64 `json:"weight_kg" validate:"gt=0"`
	Moisture   float64 `json:"moisture" validate:"gte=0,lte=100"`
	StoredDate string  `json:"stored_date" validate:"required"`
}

type DispatchUpdate struct {
	Dispatched   bool   `json:"dispatched"`
	DispatchedAt string `json:"dispatched_at"`
}

type SeasonInput struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Active    bool   `json:"active"`
}

type ExpenseInput struct {
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	ExpenseDate string  `json:"expense_date" validate:"required"`
	SeasonID    *int64  `json:"season_id,omitempty"`
	LotID       *int64  `json:"lot_id,omitempty"`
}

type RevenueInput struct {
	Buyer       string  `json:"buyer" validate:"required"`
	QuantityKg  float64 `json:"quantity_kg" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gt=0"`
	Amount      float64 `json:"amount"`
	RevenueDate string  `json:"revenue_date" validate:"required"`
	SeasonID    *int64  `json:"season_id,omitempty"`
	LotID       *int64  `json:"lot_id,omitempty"`
}

type LaborLogInput struct {
	WorkerName string  `json:"worker_name" validate:"required"`
	Task       string  `json:"task" validate:"required"`
	WorkDate   string  `json:"work_date" validate:"required"`
	Days       float64 `json:"days" validate:"gt=0"`
	DailyRate  float64 `json:"daily_rate" validate:"gt=0"`
	Amount     float64 `json:"amount"`
	SeasonID   *int64  `json:"season_id,omitempty"`
	LotID      *int64  `json:"lot_id,omitempty"`
}

type AssetInput struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category" validate:"required"`
	PurchaseValue float64 `json:"purchase_value" validate:"gt=0"`
	PurchaseDate  string  `json:"purchase_date" validate:"required"`
	LifespanYears float64 `json:"lifespan_years" validate:"gt=0"`
	SeasonID      *int64  `json:"season_id,omitempty"`
}

type ComplianceLogInput struct {
	LotID           int64   `json:"lot_id" validate:"required,gt=0"`
	Type            string  `json:"type" validate:"oneof=CPQI CPSI"`
	Score           float64 `json:"score" validate:"gte=0,lte=100"`
	Status          string  `json:"status" validate:"required"`
	DefectsCount    *int    `json:"defects_count,omitempty"`
	PPELevel        string  `json:"ppe_level,omitempty"`
	WastewaterLevel string  `json:"wastewater_level,omitempty"`
	LaborLevel      string  `json:"labor_level,omitempty"`
	Notes           string  `json:"notes"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"oneof=admin operator finance sustainability"`
}

// AuditFilter maps onto the audit-log query parameters.
type AuditFilter struct {
	User      string
	Action    string
	TableName string
}
