package backend

// Wire records as the CWS backend serializes them. Every field the backend
// may omit or null is a pointer or a Number.

type NamedRef struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type LotRef struct {
	ID      int64   `json:"id"`
	LotName *string `json:"lot_name"`
}

type UserRef struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type FarmerLocation struct {
	Sector   *string `json:"sector"`
	Cell     *string `json:"cell"`
	Village  *string `json:"village"`
	FarmType *string `json:"farm_type"`
}

type Farmer struct {
	ID               int64           `json:"id"`
	Name             *string         `json:"name"`
	Phone            *string         `json:"phone"`
	Location         *FarmerLocation `json:"location"`
	Active           *bool           `json:"active"`
	RegistrationDate *string         `json:"registration_date"`
}

type Delivery struct {
	ID            int64     `json:"id"`
	FarmerID      int64     `json:"farmer_id"`
	SeasonID      *int64    `json:"season_id"`
	LotID         *int64    `json:"lot_id"`
	DeliveryDate  *string   `json:"delivery_date"`
	WeightKg      Number    `json:"weight_kg"`
	UnitPrice     Number    `json:"unit_price"`
	TotalAmount   Number    `json:"total_amount"`
	QualityScore  Number    `json:"quality_score"`
	PaymentStatus *string   `json:"payment_status"`
	Farmer        *NamedRef `json:"farmer"`
	Season        *NamedRef `json:"season"`
}

type Lot struct {
	ID               int64   `json:"id"`
	LotName          *string `json:"lot_name"`
	ProcessingMethod *string `json:"processing_method"`
	Grade            *string `json:"grade"`
	Status           *string `json:"status"`
	SeasonID         *int64  `json:"season_id"`
	CreatedAt        *string `json:"created_at"`
}

type ProcessingLog struct {
	ID       int64     `json:"id"`
	LotID    int64     `json:"lot_id"`
	Stage    *string   `json:"stage"`
	LoggedAt *string   `json:"logged_at"`
	Operator *NamedRef `json:"operator"`
	Notes    *string   `json:"notes"`
}

type StorageBag struct {
	ID           int64   `json:"id"`
	LotID        int64   `json:"lot_id"`
	Lot          *LotRef `json:"lot"`
	BagCode      *string `json:"bag_code"`
	WeightKg     Number  `json:"weight_kg"`
	Moisture     Number  `json:"moisture"`
	StoredDate   *string `json:"stored_date"`
	Dispatched   *bool   `json:"dispatched"`
	DispatchedAt *string `json:"dispatched_at"`
}

type Season struct {
	ID        int64   `json:"id"`
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Active    *bool   `json:"active"`
}

type Expense struct {
	ID          int64   `json:"id"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Amount      Number  `json:"amount"`
	ExpenseDate *string `json:"expense_date"`
	SeasonID    *int64  `json:"season_id"`
	LotID       *int64  `json:"lot_id"`
}

type Revenue struct {
	ID          int64   `json:"id"`
	Buyer       *string `json:"buyer"`
	QuantityKg  Number  `json:"quantity_kg"`
	UnitPrice   Number  `json:"unit_price"`
	Amount      Number  `json:"amount"`
	RevenueDate *string `json:"revenue_date"`
	SeasonID    *int64  `json:"season_id"`
	LotID       *int64  `json:"lot_id"`
}

type LaborLog struct {
	ID        int64     `json:"id"`
	Worker    *NamedRef `json:"worker"`
	Task      *string   `json:"task"`
	WorkDate  *string   `json:"work_date"`
	Days      Number    `json:"days"`
	DailyRate Number    `json:"daily_rate"`
	Amount    Number    `json:"amount"`
	SeasonID  *int64    `json:"season_id"`
	LotID     *int64    `json:"lot_id"`
}

type Asset struct {
	ID            int64   `json:"id"`
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	PurchaseValue Number  `json:"purchase_value"`
	PurchaseDate  *string `json:"purchase_date"`
	LifespanYears Number  `json:"lifespan_years"`
	SeasonID      *int64  `json:"season_id"`
}

type ComplianceLog struct {
	ID              int64   `json:"id"`
	LotID           int64   `json:"lot_id"`
	Lot             *LotRef `json:"lot"`
	Type            *string `json:"type"`
	Score           Number  `json:"score"`
	Status          *string `json:"status"`
	DefectsCount    Number  `json:"defects_count"`
	PPELevel        *string `json:"ppe_level"`
	WastewaterLevel *string `json:"wastewater_level"`
	LaborLevel      *string `json:"labor_level"`
	Notes           *string `json:"notes"`
	CreatedAt       *string `json:"created_at"`
}

type AuditLog struct {
	ID        int64    `json:"id"`
	User      *UserRef `json:"user"`
	Action    *string  `json:"action"`
	TableName *string  `json:"table_name"`
	RecordID  FlexID   `json:"record_id"`
	CreatedAt *string  `json:"created_at"`
}

type User struct {
	ID     int64   `json:"id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
