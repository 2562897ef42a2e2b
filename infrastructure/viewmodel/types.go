package viewmodel

import "time"

type Farmer struct {
	ID               int64
	Name             string
	Phone            string
	Sector           string
	Cell             string
	Village          string
	FarmType         string
	Active           *bool
	RegistrationDate string
}

type Delivery struct {
	ID            int64
	FarmerID      int64
	FarmerName    string
	SeasonID      *int64
	SeasonName    string
	LotID         *int64
	DeliveredAt   time.Time
	Date          string
	Time          string
	Weight        float64
	UnitPrice     float64
	TotalAmount   float64
	QualityScore  float64
	PaymentStatus string
}

type Lot struct {
	ID               int64
	LotName          string
	ProcessingMethod string
	Grade            string
	// Status is the display form ("in process"); StatusCode keeps the wire value.
	Status     string
	StatusCode string
	SeasonID   *int64
	CreatedAt  string
	// Filled by the aggregation pass, never by the transform.
	TotalWeight float64
	Timeline    []TimelineEntry
}

type TimelineEntry struct {
	Stage    string
	LoggedAt time.Time
	Operator string
	Notes    string
}

type ProcessingLog struct {
	ID       int64
	LotID    int64
	Stage    string
	LoggedAt time.Time
	Operator string
	Notes    string
}

type StorageBag struct {
	ID           int64
	LotID        int64
	LotName      string
	BagCode      string
	Weight       float64
	Moisture     float64
	StoredDate   string
	StoredAt     time.Time
	Dispatched   bool
	DispatchedAt string
}

type Season struct {
	ID        int64
	Name      string
	StartDate string
	EndDate   string
	Active    bool
}

type Expense struct {
	ID          int64
	Category    string
	Description string
	Amount      float64
	Date        string
	SeasonID    *int64
	LotID       *int64
}

type Revenue struct {
	ID         int64
	Buyer      string
	QuantityKg float64
	UnitPrice  float64
	Amount     float64
	Date       string
	SeasonID   *int64
	LotID      *int64
}

type LaborLog struct {
	ID         int64
	WorkerName string
	Task       string
	Date       string
	Days       float64
	DailyRate  float64
	Amount     float64
	SeasonID   *int64
	LotID      *int64
}

type Asset struct {
	ID            int64
	Name          string
	Category      string
	PurchaseValue float64
	PurchaseDate  time.Time
	LifespanYears float64
	SeasonID      *int64
	// CurrentValue is filled by aggregate.DepreciateAssets.
	CurrentValue float64
}

type ComplianceCheck struct {
	ID              int64
	LotID           int64
	LotName         string
	Type            string
	Score           float64
	Status          string
	DefectsCount    int
	PPELevel        string
	WastewaterLevel string
	LaborLevel      string
	Notes           string
	Date            string
}

type AuditEntry struct {
	ID       int64
	Name     string
	Date     string
	Time     string
	Role     string
	Entity   string
	EntityID string
	Action   string
}

type User struct {
	ID     int64
	Name   string
	Email  string
	Role   string
	Active bool
}
