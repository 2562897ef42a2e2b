package viewmodel

import (
	"strings"

	"cwsdash/infrastructure/backend"
)

// Compliance log types.
const (
	TypeCPQI = "CPQI"
	TypeCPSI = "CPSI"
)

// FromFarmer flattens the nested location; every location field defaults to "".
func FromFarmer(r backend.Farmer) Farmer {
	loc := DereferencePtr(r.Location)
	return Farmer{
		ID:               r.ID,
		Name:             text(r.Name, ""),
		Phone:            text(r.Phone, ""),
		Sector:           text(loc.Sector, ""),
		Cell:             text(loc.Cell, ""),
		Village:          text(loc.Village, ""),
		FarmType:         text(loc.FarmType, ""),
		Active:           r.Active,
		RegistrationDate: day(r.RegistrationDate),
	}
}

// FromDelivery derives Time as HH:MM and computes TotalAmount from weight
// and unit price when the backend left it out.
func FromDelivery(r backend.Delivery) Delivery {
	farmer := DereferencePtr(r.Farmer)
	season := DereferencePtr(r.Season)
	out := Delivery{
		ID:            r.ID,
		FarmerID:      r.FarmerID,
		FarmerName:    text(farmer.Name, ""),
		SeasonID:      r.SeasonID,
		SeasonName:    text(season.Name, ""),
		LotID:         r.LotID,
		Date:          day(r.DeliveryDate),
		Weight:        r.WeightKg.Float64(),
		UnitPrice:     r.UnitPrice.Float64(),
		QualityScore:  r.QualityScore.Float64(),
		PaymentStatus: strings.ToLower(text(r.PaymentStatus, "pending")),
	}
	if out.SeasonID == nil && season.ID > 0 {
		id := season.ID
		out.SeasonID = &id
	}
	if t, ok := ParseTimestamp(DereferencePtr(r.DeliveryDate)); ok {
		out.DeliveredAt = t
		out.Time = clock(t)
	}
	if r.TotalAmount.Valid {
		out.TotalAmount = r.TotalAmount.Float64()
	} else {
		total, _ := r.WeightKg.Decimal().Mul(r.UnitPrice.Decimal()).Float64()
		out.TotalAmount = total
	}
	return out
}

// FromLot normalizes the status for display. TotalWeight and Timeline stay
// zero until aggregate.EnrichLots joins deliveries and processing logs.
func FromLot(r backend.Lot) Lot {
	code := strings.ToLower(text(r.Status, "created"))
	return Lot{
		ID:               r.ID,
		LotName:          text(r.LotName, ""),
		ProcessingMethod: strings.ToLower(text(r.ProcessingMethod, "")),
		Grade:            text(r.Grade, ""),
		Status:           strings.ReplaceAll(code, "_", " "),
		StatusCode:       code,
		SeasonID:         r.SeasonID,
		CreatedAt:        day(r.CreatedAt),
	}
}

func FromProcessingLog(r backend.ProcessingLog) ProcessingLog {
	out := ProcessingLog{
		ID:       r.ID,
		LotID:    r.LotID,
		Stage:    strings.ToLower(text(r.Stage, "")),
		Operator: text(DereferencePtr(r.Operator).Name, "N/A"),
		Notes:    text(r.Notes, ""),
	}
	if t, ok := ParseTimestamp(DereferencePtr(r.LoggedAt)); ok {
		out.LoggedAt = t
	}
	return out
}

func FromStorageBag(r backend.StorageBag) StorageBag {
	out := StorageBag{
		ID:           r.ID,
		LotID:        r.LotID,
		LotName:      text(DereferencePtr(r.Lot).LotName, ""),
		BagCode:      text(r.BagCode, ""),
		Weight:       r.WeightKg.Float64(),
		Moisture:     r.Moisture.Float64(),
		StoredDate:   day(r.StoredDate),
		Dispatched:   DereferencePtr(r.Dispatched, false),
		DispatchedAt: day(r.DispatchedAt),
	}
	if t, ok := ParseTimestamp(DereferencePtr(r.StoredDate)); ok {
		out.StoredAt = t
	}
	return out
}

func FromSeason(r backend.Season) Season {
	return Season{
		ID:        r.ID,
		Name:      text(r.Name, ""),
		StartDate: day(r.StartDate),
		EndDate:   day(r.EndDate),
		Active:    DereferencePtr(r.Active, false),
	}
}

func FromExpense(r backend.Expense) Expense {
	return Expense{
		ID:          r.ID,
		Category:    text(r.Category, "Uncategorized"),
		Description: text(r.Description, ""),
		Amount:      r.Amount.Float64(),
		Date:        day(r.ExpenseDate),
		SeasonID:    r.SeasonID,
		LotID:       r.LotID,
	}
}

// FromRevenue falls back to quantity × unit price when amount is missing.
func FromRevenue(r backend.Revenue) Revenue {
	out := Revenue{
		ID:         r.ID,
		Buyer:      text(r.Buyer, "N/A"),
		QuantityKg: r.QuantityKg.Float64(),
		UnitPrice:  r.UnitPrice.Float64(),
		Amount:     r.Amount.Float64(),
		Date:       day(r.RevenueDate),
		SeasonID:   r.SeasonID,
		LotID:      r.LotID,
	}
	if !r.Amount.Valid {
		out.Amount, _ = r.QuantityKg.Decimal().Mul(r.UnitPrice.Decimal()).Float64()
	}
	return out
}

// FromLaborLog falls back to days × daily rate when amount is missing.
func FromLaborLog(r backend.LaborLog) LaborLog {
	out := LaborLog{
		ID:         r.ID,
		WorkerName: text(DereferencePtr(r.Worker).Name, "N/A"),
		Task:       text(r.Task, ""),
		Date:       day(r.WorkDate),
		Days:       r.Days.Float64(),
		DailyRate:  r.DailyRate.Float64(),
		Amount:     r.Amount.Float64(),
		SeasonID:   r.SeasonID,
		LotID:      r.LotID,
	}
	if !r.Amount.Valid {
		out.Amount, _ = r.Days.Decimal().Mul(r.DailyRate.Decimal()).Float64()
	}
	return out
}

func FromAsset(r backend.Asset) Asset {
	out := Asset{
		ID:            r.ID,
		Name:          text(r.Name, ""),
		Category:      text(r.Category, ""),
		PurchaseValue: r.PurchaseValue.Float64(),
		LifespanYears: r.LifespanYears.Float64(),
		SeasonID:      r.SeasonID,
	}
	if t, ok := ParseTimestamp(DereferencePtr(r.PurchaseDate)); ok {
		out.PurchaseDate = t
	}
	out.CurrentValue = out.PurchaseValue
	return out
}

func FromComplianceLog(r backend.ComplianceLog) ComplianceCheck {
	return ComplianceCheck{
		ID:              r.ID,
		LotID:           r.LotID,
		LotName:         text(DereferencePtr(r.Lot).LotName, ""),
		Type:            strings.ToUpper(text(r.Type, "")),
		Score:           r.Score.Float64(),
		Status:          strings.ToLower(text(r.Status, "")),
		DefectsCount:    int(r.DefectsCount.Decimal().IntPart()),
		PPELevel:        text(r.PPELevel, ""),
		WastewaterLevel: text(r.WastewaterLevel, ""),
		LaborLevel:      text(r.LaborLevel, ""),
		Notes:           text(r.Notes, ""),
		Date:            day(r.CreatedAt),
	}
}

func FromAuditLog(r backend.AuditLog) AuditEntry {
	user := DereferencePtr(r.User)
	out := AuditEntry{
		ID:       r.ID,
		Name:     text(user.Name, "N/A"),
		Role:     text(user.Role, "N/A"),
		Entity:   text(r.TableName, ""),
		EntityID: strings.TrimSpace(string(r.RecordID)),
		Action:   strings.ToUpper(text(r.Action, "")),
	}
	if t, ok := ParseTimestamp(DereferencePtr(r.CreatedAt)); ok {
		out.Date = t.In(DisplayLocation).Format("2006-01-02")
		out.Time = clock(t)
	}
	return out
}

func FromUser(r backend.User) User {
	return User{
		ID:     r.ID,
		Name:   text(r.Name, ""),
		Email:  text(r.Email, ""),
		Role:   strings.ToLower(text(r.Role, "")),
		Active: DereferencePtr(r.Active, true),
	}
}

func Farmers(in []backend.Farmer) []Farmer        { return mapAll(in, FromFarmer) }
func Deliveries(in []backend.Delivery) []Delivery { return mapAll(in, FromDelivery) }
func Lots(in []backend.Lot) []Lot                 { return mapAll(in, FromLot) }
func ProcessingLogs(in []backend.ProcessingLog) []ProcessingLog {
	return mapAll(in, FromProcessingLog)
}
func StorageBags(in []backend.StorageBag) []StorageBag { return mapAll(in, FromStorageBag) }
func Seasons(in []backend.Season) []Season             { return mapAll(in, FromSeason) }
func Expenses(in []backend.Expense) []Expense          { return mapAll(in, FromExpense) }
func Revenues(in []backend.Revenue) []Revenue          { return mapAll(in, FromRevenue) }
func LaborLogs(in []backend.LaborLog) []LaborLog       { return mapAll(in, FromLaborLog) }
func Assets(in []backend.Asset) []Asset                { return mapAll(in, FromAsset) }
func AuditEntries(in []backend.AuditLog) []AuditEntry  { return mapAll(in, FromAuditLog) }
func Users(in []backend.User) []User                   { return mapAll(in, FromUser) }

// ComplianceChecksOfType keeps only logs of the given type (CPQI or CPSI).
func ComplianceChecksOfType(in []backend.ComplianceLog, typ string) []ComplianceCheck {
	out := make([]ComplianceCheck, 0, len(in))
	for _, r := range in {
		c := FromComplianceLog(r)
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}
