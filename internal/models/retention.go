package models

import "time"

// Loyalty tiers, inclusive at the lower bound
const (
	LoyaltyTierVIP     = "VIP"     // score >= 80
	LoyaltyTierLoyal   = "Loyal"   // score >= 50
	LoyaltyTierRegular = "Regular" // score >= 30
	LoyaltyTierNew     = "New"
)

// Customer list filters and sort orders
const (
	FilterAll   = "all"
	FilterNDP   = "ndp"
	FilterRDP   = "rdp"
	FilterLoyal = "loyal" // >= 3 deposits

	SortByDeposits = "deposits"
	SortByOmset    = "omset"
	SortByRecent   = "recent"
)

// CustomerDepositProfile is the derived per-(customer, product) aggregate.
// Recomputed from surviving records; never persisted authoritatively.
type CustomerDepositProfile struct {
	CustomerID      int        `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	ProductID       int        `json:"product_id"`
	ProductName     string     `json:"product_name,omitempty"`
	TotalDeposits   int        `json:"total_deposits"`
	TotalOmset      float64    `json:"total_omset"`
	AvgDeposit      float64    `json:"avg_deposit"`
	UniqueDays      int        `json:"unique_days"`
	FirstDeposit    *time.Time `json:"first_deposit_date,omitempty"`
	LastDeposit     *time.Time `json:"last_deposit_date,omitempty"`
	AvgDaysBetween  float64    `json:"avg_days_between_deposits,omitempty"` // 0 means undefined (< 2 deposits)
	LoyaltyScore    int        `json:"loyalty_score"`
	LoyaltyTier     string     `json:"loyalty_tier"`
	IsNDP           bool       `json:"is_ndp"` // true when no RDP-class record in scope
}

// RetentionOverview is the top-level retention summary for a date window
type RetentionOverview struct {
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	TotalCustomers    int               `json:"total_customers"`
	NDPCustomers      int               `json:"ndp_customers"`
	RDPCustomers      int               `json:"rdp_customers"`
	RetentionRate     float64           `json:"retention_rate"` // percent, 2 decimals
	TotalDeposits     int               `json:"total_deposits"`
	TotalOmset        float64           `json:"total_omset"`
	AvgOmset          float64           `json:"avg_omset"`
	TopLoyalCustomers []*CustomerDepositProfile `json:"top_loyal_customers"`
}

// TrendPoint is one day of NDP vs RDP deposit counts
type TrendPoint struct {
	Date string `json:"date"`
	NDP  int    `json:"ndp"`
	RDP  int    `json:"rdp"`
}

// TrendSummary totals the trend window
type TrendSummary struct {
	Days     int `json:"days"`
	TotalNDP int `json:"total_ndp"`
	TotalRDP int `json:"total_rdp"`
}

// RetentionTrend is the daily NDP/RDP trend response
type RetentionTrend struct {
	Trend   []TrendPoint `json:"trend"`
	Summary TrendSummary `json:"summary"`
}

// ProductBreakdown is the per-product retention aggregate
type ProductBreakdown struct {
	ProductID      int     `json:"product_id"`
	ProductName    string  `json:"product_name"`
	TotalCustomers int     `json:"total_customers"`
	NDPCustomers   int     `json:"ndp_customers"`
	RDPCustomers   int     `json:"rdp_customers"`
	RetentionRate  float64 `json:"retention_rate"`
	TotalDeposits  int     `json:"total_deposits"`
	TotalOmset     float64 `json:"total_omset"`
}

// StaffBreakdown is the per-staff retention aggregate (admin only)
type StaffBreakdown struct {
	StaffID        int     `json:"staff_id"`
	StaffName      string  `json:"staff_name"`
	TotalCustomers int     `json:"total_customers"`
	NDPCustomers   int     `json:"ndp_customers"`
	RDPCustomers   int     `json:"rdp_customers"`
	RetentionRate  float64 `json:"retention_rate"`
	TotalDeposits  int     `json:"total_deposits"`
	TotalOmset     float64 `json:"total_omset"`
}
