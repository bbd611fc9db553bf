package models

import "time"

// RiskTier classifies a customer by days since their last deposit
type RiskTier string

const (
	RiskTierHealthy  RiskTier = "healthy"  // 0-2 days, never listed
	RiskTierMedium   RiskTier = "medium"   // 3-6 days
	RiskTierHigh     RiskTier = "high"     // 7-13 days
	RiskTierCritical RiskTier = "critical" // 14+ days
)

// RiskAlert is one at-risk (customer, product) pair. Recomputed fresh on
// every query; never stored.
type RiskAlert struct {
	CustomerID       int       `json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	ProductID        int       `json:"product_id"`
	ProductName      string    `json:"product_name"`
	Tier             RiskTier  `json:"tier"`
	DaysSinceDeposit int       `json:"days_since_deposit"`
	LastDeposit      time.Time `json:"last_deposit_date"`
	TotalDeposits    int       `json:"total_deposits"`
	TotalOmset       float64   `json:"total_omset"`
	AvgDaysBetween   float64   `json:"avg_days_between_deposits,omitempty"`
	Overdue          bool      `json:"overdue"`
	OverdueBy        float64   `json:"overdue_by,omitempty"`
}

// AlertSummary counts alerts per tier
type AlertSummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Total    int `json:"total"`
}

// AlertList is the at-risk list response
type AlertList struct {
	Alerts  []*RiskAlert `json:"alerts"`
	Summary AlertSummary `json:"summary"`
}

// AlertDismissal suppresses a (customer, product) pair from the at-risk list
// until the cooldown lapses
type AlertDismissal struct {
	ID             int       `json:"id"`
	CustomerID     int       `json:"customer_id"`
	ProductID      int       `json:"product_id"`
	DismissedBy    int       `json:"dismissed_by"`
	DismissedUntil time.Time `json:"dismissed_until"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DismissAlertRequest is the request body for dismissing an alert
type DismissAlertRequest struct {
	CustomerID int `json:"customer_id"`
	ProductID  int `json:"product_id"`
}

// BriefingState tracks when a viewer last saw the daily briefing
type BriefingState struct {
	UserID        int       `json:"user_id"`
	LastShownDate time.Time `json:"last_shown_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductFollowup counts pending follow-ups for one product
type ProductFollowup struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	AtRisk      int    `json:"at_risk"`
	Critical    int    `json:"critical"`
}

// AtRiskGroups buckets the at-risk list by tier for the briefing
type AtRiskGroups struct {
	Critical []*RiskAlert `json:"critical"`
	High     []*RiskAlert `json:"high"`
	Medium   []*RiskAlert `json:"medium"`
	Totals   AlertSummary `json:"totals"`
}

// DailyBriefing is the once-per-day digest for a viewer
type DailyBriefing struct {
	Show               bool               `json:"show"`
	Date               string             `json:"date"`
	AtRisk             AtRiskGroups       `json:"at_risk"`
	FollowupsByProduct []*ProductFollowup `json:"followups_by_product"`
}
