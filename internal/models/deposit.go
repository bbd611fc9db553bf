package models

import "time"

// DepositClass labels a deposit relative to the customer's history for a product
type DepositClass string

const (
	DepositClassNDP DepositClass = "NDP" // first deposit for the (customer, product) pair
	DepositClassRDP DepositClass = "RDP" // any deposit after the first
)

// DepositRecord represents one customer deposit (omset) event
type DepositRecord struct {
	ID           int          `json:"id"`
	CustomerID   int          `json:"customer_id"`
	CustomerName string       `json:"customer_name,omitempty"` // Denormalized for display
	ProductID    int          `json:"product_id"`
	ProductName  string       `json:"product_name,omitempty"`
	StaffID      int          `json:"staff_id"`
	StaffName    string       `json:"staff_name,omitempty"`
	Amount       float64      `json:"amount"`     // Nominal per unit
	Multiplier   int          `json:"multiplier"` // Kelipatan
	Total        float64      `json:"total"`      // amount * multiplier (omset)
	DepositClass DepositClass `json:"deposit_class"`
	RecordDate   time.Time    `json:"record_date"`          // Calendar day of the deposit
	DeletedAt    *time.Time   `json:"deleted_at,omitempty"` // Soft delete timestamp
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsDeleted reports whether the record is in the trash
func (d *DepositRecord) IsDeleted() bool {
	return d.DeletedAt != nil
}

// CreateDepositRequest represents the request body for recording a deposit
type CreateDepositRequest struct {
	CustomerID int     `json:"customer_id"`
	ProductID  int     `json:"product_id"`
	Amount     float64 `json:"amount"`
	Multiplier int     `json:"multiplier"`
	RecordDate string  `json:"record_date"` // YYYY-MM-DD, operational timezone
}

// UpdateDepositRequest represents the request body for correcting a deposit
type UpdateDepositRequest struct {
	Amount     float64 `json:"amount"`
	Multiplier int     `json:"multiplier"`
	RecordDate string  `json:"record_date"`
}

// DepositListQuery carries the parsed filters for listing deposits
type DepositListQuery struct {
	Start     *time.Time
	End       *time.Time
	ProductID int // 0 = all
	StaffID   int // 0 = all
	Limit     int
}
