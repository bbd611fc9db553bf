package services

import (
	"context"
	"fmt"
	"time"

	"crm-backend/internal/cache"
	"crm-backend/internal/metrics"
	"crm-backend/internal/models"
	"crm-backend/internal/repositories"
	"crm-backend/internal/timeutil"
)

// DepositService owns the deposit ledger lifecycle. Every mutation ends with
// a reclassification of the touched (customer, product) pair so NDP/RDP
// labels never go stale after deletes and restores.
type DepositService struct {
	Deposits  *repositories.DepositRepository
	Customers *repositories.CustomerRepository

	now func() time.Time
}

func NewDepositService(deposits *repositories.DepositRepository, customers *repositories.CustomerRepository) *DepositService {
	return &DepositService{
		Deposits:  deposits,
		Customers: customers,
		now:       timeutil.Now,
	}
}

// Create records a deposit, classifying it against the pair's history as it
// exists at record time
func (s *DepositService) Create(ctx context.Context, req *models.CreateDepositRequest, staffID int) (*models.DepositRecord, error) {
	if req.CustomerID <= 0 || req.ProductID <= 0 {
		return nil, fmt.Errorf("customer_id and product_id are required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if req.Multiplier <= 0 {
		req.Multiplier = 1
	}

	recordDate := timeutil.StartOfDay(s.now())
	if req.RecordDate != "" {
		parsed, err := timeutil.ParseDate(req.RecordDate)
		if err != nil {
			return nil, fmt.Errorf("invalid record_date %q: %w", req.RecordDate, err)
		}
		recordDate = parsed
	}

	existing, err := s.Deposits.ListPair(ctx, req.CustomerID, req.ProductID)
	if err != nil {
		return nil, err
	}

	d := &models.DepositRecord{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		StaffID:    staffID,
		Amount:     req.Amount,
		Multiplier: req.Multiplier,
		Total:      req.Amount * float64(req.Multiplier),
		RecordDate: recordDate,
	}
	// New records have the latest creation timestamp, so classification only
	// looks at the stored pair history
	d.DepositClass = classifyAgainst(existing, recordDate, s.now())

	if customer, err := s.Customers.Get(ctx, req.CustomerID); err == nil {
		d.CustomerName = customer.Name
	}

	if err := s.Deposits.Create(ctx, d); err != nil {
		return nil, err
	}

	// Backdated records can take over the NDP slot from a stored record
	if err := s.reclassifyPair(ctx, d.CustomerID, d.ProductID); err != nil {
		return nil, err
	}

	metrics.DepositsClassified.WithLabelValues(string(d.DepositClass)).Inc()
	cache.InvalidateDepositCaches(ctx)
	return s.Deposits.Get(ctx, d.ID)
}

// Update corrects amount, multiplier or record date of a surviving deposit
func (s *DepositService) Update(ctx context.Context, id int, req *models.UpdateDepositRequest) (*models.DepositRecord, error) {
	d, err := s.Deposits.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deposit %d not found: %w", id, err)
	}
	if d.IsDeleted() {
		return nil, fmt.Errorf("deposit %d is in the trash", id)
	}

	if req.Amount > 0 {
		d.Amount = req.Amount
	}
	if req.Multiplier > 0 {
		d.Multiplier = req.Multiplier
	}
	d.Total = d.Amount * float64(d.Multiplier)
	if req.RecordDate != "" {
		parsed, err := timeutil.ParseDate(req.RecordDate)
		if err != nil {
			return nil, fmt.Errorf("invalid record_date %q: %w", req.RecordDate, err)
		}
		d.RecordDate = parsed
	}

	if err := s.Deposits.Update(ctx, d); err != nil {
		return nil, err
	}
	// A moved record date can change which record is the pair's first
	if err := s.reclassifyPair(ctx, d.CustomerID, d.ProductID); err != nil {
		return nil, err
	}

	cache.InvalidateDepositCaches(ctx)
	return s.Deposits.Get(ctx, id)
}

// Delete soft-deletes a deposit and reclassifies the surviving records of
// its pair, so a deleted NDP hands its label to the next-earliest survivor
func (s *DepositService) Delete(ctx context.Context, id int) error {
	d, err := s.Deposits.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("deposit %d not found: %w", id, err)
	}

	if err := s.Deposits.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}
	if err := s.reclassifyPair(ctx, d.CustomerID, d.ProductID); err != nil {
		return err
	}

	cache.InvalidateDepositCaches(ctx)
	return nil
}

// Restore brings a trashed deposit back and reclassifies the pair, restoring
// the original NDP label when the record is again the pair's earliest
func (s *DepositService) Restore(ctx context.Context, id int) (*models.DepositRecord, error) {
	d, err := s.Deposits.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deposit %d not found: %w", id, err)
	}

	if err := s.Deposits.Restore(ctx, id); err != nil {
		return nil, err
	}
	if err := s.reclassifyPair(ctx, d.CustomerID, d.ProductID); err != nil {
		return nil, err
	}

	cache.InvalidateDepositCaches(ctx)
	return s.Deposits.Get(ctx, id)
}

// List returns surviving deposits for the query
func (s *DepositService) List(ctx context.Context, q models.DepositListQuery) ([]*models.DepositRecord, error) {
	return s.Deposits.List(ctx, q)
}

// ListTrash returns soft-deleted deposits
func (s *DepositService) ListTrash(ctx context.Context) ([]*models.DepositRecord, error) {
	return s.Deposits.ListTrash(ctx)
}

// Purge permanently removes a trashed deposit
func (s *DepositService) Purge(ctx context.Context, id int) error {
	if err := s.Deposits.Purge(ctx, id); err != nil {
		return err
	}
	cache.InvalidateDepositCaches(ctx)
	return nil
}

// reclassifyPair reloads one pair's surviving records and rewrites any label
// that no longer matches the pair's classification order
func (s *DepositService) reclassifyPair(ctx context.Context, customerID, productID int) error {
	records, err := s.Deposits.ListPair(ctx, customerID, productID)
	if err != nil {
		return err
	}
	for _, change := range reclassifyPair(records) {
		if err := s.Deposits.UpdateClass(ctx, change.ID, change.Class); err != nil {
			return err
		}
	}
	return nil
}
