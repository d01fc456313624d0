package services

import (
	"context"
	"log"
	"strings"
	"time"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"

	"github.com/google/uuid"
)

// FinanceService handles earnings windows, commissions and the
// finance ledgers (sales, expenses, commission payments)
type FinanceService struct {
	store          *state.Store
	commissionRate float64
	nowFn          func() time.Time
}

// NewFinanceService creates a new finance service
func NewFinanceService(store *state.Store, commissionRate float64) *FinanceService {
	if commissionRate <= 0 || commissionRate > 1 {
		commissionRate = 0.07
	}
	return &FinanceService{
		store:          store,
		commissionRate: commissionRate,
		nowFn:          time.Now,
	}
}

// SetNowFunc overrides the clock, used in tests
func (s *FinanceService) SetNowFunc(fn func() time.Time) {
	s.nowFn = fn
}

// EarningsSummary is a technician's window over concluded orders
type EarningsSummary struct {
	Days           int     `json:"days"`
	ConcludedCount int     `json:"concludedCount"`
	TotalValue     float64 `json:"totalValue"`
	Commission     float64 `json:"commission"`
}

// TechnicianEarnings is one row of the admin breakdown
type TechnicianEarnings struct {
	TechnicianID   string  `json:"technicianId"`
	TechnicianName string  `json:"technicianName"`
	ConcludedCount int     `json:"concludedCount"`
	TotalValue     float64 `json:"totalValue"`
	Commission     float64 `json:"commission"`
}

// CompanySummary is the admin's view of a window
type CompanySummary struct {
	Days            int                  `json:"days"`
	ConcludedCount  int                  `json:"concludedCount"`
	TotalValue      float64              `json:"totalValue"`
	TotalCommission float64              `json:"totalCommission"`
	SalesTotal      float64              `json:"salesTotal"`
	ExpensesTotal   float64              `json:"expensesTotal"`
	Technicians     []TechnicianEarnings `json:"technicians"`
}

// OverviewSummary is what non-technician staff see instead of money
type OverviewSummary struct {
	Days            int `json:"days"`
	TotalSchedules  int `json:"totalSchedules"`
	ConcludedCount  int `json:"concludedCount"`
	TechnicianCount int `json:"technicianCount"`
}

// windowStart computes the inclusive lower bound of a days-long
// window ending today: the start of today minus (days-1) whole days.
func (s *FinanceService) windowStart(days int) time.Time {
	return domain.StartOfDay(s.nowFn()).AddDate(0, 0, -(days - 1))
}

// validWindow reports whether days is one of the supported windows
func validWindow(days int) bool {
	return days == 1 || days == 7 || days == 30
}

// inWindow reports whether a dd/mm/yyyy completion date falls on or
// after start. Dates that do not parse are excluded, never guessed.
func inWindow(completionDate string, start time.Time) bool {
	t, err := domain.ParseDateBR(completionDate)
	if err != nil {
		return false
	}
	return !t.Before(start)
}

// TechnicianSummary aggregates a technician's concluded orders over
// the window
func (s *FinanceService) TechnicianSummary(technicianID string, days int) (*EarningsSummary, error) {
	if !validWindow(days) {
		return nil, domain.ErrInvalidWindow
	}

	snap := s.store.Snapshot()
	start := s.windowStart(days)

	sum := &EarningsSummary{Days: days}
	for i := range snap.Schedules {
		sched := &snap.Schedules[i]
		if sched.TechnicianID != technicianID || sched.Status != domain.StatusConcluded {
			continue
		}
		if !inWindow(sched.CompletionDate, start) {
			continue
		}
		sum.ConcludedCount++
		sum.TotalValue += sched.FinalValue
	}
	sum.Commission = sum.TotalValue * s.commissionRate
	return sum, nil
}

// AdminSummary aggregates the whole company over the window with a
// per-technician breakdown
func (s *FinanceService) AdminSummary(days int) (*CompanySummary, error) {
	if !validWindow(days) {
		return nil, domain.ErrInvalidWindow
	}

	snap := s.store.Snapshot()
	start := s.windowStart(days)

	sum := &CompanySummary{Days: days}
	perTech := map[string]*TechnicianEarnings{}

	for i := range snap.Schedules {
		sched := &snap.Schedules[i]
		if sched.Status != domain.StatusConcluded || !inWindow(sched.CompletionDate, start) {
			continue
		}

		sum.ConcludedCount++
		sum.TotalValue += sched.FinalValue

		row, ok := perTech[sched.TechnicianID]
		if !ok {
			row = &TechnicianEarnings{TechnicianID: sched.TechnicianID}
			if tech := snap.UserByID(sched.TechnicianID); tech != nil {
				row.TechnicianName = tech.Name
			}
			perTech[sched.TechnicianID] = row
		}
		row.ConcludedCount++
		row.TotalValue += sched.FinalValue
	}

	for i := range snap.Sales {
		if inWindow(snap.Sales[i].Date, start) {
			sum.SalesTotal += snap.Sales[i].SaleValue
		}
	}
	for i := range snap.Expenses {
		if inWindow(snap.Expenses[i].Date, start) {
			sum.ExpensesTotal += snap.Expenses[i].Value
		}
	}

	// Stable order: follow the users list
	for i := range snap.Users {
		if row, ok := perTech[snap.Users[i].ID]; ok {
			row.Commission = row.TotalValue * s.commissionRate
			sum.Technicians = append(sum.Technicians, *row)
		}
	}
	sum.TotalCommission = sum.TotalValue * s.commissionRate
	return sum, nil
}

// Overview returns activity counts only, for staff who must not see
// the money figures
func (s *FinanceService) Overview(days int) (*OverviewSummary, error) {
	if !validWindow(days) {
		return nil, domain.ErrInvalidWindow
	}

	snap := s.store.Snapshot()
	start := s.windowStart(days)

	sum := &OverviewSummary{Days: days, TotalSchedules: len(snap.Schedules)}
	for i := range snap.Schedules {
		if snap.Schedules[i].Status == domain.StatusConcluded &&
			inWindow(snap.Schedules[i].CompletionDate, start) {
			sum.ConcludedCount++
		}
	}
	for i := range snap.Users {
		if snap.Users[i].Role == domain.RoleTechnician {
			sum.TechnicianCount++
		}
	}
	return sum, nil
}

// RecordSaleInput represents a store sale
type RecordSaleInput struct {
	ProductDescription string  `json:"productDescription" validate:"required"`
	SaleValue          float64 `json:"saleValue" validate:"required"`
}

// RecordSale registers a store sale made by the actor
func (s *FinanceService) RecordSale(ctx context.Context, actor Actor, input *RecordSaleInput) (*domain.Sale, error) {
	if strings.TrimSpace(input.ProductDescription) == "" {
		return nil, domain.ErrMissingFields
	}
	if input.SaleValue < 0 {
		return nil, domain.ErrInvalidAmount
	}

	sale := domain.Sale{
		ID:                 uuid.New().String(),
		AttendantID:        actor.ID,
		AttendantName:      actor.Name,
		ProductDescription: strings.TrimSpace(input.ProductDescription),
		SaleValue:          input.SaleValue,
		Date:               domain.FormatDateBR(s.nowFn()),
		CommissionValue:    input.SaleValue * s.commissionRate,
	}

	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		st.Sales = append(st.Sales, sale)
		st.AddNotification(
			uuid.New().String(),
			"Nova Venda",
			sale.ProductDescription,
			domain.NotifySale,
			sale.ID,
			s.nowFn().Format(time.RFC3339),
		)
		return nil
	}); err != nil {
		return nil, err
	}

	return &sale, nil
}

// ListSales returns all sales, newest first
func (s *FinanceService) ListSales() []domain.Sale {
	snap := s.store.Snapshot()
	out := make([]domain.Sale, 0, len(snap.Sales))
	for i := len(snap.Sales) - 1; i >= 0; i-- {
		out = append(out, snap.Sales[i])
	}
	return out
}

// RecordExpenseInput represents an operational expense
type RecordExpenseInput struct {
	Description  string  `json:"description" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	TechnicianID string  `json:"technicianId"`
	Value        float64 `json:"value" validate:"required"`
}

// RecordExpense registers an operational expense
func (s *FinanceService) RecordExpense(ctx context.Context, input *RecordExpenseInput) (*domain.Expense, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingFields
	}
	category := domain.ExpenseCategory(strings.ToUpper(strings.TrimSpace(input.Category)))
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if input.Value < 0 {
		return nil, domain.ErrInvalidAmount
	}

	expense := domain.Expense{
		ID:           uuid.New().String(),
		Description:  strings.TrimSpace(input.Description),
		Category:     category,
		TechnicianID: input.TechnicianID,
		Value:        input.Value,
		Date:         domain.FormatDateBR(s.nowFn()),
	}

	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		if expense.TechnicianID != "" {
			tech := st.UserByID(expense.TechnicianID)
			if tech == nil {
				return domain.ErrUserNotFound
			}
			expense.TechnicianName = tech.Name
		}
		st.Expenses = append(st.Expenses, expense)
		return nil
	}); err != nil {
		return nil, err
	}

	return &expense, nil
}

// ListExpenses returns all expenses, newest first
func (s *FinanceService) ListExpenses() []domain.Expense {
	snap := s.store.Snapshot()
	out := make([]domain.Expense, 0, len(snap.Expenses))
	for i := len(snap.Expenses) - 1; i >= 0; i-- {
		out = append(out, snap.Expenses[i])
	}
	return out
}

// RecordPaymentInput represents a commission payout
type RecordPaymentInput struct {
	UserID string  `json:"userId" validate:"required"`
	Value  float64 `json:"value" validate:"required"`
	Type   string  `json:"type" validate:"required"`
}

// RecordPayment registers a commission payout to a staff member
func (s *FinanceService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*domain.CommissionPayment, error) {
	if input.Value <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	payType := strings.ToUpper(strings.TrimSpace(input.Type))
	if payType != domain.PaymentFull && payType != domain.PaymentPartial {
		return nil, domain.ErrMissingFields
	}

	payment := domain.CommissionPayment{
		ID:     uuid.New().String(),
		UserID: input.UserID,
		Value:  input.Value,
		Date:   domain.FormatDateBR(s.nowFn()),
		Type:   payType,
	}

	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		user := st.UserByID(input.UserID)
		if user == nil {
			return domain.ErrUserNotFound
		}
		payment.UserName = user.Name
		st.CommissionPayments = append(st.CommissionPayments, payment)
		return nil
	}); err != nil {
		return nil, err
	}

	log.Printf("✅ Commission payment recorded: %s → %.2f [%s]", payment.UserName, payment.Value, payment.Type)
	return &payment, nil
}

// ListPayments returns all commission payments, newest first
func (s *FinanceService) ListPayments() []domain.CommissionPayment {
	snap := s.store.Snapshot()
	out := make([]domain.CommissionPayment, 0, len(snap.CommissionPayments))
	for i := len(snap.CommissionPayments) - 1; i >= 0; i-- {
		out = append(out, snap.CommissionPayments[i])
	}
	return out
}
