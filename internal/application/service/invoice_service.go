package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/pricing"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService prices carts and turns them into invoices
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	couponRepo   repository.CouponRepository
	tx           repository.Transactor
	settings     *SettingsService
	catalog      *CatalogService
	now          Clock
	log          *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	couponRepo repository.CouponRepository,
	tx repository.Transactor,
	settings *SettingsService,
	catalog *CatalogService,
	log *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		couponRepo:   couponRepo,
		tx:           tx,
		settings:     settings,
		catalog:      catalog,
		now:          utcNow,
		log:          log,
	}
}

// QuoteInput is an open cart as sent by the point of sale
type QuoteInput struct {
	Lines      []LineInput
	Discount   decimal.Decimal
	CouponCode string
	AmountPaid decimal.Decimal
}

// QuoteOutput is the priced cart
type QuoteOutput struct {
	Items     []pricing.LineItem `json:"items"`
	Breakdown pricing.Breakdown  `json:"breakdown"`
	Currency  string             `json:"currency"`
}

// Quote prices a cart without persisting anything. A coupon code is checked but not
// consumed; an empty code leaves the manual discount in place.
func (s *InvoiceService) Quote(ctx context.Context, input *QuoteInput) (*QuoteOutput, error) {
	policy, err := s.settings.Policy(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.catalog.ResolveLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	cart := pricing.Cart{ManualDiscount: input.Discount, AmountPaid: input.AmountPaid}
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, apperror.ErrInvalidQuantity.With("line", i).With("sub_item", item.SubItemName)
		}
		cart.AddItem(item)
	}

	if _, err := s.applyCoupon(ctx, &cart, input.CouponCode); err != nil {
		return nil, err
	}

	return &QuoteOutput{
		Items:     cart.Items,
		Breakdown: cart.Quote(policy.TaxRate).Rounded(),
		Currency:  policy.Currency,
	}, nil
}

// applyCoupon looks the code up and attaches it to the cart. An empty code clears any coupon.
func (s *InvoiceService) applyCoupon(ctx context.Context, cart *pricing.Cart, code string) (*entity.Coupon, error) {
	code = pricing.NormalizeCode(code)
	if code == "" {
		cart.ClearCoupon()
		return nil, nil
	}
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, storeErr("load coupon", err)
	}
	if coupon == nil {
		return nil, apperror.ErrInvalidCoupon.With("code", code).With("reason", "not_found")
	}
	if err := cart.ApplyCoupon(coupon.Terms(), s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

// IssueInvoiceInput represents a checkout request
type IssueInvoiceInput struct {
	CustomerID     *uuid.UUID
	EmployeeID     *uuid.UUID
	Lines          []LineInput
	Discount       decimal.Decimal
	CouponCode     string
	PaymentMethod  enum.PaymentMethod
	AmountPaid     decimal.Decimal
	Status         *enum.InvoiceStatus
	Notes          *string
	IdempotencyKey string
}

// IssueInvoiceOutput carries the invoice and whether it was issued by an earlier request
type IssueInvoiceOutput struct {
	Invoice  *entity.Invoice
	Replayed bool
}

// IssueInvoice validates the cart, redeems the coupon, allocates the invoice number and
// stores the invoice in one transaction. Nothing is stored when any step fails.
func (s *InvoiceService) IssueInvoice(ctx context.Context, input *IssueInvoiceInput) (*IssueInvoiceOutput, error) {
	log := logger.FromContextOr(ctx, s.log)

	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" {
		existing, err := s.invoiceRepo.GetByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, storeErr("check idempotency key", err)
		}
		if existing != nil {
			log.Info("invoice replayed", zap.String("invoice_number", existing.InvoiceNumber))
			return &IssueInvoiceOutput{Invoice: existing, Replayed: true}, nil
		}
	}

	// Check the cart shape before touching the catalog so the first failure is reported
	if err := pricing.ValidateForIssue(input.CustomerID, shapeOf(input.Lines)); err != nil {
		return nil, err
	}

	policy, err := s.settings.Policy(ctx)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
	if err != nil {
		return nil, storeErr("load customer", err)
	}
	if customer == nil {
		return nil, apperror.ErrMissingCustomer.With("customer_id", input.CustomerID.String())
	}

	items, err := s.catalog.ResolveLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateForIssue(input.CustomerID, items); err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = enum.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "payment_method", Message: "must be cash, card or bank_transfer"}})
	}
	if input.AmountPaid.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount_paid", Message: "must not be negative"}})
	}

	status := policy.DefaultStatus
	if input.Status != nil {
		status = *input.Status
	}
	if status != enum.InvoiceStatusPaid && status != enum.InvoiceStatusPending {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "status", Message: "must be paid or pending"}})
	}

	now := s.now()
	cart := pricing.Cart{
		CustomerID:     input.CustomerID,
		ManualDiscount: input.Discount,
		PaymentMethod:  method,
		AmountPaid:     input.AmountPaid,
	}
	for _, item := range items {
		cart.AddItem(item)
	}

	var invoice *entity.Invoice
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		coupon, err := s.applyCoupon(ctx, &cart, input.CouponCode)
		if err != nil {
			return err
		}
		if coupon != nil {
			redeemed, err := s.couponRepo.Redeem(ctx, coupon.ID)
			if err != nil {
				return err
			}
			if !redeemed {
				return apperror.ErrInvalidCoupon.With("code", coupon.Code).With("reason", "usage_limit_reached")
			}
		}

		breakdown := cart.Quote(policy.TaxRate).Rounded()
		if policy.RequireFullPayment && breakdown.IsUnderpaid() {
			return apperror.ErrInsufficientPayment.
				With("total", breakdown.Total.StringFixed(pricing.MoneyPlaces)).
				With("amount_paid", breakdown.AmountPaid.StringFixed(pricing.MoneyPlaces))
		}

		period := pricing.InvoicePeriod(now.In(policy.Location))
		seq, err := s.invoiceRepo.NextNumber(ctx, tenantID, period)
		if err != nil {
			return err
		}

		invoice = newInvoice(tenantID, &cart, breakdown, status, now)
		invoice.InvoiceNumber = pricing.FormatInvoiceNumber(policy.InvoicePrefix, period, seq)
		invoice.EmployeeID = input.EmployeeID
		invoice.Notes = trimmed(input.Notes)
		if key != "" {
			invoice.IdempotencyKey = &key
		}

		return s.invoiceRepo.Create(ctx, invoice)
	})

	if errors.Is(err, repository.ErrDuplicate) && key != "" {
		// A concurrent request with the same key won the race
		existing, getErr := s.invoiceRepo.GetByIdempotencyKey(ctx, key)
		if getErr == nil && existing != nil {
			return &IssueInvoiceOutput{Invoice: existing, Replayed: true}, nil
		}
	}
	if err != nil {
		if apperror.IsAppError(err) {
			log.Info("invoice rejected", zap.Error(err))
		} else {
			log.Error("invoice issuance failed", zap.Error(err))
		}
		return nil, storeErr("issue invoice", err)
	}

	invoice.Customer = customer
	log.Info("invoice issued",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.StringFixed(pricing.MoneyPlaces)),
		zap.Int("pieces", invoice.PiecesCount),
	)
	return &IssueInvoiceOutput{Invoice: invoice}, nil
}

// shapeOf mirrors the request lines closely enough to run the structural checks
func shapeOf(lines []LineInput) []pricing.LineItem {
	items := make([]pricing.LineItem, len(lines))
	for i, l := range lines {
		items[i] = pricing.LineItem{
			SubItemID: l.SubItemID,
			Quantity:  l.Quantity,
			Services:  make([]pricing.ServiceLine, len(l.Services)),
		}
	}
	return items
}

func newInvoice(tenantID uuid.UUID, cart *pricing.Cart, b pricing.Breakdown, status enum.InvoiceStatus, now time.Time) *entity.Invoice {
	invoice := &entity.Invoice{
		TenantID:      tenantID,
		OrderNumber:   pricing.NewOrderNumber(now),
		CustomerID:    *cart.CustomerID,
		Subtotal:      b.Subtotal,
		Discount:      b.Discount,
		TaxRate:       b.TaxRate,
		Tax:           b.Tax,
		Total:         b.Total,
		PiecesCount:   b.PiecesCount,
		PaymentMethod: cart.PaymentMethod,
		AmountPaid:    b.AmountPaid,
		Remaining:     b.Remaining,
		Status:        status,
		IssuedAt:      now,
	}
	if b.CouponCode != "" {
		code := b.CouponCode
		invoice.CouponCode = &code
	}
	if status == enum.InvoiceStatusPaid {
		invoice.PaidAt = &now
	}
	invoice.Items = make([]entity.InvoiceItem, len(cart.Items))
	for i, line := range cart.Items {
		invoice.Items[i] = entity.NewInvoiceItem(i, line)
	}
	return invoice
}

// GetInvoice retrieves an invoice with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its printed number
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, storeErr("load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with page-based pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, storeErr("list invoices", err)
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListInvoicesWithCursor lists invoices using cursor-based pagination
func (s *InvoiceService) ListInvoicesWithCursor(ctx context.Context, params *repository.InvoiceCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Invoice], error) {
	if params.Cursor == nil {
		params.Cursor = pagination.DefaultCursorParams()
	}
	if _, err := params.Cursor.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError("Invalid cursor")
	}
	invoices, err := s.invoiceRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, storeErr("list invoices", err)
	}

	cursorPag, items := pagination.NewCursorPagination(invoices, params.Cursor,
		func(i entity.Invoice) string { return i.ID.String() },
		func(i entity.Invoice) time.Time { return i.CreatedAt },
	)

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// ReturnInvoice marks the garments as handed back. It can happen once; the figures
// of the invoice do not change.
func (s *InvoiceService) ReturnInvoice(ctx context.Context, id uuid.UUID, returnCode string) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Return(strings.TrimSpace(returnCode), s.now()); err != nil {
		return nil, err
	}

	ok, err := s.invoiceRepo.MarkReturned(ctx, invoice)
	if err != nil {
		return nil, storeErr("return invoice", err)
	}
	if !ok {
		return nil, apperror.ErrAlreadyReturned.With("invoice_number", invoice.InvoiceNumber)
	}

	logger.FromContextOr(ctx, s.log).Info("invoice returned",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("return_code", *invoice.ReturnCode),
	)
	return invoice, nil
}

// MarkPaid settles a pending invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return s.transition(ctx, id, enum.InvoiceStatusPaid)
}

// CancelInvoice cancels a pending or paid invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return s.transition(ctx, id, enum.InvoiceStatusCancelled)
}

func (s *InvoiceService) transition(ctx context.Context, id uuid.UUID, next enum.InvoiceStatus) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	from := invoice.Status
	if err := invoice.TransitionTo(next, s.now()); err != nil {
		return nil, err
	}

	ok, err := s.invoiceRepo.UpdateStatus(ctx, invoice, from)
	if err != nil {
		return nil, storeErr("update invoice status", err)
	}
	if !ok {
		return nil, apperror.ErrInvalidStatusTransition.
			With("reason", "concurrent_update").
			With("from", from.String()).
			With("to", next.String())
	}

	logger.FromContextOr(ctx, s.log).Info("invoice status changed",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("from", from.String()),
		zap.String("to", next.String()),
	)
	return invoice, nil
}
