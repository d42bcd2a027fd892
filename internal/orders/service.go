package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/internal/cart"
	"github.com/dwiprasetya/laundrypos-backend/internal/delivery"
	"github.com/dwiprasetya/laundrypos-backend/internal/pricing"
	"github.com/dwiprasetya/laundrypos-backend/internal/settings"
	dbpkg "github.com/dwiprasetya/laundrypos-backend/pkg/db"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/metrics"
	"github.com/dwiprasetya/laundrypos-backend/pkg/outbox"
	"github.com/dwiprasetya/laundrypos-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invoiceSequencer interface {
	NextInvoiceSequence(ctx context.Context, outletCode, day string) (int64, error)
}

type packageResolver interface {
	ResolvePackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]cart.Package, error)
}

type policyLoader interface {
	Snapshot(ctx context.Context) (*settings.PolicySnapshot, error)
}

type outletLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
}

type customerStore interface {
	GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Customer, error)
	UpdateTx(tx *gorm.DB, row *models.Customer) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service implements the order lifecycle: the atomic checkout commit, the
// processing stage machine, payment settlement, and reads.
type Service interface {
	Commit(ctx context.Context, input CommitInput) (*CommitResult, error)
	AdvanceStage(ctx context.Context, orderID uuid.UUID, to enums.ProcessStage, changedBy uuid.UUID) (*models.Order, error)
	Settle(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod, changedBy uuid.UUID) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByInvoiceCode(ctx context.Context, invoiceCode string) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
	StageLogs(ctx context.Context, orderID uuid.UUID) ([]models.OrderStageLog, error)
}

type service struct {
	repo      *Repository
	customers customerStore
	packages  packageResolver
	policies  policyLoader
	outlets   outletLoader
	tx        txRunner
	invoices  invoiceSequencer
	events    eventEmitter
	logg      *logger.Logger
	checkout  *metrics.CheckoutMetrics
}

// NewService wires the order service. The metrics handle may be nil in
// workers that never commit orders.
func NewService(
	repo *Repository,
	customerRepo customerStore,
	packages packageResolver,
	policies policyLoader,
	outlets outletLoader,
	tx txRunner,
	invoices invoiceSequencer,
	events eventEmitter,
	logg *logger.Logger,
	checkout *metrics.CheckoutMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer store required")
	}
	if packages == nil {
		return nil, fmt.Errorf("package resolver required")
	}
	if policies == nil {
		return nil, fmt.Errorf("policy loader required")
	}
	if outlets == nil {
		return nil, fmt.Errorf("outlet loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice sequencer required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		customers: customerRepo,
		packages:  packages,
		policies:  policies,
		outlets:   outlets,
		tx:        tx,
		invoices:  invoices,
		events:    events,
		logg:      logg,
		checkout:  checkout,
	}, nil
}

// CommitItem is one requested line at checkout time. Quantities below the
// package minimum are raised the same way the quote raised them.
type CommitItem struct {
	PackageID uuid.UUID
	Quantity  int
}

// CommitInput is the full checkout payload. All pricing inputs are
// re-validated against fresh catalog, settings, and customer state inside
// the transaction; the client's displayed quote is never trusted.
type CommitInput struct {
	OutletID   uuid.UUID
	CashierID  uuid.UUID
	CustomerID uuid.UUID
	Items      []CommitItem

	DeliveryMode enums.DeliveryMode
	DistanceKm   decimal.Decimal

	RedeemPoints       int
	UpgradeMembership  bool
	TotalWeightKg      decimal.Decimal
	BroughtMerchandise bool

	PaymentStatus enums.PaymentStatus
	PaymentMethod *enums.PaymentMethod
	Notes         string

	IdempotencyKey string
}

// CommitResult carries the committed order plus whether this call was
// answered from a previous commit via the idempotency key.
type CommitResult struct {
	Order    *models.Order
	Replayed bool
}

type orderCreatedEvent struct {
	InvoiceCode      string    `json:"invoice_code"`
	OutletID         uuid.UUID `json:"outlet_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	GrandTotalRupiah int       `json:"grand_total_rupiah"`
	PointsRedeemed   int       `json:"points_redeemed"`
	PointsEarned     int       `json:"points_earned"`
	PaymentStatus    string    `json:"payment_status"`
}

// Commit executes the atomic order commit: it locks the customer row,
// re-prices the cart against fresh state, and writes the order, loyalty
// mutation, membership flip, and outbox event as one transaction. A reused
// idempotency key replays the original order instead of double-charging.
func (s *service) Commit(ctx context.Context, input CommitInput) (*CommitResult, error) {
	if err := validateCommitInput(input); err != nil {
		s.checkout.IncRejected("invalid_input")
		return nil, err
	}

	if input.IdempotencyKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking idempotency key")
		}
		if existing != nil {
			s.checkout.IncReplayed()
			return &CommitResult{Order: existing, Replayed: true}, nil
		}
	}

	outlet, err := s.outlets.GetByID(ctx, input.OutletID)
	if err != nil {
		return nil, err
	}
	if !outlet.IsActive {
		s.checkout.IncRejected("outlet_inactive")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "outlet is deactivated")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.PackageID)
	}
	packages, err := s.packages.ResolvePackages(ctx, ids)
	if err != nil {
		s.checkout.IncRejected("catalog")
		return nil, err
	}

	posCart := cart.New()
	for _, item := range input.Items {
		pkg := packages[item.PackageID]
		if _, err := posCart.AddItem(pkg, item.Quantity); err != nil {
			s.checkout.IncRejected("invalid_input")
			return nil, err
		}
	}

	policy, err := s.policies.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	invoiceCode, err := s.nextInvoiceCode(ctx, outlet.Code)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var committed *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customer, err := s.customers.GetByIDForUpdate(tx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locking customer")
		}
		if !customer.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "customer is deactivated")
		}

		// re-validate against the locked balance, not the quote the
		// cashier saw; a concurrent commit may have spent points since
		quote, err := pricing.Compute(pricing.Input{
			Cart: posCart,
			Delivery: delivery.Selection{
				Mode:       input.DeliveryMode,
				DistanceKm: input.DistanceKm,
			},
			DeliveryPolicy:       policy.Delivery,
			LoyaltyPolicy:        policy.Loyalty,
			CustomerPoints:       customer.LoyaltyPoints,
			CustomerIsPaidMember: customer.IsPaidMember,
			UpgradeMembership:    input.UpgradeMembership,
			RedeemPoints:         input.RedeemPoints,
			TotalWeightKg:        input.TotalWeightKg,
			BroughtMerchandise:   input.BroughtMerchandise,
		})
		if err != nil {
			return err
		}

		order := buildOrderRow(input, quote, invoiceCode, posCart)
		if err := s.repo.InsertTx(tx, order); err != nil {
			if dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeIdempotency, err, "order already committed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting order")
		}

		customer.LoyaltyPoints = customer.LoyaltyPoints - quote.PointsRedeemed + quote.PointsEarned
		if quote.MembershipGranted {
			customer.IsPaidMember = true
		}
		if err := s.customers.UpdateTx(tx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating customer loyalty state")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.CashierID, OutletID: &input.OutletID},
			Version:       1,
			Data: orderCreatedEvent{
				InvoiceCode:      order.InvoiceCode,
				OutletID:         order.OutletID,
				CustomerID:       order.CustomerID,
				GrandTotalRupiah: order.GrandTotalRupiah,
				PointsRedeemed:   order.PointsRedeemed,
				PointsEarned:     order.PointsEarned,
				PaymentStatus:    string(order.PaymentStatus),
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queueing order event")
		}

		committed = order
		return nil
	})
	if txErr != nil {
		// a concurrent request with the same key may have won the race;
		// replay its order instead of surfacing the conflict
		if input.IdempotencyKey != "" && pkgerrors.HasCode(txErr, pkgerrors.CodeIdempotency) {
			existing, lookupErr := s.repo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				s.checkout.IncReplayed()
				return &CommitResult{Order: existing, Replayed: true}, nil
			}
		}
		return nil, txErr
	}

	s.checkout.ObserveCommit(outlet.Code, committed.GrandTotalRupiah, time.Since(started))

	logCtx := s.logg.WithInvoiceCode(s.logg.WithOutletID(ctx, outlet.ID.String()), committed.InvoiceCode)
	s.logg.Info(logCtx, "order committed")

	return &CommitResult{Order: committed}, nil
}

func validateCommitInput(input CommitInput) error {
	if input.OutletID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "outlet is required")
	}
	if input.CashierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cashier is required")
	}
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer is required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	if !input.DeliveryMode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery mode")
	}
	if input.DeliveryMode != enums.DeliveryModeOnSiteOnly && input.DistanceKm.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "distance must be non-negative")
	}
	if !input.PaymentStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}
	if input.PaymentStatus == enums.PaymentStatusPaid {
		if input.PaymentMethod == nil || !input.PaymentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "paid orders require a payment method")
		}
	}
	if input.RedeemPoints < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "redeemed points must be non-negative")
	}
	if input.TotalWeightKg.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total weight must be non-negative")
	}
	return nil
}

func buildOrderRow(input CommitInput, quote pricing.Quote, invoiceCode string, posCart *cart.Cart) *models.Order {
	// the id is minted here because the outbox event and the item rows
	// reference it before the transaction returns
	order := &models.Order{
		ID:                   uuid.New(),
		InvoiceCode:          invoiceCode,
		OutletID:             input.OutletID,
		CustomerID:           input.CustomerID,
		CashierID:            input.CashierID,
		SubtotalRupiah:       quote.SubtotalRupiah,
		DeliveryFeeRupiah:    quote.DeliveryFeeRupiah,
		MembershipFeeRupiah:  quote.MembershipFeeRupiah,
		RedeemDiscountRupiah: quote.RedeemDiscountRupiah,
		GrandTotalRupiah:     quote.GrandTotalRupiah,
		PointsRedeemed:       quote.PointsRedeemed,
		PointsEarned:         quote.PointsEarned,
		MembershipGranted:    quote.MembershipGranted,
		DeliveryMode:         input.DeliveryMode,
		DistanceKm:           input.DistanceKm,
		TotalWeightKg:        input.TotalWeightKg,
		PaymentStatus:        input.PaymentStatus,
		PaymentMethod:        input.PaymentMethod,
		Stage:                enums.ProcessStageReceived,
		Notes:                input.Notes,
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		order.IdempotencyKey = &key
	}
	if input.PaymentStatus == enums.PaymentStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}

	tags := map[string]struct{}{}
	for _, line := range posCart.Lines() {
		order.Items = append(order.Items, models.OrderItem{
			PackageID:       line.Package.ID,
			PackageName:     line.Package.Name,
			Unit:            line.Package.Unit,
			UnitPriceRupiah: line.Package.UnitPriceRupiah,
			Quantity:        line.Quantity,
			SubtotalRupiah:  line.SubtotalRupiah,
		})
		if _, seen := tags[line.Package.Name]; !seen {
			tags[line.Package.Name] = struct{}{}
			order.ServiceTags = append(order.ServiceTags, line.Package.Name)
		}
	}
	return order
}

func (s *service) nextInvoiceCode(ctx context.Context, outletCode string) (string, error) {
	day := time.Now().Format("20060102")
	seq, err := s.invoices.NextInvoiceSequence(ctx, outletCode, day)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocating invoice sequence")
	}
	return fmt.Sprintf("INV/%s/%s/%04d", outletCode, day, seq), nil
}
