package pos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/internal/cart"
	"github.com/dwiprasetya/laundrypos-backend/internal/delivery"
	"github.com/dwiprasetya/laundrypos-backend/internal/orders"
	"github.com/dwiprasetya/laundrypos-backend/internal/pricing"
	"github.com/dwiprasetya/laundrypos-backend/internal/settings"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

type packageResolver interface {
	ResolvePackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]cart.Package, error)
}

type policyLoader interface {
	Snapshot(ctx context.Context) (*settings.PolicySnapshot, error)
}

type customerLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type orderCommitter interface {
	Commit(ctx context.Context, input orders.CommitInput) (*orders.CommitResult, error)
}

// Service is the cashier-facing surface: a side-effect-free quote for the
// review screen, and the checkout that hands off to the order commit.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
	Checkout(ctx context.Context, input orders.CommitInput) (*orders.CommitResult, error)
}

type service struct {
	packages  packageResolver
	policies  policyLoader
	customers customerLoader
	committer orderCommitter
}

func NewService(
	packages packageResolver,
	policies policyLoader,
	customers customerLoader,
	committer orderCommitter,
) (Service, error) {
	if packages == nil {
		return nil, fmt.Errorf("package resolver required")
	}
	if policies == nil {
		return nil, fmt.Errorf("policy loader required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if committer == nil {
		return nil, fmt.Errorf("order committer required")
	}
	return &service{
		packages:  packages,
		policies:  policies,
		customers: customers,
		committer: committer,
	}, nil
}

type QuoteItem struct {
	PackageID uuid.UUID `json:"package_id"`
	Quantity  int       `json:"quantity"`
}

type QuoteInput struct {
	CustomerID uuid.UUID
	Items      []QuoteItem

	DeliveryMode enums.DeliveryMode
	DistanceKm   decimal.Decimal

	RedeemPoints       int
	UpgradeMembership  bool
	TotalWeightKg      decimal.Decimal
	BroughtMerchandise bool
}

// LineView is a priced cart line as shown on the review screen.
type LineView struct {
	PackageID       uuid.UUID `json:"package_id"`
	PackageName     string    `json:"package_name"`
	Unit            string    `json:"unit"`
	UnitPriceRupiah int       `json:"unit_price_rupiah"`
	Quantity        int       `json:"quantity"`
	SubtotalRupiah  int       `json:"subtotal_rupiah"`
}

// QuoteResult carries the priced breakdown plus any minimum-quantity
// adjustments so the cashier can explain the numbers before committing.
// Nothing here is persisted; the commit re-prices from fresh state.
type QuoteResult struct {
	Lines      []LineView      `json:"lines"`
	Advisories []cart.Advisory `json:"advisories,omitempty"`
	Pricing    pricing.Quote   `json:"pricing"`

	PointsBalanceAfter int `json:"points_balance_after"`
}

// Quote prices the cart against current catalog, settings, and customer
// state without writing anything.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	if !input.DeliveryMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery mode")
	}
	if input.DeliveryMode != enums.DeliveryModeOnSiteOnly && input.DistanceKm.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distance must be non-negative")
	}
	if input.RedeemPoints < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redeemed points must be non-negative")
	}
	if input.TotalWeightKg.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total weight must be non-negative")
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer is deactivated")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.PackageID)
	}
	packages, err := s.packages.ResolvePackages(ctx, ids)
	if err != nil {
		return nil, err
	}

	posCart := cart.New()
	var advisories []cart.Advisory
	for _, item := range input.Items {
		advisory, err := posCart.AddItem(packages[item.PackageID], item.Quantity)
		if err != nil {
			return nil, err
		}
		if advisory != nil {
			advisories = append(advisories, *advisory)
		}
	}

	policy, err := s.policies.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

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
		return nil, err
	}

	result := &QuoteResult{
		Advisories:         advisories,
		Pricing:            quote,
		PointsBalanceAfter: customer.LoyaltyPoints - quote.PointsRedeemed + quote.PointsEarned,
	}
	for _, line := range posCart.Lines() {
		result.Lines = append(result.Lines, LineView{
			PackageID:       line.Package.ID,
			PackageName:     line.Package.Name,
			Unit:            line.Package.Unit,
			UnitPriceRupiah: line.Package.UnitPriceRupiah,
			Quantity:        line.Quantity,
			SubtotalRupiah:  line.SubtotalRupiah,
		})
	}
	return result, nil
}

// Checkout commits the order. All validation lives in the order service so
// the commit path is identical whether it is reached through POS or not.
func (s *service) Checkout(ctx context.Context, input orders.CommitInput) (*orders.CommitResult, error) {
	return s.committer.Commit(ctx, input)
}
