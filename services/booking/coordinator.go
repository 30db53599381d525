package booking

import (
	"context"
	"strings"

	"carwash/models"
	"carwash/services/availability"
	"carwash/services/pricing"
	"carwash/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// owner describes who a new booking belongs to, resolved from the actor variant.
type owner struct {
	ref            string
	kind           models.CustomerKind
	source         models.BookingSource
	guestPhone     string
	enteredBy      string
	referralUserID string
}

func resolveOwner(req models.BookingRequest, actor models.Actor) (owner, error) {
	switch a := actor.(type) {
	case models.CustomerActor:
		if a.UserID == "" {
			return owner{}, utils.NewError(utils.ErrForbidden, "customer identity missing")
		}
		o := owner{ref: a.UserID, kind: models.CustomerKindUser, source: models.SourceSelfService}
		if req.UseReferral {
			o.referralUserID = a.UserID
		}
		return o, nil
	case models.GuestActor:
		phone := utils.NormalizePhone(a.Phone)
		if a.SessionID == "" || phone == "" {
			return owner{}, utils.NewError(utils.ErrInvalidSelection, "guest bookings need a session and a contact phone")
		}
		return owner{
			ref:        models.GuestCustomerRef(a.SessionID),
			kind:       models.CustomerKindGuest,
			source:     models.SourceSelfService,
			guestPhone: phone,
		}, nil
	case models.StaffActor:
		return owner{
			ref:       models.StaffCustomerRef(a.StaffID),
			kind:      models.CustomerKindStaff,
			source:    models.SourceStaff,
			enteredBy: a.StaffID,
		}, nil
	case models.ManagerActor:
		return owner{
			ref:       models.StaffCustomerRef(a.ManagerID),
			kind:      models.CustomerKindStaff,
			source:    models.SourceStaff,
			enteredBy: a.ManagerID,
		}, nil
	}
	return owner{}, utils.NewError(utils.ErrForbidden, "unknown actor")
}

func validateRequest(req models.BookingRequest) error {
	if _, err := availability.ParseDate(req.Date); err != nil {
		return err
	}
	if _, ok := availability.LookupSlot(req.Time); !ok {
		return utils.NewError(utils.ErrInvalidSlot, "unknown slot %q", req.Time)
	}
	if strings.TrimSpace(req.Location.Area) == "" {
		return utils.NewError(utils.ErrInvalidSelection, "location area is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return utils.NewError(utils.ErrInvalidSelection, "payment method is required")
	}
	return nil
}

// CreateBooking is the reserve-and-create primitive shared by the customer,
// guest and staff paths. The availability check and price are computed
// concurrently; the insert itself is guarded by the store's per-slot
// uniqueness, so of two racing requests exactly one wins.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest, actor models.Actor) (*models.Booking, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	o, err := resolveOwner(req, actor)
	if err != nil {
		return nil, err
	}
	req.Selection.PromoCode = models.NormalizePromoCode(req.Selection.PromoCode)

	var quote pricing.Quote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Availability.CheckSlot(gctx, req.Date, req.Time)
	})
	g.Go(func() error {
		var err error
		// Price is always computed here, whatever the entry form showed.
		quote, err = s.Pricing.Quote(gctx, req.Selection, pricing.QuoteOptions{ReferralUserID: o.referralUserID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		CustomerRef:     o.ref,
		CustomerKind:    o.kind,
		GuestPhone:      o.guestPhone,
		Source:          o.source,
		EnteredBy:       o.enteredBy,
		ContactName:     strings.TrimSpace(req.ContactName),
		ContactPhone:    utils.NormalizePhone(req.ContactPhone),
		Selection:       req.Selection,
		ReferralApplied: quote.Referral,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		Price:           quote.Breakdown.Total,
		Breakdown:       quote.Breakdown,
		Status:          models.StatusPending,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
		UpdatedBy:       actor.ActorID(),
	}

	payload := redemptionPayload(b)
	b.RedemptionPending = payload.HasWork()

	if err := s.Repo.Create(ctx, b); err != nil {
		s.Logger.Warn("booking insert rejected",
			zap.String("date", req.Date), zap.String("time", req.Time), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("source", string(b.Source)),
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.Int64("price", b.Price))

	if b.RedemptionPending && s.settleRedemption(ctx, payload) {
		s.clearRedemptionPending(ctx, b)
	}
	return b, nil
}
