package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookingRepo "carwash/database/repository/booking"
	promoRepo "carwash/database/repository/promo"
	referralRepo "carwash/database/repository/referral"
	settingsRepo "carwash/database/repository/settings"
	shiftRepo "carwash/database/repository/shift"
	"carwash/handlers"
	"carwash/middleware"
	"carwash/models"
	"carwash/services/admin"
	"carwash/services/availability"
	"carwash/services/booking"
	"carwash/services/guest"
	"carwash/services/notification"
	"carwash/services/pricing"
	"carwash/services/tasks"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var jwtSecret = []byte("route-secret")

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := utils.FixedClock{T: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)}
	logger := zap.NewNop()
	bookings := bookingRepo.NewMemoryBookingRepo()
	settings := settingsRepo.NewMemorySettingsRepo()

	pricingSvc := &pricing.DefaultPricingService{
		Settings:        settings,
		Promos:          promoRepo.NewMemoryPromoRepo(),
		Referrals:       referralRepo.NewMemoryReferralRepo(),
		Clock:           clock,
		Logger:          logger,
		ReferralPercent: 10,
	}
	if err := pricingSvc.SeedDefaults(context.Background()); err != nil {
		t.Fatal(err)
	}
	availabilitySvc := &availability.DefaultAvailabilityService{
		Bookings: bookings, Settings: settings, Clock: clock, Location: time.UTC, Logger: logger,
	}
	dispatcher := &tasks.InlineDispatcher{Handlers: &tasks.Handlers{
		Redeemer: pricingSvc,
		Notifier: &notification.LogNotificationService{Logger: logger},
		Logger:   logger,
	}}
	bookingSvc := &booking.DefaultBookingService{
		Repo:         bookings,
		Availability: availabilitySvc,
		Pricing:      pricingSvc,
		Dispatcher:   dispatcher,
		Clock:        clock,
		Logger:       logger,
	}
	guests := &guest.DefaultSessionService{
		Secret:   []byte("guest-secret"),
		TTL:      24 * time.Hour,
		Timeout:  time.Second,
		Registry: guest.NewMemoryRegistry(clock.Now),
		Clock:    clock,
		Logger:   logger,
	}
	adminSvc := &admin.DefaultAdminService{
		Shifts:   shiftRepo.NewMemoryShiftRepo(),
		Bookings: bookings,
		Settings: settings,
		Clock:    clock,
		Logger:   logger,
	}

	hb := &handlers.HandlerBundle{
		JWTSecret: jwtSecret,
		Guests:    guests,
		Booking:   handlers.NewBookingHandler(bookingSvc, guests),
		Slots:     handlers.NewSlotsHandler(availabilitySvc),
		Pricing:   handlers.NewPricingHandler(pricingSvc),
		Admin:     handlers.NewAdminHandler(adminSvc),
		Guest:     handlers.NewGuestHandler(guests),
	}
	r := gin.New()
	r.Use(utils.ErrorHandler())
	RegisterRoutes(r, hb)
	return r
}

func bearer(t *testing.T, role models.Role, sub, phone string) map[string]string {
	t.Helper()
	tok, err := utils.GenerateToken(jwtSecret, utils.ActorClaims{Subject: sub, Role: string(role), Phone: phone}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

func call(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func bookingBody(slot string) map[string]interface{} {
	return map[string]interface{}{
		"selection": map[string]interface{}{
			"packageId":   "platinum",
			"vehicleType": "sedan",
			"addOns":      []string{"interior_vacuum", "tire_shine"},
		},
		"date":          "2026-10-20",
		"time":          slot,
		"location":      map[string]string{"area": "Maadi", "street": "Road 9"},
		"paymentMethod": "cash",
	}
}

func TestBookingFlow(t *testing.T) {
	r := newTestRouter(t)
	customer := bearer(t, models.RoleCustomer, "user-1", "+201001234567")
	staff := bearer(t, models.RoleStaff, "staff-1", "")
	manager := bearer(t, models.RoleManager, "mgr-1", "")

	var slots struct {
		Slots []models.TimeSlot `json:"slots"`
	}
	if code := call(t, r, http.MethodGet, "/api/slots?date=2026-10-20", nil, nil, &slots); code != http.StatusOK || len(slots.Slots) != 13 {
		t.Fatalf("expected 13 open slots, got %d (%d)", len(slots.Slots), code)
	}

	var session guest.Session
	if code := call(t, r, http.MethodPost, "/api/guest/sessions", map[string]string{"phone": "+20 100 123 4567"}, nil, &session); code != http.StatusCreated {
		t.Fatalf("guest session: %d", code)
	}
	guestHeaders := map[string]string{middleware.GuestSessionHeader: session.Token}

	var guestBooking models.Booking
	if code := call(t, r, http.MethodPost, "/api/bookings", bookingBody("14:00"), guestHeaders, &guestBooking); code != http.StatusCreated {
		t.Fatalf("guest booking: %d", code)
	}
	if guestBooking.Price != 104 || guestBooking.CustomerKind != models.CustomerKindGuest {
		t.Errorf("unexpected guest booking %+v", guestBooking)
	}

	var errBody utils.ErrorResponse
	if code := call(t, r, http.MethodPost, "/api/bookings", bookingBody("14:00"), customer, &errBody); code != http.StatusConflict {
		t.Errorf("expected 409 for a taken slot, got %d", code)
	}
	if errBody.Code != utils.ErrSlotNoLongerAvailable.Code {
		t.Errorf("unexpected error code %q", errBody.Code)
	}

	var own models.Booking
	if code := call(t, r, http.MethodPost, "/api/bookings", bookingBody("15:00"), customer, &own); code != http.StatusCreated {
		t.Fatalf("customer booking: %d", code)
	}

	path := "/api/bookings/" + own.ID + "/status"
	if code := call(t, r, http.MethodPost, path, map[string]string{"status": "confirmed"}, customer, nil); code != http.StatusForbidden {
		t.Errorf("customers may not confirm, got %d", code)
	}
	var confirmed models.Booking
	if code := call(t, r, http.MethodPost, path, map[string]string{"status": "confirmed"}, staff, &confirmed); code != http.StatusOK || confirmed.Status != models.StatusConfirmed {
		t.Errorf("staff confirm: %d %s", code, confirmed.Status)
	}
	if code := call(t, r, http.MethodPost, path, map[string]string{"status": "completed"}, staff, nil); code != http.StatusConflict {
		t.Errorf("expected 409 for an illegal transition, got %d", code)
	}

	var migrated struct {
		Migrated int64 `json:"migrated"`
	}
	if code := call(t, r, http.MethodPost, "/api/bookings/migrate-guest", nil, customer, &migrated); code != http.StatusOK || migrated.Migrated != 1 {
		t.Errorf("migration: %d %+v", code, migrated)
	}

	var mine struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if code := call(t, r, http.MethodGet, "/api/bookings/mine", nil, customer, &mine); code != http.StatusOK || len(mine.Bookings) != 2 {
		t.Errorf("expected two bookings after migration, got %d (%d)", len(mine.Bookings), code)
	}

	var day struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if code := call(t, r, http.MethodGet, "/api/admin/bookings?date=2026-10-20", nil, manager, &day); code != http.StatusOK || len(day.Bookings) != 2 {
		t.Errorf("day view: %d %d", code, len(day.Bookings))
	}
}

func TestConsoleRoutes(t *testing.T) {
	r := newTestRouter(t)
	customer := bearer(t, models.RoleCustomer, "user-1", "")
	staff := bearer(t, models.RoleStaff, "staff-1", "")
	manager := bearer(t, models.RoleManager, "mgr-1", "")
	closed := map[string][]string{"slots": {"16:00", "17:00"}}

	if code := call(t, r, http.MethodPut, "/api/admin/closed-slots/2026-10-20", closed, customer, nil); code != http.StatusForbidden {
		t.Errorf("customer: expected 403, got %d", code)
	}
	if code := call(t, r, http.MethodPut, "/api/admin/closed-slots/2026-10-20", closed, staff, nil); code != http.StatusForbidden {
		t.Errorf("staff: expected 403, got %d", code)
	}
	var cfg models.ClosedSlotConfig
	if code := call(t, r, http.MethodPut, "/api/admin/closed-slots/2026-10-20", closed, manager, &cfg); code != http.StatusOK || len(cfg.Slots) != 2 {
		t.Fatalf("manager close: %d %+v", code, cfg)
	}

	var slots struct {
		Slots []models.TimeSlot `json:"slots"`
	}
	call(t, r, http.MethodGet, "/api/slots?date=2026-10-20", nil, nil, &slots)
	if len(slots.Slots) != 11 {
		t.Errorf("expected 11 open slots, got %d", len(slots.Slots))
	}

	promo := map[string]interface{}{"code": "save10", "discountType": "percentage", "discountValue": 10, "active": true}
	if code := call(t, r, http.MethodPost, "/api/admin/promos", promo, manager, nil); code != http.StatusCreated {
		t.Fatalf("create promo: %d", code)
	}
	var quote pricing.Quote
	body := map[string]interface{}{"selection": map[string]interface{}{
		"packageId": "platinum", "vehicleType": "sedan",
		"addOns": []string{"interior_vacuum", "tire_shine"}, "promoCode": "SAVE10",
	}}
	if code := call(t, r, http.MethodPost, "/api/quote", body, nil, &quote); code != http.StatusOK || quote.Breakdown.Total != 94 {
		t.Errorf("quote: %d %+v", code, quote.Breakdown)
	}

	shift := map[string]string{"staffId": "staff-1", "date": "2026-10-20", "time": "14:00"}
	if code := call(t, r, http.MethodPost, "/api/admin/shifts", shift, manager, nil); code != http.StatusCreated {
		t.Errorf("add shift: %d", code)
	}
	var report struct {
		Slots []models.SlotStaffing `json:"slots"`
	}
	if code := call(t, r, http.MethodGet, "/api/admin/staffing?date=2026-10-20", nil, staff, &report); code != http.StatusOK || len(report.Slots) != 13 {
		t.Errorf("staffing report: %d %d", code, len(report.Slots))
	}

	if code := call(t, r, http.MethodGet, "/health", nil, nil, nil); code != http.StatusOK {
		t.Errorf("health: %d", code)
	}
}
