package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"carwash/models"
	"carwash/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type fakeRedeemer struct {
	promoErr    error
	referralErr error
	promos      []string
	referrals   []string
}

func (f *fakeRedeemer) RedeemPromoCode(_ context.Context, code, bookingID string) error {
	f.promos = append(f.promos, code+"@"+bookingID)
	return f.promoErr
}

func (f *fakeRedeemer) ConsumeReferral(_ context.Context, userID, bookingID string) error {
	f.referrals = append(f.referrals, userID+"@"+bookingID)
	return f.referralErr
}

type fakeNotifier struct {
	sent []models.StatusNotificationPayload
}

func (f *fakeNotifier) NotifyBookingStatus(_ context.Context, p models.StatusNotificationPayload) error {
	f.sent = append(f.sent, p)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	ids   []string
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			f.ids = append(f.ids, o.Value().(string))
		}
	}
	return &asynq.TaskInfo{ID: f.ids[len(f.ids)-1]}, nil
}

func TestNewRedemptionTaskIsKeyedByBooking(t *testing.T) {
	task, opts, err := NewRedemptionTask(models.RedemptionPayload{BookingID: "b1", PromoCode: "SAVE10"})
	if err != nil {
		t.Fatal(err)
	}
	if task.Type() != TypeRedeemDiscounts {
		t.Errorf("unexpected type %s", task.Type())
	}
	var found bool
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt && o.Value() == "redeem:b1" {
			found = true
		}
	}
	if !found {
		t.Error("expected task id option redeem:b1")
	}
	var p models.RedemptionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil || p.PromoCode != "SAVE10" {
		t.Errorf("unexpected payload %+v (%v)", p, err)
	}
}

func TestRedeemRetriesOnlyInfrastructureErrors(t *testing.T) {
	redeemer := &fakeRedeemer{promoErr: utils.NewError(utils.ErrPromoExhausted, "no uses left")}
	h := &Handlers{Redeemer: redeemer, Notifier: &fakeNotifier{}, Logger: zap.NewNop()}
	ctx := context.Background()

	payload := models.RedemptionPayload{BookingID: "b1", PromoCode: "SAVE10", ReferralUserID: "u1"}
	if err := h.Redeem(ctx, payload); err != nil {
		t.Fatalf("business rejection should not be retried: %v", err)
	}
	if len(redeemer.referrals) != 1 {
		t.Error("referral should still be consumed after a promo rejection")
	}

	redeemer.promoErr = utils.StoreError("redeem", errors.New("connection reset"))
	if err := h.Redeem(ctx, payload); err == nil {
		t.Error("expected infrastructure error to be returned for retry")
	}
}

func TestHandleRedemptionTaskSkipsBadPayload(t *testing.T) {
	h := &Handlers{Redeemer: &fakeRedeemer{}, Notifier: &fakeNotifier{}, Logger: zap.NewNop()}
	err := h.HandleRedemptionTask(context.Background(), asynq.NewTask(TypeRedeemDiscounts, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("expected SkipRetry, got %v", err)
	}
}

func TestAsynqDispatcher(t *testing.T) {
	enq := &fakeEnqueuer{}
	d := &AsynqDispatcher{Client: enq, Logger: zap.NewNop()}
	ctx := context.Background()

	if err := d.EnqueueStatusNotification(ctx, models.StatusNotificationPayload{BookingID: "b1", Status: models.StatusConfirmed}); err != nil {
		t.Fatal(err)
	}
	if len(enq.ids) != 1 || enq.ids[0] != "notify:b1:confirmed" {
		t.Errorf("unexpected task ids %v", enq.ids)
	}

	enq.err = fmt.Errorf("enqueue: %w", asynq.ErrTaskIDConflict)
	if err := d.EnqueueRedemption(ctx, models.RedemptionPayload{BookingID: "b1", PromoCode: "X"}); err != nil {
		t.Errorf("duplicate enqueue should be ignored, got %v", err)
	}

	enq.err = errors.New("redis down")
	if err := d.EnqueueRedemption(ctx, models.RedemptionPayload{BookingID: "b2", PromoCode: "X"}); err == nil {
		t.Error("expected enqueue failure")
	}
}

func TestInlineDispatcher(t *testing.T) {
	redeemer := &fakeRedeemer{}
	notifier := &fakeNotifier{}
	d := &InlineDispatcher{Handlers: &Handlers{Redeemer: redeemer, Notifier: notifier, Logger: zap.NewNop()}}
	ctx := context.Background()

	if err := d.EnqueueRedemption(ctx, models.RedemptionPayload{BookingID: "b1", PromoCode: "SAVE10"}); err != nil {
		t.Fatal(err)
	}
	if err := d.EnqueueStatusNotification(ctx, models.StatusNotificationPayload{BookingID: "b1", Status: models.StatusCancelled}); err != nil {
		t.Fatal(err)
	}
	if len(redeemer.promos) != 1 || len(notifier.sent) != 1 {
		t.Errorf("expected inline execution, got promos=%v sent=%v", redeemer.promos, notifier.sent)
	}
}
