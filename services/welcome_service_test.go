package services

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type transferCall struct {
	card   string
	to     string
	amount string
}

type fakePayments struct {
	mu    sync.Mutex
	fail  bool
	calls []transferCall
}

func (f *fakePayments) Transfer(_ context.Context, cardCode, toID string, amount decimal.Decimal) TransferResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, transferCall{card: cardCode, to: toID, amount: amount.StringFixed(WorthScale)})
	if f.fail {
		return TransferResult{Reason: "simulated outage"}
	}
	return TransferResult{Success: true}
}

func (f *fakePayments) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeNotifier struct {
	mu       sync.Mutex
	channels []string
	notices  []WelcomeNotice
}

func (f *fakeNotifier) DeliverNotice(_ context.Context, channelID string, notice WelcomeNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channelID)
	f.notices = append(f.notices, notice)
	return nil
}

func newWelcomeFixture(t *testing.T) (*WelcomeService, *fakePayments, *fakeNotifier) {
	t.Helper()
	db := setupTestDB(t)
	payments := &fakePayments{}
	notifier := &fakeNotifier{}
	svc := NewWelcomeService(NewConfigService(db), NewLedgerService(db), payments, notifier)
	return svc, payments, notifier
}

func TestProcessDuplicateEventPaysOnce(t *testing.T) {
	svc, payments, _ := newWelcomeFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Config.SetCard("g1", "card-1"))
	require.NoError(t, svc.Config.SetWorth("g1", "1.5"))

	notice, err := svc.Process(ctx, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, notice)
	require.True(t, notice.Paid)

	// The same event delivered again is a no-op.
	notice, err = svc.Process(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Nil(t, notice)

	require.Equal(t, 1, payments.callCount())
}

func TestProcessPaysConfiguredAmount(t *testing.T) {
	svc, payments, _ := newWelcomeFixture(t)

	require.NoError(t, svc.Config.SetCard("g1", "card-1"))
	require.NoError(t, svc.Config.SetWorth("g1", "2.5"))

	notice, err := svc.Process(context.Background(), "g1", "u7")
	require.NoError(t, err)
	require.NotNil(t, notice)

	require.Equal(t, 1, payments.callCount())
	call := payments.calls[0]
	require.Equal(t, "card-1", call.card)
	require.Equal(t, "u7", call.to)
	require.Equal(t, "2.50000000", call.amount)
	require.Equal(t, "2.50000000", notice.AmountText)
}

func TestProcessWithoutCardSkipsPayment(t *testing.T) {
	svc, payments, _ := newWelcomeFixture(t)

	notice, err := svc.Process(context.Background(), "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, notice)
	require.False(t, notice.Paid)
	require.Equal(t, "0.00000001", notice.AmountText)
	require.Equal(t, 0, payments.callCount())

	// The ledger entry exists even though nothing was paid.
	has, err := svc.Ledger.HasRewarded("g1", "u1")
	require.NoError(t, err)
	require.True(t, has)
}

func TestProcessTransferFailureKeepsMemberProcessed(t *testing.T) {
	svc, payments, _ := newWelcomeFixture(t)
	payments.fail = true
	ctx := context.Background()

	require.NoError(t, svc.Config.SetCard("g1", "card-1"))
	require.NoError(t, svc.Config.SetWorth("g1", "1"))

	notice, err := svc.Process(ctx, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, notice, "greeting is still composed when the transfer fails")
	require.False(t, notice.Paid)
	require.Equal(t, "1.00000000", notice.AmountText)

	// A retried identical event must not trigger a second attempt.
	notice, err = svc.Process(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Nil(t, notice)
	require.Equal(t, 1, payments.callCount())
}

func TestProcessDeliversToConfiguredChannel(t *testing.T) {
	svc, _, notifier := newWelcomeFixture(t)

	require.NoError(t, svc.Config.SetChannel("g1", "chan-42"))

	notice, err := svc.Process(context.Background(), "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, notice)

	require.Equal(t, []string{"chan-42"}, notifier.channels)
	require.Equal(t, *notice, notifier.notices[0])

	// No channel configured: composed but not pushed.
	notice, err = svc.Process(context.Background(), "g2", "u1")
	require.NoError(t, err)
	require.NotNil(t, notice)
	require.Len(t, notifier.channels, 1)
}
