package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadassist/internal/notification/domain"
	"roadassist/internal/shared/mq"
	"roadassist/internal/shared/util"
)

type published struct {
	exchange   string
	routingKey string
	payload    interface{}
}

type fakePublisher struct {
	err  error
	sent chan published
}

func (f *fakePublisher) PublishJSON(_ context.Context, exchange, routingKey string, payload interface{}) error {
	f.sent <- published{exchange, routingKey, payload}
	return f.err
}

type fakePusher struct {
	sent chan domain.Envelope
}

func (f *fakePusher) Send(_ string, message interface{}) error {
	if env, ok := message.(domain.Envelope); ok {
		f.sent <- env
	}
	return nil
}

func waitFor[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		panic("unreachable")
	}
}

func TestNotifyPublishesAndPushes(t *testing.T) {
	pub := &fakePublisher{sent: make(chan published, 1)}
	push := &fakePusher{sent: make(chan domain.Envelope, 1)}
	d := NewDispatcher(pub, push, util.NewLogger())

	d.Notify("moto-1", domain.EventBreakdownAccepted, map[string]interface{}{"breakdown_id": "bd-1"})

	got := waitFor(t, pub.sent)
	assert.Equal(t, mq.NotificationExchange, got.exchange)
	assert.Equal(t, "notification.breakdown_accepted", got.routingKey)

	env, ok := got.payload.(domain.Envelope)
	require.True(t, ok)
	assert.Equal(t, "moto-1", env.UserID)
	assert.Equal(t, "Demande acceptee", env.Title)
	assert.Equal(t, "bd-1", env.Payload["breakdown_id"])

	pushed := waitFor(t, push.sent)
	assert.Equal(t, env.Type, pushed.Type)
}

func TestNotifyUnknownEventFallsBackToSystem(t *testing.T) {
	pub := &fakePublisher{sent: make(chan published, 1)}
	d := NewDispatcher(pub, nil, util.NewLogger())

	d.Notify("moto-1", "solar_flare", nil)

	got := waitFor(t, pub.sent)
	assert.Equal(t, "notification.system", got.routingKey)
	env := got.payload.(domain.Envelope)
	assert.Equal(t, domain.EventSystem, env.Type)
}

func TestNotifySwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down"), sent: make(chan published, 1)}
	push := &fakePusher{sent: make(chan domain.Envelope, 1)}
	d := NewDispatcher(pub, push, util.NewLogger())

	// must not panic or block the caller
	d.Notify("moto-1", domain.EventRepairCompleted, nil)

	waitFor(t, pub.sent)
	// the ws push still happens even when the broker is down
	waitFor(t, push.sent)
}
