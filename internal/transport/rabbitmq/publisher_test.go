package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	exchange  string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_PublishAck(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	acks := make(chan amqp.Confirmation, 1)
	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: true}

	p := newPublisher(ch, acks, "ecodeli.notifications")
	p.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, p.Publish(context.Background(), "email", []byte(`{"to":"a@b.c"}`)))
	require.Equal(t, "ecodeli.notifications", ch.exchange)
	require.Equal(t, []string{"email"}, ch.keys)
	require.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	require.Equal(t, "application/json", ch.published[0].ContentType)
	require.Equal(t, "email", ch.published[0].Type)

	require.NoError(t, p.Close())
	require.True(t, ch.closed)
}

func TestPublisher_PublishNack(t *testing.T) {
	t.Parallel()

	acks := make(chan amqp.Confirmation, 1)
	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: false}
	p := newPublisher(&fakeChannel{}, acks, "x")

	require.ErrorIs(t, p.Publish(context.Background(), "push", nil), ErrNack)
}

func TestPublisher_PublishError(t *testing.T) {
	t.Parallel()

	boom := errors.New("channel closed")
	p := newPublisher(&fakeChannel{err: boom}, make(chan amqp.Confirmation), "x")

	require.ErrorIs(t, p.Publish(context.Background(), "push", nil), boom)
}

func TestPublisher_ContextCancelledWhileWaiting(t *testing.T) {
	t.Parallel()

	p := newPublisher(&fakeChannel{}, make(chan amqp.Confirmation), "x")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, p.Publish(ctx, "push", nil), context.DeadlineExceeded)
}

func TestNop(t *testing.T) {
	t.Parallel()

	require.NoError(t, Nop{}.Publish(context.Background(), "push", []byte("x")))
	require.NoError(t, Nop{}.Close())
}
