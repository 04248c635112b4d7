package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func startConsumer(t *testing.T, m *Memory, subject string, h Handler, opts ...ConsumeOption) (cancel func()) {
	t.Helper()

	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Consume(ctx, subject, h, opts...) }()

	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.subs[subject]) > 0
	}, time.Second, 5*time.Millisecond)

	return func() {
		stop()
		err := <-errCh
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestMemory_PublishConsume(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	got := make(chan Message, 1)
	stop := startConsumer(t, m, "account.verified", func(_ context.Context, msg Message) error {
		got <- msg
		return nil
	}, WithAutoAck(true))
	defer stop()

	res, err := m.Publish(context.Background(), "account.verified", OutgoingMessage{
		Body:    []byte(`{"username":"alice"}`),
		Headers: []Header{{Key: "X-Correlation-ID", Value: []byte("cid-1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1", res.MessageID)

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"username":"alice"}`, string(msg.Body()))
		assert.Equal(t, "cid-1", msg.Header("X-Correlation-ID"))
		assert.Equal(t, "account.verified", msg.Subject())
		assert.Eventually(t, func() bool { return msg.(*memoryMessage).acked.Load() }, time.Second, 5*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestMemory_AutoAckNacksOnError(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	got := make(chan *memoryMessage, 1)
	stop := startConsumer(t, m, "s", func(_ context.Context, msg Message) error {
		got <- msg.(*memoryMessage)
		return errors.New("boom")
	}, WithAutoAck(true))
	defer stop()

	_, err := m.Publish(context.Background(), "s", OutgoingMessage{Body: []byte("x")})
	require.NoError(t, err)

	msg := <-got
	assert.Eventually(t, msg.settled.Load, time.Second, 5*time.Millisecond)
	assert.False(t, msg.acked.Load())
}

func TestMemory_QueueGroupDeliversOnce(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(10)
	h := func(context.Context, Message) error {
		count.Inc()
		wg.Done()
		return nil
	}

	stop1 := startConsumer(t, m, "s", h, WithQueueGroup("workers"))
	defer stop1()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Consume(ctx, "s", h, WithQueueGroup("workers"))
	}()
	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.subs["s"]) == 2
	}, time.Second, 5*time.Millisecond)

	for range 10 {
		_, err := m.Publish(context.Background(), "s", OutgoingMessage{Body: []byte("x")})
		require.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, int64(10), count.Load())
	cancel()
	<-done
}

func TestMemory_PanicIsRecovered(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	got := make(chan *memoryMessage, 2)
	stop := startConsumer(t, m, "s", func(_ context.Context, msg Message) error {
		got <- msg.(*memoryMessage)
		if string(msg.Body()) == "panic" {
			panic("handler exploded")
		}
		return nil
	}, WithAutoAck(true))
	defer stop()

	for _, body := range []string{"panic", "ok"} {
		_, err := m.Publish(context.Background(), "s", OutgoingMessage{Body: []byte(body)})
		require.NoError(t, err)
	}

	first, second := <-got, <-got
	assert.Eventually(t, first.settled.Load, time.Second, 5*time.Millisecond)
	assert.False(t, first.acked.Load())
	assert.Eventually(t, second.acked.Load, time.Second, 5*time.Millisecond)
}

func TestMemory_Validation(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	_, err := m.Publish(ctx, "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrSubjectRequired)

	_, err = m.Publish(ctx, "s", OutgoingMessage{Delay: time.Second})
	assert.ErrorIs(t, err, ErrUnsupported)

	assert.ErrorIs(t, m.Consume(ctx, "s", nil), ErrHandlerRequired)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err = m.Publish(ctx, "s", OutgoingMessage{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.ErrorIs(t, m.Consume(ctx, "s", func(context.Context, Message) error { return nil }), io.ErrClosedPipe)
}

func TestMemory_CloseStopsConsumers(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Consume(context.Background(), "s", func(context.Context, Message) error { return nil })
	}()
	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.subs["s"]) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Close())
	assert.NoError(t, <-errCh)
}

func TestNewFromDriver(t *testing.T) {
	t.Parallel()

	mq, err := NewFromDriver("memory", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mq)

	_, err = NewFromDriver("kafka", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver("nats", FactoryOptions{})
	assert.ErrorIs(t, err, ErrNATSURLRequired)
}

func TestConsumeOptions(t *testing.T) {
	t.Parallel()

	co := newConsumeOptions(WithBuffer(8), nil, WithQueueGroup("q"), WithConcurrency(3), WithAutoAck(true))
	assert.Equal(t, consumeOptions{concurrency: 3, autoAck: true, queueGroup: "q", buffer: 8}, co)

	assert.Equal(t, 64, orDefault(newConsumeOptions(WithBuffer(0)).buffer, 64))
}
