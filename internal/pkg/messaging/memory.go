package messaging

import (
	"context"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Memory is an in-process broker with core NATS delivery semantics:
// at-most-once, fan-out to every subscriber, one member per queue group.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string][]*memorySub
	rr     map[string]*atomic.Uint64
	seq    atomic.Uint64
	closed atomic.Bool
}

type memorySub struct {
	group string
	ch    chan *memoryMessage
	done  chan struct{}
}

// NewMemory returns an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{
		subs: make(map[string][]*memorySub),
		rr:   make(map[string]*atomic.Uint64),
	}
}

// Close stops every consumer. Publishing afterwards fails with io.ErrClosedPipe.
func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, subs := range m.subs {
		for _, s := range subs {
			close(s.done)
		}
	}
	m.subs = make(map[string][]*memorySub)

	return nil
}

// Publish delivers msg to the current subscribers of subject. Messages with
// no subscriber are dropped.
func (m *Memory) Publish(ctx context.Context, subject string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if subject == "" {
		return PublishResult{}, ErrSubjectRequired
	}
	if msg.Delay > 0 {
		return PublishResult{}, ErrUnsupported
	}
	if m.closed.Load() {
		return PublishResult{}, io.ErrClosedPipe
	}

	id := strconv.FormatUint(m.seq.Inc(), 10)
	now := time.Now()

	for _, s := range m.targets(subject) {
		delivery := &memoryMessage{
			id:        id,
			subject:   subject,
			body:      slices.Clone(msg.Body),
			headers:   slices.Clone(msg.Headers),
			timestamp: now,
		}
		select {
		case s.ch <- delivery:
		case <-s.done:
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		}
	}

	return PublishResult{MessageID: id, Subject: subject, Timestamp: now}, nil
}

func (m *Memory) targets(subject string) []*memorySub {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*memorySub
	groups := make(map[string][]*memorySub)
	for _, s := range m.subs[subject] {
		if s.group == "" {
			out = append(out, s)
			continue
		}
		groups[s.group] = append(groups[s.group], s)
	}

	for group, members := range groups {
		n := m.rr[subject+"\x00"+group].Inc()
		out = append(out, members[int(n%uint64(len(members)))])
	}

	return out
}

// Consume subscribes to subject and blocks until ctx is done or the broker closes.
func (m *Memory) Consume(ctx context.Context, subject string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if subject == "" {
		return ErrSubjectRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	concurrency := orDefault(co.concurrency, 1)
	sub := &memorySub{
		group: co.queueGroup,
		ch:    make(chan *memoryMessage, orDefault(co.buffer, 64)),
		done:  make(chan struct{}),
	}
	if err := m.subscribe(subject, sub); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-sub.done:
					return
				case msg := <-sub.ch:
					herr := handleSafely(ctx, DriverMemory, subject, func() error {
						return handler(ctx, msg)
					})
					if co.autoAck && !msg.settled.Load() {
						_ = settle(ctx, msg, herr)
					}
				}
			}
		})
	}

	select {
	case <-ctx.Done():
		m.unsubscribe(subject, sub)
		wg.Wait()
		return ctx.Err()
	case <-sub.done:
		wg.Wait()
		return nil
	}
}

func (m *Memory) subscribe(subject string, sub *memorySub) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() {
		return io.ErrClosedPipe
	}

	m.subs[subject] = append(m.subs[subject], sub)
	if sub.group != "" {
		key := subject + "\x00" + sub.group
		if _, ok := m.rr[key]; !ok {
			m.rr[key] = atomic.NewUint64(0)
		}
	}

	return nil
}

func (m *Memory) unsubscribe(subject string, sub *memorySub) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.Index(m.subs[subject], sub)
	if idx < 0 {
		return
	}
	m.subs[subject] = slices.Delete(m.subs[subject], idx, idx+1)
	close(sub.done)
}

type memoryMessage struct {
	id        string
	subject   string
	body      []byte
	headers   []Header
	timestamp time.Time
	settled   atomic.Bool
	acked     atomic.Bool
}

func (m *memoryMessage) Body() []byte             { return m.body }
func (m *memoryMessage) Headers() []Header        { return m.headers }
func (m *memoryMessage) Header(key string) string { return firstHeader(m.headers, key) }
func (m *memoryMessage) ID() string               { return m.id }
func (m *memoryMessage) Subject() string          { return m.subject }
func (m *memoryMessage) Timestamp() time.Time     { return m.timestamp }

func (m *memoryMessage) Ack(context.Context) error {
	if !m.settled.Swap(true) {
		m.acked.Store(true)
	}
	return nil
}

// Nack settles the message without redelivery.
func (m *memoryMessage) Nack(context.Context) error {
	m.settled.Store(true)
	return nil
}
