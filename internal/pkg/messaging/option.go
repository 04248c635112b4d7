package messaging

type consumeOptions struct {
	// concurrency is the number of handler goroutines.
	concurrency int

	// autoAck acks on handler success and nacks on failure.
	autoAck bool

	// queueGroup load-balances deliveries across consumers sharing the name.
	queueGroup string

	// buffer is the per-subscription channel capacity.
	buffer int
}

// ConsumeOption configures consumer behavior.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	var co consumeOptions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&co)
	}
	return co
}

// WithConcurrency sets how many handler goroutines process messages in parallel.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithQueueGroup sets the queue group name.
func WithQueueGroup(queueGroup string) ConsumeOption {
	return func(o *consumeOptions) { o.queueGroup = queueGroup }
}

// WithAutoAck controls whether the consumer acks/nacks after the handler returns.
func WithAutoAck(autoAck bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = autoAck }
}

// WithBuffer sets the subscription buffer size.
func WithBuffer(n int) ConsumeOption {
	return func(o *consumeOptions) { o.buffer = n }
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
