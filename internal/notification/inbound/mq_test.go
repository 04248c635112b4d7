package inbound

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/goaccount/internal/notification/usecase"
	"github.com/shandysiswandi/goaccount/internal/pkg/config"
	"github.com/shandysiswandi/goaccount/internal/pkg/goroutine"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/messaging"
	"github.com/shandysiswandi/goaccount/internal/shared/event"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type recordingUC struct {
	mu   sync.Mutex
	got  []usecase.ConsumeAccountVerifiedInput
	cIDs []string
}

func (r *recordingUC) ConsumeAccountVerified(ctx context.Context, in usecase.ConsumeAccountVerifiedInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, in)
	r.cIDs = append(r.cIDs, instrument.GetCorrelationID(ctx))
	return nil
}

func (r *recordingUC) snapshot() ([]usecase.ConsumeAccountVerifiedInput, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]usecase.ConsumeAccountVerifiedInput(nil), r.got...), append([]string(nil), r.cIDs...)
}

func TestRegisterMQConsumer(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  notification:
    consumer_names: ["account_verified_notification"]
    consumer_buffer: 8
`))
	require.NoError(t, err)

	broker, err := messaging.NewFromDriver(messaging.DriverMemory, messaging.FactoryOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = broker.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	routine := goroutine.NewManager(4)
	t.Cleanup(func() {
		cancel()
		_ = routine.Wait()
	})

	rec := &recordingUC{}
	RegisterMQConsumer(ctx, cfg, routine, broker, fixedID("generated"), rec, instrument.NewNoop())

	body, err := json.Marshal(event.AccountVerified{AccountID: 7, Username: "alice", Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	// the consumer subscribes asynchronously; publish until it is seen
	require.Eventually(t, func() bool {
		_, err := broker.Publish(ctx, event.AccountVerifiedSubject, messaging.OutgoingMessage{
			Body:    body,
			Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte("cid-7")}},
		})
		if err != nil {
			return false
		}
		got, _ := rec.snapshot()
		return len(got) > 0
	}, 2*time.Second, 20*time.Millisecond)

	got, cIDs := rec.snapshot()
	assert.Equal(t, usecase.ConsumeAccountVerifiedInput{AccountID: 7, Username: "alice", Email: "alice@example.com", Name: "Alice"}, got[0])
	assert.Equal(t, "cid-7", cIDs[0])
}

type stubMessage struct {
	messaging.Message
	body    []byte
	headers map[string]string
}

func (m stubMessage) Body() []byte             { return m.body }
func (m stubMessage) ID() string               { return "m-1" }
func (m stubMessage) Header(key string) string { return m.headers[key] }

func TestMQHandler_AccountVerifiedNotification(t *testing.T) {
	t.Parallel()

	rec := &recordingUC{}
	h := &MQHandler{uc: rec, uuid: fixedID("generated"), ins: instrument.NewNoop()}

	require.NoError(t, h.AccountVerifiedNotification(context.Background(), stubMessage{body: []byte("{")}))
	got, _ := rec.snapshot()
	assert.Empty(t, got)

	require.NoError(t, h.AccountVerifiedNotification(context.Background(), stubMessage{body: []byte(`{"account_id":1,"username":"bob","email":"bob@example.com"}`)}))
	got, cIDs := rec.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].Username)
	assert.Equal(t, "generated", cIDs[0])
}
