package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSendGrid(t *testing.T, status int) (*SendGridNotifier, *[]map[string]any) {
	t.Helper()
	var (
		mu       sync.Mutex
		received []map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	n, err := NewSendGridNotifier("SG.test", "noreply@agrimarket.test", "AgriMarket")
	require.NoError(t, err)
	req := sendgrid.GetRequest("SG.test", "/v3/mail/send", srv.URL)
	req.Method = "POST"
	n.client = &sendgrid.Client{Request: req}
	return n, &received
}

func TestNewSendGridNotifier_RequiresConfig(t *testing.T) {
	_, err := NewSendGridNotifier("", "a@b.c", "x")
	assert.Error(t, err)
	_, err = NewSendGridNotifier("key", "", "x")
	assert.Error(t, err)
}

func TestSendGridNotifier_Notify(t *testing.T) {
	n, received := newTestSendGrid(t, http.StatusAccepted)

	msg := ReviewMessage(ReviewOutcome{Name: "Ada", Email: "ada@farm.test", Subject: "seller profile", Reason: "blurry <id>"})
	require.NoError(t, n.Notify(context.Background(), msg))

	require.Len(t, *received, 1)
	payload := (*received)[0]
	assert.Equal(t, "Update on your seller profile: action needed", payload["subject"])
	from := payload["from"].(map[string]any)
	assert.Equal(t, "noreply@agrimarket.test", from["email"])

	content := payload["content"].([]any)
	require.Len(t, content, 2)
	htmlPart := content[1].(map[string]any)
	assert.Contains(t, htmlPart["value"], "blurry &lt;id&gt;")
}

func TestSendGridNotifier_ErrorStatus(t *testing.T) {
	n, _ := newTestSendGrid(t, http.StatusUnauthorized)

	err := n.Notify(context.Background(), RegistrationSubmittedMessage("Bo", "bo@ride.test", "rider"))
	assert.ErrorContains(t, err, "status 401")
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (r *recordingNotifier) Notify(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	r.msgs = append(r.msgs, msg)
	return r.err
}

func TestAsyncNotifier_DeliversAfterRequestContextEnds(t *testing.T) {
	inner := &recordingNotifier{}
	async := NewAsyncNotifier(inner, time.Second)
	var wg sync.WaitGroup
	wg.Add(1)
	async.done = wg.Done

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, async.Notify(ctx, Message{ToEmail: "a@b.c", Subject: "hi"}))
	cancel()
	wg.Wait()

	inner.mu.Lock()
	defer inner.mu.Unlock()
	require.Len(t, inner.msgs, 1)
	assert.Equal(t, "hi", inner.msgs[0].Subject)
}

func TestAsyncNotifier_SwallowsErrors(t *testing.T) {
	inner := &recordingNotifier{err: errors.New("smtp down")}
	async := NewAsyncNotifier(inner, 0)
	var wg sync.WaitGroup
	wg.Add(1)
	async.done = wg.Done

	assert.NoError(t, async.Notify(context.Background(), Message{ToEmail: "a@b.c"}))
	wg.Wait()
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), Message{ToEmail: "a@b.c"}))
}

func TestReviewMessage_Approved(t *testing.T) {
	msg := ReviewMessage(ReviewOutcome{Name: "Ada", Email: "ada@farm.test", Subject: "rider documents", Approved: true})
	assert.Equal(t, "Update on your rider documents: approved", msg.Subject)
	assert.Equal(t, "ada@farm.test", msg.ToEmail)
}
