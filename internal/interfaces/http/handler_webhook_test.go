package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webautomy/relay/internal/entities"
	"github.com/webautomy/relay/internal/usecases"
)

// ---- fakes wired behind the webhook handler ----

type stubChannels struct {
	channel *entities.Channel
}

func (s *stubChannels) GetByID(_ context.Context, id int) (*entities.Channel, error) {
	if s.channel != nil && s.channel.ID == id {
		return s.channel, nil
	}
	return nil, entities.ErrNotFound
}

func (s *stubChannels) GetByPhoneNumberID(_ context.Context, phoneNumberID string) (*entities.Channel, error) {
	if s.channel != nil && s.channel.PhoneNumberID == phoneNumberID {
		return s.channel, nil
	}
	return nil, entities.ErrNotFound
}

type stubContacts struct{}

func (s *stubContacts) Upsert(_ context.Context, orgID int, phone, name string) (*entities.Contact, error) {
	return &entities.Contact{ID: 1, OrgID: orgID, Phone: phone, Name: name}, nil
}

// signalMessages signals on every insert so tests can wait for the async
// pipeline that runs after the webhook ACK.
type signalMessages struct {
	mu       sync.Mutex
	inserted []entities.Message
	signal   chan entities.Message
}

func newSignalMessages() *signalMessages {
	return &signalMessages{signal: make(chan entities.Message, 10)}
}

func (s *signalMessages) Insert(_ context.Context, msg *entities.Message) error {
	s.mu.Lock()
	msg.ID = len(s.inserted) + 1
	s.inserted = append(s.inserted, *msg)
	s.mu.Unlock()
	s.signal <- *msg
	return nil
}

type stubRules struct {
	rules []entities.AutomationRule
}

func (s *stubRules) ActiveByOrg(_ context.Context, _ int) ([]entities.AutomationRule, error) {
	return s.rules, nil
}

type stubLedger struct{}

func (stubLedger) DebitOrFail(_ context.Context, _ int, _ int64, _ string) error { return nil }
func (stubLedger) Credit(_ context.Context, _ int, _ int64, _, _ string) error   { return nil }

type stubSender struct{}

func (stubSender) Send(_ context.Context, _ entities.Channel, _ entities.SendRequest) (entities.SendReceipt, error) {
	return entities.SendReceipt{ExternalID: "sim-1", Simulated: true}, nil
}

type stubDedup struct{}

func (stubDedup) Seen(_ context.Context, _ string) bool { return false }

func webhookTestRouter(t *testing.T, messages *signalMessages) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	channels := &stubChannels{channel: &entities.Channel{ID: 10, OrgID: 1, PhoneNumberID: "555001", Status: "connected"}}
	dispatch := usecases.NewDispatchService(channels, messages, stubLedger{}, stubSender{}, 20)
	automation := usecases.NewAutomationService(channels, &stubContacts{}, messages, &stubRules{}, stubDedup{}, dispatch)

	h := NewHandler(dispatch, automation, nil, nil, nil, nil, "secret-token", false)

	r := gin.New()
	r.GET("/webhook", h.VerifyWebhook)
	r.POST("/webhook", h.ReceiveWebhook)
	return r
}

func TestVerifyWebhook(t *testing.T) {
	r := webhookTestRouter(t, newSignalMessages())

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{name: "valid handshake", query: "hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", wantStatus: 200, wantBody: "12345"},
		{name: "wrong token", query: "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=12345", wantStatus: 403},
		{name: "wrong mode", query: "hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=12345", wantStatus: 403},
		{name: "missing params", query: "", wantStatus: 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/webhook?"+tt.query, nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func postWebhook(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestReceiveWebhookMalformedEnvelopeStillAcked(t *testing.T) {
	r := webhookTestRouter(t, newSignalMessages())

	for _, body := range []string{"not json", "{}", `{"object":"whatsapp_business_account"}`} {
		w := postWebhook(r, body)
		assert.Equal(t, http.StatusOK, w.Code, "body %q must be tolerated", body)
	}
}

func TestReceiveWebhookProcessesTextMessageAfterAck(t *testing.T) {
	messages := newSignalMessages()
	r := webhookTestRouter(t, messages)

	envelope := `{
		"object": "whatsapp_business_account",
		"entry": [{"changes": [{"value": {
			"metadata": {"phone_number_id": "555001"},
			"contacts": [{"wa_id": "628111", "profile": {"name": "Alice"}}],
			"messages": [{"id": "wamid.1", "from": "628111", "type": "text", "text": {"body": "hello"}}]
		}}]}]
	}`

	w := postWebhook(r, envelope)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())

	// processing happens after the ACK, on its own goroutine
	select {
	case msg := <-messages.signal:
		assert.Equal(t, entities.DirectionInbound, msg.Direction)
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, "wamid.1", msg.WAMessageID)
	case <-time.After(2 * time.Second):
		t.Fatal("inbound message was never persisted")
	}
}

func TestExtractTextEventsSkipsNonTextMessages(t *testing.T) {
	raw := `{"entry":[{"changes":[{"value":{
		"metadata":{"phone_number_id":"555001"},
		"messages":[
			{"id":"wamid.img","from":"628111","type":"image"},
			{"id":"wamid.txt","from":"628111","type":"text","text":{"body":"caption"}}
		]}}]}]}`
	var envelope webhookEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))

	events := extractTextEvents(envelope)
	require.Len(t, events, 1)
	assert.Equal(t, "wamid.txt", events[0].WAMessageID)
	assert.Equal(t, "555001", events[0].PhoneNumberID)
	assert.Equal(t, "Unknown", events[0].SenderName, "missing contact profile falls back to Unknown")
}
