package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/webautomy/relay/internal/entities"
	"github.com/webautomy/relay/internal/usecases"
)

type failingLedger struct {
	debitErr error
}

func (f failingLedger) DebitOrFail(_ context.Context, _ int, _ int64, _ string) error {
	return f.debitErr
}
func (f failingLedger) Credit(_ context.Context, _ int, _ int64, _, _ string) error { return nil }

type failingSender struct {
	err error
}

func (f failingSender) Send(_ context.Context, _ entities.Channel, _ entities.SendRequest) (entities.SendReceipt, error) {
	if f.err != nil {
		return entities.SendReceipt{}, f.err
	}
	return entities.SendReceipt{ExternalID: "wamid.out"}, nil
}

// sendTestRouter wires the handler with the caller's org already resolved,
// the way AuthRequired + OrgRequired would.
func sendTestRouter(orgID int, ledgerErr, sendErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)

	channels := &stubChannels{channel: &entities.Channel{ID: 10, OrgID: 1, PhoneNumberID: "555001", AccessToken: "token", Status: "connected"}}
	dispatch := usecases.NewDispatchService(channels, newSignalMessages(), failingLedger{debitErr: ledgerErr}, failingSender{err: sendErr}, 20)
	h := NewHandler(dispatch, nil, nil, nil, nil, nil, "secret", true)

	r := gin.New()
	r.POST("/api/send-message", func(c *gin.Context) {
		c.Set("org_id", float64(orgID))
		h.SendMessage(c)
	})
	return r
}

func postSend(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/send-message", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSendMessageSuccess(t *testing.T) {
	r := sendTestRouter(1, nil, nil)

	w := postSend(r, `{"channel_id":10,"to":"628111","body":"hello"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "wamid.out")
}

func TestSendMessageStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		orgID      int
		ledgerErr  error
		sendErr    error
		body       string
		wantStatus int
	}{
		{
			name:       "missing fields",
			orgID:      1,
			body:       `{"channel_id":10}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid recipient",
			orgID:      1,
			body:       `{"channel_id":10,"to":"not-a-number","body":"x"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "foreign channel",
			orgID:      2,
			body:       `{"channel_id":10,"to":"628111","body":"x"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "insufficient funds",
			orgID:      1,
			ledgerErr:  entities.ErrInsufficientFunds,
			body:       `{"channel_id":10,"to":"628111","body":"x"}`,
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:       "ledger down",
			orgID:      1,
			ledgerErr:  entities.ErrLedgerUnavailable,
			body:       `{"channel_id":10,"to":"628111","body":"x"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "remote send failure",
			orgID:      1,
			sendErr:    entities.ErrRemoteSend,
			body:       `{"channel_id":10,"to":"628111","body":"x"}`,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sendTestRouter(tt.orgID, tt.ledgerErr, tt.sendErr)
			w := postSend(r, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
