package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webautomy/relay/internal/entities"
)

func liveChannel() entities.Channel {
	return entities.Channel{
		ID:            10,
		OrgID:         1,
		PhoneNumberID: "555001",
		AccessToken:   "test-token",
		Status:        "connected",
	}
}

func TestSendSimulatedWhenNotLive(t *testing.T) {
	client := NewWhatsAppClient("", true)

	receipt, err := client.Send(context.Background(), liveChannel(), entities.SendRequest{To: "628111", Body: "hi"})
	require.NoError(t, err)
	assert.True(t, receipt.Simulated)
	assert.True(t, strings.HasPrefix(receipt.ExternalID, "sim-"))
}

func TestSendSimulatedWhenChannelHasNoToken(t *testing.T) {
	client := NewWhatsAppClient("", false)
	ch := liveChannel()
	ch.AccessToken = ""

	receipt, err := client.Send(context.Background(), ch, entities.SendRequest{To: "628111", Body: "hi"})
	require.NoError(t, err)
	assert.True(t, receipt.Simulated)
}

func TestSendLivePostsToGraphAPI(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody graphMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{{"id": "wamid.HBgL"}},
		})
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, false)
	receipt, err := client.Send(context.Background(), liveChannel(), entities.SendRequest{To: "628111", Body: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "wamid.HBgL", receipt.ExternalID)
	assert.False(t, receipt.Simulated)
	assert.Equal(t, "/555001/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "text", gotBody.Type)
	require.NotNil(t, gotBody.Text)
	assert.Equal(t, "hello", gotBody.Text.Body)
}

func TestSendLiveGraphErrorMapsToRemoteSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Invalid OAuth access token", "code": 190},
		})
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, false)
	_, err := client.Send(context.Background(), liveChannel(), entities.SendRequest{To: "628111", Body: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrRemoteSend)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestSendLiveMissingMessageIDRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": []any{}})
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, false)
	_, err := client.Send(context.Background(), liveChannel(), entities.SendRequest{To: "628111", Body: "hi"})
	assert.ErrorIs(t, err, entities.ErrRemoteSend)
}

func TestBuildGraphMessageShapes(t *testing.T) {
	tests := []struct {
		name     string
		req      entities.SendRequest
		wantType string
	}{
		{name: "text", req: entities.SendRequest{To: "1", Body: "hi"}, wantType: "text"},
		{name: "image", req: entities.SendRequest{To: "1", MediaURL: "https://x/a.png", Media: entities.MediaImage}, wantType: "image"},
		{name: "document", req: entities.SendRequest{To: "1", MediaURL: "https://x/a.pdf", Media: entities.MediaDocument}, wantType: "document"},
		{name: "video", req: entities.SendRequest{To: "1", MediaURL: "https://x/a.mp4", Media: entities.MediaVideo}, wantType: "video"},
		{name: "unknown kind falls back to image", req: entities.SendRequest{To: "1", MediaURL: "https://x/a.bin", Media: "sticker"}, wantType: "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := buildGraphMessage(tt.req)
			assert.Equal(t, tt.wantType, msg.Type)
			assert.Equal(t, "whatsapp", msg.MessagingProduct)
		})
	}
}

func TestBuildGraphMessageMediaCarriesCaption(t *testing.T) {
	msg := buildGraphMessage(entities.SendRequest{
		To:       "628111",
		Body:     "see attachment",
		MediaURL: "https://x/a.pdf",
		Media:    entities.MediaDocument,
	})
	require.NotNil(t, msg.Document)
	assert.Equal(t, "https://x/a.pdf", msg.Document.Link)
	assert.Equal(t, "see attachment", msg.Document.Caption)
	assert.Nil(t, msg.Text)
}
