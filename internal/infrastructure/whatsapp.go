package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webautomy/relay/internal/entities"
)

const defaultGraphAPIBase = "https://graph.facebook.com/v22.0"

// WhatsAppClient wraps the Meta Cloud API messages endpoint. Credentials are
// per-call (each channel carries its own phone number id and access token).
// A channel without a usable token falls back to simulation: no API call,
// synthetic message id.
type WhatsAppClient struct {
	apiBase    string
	httpClient *http.Client
	simulate   bool
}

func NewWhatsAppClient(apiBase string, simulate bool) *WhatsAppClient {
	if apiBase == "" {
		apiBase = defaultGraphAPIBase
	}
	return &WhatsAppClient{
		apiBase:    strings.TrimSuffix(apiBase, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		simulate:   simulate,
	}
}

type textPayload struct {
	Body string `json:"body"`
}

type mediaPayload struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type graphMessage struct {
	MessagingProduct string        `json:"messaging_product"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             *textPayload  `json:"text,omitempty"`
	Image            *mediaPayload `json:"image,omitempty"`
	Document         *mediaPayload `json:"document,omitempty"`
	Video            *mediaPayload `json:"video,omitempty"`
}

type graphResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send delivers one message through the channel's phone number. For media
// sends the body becomes the caption.
func (c *WhatsAppClient) Send(ctx context.Context, channel entities.Channel, req entities.SendRequest) (entities.SendReceipt, error) {
	if c.simulate || channel.AccessToken == "" {
		return entities.SendReceipt{ExternalID: "sim-" + uuid.NewString(), Simulated: true}, nil
	}

	payload := buildGraphMessage(req)
	data, err := json.Marshal(payload)
	if err != nil {
		return entities.SendReceipt{}, fmt.Errorf("%w: encode payload: %v", entities.ErrRemoteSend, err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiBase, channel.PhoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return entities.SendReceipt{}, fmt.Errorf("%w: %v", entities.ErrRemoteSend, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+channel.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return entities.SendReceipt{}, fmt.Errorf("%w: %v", entities.ErrRemoteSend, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var parsed graphResponse
	if err := json.Unmarshal(body, &parsed); err != nil && resp.StatusCode < 300 {
		return entities.SendReceipt{}, fmt.Errorf("%w: invalid response: %v", entities.ErrRemoteSend, err)
	}

	if resp.StatusCode >= 300 {
		if parsed.Error != nil {
			return entities.SendReceipt{}, fmt.Errorf("%w: graph api %d: %s", entities.ErrRemoteSend, resp.StatusCode, parsed.Error.Message)
		}
		return entities.SendReceipt{}, fmt.Errorf("%w: graph api status %d", entities.ErrRemoteSend, resp.StatusCode)
	}

	if len(parsed.Messages) == 0 {
		return entities.SendReceipt{}, fmt.Errorf("%w: response missing message id", entities.ErrRemoteSend)
	}

	return entities.SendReceipt{ExternalID: parsed.Messages[0].ID}, nil
}

// buildGraphMessage shapes the request by media kind. With a media link and
// no recognized kind the message is sent as an image, matching the API
// default used by the dashboard.
func buildGraphMessage(req entities.SendRequest) graphMessage {
	msg := graphMessage{
		MessagingProduct: "whatsapp",
		To:               req.To,
	}

	if req.MediaURL == "" {
		msg.Type = "text"
		msg.Text = &textPayload{Body: req.Body}
		return msg
	}

	media := &mediaPayload{Link: req.MediaURL, Caption: req.Body}
	switch req.Media {
	case entities.MediaDocument:
		msg.Type = "document"
		msg.Document = media
	case entities.MediaVideo:
		msg.Type = "video"
		msg.Video = media
	default:
		msg.Type = "image"
		msg.Image = media
	}
	return msg
}
