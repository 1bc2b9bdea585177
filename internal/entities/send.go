package entities

// MediaKind tags the outbound payload shape. Empty means plain text.
type MediaKind string

const (
	MediaNone     MediaKind = ""
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
	MediaVideo    MediaKind = "video"
)

// SendRequest is what the WhatsApp sender consumes: a recipient plus a
// tagged text-or-media payload. Body doubles as the caption for media.
type SendRequest struct {
	To       string
	Body     string
	MediaURL string
	Media    MediaKind
}

// DispatchRequest is a metered outbound send through a specific channel.
type DispatchRequest struct {
	ChannelID int
	To        string
	Body      string
	MediaURL  string
	Media     MediaKind
}

// SendReceipt reports the provider-assigned message id. Simulated is set
// when no real API call was made (missing credential or simulation mode).
type SendReceipt struct {
	ExternalID string
	Simulated  bool
}
