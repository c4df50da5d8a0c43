package models

// OutboundMessage is a text notification pushed to a farm operator over WhatsApp.
type OutboundMessage struct {
	To         string `json:"to"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

// Text renders the message the way it is delivered.
func (m OutboundMessage) Text() string {
	if m.Title == "" {
		return m.Body
	}
	return m.Title + "\n" + m.Body
}
