package models

// WebhookPayload is the body Meta posts to the WhatsApp Cloud API webhook. Only the
// parts needed to read inbound text commands are modelled.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string       `json:"field"`
			Value WebhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// WebhookValue carries the inbound messages of one change notification.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
}

// InboundMessage is a message sent by a worker to the farm's business number.
type InboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Interactive *struct {
		Type        string       `json:"type"`
		ButtonReply *ReplyOption `json:"button_reply,omitempty"`
		ListReply   *ReplyOption `json:"list_reply,omitempty"`
	} `json:"interactive,omitempty"`
}

// ReplyOption is a pressed button or a selected list item.
type ReplyOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Body returns the text a worker typed or selected.
func (m InboundMessage) Body() string {
	switch {
	case m.Text != nil:
		return m.Text.Body
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		return m.Interactive.ButtonReply.ID
	case m.Interactive != nil && m.Interactive.ListReply != nil:
		return m.Interactive.ListReply.ID
	}
	return ""
}

// Messages flattens every inbound message of the payload in delivery order.
func (p WebhookPayload) Messages() []InboundMessage {
	var out []InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			out = append(out, change.Value.Messages...)
		}
	}
	return out
}
