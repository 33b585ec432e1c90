package chat

type EventKind string

const (
	EventCommand    EventKind = "command"
	EventText       EventKind = "text"
	EventCallback   EventKind = "callback"
	EventAttachment EventKind = "attachment"
)

// Inbound is one conversational event forwarded by the chat gateway.
type Inbound struct {
	ChatID     int64
	Handle     string
	Kind       EventKind
	Command    string // without the leading slash
	Text       string
	Callback   string
	MessageRef string // message the callback button was attached to
}

type OutboundKind string

const (
	OutboundMessage OutboundKind = "message"
	OutboundEdit    OutboundKind = "edit"
	OutboundAlert   OutboundKind = "alert"
)

type Button struct {
	Label    string `json:"label"`
	Callback string `json:"callback"`
}

// Outbound is one reply for the gateway to render.
type Outbound struct {
	Kind       OutboundKind `json:"kind"`
	ChatID     int64        `json:"chat_id"`
	Text       string       `json:"text"`
	Buttons    [][]Button   `json:"buttons,omitempty"`
	Keyboard   []string     `json:"keyboard,omitempty"`
	MessageRef string       `json:"message_ref,omitempty"`
}

func Message(chatID int64, text string) Outbound {
	return Outbound{Kind: OutboundMessage, ChatID: chatID, Text: text}
}

func Edit(chatID int64, ref, text string, buttons [][]Button) Outbound {
	return Outbound{Kind: OutboundEdit, ChatID: chatID, MessageRef: ref, Text: text, Buttons: buttons}
}

func Alert(chatID int64, text string) Outbound {
	return Outbound{Kind: OutboundAlert, ChatID: chatID, Text: text}
}

// WithKeyboard attaches a persistent reply keyboard.
func (o Outbound) WithKeyboard(labels ...string) Outbound {
	o.Keyboard = labels
	return o
}

func (o Outbound) WithButtons(rows ...[]Button) Outbound {
	o.Buttons = rows
	return o
}
