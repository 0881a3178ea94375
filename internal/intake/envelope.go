package intake

// envelope mirrors the WhatsApp Cloud API webhook payload, decoded only as
// deep as the service needs. Unknown fields are ignored.
type envelope struct {
	Entry []entry `json:"entry"`
}

type entry struct {
	Changes []change `json:"changes"`
}

type change struct {
	Value value `json:"value"`
}

type value struct {
	Messages []message `json:"messages"`
	Statuses []status  `json:"statuses"`
}

type status struct {
	ID string `json:"id"`
}

type message struct {
	From  string `json:"from"`
	ID    string `json:"id"`
	Type  string `json:"type"`
	Audio *audio `json:"audio"`
	Text  *text  `json:"text"`
}

type audio struct {
	ID string `json:"id"`
}

type text struct {
	Body string `json:"body"`
}

// firstMessage walks entry[0].changes[0].value. Delivery receipts arrive in
// the same shape with statuses populated instead of messages; those are not
// user input.
func (e envelope) firstMessage() (message, bool) {
	if len(e.Entry) == 0 || len(e.Entry[0].Changes) == 0 {
		return message{}, false
	}
	v := e.Entry[0].Changes[0].Value
	if len(v.Statuses) > 0 || len(v.Messages) == 0 {
		return message{}, false
	}
	return v.Messages[0], true
}
