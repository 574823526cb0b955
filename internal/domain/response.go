package domain

// Dialog is a localized phrase key plus the values substituted into it.
type Dialog struct {
	Key  string
	Data map[string]string
}

// Response is everything a handler wants spoken for one intent.
type Response struct {
	Dialogs []Dialog
	// Utterances are spoken verbatim after the dialogs (conversation replies).
	Utterances     []string
	Handled        bool
	ExpectResponse bool
}

func (r *Response) Speak(key string, data map[string]string) {
	r.Dialogs = append(r.Dialogs, Dialog{Key: key, Data: data})
}

func (r *Response) Say(utterance string) {
	r.Utterances = append(r.Utterances, utterance)
}
