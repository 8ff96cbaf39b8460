// Package dashboard holds the view models behind the donor, receiver and
// admin screens. Boards keep the last rendered state so a failed action
// leaves the lists on screen.
package dashboard

// Alert is a dismissible message produced by an action.
type Alert struct {
	Tone    Tone
	Message string
}

func success(msg string) *Alert { return &Alert{Tone: ToneSuccess, Message: msg} }

func failure(msg string) *Alert { return &Alert{Tone: ToneDanger, Message: msg} }
