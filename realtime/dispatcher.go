package realtime

// Dispatcher routes stream events to registered callbacks. Only "stats" and
// "message" are understood; other event names are ignored so servers can add
// kinds without breaking older clients.
type Dispatcher struct {
	onStats   func(StatsSample)
	onMessage func(ChatMessage, ChatRecord)
	onError   func(error)
}

func (d *Dispatcher) SetOnStats(fn func(StatsSample))               { d.onStats = fn }
func (d *Dispatcher) SetOnMessage(fn func(ChatMessage, ChatRecord)) { d.onMessage = fn }
func (d *Dispatcher) SetOnError(fn func(error))                     { d.onError = fn }

// Dispatch decodes ev and fires exactly one callback: the decoded value on
// success, the error callback when the payload is rejected. Unknown events
// fire nothing.
func (d *Dispatcher) Dispatch(ev Event) {
	switch ev.Name {
	case EventStats:
		sample, err := DecodeStats(ev.Data)
		if err != nil {
			d.fireError(err)
			return
		}
		if d.onStats != nil {
			d.onStats(sample)
		}
	case EventMessage:
		msg, rec, err := DecodeMessage(ev.Data)
		if err != nil {
			d.fireError(err)
			return
		}
		if d.onMessage != nil {
			d.onMessage(msg, rec)
		}
	}
}

func (d *Dispatcher) fireError(err error) {
	if d.onError != nil && err != nil {
		d.onError(err)
	}
}
