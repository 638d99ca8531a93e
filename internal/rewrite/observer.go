package rewrite

import "time"

// Observer receives generation events. metrics.Metrics implements it.
// AttemptFinished gets the 1-based attempt number and the names of the
// failed checks, empty when the attempt was accepted.
type Observer interface {
	AttemptFinished(attempt int, failures []string)
	LoopFinished(state string)
	CorrectorApplied(changed bool)
	BackendCalled(elapsed time.Duration, err error)
	AuditAppended(err error)
}

type nopObserver struct{}

func (nopObserver) AttemptFinished(int, []string)      {}
func (nopObserver) LoopFinished(string)                {}
func (nopObserver) CorrectorApplied(bool)              {}
func (nopObserver) BackendCalled(time.Duration, error) {}
func (nopObserver) AuditAppended(error)                {}

type observers []Observer

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var out observers
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}

	return out
}

func (all observers) AttemptFinished(attempt int, failures []string) {
	for _, o := range all {
		o.AttemptFinished(attempt, failures)
	}
}

func (all observers) LoopFinished(state string) {
	for _, o := range all {
		o.LoopFinished(state)
	}
}

func (all observers) CorrectorApplied(changed bool) {
	for _, o := range all {
		o.CorrectorApplied(changed)
	}
}

func (all observers) BackendCalled(elapsed time.Duration, err error) {
	for _, o := range all {
		o.BackendCalled(elapsed, err)
	}
}

func (all observers) AuditAppended(err error) {
	for _, o := range all {
		o.AuditAppended(err)
	}
}
