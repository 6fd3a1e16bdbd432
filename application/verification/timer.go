package verification

import "time"

// tickTimer schedules loop ticks. A plain time.Ticker keeps firing while a
// long recognition call is outstanding and the buffered tick would make the
// next iteration start immediately; rearming a timer only after the tick's
// work has finished keeps ticks strictly sequential.
type tickTimer struct {
	t *time.Timer
}

func newTickTimer(d time.Duration) *tickTimer {
	return &tickTimer{t: time.NewTimer(d)}
}

func (tt *tickTimer) C() <-chan time.Time {
	return tt.t.C
}

// Reset rearms the timer. Only call after the current tick's channel receive.
func (tt *tickTimer) Reset(d time.Duration) {
	tt.t.Reset(d)
}

func (tt *tickTimer) Stop() {
	tt.t.Stop()
}
