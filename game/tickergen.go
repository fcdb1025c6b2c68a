package game

import "time"

// TickerCreator hands out real time.Ticker channels. Tests substitute
// their own PeriodicTickerChannelCreator to drive time by hand.
type TickerCreator struct{}

func (TickerCreator) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}
