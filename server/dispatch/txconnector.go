package dispatch

// txConnector holds one connection's queued outbound SendBuffers (ordered,
// oldest first) plus the transmitter goroutine's wake channel.
type txConnector struct {
	bufs []*SendBuffer
	wake chan struct{}
}

func newTxConnector() *txConnector {
	return &txConnector{wake: make(chan struct{}, 1)}
}

// notify wakes the transmitter goroutine if it is asleep; a pending wake
// that has not been consumed yet is not duplicated.
func (c *txConnector) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
