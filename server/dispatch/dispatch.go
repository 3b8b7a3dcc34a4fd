// Package dispatch is the Unix-socket-backed implementation of
// connection.Dispatcher: it owns the connection pool, accepts sockets,
// spawns a receiver and transmitter goroutine per connection, and routes
// EnqueueMessage/EnqueueStdin/EnqueueBroadcast calls into each connection's
// outbound buffers.
//
// The pool lock (Dispatch.mu) is semantically dominant over the tx lock
// (Dispatch.txmu): wherever both are held, the pool lock is taken first,
// and the pool lock is never acquired while the tx lock is held. The tx
// lock is not always taken under the pool lock: the transmitter goroutine
// (transmit, swapSendBuffer) and acceptConnection acquire it on its own.
// This ordering is what prevents deadlocks between a connection's own
// goroutines and a broadcast running across the whole pool.
package dispatch

import (
	"context"
	"io"
	"net"
	"os"
	"sync"

	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/server/application"
	"vt6.io/vt6d/server/connection"
	"vt6.io/vt6d/server/connstate"
	"vt6.io/vt6d/server/handler"
	"vt6.io/vt6d/server/metrics"
)

type poolEntry struct {
	conn   *connection.Connection
	raw    net.Conn
	cancel context.CancelFunc
}

// Dispatch accepts connections on a Unix domain socket and dispatches their
// traffic through the VT6 handler chain. It implements
// connection.Dispatcher.
type Dispatch struct {
	app     application.Application
	metrics *metrics.Metrics

	newHandshakeHandler func() handler.HandshakeHandler
	newMessageHandler   func() handler.MessageHandler

	socketPath string
	listener   net.Listener

	mu        sync.RWMutex
	conns     map[uint64]*poolEntry
	nextID    uint64
	closed    bool

	txmu sync.RWMutex
	tx   map[uint64]*txConnector

	broadcastMu sync.Mutex
	broadcasts  []func(handler.Conn)

	wg sync.WaitGroup
}

// New creates a Dispatch that will listen on socketPath once Run is called.
func New(socketPath string, app application.Application, m *metrics.Metrics, newHandshakeHandler func() handler.HandshakeHandler, newMessageHandler func() handler.MessageHandler) *Dispatch {
	return &Dispatch{
		app:                 app,
		metrics:             m,
		newHandshakeHandler: newHandshakeHandler,
		newMessageHandler:   newMessageHandler,
		socketPath:          socketPath,
		conns:               make(map[uint64]*poolEntry),
		tx:                  make(map[uint64]*txConnector),
	}
}

// Run opens the listening socket (removing a stale socket file left behind
// by an unclean shutdown) and accepts connections until Shutdown is called,
// at which point it returns nil. Any other accept error is returned as is.
func (d *Dispatch) Run() error {
	_ = os.Remove(d.socketPath)
	listener, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return err
	}
	d.listener = listener

	for {
		raw, err := listener.Accept()
		if err != nil {
			d.mu.RLock()
			closed := d.closed
			d.mu.RUnlock()
			if closed {
				return nil
			}
			return err
		}
		d.acceptConnection(raw)
	}
}

// Shutdown closes the listener and every live connection, then removes the
// socket file. It blocks until all receiver/transmitter goroutines have
// exited.
func (d *Dispatch) Shutdown() {
	d.mu.Lock()
	d.closed = true
	entries := make([]*poolEntry, 0, len(d.conns))
	for _, e := range d.conns {
		entries = append(entries, e)
	}
	d.mu.Unlock()

	if d.listener != nil {
		d.listener.Close()
	}
	for _, e := range entries {
		e.cancel()
		e.raw.Close()
	}
	d.wg.Wait()
	_ = os.Remove(d.socketPath)
}

func (d *Dispatch) acceptConnection(raw net.Conn) {
	ctx, cancel := context.WithCancel(context.Background())

	d.mu.Lock()
	id := d.nextID
	d.nextID++
	conn := connection.New(d, id, d.newHandshakeHandler, d.newMessageHandler)
	d.conns[id] = &poolEntry{conn: conn, raw: raw, cancel: cancel}
	d.mu.Unlock()

	d.txmu.Lock()
	d.tx[id] = newTxConnector()
	d.txmu.Unlock()

	d.metrics.ConnectionOpened()
	d.app.Notify(application.Notification{Kind: application.ConnectionOpened})

	d.wg.Add(2)
	go d.receive(ctx, id, raw)
	go d.transmit(ctx, id, raw)
}

// withConn runs fn against the pool entry for connID, if still alive, while
// holding the pool write lock, then performs Teardown maintenance before
// releasing it. This mirrors the mutable-borrow-then-drop housekeeping the
// original implementation performed in ConnectionRefMut's destructor.
func (d *Dispatch) withConn(connID uint64, fn func(*connection.Connection)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.conns[connID]
	if ok {
		fn(e.conn)
	}
	d.drainBroadcastsLocked()
	d.maintainConnLocked(connID)
}

func (d *Dispatch) receive(ctx context.Context, connID uint64, raw net.Conn) {
	defer d.wg.Done()

	rb := newReceiveBuffer()
	readBuf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := raw.Read(readBuf)
		if n > 0 {
			rb.Append(readBuf[:n])
			d.withConn(connID, func(c *connection.Connection) {
				c.HandleIncoming(rb)
			})
		}
		if err != nil {
			if err != io.EOF {
				d.app.Notify(application.Notification{Kind: application.ConnectionIOError, Err: err})
			}
			d.withConn(connID, func(c *connection.Connection) {
				c.SetState(connstate.Teardown)
			})
			return
		}
	}
}

func (d *Dispatch) transmit(ctx context.Context, connID uint64, raw net.Conn) {
	defer d.wg.Done()

	d.txmu.RLock()
	connector, ok := d.tx[connID]
	d.txmu.RUnlock()
	if !ok {
		return
	}

	var cur *SendBuffer
	for {
		if cur == nil {
			cur = d.swapSendBuffer(connID, nil)
		}
		if cur == nil {
			select {
			case <-ctx.Done():
				return
			case <-connector.wake:
				continue
			}
		}

		if _, err := raw.Write(cur.Filled()); err != nil {
			d.app.Notify(application.Notification{Kind: application.ConnectionIOError, Err: err})
			d.withConn(connID, func(c *connection.Connection) {
				c.SetState(connstate.Teardown)
			})
			return
		}
		cur = d.swapSendBuffer(connID, cur)
	}
}

// swapSendBuffer hands back done (if non-nil, recycling it) and returns the
// next SendBuffer with data to send, or nil if there is none right now.
func (d *Dispatch) swapSendBuffer(connID uint64, done *SendBuffer) *SendBuffer {
	d.txmu.Lock()
	defer d.txmu.Unlock()

	connector, ok := d.tx[connID]
	if !ok {
		return nil
	}

	if done != nil {
		done.Clear()
		connector.bufs = append(connector.bufs, done)
	}

	for i, b := range connector.bufs {
		if b.FilledLen() > 0 {
			connector.bufs = append(connector.bufs[:i:i], connector.bufs[i+1:]...)
			return b
		}
	}
	return nil
}

// EnqueueMessage implements connection.Dispatcher.
func (d *Dispatch) EnqueueMessage(connID uint64, m wire.EncodableMessage) {
	d.txmu.Lock()
	defer d.txmu.Unlock()

	connector, ok := d.tx[connID]
	if !ok {
		return
	}

	enqueued := false
	for i := len(connector.bufs) - 1; i >= 0; i-- {
		if connector.bufs[i].FilledLen() > 0 {
			enqueued = connector.bufs[i].TryFillMessage(m)
			break
		}
	}

	if !enqueued {
		var target *SendBuffer
		for _, b := range connector.bufs {
			if b.FilledLen() == 0 {
				target = b
				break
			}
		}
		if target == nil {
			target = &SendBuffer{}
			connector.bufs = append(connector.bufs, target)
		}
		if !target.TryFillMessage(m) {
			panic("vt6: message does not fit even a fresh send buffer")
		}
	}

	connector.notify()
}

// EnqueueStdin implements connection.Dispatcher, greedily spanning as many
// send buffers as needed to hold data.
func (d *Dispatch) EnqueueStdin(connID uint64, data []byte) {
	d.txmu.Lock()
	defer d.txmu.Unlock()

	connector, ok := d.tx[connID]
	if !ok {
		return
	}

	remaining := data
	if n := len(connector.bufs); n > 0 {
		remaining = connector.bufs[n-1].AppendStdin(remaining)
	}
	for len(remaining) > 0 {
		buf := &SendBuffer{}
		remaining = buf.AppendStdin(remaining)
		connector.bufs = append(connector.bufs, buf)
	}

	connector.notify()
}

// EnqueueBroadcast implements connection.Dispatcher. action runs against
// every live connection once the current mutable borrow (if any) is
// released, i.e. the next time drainBroadcastsLocked runs.
func (d *Dispatch) EnqueueBroadcast(action func(handler.Conn)) {
	d.broadcastMu.Lock()
	d.broadcasts = append(d.broadcasts, action)
	n := len(d.broadcasts)
	d.broadcastMu.Unlock()
	d.metrics.SetBroadcastQueueDepth(n)
}

// Notify implements connection.Dispatcher.
func (d *Dispatch) Notify(n application.Notification) {
	d.app.Notify(n)
}

// drainBroadcastsLocked applies every queued broadcast action to every live
// connection, then runs Teardown maintenance on every connection. Callers
// must already hold d.mu (the pool write lock). Unlike the reference
// implementation this dispatcher was ported from, broadcast actions are
// fully drained rather than left unimplemented.
func (d *Dispatch) drainBroadcastsLocked() {
	d.broadcastMu.Lock()
	actions := d.broadcasts
	d.broadcasts = nil
	d.broadcastMu.Unlock()
	if len(actions) == 0 {
		return
	}

	for _, action := range actions {
		for _, e := range d.conns {
			action(e.conn)
		}
	}
	d.metrics.SetBroadcastQueueDepth(0)

	for id := range d.conns {
		d.maintainConnLocked(id)
	}
}

// maintainConnLocked tears down connID's goroutines and pool/tx entries if
// its Connection has transitioned to Teardown. Callers must already hold
// d.mu.
func (d *Dispatch) maintainConnLocked(connID uint64) {
	e, ok := d.conns[connID]
	if !ok || e.conn.State() != connstate.Teardown {
		return
	}

	e.cancel()
	e.raw.Close()
	delete(d.conns, connID)

	d.txmu.Lock()
	delete(d.tx, connID)
	d.txmu.Unlock()

	d.metrics.ConnectionClosed()
	d.app.Notify(application.Notification{Kind: application.ConnectionClosed})
}
