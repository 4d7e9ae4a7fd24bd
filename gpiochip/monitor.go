package gpiochip

import (
	"sync"
	"time"

	"github.com/BertoldVdb/go-misc/closeflag"
)

// monitorPollInterval bounds how long a monitor worker sleeps in
// poll, so Close is picked up without a pending event.
const monitorPollInterval = 250 * time.Millisecond

// EdgeMonitor delivers the edge events of a request to a handler
// from a background goroutine.
type EdgeMonitor struct {
	closed closeflag.CloseFlag
	wg     sync.WaitGroup

	req     *Request
	handler func(EdgeEvent)

	mutex sync.Mutex
	err   error
}

// NewEdgeMonitor starts watching req. The handler is called from a
// single goroutine, in event order. The request must stay open until
// the monitor is closed.
func NewEdgeMonitor(req *Request, handler func(EdgeEvent)) *EdgeMonitor {
	m := &EdgeMonitor{
		req:     req,
		handler: handler,
	}

	m.wg.Add(1)
	go m.worker()

	return m
}

func (m *EdgeMonitor) worker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.closed.Chan():
			return
		default:
		}

		ready, err := m.req.WaitEdgeEvents(monitorPollInterval)
		if err == nil && !ready {
			continue
		}

		var events []EdgeEvent
		if err == nil {
			events, err = m.req.ReadEdgeEvents(16)
		}

		if err != nil {
			m.mutex.Lock()
			m.err = err
			m.mutex.Unlock()

			m.closed.Close()
			return
		}

		for _, ev := range events {
			m.handler(ev)
		}
	}
}

// Chan returns a channel that is closed once the monitor has
// stopped, either by Close or on a read error.
func (m *EdgeMonitor) Chan() <-chan struct{} {
	return m.closed.Chan()
}

// Err returns the error that stopped the monitor, if any.
func (m *EdgeMonitor) Err() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.err
}

// Close stops the monitor and waits for the worker to finish. It can
// safely be called multiple times.
func (m *EdgeMonitor) Close() error {
	err := m.closed.Close()
	m.wg.Wait()
	return err
}

// InfoMonitor delivers line info events of a chip to a handler from
// a background goroutine. Lines have to be put under watch with
// Chip.WatchLineInfo before their changes are reported.
type InfoMonitor struct {
	closed closeflag.CloseFlag
	wg     sync.WaitGroup

	chip    *Chip
	handler func(InfoEvent)

	mutex sync.Mutex
	err   error
}

// NewInfoMonitor starts watching chip. The chip must stay open until
// the monitor is closed.
func NewInfoMonitor(chip *Chip, handler func(InfoEvent)) *InfoMonitor {
	m := &InfoMonitor{
		chip:    chip,
		handler: handler,
	}

	m.wg.Add(1)
	go m.worker()

	return m
}

func (m *InfoMonitor) worker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.closed.Chan():
			return
		default:
		}

		ready, err := m.chip.WaitInfoEvent(monitorPollInterval)
		if err == nil && !ready {
			continue
		}

		var ev InfoEvent
		if err == nil {
			ev, err = m.chip.ReadInfoEvent()
		}

		if err != nil {
			m.mutex.Lock()
			m.err = err
			m.mutex.Unlock()

			m.closed.Close()
			return
		}

		m.handler(ev)
	}
}

func (m *InfoMonitor) Chan() <-chan struct{} {
	return m.closed.Chan()
}

func (m *InfoMonitor) Err() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.err
}

// Close stops the monitor and waits for the worker to finish.
func (m *InfoMonitor) Close() error {
	err := m.closed.Close()
	m.wg.Wait()
	return err
}
