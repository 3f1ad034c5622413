package surface

import (
	"sync"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// mailbox is an unbounded FIFO of closures run on the interactive goroutine. Posting never
// blocks, so the loader may post while holding its own lock.
type mailbox struct {
	logger contracts.Logger
	warnAt int

	mu     sync.Mutex
	queue  []func()
	warned bool
	signal chan struct{}
}

func newMailbox(warnAt int, logger contracts.Logger) *mailbox {
	return &mailbox{
		logger: logger,
		warnAt: warnAt,
		queue:  make([]func(), 0, warnAt),
		signal: make(chan struct{}, 1),
	}
}

func (m *mailbox) post(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	backlog := len(m.queue)
	warn := m.warnAt > 0 && backlog > m.warnAt && !m.warned
	if warn {
		m.warned = true
	}
	m.mu.Unlock()

	if warn {
		m.logger.Warn("interactive queue is backing up", m.logger.Field().Int("backlog", backlog))
	}
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// drain takes every queued closure in posting order.
func (m *mailbox) drain() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.queue
	m.queue = make([]func(), 0, m.warnAt)
	m.warned = false
	return queue
}
