package cache

import (
	"runtime"
	"sync"
)

// tickServer runs a cache in lockstep ticks so tests can control the
// interleaving of concurrent clients. A tick ends when every client has
// called wait().
type tickServer[T any] struct {
	backing *basicCache[T]

	tickLock          sync.Mutex
	currentTick       int
	maxTicks          int
	numClients        int
	completedThisTick int
}

type tickClient[T any] struct {
	server      *tickServer[T]
	desiredTick int
}

func (c *tickClient[T]) getOrClaim(key string) hitResult[T] {
	return c.server.backing.getOrClaim(key)
}

func (c *tickClient[T]) set(key string, data T) {
	c.server.backing.set(key, data)
}

func (c *tickClient[T]) delete(key string) {
	c.server.backing.delete(key)
}

func (c *tickClient[T]) wait() {
	if c.server.isDone() {
		panic("wait() called on a client that is already done")
	}

	c.server.tickLock.Lock()
	c.server.completedThisTick++
	c.server.tickLock.Unlock()

	c.desiredTick++

	for c.server.tick() < c.desiredTick {
		runtime.Gosched()
	}
}

func (c *tickClient[T]) waitUntilDone() {
	for !c.server.isDone() {
		c.wait()
	}
}

func (s *tickServer[T]) tick() int {
	s.tickLock.Lock()
	defer s.tickLock.Unlock()
	return s.currentTick
}

func (s *tickServer[T]) isDone() bool {
	return s.tick() >= s.maxTicks
}

func (s *tickServer[T]) processTicks() {
	for !s.isDone() {
		s.tickLock.Lock()
		if s.completedThisTick != s.numClients {
			s.tickLock.Unlock()
			runtime.Gosched()
			continue
		}

		s.completedThisTick = 0
		s.currentTick++
		s.tickLock.Unlock()
	}
}

func newTickServer[T any](numClients int, maxTicks int) (*tickServer[T], []*tickClient[T]) {
	server := &tickServer[T]{
		backing:    NewBasicCache[T](),
		maxTicks:   maxTicks,
		numClients: numClients,
	}

	clients := make([]*tickClient[T], numClients)
	for i := range numClients {
		clients[i] = &tickClient[T]{server: server}
	}

	return server, clients
}
