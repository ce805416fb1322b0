package ratelimiting

import (
	"context"
	"slices"
	"sync"
	"time"
)

// RequestLimiter limits how often an operation may run
type RequestLimiter interface {
	// Limit waits for a free slot and runs operation. It returns false
	// without running operation if ctx is done, or if waiting plus
	// maxOperationTime would exceed the deadline of ctx.
	Limit(ctx context.Context, maxOperationTime time.Duration, operation func(ctx context.Context)) bool

	// LimitCancelable is like Limit, but operation may report that it did
	// not run, in which case the slot is not spent.
	LimitCancelable(ctx context.Context, maxOperationTime time.Duration, operation func(ctx context.Context) bool) bool
}

// windowLimitRequestLimiter allows at most limit operations to finish within
// any sliding window.
type windowLimitRequestLimiter struct {
	limit     int
	window    time.Duration
	nowFunc   func() time.Time
	afterFunc func(time.Duration) <-chan time.Time

	availableSlots   chan struct{}
	finishedRequests []time.Time
	mutex            sync.Mutex
}

func NewWindowLimitRequestLimiter(
	limit int,
	window time.Duration,
	nowFunc func() time.Time,
	afterFunc func(time.Duration) <-chan time.Time,
) RequestLimiter {
	availableSlots := make(chan struct{}, limit)
	for range limit {
		availableSlots <- struct{}{}
	}

	// Seed the history with requests outside the window so the first
	// `limit` operations run immediately
	finishedRequests := make([]time.Time, limit)
	outsideWindow := nowFunc().Add(-window)
	for i := range finishedRequests {
		finishedRequests[i] = outsideWindow
	}

	return &windowLimitRequestLimiter{
		limit:     limit,
		window:    window,
		nowFunc:   nowFunc,
		afterFunc: afterFunc,

		availableSlots:   availableSlots,
		finishedRequests: finishedRequests,
	}
}

func (l *windowLimitRequestLimiter) Limit(ctx context.Context, maxOperationTime time.Duration, operation func(ctx context.Context)) bool {
	return l.LimitCancelable(ctx, maxOperationTime, func(ctx context.Context) bool {
		operation(ctx)
		return true
	})
}

func (l *windowLimitRequestLimiter) LimitCancelable(ctx context.Context, maxOperationTime time.Duration, operation func(ctx context.Context) bool) bool {
	select {
	case <-l.availableSlots:
		defer func() {
			l.availableSlots <- struct{}{}
		}()
	case <-ctx.Done():
		return false
	}

	oldestRequest, ok := l.grabOldestFinishedRequest(ctx, maxOperationTime)
	if !ok {
		return false
	}
	// Put back what we took unless the operation runs
	requestToInsert := oldestRequest
	defer func() {
		l.insertFinishedRequest(requestToInsert)
	}()

	if wait := l.computeWait(oldestRequest); wait > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-l.afterFunc(wait):
		}
	}

	if ran := operation(ctx); !ran {
		return false
	}

	requestToInsert = l.nowFunc()
	return true
}

func (l *windowLimitRequestLimiter) computeWait(finishedAt time.Time) time.Duration {
	return l.window - l.nowFunc().Sub(finishedAt)
}

func (l *windowLimitRequestLimiter) fitsDeadline(ctx context.Context, wait, maxOperationTime time.Duration) bool {
	deadline, ok := ctx.Deadline()
	if !ok {
		return true
	}

	return max(wait, 0)+maxOperationTime <= deadline.Sub(l.nowFunc())
}

func (l *windowLimitRequestLimiter) insertFinishedRequest(finishedAt time.Time) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	i, _ := slices.BinarySearchFunc(l.finishedRequests, finishedAt, func(a, b time.Time) int {
		return a.Compare(b)
	})
	l.finishedRequests = slices.Insert(l.finishedRequests, i, finishedAt)
}

func (l *windowLimitRequestLimiter) grabOldestFinishedRequest(ctx context.Context, maxOperationTime time.Duration) (time.Time, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	oldestRequest := l.finishedRequests[0]
	if !l.fitsDeadline(ctx, l.computeWait(oldestRequest), maxOperationTime) {
		return time.Time{}, false
	}

	l.finishedRequests = l.finishedRequests[1:]
	return oldestRequest, true
}
