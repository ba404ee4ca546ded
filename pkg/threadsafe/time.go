package threadsafe

import (
	"sync"
	"time"
)

type Time struct {
	time time.Time
	mux  *sync.RWMutex
}

func NewTime(t time.Time) *Time {
	return &Time{
		time: t,
		mux:  &sync.RWMutex{},
	}
}

func (t *Time) Get() time.Time {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return t.time
}

func (t *Time) Set(value time.Time) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.time = value
}

func (t *Time) IsZero() bool {
	return t.Get().IsZero()
}
