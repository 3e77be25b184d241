// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"log/slog"
	"sync"
)

// Topic identifies a class of change notification. Events carry no
// payload: subscribers re-fetch the relevant store in full.
type Topic string

const (
	TopicVoteRecorded     Topic = "vote.recorded"
	TopicDatasetUploaded  Topic = "dataset.uploaded"
	TopicDatasetApplied   Topic = "dataset.applied"
	TopicResultsRefreshed Topic = "results.refreshed"
)

type subscriber struct {
	ch     chan Topic
	topics map[Topic]bool // nil means all topics
}

// Bus is an in-process publish/subscribe fanout for store change
// notifications.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscriber)}
}

// Subscribe registers interest in the given topics (all topics when
// none are given). The returned cancel func removes the subscription
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(topics ...Topic) (<-chan Topic, func()) {
	sub := &subscriber{
		// Buffered so a burst of notifications does not wedge
		// publishers while a subscriber catches up.
		ch: make(chan Topic, 16),
	}
	if len(topics) > 0 {
		sub.topics = make(map[Topic]bool, len(topics))
		for _, t := range topics {
			sub.topics[t] = true
		}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}

	return sub.ch, cancel
}

// Publish delivers the topic to every matching subscriber. Delivery
// is non-blocking: a subscriber with a full buffer misses this signal
// (it will catch up on the next one, or on the periodic refresh).
func (b *Bus) Publish(t Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if sub.topics != nil && !sub.topics[t] {
			continue
		}
		select {
		case sub.ch <- t:
		default:
			slog.Warn("dropping event for slow subscriber", "topic", string(t))
		}
	}
}
