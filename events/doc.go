// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events provides the in-process change-notification bus.

Stores publish a zero-payload Topic after every successful mutation;
dashboards and the websocket handler subscribe and re-fetch whatever
they render. The periodic results refresher publishes on the same bus,
so "push on change" and "poll on a timer" are one mechanism rather
than two that can race.

	ch, cancel := bus.Subscribe(events.TopicVoteRecorded)
	defer cancel()
	for range ch {
		// re-fetch and re-render
	}

Publishing never blocks; a subscriber that cannot keep up drops
signals instead of wedging writers.
*/
package events
