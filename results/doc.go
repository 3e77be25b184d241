// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results implements the aggregation engine.

Aggregate, TopParties, Table and Metrics are pure functions of a vote
corpus; nothing here reads storage or caches between calls, so every
query sees exactly the snapshot it was handed.

Shape guarantees:

  - every known party (plus both sentinels) and every known region has
    a zero-seeded cell even with no votes
  - rankings exclude the sentinel pseudo-parties and truncate to ten
  - percentages of an empty corpus are 0, never NaN

Refresher adds the periodic side: a cron schedule recomputes the
snapshot and ticks the event bus so dashboard clients refetch.
*/
package results
