// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally computes election results from the vote table.

Results are always derived at read time; nothing in the store holds an
authoritative count. The Aggregator produces per-position rows ordered by
vote count descending with name-ascending tie breaks, whole-number
percentages relative to each position's own total, and a leader only when
at least one vote exists. Public strips raw counts for ordinary viewers.

# Live Updates

The Cache memoizes the aggregator's output and implements the write
paths' Notifier interface, so any committed vote, override, or reset
invalidates it immediately. When running on Postgres, the Broadcaster
also announces changes via pg_notify and Listen subscribes other server
instances to the same channel, keeping every instance's cache coherent
without polling.
*/
package tally
