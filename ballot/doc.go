// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot implements the in-memory ballot composer.

A Session tracks one voter's in-progress ballot. Every position starts
untouched; each can then be selected (a concrete candidate), skipped (an
explicit abstention), or returned to untouched. Selections are
last-write-wins and validated against the catalog shape captured when the
session opened.

Nothing here touches the store. Sessions are transient: they live in the
Registry until the ballot is committed or replaced, and an abandoned
session simply evaporates with no persistent effect. The voting package
owns the durable write path.

Completion counts only concrete selections; a skip is a recorded decision
but not a vote. Review refuses a ballot with zero selections, so an
all-skip ballot can never reach the committer.

Sessions are safe for concurrent use: overlapping requests from the same
voter's client serialize on the session's own lock, with last write wins.
The Registry separately synchronizes the session map itself.
*/
package ballot
