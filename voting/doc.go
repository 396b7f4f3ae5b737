// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the ballot commit path.

Commit turns a session's concrete selections into vote rows, one per
position, and flips the voter's has_voted flag. The voter's status is
re-read from the store at commit time, and per-position duplicates are
absorbed by the vote table's uniqueness constraint, so two racing commits
for the same voter can never both land a vote on the same position.

Per-position failures are collected into the Result rather than aborting
the rest of the ballot. A partial ballot still counts: once any vote
lands the voter is marked and cannot re-enter.
*/
package voting
