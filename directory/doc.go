// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package directory resolves voter identity and owns the has_voted flag.

Login is an exact, case-insensitive name match (Resolve). A name shared
by two registered voters is rejected with ErrAmbiguousName rather than
guessed at; operators resolve those collisions out of band. The operator
search path (Lookup) is the opposite: fuzzy substring matching with
multiple results expected.

MarkVoted is conditional by construction: it flips has_voted only when
currently false and reports whether this call made the change. Callers
that race each other get a consistent answer without any locking beyond
the single UPDATE.
*/
package directory
