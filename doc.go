// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

Ballotbox is an election coordination service: registered voters log in by
name, compose a ballot across the published positions, and commit it once.
Operators can audit, override single votes, and reset the election.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... ADMIN_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 3319 -d "file:ballot.db" -t sqlite -admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string (Postgres URL or SQLite file)
  - ADMIN_KEY_SALT (-admin-salt): secret for operator key HMAC

Optional settings:

  - PORT (-p): server port (default: 3319)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (voters, catalog, ballots, results, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - directory: Voter identity and the has_voted flag
  - catalog: Position and candidate listings
  - ballot: In-memory ballot sessions
  - voting: The commit write path
  - override: Operator vote replacement and election reset
  - tally: Result aggregation with live cache invalidation
  - auth: Operator keys and IP hashing
  - db: Schema creation and store error classification
  - cliparse: Configuration parsing

On Postgres the tally cache also subscribes to LISTEN/NOTIFY so multiple
server instances refresh their results together.

See package documentation for each component.
*/
package main
