// Package database provides the persistent link stores for wikicrawl.
//
// Two backends implement the same try-insert contract:
//   - LinkDB: SQLite-based (modernc.org/sqlite, CGO-free), the default.
//     Stores the visited-link set and the run history in one database file.
//     A UNIQUE column makes insert-and-check a single atomic statement, and
//     a one-writer connection pool serializes all mutations; the crawl
//     bottleneck is network I/O, not store contention.
//   - RedisStore: Redis-based, for sharing the visited set with other
//     tooling. Holds the set in one hash keyed by link; HSETNX makes
//     insert-and-check atomic on the server side.
package database
