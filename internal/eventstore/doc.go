// Package eventstore implements the append-only commit log at the heart
// of the system.
//
// The store keeps an ordered sequence of commits, a per-stream version
// table, and a set of synchronous subscribers. A single mutex serializes
// every append: the commit, the version bump, and the subscriber fan-out
// are observed atomically by all readers. Subscribers are notified inside
// Record, after the commit is applied and before Record returns, so a
// caller observes a fully consistent world once a command completes.
//
// The store is in-memory only. Durable persistence and replication are
// explicitly out of scope.
package eventstore
