// Package store provides persistence for submitted tickets and the
// knowledge base consulted by the search agent.
//
// InMemoryStore in this package is the default backend and is meant for
// tests, the CLI's --store memory mode and demos. Durable backends live in
// the sqlite and postgres sub-packages; all of them implement
// core.TicketStore and core.KnowledgeStore and wrap driver failures with
// core.ErrStorage.
package store
