// Package core provides the foundational domain types and interfaces shared by
// every SupportMesh package. It defines:
//
//   - AgentResponse (the immutable envelope describing one agent invocation)
//   - Event and Bus (the append-only, topic-addressed outcome log)
//   - Ticket and KnowledgeEntry (inputs read by agents)
//   - TicketStore / KnowledgeStore (small persistence interfaces)
//   - The error taxonomy used across the pipeline
//
// The package keeps implementation concerns (model transport, persistence,
// concrete agents) out of scope so that backends can be swapped freely.
package core
