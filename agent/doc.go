// Package agent contains the specialized ticket agents of SupportMesh and the
// capability contract they share. The package focuses on two concerns:
//
//  1. The Agent interface (ValidateInput, Process, SanitizeResponse) plus
//     Base, which supplies the permissive defaults and the completion plumbing
//  2. Eight agents that each build one prompt, make one completion call and
//     parse a pipe-delimited reply into a typed result
//
// Design principles:
//   - Fail soft: a malformed model reply yields the agent's documented
//     default result, never an error
//   - One exception: TicketClassificationAgent rejects empty titles or
//     descriptions with core.ErrInvalidInput before calling the model
//   - No retries, timing or publication here; the runner package wraps any
//     Agent with that behavior
//
// Every agent exposes a typed method (Classify, Assess, Analyze, ...) for
// direct use and a map-returning Process for orchestration.
package agent
