// Package model defines the provider-agnostic abstraction used by the
// completion client to reach a language model inside SupportMesh.
//
// Core goals:
//   - A single-turn, non-streaming Complete call behind one small interface
//   - Transport-independent request/response shapes
//   - Error classes (ErrRequest, ErrInvalidResponse) that the completion
//     client maps to its "Error:" sentinels
//   - Lightweight mocking for tests (MockModel)
//
// Providers (OpenAI-compatible endpoints such as Groq, and Anthropic)
// implement Model in sub-packages so higher layers stay decoupled from
// vendor SDKs.
package model
