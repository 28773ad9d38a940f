// Package chats provides a provider-agnostic data model for LLM chat interactions.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/humanizer/pkg/chats/role]: conversation roles (system, user, assistant)
//   - [github.com/germanamz/humanizer/pkg/chats/message]: immutable text turns tagged with a role
//   - [github.com/germanamz/humanizer/pkg/chats/chat]: mutable, ordered conversation container
//
// No provider or API code is included; chats is a foundation layer
// that adapters can build on.
package chats
