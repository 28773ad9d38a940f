// Package engine is the composition root of the chatbot. It loads the
// optional YAML configuration, resolves it against the built-in presets,
// builds the vendor Completer through a factory registry and pairs it with a
// bounded conversation Session. Frontends talk to Engine and observe activity
// through an EventBus; they never build adapters themselves.
package engine
