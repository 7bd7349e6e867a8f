// Package audit provides the internal audit event model, sink
// implementations, and the asynchronous dispatcher used by the auth engine.
package audit
