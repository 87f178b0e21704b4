// Package trace records spans of a proof session: the session itself, each
// step applied to the forest, the tactic run inside it and the rewrites the
// tactic performs.
//
// # Usage
//
//	prover run --trace=- --trace-level=step proof.toml
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelSession emits ScopeSession, LevelStep adds ScopeStep and ScopeTactic,
// LevelDebug adds ScopeRewrite. LevelError keeps the tracer alive for ring
// dumps on failure without emitting spans.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStep, "apply", parent)
//	defer span.End("")
package trace
