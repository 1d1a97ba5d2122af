// Package voteengine implements the multi-method vote tallying engine inside
// the polling context.
//
// The module owns ballot validation, method-specific tally computation
// (plurality, approval, ranked-choice, quadratic, range), per-user rate
// limiting, and audit-receipt minting. Poll definitions, durable ballot
// records, and voter identity are consumed through ports; business rules stay
// in application/domain layers with infrastructure behind adapters.
package voteengine
