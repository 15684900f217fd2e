// Package resilience provides the circuit breaker and retry helpers wrapped
// around request cycles. Uses sony/gobreaker for circuit breaking.
package resilience
