// Package messaging publishes and consumes domain events over a broker.
//
// NATS is used in deployed environments. The in-memory driver delivers within
// the process and backs local runs and tests.
package messaging
