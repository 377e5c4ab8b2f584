// Package messaging publishes domain events to a broker.
//
// The identity service only emits events (account registered, password
// changed); consumers live in other services. Kafka and NATS are supported,
// plus a "none" driver that logs and drops for local runs.
package messaging
