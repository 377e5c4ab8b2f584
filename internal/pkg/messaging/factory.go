package messaging

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DriverKafka = "kafka"
	DriverNATS  = "nats"
	DriverNone  = "none"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups config for supported messaging backends.
type FactoryOptions struct {
	Kafka KafkaConfig
	NATS  NATSConfig
}

// NewFromDriver constructs a Publisher by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverNone, "":
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
