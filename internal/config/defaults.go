package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatch_db",
}

var defaultKafka = Kafka{
	GroupID:     "service-dispatch",
	OrdersTopic: "orders.events",
	StatusTopic: "orders.status",
}

var defaultDispatch = Dispatch{
	OperationTimeout: 3 * time.Second,
	StaleAfter:       5 * time.Minute,
	SweepSchedule:    "@every 30s",
	PassSchedule:     "@every 15s",
	Policy:           "first_available",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultNotify = Notify{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    400 * time.Millisecond,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default Kafka settings; brokers are empty so Kafka stays off.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultDispatch returns the default dispatcher settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultRateLimit returns the default per-courier rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultNotify returns the default notifier retry settings.
func DefaultNotify() Notify {
	return defaultNotify
}
