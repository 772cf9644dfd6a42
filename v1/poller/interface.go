package poller

import "time"

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=poller

// Logger matches the leveled methods of the logger package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Clock abstracts time so tests can run a wait without sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// Observer is told about every finished run.
type Observer interface {
	ObservePoll(operation string, res Result)
}
