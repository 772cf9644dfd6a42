package tracer

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=tracer

// Logger matches the leveled methods of the logger package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}
