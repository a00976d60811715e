package core

// Logger is any service that can log and report messages.
// args are expected to be of the form: error, map[string]interface{}, user.User
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
