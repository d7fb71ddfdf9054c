package core

// Logger is the application logger.
// args may hold errors, map[string]interface{} extras, and the user the message relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person is implemented by values identifying the user a log message relates to.
type Person interface {
	LogPerson() (id, username, email string)
}
