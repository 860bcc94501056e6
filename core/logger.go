package core

type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the account a log entry is about. Loggers attach it to reports instead of printing it.
// Passing a Session instead also tags the report with the role and department.
type Person struct {
	ID    string
	Name  string
	Email string
}
