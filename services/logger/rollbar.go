package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/aastu-its/interntrack/core"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// report splits logger args into what rollbar sends and who the report is about.
type report struct {
	args    []interface{}
	person  *core.Person
	session *core.Session
}

// expected fmt: msg | error, map[string]interface{}, core.Session or core.Person
func newReport(msg string, args []interface{}) report {
	r := report{args: make([]interface{}, 0, len(args)+2)}
	r.args = append(r.args, msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case core.Session:
			if r.person == nil { // only one account per report
				p, sess := v.Person(), v
				r.person, r.session = &p, &sess
			}
		case core.Person:
			if r.person == nil {
				p := v
				r.person = &p
			}
		default:
			r.args = append(r.args, arg)
		}
	}
	return r
}

// tags are the custom fields a session adds to a report
func (r report) tags() map[string]interface{} {
	if r.session == nil {
		return nil
	}
	tags := map[string]interface{}{"role": string(r.session.Role)}
	if r.session.Department != "" {
		tags["department"] = r.session.Department
	}
	return tags
}

func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	r := newReport(msg, args)
	if r.person != nil {
		rollbar.SetPerson(r.person.ID, r.person.Name, r.person.Email)
	} else {
		rollbar.ClearPerson()
	}
	if tags := r.tags(); tags != nil {
		return append(r.args, tags)
	}
	return r.args
}

// print never writes who the report is about, only the role it acted as.
func (l RollbarLogger) print(msg string, args []interface{}) {
	r := newReport(msg, args)
	l.std.Println(msg)
	for _, arg := range r.args[1:] {
		l.std.Printf("%+v\n", arg)
	}
	if r.session != nil {
		if r.session.Department != "" {
			l.std.Printf("role=%s department=%q\n", r.session.Role, r.session.Department)
		} else {
			l.std.Printf("role=%s\n", r.session.Role)
		}
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
