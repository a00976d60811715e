package logsvc

import (
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

// RollbarLogger writes structured logs locally and reports them to Rollbar when enabled.
type RollbarLogger struct {
	zl   zerolog.Logger
	exit func(code int)
}

var _ core.Logger = (*RollbarLogger)(nil)

// the rollbar client is global and can only be closed once
var closeOnce sync.Once

func NewRollbarLogger(out io.Writer, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(out).Level(level).With().Timestamp().Str("app", conf.AppName).Logger()
	return &RollbarLogger{zl: zl, exit: os.Exit}
}

// NewNopLogger discards everything; used in tests.
func NewNopLogger() *RollbarLogger {
	rollbar.SetEnabled(false)
	return &RollbarLogger{zl: zerolog.Nop(), exit: func(int) {}}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, user.User
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set logged in User
		if usr, ok := arg.(user.User); ok {
			if !usrSet { // only set one User
				rollbar.SetPerson(strconv.FormatInt(usr.ID, 10), usr.Name, usr.Email)
				usrSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) write(evt *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			evt = evt.Err(v)
		case map[string]interface{}:
			evt = evt.Fields(v)
		case user.User:
			evt = evt.Int64("user_id", v.ID)
		default:
			evt = evt.Interface("extra", v)
		}
	}
	evt.Msg(msg)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.write(l.zl.Debug(), msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.write(l.zl.Info(), msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.write(l.zl.Warn(), msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.write(l.zl.Error(), msg, args)
}

// Fatal reports msg, flushes Rollbar then exits.
func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.write(l.zl.WithLevel(zerolog.FatalLevel), msg, args)
	closeOnce.Do(rollbar.Close)
	l.exit(1)
}
