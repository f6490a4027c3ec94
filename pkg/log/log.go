package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type LogFormat string

var (
	Pretty LogFormat = "pretty"
	JSON   LogFormat = "json"
	Text   LogFormat = "text"
)

// the runtime is a library first, so we stay quiet at info unless the embedding
// program asks for more with SetLevelString
var (
	stderr = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	// Stdout is used by the cli for anything the user is expected to pipe
	Stdout = zerolog.New(os.Stdout).With().Timestamp().Logger()

	globalFormat LogFormat = JSON
)

const (
	FatalLevel = zerolog.FatalLevel
	PanicLevel = zerolog.PanicLevel
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
	Disabled   = zerolog.Disabled
)

var (
	ErrUnsupportedFormat = fmt.Errorf("unsupported format. supported 'json', 'pretty', 'text'")
)

// the helpers below read the current logger on every call so that SetLevel, SetFormat and
// SetOutput apply to events created afterwards

func Fatal() *zerolog.Event { return stderr.Fatal() }
func Panic() *zerolog.Event { return stderr.Panic() }
func Error() *zerolog.Event { return stderr.Error() }
func Warn() *zerolog.Event  { return stderr.Warn() }
func Info() *zerolog.Event  { return stderr.Info() }
func Debug() *zerolog.Event { return stderr.Debug() }
func Trace() *zerolog.Event { return stderr.Trace() }

// Err starts an error level event when err is not nil, info otherwise
func Err(err error) *zerolog.Event { return stderr.Err(err) }

func With() zerolog.Context { return stderr.With() }

// Logger returns a copy of the current stderr logger. Use this when a component
// wants to attach its own context fields
func Logger() zerolog.Logger {
	return stderr
}

// SetLevel sets the level on both the stderr and stdout loggers
func SetLevel(l zerolog.Level) {
	stderr = stderr.Level(l)
	Stdout = Stdout.Level(l)
}

func SetLevelString(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	SetLevel(l)
	return nil
}

// SetOutput redirects the stderr logger. Tests use this to capture log lines
func SetOutput(w io.Writer) {
	stderr = stderr.Output(w)
}

func GetLogFormat() LogFormat {
	return globalFormat
}

func SetFormat(format string) error {
	switch format {
	case "json", "":
		globalFormat = JSON
	case "pretty":
		stderr = stderr.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false, TimeFormat: "\r3:04PM"})
		Stdout = Stdout.Output(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: false, TimeFormat: "\r3:04PM"})
		globalFormat = Pretty
	case "text":
		stderr = stderr.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: "\r3:04PM"})
		Stdout = Stdout.Output(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true, TimeFormat: "\r3:04PM"})
		globalFormat = Text
	default:
		return ErrUnsupportedFormat
	}
	return nil
}
