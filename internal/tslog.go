package internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// TSLog is a simple logger with colored outputs.
type TSLog struct {
	z     zerolog.Logger
	color bool
}

// NewTSLog creates a logger writing to w. Gray output is only shown when
// verbose is set.
func NewTSLog(w io.Writer, verbose bool) *TSLog {
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    w != os.Stderr && w != os.Stdout,
	}

	return &TSLog{
		z:     zerolog.New(cw).Level(level).With().Timestamp().Logger(),
		color: !cw.NoColor,
	}
}

var discard = &TSLog{z: zerolog.Nop()}

// Discard returns a logger that drops everything.
func Discard() *TSLog {
	return discard
}

func (o *TSLog) log(e *zerolog.Event, c string, f string, v ...interface{}) {
	if e == nil {
		return
	}

	s := fmt.Sprintf(f, v...)

	if o.color && c != "" {
		s = fmt.Sprintf("\033[%sm%s\033[0m", c, s)
	}

	e.Msg(s)
}

// Log logs
func (o *TSLog) Log(f string, v ...interface{}) {
	o.log(o.z.Info(), "0", f, v...)
}

// Green greens output.
func (o *TSLog) Green(f string, v ...interface{}) {
	o.log(o.z.Info(), "0;32", f, v...)
}

// Red reds output.
func (o *TSLog) Red(f string, v ...interface{}) {
	o.log(o.z.Error(), "0;31", f, v...)
}

// Gray grays output. Only shown in verbose mode.
func (o *TSLog) Gray(f string, v ...interface{}) {
	o.log(o.z.Debug(), "1;30", f, v...)
}

// Elapsed logs how long something took since start, at debug level.
func (o *TSLog) Elapsed(what string, start time.Time) {
	o.z.Debug().Dur("took", time.Since(start)).Msg(what)
}
