package log

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// console receives the messages that are also shown to the user. It is
// stderr so that stdout carries only exported records.
var console io.Writer = os.Stderr

// echo is false while logrus itself writes to the console.
var echo = true

// Init sends log entries to file. If the file cannot be opened only the
// console echo remains. With debug set, entries go to the console instead
// and the failure is reported there.
func Init(file string, debug bool) {
	echo = true
	logrus.SetFormatter(&prefixed.TextFormatter{
		DisableSorting:  true,
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	logrus.SetLevel(logrus.InfoLevel)
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	var err error
	if file != "" {
		var f *os.File
		if f, err = os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			logrus.SetOutput(f)
			return
		}
	}
	if debug {
		logrus.SetOutput(console)
		echo = false
		if err != nil {
			logrus.Warnf("log %v, using the console", err)
		}
		return
	}
	logrus.SetOutput(ioutil.Discard)
}

func say(format string, args ...interface{}) {
	if echo {
		fmt.Fprintf(console, format+"\n", args...)
	}
}

func sayln(args ...interface{}) {
	if echo {
		fmt.Fprintln(console, args...)
	}
}

// SetConsole changes where user facing messages are echoed.
func SetConsole(w io.Writer) {
	console = w
}

func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	say(format, args...)
	logrus.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	say(format, args...)
	logrus.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	say(format, args...)
	logrus.Errorf(format, args...)
}

func Debug(args ...interface{}) {
	logrus.Debugln(args...)
}

func Info(args ...interface{}) {
	sayln(args...)
	logrus.Infoln(args...)
}

func Warn(args ...interface{}) {
	sayln(args...)
	logrus.Warnln(args...)
}

func Error(args ...interface{}) {
	sayln(args...)
	logrus.Errorln(args...)
}
