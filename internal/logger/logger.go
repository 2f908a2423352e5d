package logger

import (
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// JSONで出すロガーを作る。levelが読めなければinfo。
func New(level string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stdout
	}

	l := log.New()
	l.Out = out
	l.Formatter = &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime:  "timestamp",
			log.FieldKeyLevel: "severity",
			log.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}

	lv, err := log.ParseLevel(level)
	if err != nil {
		lv = log.InfoLevel
	}
	l.Level = lv
	return l
}
