package trellis

import (
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// newLogger builds the logger described by cfg. Unknown levels fall back
// to info.
func newLogger(cfg Config) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "prefixed":
		l.SetFormatter(&prefixed.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// SetLogger replaces the scene's logger. A nil logger restores the logrus
// standard logger.
func (s *Scene) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	s.logger = l
	if s.env != nil {
		s.env.Log = l
	}
	if s.drag != nil {
		s.drag.log = l
	}
	if s.history != nil {
		s.history.SetLogger(l)
	}
}

// Logger returns the scene's logger.
func (s *Scene) Logger() logrus.FieldLogger {
	return s.log()
}

func (s *Scene) log() logrus.FieldLogger {
	if s == nil || s.logger == nil {
		return logrus.StandardLogger()
	}
	return s.logger
}

// nodeFields describes n for structured log entries.
func nodeFields(n *Node) logrus.Fields {
	if n == nil {
		return logrus.Fields{"node": "<nil>"}
	}
	return logrus.Fields{"node": n.Name, "node_id": n.ID.String()}
}
