package badgerstore

import (
	"fmt"
	"log/slog"
	"strings"
)

// slogLogger routes badger's printf-style logging into slog. Badger's info
// chatter is demoted to debug.
type slogLogger struct {
	log *slog.Logger
}

func (l slogLogger) Errorf(format string, args ...any) {
	l.log.Error(message(format, args))
}

func (l slogLogger) Warningf(format string, args ...any) {
	l.log.Warn(message(format, args))
}

func (l slogLogger) Infof(format string, args ...any) {
	l.log.Debug(message(format, args))
}

func (l slogLogger) Debugf(format string, args ...any) {
	l.log.Debug(message(format, args))
}

func message(format string, args []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
