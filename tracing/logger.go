package tracing

import (
	"fmt"

	"github.com/uber/jaeger-client-go"
	"go.uber.org/zap"
)

var _ jaeger.Logger = (*logAdapter)(nil)

type logAdapter struct {
	*zap.Logger
}

func (log *logAdapter) Infof(str string, args ...interface{}) {
	log.Logger.Info(fmt.Sprintf(str, args...))
}

func (log *logAdapter) Debugf(str string, args ...interface{}) {
	log.Logger.Debug(fmt.Sprintf(str, args...))
}

func (log *logAdapter) Error(msg string) {
	log.Logger.Error(msg)
}
