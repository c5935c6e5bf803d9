package errors

import (
	"github.com/sirupsen/logrus"
)

// LogHandler is an ErrorHandler that writes structured entries through logrus.
type LogHandler struct {
	// Verbose enables stack traces in the output.
	Verbose bool

	log *logrus.Logger
}

// NewLogHandler returns a LogHandler writing to logger.
// A nil logger uses the logrus standard logger.
func NewLogHandler(logger *logrus.Logger) *LogHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogHandler{log: logger}
}

func (h *LogHandler) logger() *logrus.Logger {
	if h.log == nil {
		return logrus.StandardLogger()
	}
	return h.log
}

// HandleError logs a ComposeError.
func (h *LogHandler) HandleError(err *ComposeError) {
	if err == nil {
		return
	}
	entry := h.logger().WithField("op", err.Op).WithField("kind", err.Kind.String())
	if err.Field != "" {
		entry = entry.WithField("field", err.Field)
	}
	var bre *BindingResolutionError
	if As(err.Err, &bre) {
		entry = entry.WithField("path", bre.Path)
	}
	if h.Verbose && err.StackTrace != "" {
		entry = entry.WithField("stack", err.StackTrace)
	}
	if err.Kind == KindValidation {
		entry.Warn(err.Err)
		return
	}
	entry.Error(err.Err)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	entry := h.logger().WithField("kind", KindPanic.String())
	if err.Op != "" {
		entry = entry.WithField("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		entry = entry.WithField("stack", err.StackTrace)
	}
	entry.Errorf("recovered: %v", err.Value)
}
