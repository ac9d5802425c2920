package exportparser

import "go.uber.org/zap"

// DiagnosticKind classifies a normalization diagnostic.
type DiagnosticKind string

const (
	// DiagnosticShapeDetected reports which structured-data shape matched.
	DiagnosticShapeDetected DiagnosticKind = "shape-detected"
	// DiagnosticShapeUnrecognized reports a plausible document that matched no shape.
	DiagnosticShapeUnrecognized DiagnosticKind = "shape-unrecognized"
	// DiagnosticEntrySkipped reports an entry or link that yielded no identifier.
	DiagnosticEntrySkipped DiagnosticKind = "entry-skipped"

	noEntryIndex = -1

	logMessageDiagnostic = "export normalization diagnostic"
	logFieldFormat       = "format"
	logFieldKind         = "kind"
	logFieldEntryIndex   = "entry_index"
	logFieldDetail       = "detail"
)

// Diagnostic describes a soft event observed while normalizing a payload.
type Diagnostic struct {
	Format     FormatKind
	Kind       DiagnosticKind
	EntryIndex int
	Message    string
}

// DiagnosticSink receives diagnostics. Implementations must not retain identifiers beyond the call.
type DiagnosticSink interface {
	Report(diagnostic Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(diagnostic Diagnostic)

// Report calls the function.
func (diagnosticFunc DiagnosticFunc) Report(diagnostic Diagnostic) {
	diagnosticFunc(diagnostic)
}

type zapDiagnosticSink struct {
	logger *zap.Logger
}

// NewZapDiagnosticSink writes diagnostics to logger: skipped entries at debug level, detected shapes at
// info level and unrecognized shapes at warn level.
func NewZapDiagnosticSink(logger *zap.Logger) DiagnosticSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return zapDiagnosticSink{logger: logger}
}

func (sink zapDiagnosticSink) Report(diagnostic Diagnostic) {
	fields := []zap.Field{
		zap.String(logFieldFormat, diagnostic.Format.String()),
		zap.String(logFieldKind, string(diagnostic.Kind)),
		zap.String(logFieldDetail, diagnostic.Message),
	}
	if diagnostic.EntryIndex != noEntryIndex {
		fields = append(fields, zap.Int(logFieldEntryIndex, diagnostic.EntryIndex))
	}
	switch diagnostic.Kind {
	case DiagnosticShapeUnrecognized:
		sink.logger.Warn(logMessageDiagnostic, fields...)
	case DiagnosticShapeDetected:
		sink.logger.Info(logMessageDiagnostic, fields...)
	default:
		sink.logger.Debug(logMessageDiagnostic, fields...)
	}
}

type discardDiagnosticSink struct{}

func (discardDiagnosticSink) Report(Diagnostic) {}
