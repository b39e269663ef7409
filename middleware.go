package vtterm

// TraceExecutor wraps another Executor and logs every Command before
// forwarding it, the generalization of the teacher's per-method middleware
// hooks into a single observation point now that Command is a closed sum
// type rather than ad hoc Handler method calls.
type TraceExecutor struct {
	next   Executor
	logger Logger
}

var _ Executor = (*TraceExecutor)(nil)

// NewTraceExecutor creates a TraceExecutor. A nil logger is replaced with NoopLogger.
func NewTraceExecutor(next Executor, logger Logger) *TraceExecutor {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &TraceExecutor{next: next, logger: logger}
}

func (t *TraceExecutor) Execute(cmd Command) {
	t.logger.Tracef("vtterm: command %T", cmd)
	t.next.Execute(cmd)
}

// EnableTracing wraps the screen's executor chain with a TraceExecutor using
// the screen's configured Logger. Intended for debugging, not production hot
// paths — every command incurs a Tracef call once enabled.
func (s *Screen) EnableTracing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executor = NewTraceExecutor(s.executor, s.logger)
}
