package recorder

var _ Recorder = (*NoopRecorder)(nil)

// NoopRecorder discards runs. It is used when database.sqlite_path is empty.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) RecordRun(*RunRecord) error { return nil }

func (*NoopRecorder) Close() error { return nil }
