package debug

import "testing"

func TestLoggerGatesByLevel(t *testing.T) {
	l := New(LevelError)
	if l.Level() != LevelError {
		t.Fatalf("expected level %v, got %v", LevelError, l.Level())
	}
	// At LevelError, Info/Verbose calls must not panic and are no-ops;
	// there's nothing externally observable to assert beyond "doesn't crash".
	l.Infof("test", "should be suppressed")
	l.Verbosef("test", nil, nil, "should be suppressed")
	l.Errorf("test", "should be emitted")
}

func TestLoggerSetLevel(t *testing.T) {
	l := New(LevelOff)
	l.SetLevel(LevelVerbose)
	if l.Level() != LevelVerbose {
		t.Errorf("expected SetLevel to update the gate")
	}
}
