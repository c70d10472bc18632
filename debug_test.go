package canopy

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDumpTree(t *testing.T) {
	s := NewScene(Config{})
	box, err := s.Tree().InsertUnder(s.Root(), Container("box", DefaultStyle()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Tree().InsertUnder(box, Text("label", "A")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	out := s.DumpTree()
	for _, want := range []string{
		"root container #1.0",
		"box container",
		`label text #3.0 "A" [0,0 7x13] a11y=3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}

	if _, err := DumpTree(s.Tree(), Handle{index: 50}); err == nil {
		t.Error("DumpTree of unknown node succeeded")
	}
}

func newObservedScene(level zapcore.Level) (*Scene, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	s := NewScene(Config{Debug: true, Logger: zap.New(core)})
	return s, logs
}

func TestDebugFrameLog(t *testing.T) {
	s, logs := newObservedScene(zapcore.DebugLevel)
	if _, err := s.Tree().InsertUnder(s.Root(), Text("a", "A")); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}

	frames := logs.FilterMessage("frame").All()
	if len(frames) != 1 {
		t.Fatalf("frame logs = %d, want 1", len(frames))
	}
	fields := frames[0].ContextMap()
	if fields["a11y_updates"] != int64(2) {
		t.Errorf("a11y_updates = %v, want 2", fields["a11y_updates"])
	}
	if fields["frame"] != uint64(0) {
		t.Errorf("frame = %v, want 0", fields["frame"])
	}

	s.SetDebugMode(false)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("frame").Len(); n != 1 {
		t.Errorf("frame logs with debug off = %d, want 1", n)
	}
}

func TestDebugDepthWarning(t *testing.T) {
	s, logs := newObservedScene(zapcore.WarnLevel)
	parent := s.Root()
	for i := 0; i < debugMaxTreeDepth+3; i++ {
		h, err := s.Tree().InsertUnder(parent, Container("", DefaultStyle()))
		if err != nil {
			t.Fatal(err)
		}
		parent = h
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("tree depth exceeds threshold").Len(); n != 1 {
		t.Errorf("depth warnings = %d, want 1", n)
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	s, logs := newObservedScene(zapcore.WarnLevel)
	for i := 0; i <= debugMaxChildCount; i++ {
		if _, err := s.Tree().InsertUnder(s.Root(), Container("", DefaultStyle())); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("node child count exceeds threshold").Len(); n != 1 {
		t.Errorf("child count warnings = %d, want 1", n)
	}
}
