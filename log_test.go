package gamebase

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestPoolResizeLogged(t *testing.T) {
	logs := observeLogs(t, zapcore.DebugLevel)

	p, err := NewPool(1, true,
		func(*pooledBullet) bool { return true },
		func() *pooledBullet { return &pooledBullet{} })
	if err != nil {
		t.Fatal(err)
	}
	p.New()
	p.New()

	entries := logs.FilterMessage("resizing pool").All()
	if len(entries) != 1 {
		t.Fatalf("got %d resize entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["old_size"] != int64(1) || fields["new_size"] != int64(1+poolResizeAmount) {
		t.Errorf("fields = %v", fields)
	}
	if entries[0].LoggerName != "gamebase" {
		t.Errorf("logger name = %q", entries[0].LoggerName)
	}
}

func TestQuadtreeDepthWarningOncePerFrame(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)

	q := newTestTree(t, Rect{0, 0, 100, 100}, 0, 1)
	fill := func() {
		for i := 0; i < depthWarnObjects+10; i++ {
			q.Insert(newBox(fmt.Sprint(i), 1, 1, 1, 1))
		}
	}
	fill()
	if n := logs.Len(); n != 1 {
		t.Fatalf("got %d warnings, want 1", n)
	}

	q.Clear()
	fill()
	if n := logs.Len(); n != 2 {
		t.Fatalf("got %d warnings after second frame, want 2", n)
	}
}

func TestSetLoggerNilIsSilent(t *testing.T) {
	SetLogger(nil)
	p, err := NewPool(1, true,
		func(*pooledBullet) bool { return true },
		func() *pooledBullet { return &pooledBullet{} })
	if err != nil {
		t.Fatal(err)
	}
	p.New()
	p.New() // resize logs to the no-op logger without panicking
}
