package tracker

import (
	"testing"
	"time"
)

// metadataDuration 读取载荷里的 duration 值，缺失时返回 -1。
func metadataDuration(p Payload) int64 {
	v, ok := p.Metadata["duration"]
	if !ok {
		return -1
	}
	f, ok := v.(float64)
	if !ok {
		return -1
	}
	return int64(f)
}

func TestPageViewEmitsInitialEventWithoutDuration(t *testing.T) {
	cs := newCaptureServer(t)
	tr := New(cs.server.URL, WithLogger(quietLogger()), WithCheckpointInterval(time.Hour))

	pv := tr.StartPageView(desktopPage)
	tr.Flush()

	payloads := cs.all()
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	if payloads[0].EventType != EventPageView {
		t.Fatalf("unexpected event type %q", payloads[0].EventType)
	}
	if payloads[0].Metadata != nil {
		t.Fatalf("expected initial page view without metadata, got %+v", payloads[0].Metadata)
	}

	pv.Teardown()
	tr.Flush()
}

func TestTeardownEmitsElapsedDuration(t *testing.T) {
	cs := newCaptureServer(t)
	tr := New(cs.server.URL, WithLogger(quietLogger()), WithCheckpointInterval(time.Hour))

	current := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	pv := tr.StartPageView(desktopPage)
	tr.Flush()

	current = current.Add(42 * time.Second)
	pv.Teardown()
	tr.Flush()

	payloads := cs.all()
	if len(payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(payloads))
	}
	if got := metadataDuration(payloads[1]); got != 42 {
		t.Fatalf("expected duration 42, got %d", got)
	}

	// 卸载后再次 Teardown 不再上报
	pv.Teardown()
	tr.Flush()
	if cs.count() != 2 {
		t.Fatal("expected repeated teardown to be a no-op")
	}
}

func TestUnloadEmitsDuration(t *testing.T) {
	cs := newCaptureServer(t)
	tr := New(cs.server.URL, WithLogger(quietLogger()), WithCheckpointInterval(time.Hour))

	current := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	pv := tr.StartPageView(desktopPage)
	tr.Flush()

	current = current.Add(7 * time.Second)
	pv.Unload()
	// 卸载回调与组件卸载可以各自上报，一次访问允许出现多行带时长的事件
	pv.Teardown()
	tr.Flush()

	payloads := cs.all()
	if len(payloads) != 3 {
		t.Fatalf("expected 3 payloads, got %d", len(payloads))
	}
	if got := metadataDuration(payloads[1]); got != 7 {
		t.Fatalf("expected unload duration 7, got %d", got)
	}
	if got := metadataDuration(payloads[2]); got != 7 {
		t.Fatalf("expected teardown duration 7, got %d", got)
	}
}

func TestCheckpointTimerEmitsFallbackDuration(t *testing.T) {
	cs := newCaptureServer(t)
	tr := New(cs.server.URL, WithLogger(quietLogger()), WithCheckpointInterval(20*time.Millisecond))

	pv := tr.StartPageView(desktopPage)
	tr.Flush()

	deadline := time.Now().Add(2 * time.Second)
	for cs.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("expected checkpoint timer to emit a duration event")
		}
		time.Sleep(5 * time.Millisecond)
	}

	pv.Teardown()
	tr.Flush()

	payloads := cs.all()
	if metadataDuration(payloads[1]) < 0 {
		t.Fatalf("expected checkpoint payload to carry duration, got %+v", payloads[1].Metadata)
	}
}

func TestTeardownCancelsCheckpointTimer(t *testing.T) {
	cs := newCaptureServer(t)
	tr := New(cs.server.URL, WithLogger(quietLogger()), WithCheckpointInterval(50*time.Millisecond))

	pv := tr.StartPageView(desktopPage)
	pv.Teardown()
	tr.Flush()

	before := cs.count()
	time.Sleep(150 * time.Millisecond)
	tr.Flush()

	if cs.count() != before {
		t.Fatal("expected no checkpoint event after teardown")
	}
}

func TestUnmountTearsDownPageView(t *testing.T) {
	cs := newCaptureServer(t)
	tr := New(cs.server.URL, WithLogger(quietLogger()), WithCheckpointInterval(time.Hour))

	inst := tr.Mount(desktopPage)
	tr.Flush()
	inst.Unmount()
	tr.Flush()

	payloads := cs.all()
	if len(payloads) != 2 {
		t.Fatalf("expected mount + unmount payloads, got %d", len(payloads))
	}
	if metadataDuration(payloads[1]) < 0 {
		t.Fatalf("expected unmount payload to carry duration, got %+v", payloads[1].Metadata)
	}
}
