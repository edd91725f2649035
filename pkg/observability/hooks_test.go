package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGraphHooks{}
	g.OnBuildStart(ctx)
	g.OnBuildComplete(ctx, 12, 20, time.Second, nil)
	g.OnRenderStart(ctx, "exec", "svg")
	g.OnRenderComplete(ctx, "exec", "svg", 4096, time.Second, nil)

	b := NoopBackendHooks{}
	b.OnQuery(ctx, "show pin", time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() should return NoopGraphHooks by default")
	}
	if _, ok := Backend().(NoopBackendHooks); !ok {
		t.Error("Backend() should return NoopBackendHooks by default")
	}

	customGraph := &testGraphHooks{}
	SetGraphHooks(customGraph)
	if Graph() != customGraph {
		t.Error("SetGraphHooks should set custom hooks")
	}

	customBackend := &testBackendHooks{}
	SetBackendHooks(customBackend)
	if Backend() != customBackend {
		t.Error("SetBackendHooks should set custom hooks")
	}

	Reset()
	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Reset() should restore NoopGraphHooks")
	}
	if _, ok := Backend().(NoopBackendHooks); !ok {
		t.Error("Reset() should restore NoopBackendHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGraphHooks{}
	SetGraphHooks(custom)
	SetGraphHooks(nil)

	if Graph() != custom {
		t.Error("SetGraphHooks(nil) should be ignored")
	}

	Reset()
}

type testGraphHooks struct{ NoopGraphHooks }
type testBackendHooks struct{ NoopBackendHooks }
