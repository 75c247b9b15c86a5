package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/errkit/component"
	"github.com/kbukum/errkit/config"
	"github.com/kbukum/errkit/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health { return m.health }

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func newTestApp(t *testing.T, opts ...Option) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "test-svc", Version: "1.0.0"}}
	app, err := NewApp(cfg, append([]Option{WithLogger(log)}, opts...)...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, &buf
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %s %s", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got env %q", app.Cfg.Environment)
	}
	if app.Components == nil {
		t.Fatal("expected component registry")
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(&testConfig{})
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewAppInitsGlobalLogger(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "global-svc"}}
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Logger != logger.GetGlobalLogger() {
		t.Error("expected the global logger when none is given")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, _ := newTestApp(t, WithGracefulTimeout(3*time.Second))
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", app.gracefulTimeout)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.RegisterComponent(healthy("db")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := app.RegisterComponent(healthy("db")); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			_ = app.RegisterComponent(&mockComponent{
				name:   "c",
				health: component.Health{Name: "c", Status: tc.status, Message: "detail"},
			})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("ReadyCheck() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "c="+string(tc.status)+"(detail)") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app, _ := newTestApp(t)
	comp := healthy("server")
	_ = app.RegisterComponent(comp)

	var order []string
	record := func(s string) Hook {
		return func(context.Context) error {
			order = append(order, s)
			return nil
		}
	}
	app.OnStart(record("start"))
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		if !comp.started {
			t.Error("components must be started before configure")
		}
		order = append(order, "configure")
		return nil
	})
	app.OnReady(record("ready"))
	app.OnStop(record("stop"))

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := "start,configure,ready,task,stop"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
	if !comp.stopped {
		t.Error("expected component to be stopped after task")
	}
}

func TestRunTaskErrors(t *testing.T) {
	boom := fmt.Errorf("boom")
	fail := func(context.Context) error { return boom }

	tests := []struct {
		name   string
		setup  func(a *App[*testConfig])
		task   func(context.Context) error
		errMsg string
	}{
		{"task error", func(*App[*testConfig]) {}, fail, "boom"},
		{"start hook", func(a *App[*testConfig]) { a.OnStart(fail) }, nil, "onStart hook failed"},
		{"configure", func(a *App[*testConfig]) {
			a.OnConfigure(func(context.Context, *App[*testConfig]) error { return boom })
		}, nil, "configuration failed"},
		{"ready hook", func(a *App[*testConfig]) { a.OnReady(fail) }, nil, "onReady hook failed"},
		{"stop hook", func(a *App[*testConfig]) { a.OnStop(fail) }, nil, "hook 0 failed"},
		{"component start", func(a *App[*testConfig]) {
			_ = a.RegisterComponent(&mockComponent{name: "db", startErr: boom})
		}, nil, "initialization failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			tc.setup(app)
			task := tc.task
			if task == nil {
				task = func(context.Context) error { return nil }
			}
			err := app.RunTask(context.Background(), task)
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestRunTaskStopsStartedComponentsOnFailure(t *testing.T) {
	app, _ := newTestApp(t)
	first := healthy("first")
	_ = app.RegisterComponent(first)
	_ = app.RegisterComponent(&mockComponent{name: "second", startErr: fmt.Errorf("nope")})

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected start failure")
	}
	if !first.stopped {
		t.Error("components started before the failure must be stopped")
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if err == nil {
		t.Error("expected error from canceled task")
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	app, buf := newTestApp(t)
	comp := healthy("server")
	_ = app.RegisterComponent(comp)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !comp.started || !comp.stopped {
		t.Error("expected component start and stop")
	}
	if !strings.Contains(buf.String(), "Application shutdown complete") {
		t.Errorf("expected shutdown log, got %s", buf.String())
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal for context cancellation, got %v", sig)
	}
}

func TestShutdownJoinsComponentErrors(t *testing.T) {
	app, _ := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "db", stopErr: fmt.Errorf("close failed"),
		health: component.Health{Name: "db", Status: component.StatusHealthy}})

	if err := app.Components.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	err := app.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Fatalf("expected stop error, got %v", err)
	}
}
