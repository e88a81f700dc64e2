package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"wfr/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env != EnvFromContext(ctx) {
		t.Error("EnvFromContext() must return the same environment")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > time.Minute {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_ReloadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
	}

	env := &LocalEnv{ConfigFile: configPath, Cfg: &config.Config{Version: 1}}

	write("version: 1\nserver:\n  root_url: /first\n")
	cfg, err := env.ReloadConfig()
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Server.RootURL != "/first" {
		t.Errorf("RootURL = %q, want /first", cfg.Server.RootURL)
	}

	write("version: 1\nserver:\n  root_url: /second\n")
	if cfg, err = env.ReloadConfig(); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Server.RootURL != "/second" {
		t.Errorf("RootURL = %q, want /second", cfg.Server.RootURL)
	}

	write("version: 7\n")
	if _, err = env.ReloadConfig(); err == nil {
		t.Error("Expected error for invalid configuration")
	}
	if env.Cfg.Version != 1 {
		t.Error("ReloadConfig() must not replace current configuration")
	}
}

func TestLocalEnv_ReloadConfigDefaults(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	cfg, err := env.ReloadConfig()
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
}
