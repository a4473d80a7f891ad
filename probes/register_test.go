package probes

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/jonwraymond/statuskit/status"
)

func TestRegister(t *testing.T) {
	reg := status.NewRegistry()
	err := Register(reg, Targets{
		TCP:     map[string]string{"redis": "127.0.0.1:6379", "db": "127.0.0.1:5432"},
		HTTP:    map[string]string{"api": "http://127.0.0.1:8080/health"},
		Timeout: time.Second,
		Options: []status.CollectorOption{status.WithTimeout(2 * time.Second)},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	want := []string{"runtime.memory", "runtime.goroutines", "tcp.db", "tcp.redis", "http.api"}
	var got []string
	for _, c := range reg.Select("") {
		got = append(got, c.Name())
	}
	if !slices.Equal(got, want) {
		t.Errorf("registered = %v, want %v", got, want)
	}
}

func TestRegister_RuntimeProbesRun(t *testing.T) {
	reg := status.NewRegistry()
	if err := Register(reg, Targets{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	envs, err := status.NewEngine().Execute(context.Background(), reg, "runtime.*")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(envs) != 2 {
		t.Fatalf("len(envs) = %d, want 2", len(envs))
	}
	for _, env := range envs {
		if env.Error != nil {
			t.Errorf("%s error = %v", env.Name, env.Error)
		}
	}
}
