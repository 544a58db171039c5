// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ik5/stagemix/loader"
)

var _ loader.Cache = (*Redis)(nil)

// unreachable returns a client pointed at a port nothing listens on.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewWithClient_Prefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		want   string
	}{
		{"", defaultPrefix + "s3://stems/a.wav"},
		{"test:", "test:s3://stems/a.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			client := unreachable()
			t.Cleanup(func() { client.Close() })

			r := NewWithClient(client, Options{Prefix: tt.prefix})
			if got := r.key("s3://stems/a.wav"); got != tt.want {
				t.Errorf("key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedis_Unreachable(t *testing.T) {
	t.Parallel()

	client := unreachable()
	r := NewWithClient(client, Options{})
	t.Cleanup(func() { r.Close() })

	ctx := context.Background()

	if _, ok, err := r.Get(ctx, "a.wav"); err == nil || ok {
		t.Errorf("Get() = ok %v, err %v, want a connection error", ok, err)
	}
	if err := r.Set(ctx, "a.wav", []byte("x")); err == nil {
		t.Error("Set() error = nil, want a connection error")
	}
	if err := r.Invalidate(ctx, "a.wav"); err == nil {
		t.Error("Invalidate() error = nil, want a connection error")
	}
}

func TestRedis_SkipsOversizedAssets(t *testing.T) {
	t.Parallel()

	client := unreachable()
	r := NewWithClient(client, Options{MaxBytes: 4})
	t.Cleanup(func() { r.Close() })

	// Oversized assets never reach the server, so no connection error.
	if err := r.Set(context.Background(), "big.wav", []byte("12345")); err != nil {
		t.Errorf("Set() error = %v, want nil", err)
	}
}

func TestNew_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := New(ctx, Options{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("New() error = nil, want a connection error")
	}
}
