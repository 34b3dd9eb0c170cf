package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/flight-seat-reservations/internal/adapters/redis"
	"github.com/robertarktes/flight-seat-reservations/internal/rateLimit"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForExec([]string{"redis-cli", "ping"}),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { redisContainer.Terminate(context.Background()) })

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatal(err)
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisAdapters(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	t.Run("revocations", func(t *testing.T) {
		cache := redisadapter.NewCache(client)
		if err := cache.Ping(ctx); err != nil {
			t.Fatal(err)
		}
		revoked, err := cache.IsRevoked(ctx, "jti-1")
		if err != nil || revoked {
			t.Fatalf("expected token not revoked, got %v (err %v)", revoked, err)
		}
		if err := cache.Revoke(ctx, "jti-1", time.Minute); err != nil {
			t.Fatal(err)
		}
		revoked, err = cache.IsRevoked(ctx, "jti-1")
		if err != nil || !revoked {
			t.Fatalf("expected token revoked, got %v (err %v)", revoked, err)
		}
		ttl, err := client.TTL(ctx, "revoked:jti-1").Result()
		if err != nil || ttl <= 0 || ttl > time.Minute {
			t.Errorf("expected revocation to expire within a minute, got %v (err %v)", ttl, err)
		}
	})

	t.Run("idempotency keeps first response", func(t *testing.T) {
		idemp := redisadapter.NewIdempotency(client)
		got, err := idemp.Get(ctx, "k1")
		if err != nil || got != nil {
			t.Fatalf("expected miss, got %+v (err %v)", got, err)
		}
		first := redisadapter.IdempResponse{Status: 201, ContentType: "application/json", Result: []byte(`{"ok":true}`)}
		if err := idemp.Set(ctx, "k1", first, time.Minute); err != nil {
			t.Fatal(err)
		}
		if err := idemp.Set(ctx, "k1", redisadapter.IdempResponse{Status: 409}, time.Minute); err != nil {
			t.Fatal(err)
		}
		got, err = idemp.Get(ctx, "k1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != 201 || string(got.Result) != `{"ok":true}` || got.ContentType != "application/json" {
			t.Errorf("unexpected stored response %+v", got)
		}
	})

	t.Run("rate limiter", func(t *testing.T) {
		rl := rateLimit.NewRateLimiter(redisadapter.NewCache(client))
		for i := 0; i < 3; i++ {
			if !rl.Allow(ctx, "ip:10.0.0.1", 3, time.Minute) {
				t.Fatalf("request %d should be allowed", i+1)
			}
		}
		if rl.Allow(ctx, "ip:10.0.0.1", 3, time.Minute) {
			t.Error("fourth request should be limited")
		}
		if !rl.Allow(ctx, "ip:10.0.0.2", 3, time.Minute) {
			t.Error("other clients have their own window")
		}
	})
}
