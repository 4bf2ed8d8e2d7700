package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
)

func TestGetClient(t *testing.T) {
	client := GetClient()
	if client == nil {
		t.Error("Expected Redis client to be created")
	}

	// Test that we can get the same client multiple times (singleton pattern)
	client2 := GetClient()
	if client != client2 {
		t.Error("Expected same client instance (singleton pattern)")
	}
}

func TestResetClientForTest(t *testing.T) {
	client1 := GetClient()
	ResetClientForTest()
	client2 := GetClient()
	if client1 == client2 {
		t.Error("Expected a new client instance after reset")
	}
}

func TestGetClient_UsesConfiguredAddr(t *testing.T) {
	mr := miniredis.RunT(t)
	viper.Set("redis.addr", mr.Addr())
	defer viper.Set("redis.addr", "localhost:6379")
	ResetClientForTest()
	defer ResetClientForTest()

	client := GetClient()
	if got := client.Options().Addr; got != mr.Addr() {
		t.Fatalf("Expected addr %s, got %s", mr.Addr(), got)
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}
}

func BenchmarkGetClient(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetClient()
	}
}
