package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/pikkaio/client-sdk-go/services/sync"
)

// TestSyncAllIdempotent 账本不变时重复扫描结果必须一致
func TestSyncAllIdempotent(t *testing.T) {
	cfg := LoadTestConfig(t)
	c := SetupTestClient(t, cfg)
	defer TeardownTestClient(t, c)
	reg := SetupRegistry(t, c, cfg)

	engine := sync.NewEngine(reg, sync.Config{})

	first := scanLedger(t, engine)
	second := scanLedger(t, engine)

	require.Equal(t, len(first), len(second), "两次扫描条数不一致")
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "第 %d 条 id 不一致", i)
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].Fulfilled, second[i].Fulfilled)
	}
}

// TestEngineRunCycle 引擎运行一个周期后快照可用
func TestEngineRunCycle(t *testing.T) {
	cfg := LoadTestConfig(t)
	c := SetupTestClient(t, cfg)
	defer TeardownTestClient(t, c)
	reg := SetupRegistry(t, c, cfg)

	engine := sync.NewEngine(reg, sync.Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	// 等待启动周期完成
	deadline := time.Now().Add(60 * time.Second)
	for engine.LastSync().IsZero() && engine.LastError() == nil {
		if time.Now().After(deadline) {
			t.Fatal("等待首个同步周期超时")
		}
		time.Sleep(500 * time.Millisecond)
	}

	require.NoError(t, engine.LastError(), "首个同步周期失败")
	snapshot := engine.Snapshot()
	verifyDescendingOrder(t, snapshot)
	t.Logf("快照条数: %d", len(snapshot))
}
