package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/pikkaio/client-sdk-go/types"
)

// TestPing 验证节点与合约的基础连通性
func TestPing(t *testing.T) {
	cfg := LoadTestConfig(t)
	c := SetupTestClient(t, cfg)
	defer TeardownTestClient(t, c)
	reg := SetupRegistry(t, c, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := reg.Ping(ctx)
	require.NoError(t, err, "连通性探测失败")
	assert.Greater(t, result.BlockNumber, uint64(0), "区块高度为 0")
	t.Logf("区块高度: %d, 意图总数: %d", result.BlockNumber, result.IntentCount)
}

// TestFetchIntentFields 逐条读取账本意图并校验字段完整性
func TestFetchIntentFields(t *testing.T) {
	cfg := LoadTestConfig(t)
	c := SetupTestClient(t, cfg)
	defer TeardownTestClient(t, c)
	reg := SetupRegistry(t, c, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	count, err := reg.IntentCount(ctx)
	require.NoError(t, err)
	if count == 0 {
		t.Skip("账本上没有意图，跳过字段校验")
	}

	for id := uint64(1); id <= count; id++ {
		intent, err := reg.FetchIntent(ctx, id)
		if types.IsNotFound(err) {
			// 墓碑槽位：合法情况
			continue
		}
		require.NoError(t, err, "读取意图 %d 失败", id)
		verifyIntentFields(t, intent)
		assert.Equal(t, id, intent.ID)
	}
}

// TestFetchIntentBeyondCount 越界槽位必须表现为"不存在"而非故障
func TestFetchIntentBeyondCount(t *testing.T) {
	cfg := LoadTestConfig(t)
	c := SetupTestClient(t, cfg)
	defer TeardownTestClient(t, c)
	reg := SetupRegistry(t, c, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := reg.IntentCount(ctx)
	require.NoError(t, err)

	_, err = reg.FetchIntent(ctx, count+1000)
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err), "越界读取应返回不存在哨兵，实际: %v", err)
}
