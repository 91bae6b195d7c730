package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/pikkaio/client-sdk-go/services/sync"
	"github.com/pikkaio/client-sdk-go/types"
	"github.com/pikkaio/client-sdk-go/utils"
)

// scanLedger 执行一次全表扫描并做基础一致性断言
func scanLedger(t *testing.T, engine *sync.Engine) []types.Intent {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	intents, err := engine.SyncAll(ctx)
	require.NoError(t, err, "全表扫描失败")

	verifyDescendingOrder(t, intents)
	return intents
}

// verifyDescendingOrder 验证意图集合按 id 严格降序排列
func verifyDescendingOrder(t *testing.T, intents []types.Intent) {
	for i := 1; i < len(intents); i++ {
		assert.Greater(t, intents[i-1].ID, intents[i].ID,
			"意图集合未按 id 降序排列: [%d]=%d, [%d]=%d",
			i-1, intents[i-1].ID, i, intents[i].ID)
	}
}

// verifyIntentFields 验证单条意图的字段完整性
func verifyIntentFields(t *testing.T, intent *types.Intent) {
	require.NotNil(t, intent)
	assert.Greater(t, intent.ID, uint64(0), "意图 id 必须从 1 开始")
	assert.NoError(t, utils.ValidateAddress(intent.Creator), "创建者地址非法: %s", intent.Creator)
	require.NotNil(t, intent.StakeAmount, "质押金额为空")
	assert.True(t, intent.StakeAmount.Sign() > 0, "质押金额必须为正")

	if intent.Fulfilled {
		assert.NotEmpty(t, intent.Proof, "已履约意图缺少证明")
	}
	for _, v := range intent.Validators {
		assert.Equal(t, utils.NormalizeAddress(v), v, "验证者地址未归一化: %s", v)
	}
}

// waitForIntentCount 等待账本意图总数达到目标值
func waitForIntentCount(t *testing.T, counter interface {
	IntentCount(ctx context.Context) (uint64, error)
}, target uint64, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		count, err := counter.IntentCount(ctx)
		cancel()
		if err == nil && count >= target {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("等待意图总数超时: 目标=%d", target)
		}
	}
}
