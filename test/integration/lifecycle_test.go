package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/pikkaio/client-sdk-go/services"
	"github.com/pikkaio/client-sdk-go/services/intent"
	"github.com/pikkaio/client-sdk-go/services/sync"
	"github.com/pikkaio/client-sdk-go/utils"
	"github.com/pikkaio/client-sdk-go/wallet"
)

// TestCreateIntentLifecycle 端到端：创建意图并在下一次扫描中可见
//
// 需要 PIKKAIO_PRIVATE_KEY（测试账户需持有足够的 ARC 测试币）。
func TestCreateIntentLifecycle(t *testing.T) {
	cfg := LoadTestConfig(t)
	if cfg.PrivateKey == "" {
		t.Skip("PIKKAIO_PRIVATE_KEY 未设置，跳过链上写测试")
	}

	c := SetupTestClient(t, cfg)
	defer TeardownTestClient(t, c)
	reg := SetupRegistry(t, c, cfg)

	local, err := wallet.NewLocalProvider(c, cfg.PrivateKey)
	require.NoError(t, err, "创建本地签名器失败")

	resolver := wallet.NewResolver([]wallet.Candidate{local.Candidate()}, nil)
	defer resolver.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	session, err := resolver.Connect(ctx)
	require.NoError(t, err, "连接钱包失败")
	t.Logf("测试账户: %s", session.ActiveAddress)

	before, err := reg.IntentCount(ctx)
	require.NoError(t, err)

	svc, err := intent.NewService(c, resolver, services.Config{ContractAddress: cfg.ContractAddress})
	require.NoError(t, err)

	description := "integration test intent " + time.Now().Format(time.RFC3339)
	result, err := svc.Create(ctx, description, "0.001")
	require.NoError(t, err, "创建意图失败")
	assert.NotEmpty(t, result.TxHash)
	assert.Greater(t, result.BlockNumber, uint64(0))
	t.Logf("交易哈希: %s", result.TxHash)

	waitForIntentCount(t, reg, before+1, 2*time.Minute)

	engine := sync.NewEngine(reg, sync.Config{})
	intents := scanLedger(t, engine)
	require.NotEmpty(t, intents)

	// 降序集合：新意图必然排在最前
	latest := intents[0]
	assert.Equal(t, description, latest.Description)
	assert.True(t, utils.SameAddress(latest.Creator, session.ActiveAddress),
		"创建者不匹配: %s", latest.Creator)
	assert.False(t, latest.Fulfilled)
}
