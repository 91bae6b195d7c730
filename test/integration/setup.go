package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/pikkaio/client-sdk-go/client"
	"github.com/pikkaio/client-sdk-go/registry"
)

const (
	// DefaultNodeEndpoint 默认节点端点（Arc 测试网）
	DefaultNodeEndpoint = "https://rpc.testnet.arc.network"
	// DefaultTimeout 默认超时时间
	DefaultTimeout = 30 * time.Second
)

// TestConfig 测试配置
type TestConfig struct {
	NodeEndpoint    string
	ContractAddress string
	PrivateKey      string
	Timeout         time.Duration
}

// LoadTestConfig 从环境变量加载测试配置
//
// PIKKAIO_CONTRACT_ADDRESS 未设置时跳过整个测试（集成测试依赖
// 已部署的 IntentRegistry 合约，CI 未配置时不应失败）。
func LoadTestConfig(t *testing.T) *TestConfig {
	contract := os.Getenv("PIKKAIO_CONTRACT_ADDRESS")
	if contract == "" {
		t.Skip("PIKKAIO_CONTRACT_ADDRESS 未设置，跳过集成测试")
	}

	endpoint := os.Getenv("PIKKAIO_RPC_ENDPOINT")
	if endpoint == "" {
		endpoint = DefaultNodeEndpoint
	}

	return &TestConfig{
		NodeEndpoint:    endpoint,
		ContractAddress: contract,
		PrivateKey:      os.Getenv("PIKKAIO_PRIVATE_KEY"),
		Timeout:         DefaultTimeout,
	}
}

// SetupTestClient 创建测试客户端并验证节点可达
func SetupTestClient(t *testing.T, cfg *TestConfig) client.Client {
	clientCfg := &client.Config{
		Endpoint: cfg.NodeEndpoint,
		Protocol: client.ProtocolHTTP,
		Timeout:  int(cfg.Timeout.Seconds()),
		Debug:    false,
	}

	c, err := client.NewClient(clientCfg)
	require.NoError(t, err, "创建客户端失败")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = client.BlockNumber(ctx, c)
	require.NoError(t, err, "节点未运行或不可达: %s", cfg.NodeEndpoint)

	return c
}

// SetupRegistry 创建合约访问层并验证合约可读
func SetupRegistry(t *testing.T, c client.Client, cfg *TestConfig) *registry.Registry {
	reg, err := registry.New(c, cfg.ContractAddress)
	require.NoError(t, err, "创建注册表失败")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = reg.IntentCount(ctx)
	require.NoError(t, err, "合约不可读: %s", cfg.ContractAddress)

	return reg
}

// TeardownTestClient 清理测试客户端
func TeardownTestClient(t *testing.T, c client.Client) {
	if c != nil {
		if err := c.Close(); err != nil {
			t.Logf("关闭客户端时出现警告: %v", err)
		}
	}
}
