package services

import (
	"time"

	"github.com/pikkaio/client-sdk-go/types"
)

// Config 统一的业务服务配置结构
//
// **设计目的**：
// - 避免在各个 service 内部硬编码合约地址 / 阈值 / 周期
// - 所有字段都有合理默认值，零值配置可直接使用
type Config struct {
	// ContractAddress IntentRegistry 合约地址（0x 十六进制）
	ContractAddress string

	// SyncInterval 同步引擎的轮询周期（默认 15s）
	SyncInterval time.Duration

	// RefreshDelay 变更成功后到触发刷新的延迟，留给账本读写一致性（默认 2s）
	RefreshDelay time.Duration

	// ValidationPolicy 验证得分判定阈值（零值时使用默认策略）
	ValidationPolicy types.ValidationPolicy

	// ProfileEndpoint 会话/偏好持久化服务的基地址（为空时禁用持久化）
	ProfileEndpoint string
}

// 默认参数
const (
	DefaultSyncInterval = 15 * time.Second
	DefaultRefreshDelay = 2 * time.Second
)

// Normalize 填充缺省字段并返回规整后的配置
func (c Config) Normalize() Config {
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.RefreshDelay <= 0 {
		c.RefreshDelay = DefaultRefreshDelay
	}
	if c.ValidationPolicy == (types.ValidationPolicy{}) {
		c.ValidationPolicy = types.DefaultValidationPolicy()
	}
	return c
}
