package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/pikkaio/client-sdk-go/client"
	"github.com/pikkaio/client-sdk-go/services/stats"
	"github.com/pikkaio/client-sdk-go/types"
)

// Ledger 同步引擎消费的账本读取接口（registry.Registry 满足该接口）
type Ledger interface {
	IntentCount(ctx context.Context) (uint64, error)
	FetchIntent(ctx context.Context, id uint64) (*types.Intent, error)
	FetchValidators(ctx context.Context, id uint64) []string
}

// Config 同步引擎配置
type Config struct {
	// Interval 轮询周期（默认 15s）
	Interval time.Duration

	// Logger 日志器（可选）
	Logger client.Logger
}

// Engine 同步引擎
//
// 把账本全表扫描为一份有序本地集合，并独占持有这份集合：
// 每个周期整体替换，其他组件只读快照，从不原地修改。
// 钱包连接与否不影响读取——引擎按固定周期独立运行，
// 查看者地址只影响统计推导这一步。
type Engine struct {
	ledger Ledger
	logger client.Logger

	interval time.Duration

	mu       stdsync.RWMutex
	intents  []types.Intent
	stats    types.DerivedStats
	viewer   string
	lastSync time.Time
	lastErr  error

	refreshCh chan struct{}
}

// NewEngine 创建同步引擎
func NewEngine(ledger Ledger, cfg Config) *Engine {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Engine{
		ledger:    ledger,
		logger:    cfg.Logger,
		interval:  interval,
		refreshCh: make(chan struct{}, 1),
	}
}

// SyncAll 执行一次账本全表扫描，返回按 id 降序排列的意图集合
//
// **扫描规则**：
// 1. 读取 intentCount = N
// 2. id 从 1 到 N 升序读取；槽位不存在（墓碑）⇒ 跳过继续
// 3. 传输/解码失败 ⇒ 立即停止，返回已累积的部分序列
// 4. 反转序列（最新的意图排最前）
// 5. 为每条保留的意图补取验证者集合（失败回落为空集合）
//
// 注意第 2/3 步的不对称：语义缺失跳过、技术故障截断。这意味着一次
// 瞬时 RPC 失败会让本周期的可见账本在该序号处被静默截断——这是已知的
// 正确性弱点，但行为契约如此，下一个调度周期会自然纠正；不要把截断
// "修复"成跳过，那会改变局部账本故障下的可观察行为。
//
// 对引擎状态无副作用；账本不变时重复调用结果完全一致。
func (e *Engine) SyncAll(ctx context.Context) ([]types.Intent, error) {
	count, err := e.ledger.IntentCount(ctx)
	if err != nil {
		return nil, types.NewTransportError(err)
	}

	intents := make([]types.Intent, 0, count)
	for id := uint64(1); id <= count; id++ {
		intent, err := e.ledger.FetchIntent(ctx, id)
		if err != nil {
			if types.IsNotFound(err) {
				continue
			}
			if e.logger != nil {
				e.logger.Warn("scan truncated by transport failure", "id", id, "error", err)
			}
			break
		}
		intents = append(intents, *intent)
	}

	// 最新（id 最大）的意图排最前
	for i, j := 0, len(intents)-1; i < j; i, j = i+1, j-1 {
		intents[i], intents[j] = intents[j], intents[i]
	}

	for i := range intents {
		intents[i].Validators = e.ledger.FetchValidators(ctx, intents[i].ID)
	}

	return intents, nil
}

// Run 运行调度循环直到 ctx 结束
//
// 启动时立即同步一次，此后按固定周期触发；Refresh/SetViewer 的
// 触发请求与定时触发合并到同一个工作循环里串行执行，
// 天然保证不会有两个扫描周期重叠。
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.runCycle(ctx)
		case <-e.refreshCh:
			e.runCycle(ctx)
		}
	}
}

// Refresh 请求一次立即同步（多次请求合并为一次）
func (e *Engine) Refresh() {
	select {
	case e.refreshCh <- struct{}{}:
	default:
	}
}

// RefreshAfter 延迟触发一次同步（变更提交后留出账本读写一致性时间）
func (e *Engine) RefreshAfter(d time.Duration) {
	time.AfterFunc(d, e.Refresh)
}

// SetViewer 设置查看者地址并立即触发一次同步
func (e *Engine) SetViewer(addr string) {
	e.mu.Lock()
	e.viewer = addr
	e.mu.Unlock()
	e.Refresh()
}

// Snapshot 返回当前本地集合的副本
func (e *Engine) Snapshot() []types.Intent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Intent, len(e.intents))
	copy(out, e.intents)
	return out
}

// Stats 返回最近一次同步推导出的查看者统计
func (e *Engine) Stats() types.DerivedStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// LastSync 返回最近一次成功同步的时间
func (e *Engine) LastSync() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSync
}

// LastError 返回最近一次同步失败的原因（成功后清空）
func (e *Engine) LastError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// runCycle 执行一个同步周期并整体换入结果
//
// 任何失败都只影响本周期，引擎继续运行等待下一次调度。
func (e *Engine) runCycle(ctx context.Context) {
	intents, err := e.SyncAll(ctx)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("sync cycle failed", "error", err)
		}
		e.mu.Lock()
		e.intents = nil
		e.lastErr = err
		e.mu.Unlock()
		return
	}

	e.mu.Lock()
	viewer := e.viewer
	e.intents = intents
	e.stats = stats.Compute(intents, viewer)
	e.lastSync = time.Now()
	e.lastErr = nil
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Debug("sync cycle completed", "intents", len(intents))
	}
}
