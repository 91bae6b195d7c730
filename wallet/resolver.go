package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/pikkaio/client-sdk-go/client"
	"github.com/pikkaio/client-sdk-go/types"
	"github.com/pikkaio/client-sdk-go/utils"
)

// State 解析器状态
//
// **状态机**：
// - Unresolved → Disconnected：未检测到任何钱包注入（没有新的宿主环境无法恢复）
// - Unresolved/Disconnected → Connecting：用户发起连接或被动探测已有授权
// - Connecting → Connected：请求成功且账户列表非空（首个账户为当前账户）
// - Connecting → Error → Disconnected：请求失败（区分用户拒绝与其他失败）
// - Connected → Disconnected：本地断开，或观察到账户列表被清空
// - Connected → Connected：账户切换，原地更新当前地址
// - 任意状态 → Unresolved：观察到链切换，整体重建会话（不做增量修补）
type State string

const (
	StateUnresolved   State = "unresolved"
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// Session 钱包会话（由 Resolver 独占持有）
type Session struct {
	// ActiveAddress 当前账户地址（保留钱包返回的原始大小写，用于展示）
	ActiveAddress string

	// Provider 签名能力句柄
	Provider Provider

	// AvailableProviderLabels 检测到的钱包标签（按枚举顺序）
	AvailableProviderLabels []string
}

// NormalizedAddress 返回归一化（小写）地址，用于比较
func (s *Session) NormalizedAddress() string {
	if s == nil {
		return ""
	}
	return utils.NormalizeAddress(s.ActiveAddress)
}

// Update 会话状态变更通知
type Update struct {
	// State 变更后的状态
	State State

	// ActiveAddress 变更后的当前地址（未连接时为空）
	ActiveAddress string

	// ChainReset true 表示本次变更由链切换触发，调用方应整体重新初始化
	ChainReset bool
}

// Resolver 钱包 Provider 解析器
//
// 负责候选钱包的优先级选择、连接生命周期和事件订阅，
// 是 WalletSession 的唯一属主。
type Resolver struct {
	mu          sync.Mutex
	logger      client.Logger
	candidates  []Candidate
	selected    Candidate
	hasProvider bool

	state   State
	session *Session
	lastErr error

	providerSub Subscription
	listeners   map[uint64]chan Update
	nextID      uint64
	closed      bool
}

// NewResolver 创建解析器并完成候选钱包选择
//
// 候选集合为空时直接落入 Disconnected（"没有钱包"），
// 否则按固定优先级选择 Provider 并立即开始监听其事件。
func NewResolver(candidates []Candidate, logger client.Logger) *Resolver {
	r := &Resolver{
		logger:     logger,
		candidates: candidates,
		state:      StateUnresolved,
		listeners:  make(map[uint64]chan Update),
	}

	selected, ok := SelectProvider(candidates)
	if !ok {
		r.state = StateDisconnected
		return r
	}
	r.selected = selected
	r.hasProvider = true

	if sub, err := selected.Provider.Subscribe(); err == nil {
		r.providerSub = sub
		go r.eventLoop(sub)
	} else if logger != nil {
		logger.Warn("wallet event subscription failed", "provider", selected.Label, "error", err)
	}

	return r
}

// State 返回当前状态
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Session 返回当前会话的副本（未连接时为 nil）
func (r *Resolver) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil
	}
	copied := *r.session
	return &copied
}

// Selected 返回被选中的候选钱包
func (r *Resolver) Selected() (Candidate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected, r.hasProvider
}

// Connect 用户发起的连接请求（eth_requestAccounts）
func (r *Resolver) Connect(ctx context.Context) (*Session, error) {
	return r.connect(ctx, "eth_requestAccounts", false)
}

// Probe 被动探测已有授权（eth_accounts）
//
// 没有已授权账户不是错误：保持 Disconnected 并返回 (nil, nil)。
func (r *Resolver) Probe(ctx context.Context) (*Session, error) {
	return r.connect(ctx, "eth_accounts", true)
}

func (r *Resolver) connect(ctx context.Context, method string, passive bool) (*Session, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, fmt.Errorf("resolver is closed")
	}
	if !r.hasProvider {
		r.mu.Unlock()
		return nil, types.NewPreconditionError("no wallet provider detected")
	}
	if r.state == StateConnecting {
		r.mu.Unlock()
		return nil, types.NewPreconditionError("connection already in progress")
	}
	provider := r.selected.Provider
	r.state = StateConnecting
	r.notifyLocked(Update{State: StateConnecting})
	r.mu.Unlock()

	result, err := provider.Request(ctx, method, nil)
	if err != nil {
		return nil, r.failConnect(err)
	}

	accounts := toAccounts(result)
	if len(accounts) == 0 {
		if passive {
			// 无已有授权：回到 Disconnected，不算失败
			r.mu.Lock()
			r.state = StateDisconnected
			r.notifyLocked(Update{State: StateDisconnected})
			r.mu.Unlock()
			return nil, nil
		}
		return nil, r.failConnect(fmt.Errorf("wallet returned no accounts"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// 钱包约定：首个账户为当前账户
	r.session = &Session{
		ActiveAddress:           accounts[0],
		Provider:                provider,
		AvailableProviderLabels: labels(r.candidates),
	}
	r.state = StateConnected
	r.lastErr = nil
	r.notifyLocked(Update{State: StateConnected, ActiveAddress: accounts[0]})
	copied := *r.session
	return &copied, nil
}

// failConnect 记录失败并落回 Disconnected；用户拒绝与其他失败区分包装
func (r *Resolver) failConnect(cause error) error {
	var err error
	if IsUserRejected(cause) {
		err = types.NewUserDeclinedError(cause)
	} else {
		err = types.NewTransportError(cause)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateError
	r.lastErr = err
	r.notifyLocked(Update{State: StateError})
	// Error 是瞬态：立即沉降到 Disconnected
	r.state = StateDisconnected
	r.notifyLocked(Update{State: StateDisconnected})
	return err
}

// Disconnect 本地断开（不撤销钱包侧的授权）
func (r *Resolver) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = nil
	r.state = StateDisconnected
	r.notifyLocked(Update{State: StateDisconnected})
}

// LastError 返回最近一次连接失败的原因
func (r *Resolver) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Subscribe 订阅会话状态变更，返回事件通道和取消函数
func (r *Resolver) Subscribe() (<-chan Update, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	ch := make(chan Update, 16)
	r.listeners[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if existing, ok := r.listeners[id]; ok {
			delete(r.listeners, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Close 关闭解析器：取消 Provider 事件订阅并释放所有监听者
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	sub := r.providerSub
	r.providerSub = nil
	r.session = nil
	for id, ch := range r.listeners {
		delete(r.listeners, id)
		close(ch)
	}
	r.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// eventLoop 消费钱包事件直到订阅关闭
func (r *Resolver) eventLoop(sub Subscription) {
	for ev := range sub.Events() {
		switch ev.Type {
		case EventAccountsChanged:
			r.onAccountsChanged(ev.Accounts)
		case EventChainChanged:
			r.onChainChanged(ev.ChainID)
		}
	}
}

// onAccountsChanged 处理外部观察到的账户变化
func (r *Resolver) onAccountsChanged(accounts []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state != StateConnected {
		return
	}

	if len(accounts) == 0 {
		// 授权被移除：会话销毁
		r.session = nil
		r.state = StateDisconnected
		r.notifyLocked(Update{State: StateDisconnected})
		return
	}

	// 账户切换：原地更新，不走完整握手
	r.session.ActiveAddress = accounts[0]
	r.notifyLocked(Update{State: StateConnected, ActiveAddress: accounts[0]})
}

// onChainChanged 处理链切换：整体重建，不做增量修补
func (r *Resolver) onChainChanged(chainID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.logger != nil {
		r.logger.Info("chain changed, resetting wallet session", "chain_id", chainID)
	}
	r.session = nil
	r.lastErr = nil
	r.state = StateUnresolved
	r.notifyLocked(Update{State: StateUnresolved, ChainReset: true})
}

// notifyLocked 向所有监听者广播（调用方必须持有 r.mu；不阻塞慢消费者）
func (r *Resolver) notifyLocked(update Update) {
	for _, ch := range r.listeners {
		select {
		case ch <- update:
		default:
		}
	}
}

// toAccounts 把 Provider 返回的账户列表归一为字符串切片
func toAccounts(result interface{}) []string {
	switch v := result.(type) {
	case []string:
		return v
	case []interface{}:
		accounts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				accounts = append(accounts, s)
			}
		}
		return accounts
	default:
		return nil
	}
}

// labels 提取候选钱包的展示标签（保持枚举顺序）
func labels(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Label)
	}
	return out
}
