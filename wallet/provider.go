package wallet

import (
	"context"
	"errors"
)

// Provider 钱包注入能力的抽象（对齐 EIP-1193 的 request/event 形态）
//
// 宿主环境把检测到的每个钱包注入包装成一个 Provider；
// SDK 不做运行时形状嗅探，能力差异全部通过 Candidate 的 Kind 标签表达。
type Provider interface {
	// Request 执行一次钱包请求（eth_requestAccounts / eth_accounts /
	// eth_sendTransaction 等）
	Request(ctx context.Context, method string, params interface{}) (interface{}, error)

	// Subscribe 订阅钱包事件（accountsChanged / chainChanged）
	Subscribe() (Subscription, error)
}

// Subscription 可取消的事件订阅句柄
type Subscription interface {
	// Events 事件通道（订阅取消或 Provider 关闭后关闭）
	Events() <-chan Event

	// Unsubscribe 取消订阅（幂等）
	Unsubscribe()
}

// EventType 钱包事件类型
type EventType string

const (
	// EventAccountsChanged 账户列表变化（空列表表示授权被移除）
	EventAccountsChanged EventType = "accountsChanged"

	// EventChainChanged 链/网络切换
	EventChainChanged EventType = "chainChanged"
)

// Event 钱包事件
type Event struct {
	Type EventType

	// Accounts accountsChanged 事件携带的账户列表
	Accounts []string

	// ChainID chainChanged 事件携带的新链 ID（十六进制文本）
	ChainID string
}

// Kind 钱包能力标签
type Kind string

const (
	KindRabby    Kind = "rabby"
	KindMetaMask Kind = "metamask"
	KindCoinbase Kind = "coinbase"
	KindGeneric  Kind = "generic"
)

// Candidate 一个被检测到的候选钱包注入
type Candidate struct {
	// Label 展示名（检测顺序决定枚举顺序）
	Label string

	// Kind 能力标签
	Kind Kind

	// Provider 对应的钱包能力句柄
	Provider Provider
}

// priorityOrder 多 Provider 并存时的固定优先级
//
// 依次按能力谓词匹配，全部不匹配时回落到首个枚举到的候选。
// 给定相同候选集合，选择结果是确定的，除兜底外不依赖枚举顺序。
var priorityOrder = []Kind{KindRabby, KindMetaMask, KindCoinbase}

// SelectProvider 从候选集合中选出要使用的钱包
//
// 返回 false 表示候选集合为空。
func SelectProvider(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	for _, kind := range priorityOrder {
		for _, c := range candidates {
			if c.Kind == kind {
				return c, true
			}
		}
	}
	// 无任何优先级命中：取首个枚举到的候选
	return candidates[0], true
}

// CodeUserRejected EIP-1193 约定的用户拒绝错误码
const CodeUserRejected = 4001

// coder 携带数字错误码的错误（client.RPCError 等实现该接口）
type coder interface {
	ErrorCode() int
}

// IsUserRejected 检查 Provider 返回的错误是否为用户主动拒绝
func IsUserRejected(err error) bool {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode() == CodeUserRejected
	}
	return false
}
