package types

import (
	"errors"
	"fmt"
)

// Kind SDK 统一的错误分类
//
// **分类语义**：
// - KindAbsence：账本槽位不存在（预期情况，调用方静默跳过）
// - KindTransport：RPC 传输/解码失败（当前同步周期被截断，下个周期自然恢复）
// - KindUserDeclined：用户在钱包中拒绝了请求（非告警性质的提示）
// - KindPrecondition：本地前置校验失败（未发起任何网络调用）
// - KindLedgerRejected：账本拒绝了交易（SDK 不解码具体拒绝原因）
type Kind string

const (
	KindAbsence        Kind = "absence"
	KindTransport      Kind = "transport"
	KindUserDeclined   Kind = "user_declined"
	KindPrecondition   Kind = "precondition"
	KindLedgerRejected Kind = "ledger_rejected"
)

// SDKError SDK 对外暴露的错误类型
//
// 同时携带分类、给用户看的提示语和底层原因，
// 调用方既能做程序化分支（errors.As + Kind），也能直接展示 UserMessage。
type SDKError struct {
	// Kind 错误分类
	Kind Kind

	// UserMessage 适合直接展示给用户的提示语
	UserMessage string

	// Err 底层原因（可为 nil）
	Err error
}

func (e *SDKError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.UserMessage, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.UserMessage)
}

func (e *SDKError) Unwrap() error {
	return e.Err
}

// ErrIntentNotFound 账本槽位不存在的哨兵错误（语义缺失，不是故障）
var ErrIntentNotFound = &SDKError{
	Kind:        KindAbsence,
	UserMessage: "intent does not exist",
}

// NewTransportError 包装一次 RPC 传输/解码失败
func NewTransportError(err error) *SDKError {
	return &SDKError{
		Kind:        KindTransport,
		UserMessage: "ledger request failed",
		Err:         err,
	}
}

// NewUserDeclinedError 包装一次用户拒绝
func NewUserDeclinedError(err error) *SDKError {
	return &SDKError{
		Kind:        KindUserDeclined,
		UserMessage: "request rejected in wallet",
		Err:         err,
	}
}

// NewPreconditionError 创建一个本地前置校验错误
func NewPreconditionError(message string) *SDKError {
	return &SDKError{
		Kind:        KindPrecondition,
		UserMessage: message,
	}
}

// NewLedgerRejectedError 包装一次账本侧拒绝
func NewLedgerRejectedError(err error) *SDKError {
	return &SDKError{
		Kind:        KindLedgerRejected,
		UserMessage: "transaction rejected by ledger",
		Err:         err,
	}
}

// KindOf 提取错误的分类；非 SDKError 一律按传输错误处理
func KindOf(err error) Kind {
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr.Kind
	}
	return KindTransport
}

// IsNotFound 检查错误是否为槽位不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIntentNotFound) || KindOf(err) == KindAbsence
}

// IsUserDeclined 检查错误是否为用户拒绝
func IsUserDeclined(err error) bool {
	var sdkErr *SDKError
	return errors.As(err, &sdkErr) && sdkErr.Kind == KindUserDeclined
}

// IsPrecondition 检查错误是否为本地前置校验失败
func IsPrecondition(err error) bool {
	var sdkErr *SDKError
	return errors.As(err, &sdkErr) && sdkErr.Kind == KindPrecondition
}
