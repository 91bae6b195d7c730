package intent

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/pikkaio/client-sdk-go/client"
	"github.com/pikkaio/client-sdk-go/services"
	"github.com/pikkaio/client-sdk-go/types"
	"github.com/pikkaio/client-sdk-go/utils"
	"github.com/pikkaio/client-sdk-go/wallet"
)

// Service 意图交易协调器接口
//
// 三个变更操作共用同一套模板：本地前置校验 → 通过已解析的钱包
// Provider 提交 → 等待账本确认 → 短延迟后触发一次同步刷新。
type Service interface {
	// Create 创建意图并质押（stakeAmount 为十进制金额文本）
	Create(ctx context.Context, description, stakeAmount string) (*Result, error)

	// Fulfill 对自己创建的意图提交履约证明
	Fulfill(ctx context.Context, id uint64, proof string) (*Result, error)

	// Validate 对已履约意图的证明投票（approve=true 赞成）
	Validate(ctx context.Context, id uint64, approve bool) (*Result, error)
}

// Result 变更操作结果
type Result struct {
	// TxHash 交易哈希
	TxHash string

	// BlockNumber 交易落块高度
	BlockNumber uint64
}

// Refresher 变更成功后触发同步刷新的回调（sync.Engine 满足该接口）
type Refresher interface {
	RefreshAfter(d time.Duration)
}

// MetadataRecorder 链下元数据记录器（profile.Service 满足该接口）
//
// 所有记录都是尽力而为：失败不影响交易结果。
type MetadataRecorder interface {
	RecordProof(intentID uint64, proof string)
	RecordValidation(intentID uint64, validator string, approve bool)
}

// intentService 协调器实现
type intentService struct {
	rpc      client.Client
	resolver *wallet.Resolver
	contract common.Address
	logger   client.Logger

	refreshDelay time.Duration
	pollInterval time.Duration

	refresher Refresher
	recorder  MetadataRecorder

	// inFlight 全局单飞标志：同一客户端实例同时只允许一笔变更在途
	inFlight atomic.Bool
}

// NewService 创建协调器
func NewService(rpc client.Client, resolver *wallet.Resolver, cfg services.Config) (Service, error) {
	return NewServiceWithHooks(rpc, resolver, cfg, nil, nil)
}

// NewServiceWithHooks 创建协调器并挂接刷新/元数据钩子
func NewServiceWithHooks(rpc client.Client, resolver *wallet.Resolver, cfg services.Config, refresher Refresher, recorder MetadataRecorder) (Service, error) {
	if rpc == nil {
		return nil, fmt.Errorf("rpc client is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("wallet resolver is required")
	}
	cfg = cfg.Normalize()
	if err := utils.ValidateAddress(cfg.ContractAddress); err != nil {
		return nil, fmt.Errorf("invalid contract address: %w", err)
	}

	return &intentService{
		rpc:          rpc,
		resolver:     resolver,
		contract:     common.HexToAddress(cfg.ContractAddress),
		refreshDelay: cfg.RefreshDelay,
		pollInterval: 2 * time.Second,
		refresher:    refresher,
		recorder:     recorder,
	}, nil
}

// WithLogger 设置日志器
func (s *intentService) WithLogger(logger client.Logger) *intentService {
	s.logger = logger
	return s
}

// submit 变更操作的公共模板
//
// **顺序**：
// 1. 会话检查（未连接 ⇒ 前置校验失败，不触网）
// 2. 抢占单飞标志；已有变更在途 ⇒ 本地拒绝，绝不触碰 Provider
// 3. eth_sendTransaction 经 Provider 提交
// 4. 轮询回执直到账本确认（不设本地超时，由 ctx 控制生命周期）
// 5. 短延迟后调度同步刷新
//
// 单飞标志在所有退出路径（成功、拒绝、异常）上都通过 defer 释放。
func (s *intentService) submit(ctx context.Context, calldata []byte, value *big.Int) (*Result, error) {
	session := s.resolver.Session()
	if session == nil {
		return nil, types.NewPreconditionError("wallet is not connected")
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, types.NewPreconditionError("another operation is already in flight")
	}
	defer s.inFlight.Store(false)

	msg := client.CallMsg{
		From: session.ActiveAddress,
		To:   s.contract.Hex(),
		Data: hexutil.Encode(calldata),
	}
	if value != nil && value.Sign() > 0 {
		msg.Value = hexutil.EncodeBig(value)
	}

	result, err := session.Provider.Request(ctx, "eth_sendTransaction", []interface{}{msg})
	if err != nil {
		return nil, classifySubmitError(err)
	}
	txHash, ok := result.(string)
	if !ok || txHash == "" {
		return nil, types.NewTransportError(fmt.Errorf("provider returned no transaction hash"))
	}

	receipt, err := s.waitReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if !receipt.Status {
		// 账本回滚：SDK 不解码具体拒绝原因
		return nil, types.NewLedgerRejectedError(fmt.Errorf("transaction %s reverted", txHash))
	}

	if s.refresher != nil {
		s.refresher.RefreshAfter(s.refreshDelay)
	}

	return &Result{TxHash: txHash, BlockNumber: receipt.BlockNumber}, nil
}

// waitReceipt 轮询交易回执直到账本确认
//
// 提交后的交易不支持取消；调用方中途放弃只是不再等待结果，
// 交易最终结局由账本决定。
func (s *intentService) waitReceipt(ctx context.Context, txHash string) (*client.Receipt, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, types.NewTransportError(ctx.Err())
		case <-ticker.C:
			receipt, err := client.TransactionReceipt(ctx, s.rpc, txHash)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("receipt poll failed", "tx", txHash, "error", err)
				}
				continue
			}
			if receipt != nil {
				return receipt, nil
			}
		}
	}
}

// classifySubmitError 区分提交失败的类别
//
// 用户拒绝（4001）单独分类用于非告警提示；节点明确返回的 RPC 错误按
// 账本拒绝处理；其余（网络层）按传输失败处理。
func classifySubmitError(err error) error {
	if wallet.IsUserRejected(err) {
		return types.NewUserDeclinedError(err)
	}
	var rpcErr *client.RPCError
	if errors.As(err, &rpcErr) {
		return types.NewLedgerRejectedError(err)
	}
	return types.NewTransportError(err)
}
