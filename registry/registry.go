package registry

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/pikkaio/client-sdk-go/client"
	"github.com/pikkaio/client-sdk-go/types"
	"github.com/pikkaio/client-sdk-go/utils"
)

// Registry IntentRegistry 合约的只读访问层
//
// 纯读取，不持有任何本地状态；每个方法都是对账本的一次独立查询。
type Registry struct {
	client   client.Client
	contract common.Address
}

// New 创建合约访问层
func New(c client.Client, contractAddr string) (*Registry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}
	if err := utils.ValidateAddress(contractAddr); err != nil {
		return nil, fmt.Errorf("invalid contract address: %w", err)
	}
	return &Registry{
		client:   c,
		contract: common.HexToAddress(contractAddr),
	}, nil
}

// Contract 返回合约地址
func (r *Registry) Contract() common.Address {
	return r.contract
}

// IntentCount 查询账本当前的意图总数
func (r *Registry) IntentCount(ctx context.Context) (uint64, error) {
	out, err := r.call(ctx, "intentCount")
	if err != nil {
		return 0, err
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, types.NewTransportError(fmt.Errorf("unexpected intentCount output"))
	}
	return count.Uint64(), nil
}

// FetchIntent 读取一条意图记录
//
// **语义区分**：
// - creator 为零地址 ⇒ 槽位不存在，返回 types.ErrIntentNotFound（哨兵，非故障）
// - RPC 传输或解码失败 ⇒ 返回 Transport 类错误
//
// 两者对同步引擎的含义完全不同：前者跳过继续扫描，后者截断本周期。
func (r *Registry) FetchIntent(ctx context.Context, id uint64) (*types.Intent, error) {
	out, err := r.call(ctx, "intents", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	if len(out) != 9 {
		return nil, types.NewTransportError(fmt.Errorf("intents(%d): expected 9 outputs, got %d", id, len(out)))
	}

	creator, ok := out[0].(common.Address)
	if !ok {
		return nil, types.NewTransportError(fmt.Errorf("intents(%d): bad creator field", id))
	}
	if creator == (common.Address{}) {
		return nil, types.ErrIntentNotFound
	}

	description, _ := out[1].(string)
	stake, _ := out[2].(*big.Int)
	reward, _ := out[3].(*big.Int)
	fulfilled, _ := out[4].(bool)
	deadline, _ := out[5].(*big.Int)
	proof, _ := out[6].(string)
	fulfiller, _ := out[7].(common.Address)
	score, _ := out[8].(*big.Int)
	if stake == nil || reward == nil || deadline == nil || score == nil {
		return nil, types.NewTransportError(fmt.Errorf("intents(%d): malformed tuple", id))
	}

	intent := &types.Intent{
		ID:              id,
		Creator:         creator.Hex(),
		Description:     description,
		StakeAmount:     stake,
		Reward:          reward,
		Fulfilled:       fulfilled,
		Deadline:        time.Unix(deadline.Int64(), 0).UTC(),
		Proof:           proof,
		ValidationScore: score.Int64(),
	}
	if fulfiller != (common.Address{}) {
		intent.Fulfiller = fulfiller.Hex()
	}
	return intent, nil
}

// FetchValidators 查询某条意图的验证者集合
//
// 任何失败都回落为空集合而不向上传播：缺了验证者信息的意图仍然要可见，
// "没有已知验证者"是安全默认值——查看者最多多投一次票，而投票唯一性由账本
// 保证，不靠客户端。
func (r *Registry) FetchValidators(ctx context.Context, id uint64) []string {
	out, err := r.call(ctx, "getValidators", new(big.Int).SetUint64(id))
	if err != nil {
		return nil
	}
	addrs, ok := out[0].([]common.Address)
	if !ok {
		return nil
	}
	validators := make([]string, 0, len(addrs))
	for _, a := range addrs {
		validators = append(validators, utils.NormalizeAddress(a.Hex()))
	}
	return validators
}

// PingResult 连通性探测结果
type PingResult struct {
	BlockNumber uint64
	IntentCount uint64
}

// Ping 探测节点连通性：最新区块高度 + 合约意图总数
func (r *Registry) Ping(ctx context.Context) (*PingResult, error) {
	blockNumber, err := client.BlockNumber(ctx, r.client)
	if err != nil {
		return nil, types.NewTransportError(err)
	}
	count, err := r.IntentCount(ctx)
	if err != nil {
		return nil, err
	}
	return &PingResult{BlockNumber: blockNumber, IntentCount: count}, nil
}

// ChainID 查询链 ID
func (r *Registry) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := client.ChainID(ctx, r.client)
	if err != nil {
		return nil, types.NewTransportError(err)
	}
	return id, nil
}

// call 打包、执行并解包一次只读合约调用
func (r *Registry) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := registryABI.Pack(method, args...)
	if err != nil {
		return nil, types.NewTransportError(fmt.Errorf("pack %s: %w", method, err))
	}

	ret, err := client.CallContract(ctx, r.client, client.CallMsg{
		To:   r.contract.Hex(),
		Data: hexutil.Encode(data),
	})
	if err != nil {
		return nil, types.NewTransportError(fmt.Errorf("call %s: %w", method, err))
	}

	out, err := registryABI.Unpack(method, ret)
	if err != nil {
		return nil, types.NewTransportError(fmt.Errorf("unpack %s: %w", method, err))
	}
	if len(out) == 0 {
		return nil, types.NewTransportError(fmt.Errorf("%s returned no outputs", method))
	}
	return out, nil
}
