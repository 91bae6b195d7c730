package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// 本文件提供常用 Ethereum JSON-RPC 方法的类型化封装。
// 所有封装只做参数组装和结果解码，不引入额外语义。

// CallMsg eth_call / eth_estimateGas 的调用参数
type CallMsg struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Value string `json:"value,omitempty"`
	Data  string `json:"data,omitempty"`
}

// CallContract 执行一次只读合约调用（eth_call，latest 区块）
func CallContract(ctx context.Context, c Client, msg CallMsg) ([]byte, error) {
	result, err := c.Call(ctx, "eth_call", []interface{}{msg, "latest"})
	if err != nil {
		return nil, err
	}
	return decodeHexBytes(result)
}

// BlockNumber 查询最新区块高度
func BlockNumber(ctx context.Context, c Client) (uint64, error) {
	result, err := c.Call(ctx, "eth_blockNumber", []interface{}{})
	if err != nil {
		return 0, err
	}
	return decodeHexUint64(result)
}

// ChainID 查询链 ID
func ChainID(ctx context.Context, c Client) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_chainId", []interface{}{})
	if err != nil {
		return nil, err
	}
	return decodeHexBig(result)
}

// PendingNonce 查询地址的待定交易计数
func PendingNonce(ctx context.Context, c Client, addr string) (uint64, error) {
	result, err := c.Call(ctx, "eth_getTransactionCount", []interface{}{addr, "pending"})
	if err != nil {
		return 0, err
	}
	return decodeHexUint64(result)
}

// GasPrice 查询建议 gas 价格
func GasPrice(ctx context.Context, c Client) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_gasPrice", []interface{}{})
	if err != nil {
		return nil, err
	}
	return decodeHexBig(result)
}

// EstimateGas 估算调用的 gas 用量
func EstimateGas(ctx context.Context, c Client, msg CallMsg) (uint64, error) {
	result, err := c.Call(ctx, "eth_estimateGas", []interface{}{msg})
	if err != nil {
		return 0, err
	}
	return decodeHexUint64(result)
}

// SendRawTransaction 广播已签名的原始交易，返回交易哈希
func SendRawTransaction(ctx context.Context, c Client, rawTxHex string) (string, error) {
	result, err := c.Call(ctx, "eth_sendRawTransaction", []interface{}{rawTxHex})
	if err != nil {
		return "", err
	}
	hash, ok := result.(string)
	if !ok || hash == "" {
		return "", NewInvalidResponseError("eth_sendRawTransaction returned no hash")
	}
	return hash, nil
}

// Receipt 交易回执中 SDK 关心的字段
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	// Status true 表示执行成功（status == 0x1）
	Status bool
}

// TransactionReceipt 查询交易回执；交易尚未上链时返回 (nil, nil)
func TransactionReceipt(ctx context.Context, c Client, txHash string) (*Receipt, error) {
	result, err := c.Call(ctx, "eth_getTransactionReceipt", []interface{}{txHash})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, NewInvalidResponseError("unexpected receipt format")
	}

	receipt := &Receipt{TxHash: txHash}
	if status, ok := m["status"].(string); ok {
		n, err := hexutil.DecodeUint64(status)
		if err != nil {
			return nil, fmt.Errorf("decode receipt status: %w", err)
		}
		receipt.Status = n == 1
	}
	if bn, ok := m["blockNumber"].(string); ok {
		n, err := hexutil.DecodeUint64(bn)
		if err != nil {
			return nil, fmt.Errorf("decode receipt block number: %w", err)
		}
		receipt.BlockNumber = n
	}
	return receipt, nil
}

func decodeHexBytes(result interface{}) ([]byte, error) {
	s, ok := result.(string)
	if !ok {
		return nil, NewInvalidResponseError("expected hex string result")
	}
	if s == "" || s == "0x" {
		return nil, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex result: %w", err)
	}
	return b, nil
}

func decodeHexUint64(result interface{}) (uint64, error) {
	s, ok := result.(string)
	if !ok {
		return 0, NewInvalidResponseError("expected hex string result")
	}
	n, err := hexutil.DecodeUint64(s)
	if err != nil {
		return 0, fmt.Errorf("decode hex result: %w", err)
	}
	return n, nil
}

func decodeHexBig(result interface{}) (*big.Int, error) {
	s, ok := result.(string)
	if !ok {
		return nil, NewInvalidResponseError("expected hex string result")
	}
	n, err := hexutil.DecodeBig(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex result: %w", err)
	}
	return n, nil
}
