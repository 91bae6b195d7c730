package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	coretypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/pikkaio/client-sdk-go/client"
)

// LocalProvider 进程内的无头钱包 Provider
//
// **用途**：
// - 无浏览器环境（服务端、CI、集成测试）下复用同一套 Provider 契约
// - 持有 secp256k1 私钥，自行完成 nonce/gas 组装、签名和广播
//
// **注意**：
// - 交易通过账本 RPC 客户端提交（eth_sendRawTransaction）
// - 不产生 accountsChanged / chainChanged 事件（本地密钥不会被外部改变）
type LocalProvider struct {
	key     *ecdsa.PrivateKey
	address common.Address
	rpc     client.Client

	mu      sync.Mutex
	chainID *big.Int
}

// NewLocalProvider 从十六进制私钥创建无头 Provider
func NewLocalProvider(rpc client.Client, privateKeyHex string) (*LocalProvider, error) {
	if rpc == nil {
		return nil, fmt.Errorf("rpc client is required")
	}

	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	keyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("invalid private key length: expected 32 bytes, got %d", len(keyBytes))
	}

	key, err := ethcrypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse secp256k1 private key: %w", err)
	}

	return NewLocalProviderFromKey(rpc, key), nil
}

// NewLocalProviderFromKey 从已解析的私钥创建无头 Provider
func NewLocalProviderFromKey(rpc client.Client, key *ecdsa.PrivateKey) *LocalProvider {
	return &LocalProvider{
		key:     key,
		address: ethcrypto.PubkeyToAddress(key.PublicKey),
		rpc:     rpc,
	}
}

// Address 返回钱包地址
func (p *LocalProvider) Address() common.Address {
	return p.address
}

// Candidate 把该 Provider 包装为候选项（Generic 标签）
func (p *LocalProvider) Candidate() Candidate {
	return Candidate{
		Label:    "local",
		Kind:     KindGeneric,
		Provider: p,
	}
}

// Request 执行钱包请求
func (p *LocalProvider) Request(ctx context.Context, method string, params interface{}) (interface{}, error) {
	switch method {
	case "eth_accounts", "eth_requestAccounts":
		return []string{p.address.Hex()}, nil

	case "eth_chainId":
		chainID, err := p.ensureChainID(ctx)
		if err != nil {
			return nil, err
		}
		return hexutil.EncodeBig(chainID), nil

	case "eth_sendTransaction":
		msg, err := extractCallMsg(params)
		if err != nil {
			return nil, err
		}
		return p.sendTransaction(ctx, msg)

	default:
		return nil, client.NewNotSupportedError(method)
	}
}

// Subscribe 订阅事件；本地 Provider 从不产生事件，但句柄仍然可取消
func (p *LocalProvider) Subscribe() (Subscription, error) {
	return newLocalSubscription(), nil
}

// sendTransaction 组装、签名并广播一笔交易
func (p *LocalProvider) sendTransaction(ctx context.Context, msg client.CallMsg) (interface{}, error) {
	chainID, err := p.ensureChainID(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := client.PendingNonce(ctx, p.rpc, p.address.Hex())
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := client.GasPrice(ctx, p.rpc)
	if err != nil {
		return nil, fmt.Errorf("fetch gas price: %w", err)
	}

	msg.From = p.address.Hex()
	gas, err := client.EstimateGas(ctx, p.rpc, msg)
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	var to *common.Address
	if msg.To != "" {
		addr := common.HexToAddress(msg.To)
		to = &addr
	}
	value := new(big.Int)
	if msg.Value != "" {
		value, err = hexutil.DecodeBig(msg.Value)
		if err != nil {
			return nil, fmt.Errorf("decode value: %w", err)
		}
	}
	var data []byte
	if msg.Data != "" {
		data, err = hexutil.Decode(msg.Data)
		if err != nil {
			return nil, fmt.Errorf("decode calldata: %w", err)
		}
	}

	tx := coretypes.NewTx(&coretypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Value:    value,
		Data:     data,
	})

	signed, err := coretypes.SignTx(tx, coretypes.NewEIP155Signer(chainID), p.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}

	return client.SendRawTransaction(ctx, p.rpc, hexutil.Encode(raw))
}

// ensureChainID 懒加载并缓存链 ID
func (p *LocalProvider) ensureChainID(ctx context.Context) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chainID != nil {
		return p.chainID, nil
	}
	chainID, err := client.ChainID(ctx, p.rpc)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	p.chainID = chainID
	return chainID, nil
}

// extractCallMsg 解析 eth_sendTransaction 的参数（位置数组的首个交易对象）
func extractCallMsg(params interface{}) (client.CallMsg, error) {
	list, ok := params.([]interface{})
	if !ok || len(list) == 0 {
		return client.CallMsg{}, fmt.Errorf("eth_sendTransaction expects a transaction object")
	}

	switch v := list[0].(type) {
	case client.CallMsg:
		return v, nil
	case map[string]interface{}:
		msg := client.CallMsg{}
		if s, ok := v["from"].(string); ok {
			msg.From = s
		}
		if s, ok := v["to"].(string); ok {
			msg.To = s
		}
		if s, ok := v["value"].(string); ok {
			msg.Value = s
		}
		if s, ok := v["data"].(string); ok {
			msg.Data = s
		}
		return msg, nil
	default:
		return client.CallMsg{}, fmt.Errorf("unsupported transaction object type %T", list[0])
	}
}

// localSubscription 永不触发的可取消订阅
type localSubscription struct {
	ch   chan Event
	once sync.Once
}

func newLocalSubscription() *localSubscription {
	return &localSubscription{ch: make(chan Event)}
}

func (s *localSubscription) Events() <-chan Event {
	return s.ch
}

func (s *localSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.ch) })
}
