package client

import (
	"context"
	"fmt"
)

// Client Arc 账本节点客户端接口
//
// SDK 把账本当作不透明的读写 RPC 源：所有合约读写都走标准的
// Ethereum JSON-RPC 方法（eth_call / eth_sendRawTransaction 等），
// 不解析任何节点内部结构。
type Client interface {
	// Call 调用 JSON-RPC 方法
	Call(ctx context.Context, method string, params interface{}) (interface{}, error)

	// Close 关闭连接
	Close() error
}

// NewClient 按配置的协议创建客户端
func NewClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Protocol {
	case ProtocolHTTP:
		return NewHTTPClient(config)
	case ProtocolWebSocket:
		return NewWebSocketClient(config)
	case ProtocolGRPC:
		return NewGRPCClient(config)
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", config.Protocol)
	}
}
