package client

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// grpcClient gRPC 客户端实现
type grpcClient struct {
	conn     *grpc.ClientConn
	endpoint string
}

// NewGRPCClient 创建 gRPC 客户端
//
// 注意：Arc 测试网节点目前只暴露 JSON-RPC，gRPC 接入点预留给
// 自建节点网关场景；在节点侧服务定义落地之前 Call 返回不支持错误。
func NewGRPCClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	endpoint := config.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 当前使用 insecure 连接，生产环境应该使用 TLS
	conn, err := grpc.DialContext(ctx, endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, NewNetworkError(err)
	}

	return &grpcClient{
		conn:     conn,
		endpoint: endpoint,
	}, nil
}

// Call 调用 JSON-RPC 方法（通过 gRPC）
func (c *grpcClient) Call(ctx context.Context, method string, params interface{}) (interface{}, error) {
	// TODO: 节点网关的 gRPC 服务定义确定后接入
	return nil, NewNotSupportedError("gRPC call: use HTTP or WebSocket client")
}

// Close 关闭连接
func (c *grpcClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
