package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// websocketClient WebSocket 客户端实现
//
// 通过请求 ID 关联响应：一个读循环分发所有响应到等待中的调用方。
type websocketClient struct {
	endpoint string
	conn     *websocket.Conn
	mu       sync.Mutex // 串行化写操作
	closed   atomic.Bool
	nextID   atomic.Uint64
	requests map[uint64]chan *wsResponse
	muReq    sync.Mutex
	timeout  time.Duration
}

// wsResponse WebSocket 侧的 JSON-RPC 响应
type wsResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// NewWebSocketClient 创建 WebSocket 客户端
func NewWebSocketClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	endpoint := config.Endpoint
	// 将 http:// 或 https:// 转换为 ws:// 或 wss://
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = "ws://" + strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = "wss://" + strings.TrimPrefix(endpoint, "https://")
	case !strings.HasPrefix(endpoint, "ws://") && !strings.HasPrefix(endpoint, "wss://"):
		endpoint = "ws://" + endpoint
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &websocketClient{
		endpoint: endpoint,
		conn:     conn,
		requests: make(map[uint64]chan *wsResponse),
		timeout:  timeout,
	}

	go c.readLoop()

	return c, nil
}

// readLoop 消息读取循环
func (c *websocketClient) readLoop() {
	defer func() {
		c.closed.Store(true)
		c.muReq.Lock()
		for _, ch := range c.requests {
			close(ch)
		}
		c.requests = make(map[uint64]chan *wsResponse)
		c.muReq.Unlock()
	}()

	for {
		if c.closed.Load() {
			return
		}

		var resp wsResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			return
		}

		c.muReq.Lock()
		ch, exists := c.requests[resp.ID]
		if exists {
			delete(c.requests, resp.ID)
		}
		c.muReq.Unlock()

		if exists && ch != nil {
			select {
			case ch <- &resp:
			default:
			}
		}
	}
}

// Call 调用 JSON-RPC 方法
func (c *websocketClient) Call(ctx context.Context, method string, params interface{}) (interface{}, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("websocket client is closed")
	}

	reqID := c.nextID.Add(1)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      reqID,
	}

	respCh := make(chan *wsResponse, 1)
	c.muReq.Lock()
	c.requests[reqID] = respCh
	c.muReq.Unlock()

	c.mu.Lock()
	err := c.conn.WriteJSON(req)
	c.mu.Unlock()
	if err != nil {
		c.dropRequest(reqID)
		return nil, fmt.Errorf("write request: %w", err)
	}

	select {
	case resp, ok := <-respCh:
		if !ok || resp == nil {
			return nil, NewNetworkError(fmt.Errorf("websocket connection lost"))
		}
		if resp.Error != nil {
			return nil, &RPCError{
				Code:    resp.Error.Code,
				Message: resp.Error.Message,
				Data:    resp.Error.Data,
			}
		}
		var result interface{}
		if len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return nil, fmt.Errorf("unmarshal result: %w", err)
			}
		}
		return result, nil

	case <-ctx.Done():
		c.dropRequest(reqID)
		return nil, ctx.Err()

	case <-time.After(c.timeout):
		c.dropRequest(reqID)
		return nil, NewTimeoutError()
	}
}

func (c *websocketClient) dropRequest(reqID uint64) {
	c.muReq.Lock()
	delete(c.requests, reqID)
	c.muReq.Unlock()
}

// Close 关闭连接
func (c *websocketClient) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			return c.conn.Close()
		}
	}
	return nil
}
