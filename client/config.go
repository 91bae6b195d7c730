package client

import (
	"context"
	"log/slog"
)

// Config 客户端配置
type Config struct {
	// Endpoint 节点端点地址
	Endpoint string

	// Protocol 协议类型
	Protocol Protocol

	// Timeout 超时时间（秒）
	Timeout int

	// Retry 重试配置（nil 表示使用默认配置）
	Retry *RetryConfig

	// 调试模式
	Debug bool

	// 日志器（可选，默认输出到 slog）
	Logger Logger
}

// Protocol 协议类型
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
	ProtocolGRPC      Protocol = "grpc"
)

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "https://rpc.testnet.arc.network",
		Protocol: ProtocolHTTP,
		Timeout:  30,
		Debug:    false,
		Logger:   NewSlogLogger(slog.Default()),
	}
}

// slogLogger 基于标准库 slog 的默认日志实现
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger 把 *slog.Logger 适配为客户端 Logger 接口
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, args ...interface{}) { s.log(slog.LevelDebug, msg, args...) }
func (s *slogLogger) Info(msg string, args ...interface{})  { s.log(slog.LevelInfo, msg, args...) }
func (s *slogLogger) Warn(msg string, args ...interface{})  { s.log(slog.LevelWarn, msg, args...) }
func (s *slogLogger) Error(msg string, args ...interface{}) { s.log(slog.LevelError, msg, args...) }

func (s *slogLogger) log(level slog.Level, msg string, args ...interface{}) {
	s.l.Log(context.Background(), level, msg, args...)
}
