package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pikkaio/client-sdk-go/client"
)

// SessionData 查看者的界面会话草稿
//
// 这些字段不是账本状态，只是跨设备恢复输入现场用的辅助数据。
type SessionData struct {
	ActiveTab         string `json:"activeTab,omitempty"`
	IntentDescription string `json:"intentDescription,omitempty"`
	StakeAmount       string `json:"stakeAmount,omitempty"`
	LastIntentID      uint64 `json:"lastIntentId,omitempty"`
}

// Preferences 查看者偏好设置
type Preferences struct {
	Theme         string `json:"theme,omitempty"`
	Notifications bool   `json:"notifications"`
	AutoConnect   bool   `json:"autoConnect"`
}

// Service 链下会话/偏好持久化服务
//
// 对接后端 REST 接口（/api/session、/api/preferences、/api/proofs、
// /api/validations），统一 {success, data} 响应包络。所有写操作都是
// 尽力而为：持久化服务不可用不能影响链上流程，Record* 系列完全
// 异步化且从不向调用方传播错误。
type Service struct {
	baseURL string
	http    *http.Client
	logger  client.Logger
}

// NewService 创建持久化服务（endpoint 为空时返回 nil，所有调用点需自行判空）
func NewService(endpoint string, logger client.Logger) *Service {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil
	}
	return &Service{
		baseURL: endpoint,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// envelope 后端统一响应包络
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// LoadSession 拉取钱包地址对应的会话草稿（不存在时返回空会话）
func (s *Service) LoadSession(ctx context.Context, walletAddress string) (*SessionData, error) {
	var session SessionData
	if err := s.get(ctx, "/api/session", walletAddress, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveSession 保存会话草稿
func (s *Service) SaveSession(ctx context.Context, walletAddress string, session SessionData) error {
	return s.post(ctx, "/api/session", map[string]interface{}{
		"walletAddress": walletAddress,
		"session":       session,
	})
}

// LoadPreferences 拉取偏好设置（不存在时返回零值偏好）
func (s *Service) LoadPreferences(ctx context.Context, walletAddress string) (*Preferences, error) {
	var prefs Preferences
	if err := s.get(ctx, "/api/preferences", walletAddress, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences 保存偏好设置
func (s *Service) SavePreferences(ctx context.Context, walletAddress string, prefs Preferences) error {
	return s.post(ctx, "/api/preferences", map[string]interface{}{
		"walletAddress": walletAddress,
		"preferences":   prefs,
	})
}

// ProofRecord 链下记录的履约证明元数据
type ProofRecord struct {
	IntentID  uint64 `json:"intentId"`
	Proof     string `json:"proof"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ValidationRecord 链下记录的投票元数据
type ValidationRecord struct {
	IntentID  uint64 `json:"intentId"`
	Validator string `json:"validator"`
	Approve   bool   `json:"approve"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Proofs 按意图编号查询履约证明记录
func (s *Service) Proofs(ctx context.Context, intentID uint64) ([]ProofRecord, error) {
	var records []ProofRecord
	u := fmt.Sprintf("%s/api/proofs?intentId=%d", s.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if err := s.do(req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Validations 按意图编号查询投票记录
func (s *Service) Validations(ctx context.Context, intentID uint64) ([]ValidationRecord, error) {
	var records []ValidationRecord
	u := fmt.Sprintf("%s/api/validations?intentId=%d", s.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if err := s.do(req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RecordProof 异步记录履约证明元数据（尽力而为，不传播错误）
func (s *Service) RecordProof(intentID uint64, proof string) {
	s.fireAndForget("/api/proofs", map[string]interface{}{
		"intentId": intentID,
		"proof":    proof,
	})
}

// RecordValidation 异步记录投票元数据（尽力而为，不传播错误）
func (s *Service) RecordValidation(intentID uint64, validator string, approve bool) {
	s.fireAndForget("/api/validations", map[string]interface{}{
		"intentId":  intentID,
		"validator": validator,
		"approve":   approve,
	})
}

// fireAndForget 后台提交一次写请求，失败只记日志
func (s *Service) fireAndForget(path string, body map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.post(ctx, path, body); err != nil && s.logger != nil {
			s.logger.Warn("metadata record failed", "path", path, "error", err)
		}
	}()
}

// get 执行 GET 请求并解包 data 字段
func (s *Service) get(ctx context.Context, path, walletAddress string, out interface{}) error {
	u := s.baseURL + path + "?walletAddress=" + url.QueryEscape(walletAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return s.do(req, out)
}

// post 执行 POST 请求
func (s *Service) post(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, nil)
}

// do 发送请求并解析统一包络
func (s *Service) do(req *http.Request, out interface{}) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile service returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("profile service error: %s", env.Error)
		}
		return fmt.Errorf("profile service reported failure")
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("parse data: %w", err)
		}
	}
	return nil
}
