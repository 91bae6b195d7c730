package wallet

import (
	"context"
	"testing"
)

// 公开的测试私钥（Hardhat 默认账户 0），对应地址是确定的
const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// fakeRPC 测试用账本客户端
type fakeRPC struct {
	responses map[string]interface{}
	calls     []string
}

func (f *fakeRPC) Call(ctx context.Context, method string, params interface{}) (interface{}, error) {
	f.calls = append(f.calls, method)
	return f.responses[method], nil
}

func (f *fakeRPC) Close() error {
	return nil
}

func TestNewLocalProvider(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{
			name: "valid key",
			key:  testPrivateKey,
		},
		{
			name: "valid key with 0x prefix",
			key:  "0x" + testPrivateKey,
		},
		{
			name:    "too short",
			key:     "abcd",
			wantErr: true,
		},
		{
			name:    "not hex",
			key:     "zz0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
			wantErr: true,
		},
		{
			name:    "empty",
			key:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLocalProvider(&fakeRPC{}, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLocalProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.Address().Hex() != testAddress {
				t.Errorf("Address() = %v, want %v", p.Address().Hex(), testAddress)
			}
		})
	}
}

func TestLocalProviderNilClient(t *testing.T) {
	if _, err := NewLocalProvider(nil, testPrivateKey); err == nil {
		t.Error("NewLocalProvider(nil, ...) should fail")
	}
}

func TestLocalProviderAccounts(t *testing.T) {
	p, err := NewLocalProvider(&fakeRPC{}, testPrivateKey)
	if err != nil {
		t.Fatalf("NewLocalProvider() failed: %v", err)
	}

	for _, method := range []string{"eth_accounts", "eth_requestAccounts"} {
		result, err := p.Request(context.Background(), method, nil)
		if err != nil {
			t.Fatalf("Request(%s) failed: %v", method, err)
		}
		accounts, ok := result.([]string)
		if !ok || len(accounts) != 1 || accounts[0] != testAddress {
			t.Errorf("Request(%s) = %v, want [%s]", method, result, testAddress)
		}
	}
}

func TestLocalProviderChainIDCached(t *testing.T) {
	rpc := &fakeRPC{responses: map[string]interface{}{"eth_chainId": "0x2105"}}
	p, err := NewLocalProvider(rpc, testPrivateKey)
	if err != nil {
		t.Fatalf("NewLocalProvider() failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		result, err := p.Request(context.Background(), "eth_chainId", nil)
		if err != nil {
			t.Fatalf("Request(eth_chainId) failed: %v", err)
		}
		if result != "0x2105" {
			t.Errorf("chain id = %v, want 0x2105", result)
		}
	}

	// 链 ID 只从账本读取一次
	if len(rpc.calls) != 1 {
		t.Errorf("rpc calls = %v, want single eth_chainId", rpc.calls)
	}
}

func TestLocalProviderUnsupportedMethod(t *testing.T) {
	p, err := NewLocalProvider(&fakeRPC{}, testPrivateKey)
	if err != nil {
		t.Fatalf("NewLocalProvider() failed: %v", err)
	}

	if _, err := p.Request(context.Background(), "eth_signTypedData_v4", nil); err == nil {
		t.Error("unsupported method should fail")
	}
}

func TestLocalSubscription(t *testing.T) {
	p, err := NewLocalProvider(&fakeRPC{}, testPrivateKey)
	if err != nil {
		t.Fatalf("NewLocalProvider() failed: %v", err)
	}

	sub, err := p.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}

	// 本地 Provider 不产生事件；取消幂等且关闭通道
	sub.Unsubscribe()
	sub.Unsubscribe()

	if _, ok := <-sub.Events(); ok {
		t.Error("events channel should be closed after unsubscribe")
	}
}

func TestCandidateWrapping(t *testing.T) {
	p, err := NewLocalProvider(&fakeRPC{}, testPrivateKey)
	if err != nil {
		t.Fatalf("NewLocalProvider() failed: %v", err)
	}

	c := p.Candidate()
	if c.Kind != KindGeneric || c.Label != "local" || c.Provider != Provider(p) {
		t.Errorf("Candidate() = %+v", c)
	}
}
