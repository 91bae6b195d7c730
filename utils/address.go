package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress 零地址文本形式（账本中表示"未设置"的保留哨兵）
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// NormalizeAddress 归一化地址用于比较（统一小写）
//
// **注意**：
// - 账本返回的地址大小写不保证一致，比较一律用归一化形式
// - 展示时保留原始大小写，不要用该函数的返回值做展示
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// SameAddress 大小写不敏感地比较两个地址
func SameAddress(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// IsZeroAddress 检查地址是否为零地址哨兵
func IsZeroAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return true
	}
	if !common.IsHexAddress(addr) {
		return false
	}
	return common.HexToAddress(addr) == (common.Address{})
}

// ValidateAddress 校验地址文本是否为合法的 20 字节十六进制形式
func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("address is empty")
	}
	if !common.IsHexAddress(addr) {
		return fmt.Errorf("invalid address format: %s", addr)
	}
	return nil
}

// ShortAddress 生成地址的缩略展示形式（0x123456...abcd）
//
// 保留原始大小写，仅用于展示。
func ShortAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-6:]
}
