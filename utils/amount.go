package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// ParseAmount 把十进制金额文本解析为账本定点单位（wei）
//
// **规则**：
// - 接受 "0.01"、"1"、"1.5" 形式，最多 18 位小数
// - 必须为正数：零、负数、空串、非数字文本都返回错误
//
// 质押金额来自用户输入，解析失败属于前置校验失败，不发起任何网络调用。
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("amount must be an unsigned decimal: %s", s)
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
		if strings.IndexByte(frac, '.') >= 0 {
			return nil, fmt.Errorf("invalid amount: %s", s)
		}
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 18 {
		return nil, fmt.Errorf("amount has more than 18 decimal places: %s", s)
	}

	wholeInt, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", s)
	}

	// 小数部分右补零到 18 位后按整数解析
	fracPadded := frac + strings.Repeat("0", 18-len(frac))
	fracInt := big.NewInt(0)
	if frac != "" {
		fracInt, ok = new(big.Int).SetString(fracPadded, 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount: %s", s)
		}
	}

	wei := new(big.Int).Mul(wholeInt, big.NewInt(params.Ether))
	wei.Add(wei, fracInt)

	if wei.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive: %s", s)
	}
	return wei, nil
}

// FormatAmount 把 wei 金额格式化为十进制文本（去掉尾部多余的零）
func FormatAmount(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	sign := ""
	abs := new(big.Int).Abs(wei)
	if wei.Sign() < 0 {
		sign = "-"
	}

	quo, rem := new(big.Int).QuoRem(abs, big.NewInt(params.Ether), new(big.Int))
	if rem.Sign() == 0 {
		return sign + quo.String()
	}

	frac := fmt.Sprintf("%018s", rem.String())
	frac = strings.TrimRight(frac, "0")
	return sign + quo.String() + "." + frac
}
