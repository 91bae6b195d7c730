package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// registryABIJSON IntentRegistry 合约的 ABI 定义
//
// 只声明 SDK 用到的入口：三个只读查询和三个变更方法。
const registryABIJSON = `[
  {"type":"function","name":"intentCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"intents","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[
    {"name":"creator","type":"address"},
    {"name":"description","type":"string"},
    {"name":"stakeAmount","type":"uint256"},
    {"name":"reward","type":"uint256"},
    {"name":"fulfilled","type":"bool"},
    {"name":"deadline","type":"uint256"},
    {"name":"proof","type":"string"},
    {"name":"fulfiller","type":"address"},
    {"name":"validationScore","type":"int256"}
  ]},
  {"type":"function","name":"getValidators","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"createIntent","stateMutability":"payable","inputs":[{"name":"description","type":"string"}],"outputs":[]},
  {"type":"function","name":"fulfillIntent","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"proof","type":"string"}],"outputs":[]},
  {"type":"function","name":"validateProof","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"approve","type":"bool"}],"outputs":[]}
]`

var registryABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		panic("registry: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

// ABI 返回解析好的 IntentRegistry 合约 ABI
//
// 交易构建方（services/intent）用它打包变更调用的 calldata。
func ABI() abi.ABI {
	return registryABI
}
