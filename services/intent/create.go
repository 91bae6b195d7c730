package intent

import (
	"context"
	"strings"

	"github.com/pikkaio/client-sdk-go/types"
	"github.com/pikkaio/client-sdk-go/utils"
)

// Create 创建意图并质押
//
// 描述和金额在本地校验通过之前不会发起任何网络请求；
// 质押金额随交易 value 一并转入合约。
func (s *intentService) Create(ctx context.Context, description, stakeAmount string) (*Result, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, types.NewPreconditionError("intent description is required")
	}

	stake, err := utils.ParseAmount(stakeAmount)
	if err != nil {
		return nil, types.NewPreconditionError("invalid stake amount: " + err.Error())
	}

	calldata, err := buildCreateCalldata(description)
	if err != nil {
		return nil, types.NewTransportError(err)
	}

	return s.submit(ctx, calldata, stake)
}
