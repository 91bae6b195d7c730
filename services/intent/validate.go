package intent

import (
	"context"

	"github.com/pikkaio/client-sdk-go/types"
)

// Validate 对履约证明投票
//
// 重复投票、创建者自投等规则由合约强制执行；SDK 侧可用
// stats.CanValidate 做展示层预过滤，但不以其为准。
func (s *intentService) Validate(ctx context.Context, id uint64, approve bool) (*Result, error) {
	if id == 0 {
		return nil, types.NewPreconditionError("intent id is required")
	}

	calldata, err := buildValidateCalldata(id, approve)
	if err != nil {
		return nil, types.NewTransportError(err)
	}

	session := s.resolver.Session()
	result, err := s.submit(ctx, calldata, nil)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil && session != nil {
		s.recorder.RecordValidation(id, session.NormalizedAddress(), approve)
	}
	return result, nil
}
