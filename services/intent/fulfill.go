package intent

import (
	"context"
	"strings"

	"github.com/pikkaio/client-sdk-go/types"
)

// Fulfill 提交履约证明
//
// 只做本地可判定的校验（证明文本非空）；"只有创建者能履约"等规则
// 由合约强制执行，违反时表现为账本拒绝。
func (s *intentService) Fulfill(ctx context.Context, id uint64, proof string) (*Result, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, types.NewPreconditionError("fulfillment proof is required")
	}
	if id == 0 {
		return nil, types.NewPreconditionError("intent id is required")
	}

	calldata, err := buildFulfillCalldata(id, proof)
	if err != nil {
		return nil, types.NewTransportError(err)
	}

	result, err := s.submit(ctx, calldata, nil)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordProof(id, proof)
	}
	return result, nil
}
