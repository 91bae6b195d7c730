package types

// ValidationStatus 意图证明的验证状态
type ValidationStatus string

const (
	// StatusPending 未履约，尚无证明可验证
	StatusPending ValidationStatus = "pending"

	// StatusAwaiting 已履约，得分未越过任一阈值
	StatusAwaiting ValidationStatus = "awaiting"

	// StatusApproved 得分超过通过阈值
	StatusApproved ValidationStatus = "approved"

	// StatusRejected 得分低于否决阈值
	StatusRejected ValidationStatus = "rejected"
)

// ValidationPolicy 验证得分的判定阈值
//
// 阈值是业务策略而非协议常量，由 SDK 使用方配置；
// 默认值沿用 Pikkaio 前端的展示口径（>2 通过，<-2 否决）。
type ValidationPolicy struct {
	// ApproveAbove 得分严格大于该值时判定为通过
	ApproveAbove int64

	// RejectBelow 得分严格小于该值时判定为否决
	RejectBelow int64
}

// DefaultValidationPolicy 返回默认判定阈值
func DefaultValidationPolicy() ValidationPolicy {
	return ValidationPolicy{
		ApproveAbove: 2,
		RejectBelow:  -2,
	}
}

// Status 按策略判定一条意图的验证状态
func (p ValidationPolicy) Status(intent *Intent) ValidationStatus {
	if intent == nil || !intent.Fulfilled {
		return StatusPending
	}
	if intent.ValidationScore > p.ApproveAbove {
		return StatusApproved
	}
	if intent.ValidationScore < p.RejectBelow {
		return StatusRejected
	}
	return StatusAwaiting
}
