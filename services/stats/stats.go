package stats

import (
	"github.com/pikkaio/client-sdk-go/types"
	"github.com/pikkaio/client-sdk-go/utils"
)

// Compute 从意图集合推导某个查看者地址的声誉统计
//
// **性质**：
// - 纯函数：不修改输入集合，同样输入必然得到同样输出
// - 全函数：没有错误分支；查看者地址为空时返回零值统计
// - 地址比较一律大小写不敏感（账本返回的大小写不保证一致）
func Compute(intents []types.Intent, viewer string) types.DerivedStats {
	var stats types.DerivedStats
	if viewer == "" {
		return stats
	}

	for i := range intents {
		intent := &intents[i]
		if utils.SameAddress(intent.Creator, viewer) && intent.Fulfilled {
			stats.FulfilledCount++
		}
		if intent.HasValidator(viewer) {
			stats.ValidationCount++
		}
	}

	stats.Points = stats.FulfilledCount*types.PointsPerFulfillment +
		stats.ValidationCount*types.PointsPerValidation
	stats.ValidationRewardPoints = stats.ValidationCount * types.PointsPerValidation
	return stats
}

// CanValidate 建议性过滤：查看者是否适合对该意图投票
//
// 仅供展示层参考——创建者、履约者和已投票地址的排除规则
// 最终都由账本强制执行，SDK 不依赖这个判断保证正确性。
func CanValidate(intent *types.Intent, viewer string) bool {
	if intent == nil || viewer == "" || !intent.Fulfilled {
		return false
	}
	if utils.SameAddress(intent.Creator, viewer) {
		return false
	}
	if intent.Fulfiller != "" && utils.SameAddress(intent.Fulfiller, viewer) {
		return false
	}
	return !intent.HasValidator(viewer)
}
