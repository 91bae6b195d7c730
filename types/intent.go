package types

import (
	"math/big"
	"strings"
	"time"
)

// Intent 一条链上的意图记录（用户质押的承诺）
//
// **不变量**：
// - ID 从 1 开始，由账本按创建顺序分配，取值构成稠密区间 [1, intentCount]
// - Fulfilled == false 时 Proof 为空串且 ValidationScore 为 0
// - Creator 为零地址的槽位是墓碑（记录不存在），不进入本地视图
type Intent struct {
	// ID 账本分配的意图编号（1-based）
	ID uint64

	// Creator 质押账户地址（创建后不可变）
	Creator string

	// Description 意图描述（自由文本，不可变）
	Description string

	// StakeAmount 质押金额（wei）
	StakeAmount *big.Int

	// Reward 履约奖励（wei）
	Reward *big.Int

	// Fulfilled 创建者是否已提交履约证明
	Fulfilled bool

	// Deadline 截止时间（仅展示用途，SDK 不做自动过期处理）
	Deadline time.Time

	// Proof 履约证明（未履约时为空串）
	Proof string

	// Fulfiller 提交证明的地址（未履约时为零地址）
	Fulfiller string

	// ValidationScore 验证得分：每一票赞成 +1，反对 -1
	ValidationScore int64

	// Validators 已投票的地址集合（统一小写，账本保证每地址至多一票）
	Validators []string
}

// HasValidator 检查某地址是否已对该意图投过票（大小写不敏感）
func (i *Intent) HasValidator(addr string) bool {
	if addr == "" {
		return false
	}
	lower := strings.ToLower(addr)
	for _, v := range i.Validators {
		if strings.ToLower(v) == lower {
			return true
		}
	}
	return false
}

// DerivedStats 某个查看者地址的声誉统计
//
// 每个同步周期从本地意图集合整体重算，从不持久化为权威数据——账本才是。
type DerivedStats struct {
	// FulfilledCount 该地址创建且已履约的意图数
	FulfilledCount int

	// ValidationCount 该地址参与验证投票的意图数
	ValidationCount int

	// Points 总积分 = FulfilledCount*100 + ValidationCount*25
	Points int

	// ValidationRewardPoints 验证积分 = ValidationCount*25
	ValidationRewardPoints int
}

// 积分权重
const (
	// PointsPerFulfillment 每个已履约意图的积分
	PointsPerFulfillment = 100

	// PointsPerValidation 每次验证投票的积分
	PointsPerValidation = 25
)
