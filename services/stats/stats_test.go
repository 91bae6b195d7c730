package stats

import (
	"testing"

	"github.com/pikkaio/client-sdk-go/types"
)

const (
	alice = "0xaaaa000000000000000000000000000000000001"
	bob   = "0xbbbb000000000000000000000000000000000002"
	carol = "0xcccc000000000000000000000000000000000003"
)

// fixtureIntents 构造一组固定意图：
// alice 创建 2 条（1 条已履约），bob 创建 1 条已履约，
// alice 对 bob 的意图投过票，bob 对 alice 的已履约意图投过票。
func fixtureIntents() []types.Intent {
	return []types.Intent{
		{
			ID:         3,
			Creator:    alice,
			Fulfilled:  false,
			Validators: nil,
		},
		{
			ID:         2,
			Creator:    bob,
			Fulfilled:  true,
			Validators: []string{alice, carol},
		},
		{
			ID:         1,
			Creator:    alice,
			Fulfilled:  true,
			Validators: []string{bob},
		},
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name                string
		viewer              string
		wantFulfilled       int
		wantValidations     int
		wantPoints          int
		wantValidationScore int
	}{
		{
			name:                "creator with one fulfilled and one vote",
			viewer:              alice,
			wantFulfilled:       1,
			wantValidations:     1,
			wantPoints:          125,
			wantValidationScore: 25,
		},
		{
			name:                "uppercase viewer matches lowercase ledger data",
			viewer:              "0xAAAA000000000000000000000000000000000001",
			wantFulfilled:       1,
			wantValidations:     1,
			wantPoints:          125,
			wantValidationScore: 25,
		},
		{
			name:                "fulfiller who also voted",
			viewer:              bob,
			wantFulfilled:       1,
			wantValidations:     1,
			wantPoints:          125,
			wantValidationScore: 25,
		},
		{
			name:                "validator only",
			viewer:              carol,
			wantFulfilled:       0,
			wantValidations:     1,
			wantPoints:          25,
			wantValidationScore: 25,
		},
		{
			name:   "unknown viewer",
			viewer: "0xdddd000000000000000000000000000000000004",
		},
		{
			name:   "empty viewer yields zero stats",
			viewer: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(fixtureIntents(), tt.viewer)
			if got.FulfilledCount != tt.wantFulfilled {
				t.Errorf("FulfilledCount = %d, want %d", got.FulfilledCount, tt.wantFulfilled)
			}
			if got.ValidationCount != tt.wantValidations {
				t.Errorf("ValidationCount = %d, want %d", got.ValidationCount, tt.wantValidations)
			}
			if got.Points != tt.wantPoints {
				t.Errorf("Points = %d, want %d", got.Points, tt.wantPoints)
			}
			if got.ValidationRewardPoints != tt.wantValidationScore {
				t.Errorf("ValidationRewardPoints = %d, want %d", got.ValidationRewardPoints, tt.wantValidationScore)
			}
		})
	}
}

func TestComputePointWeights(t *testing.T) {
	// 2 条已履约 + 2 次投票 = 2*100 + 2*25
	intents := []types.Intent{
		{ID: 1, Creator: alice, Fulfilled: true},
		{ID: 2, Creator: alice, Fulfilled: true},
		{ID: 3, Creator: bob, Fulfilled: true, Validators: []string{alice}},
		{ID: 4, Creator: carol, Fulfilled: true, Validators: []string{alice}},
	}

	got := Compute(intents, alice)
	if got.Points != 250 {
		t.Errorf("Points = %d, want 250", got.Points)
	}
	if got.ValidationRewardPoints != 50 {
		t.Errorf("ValidationRewardPoints = %d, want 50", got.ValidationRewardPoints)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	intents := fixtureIntents()
	before := make([]types.Intent, len(intents))
	copy(before, intents)

	_ = Compute(intents, alice)

	for i := range intents {
		if intents[i].ID != before[i].ID || intents[i].Fulfilled != before[i].Fulfilled {
			t.Fatal("Compute() mutated its input")
		}
	}
}

func TestComputeUnfulfilledDoesNotScore(t *testing.T) {
	intents := []types.Intent{
		{ID: 1, Creator: alice, Fulfilled: false},
	}
	got := Compute(intents, alice)
	if got.FulfilledCount != 0 || got.Points != 0 {
		t.Errorf("unfulfilled intent scored: %+v", got)
	}
}

func TestCanValidate(t *testing.T) {
	fulfilled := &types.Intent{
		ID:         1,
		Creator:    alice,
		Fulfiller:  alice,
		Fulfilled:  true,
		Validators: []string{carol},
	}

	tests := []struct {
		name   string
		intent *types.Intent
		viewer string
		want   bool
	}{
		{
			name:   "eligible third party",
			intent: fulfilled,
			viewer: bob,
			want:   true,
		},
		{
			name:   "creator cannot validate own intent",
			intent: fulfilled,
			viewer: alice,
			want:   false,
		},
		{
			name:   "already voted",
			intent: fulfilled,
			viewer: carol,
			want:   false,
		},
		{
			name:   "unfulfilled intent has no proof to validate",
			intent: &types.Intent{ID: 2, Creator: alice, Fulfilled: false},
			viewer: bob,
			want:   false,
		},
		{
			name:   "nil intent",
			intent: nil,
			viewer: bob,
			want:   false,
		},
		{
			name:   "empty viewer",
			intent: fulfilled,
			viewer: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanValidate(tt.intent, tt.viewer); got != tt.want {
				t.Errorf("CanValidate() = %v, want %v", got, tt.want)
			}
		})
	}
}
