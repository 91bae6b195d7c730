package intent

import (
	"fmt"
	"math/big"

	"github.com/pikkaio/client-sdk-go/registry"
)

// buildCreateCalldata 编码 createIntent 调用数据
func buildCreateCalldata(description string) ([]byte, error) {
	data, err := registry.ABI().Pack("createIntent", description)
	if err != nil {
		return nil, fmt.Errorf("pack createIntent: %w", err)
	}
	return data, nil
}

// buildFulfillCalldata 编码 fulfillIntent 调用数据
func buildFulfillCalldata(id uint64, proof string) ([]byte, error) {
	data, err := registry.ABI().Pack("fulfillIntent", new(big.Int).SetUint64(id), proof)
	if err != nil {
		return nil, fmt.Errorf("pack fulfillIntent: %w", err)
	}
	return data, nil
}

// buildValidateCalldata 编码 validateProof 调用数据
func buildValidateCalldata(id uint64, approve bool) ([]byte, error) {
	data, err := registry.ABI().Pack("validateProof", new(big.Int).SetUint64(id), approve)
	if err != nil {
		return nil, fmt.Errorf("pack validateProof: %w", err)
	}
	return data, nil
}
