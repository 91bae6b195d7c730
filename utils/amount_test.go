package utils

import (
	"math/big"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // wei, 十进制文本
		wantErr bool
	}{
		{
			name:  "whole number",
			input: "1",
			want:  "1000000000000000000",
		},
		{
			name:  "decimal fraction",
			input: "0.5",
			want:  "500000000000000000",
		},
		{
			name:  "small fraction",
			input: "0.01",
			want:  "10000000000000000",
		},
		{
			name:  "mixed whole and fraction",
			input: "1.5",
			want:  "1500000000000000000",
		},
		{
			name:  "leading dot",
			input: ".5",
			want:  "500000000000000000",
		},
		{
			name:  "18 decimal places",
			input: "0.000000000000000001",
			want:  "1",
		},
		{
			name:  "surrounding whitespace",
			input: " 2 ",
			want:  "2000000000000000000",
		},
		{
			name:    "zero rejected",
			input:   "0",
			wantErr: true,
		},
		{
			name:    "zero with fraction rejected",
			input:   "0.0",
			wantErr: true,
		},
		{
			name:    "negative rejected",
			input:   "-1",
			wantErr: true,
		},
		{
			name:    "explicit plus sign rejected",
			input:   "+1",
			wantErr: true,
		},
		{
			name:    "empty string rejected",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "two dots rejected",
			input:   "1.2.3",
			wantErr: true,
		},
		{
			name:    "more than 18 decimals rejected",
			input:   "0.0000000000000000001",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAmount() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			want, _ := new(big.Int).SetString(tt.want, 10)
			if got.Cmp(want) != 0 {
				t.Errorf("ParseAmount() = %v, want %v", got, want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		wei  string
		want string
	}{
		{
			name: "one ether",
			wei:  "1000000000000000000",
			want: "1",
		},
		{
			name: "half ether trims trailing zeros",
			wei:  "500000000000000000",
			want: "0.5",
		},
		{
			name: "single wei",
			wei:  "1",
			want: "0.000000000000000001",
		},
		{
			name: "zero",
			wei:  "0",
			want: "0",
		},
		{
			name: "negative amount keeps sign",
			wei:  "-1500000000000000000",
			want: "-1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, _ := new(big.Int).SetString(tt.wei, 10)
			if got := FormatAmount(wei); got != tt.want {
				t.Errorf("FormatAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatAmountNil(t *testing.T) {
	if got := FormatAmount(nil); got != "0" {
		t.Errorf("FormatAmount(nil) = %v, want 0", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	// 解析后再格式化应回到原文本（规范化输入）
	inputs := []string{"1", "0.5", "1.25", "100", "0.000000000000000001"}
	for _, input := range inputs {
		wei, err := ParseAmount(input)
		if err != nil {
			t.Fatalf("ParseAmount(%q) failed: %v", input, err)
		}
		if got := FormatAmount(wei); got != input {
			t.Errorf("round trip %q -> %q", input, got)
		}
	}
}
