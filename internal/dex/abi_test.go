package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"gdaSwap/internal/model"
)

func TestSwapperABIPackSwap(t *testing.T) {
	swapperABI, err := SwapperABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	key := model.PoolKey{
		Currency0:   common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Currency1:   common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		Fee:         3000,
		TickSpacing: 60,
		Hooks:       common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc"),
	}
	params := SwapParamsArg{
		ZeroForOne:        true,
		AmountSpecified:   big.NewInt(5_000_000),
		SqrtPriceLimitX96: big.NewInt(4295128740),
	}

	data, err := swapperABI.Pack("swap", NewPoolKeyArg(key), params, TestSettingsArg{}, []byte{})
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}

	method := swapperABI.Methods["swap"]
	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatalf("unpack swap: %v", err)
	}
	if len(values) != 4 {
		t.Fatalf("expected 4 inputs, got %d", len(values))
	}

	gotKey := *convertArg[PoolKeyArg](t, values[0])
	if gotKey.Currency0 != key.Currency0 || gotKey.Hooks != key.Hooks {
		t.Fatalf("pool key mismatch: %+v", gotKey)
	}
	if gotKey.Fee.Int64() != 3000 || gotKey.TickSpacing.Int64() != 60 {
		t.Fatalf("fee/tick spacing mismatch: %+v", gotKey)
	}

	gotParams := *convertArg[SwapParamsArg](t, values[1])
	if !gotParams.ZeroForOne || gotParams.AmountSpecified.Int64() != 5_000_000 {
		t.Fatalf("params mismatch: %+v", gotParams)
	}
	if gotParams.SqrtPriceLimitX96.Cmp(big.NewInt(4295128740)) != 0 {
		t.Fatalf("price limit mismatch: %s", gotParams.SqrtPriceLimitX96)
	}

	gotSettings := *convertArg[TestSettingsArg](t, values[2])
	if gotSettings.TakeClaims || gotSettings.SettleUsingBurn {
		t.Fatalf("settings should be false: %+v", gotSettings)
	}
}

func TestGDAForwarderABI(t *testing.T) {
	forwarderABI, err := GDAForwarderABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	pool := common.HexToAddress("0x1111111111111111111111111111111111111111")

	if _, err := forwarderABI.Pack("connectPool", pool, []byte{}); err != nil {
		t.Fatalf("pack connectPool: %v", err)
	}

	out, err := forwarderABI.Methods["isMemberConnected"].Outputs.Pack(true)
	if err != nil {
		t.Fatalf("pack output: %v", err)
	}
	values, err := forwarderABI.Unpack("isMemberConnected", out)
	if err != nil {
		t.Fatalf("unpack output: %v", err)
	}
	if !AsBool(values) {
		t.Fatalf("expected connected")
	}
}

func TestAsBoolMissing(t *testing.T) {
	if AsBool(nil) {
		t.Fatalf("nil should read as false")
	}
	if AsBool([]interface{}{"yes"}) {
		t.Fatalf("non-bool should read as false")
	}
}

func convertArg[T any](t *testing.T, value interface{}) *T {
	t.Helper()
	out, ok := abi.ConvertType(value, new(T)).(*T)
	if !ok {
		t.Fatalf("convert %T", value)
	}
	return out
}
