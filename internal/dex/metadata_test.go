package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"gdaSwap/internal/model"
)

type fakeCaller struct {
	parsed  abi.ABI
	outputs map[string][]interface{}
	calls   int
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	for name, method := range f.parsed.Methods {
		if !bytes.Equal(msg.Data[:4], method.ID) {
			continue
		}
		values, ok := f.outputs[name]
		if !ok {
			return nil, fmt.Errorf("execution reverted")
		}
		return method.Outputs.Pack(values...)
	}
	return nil, fmt.Errorf("unknown selector")
}

func newFakeCaller(t *testing.T) *fakeCaller {
	t.Helper()
	parsed, err := ERC20ABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	return &fakeCaller{
		parsed: parsed,
		outputs: map[string][]interface{}{
			"decimals": {uint8(6)},
			"symbol":   {"USDC"},
			"name":     {"USD Coin"},
		},
	}
}

func TestFetchTokenMeta(t *testing.T) {
	caller := newFakeCaller(t)
	token := common.HexToAddress("0x2222222222222222222222222222222222222222")

	meta, err := FetchTokenMeta(context.Background(), caller, token, zap.NewNop())
	if err != nil {
		t.Fatalf("fetch meta: %v", err)
	}
	want := model.TokenMeta{Address: token.Hex(), Decimals: 6, Symbol: "USDC", Name: "USD Coin"}
	if meta != want {
		t.Fatalf("meta mismatch: %+v != %+v", meta, want)
	}
}

func TestResolveAssetUsesCache(t *testing.T) {
	caller := newFakeCaller(t)
	cache := NewTokenMetaCache()
	asset := model.Asset{Address: common.HexToAddress("0x3333333333333333333333333333333333333333"), Decimals: 18}

	resolved, err := ResolveAsset(context.Background(), caller, asset, cache, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Decimals != 6 {
		t.Fatalf("decimals not resolved: %d", resolved.Decimals)
	}

	calls := caller.calls
	if _, err := ResolveAsset(context.Background(), caller, asset, cache, nil); err != nil {
		t.Fatalf("resolve cached: %v", err)
	}
	if caller.calls != calls {
		t.Fatalf("cache not used: %d calls after %d", caller.calls, calls)
	}
}

func TestFetchTokenMetaDecimalsFailure(t *testing.T) {
	caller := newFakeCaller(t)
	delete(caller.outputs, "decimals")

	if _, err := FetchTokenMeta(context.Background(), caller, common.Address{}, nil); err == nil {
		t.Fatalf("expected error when decimals reverts")
	}
}
