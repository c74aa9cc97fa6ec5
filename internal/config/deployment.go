package config

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"gdaSwap/internal/model"
)

// Deployment validates the contract settings and builds the immutable model.Deployment.
func (c Config) Deployment() (model.Deployment, error) {
	if c.InputDecimals > math.MaxUint8 || c.OutputDecimals > math.MaxUint8 {
		return model.Deployment{}, fmt.Errorf("decimals must be at most 255 (input %d, output %d)", c.InputDecimals, c.OutputDecimals)
	}
	if c.Fee > 0xFFFFFF {
		return model.Deployment{}, fmt.Errorf("fee %d does not fit in uint24", c.Fee)
	}
	if c.TickSpacing <= 0 || c.TickSpacing > (1<<23)-1 {
		return model.Deployment{}, fmt.Errorf("tick spacing %d out of range", c.TickSpacing)
	}

	var errs addressErrors

	d := model.Deployment{
		ChainID: c.ChainID,
		Swapper: errs.parse("swapper", c.Swapper),
		Pair: model.AssetPair{
			Input:  model.Asset{Address: errs.parse("input-asset", c.InputAsset), Decimals: uint8(c.InputDecimals)},
			Output: model.Asset{Address: errs.parse("output-asset", c.OutputAsset), Decimals: uint8(c.OutputDecimals)},
		},
		Pool: model.PoolKey{
			Currency0:   errs.parse("currency0", c.Currency0),
			Currency1:   errs.parse("currency1", c.Currency1),
			Fee:         uint32(c.Fee),
			TickSpacing: int32(c.TickSpacing),
			Hooks:       errs.parse("hooks", c.Hooks),
		},
		GDAForwarder:     errs.parse("gda-forwarder", c.GDAForwarder),
		DistributionPool: errs.parse("distribution-pool", c.DistributionPool),
		Policy: model.Policy{
			ApprovalMultiplier:   c.ApprovalMultiplier,
			ApproveBoth:          c.ApproveBoth,
			SwapConfirmations:    c.SwapConfirmations,
			ConnectConfirmations: c.ConnectConfirmations,
			PollInterval:         c.PollInterval,
		},
	}
	if len(errs) > 0 {
		return model.Deployment{}, fmt.Errorf("invalid address: %s", strings.Join(errs, ", "))
	}

	if c.ChainID == 0 {
		return model.Deployment{}, fmt.Errorf("chain id is required")
	}
	if d.Pool.Currency0 == d.Pool.Currency1 {
		return model.Deployment{}, fmt.Errorf("currency0 and currency1 must differ")
	}
	if c.ApprovalMultiplier <= 0 {
		return model.Deployment{}, fmt.Errorf("approval multiplier must be greater than zero")
	}
	if c.ConnectConfirmations == 0 {
		return model.Deployment{}, fmt.Errorf("connect confirmations must be greater than zero")
	}
	if c.PollInterval <= 0 {
		return model.Deployment{}, fmt.Errorf("poll interval must be greater than zero")
	}

	minLimit, err := parseUint("min-price-limit", c.MinPriceLimit)
	if err != nil {
		return model.Deployment{}, err
	}
	maxLimit, err := parseUint("max-price-limit", c.MaxPriceLimit)
	if err != nil {
		return model.Deployment{}, err
	}
	if minLimit.Sign() <= 0 || minLimit.Cmp(maxLimit) >= 0 {
		return model.Deployment{}, fmt.Errorf("price limits must satisfy 0 < min < max")
	}
	d.Limits = model.NewPriceLimits(minLimit, maxLimit)

	return d, nil
}

type addressErrors []string

func (e *addressErrors) parse(key, value string) common.Address {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		*e = append(*e, fmt.Sprintf("%s=%q", key, value))
		return common.Address{}
	}
	return common.HexToAddress(value)
}

func parseUint(key, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%s: invalid unsigned integer %q", key, value)
	}
	return n, nil
}
