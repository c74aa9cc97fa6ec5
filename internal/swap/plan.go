package swap

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"

	"gdaSwap/internal/dex"
	"gdaSwap/internal/model"
	"gdaSwap/internal/transport"
)

// Approval is one ERC20 approve call granting the swapper an allowance.
type Approval struct {
	Asset   common.Address
	Amount  *big.Int
	Request transport.CallRequest
}

// Plan is the ordered call sequence for one intent.
type Plan struct {
	Intent          model.SwapIntent
	Amount          decimal.Decimal
	ZeroForOne      bool
	AmountSpecified *big.Int
	SqrtPriceLimit  *big.Int
	Approvals       []Approval
	Swap            transport.CallRequest
}

// PlanSummary is the printable form of a Plan.
type PlanSummary struct {
	Side            string            `json:"side"`
	Amount          string            `json:"amount"`
	Approvals       []ApprovalSummary `json:"approvals"`
	Swapper         string            `json:"swapper"`
	Pool            model.PoolKey     `json:"pool"`
	ZeroForOne      bool              `json:"zero_for_one"`
	AmountSpecified string            `json:"amount_specified"`
	SqrtPriceLimit  string            `json:"sqrt_price_limit_x96"`
}

type ApprovalSummary struct {
	Asset   string `json:"asset"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// maxInt256 bounds amountSpecified; approve takes a uint256 bounded by math.MaxBig256.
var maxInt256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))

// Plan validates intent and builds its calls without touching the transport.
func (o *Orchestrator) Plan(intent model.SwapIntent) (Plan, error) {
	amount, err := ParseAmount(intent.RawAmount)
	if err != nil {
		return Plan{}, err
	}

	d := o.cfg.Deployment
	zeroForOne := intent.Side.ZeroForOne()

	specifiedAsset := d.Pair.Output
	if intent.Side == model.SideUnitIn {
		specifiedAsset = d.Pair.Input
	}

	plan := Plan{
		Intent:          intent,
		Amount:          amount,
		ZeroForOne:      zeroForOne,
		AmountSpecified: ToSmallestUnits(amount, specifiedAsset.Decimals),
		SqrtPriceLimit:  d.Limits.For(zeroForOne),
	}
	if plan.AmountSpecified.Cmp(maxInt256) > 0 {
		return Plan{}, fmt.Errorf("%w: %s does not fit in int256", ErrInvalidAmount, intent.RawAmount)
	}

	for _, asset := range o.approvalAssets(zeroForOne) {
		value := ApprovalAmount(amount, d.Policy.ApprovalMultiplier, asset.Decimals)
		if value.Cmp(math.MaxBig256) > 0 {
			return Plan{}, fmt.Errorf("%w: approval of %s does not fit in uint256", ErrInvalidAmount, asset.Address.Hex())
		}
		plan.Approvals = append(plan.Approvals, Approval{
			Asset:  asset.Address,
			Amount: value,
			Request: transport.CallRequest{
				Contract: asset.Address,
				ABI:      o.erc20ABI,
				Method:   "approve",
				Args:     []interface{}{d.Swapper, value},
			},
		})
	}

	plan.Swap = transport.CallRequest{
		Contract: d.Swapper,
		ABI:      o.swapperABI,
		Method:   "swap",
		Args: []interface{}{
			dex.NewPoolKeyArg(d.Pool),
			dex.SwapParamsArg{
				ZeroForOne:        zeroForOne,
				AmountSpecified:   new(big.Int).Set(plan.AmountSpecified),
				SqrtPriceLimitX96: new(big.Int).Set(plan.SqrtPriceLimit),
			},
			dex.TestSettingsArg{TakeClaims: false, SettleUsingBurn: false},
			[]byte{},
		},
	}

	if _, err := plan.Swap.Pack(); err != nil {
		return Plan{}, fmt.Errorf("encode swap: %w", err)
	}

	return plan, nil
}

// approvalAssets lists the assets to approve, Input before Output.
func (o *Orchestrator) approvalAssets(zeroForOne bool) []model.Asset {
	d := o.cfg.Deployment
	if d.Policy.ApproveBoth {
		return []model.Asset{d.Pair.Input, d.Pair.Output}
	}

	sold := d.Pool.Currency1
	if zeroForOne {
		sold = d.Pool.Currency0
	}
	for _, asset := range []model.Asset{d.Pair.Input, d.Pair.Output} {
		if asset.Address == sold {
			return []model.Asset{asset}
		}
	}
	return []model.Asset{{Address: sold, Decimals: d.Pair.Input.Decimals}}
}

// Summary renders the plan for display.
func (p Plan) Summary(d model.Deployment) PlanSummary {
	summary := PlanSummary{
		Side:            p.Intent.Side.String(),
		Amount:          p.Amount.String(),
		Swapper:         d.Swapper.Hex(),
		Pool:            d.Pool,
		ZeroForOne:      p.ZeroForOne,
		AmountSpecified: p.AmountSpecified.String(),
		SqrtPriceLimit:  p.SqrtPriceLimit.String(),
	}
	for _, approval := range p.Approvals {
		summary.Approvals = append(summary.Approvals, ApprovalSummary{
			Asset:   approval.Asset.Hex(),
			Spender: d.Swapper.Hex(),
			Amount:  approval.Amount.String(),
		})
	}
	return summary
}
