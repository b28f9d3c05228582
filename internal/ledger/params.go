package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Params fixes the contract addresses, decimal scales, and reward constants
// of one deployment. All addresses are compared lowercase.
type Params struct {
	FactoryAddress string
	WETHAddress    string
	USDCAddress    string
	CROAddress     string
	// Whitelist anchors the price graph, in priority order.
	Whitelist []string
	// StakingContracts maps a staking contract address to its term key.
	StakingContracts map[string]string
	// Reference pools feeding the Price singleton.
	ETHUSDCPair string
	CROUSDCPair string

	PriceID   string
	StakingID string

	ETHDecimals     int32
	CRODecimals     int32
	USDCDecimals    int32
	LPTokenDecimals int32

	DefaultETHPrice      decimal.Decimal
	DefaultCROPrice      decimal.Decimal
	MinimumRewardPool    decimal.Decimal
	RewardPoolPercentage decimal.Decimal
}

// Mainnet deployment addresses.
const (
	factoryAddress = "0x9deb29c9a4c7a88a3c0257393b7f3335338d9a9d"
	wethAddress    = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	usdcAddress    = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	croAddress     = "0xa0b73e1ff0b80914ab6fe0444e65848c4c34450b"

	stakingOneYearAddress   = "0x6aba3e56aeb3b95ad64161103d793fac5f6ce4f7"
	stakingTwoYearAddress   = "0x26388d599a677c6a8bcc4c113f0a34e6ced9493d"
	stakingThreeYearAddress = "0x0a3c6eec8408bded9000da65afdb8a8fda99e253"
	stakingFourYearAddress  = "0x4f2bc163c8758d7f88771496f7b0afde767045f3"
)

// DefaultParams returns the mainnet parameter set.
func DefaultParams() Params {
	return Params{
		FactoryAddress: factoryAddress,
		WETHAddress:    wethAddress,
		USDCAddress:    usdcAddress,
		CROAddress:     croAddress,
		Whitelist:      []string{wethAddress, usdcAddress, croAddress},
		StakingContracts: map[string]string{
			stakingOneYearAddress:   TermOneYear,
			stakingTwoYearAddress:   TermTwoYear,
			stakingThreeYearAddress: TermThreeYear,
			stakingFourYearAddress:  TermFourYear,
		},
		PriceID:   "1",
		StakingID: "1",

		ETHDecimals:     18,
		CRODecimals:     8,
		USDCDecimals:    6,
		LPTokenDecimals: 18,

		DefaultETHPrice:      decimal.RequireFromString("335.81"),
		DefaultCROPrice:      decimal.RequireFromString("0.151074"),
		MinimumRewardPool:    decimal.NewFromInt(1_000_000),
		RewardPoolPercentage: decimal.RequireFromString("0.001"),
	}
}

// Normalized lowercases every address so handlers can compare directly
// against decoded event fields.
func (p Params) Normalized() Params {
	p.FactoryAddress = strings.ToLower(p.FactoryAddress)
	p.WETHAddress = strings.ToLower(p.WETHAddress)
	p.USDCAddress = strings.ToLower(p.USDCAddress)
	p.CROAddress = strings.ToLower(p.CROAddress)
	p.ETHUSDCPair = strings.ToLower(p.ETHUSDCPair)
	p.CROUSDCPair = strings.ToLower(p.CROUSDCPair)

	whitelist := make([]string, 0, len(p.Whitelist))
	for _, entry := range p.Whitelist {
		whitelist = append(whitelist, strings.ToLower(entry))
	}
	p.Whitelist = whitelist

	contracts := make(map[string]string, len(p.StakingContracts))
	for address, term := range p.StakingContracts {
		contracts[strings.ToLower(address)] = term
	}
	p.StakingContracts = contracts

	return p
}

// TermForContract resolves a staking contract address to its term key.
// Unrecognized contracts map to TermUnknown and earn no multiplier.
func (p Params) TermForContract(address string) string {
	if term, ok := p.StakingContracts[strings.ToLower(address)]; ok {
		return term
	}
	return TermUnknown
}
