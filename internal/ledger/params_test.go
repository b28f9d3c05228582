package ledger

import "testing"

func TestTermForContract(t *testing.T) {
	params := DefaultParams()

	if term := params.TermForContract(stakingOneYearAddress); term != TermOneYear {
		t.Fatalf("one-year contract resolved to %q", term)
	}
	// Mixed-case input resolves too.
	if term := params.TermForContract("0x4F2BC163C8758D7F88771496F7B0AFDE767045F3"); term != TermFourYear {
		t.Fatalf("four-year contract resolved to %q", term)
	}
	if term := params.TermForContract("0x1111111111111111111111111111111111111111"); term != TermUnknown {
		t.Fatalf("unrecognized contract resolved to %q", term)
	}
}

func TestNormalizedLowercases(t *testing.T) {
	params := Params{
		FactoryAddress: "0xABCDEF0000000000000000000000000000000001",
		WETHAddress:    "0xABCDEF0000000000000000000000000000000002",
		Whitelist:      []string{"0xABCDEF0000000000000000000000000000000002"},
		StakingContracts: map[string]string{
			"0xABCDEF0000000000000000000000000000000003": TermOneYear,
		},
	}.Normalized()

	if params.FactoryAddress != "0xabcdef0000000000000000000000000000000001" {
		t.Fatalf("factory address not lowercased: %s", params.FactoryAddress)
	}
	if params.Whitelist[0] != "0xabcdef0000000000000000000000000000000002" {
		t.Fatalf("whitelist entry not lowercased: %s", params.Whitelist[0])
	}
	if _, ok := params.StakingContracts["0xabcdef0000000000000000000000000000000003"]; !ok {
		t.Fatalf("staking contract key not lowercased: %v", params.StakingContracts)
	}
}
