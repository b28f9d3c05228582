package ledger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stakeScope/internal/model"
	"stakeScope/internal/units"
)

// HandleStaked records one stake event: an immutable Stake row, global and
// per-staker counters, and the staker's factorB as an online weighted mean of
// all its stake multipliers. Every stake triggers a full reward recompute.
func (l *Ledger) HandleStaked(contractAddress string, data model.StakedEventData, txHash string, timestamp uint64) error {
	croPrice, err := l.oracle.CROPriceInUSD()
	if err != nil {
		return err
	}

	stakeID := strings.ToLower(txHash)
	stakedFor := strings.ToLower(data.User)
	stakedBy := strings.ToLower(data.TxFrom)
	contract := strings.ToLower(contractAddress)

	tokenAmount, err := units.ParseRawAmount(data.Amount, l.params.CRODecimals)
	if err != nil {
		return fmt.Errorf("stake amount: %w", err)
	}
	tokenAmountUSD := tokenAmount.Mul(croPrice)

	term := l.params.TermForContract(contract)
	if term == TermUnknown {
		l.logger.Warn("stake from unrecognized contract", zap.String("contract", contract), zap.String("tx", stakeID))
	}

	stake := model.Stake{
		ID:              stakeID,
		StakedFor:       stakedFor,
		StakedBy:        stakedBy,
		TokenAmount:     tokenAmount,
		TokenAmountUSD:  tokenAmountUSD,
		StakedAt:        timestamp,
		ContractAddress: contract,
		Term:            term,
		UnlockAt:        timestamp + data.LockDuration,
	}
	if err := l.store.SaveStake(stake); err != nil {
		return err
	}

	staking, err := l.getOrCreateStaking()
	if err != nil {
		return err
	}
	staking.StakeCount++
	staking.TotalTokenStaked = staking.TotalTokenStaked.Add(tokenAmount)
	staking.TotalTokenStakedUSD = staking.TotalTokenStakedUSD.Add(tokenAmountUSD)
	staking.Stakes = append(staking.Stakes, stake.ID)

	staker, ok, err := l.store.LoadStaker(stakedFor)
	if err != nil {
		return err
	}
	if !ok {
		staker = model.Staker{ID: stakedFor, Address: stakedFor}
		staking.StakerCount++
	}
	staker.StakeCount++
	staker.TotalTokenStaked = staker.TotalTokenStaked.Add(tokenAmount)
	staker.TotalTokenStakedUSD = staker.TotalTokenStakedUSD.Add(tokenAmountUSD)
	staker.Stakes = append(staker.Stakes, stake.ID)

	if err := l.store.SaveStaker(staker); err != nil {
		return err
	}
	if err := l.store.SaveStaking(staking); err != nil {
		return err
	}

	provider, err := l.getOrCreateProvider(stakedFor)
	if err != nil {
		return err
	}

	// Online weighted mean over stake amounts; no history of past
	// multipliers is needed. Exact decimal arithmetic keeps replays
	// drift-free.
	oldStaked := provider.TotalTokenStaked
	newStaked := oldStaked.Add(tokenAmount)
	if !newStaked.IsZero() {
		weighted := oldStaked.Mul(provider.FactorB).Add(Multiplier(term, tokenAmount).Mul(tokenAmount))
		provider.FactorB = weighted.Div(newStaked)
	}
	provider.TotalTokenStaked = newStaked
	provider.TotalTokenStakedUSD = provider.TotalTokenStakedUSD.Add(tokenAmountUSD)
	if err := l.store.SaveProvider(provider); err != nil {
		return err
	}

	return l.UpdateRewardForAll(timestamp)
}
