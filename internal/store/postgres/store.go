package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// Store provides Postgres persistence for ledger entities. Decimal values
// are stored as text so replays round-trip without precision loss.
type Store struct {
	ctx  context.Context
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{ctx: ctx, pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) LoadPrice(id string) (model.Price, bool, error) {
	var (
		price    model.Price
		eth, cro string
	)
	row := s.pool.QueryRow(s.ctx, `SELECT id, eth, cro FROM prices WHERE id=$1`, id)
	if err := row.Scan(&price.ID, &eth, &cro); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Price{}, false, nil
		}
		return model.Price{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{&price.ETH: eth, &price.CRO: cro}); err != nil {
		return model.Price{}, false, err
	}
	return price, true, nil
}

func (s *Store) SavePrice(price model.Price) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO prices (id, eth, cro, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			eth = EXCLUDED.eth,
			cro = EXCLUDED.cro,
			updated_at = now()
	`, price.ID, price.ETH.String(), price.CRO.String())
	return err
}

func (s *Store) SavePriceHistory(history model.HourlyPriceHistory) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO price_history (id, ts, eth, cro, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			ts = EXCLUDED.ts,
			eth = EXCLUDED.eth,
			cro = EXCLUDED.cro,
			updated_at = now()
	`, history.ID, int64(history.Timestamp), history.ETH.String(), history.CRO.String())
	return err
}

func (s *Store) LoadToken(id string) (model.Token, bool, error) {
	var (
		token                     model.Token
		derivedETH, totalLiquidity string
	)
	row := s.pool.QueryRow(s.ctx, `SELECT id, decimals, derived_eth, total_liquidity FROM tokens WHERE id=$1`, id)
	if err := row.Scan(&token.ID, &token.Decimals, &derivedETH, &totalLiquidity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Token{}, false, nil
		}
		return model.Token{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&token.DerivedETH:     derivedETH,
		&token.TotalLiquidity: totalLiquidity,
	}); err != nil {
		return model.Token{}, false, err
	}
	return token, true, nil
}

func (s *Store) SaveToken(token model.Token) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO tokens (id, decimals, derived_eth, total_liquidity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			decimals = EXCLUDED.decimals,
			derived_eth = EXCLUDED.derived_eth,
			total_liquidity = EXCLUDED.total_liquidity,
			updated_at = now()
	`, token.ID, token.Decimals, token.DerivedETH.String(), token.TotalLiquidity.String())
	return err
}

func (s *Store) LoadPair(id string) (model.Pair, bool, error) {
	var (
		pair model.Pair
		text [8]string
	)
	row := s.pool.QueryRow(s.ctx, `
		SELECT id, token0, token1, reserve0, reserve1, token0_price, token1_price,
		       reserve_eth, reserve_usd, tracked_reserve_eth, total_supply, liquidity_positions
		FROM pairs WHERE id=$1
	`, id)
	err := row.Scan(
		&pair.ID, &pair.Token0, &pair.Token1,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5], &text[6], &text[7],
		&pair.LiquidityPositions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Pair{}, false, nil
		}
		return model.Pair{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&pair.Reserve0:          text[0],
		&pair.Reserve1:          text[1],
		&pair.Token0Price:       text[2],
		&pair.Token1Price:       text[3],
		&pair.ReserveETH:        text[4],
		&pair.ReserveUSD:        text[5],
		&pair.TrackedReserveETH: text[6],
		&pair.TotalSupply:       text[7],
	}); err != nil {
		return model.Pair{}, false, err
	}
	return pair, true, nil
}

func (s *Store) SavePair(pair model.Pair) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO pairs (
			id, token0, token1, reserve0, reserve1, token0_price, token1_price,
			reserve_eth, reserve_usd, tracked_reserve_eth, total_supply, liquidity_positions, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		ON CONFLICT (id) DO UPDATE SET
			token0 = EXCLUDED.token0,
			token1 = EXCLUDED.token1,
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			token0_price = EXCLUDED.token0_price,
			token1_price = EXCLUDED.token1_price,
			reserve_eth = EXCLUDED.reserve_eth,
			reserve_usd = EXCLUDED.reserve_usd,
			tracked_reserve_eth = EXCLUDED.tracked_reserve_eth,
			total_supply = EXCLUDED.total_supply,
			liquidity_positions = EXCLUDED.liquidity_positions,
			updated_at = now()
	`,
		pair.ID, pair.Token0, pair.Token1,
		pair.Reserve0.String(), pair.Reserve1.String(),
		pair.Token0Price.String(), pair.Token1Price.String(),
		pair.ReserveETH.String(), pair.ReserveUSD.String(),
		pair.TrackedReserveETH.String(), pair.TotalSupply.String(),
		pair.LiquidityPositions,
	)
	return err
}

func (s *Store) PairFor(token, quote string) (string, bool, error) {
	var id string
	row := s.pool.QueryRow(s.ctx, `
		SELECT id FROM pairs
		WHERE (token0=$1 AND token1=$2) OR (token0=$2 AND token1=$1)
	`, token, quote)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func (s *Store) LoadFactory(id string) (model.Factory, bool, error) {
	var (
		factory  model.Factory
		eth, usd string
	)
	row := s.pool.QueryRow(s.ctx, `SELECT id, pair_count, total_liquidity_eth, total_liquidity_usd FROM factories WHERE id=$1`, id)
	if err := row.Scan(&factory.ID, &factory.PairCount, &eth, &usd); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Factory{}, false, nil
		}
		return model.Factory{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&factory.TotalLiquidityETH: eth,
		&factory.TotalLiquidityUSD: usd,
	}); err != nil {
		return model.Factory{}, false, err
	}
	return factory, true, nil
}

func (s *Store) SaveFactory(factory model.Factory) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO factories (id, pair_count, total_liquidity_eth, total_liquidity_usd, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			pair_count = EXCLUDED.pair_count,
			total_liquidity_eth = EXCLUDED.total_liquidity_eth,
			total_liquidity_usd = EXCLUDED.total_liquidity_usd,
			updated_at = now()
	`, factory.ID, factory.PairCount, factory.TotalLiquidityETH.String(), factory.TotalLiquidityUSD.String())
	return err
}

func (s *Store) LoadProvider(id string) (model.LiquidityProvider, bool, error) {
	var (
		provider model.LiquidityProvider
		text     [9]string
	)
	row := s.pool.QueryRow(s.ctx, `
		SELECT id, address, liquidity_positions,
		       total_liquidity_provided_eth, total_liquidity_provided_usd,
		       total_token_staked, total_token_staked_usd,
		       share, factor_a, factor_b, crops, reward
		FROM providers WHERE id=$1
	`, id)
	err := row.Scan(
		&provider.ID, &provider.Address, &provider.LiquidityPositions,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5], &text[6], &text[7], &text[8],
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LiquidityProvider{}, false, nil
		}
		return model.LiquidityProvider{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&provider.TotalLiquidityProvidedETH: text[0],
		&provider.TotalLiquidityProvidedUSD: text[1],
		&provider.TotalTokenStaked:          text[2],
		&provider.TotalTokenStakedUSD:       text[3],
		&provider.Share:                     text[4],
		&provider.FactorA:                   text[5],
		&provider.FactorB:                   text[6],
		&provider.Crops:                     text[7],
		&provider.Reward:                    text[8],
	}); err != nil {
		return model.LiquidityProvider{}, false, err
	}
	return provider, true, nil
}

func (s *Store) SaveProvider(provider model.LiquidityProvider) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO providers (
			id, address, liquidity_positions,
			total_liquidity_provided_eth, total_liquidity_provided_usd,
			total_token_staked, total_token_staked_usd,
			share, factor_a, factor_b, crops, reward, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address,
			liquidity_positions = EXCLUDED.liquidity_positions,
			total_liquidity_provided_eth = EXCLUDED.total_liquidity_provided_eth,
			total_liquidity_provided_usd = EXCLUDED.total_liquidity_provided_usd,
			total_token_staked = EXCLUDED.total_token_staked,
			total_token_staked_usd = EXCLUDED.total_token_staked_usd,
			share = EXCLUDED.share,
			factor_a = EXCLUDED.factor_a,
			factor_b = EXCLUDED.factor_b,
			crops = EXCLUDED.crops,
			reward = EXCLUDED.reward,
			updated_at = now()
	`,
		provider.ID, provider.Address, provider.LiquidityPositions,
		provider.TotalLiquidityProvidedETH.String(), provider.TotalLiquidityProvidedUSD.String(),
		provider.TotalTokenStaked.String(), provider.TotalTokenStakedUSD.String(),
		provider.Share.String(), provider.FactorA.String(), provider.FactorB.String(),
		provider.Crops.String(), provider.Reward.String(),
	)
	return err
}

func (s *Store) LoadPosition(id string) (model.LiquidityPosition, bool, error) {
	var (
		position model.LiquidityPosition
		text     [6]string
	)
	row := s.pool.QueryRow(s.ctx, `
		SELECT id, pair, provider, reserve_eth, reserve_usd,
		       liquidity_token_balance, total_supply,
		       liquidity_provided_eth, liquidity_provided_usd
		FROM positions WHERE id=$1
	`, id)
	err := row.Scan(
		&position.ID, &position.Pair, &position.Provider,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5],
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LiquidityPosition{}, false, nil
		}
		return model.LiquidityPosition{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&position.ReserveETH:            text[0],
		&position.ReserveUSD:            text[1],
		&position.LiquidityTokenBalance: text[2],
		&position.TotalSupply:           text[3],
		&position.LiquidityProvidedETH:  text[4],
		&position.LiquidityProvidedUSD:  text[5],
	}); err != nil {
		return model.LiquidityPosition{}, false, err
	}
	return position, true, nil
}

func (s *Store) SavePosition(position model.LiquidityPosition) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO positions (
			id, pair, provider, reserve_eth, reserve_usd,
			liquidity_token_balance, total_supply,
			liquidity_provided_eth, liquidity_provided_usd, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
		ON CONFLICT (id) DO UPDATE SET
			pair = EXCLUDED.pair,
			provider = EXCLUDED.provider,
			reserve_eth = EXCLUDED.reserve_eth,
			reserve_usd = EXCLUDED.reserve_usd,
			liquidity_token_balance = EXCLUDED.liquidity_token_balance,
			total_supply = EXCLUDED.total_supply,
			liquidity_provided_eth = EXCLUDED.liquidity_provided_eth,
			liquidity_provided_usd = EXCLUDED.liquidity_provided_usd,
			updated_at = now()
	`,
		position.ID, position.Pair, position.Provider,
		position.ReserveETH.String(), position.ReserveUSD.String(),
		position.LiquidityTokenBalance.String(), position.TotalSupply.String(),
		position.LiquidityProvidedETH.String(), position.LiquidityProvidedUSD.String(),
	)
	return err
}

func (s *Store) LoadStaking(id string) (model.Staking, bool, error) {
	var (
		staking model.Staking
		text    [3]string
	)
	row := s.pool.QueryRow(s.ctx, `
		SELECT id, stake_count, staker_count, total_token_staked, total_token_staked_usd,
		       total_crops, stakes, liquidity_providers
		FROM stakings WHERE id=$1
	`, id)
	err := row.Scan(
		&staking.ID, &staking.StakeCount, &staking.StakerCount,
		&text[0], &text[1], &text[2],
		&staking.Stakes, &staking.LiquidityProviders,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Staking{}, false, nil
		}
		return model.Staking{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&staking.TotalTokenStaked:    text[0],
		&staking.TotalTokenStakedUSD: text[1],
		&staking.TotalCrops:          text[2],
	}); err != nil {
		return model.Staking{}, false, err
	}
	return staking, true, nil
}

func (s *Store) SaveStaking(staking model.Staking) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO stakings (
			id, stake_count, staker_count, total_token_staked, total_token_staked_usd,
			total_crops, stakes, liquidity_providers, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (id) DO UPDATE SET
			stake_count = EXCLUDED.stake_count,
			staker_count = EXCLUDED.staker_count,
			total_token_staked = EXCLUDED.total_token_staked,
			total_token_staked_usd = EXCLUDED.total_token_staked_usd,
			total_crops = EXCLUDED.total_crops,
			stakes = EXCLUDED.stakes,
			liquidity_providers = EXCLUDED.liquidity_providers,
			updated_at = now()
	`,
		staking.ID, staking.StakeCount, staking.StakerCount,
		staking.TotalTokenStaked.String(), staking.TotalTokenStakedUSD.String(),
		staking.TotalCrops.String(), staking.Stakes, staking.LiquidityProviders,
	)
	return err
}

func (s *Store) LoadStaker(id string) (model.Staker, bool, error) {
	var (
		staker model.Staker
		text   [2]string
	)
	row := s.pool.QueryRow(s.ctx, `
		SELECT id, address, stake_count, total_token_staked, total_token_staked_usd, stakes
		FROM stakers WHERE id=$1
	`, id)
	err := row.Scan(&staker.ID, &staker.Address, &staker.StakeCount, &text[0], &text[1], &staker.Stakes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Staker{}, false, nil
		}
		return model.Staker{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&staker.TotalTokenStaked:    text[0],
		&staker.TotalTokenStakedUSD: text[1],
	}); err != nil {
		return model.Staker{}, false, err
	}
	return staker, true, nil
}

func (s *Store) SaveStaker(staker model.Staker) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO stakers (id, address, stake_count, total_token_staked, total_token_staked_usd, stakes, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address,
			stake_count = EXCLUDED.stake_count,
			total_token_staked = EXCLUDED.total_token_staked,
			total_token_staked_usd = EXCLUDED.total_token_staked_usd,
			stakes = EXCLUDED.stakes,
			updated_at = now()
	`,
		staker.ID, staker.Address, staker.StakeCount,
		staker.TotalTokenStaked.String(), staker.TotalTokenStakedUSD.String(), staker.Stakes,
	)
	return err
}

func (s *Store) LoadStake(id string) (model.Stake, bool, error) {
	var (
		stake              model.Stake
		amount, amountUSD  string
		stakedAt, unlockAt int64
	)
	row := s.pool.QueryRow(s.ctx, `
		SELECT id, staked_for, staked_by, token_amount, token_amount_usd,
		       staked_at, contract_address, term, unlock_at
		FROM stakes WHERE id=$1
	`, id)
	err := row.Scan(
		&stake.ID, &stake.StakedFor, &stake.StakedBy, &amount, &amountUSD,
		&stakedAt, &stake.ContractAddress, &stake.Term, &unlockAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Stake{}, false, nil
		}
		return model.Stake{}, false, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&stake.TokenAmount:    amount,
		&stake.TokenAmountUSD: amountUSD,
	}); err != nil {
		return model.Stake{}, false, err
	}
	stake.StakedAt = uint64(stakedAt)
	stake.UnlockAt = uint64(unlockAt)
	return stake, true, nil
}

func (s *Store) SaveStake(stake model.Stake) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO stakes (
			id, staked_for, staked_by, token_amount, token_amount_usd,
			staked_at, contract_address, term, unlock_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
		ON CONFLICT (id) DO UPDATE SET
			staked_for = EXCLUDED.staked_for,
			staked_by = EXCLUDED.staked_by,
			token_amount = EXCLUDED.token_amount,
			token_amount_usd = EXCLUDED.token_amount_usd,
			staked_at = EXCLUDED.staked_at,
			contract_address = EXCLUDED.contract_address,
			term = EXCLUDED.term,
			unlock_at = EXCLUDED.unlock_at,
			updated_at = now()
	`,
		stake.ID, stake.StakedFor, stake.StakedBy,
		stake.TokenAmount.String(), stake.TokenAmountUSD.String(),
		int64(stake.StakedAt), stake.ContractAddress, stake.Term, int64(stake.UnlockAt),
	)
	return err
}

func (s *Store) SaveStakingSnapshot(snapshot model.StakingSnapshot) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO staking_snapshots (
			id, ts, stake_count, staker_count, total_token_staked, total_token_staked_usd, total_crops, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (id) DO UPDATE SET
			ts = EXCLUDED.ts,
			stake_count = EXCLUDED.stake_count,
			staker_count = EXCLUDED.staker_count,
			total_token_staked = EXCLUDED.total_token_staked,
			total_token_staked_usd = EXCLUDED.total_token_staked_usd,
			total_crops = EXCLUDED.total_crops,
			updated_at = now()
	`,
		snapshot.ID, int64(snapshot.Timestamp), snapshot.StakeCount, snapshot.StakerCount,
		snapshot.TotalTokenStaked.String(), snapshot.TotalTokenStakedUSD.String(), snapshot.TotalCrops.String(),
	)
	return err
}

func (s *Store) SaveRewardSnapshot(snapshot model.RewardPositionSnapshot) error {
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO reward_snapshots (
			id, ts, address, liquidity_provider,
			total_liquidity_provided_eth, total_liquidity_provided_usd,
			total_token_staked, total_token_staked_usd,
			share, factor_a, factor_b, crops, reward, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())
		ON CONFLICT (id) DO UPDATE SET
			ts = EXCLUDED.ts,
			address = EXCLUDED.address,
			liquidity_provider = EXCLUDED.liquidity_provider,
			total_liquidity_provided_eth = EXCLUDED.total_liquidity_provided_eth,
			total_liquidity_provided_usd = EXCLUDED.total_liquidity_provided_usd,
			total_token_staked = EXCLUDED.total_token_staked,
			total_token_staked_usd = EXCLUDED.total_token_staked_usd,
			share = EXCLUDED.share,
			factor_a = EXCLUDED.factor_a,
			factor_b = EXCLUDED.factor_b,
			crops = EXCLUDED.crops,
			reward = EXCLUDED.reward,
			updated_at = now()
	`,
		snapshot.ID, int64(snapshot.Timestamp), snapshot.Address, snapshot.LiquidityProvider,
		snapshot.TotalLiquidityProvidedETH.String(), snapshot.TotalLiquidityProvidedUSD.String(),
		snapshot.TotalTokenStaked.String(), snapshot.TotalTokenStakedUSD.String(),
		snapshot.Share.String(), snapshot.FactorA.String(), snapshot.FactorB.String(),
		snapshot.Crops.String(), snapshot.Reward.String(),
	)
	return err
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(s.ctx, `SELECT last_processed_ts FROM processor_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO processor_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, int64(ts))
	return err
}

// State adapts one named row of processor_state to the StateStore boundary.
type State struct {
	store *Store
	name  string
}

func NewState(store *Store, name string) *State {
	return &State{store: store, name: name}
}

func (s *State) Load() (uint64, bool, error) {
	return s.store.LoadState(s.name)
}

func (s *State) Save(ts uint64) error {
	return s.store.SaveState(s.name, ts)
}

func parseDecimals(fields map[*decimal.Decimal]string) error {
	for target, text := range fields {
		if text == "" {
			*target = decimal.Zero
			continue
		}
		value, err := decimal.NewFromString(text)
		if err != nil {
			return fmt.Errorf("parse decimal %q: %w", text, err)
		}
		*target = value
	}
	return nil
}
