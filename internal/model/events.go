package model

// SyncEventData is the decoded Sync event payload. Reserves are raw
// unscaled integers.
type SyncEventData struct {
	Reserve0 string `json:"reserve0"`
	Reserve1 string `json:"reserve1"`
}

// TransferEventData is the decoded LP token Transfer payload. FromBalance and
// ToBalance are the raw LP balances after the transfer, read at decode time so
// the processor never touches the chain.
type TransferEventData struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	FromBalance string `json:"from_balance,omitempty"`
	ToBalance   string `json:"to_balance,omitempty"`
}

// StakedEventData is the decoded ERC900 Staked payload. LockDuration is the
// staking contract's configured lock-in, in seconds, read at decode time.
type StakedEventData struct {
	User         string `json:"user"`
	Amount       string `json:"amount"`
	Total        string `json:"total"`
	Data         string `json:"data,omitempty"`
	TxFrom       string `json:"tx_from"`
	LockDuration uint64 `json:"lock_duration"`
}

// PairCreatedEventData is the decoded factory PairCreated payload, enriched
// with token decimals at decode time.
type PairCreatedEventData struct {
	Token0         string `json:"token0"`
	Token1         string `json:"token1"`
	Pair           string `json:"pair"`
	Token0Decimals int32  `json:"token0_decimals"`
	Token1Decimals int32  `json:"token1_decimals"`
}
