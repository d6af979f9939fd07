// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

var (
	errInsufficientBalance   = errors.New("insufficient balance")
	errInsufficientAllowance = errors.New("insufficient allowance")
	errZeroAddress           = errors.New("transfer to zero address")

	decimalsKey    = meter.Blake2b([]byte("decimals"))
	totalSupplyKey = meter.Blake2b([]byte("total-supply"))
)

// Token native binder of a fungible token contract with fixed decimals.
type Token struct {
	addr  meter.Address
	state *state.State
}

// New creates a new token binder.
func New(addr meter.Address, state *state.State) *Token {
	return &Token{addr, state}
}

// Address returns the contract address.
func (t *Token) Address() meter.Address { return t.addr }

func balanceKey(owner meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("balance"), owner[:])
}

func allowanceKey(owner, spender meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("allowance"), owner[:], spender[:])
}

func (t *Token) getBig(key meter.Bytes32) (v *big.Int) {
	t.state.DecodeStorage(t.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			v = &big.Int{}
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	})
	if v == nil {
		v = &big.Int{}
	}
	return
}

func (t *Token) setBig(key meter.Bytes32, v *big.Int) {
	t.state.EncodeStorage(t.addr, key, func() ([]byte, error) {
		if v.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	})
}

// SetDecimals is called once at deploy time.
func (t *Token) SetDecimals(decimals uint8) {
	t.setBig(decimalsKey, big.NewInt(int64(decimals)))
}

// Decimals returns the fixed decimal count of the token.
func (t *Token) Decimals() uint8 {
	return uint8(t.getBig(decimalsKey).Uint64())
}

// TotalSupply returns minted amount.
func (t *Token) TotalSupply() *big.Int {
	return t.getBig(totalSupplyKey)
}

// BalanceOf returns balance of owner.
func (t *Token) BalanceOf(owner meter.Address) *big.Int {
	return t.getBig(balanceKey(owner))
}

// Allowance returns how much spender may still pull from owner.
func (t *Token) Allowance(owner, spender meter.Address) *big.Int {
	return t.getBig(allowanceKey(owner, spender))
}

// Mint credits amount to `to`.
func (t *Token) Mint(to meter.Address, amount *big.Int) {
	t.setBig(balanceKey(to), new(big.Int).Add(t.BalanceOf(to), amount))
	t.setBig(totalSupplyKey, new(big.Int).Add(t.TotalSupply(), amount))
}

// Approve sets the allowance of spender over owner's tokens.
func (t *Token) Approve(owner, spender meter.Address, amount *big.Int) {
	t.setBig(allowanceKey(owner, spender), amount)
}

// Transfer moves amount from -> to.
func (t *Token) Transfer(from, to meter.Address, amount *big.Int) error {
	if to.IsZero() {
		return errZeroAddress
	}
	balance := t.BalanceOf(from)
	if balance.Cmp(amount) < 0 {
		return errInsufficientBalance
	}
	t.setBig(balanceKey(from), new(big.Int).Sub(balance, amount))
	t.setBig(balanceKey(to), new(big.Int).Add(t.BalanceOf(to), amount))
	return nil
}

// TransferFrom moves amount from -> to, consuming spender's allowance.
func (t *Token) TransferFrom(spender, from, to meter.Address, amount *big.Int) error {
	allowance := t.Allowance(from, spender)
	if allowance.Cmp(amount) < 0 {
		return errInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	t.setBig(allowanceKey(from, spender), new(big.Int).Sub(allowance, amount))
	return nil
}
