// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nftauction

import (
	"fmt"
	"math/big"

	"github.com/meterio/meter-nft-auction/builtin"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

// NFT is the single-owner non-fungible collaborator.
type NFT interface {
	OwnerOf(tokenID *big.Int) (meter.Address, error)
	GetApproved(tokenID *big.Int) meter.Address
	IsApprovedForAll(owner, operator meter.Address) bool
	TransferFrom(operator, from, to meter.Address, tokenID *big.Int) error
}

// Token is the fungible collaborator with fixed decimals.
type Token interface {
	Decimals() uint8
	BalanceOf(owner meter.Address) *big.Int
	Allowance(owner, spender meter.Address) *big.Int
	Transfer(from, to meter.Address, amount *big.Int) error
	TransferFrom(spender, from, to meter.Address, amount *big.Int) error
}

// NativeReceiver is implemented by contracts accepting native value.
type NativeReceiver interface {
	OnNativeReceived(from meter.Address, amount *big.Int) error
}

func (p *Proxy) nftAt(st *state.State, addr meter.Address) (NFT, error) {
	if c, ok := p.contract(addr); ok {
		if n, ok := c.(NFT); ok {
			return n, nil
		}
		return nil, errNotContract
	}
	if n, ok := builtin.NFTAt(st, addr); ok {
		return n, nil
	}
	return nil, errNotContract
}

func (p *Proxy) tokenAt(st *state.State, addr meter.Address) (Token, error) {
	if c, ok := p.contract(addr); ok {
		if t, ok := c.(Token); ok {
			return t, nil
		}
		return nil, errNotContract
	}
	if t, ok := builtin.TokenAt(st, addr); ok {
		return t, nil
	}
	return nil, errNotContract
}

func (p *Proxy) oracleAt(st *state.State, addr meter.Address) (Oracle, error) {
	if c, ok := p.contract(addr); ok {
		if o, ok := c.(Oracle); ok {
			return o, nil
		}
		return nil, errNotContract
	}
	if o, ok := builtin.AggregatorAt(st, addr); ok {
		return o, nil
	}
	return nil, errNotContract
}

// custody moves assets in and out of the proxy account for one call.
type custody struct {
	ctx *Context
}

func (c *custody) escrowNft(nftContract meter.Address, tokenID *big.Int, from meter.Address) error {
	nft, err := c.ctx.proxy.nftAt(c.ctx.state, nftContract)
	if err != nil {
		return err
	}
	if err := nft.TransferFrom(AuctionAccountAddr, from, AuctionAccountAddr, tokenID); err != nil {
		return err
	}
	if owner, err := nft.OwnerOf(tokenID); err != nil || owner != AuctionAccountAddr {
		return errEscrowFailed
	}
	return nil
}

func (c *custody) releaseNft(nftContract meter.Address, tokenID *big.Int, to meter.Address) error {
	nft, err := c.ctx.proxy.nftAt(c.ctx.state, nftContract)
	if err != nil {
		return err
	}
	if owner, err := nft.OwnerOf(tokenID); err != nil || owner != AuctionAccountAddr {
		return errNftNotInCustody
	}
	return nft.TransferFrom(AuctionAccountAddr, AuctionAccountAddr, to, tokenID)
}

// pullFunds takes amount of asset from `from` into custody. Native value must be the
// value attached by `from` as transaction origin.
func (c *custody) pullFunds(asset meter.Address, amount *big.Int, from meter.Address) error {
	st := c.ctx.state
	if meter.IsNative(asset) {
		if c.ctx.env.GetAttachedValue().Cmp(amount) != 0 {
			return errAttachedValueUnequal
		}
		if from != c.ctx.env.GetTxOrigin() {
			return errValueNotFromCaller
		}
		if !st.Transfer(from, AuctionAccountAddr, amount) {
			return errInsufficientBalance
		}
		c.ctx.env.AddTransfer(from, AuctionAccountAddr, amount, asset)
		return nil
	}

	token, err := c.ctx.proxy.tokenAt(st, asset)
	if err != nil {
		return err
	}
	before := token.BalanceOf(AuctionAccountAddr)
	if err := token.TransferFrom(AuctionAccountAddr, from, AuctionAccountAddr, amount); err != nil {
		return err
	}
	received := new(big.Int).Sub(token.BalanceOf(AuctionAccountAddr), before)
	if received.Cmp(amount) != 0 {
		return errTransferMismatch
	}
	c.ctx.env.AddTransfer(from, AuctionAccountAddr, amount, asset)
	return nil
}

// pushFunds sends amount of asset from custody to `to`.
func (c *custody) pushFunds(asset meter.Address, amount *big.Int, to meter.Address) error {
	if amount.Sign() == 0 {
		return nil
	}
	st := c.ctx.state
	if meter.IsNative(asset) {
		if !st.Transfer(AuctionAccountAddr, to, amount) {
			return errInsufficientBalance
		}
		c.ctx.env.AddTransfer(AuctionAccountAddr, to, amount, asset)
		return c.notifyNative(to, amount)
	}

	token, err := c.ctx.proxy.tokenAt(st, asset)
	if err != nil {
		return err
	}
	if err := token.Transfer(AuctionAccountAddr, to, amount); err != nil {
		return err
	}
	c.ctx.env.AddTransfer(AuctionAccountAddr, to, amount, asset)
	return nil
}

// notifyNative runs the receive hook of contract recipients. Contracts without one reject native value.
func (c *custody) notifyNative(to meter.Address, amount *big.Int) error {
	if bound, ok := c.ctx.proxy.contract(to); ok {
		r, ok := bound.(NativeReceiver)
		if !ok {
			return errRejectsNativeValue
		}
		if err := r.OnNativeReceived(AuctionAccountAddr, amount); err != nil {
			return fmt.Errorf("%w: %v", errRejectsNativeValue, err)
		}
		return nil
	}
	if builtin.KindOf(c.ctx.state, to) != builtin.KindNone {
		return errRejectsNativeValue
	}
	return nil
}
