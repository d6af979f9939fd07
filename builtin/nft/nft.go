// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nft implements a native single-owner non-fungible token with
// approve/transferFrom semantics.
package nft

import (
	"errors"
	"math/big"

	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/state"
)

var (
	errNonexistentToken = errors.New("nonexistent token")
	errAlreadyMinted    = errors.New("token already minted")
	errNotOwner         = errors.New("not owner")
	errNotApproved      = errors.New("not approved")
	errZeroAddress      = errors.New("transfer to zero address")
)

// NFT native binder of a non-fungible token contract.
type NFT struct {
	addr  meter.Address
	state *state.State
}

// New creates a new NFT binder.
func New(addr meter.Address, state *state.State) *NFT {
	return &NFT{addr, state}
}

// Address returns the contract address.
func (n *NFT) Address() meter.Address { return n.addr }

func ownerKey(tokenID *big.Int) meter.Bytes32 {
	return meter.Blake2b([]byte("owner"), tokenID.Bytes())
}

func approvalKey(tokenID *big.Int) meter.Bytes32 {
	return meter.Blake2b([]byte("approval"), tokenID.Bytes())
}

func operatorKey(owner, operator meter.Address) meter.Bytes32 {
	return meter.Blake2b([]byte("operator"), owner[:], operator[:])
}

func (n *NFT) getAddress(key meter.Bytes32) meter.Address {
	return meter.BytesToAddress(n.state.GetStorage(n.addr, key).Bytes())
}

func (n *NFT) setAddress(key meter.Bytes32, addr meter.Address) {
	n.state.SetStorage(n.addr, key, meter.BytesToBytes32(addr.Bytes()))
}

// Mint creates tokenID owned by to.
func (n *NFT) Mint(to meter.Address, tokenID *big.Int) error {
	if to.IsZero() {
		return errZeroAddress
	}
	if !n.getAddress(ownerKey(tokenID)).IsZero() {
		return errAlreadyMinted
	}
	n.setAddress(ownerKey(tokenID), to)
	return nil
}

// OwnerOf returns the owner of tokenID.
func (n *NFT) OwnerOf(tokenID *big.Int) (meter.Address, error) {
	owner := n.getAddress(ownerKey(tokenID))
	if owner.IsZero() {
		return meter.ZeroAddress, errNonexistentToken
	}
	return owner, nil
}

// Approve grants spender the right to transfer tokenID. Caller must be the owner or an operator of the owner.
func (n *NFT) Approve(caller, spender meter.Address, tokenID *big.Int) error {
	owner, err := n.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if caller != owner && !n.IsApprovedForAll(owner, caller) {
		return errNotApproved
	}
	n.setAddress(approvalKey(tokenID), spender)
	return nil
}

// GetApproved returns the approved address of tokenID, zero if none.
func (n *NFT) GetApproved(tokenID *big.Int) meter.Address {
	return n.getAddress(approvalKey(tokenID))
}

// SetApprovalForAll grants or revokes operator over every token of owner.
func (n *NFT) SetApprovalForAll(owner, operator meter.Address, approved bool) {
	var v meter.Bytes32
	if approved {
		v[31] = 1
	}
	n.state.SetStorage(n.addr, operatorKey(owner, operator), v)
}

// IsApprovedForAll returns whether operator may manage every token of owner.
func (n *NFT) IsApprovedForAll(owner, operator meter.Address) bool {
	return !n.state.GetStorage(n.addr, operatorKey(owner, operator)).IsZero()
}

// TransferFrom moves tokenID from -> to on behalf of operator.
func (n *NFT) TransferFrom(operator, from, to meter.Address, tokenID *big.Int) error {
	owner, err := n.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if owner != from {
		return errNotOwner
	}
	if to.IsZero() {
		return errZeroAddress
	}
	if operator != owner && n.GetApproved(tokenID) != operator && !n.IsApprovedForAll(owner, operator) {
		return errNotApproved
	}
	n.setAddress(approvalKey(tokenID), meter.ZeroAddress)
	n.setAddress(ownerKey(tokenID), to)
	return nil
}
