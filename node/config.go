// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"
	"os"

	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script/nftauction"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config of a node. Addresses are hex strings, amounts decimal strings.
type Config struct {
	// DataDir holds the leveldb files; empty runs in memory.
	DataDir  string `yaml:"dataDir"`
	APIAddr  string `yaml:"apiAddr"`
	APICors  string `yaml:"apiCors"`
	LogLevel string `yaml:"logLevel"`
	// LogColor is one of auto, always, never.
	LogColor string `yaml:"logColor"`

	Genesis Genesis `yaml:"genesis"`
}

// Genesis is applied once, when the store has no auction deployed.
type Genesis struct {
	Deployer       string          `yaml:"deployer"`
	Admin          string          `yaml:"admin"`
	Implementation string          `yaml:"implementation"` // v1 or v2
	MaxPriceAge    uint64          `yaml:"maxPriceAge"`
	Accounts       []AccountConfig `yaml:"accounts"`
	NFTs           []string        `yaml:"nfts"`
	Tokens         []TokenConfig   `yaml:"tokens"`
	Feeds          []FeedConfig    `yaml:"feeds"`
}

type AccountConfig struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

type TokenConfig struct {
	Address  string `yaml:"address"`
	Decimals uint8  `yaml:"decimals"`
}

// FeedConfig registers Asset. When Price is set a native aggregator answering it is deployed at Oracle.
type FeedConfig struct {
	Asset         string `yaml:"asset"`
	Decimals      uint8  `yaml:"decimals"`
	Oracle        string `yaml:"oracle"`
	Price         string `yaml:"price"`
	PriceDecimals uint8  `yaml:"priceDecimals"`
}

// DefaultConfig returns a config of an in-memory node.
func DefaultConfig() *Config {
	return &Config{
		APIAddr:  "localhost:8669",
		APICors:  "*",
		LogLevel: "info",
		LogColor: "auto",
		Genesis: Genesis{
			Implementation: "v2",
		},
	}
}

// LoadConfig reads a yaml config, unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %v", path)
	}
	if _, err := cfg.Genesis.implementation(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *Genesis) implementation() (meter.Address, error) {
	switch g.Implementation {
	case "v1":
		return nftauction.LogicV1Addr, nil
	case "", "v2":
		return nftauction.LogicV2Addr, nil
	default:
		return meter.Address{}, errors.Errorf("unknown implementation %q", g.Implementation)
	}
}

func parseAddress(field, s string) (meter.Address, error) {
	if s == "" {
		return meter.Address{}, nil
	}
	addr, err := meter.ParseAddress(s)
	if err != nil {
		return meter.Address{}, errors.WithMessage(err, field)
	}
	return addr, nil
}

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("%v: invalid amount %q", field, s)
	}
	return v, nil
}
