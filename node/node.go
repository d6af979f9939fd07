// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/meterio/meter-nft-auction/api"
	"github.com/meterio/meter-nft-auction/builtin"
	"github.com/meterio/meter-nft-auction/lvldb"
	"github.com/meterio/meter-nft-auction/meter"
	"github.com/meterio/meter-nft-auction/script"
	"github.com/meterio/meter-nft-auction/script/nftauction"
	setypes "github.com/meterio/meter-nft-auction/script/types"
	"github.com/meterio/meter-nft-auction/state"
	"github.com/meterio/meter-nft-auction/tx"
	"github.com/meterio/meter-nft-auction/xenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	txCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "node_txs_total",
		Help: "Counter of executed transactions by result",
	}, []string{"result"})
	txDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "node_tx_duration_seconds",
		Help:    "Time to execute and commit a transaction",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)

// Node executes auction transactions one at a time over a persistent state and serves reads.
type Node struct {
	cfg      *Config
	db       *lvldb.LevelDB
	creator  *state.Creator
	engine   *script.ScriptEngine
	proxy    *nftauction.Proxy
	registry *prometheus.Registry
	clock    func() uint64
	logger   *slog.Logger

	mu     sync.Mutex
	number uint32
}

// Option customizes a node.
type Option func(*Node)

// WithClock sets the clock every transaction and read sees.
func WithClock(clock func() uint64) Option {
	return func(n *Node) { n.clock = clock }
}

// New opens the store and applies genesis if no auction is deployed yet.
func New(cfg *Config, opts ...Option) (*Node, error) {
	var (
		db  *lvldb.LevelDB
		err error
	)
	if cfg.DataDir == "" {
		db, err = lvldb.NewMem()
	} else {
		db, err = lvldb.New(cfg.DataDir, lvldb.Options{})
	}
	if err != nil {
		return nil, err
	}

	n := &Node{
		cfg:      cfg,
		db:       db,
		creator:  state.NewCreator(db),
		engine:   script.NewScriptEngine(),
		proxy:    nftauction.NewProxy(),
		registry: prometheus.NewRegistry(),
		clock:    func() uint64 { return uint64(time.Now().Unix()) },
		logger:   slog.Default().With("pkg", "node"),
	}
	for _, opt := range opts {
		opt(n)
	}
	script.ModuleNftAuctionInit(n.engine, n.proxy)

	if err := n.registerMetrics(); err != nil {
		db.Close()
		return nil, err
	}
	if err := n.applyGenesis(); err != nil {
		db.Close()
		return nil, err
	}
	return n, nil
}

func (n *Node) registerMetrics() error {
	for _, c := range []prometheus.Collector{
		txCounter,
		txDuration,
		collectors.NewGoCollector(),
	} {
		if err := n.registry.Register(c); err != nil {
			return err
		}
	}
	return nftauction.RegisterMetrics(n.registry)
}

func (n *Node) applyGenesis() error {
	st, err := n.creator.NewState()
	if err != nil {
		return err
	}
	if !n.proxy.Implementation(st).IsZero() {
		n.logger.Info("auction already deployed", "impl", n.proxy.Implementation(st), "root", st.Root())
		return nil
	}

	g := n.cfg.Genesis
	impl, err := g.implementation()
	if err != nil {
		return err
	}
	deployer, err := parseAddress("deployer", g.Deployer)
	if err != nil {
		return err
	}
	admin, err := parseAddress("admin", g.Admin)
	if err != nil {
		return err
	}

	for _, a := range g.Accounts {
		addr, err := parseAddress("account", a.Address)
		if err != nil {
			return err
		}
		balance, err := parseAmount("balance", a.Balance)
		if err != nil {
			return err
		}
		st.SetBalance(addr, balance)
	}
	for _, s := range g.NFTs {
		addr, err := parseAddress("nft", s)
		if err != nil {
			return err
		}
		builtin.DeployNFT(st, addr)
	}
	for _, t := range g.Tokens {
		addr, err := parseAddress("token", t.Address)
		if err != nil {
			return err
		}
		builtin.DeployToken(st, addr, t.Decimals)
	}

	now := n.clock()
	env := setypes.NewScriptEnv(st, &xenv.BlockContext{Number: 0, Time: now}, &xenv.TransactionContext{Origin: deployer}, nftauction.AuctionAccountAddr)
	if err := n.proxy.Deploy(env, deployer, admin, impl); err != nil {
		return errors.Wrap(err, "deploy auction")
	}
	if admin.IsZero() {
		admin = deployer
	}
	if g.MaxPriceAge > 0 {
		if err := n.proxy.SetMaxPriceAge(env, admin, g.MaxPriceAge); err != nil {
			return errors.Wrap(err, "set max price age")
		}
	}
	for _, f := range g.Feeds {
		asset, err := parseAddress("feed asset", f.Asset)
		if err != nil {
			return err
		}
		oracle, err := parseAddress("feed oracle", f.Oracle)
		if err != nil {
			return err
		}
		if f.Price != "" {
			price, err := parseAmount("feed price", f.Price)
			if err != nil {
				return err
			}
			builtin.DeployAggregator(st, oracle, price, f.PriceDecimals, now)
		}
		if err := n.proxy.RegisterFeed(env, admin, asset, oracle, f.Decimals); err != nil {
			return errors.Wrapf(err, "register feed %v", asset)
		}
	}

	root, err := st.Stage().Commit()
	if err != nil {
		return err
	}
	n.logger.Info("genesis applied", "impl", impl, "deployer", deployer, "admin", admin, "feeds", len(g.Feeds), "root", root)
	return nil
}

// Execute runs tx and commits its changes. A failed transaction leaves the state untouched.
func (n *Node) Execute(t *tx.Transaction) (*setypes.ScriptEngineOutput, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	start := time.Now()
	defer func() { txDuration.Observe(time.Since(start).Seconds()) }()

	st, err := n.creator.NewState()
	if err != nil {
		return nil, err
	}
	blockCtx := &xenv.BlockContext{Number: n.number + 1, Time: n.clock()}
	txCtx := &xenv.TransactionContext{
		ID:     t.ID(),
		Origin: t.Origin(),
		Value:  t.Value(),
		Nonce:  t.Nonce(),
	}

	output, err := n.engine.ExecuteClause(st, blockCtx, txCtx, t.To(), t.Data())
	if err != nil {
		txCounter.WithLabelValues("reverted").Inc()
		n.logger.Debug("tx reverted", "id", t.ID(), "origin", t.Origin(), "err", err)
		return output, err
	}
	root, err := st.Stage().Commit()
	if err != nil {
		txCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	n.number++
	txCounter.WithLabelValues("ok").Inc()
	n.logger.Debug("tx committed", "id", t.ID(), "number", n.number, "root", root, "transfers", len(output.GetTransfers()), "events", len(output.GetEvents()), "elapsed", meter.PrettyDuration(time.Since(start)))
	return output, nil
}

// State returns a view of the latest committed state.
func (n *Node) State() (*state.State, error) {
	return n.creator.NewState()
}

func (n *Node) Proxy() *nftauction.Proxy { return n.proxy }

// Handler serves the read api and /metrics.
func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", api.New(n.creator, n.proxy, n.clock, n.cfg.APICors))
	return mux
}

// Serve serves Handler on the configured address until ctx is done.
func (n *Node) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", n.cfg.APIAddr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", n.cfg.APIAddr)
	}
	return n.serve(ctx, listener)
}

func (n *Node) serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{Handler: n.Handler(), ReadHeaderTimeout: time.Second * 5}
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(listener)
	}()
	n.logger.Info("API started", "addr", listener.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-done
		n.logger.Info("API stopped")
		return err
	case err := <-done:
		return err
	}
}

// Close releases the store.
func (n *Node) Close() error {
	return n.db.Close()
}
