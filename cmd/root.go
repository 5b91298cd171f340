package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/mezonai/tokencore/config"
	"github.com/mezonai/tokencore/exception"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/monitoring"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/spf13/cobra"
)

type GlobalConfig struct {
	ConfigPath  string
	Height      uint64
	Time        uint64
	MetricsAddr string
}

var globalConfig GlobalConfig

var rootCmd = &cobra.Command{
	Use:          "tokencore",
	Short:        "Token ledger CLI",
	Long:         "Command line interface for instantiating and operating a tokencore ledger.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalConfig.ConfigPath, "config", "c", config.DefaultNodePath, "node config file (ini)")
	rootCmd.PersistentFlags().Uint64Var(&globalConfig.Height, "height", 0, "ledger height the operation executes at (default head+1)")
	rootCmd.PersistentFlags().Uint64Var(&globalConfig.Time, "time", 0, "block time in unix seconds (default now)")
	rootCmd.PersistentFlags().StringVar(&globalConfig.MetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}

// currentEnv is the ledger position taken from the global flags
func currentEnv() types.Env {
	now := globalConfig.Time
	if now == 0 {
		now = uint64(time.Now().Unix())
	}
	return types.Env{Height: globalConfig.Height, Time: now}
}

// operationEnv is the position a mutating command executes at. Without
// --height it is one past the stored head, or 0 on an empty store.
func operationEnv(svc headReader) (types.Env, error) {
	env := currentEnv()
	if rootCmd.PersistentFlags().Changed("height") {
		return env, nil
	}
	head, ok, err := svc.Head()
	if err != nil {
		return env, err
	}
	if ok {
		env.Height = head + 1
	}
	return env, nil
}

type headReader interface {
	Head() (uint64, bool, error)
}

// openService opens the configured store and builds the token service.
// The returned func closes the store.
func openService() (*service.TokenService, func(), error) {
	nodeCfg, err := config.LoadNodeConfig(globalConfig.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	addr := globalConfig.MetricsAddr
	if addr == "" {
		addr = nodeCfg.Metrics.Addr
	}
	if addr != "" {
		startMetricsServer(addr)
	}

	provider, err := store.CreateProvider(&nodeCfg.Store)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := provider.Close(); err != nil {
			logx.Error("CMD", "failed to close store:", err)
		}
	}
	return service.NewTokenService(provider, nodeCfg.ServiceOptions()), closeFn, nil
}

func startMetricsServer(addr string) {
	monitoring.InitMetrics()
	mux := http.NewServeMux()
	monitoring.RegisterMetrics(mux)
	exception.SafeGo("MetricsServer", func() {
		logx.Info("METRICS", "serving metrics on", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logx.Error("METRICS", "metrics server stopped:", err)
		}
	})
}
