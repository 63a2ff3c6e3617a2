package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hhanh00/zcash-walletd/chainclient"
	"github.com/hhanh00/zcash-walletd/common"
	"github.com/hhanh00/zcash-walletd/controller"
	"github.com/hhanh00/zcash-walletd/frontend"
	"github.com/hhanh00/zcash-walletd/notify"
	"github.com/hhanh00/zcash-walletd/pool"
	"github.com/hhanh00/zcash-walletd/rpcsurface"
	"github.com/hhanh00/zcash-walletd/storage"
)

var cfgFile string
var logger = logrus.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "walletd",
	Short: "walletd is a shielded-pool wallet daemon for the Zcash blockchain",
	Long: `walletd scans a compact-block service with a unified full viewing
key, maintains a local event store of received/spent notes, and exposes
a Monero-shaped wallet RPC surface over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := &common.Options{
			HTTPBindAddr:  viper.GetString("port"),
			DBPath:        viper.GetString("db-path"),
			Confirmations: uint32(viper.GetUint64("confirmations")),
			LwdURL:        viper.GetString("lwd-url"),
			LwdTLS:        !viper.GetBool("regtest"),
			NotifyTxURL:   viper.GetString("notify-tx-url"),
			PollInterval:  viper.GetDuration("poll-interval"),
			Regtest:       viper.GetBool("regtest"),
			Orchard:       viper.GetBool("orchard"),
			UFVK:          viper.GetString("vk"),
			BirthHeight:   uint32(viper.GetUint64("birth-height")),
			LogLevel:      uint32(viper.GetUint64("log-level")),
			LogFile:       viper.GetString("log-file"),
		}

		common.Log.Debugf("Options: %#v\n", opts)

		if opts.UFVK == "" {
			common.Log.Fatal("a viewing key (--vk) is required")
		}

		if err := runServer(opts); err != nil {
			common.Log.WithFields(logrus.Fields{
				"error": err,
			}).Fatal("walletd exited")
		}
	},
}

func runServer(opts *common.Options) error {
	if opts.LogFile != "" {
		output, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			common.Log.WithFields(logrus.Fields{
				"error": err,
				"path":  opts.LogFile,
			}).Fatal("couldn't open log file")
		}
		defer output.Close()
		logger.SetOutput(output)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(logrus.Level(opts.LogLevel))

	common.Log.WithFields(logrus.Fields{
		"gitCommit":   common.GitCommit,
		"buildDate":   common.BuildDate,
		"buildUser":   common.BuildUser,
		"vkFingerprint": pool.Fingerprint(opts.UFVK),
		"birthHeight": opts.BirthHeight,
		"orchard":     opts.Orchard,
	}).Infof("Starting walletd process version %s", common.Version)

	ctx := context.Background()
	client, err := chainclient.Dial(ctx, opts.LwdURL, opts.LwdTLS)
	if err != nil {
		return fmt.Errorf("dial lwd at %s: %w", opts.LwdURL, err)
	}
	defer client.Close()

	sapPIVK, orcPIVK, sapNK, orcNK, err := pool.ParseUFVK(opts.UFVK, opts.Orchard)
	if err != nil {
		return fmt.Errorf("parse viewing key: %w", err)
	}

	store, err := storage.Open(opts.DBPath, sapPIVK, orcPIVK)
	if err != nil {
		return fmt.Errorf("open store at %s: %w", opts.DBPath, err)
	}
	defer store.Close()

	ctrl := controller.New(store, client, sapPIVK, orcPIVK, sapNK, orcNK, opts.BirthHeight, opts.Confirmations)
	if opts.NotifyTxURL != "" {
		ctrl.Notifier = notify.New(opts.NotifyTxURL)
	}

	if err := ctrl.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	service := rpcsurface.New(store, client, ctrl, opts.Confirmations)
	handler := frontend.NewHandler(service)

	if opts.PollInterval > 0 {
		go pollLoop(ctx, ctrl, opts.PollInterval)
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: opts.HTTPBindAddr, Handler: mux}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-signals
		common.Log.WithFields(logrus.Fields{
			"signal": s.String(),
		}).Info("caught signal, stopping walletd")
		os.Exit(0)
	}()

	common.Log.Infof("Starting HTTP server on %s", opts.HTTPBindAddr)
	if err := server.ListenAndServe(); err != nil {
		common.Log.WithFields(logrus.Fields{
			"error": err,
		}).Fatal("HTTP server exited")
	}
	return nil
}

// pollLoop calls the controller's RequestScan directly (in-process,
// not via an HTTP self-call) every interval, matching spec.md §6's
// external poller model when no external poller is configured.
func pollLoop(ctx context.Context, ctrl *controller.Controller, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := ctrl.RequestScan(ctx); err != nil {
			common.Log.WithError(err).Warn("poll: scan tick failed")
		}
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is current directory, walletd.yaml)")
	rootCmd.Flags().String("port", "127.0.0.1:8080", "the address to listen for the wallet RPC HTTP surface on")
	rootCmd.Flags().String("db-path", "./walletd.db", "path to the sqlite3 event store")
	rootCmd.Flags().Uint64("confirmations", 10, "confirmations required before a balance is considered unlocked")
	rootCmd.Flags().String("lwd-url", "127.0.0.1:9067", "address of the upstream compact-block service")
	rootCmd.Flags().String("notify-tx-url", "", "URL prefix to GET-notify per new transaction; empty disables notification")
	rootCmd.Flags().Duration("poll-interval", 75*time.Second, "interval between automatic scan ticks; 0 disables the internal poller")
	rootCmd.Flags().Bool("regtest", false, "connect to a local regtest lightwalletd without TLS")
	rootCmd.Flags().Bool("orchard", false, "also scan the Orchard pool (the viewing key must carry an Orchard component)")
	rootCmd.Flags().String("vk", "", "unified full viewing key to scan with")
	rootCmd.Flags().Uint64("birth-height", 0, "height to start scanning from on a fresh wallet")
	rootCmd.Flags().Int("log-level", int(logrus.InfoLevel), "log level (logrus 1-7)")
	rootCmd.Flags().String("log-file", "", "log file to write to; empty logs to stderr")

	viper.BindPFlag("port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("db-path", rootCmd.Flags().Lookup("db-path"))
	viper.BindPFlag("confirmations", rootCmd.Flags().Lookup("confirmations"))
	viper.BindPFlag("lwd-url", rootCmd.Flags().Lookup("lwd-url"))
	viper.BindPFlag("notify-tx-url", rootCmd.Flags().Lookup("notify-tx-url"))
	viper.BindPFlag("poll-interval", rootCmd.Flags().Lookup("poll-interval"))
	viper.BindPFlag("regtest", rootCmd.Flags().Lookup("regtest"))
	viper.BindPFlag("orchard", rootCmd.Flags().Lookup("orchard"))
	viper.BindPFlag("vk", rootCmd.Flags().Lookup("vk"))
	viper.BindPFlag("birth-height", rootCmd.Flags().Lookup("birth-height"))
	viper.BindPFlag("log-level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log-file", rootCmd.Flags().Lookup("log-file"))

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	onexit := func() {
		fmt.Printf("walletd died with a Fatal error. Check logfile for details.\n")
	}

	common.Log = logger.WithFields(logrus.Fields{
		"app": "walletd",
	})

	logrus.RegisterExitHandler(onexit)

	common.Time.Sleep = time.Sleep
	common.Time.Now = time.Now
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("walletd")
	}

	// Replace `-` in config options with `_` for ENV keys.
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix("walletd")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
