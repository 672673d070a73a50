// kangaroo is the command-line driver for the interval-ECDLP solver: it
// runs the engine directly or serves the JSON control surface.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ecdlp/kangaroo"
	"github.com/ecdlp/kangaroo/address"
	"github.com/ecdlp/kangaroo/web"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration `file`",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity (0=crit .. 5=trace)",
		Value: 3,
	}
	pubkeyFlag = &cli.StringFlag{
		Name:  "pubkey",
		Usage: "target public key `hex` (uncompressed 04... or compressed 02/03...)",
	}
	rangeStartFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "interval start, `hex`",
	}
	rangeEndFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "interval end (exclusive), `hex`",
	}
	threadsFlag = &cli.IntFlag{
		Name:  "threads",
		Usage: "worker count (clamped to 1..64)",
	}
	dpBitsFlag = &cli.IntFlag{
		Name:  "dp-bits",
		Usage: "distinguished-point bits (clamped to 8..32)",
	}
	checkpointFlag = &cli.StringFlag{
		Name:  "checkpoint",
		Usage: "checkpoint `file`; run loads it at startup when present",
	}
	checkpointIntervalFlag = &cli.IntFlag{
		Name:  "checkpoint-interval",
		Usage: "seconds between automatic checkpoints (0 disables)",
	}
	watchFlag = &cli.StringFlag{
		Name:  "watch",
		Usage: "`file` of addresses to match the solved key against",
	}
	httpFlag = &cli.StringFlag{
		Name:  "http",
		Usage: "listen `address` for the JSON control surface",
	}
)

func main() {
	app := &cli.App{
		Name:  "kangaroo",
		Usage: "parallel Pollard's kangaroo solver for secp256k1 interval ECDLP",
		Flags: []cli.Flag{configFlag, verbosityFlag},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "solve a range and report the key",
				Flags: []cli.Flag{
					pubkeyFlag, rangeStartFlag, rangeEndFlag, threadsFlag, dpBitsFlag,
					checkpointFlag, checkpointIntervalFlag, watchFlag,
				},
				Action: runSolver,
			},
			{
				Name:   "serve",
				Usage:  "expose the solver over the JSON control surface",
				Flags:  []cli.Flag{pubkeyFlag, rangeStartFlag, rangeEndFlag, threadsFlag, dpBitsFlag, checkpointFlag, httpFlag},
				Action: runServer,
			},
		},
		Before: setupLogging,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	handler := log.NewTerminalHandlerWithLevel(os.Stderr,
		log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)), false)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

// mergedConfig resolves the TOML file, then lets flags win.
func mergedConfig(ctx *cli.Context) (Config, error) {
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return cfg, err
	}
	if v := ctx.String(pubkeyFlag.Name); v != "" {
		cfg.TargetPubKey = v
	}
	if v := ctx.String(rangeStartFlag.Name); v != "" {
		cfg.RangeStart = v
	}
	if v := ctx.String(rangeEndFlag.Name); v != "" {
		cfg.RangeEnd = v
	}
	if ctx.IsSet(threadsFlag.Name) {
		cfg.Threads = ctx.Int(threadsFlag.Name)
	}
	if ctx.IsSet(dpBitsFlag.Name) {
		cfg.DistinguishedBits = ctx.Int(dpBitsFlag.Name)
	}
	if v := ctx.String(checkpointFlag.Name); v != "" {
		cfg.CheckpointPath = v
	}
	if ctx.IsSet(checkpointIntervalFlag.Name) {
		cfg.CheckpointInterval = ctx.Int(checkpointIntervalFlag.Name)
	}
	if v := ctx.String(watchFlag.Name); v != "" {
		cfg.WatchFile = v
	}
	if v := ctx.String(httpFlag.Name); v != "" {
		cfg.WebAddr = v
	}
	return cfg, nil
}

func runSolver(ctx *cli.Context) error {
	cfg, err := mergedConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.TargetPubKey == "" || cfg.RangeStart == "" || cfg.RangeEnd == "" {
		return fmt.Errorf("target pubkey and range are required (flags or config file)")
	}

	var watch *address.WatchSet
	if cfg.WatchFile != "" {
		watch, err = address.LoadWatchSet(cfg.WatchFile)
		if err != nil {
			return err
		}
		log.Info("Watch list loaded", "file", cfg.WatchFile, "addresses", watch.Len())
	}

	solver := kangaroo.NewSolver()
	if err := solver.Initialize(cfg.TargetPubKey, cfg.RangeStart, cfg.RangeEnd,
		cfg.Threads, cfg.DistinguishedBits); err != nil {
		return err
	}

	if cfg.CheckpointPath != "" {
		if _, statErr := os.Stat(cfg.CheckpointPath); statErr == nil {
			if err := solver.LoadCheckpoint(cfg.CheckpointPath); err != nil {
				log.Warn("Checkpoint not restored", "err", err)
			}
		}
	}

	if err := solver.Start(); err != nil {
		return err
	}
	defer solver.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	progress := time.NewTicker(10 * time.Second)
	defer progress.Stop()

	var checkpointCh <-chan time.Time
	if cfg.CheckpointPath != "" && cfg.CheckpointInterval > 0 {
		t := time.NewTicker(time.Duration(cfg.CheckpointInterval) * time.Second)
		defer t.Stop()
		checkpointCh = t.C
	}

	poll := time.NewTicker(250 * time.Millisecond)
	defer poll.Stop()

	var lastJumps uint64
	for {
		select {
		case sig := <-sigCh:
			log.Info("Signal received, shutting down", "signal", sig)
			solver.Stop()
			if cfg.CheckpointPath != "" {
				if err := solver.SaveCheckpoint(cfg.CheckpointPath); err != nil {
					log.Warn("Final checkpoint failed", "err", err)
				}
			}
			return nil
		case <-progress.C:
			st := solver.Stats()
			log.Info("Progress",
				"jumps", st.TotalJumps,
				"rate", fmt.Sprintf("%d/s", (st.TotalJumps-lastJumps)/10),
				"dps", st.DistinguishedPoints,
				"collisions", st.CollisionsFound,
				"elapsed", st.ElapsedSeconds)
			lastJumps = st.TotalJumps
		case <-checkpointCh:
			if err := solver.SaveCheckpoint(cfg.CheckpointPath); err != nil {
				log.Warn("Checkpoint failed", "err", err)
			}
		case <-poll.C:
			if solver.IsSolved() {
				return reportSolution(solver, watch)
			}
		}
	}
}

func reportSolution(solver *kangaroo.Solver, watch *address.WatchSet) error {
	key := solver.Solution()
	if key == nil {
		return fmt.Errorf("solved flag set without a solution")
	}
	log.Info("Private key found", "key", key.Hex())
	fmt.Printf("FOUND KEY: %s\n", key.PaddedHex(64))

	addrs, err := address.FromPrivateKeyHex(key.Hex())
	if err != nil {
		return err
	}
	fmt.Printf("  P2PKH (compressed):   %s\n", addrs.P2PKHCompressed)
	fmt.Printf("  P2PKH (uncompressed): %s\n", addrs.P2PKHUncompressed)
	fmt.Printf("  P2WPKH:               %s\n", addrs.P2WPKH)

	if watch != nil {
		if hit := watch.Match(addrs); hit != "" {
			log.Info("Solved key pays a watched address", "address", hit)
		} else {
			log.Warn("Solved key does not pay any watched address")
		}
	}
	return nil
}

func runServer(ctx *cli.Context) error {
	cfg, err := mergedConfig(ctx)
	if err != nil {
		return err
	}

	solver := kangaroo.NewSolver()
	defer solver.Stop()

	srv := web.NewServer(solver, web.Config{
		PubKey:         cfg.TargetPubKey,
		RangeStart:     cfg.RangeStart,
		RangeEnd:       cfg.RangeEnd,
		Threads:        cfg.Threads,
		DPBits:         cfg.DistinguishedBits,
		CheckpointPath: cfg.CheckpointPath,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.WebAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("Signal received, shutting down", "signal", sig)
		solver.Stop()
		return nil
	}
}
