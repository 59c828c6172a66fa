// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/simrt"
	"github.com/db47h/simrt/internal/config"
	"github.com/db47h/simrt/simlib"
	"github.com/db47h/simrt/statsview"
	"github.com/db47h/simrt/trace"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Driver simulation",
		Long: `Run the Driver harness: the Driver module is triggered once per slot
and increments cnt[0], with each write committing half a slot later.
Without a configuration file the run uses the generated defaults: 100
cycles of 100 units, commits at slot+50, idle threshold 100.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd)
		},
	}

	cmd.Flags().String("config", "", "Configuration file (YAML)")
	cmd.Flags().Uint64("cycles", 0, "Override the scheduler iteration bound")
	cmd.Flags().Int("idle-threshold", 0, "Override the idle stop threshold")
	cmd.Flags().Bool("quiet", false, "Suppress console trace output")
	cmd.Flags().String("trace-db", "", "Record the run into a SQLite trace database at this path")
	cmd.Flags().Bool("verify", false, "Check the committed register sequence after the run")
	cmd.Flags().Bool("stats", false, "Print run statistics")
	cmd.Flags().Bool("statsview", false, "Serve runtime statistics over HTTP during the run")

	return cmd
}

func runDriver(cmd *cobra.Command) (err error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
	}
	if n, _ := cmd.Flags().GetUint64("cycles"); n != 0 {
		cfg.Sim.Cycles = n
	}
	if n, _ := cmd.Flags().GetInt("idle-threshold"); n != 0 {
		cfg.Sim.IdleThreshold = n
	}
	if q, _ := cmd.Flags().GetBool("quiet"); q {
		cfg.Trace.Quiet = true
	}
	if p, _ := cmd.Flags().GetString("trace-db"); p != "" {
		cfg.Trace.DB = p
	}
	verify, _ := cmd.Flags().GetBool("verify")

	var tracers []simrt.Tracer
	if !cfg.Trace.Quiet {
		tracers = append(tracers, trace.NewWriter(cmd.OutOrStdout(), simrt.Stamp(cfg.Sim.Slot)))
	}
	var rec *trace.Recorder
	if verify {
		rec = &trace.Recorder{}
		tracers = append(tracers, rec)
	}
	var db *trace.DB
	if cfg.Trace.DB != "" {
		db, err = trace.OpenDB(cfg.Trace.DB)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := db.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		tracers = append(tracers, db)
	}

	simCfg := cfg.SimConfig()
	simCfg.Tracer = trace.Multi(tracers...)
	s, err := simrt.New(simCfg)
	if err != nil {
		return err
	}

	cnt, err := simrt.NewRegArray[uint32]("cnt", 1, 1)
	if err != nil {
		return err
	}
	s.AddTicker(cnt)
	driver := simlib.NewCounter("Driver", cnt, simrt.Stamp(cfg.Sim.Slot), simrt.Stamp(cfg.Sim.CommitOffset))
	if err := s.Add(driver); err != nil {
		return err
	}

	for _, sc := range cfg.Schedule {
		stamps, err := simrt.ParseSchedule(sc.At)
		if err != nil {
			return err
		}
		for _, at := range stamps {
			if err := s.Schedule(sc.Module, at); err != nil {
				return err
			}
		}
	}

	if sv, _ := cmd.Flags().GetBool("statsview"); sv {
		statsview.Launch(cmd.OutOrStdout())
	}

	st, err := s.Run()
	if err != nil {
		return err
	}
	if db != nil {
		db.Finish(st)
	}

	if verify {
		if err := verifyCounter(rec, cnt.Name(), st.Triggered); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "verified: %s[0] committed %d increments\n", cnt.Name(), st.Triggered)
	}
	if ps, _ := cmd.Flags().GetBool("stats"); ps {
		fmt.Fprintf(cmd.OutOrStdout(), "ticks: %d  triggered: %d  idle stop: %v  final stamp: %d\n",
			st.Ticks, st.Triggered, st.Idle, st.Stamp)
	}
	return nil
}

// verifyCounter checks that the committed values of the counter cell form
// the exact sequence 1..n, wrapping at 2^32.
func verifyCounter(rec *trace.Recorder, array string, n uint64) error {
	var count uint64
	for _, c := range rec.Changes {
		if c.Array != array || c.Index != 0 {
			continue
		}
		count++
		want := strconv.FormatUint(uint64(uint32(count)), 10)
		if c.Value != want {
			return errors.Errorf("verify: commit %d of %s[0] is %s, expected %s", count, array, c.Value, want)
		}
	}
	if count != n {
		return errors.Errorf("verify: %d commits of %s[0], expected %d", count, array, n)
	}
	return nil
}
