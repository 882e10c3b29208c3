package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luca-patrignani/byzantine-generals/evidence"
	"github.com/luca-patrignani/byzantine-generals/generals"
	"github.com/luca-patrignani/byzantine-generals/transport"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one simulation run",
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().IntP("participants", "n", 4, "total participants, commander included")
	runCmd.Flags().IntP("tolerance", "f", 1, "tolerated traitor count; also the relay depth m")
	runCmd.Flags().StringP("order", "o", "ATTACK", "the commander's true order (ATTACK or RETREAT)")
	runCmd.Flags().String("traitors", "", "comma-separated lieutenant ids that are traitors, e.g. 2,3")
	runCmd.Flags().Bool("traitor-commander", false, "make the commander itself a traitor")
	runCmd.Flags().String("lie", "inconsistent", "lying strategy: consistent, inconsistent or random")
	runCmd.Flags().Int64("seed", 1, "seed for the random lying strategy")
	runCmd.Flags().String("evidence", "", "append the audit trail to this file")
	runCmd.Flags().String("transport", "memory", "transport to run over: memory or http")

	for _, key := range []string{
		"participants", "tolerance", "order", "traitors",
		"traitor-commander", "lie", "seed", "evidence", "transport",
	} {
		_ = viper.BindPFlag("run."+key, runCmd.Flags().Lookup(key))
	}

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	printBanner()

	order, err := generals.ParseOrder(viper.GetString("run.order"))
	if err != nil {
		return err
	}
	n := viper.GetInt("run.participants")
	f := viper.GetInt("run.tolerance")

	faults, err := buildFaultModel(n)
	if err != nil {
		return err
	}
	cfg := generals.RunConfig{N: n, F: f, Order: order, Faults: faults}

	sink := generals.EventSink(generals.NopSink())
	var trail *evidence.Writer
	if path := viper.GetString("run.evidence"); path != "" {
		w, file, err := evidence.OpenFile(path)
		if err != nil {
			return err
		}
		defer file.Close()
		trail, sink = w, w
	}

	tr, err := buildTransport(cfg, sink)
	if err != nil {
		return err
	}
	defer tr.Close()

	runner, err := generals.NewRunner(cfg, tr, generals.WithEventSink(sink))
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start(
		pterm.Sprintf("Running OM(%d) with %d participants", f, n))
	res, err := runner.Run()
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(pterm.Sprintf("Completed %d rounds", f+1))

	if trail != nil {
		trail.WriteResult(res)
	}
	renderResult(res)
	return nil
}

func buildFaultModel(n int) (*generals.FaultModel, error) {
	faults := generals.NewFaultModel(n)
	strategy, err := buildStrategy()
	if err != nil {
		return nil, err
	}
	if viper.GetBool("run.traitor-commander") {
		faults.SetTraitor(generals.CommanderID, strategy)
	}
	spec := strings.TrimSpace(viper.GetString("run.traitors"))
	if spec == "" {
		return faults, nil
	}
	for _, part := range strings.Split(spec, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad traitor id %q: %w", part, err)
		}
		faults.SetTraitor(generals.ID(id), strategy)
	}
	return faults, nil
}

func buildStrategy() (generals.Strategy, error) {
	switch viper.GetString("run.lie") {
	case "consistent":
		return generals.ConsistentLiar{Substitute: generals.OrderRetreat}, nil
	case "inconsistent":
		return generals.InconsistentLiar{}, nil
	case "random":
		return generals.NewRandomLiar(viper.GetInt64("run.seed")), nil
	}
	return nil, fmt.Errorf("unknown lying strategy %q", viper.GetString("run.lie"))
}

func buildTransport(cfg generals.RunConfig, sink generals.EventSink) (generals.Transport, error) {
	switch viper.GetString("run.transport") {
	case "memory":
		return transport.NewMemory(transport.WithEventSink(sink)), nil
	case "http":
		return transport.NewHTTP(cfg.Lieutenants(), transport.WithHTTPEventSink(sink))
	}
	return nil, fmt.Errorf("unknown transport %q", viper.GetString("run.transport"))
}
