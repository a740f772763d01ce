package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/msdsim/internal/analysis"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/experiment"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/sim"
	"github.com/san-kum/msdsim/internal/storage"
	"github.com/san-kum/msdsim/internal/tui"
	"github.com/san-kum/msdsim/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataDir  string
	logLevel string
	logger   log.Logger = log.NewNopLogger()

	mass       float64
	damping    float64
	stiffness  float64
	x0         float64
	v0         float64
	integrator string

	trajectoryOut string
	paramsOut     string
	configFile    string
	preset        string
	noStore       bool
	svgOut        string
)

// main registers the commands, opens the interactive shell when no
// subcommand is given, and exits 1 if a command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("msdsim")
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "msdsim",
		Short:        "mass-spring-damper simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dataDir = v.GetString("data")
			logLevel = v.GetString("log_level")
			var err error
			logger, err = newLogger(os.Stderr, logLevel)
			return err
		},
		RunE: runShell,
	}

	rootCmd.PersistentFlags().String("data", ".msdsim", "run store directory (MSDSIM_DATA)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "debug, info, warn, error or none (MSDSIM_LOG_LEVEL)")
	for key, flag := range map[string]string{"data": "data", "log_level": "log-level"} {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind --%s: %v", flag, err))
		}
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a system and export the response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, v)
		},
	}
	systemFlags(runCmd)
	runCmd.Flags().StringVar(&integrator, "integrator", integrators.NameRK4, "euler, rk4 or analytic")
	runCmd.Flags().StringVar(&trajectoryOut, "out", export.TrajectoryFile, "trajectory csv path (empty to skip)")
	runCmd.Flags().StringVar(&paramsOut, "params-out", "", "parameter csv path (empty to skip)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not save the run in the data directory")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "show derived system parameters",
		Args:  cobra.NoArgs,
		RunE:  showParams,
	}
	systemFlags(paramsCmd)
	paramsCmd.Flags().StringVar(&paramsOut, "out", "", "also export the table to this csv path")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators against the closed-form response",
		Args:  cobra.NoArgs,
		RunE:  compareIntegrators,
	}
	systemFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position, velocity and acceleration of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "measure frequency and decay of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the position trace of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVar(&svgOut, "out", "", "output path (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list system presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	})

	rootCmd.AddCommand(runCmd, paramsCmd, compareCmd, listCmd, plotCmd, analyzeCmd, svgCmd, presetsCmd, configCmd)
	return rootCmd
}

func systemFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "mass m (kg)")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient c (N·s/m)")
	cmd.Flags().Float64Var(&stiffness, "stiffness", config.DefaultStiffness, "spring constant k (N/m)")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial position (m)")
	cmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial velocity (m/s)")
}

func runShell(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	// stderr belongs to the terminal UI; diagnostics go to a file instead.
	f, err := os.OpenFile(filepath.Join(dataDir, "msdsim.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	fileLogger, err := newLogger(f, logLevel)
	if err != nil {
		return err
	}

	_, err = tui.New(tui.Options{Store: st, Logger: fileLogger}).Run()
	return err
}

// resolveConfig layers preset, config file and explicit flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	base := preset == "" && configFile == ""
	set := func(name string) bool { return base || flags.Changed(name) }

	if set("mass") {
		cfg.System.Mass = mass
	}
	if set("damping") {
		cfg.System.Damping = damping
	}
	if set("stiffness") {
		cfg.System.Stiffness = stiffness
	}
	if set("x0") {
		cfg.System.X0 = x0
	}
	if set("v0") {
		cfg.System.V0 = v0
	}
	if configFile == "" || flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if configFile == "" || flags.Changed("out") {
		cfg.Output.Trajectory = trajectoryOut
	}
	if configFile == "" || flags.Changed("params-out") {
		cfg.Output.Parameters = paramsOut
	}
	if noStore {
		cfg.Output.Store = false
	}

	return cfg, nil
}

// buildSystem validates every field and reports all failures at once.
func buildSystem(cfg *config.Config) (physics.MassSpringDamper, error) {
	if v := cfg.Validate(); !v.OK() {
		fmt.Print(viz.ValidationReport(v))
		return physics.MassSpringDamper{}, v.Err()
	}
	return cfg.Model()
}

func systemFromFlags() (physics.MassSpringDamper, error) {
	cfg := config.DefaultConfig()
	cfg.System = config.SystemConfig{Mass: mass, Damping: damping, Stiffness: stiffness, X0: x0, V0: v0}
	return buildSystem(cfg)
}

func runSimulation(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if configFile != "" && cfg.LogLevel != "" && !v.IsSet("log_level") {
		if logger, err = newLogger(os.Stderr, cfg.LogLevel); err != nil {
			return err
		}
	}

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	expCfg := experiment.Config{
		Integrator:     cfg.Integrator,
		Sim:            sim.DefaultConfig(),
		TrajectoryPath: cfg.Output.Trajectory,
		ParametersPath: cfg.Output.Parameters,
		Logger:         logger,
	}
	if cfg.Output.Store {
		expCfg.Store = storage.New(dataDir)
	}

	exp, err := experiment.New(expCfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s on %s\n", cfg.Integrator, sys)
	out, err := exp.Run(context.Background(), sys)
	if err != nil {
		return err
	}

	tr := out.Result.Trajectory
	fmt.Printf("completed in %v\n", out.Elapsed)
	if out.RunID != "" {
		fmt.Printf("run id: %s\n", out.RunID)
	}
	fmt.Printf("samples: %d  dt: %gs  duration: %.4gs  stop: %s\n", tr.Len(), tr.Dt, tr.Duration(), tr.Reason)
	if cfg.Output.Trajectory != "" {
		fmt.Printf("'%s' successfully exported\n", cfg.Output.Trajectory)
	}
	if cfg.Output.Parameters != "" {
		fmt.Printf("'%s' successfully exported\n", cfg.Output.Parameters)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(out.Result.Metrics))
	for name := range out.Result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, out.Result.Metrics[name])
	}

	return nil
}

func showParams(cmd *cobra.Command, args []string) error {
	sys, err := systemFromFlags()
	if err != nil {
		return err
	}

	fmt.Println(viz.ParameterTable(export.ParameterRows(sys), -1))

	if paramsOut != "" {
		if err := export.ExportParameters(paramsOut, sys); err != nil {
			return err
		}
		fmt.Printf("'%s' successfully exported\n", paramsOut)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	sys, err := systemFromFlags()
	if err != nil {
		return err
	}

	names := integrators.List()
	results, err := experiment.Compare(context.Background(), sys, sim.DefaultConfig(), logger, names...)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s\n\n", sys)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tSAMPLES\tSTOP\tFINAL X\tFINAL V\tRMS DEV\tENERGY RATIO")
	trajectories := make([]*dynamo.Trajectory, 0, len(names))
	for _, name := range sim.Names(results) {
		r := results[name]
		tr := r.Trajectory
		last := tr.At(tr.Len() - 1)
		fmt.Fprintf(w, "%s\t%d\t%s\t%.6f\t%.6f\t%.2e\t%.6f\n",
			name, tr.Len(), tr.Reason, last[0], last[1],
			r.Metrics["rms_deviation"], r.Metrics["energy_ratio"])
		trajectories = append(trajectories, tr)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.ComparePlot(sim.Names(results), trajectories, 80, 12))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tZETA\tREGIME\tSAMPLES\tDURATION\tSTOP")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%s\t%d\t%.2fs\t%s\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Zeta,
			run.Regime,
			run.Samples,
			run.Duration,
			run.Reason,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrator: %s  zeta: %.4g (%s)\n", meta.Integrator, meta.Zeta, meta.Regime)
	fmt.Printf("samples: %d\n\n", tr.Len())
	fmt.Println(viz.TrajectoryPlots(tr, 80, 10))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	sys, err := meta.Model()
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %s)\n\n", meta.ID, meta.Integrator, sys.Regime())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tMEASURED\tEXPECTED")

	wd, ok := sys.DampedFrequency()
	expected := "n/a"
	if ok {
		expected = fmt.Sprintf("%.4f", wd)
	}
	fmt.Fprintf(w, "dominant frequency (rad/s)\t%.4f\t%s\n", analysis.DominantFrequency(tr), expected)

	resp, measured := analysis.MeasureResponse(tr)
	if measured {
		td, _ := sys.DampedPeriod()
		delta, _ := sys.LogDecrement()
		fmt.Fprintf(w, "damped period (s)\t%.4f\t%.4f\n", resp.Period, td)
		fmt.Fprintf(w, "log decrement\t%.4f\t%.4f\n", resp.LogDecrement, delta)
	} else {
		fmt.Fprintf(w, "crests\t%d\t-\n", resp.Crests)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nphase portrait (x vs v):")
	fmt.Print(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(tr), 60, 20))
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	tr, err := storage.New(dataDir).LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	svg := export.TrajectoryToSVG(tr, 800, 400, "#00ff88")
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to render", runID)
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}

	level.Info(logger).Log("msg", "svg written", "path", out, "run", runID)
	fmt.Printf("wrote %s\n", out)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tM\tC\tK\tX0\tV0\tZETA\tREGIME")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		sys, err := cfg.Model()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		s := cfg.System
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%.4g\t%s\n",
			name, s.Mass, s.Damping, s.Stiffness, s.X0, s.V0, sys.DampingRatio(), sys.Regime())
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "msdsim.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
