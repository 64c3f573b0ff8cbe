// osdstamp records time-zone normalized start/end timestamps and the
// elapsed duration of an OS-deployment run into a task-sequence variable
// store, optionally forcing an NTP clock sync first.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"osdstamp/recorder"
	"osdstamp/report"
	"osdstamp/runlog"
	"osdstamp/sysinfo"
	"osdstamp/timesync"
	"osdstamp/tsenv"
	"osdstamp/tzconvert"
)

var version = "dev"

type options struct {
	configFile      string
	variablePrefix  string
	start           bool
	end             bool
	startVarName    string
	endVarName      string
	syncTime        bool
	ntpServer       string
	destinationTZ   string
	finalTZ         string
	services        []string
	logDir          string
	storeFile       string
	registryStore   string
	settle          time.Duration
	continueOnError bool
	dryRun          bool
	debug           bool

	// trigger overrides the NTP trigger; tests inject one with a canned
	// querier, production runs leave it nil.
	trigger *timesync.Trigger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "osdstamp",
		Short: "Record deployment start/end timestamps into the task-sequence variable store",
		Long: `osdstamp captures a time-zone normalized timestamp at the start and end of
an OS-deployment task sequence and stores it, together with the elapsed
duration, in the task-sequence variable store. It can force an NTP clock
synchronization and (re)start the platform time services beforehand, so
timestamps taken inside the pre-installation environment line up with the
rest of the deployment tooling.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PreRunE: func(*cobra.Command, []string) error {
			if opts.start == opts.end {
				return errors.New("exactly one of --start or --end must be set")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyConfig(cmd, opts)
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "config file with flag defaults")
	flags.StringVar(&opts.variablePrefix, "variable-prefix", "", "prefix for all written variable names, must end with a separator")
	flags.BoolVar(&opts.start, "start", false, "record the deployment start timestamp")
	flags.BoolVar(&opts.end, "end", false, "record the deployment end timestamp and total time")
	flags.StringVar(&opts.startVarName, "start-variable-name", "", "override the derived start timestamp variable name")
	flags.StringVar(&opts.endVarName, "end-variable-name", "", "override the derived end timestamp variable name")
	flags.BoolVar(&opts.syncTime, "sync-time", false, "force an NTP synchronization before capturing")
	flags.StringVar(&opts.ntpServer, "ntp-server", timesync.DefaultNTPServer, "NTP server to synchronize against")
	flags.StringVar(&opts.destinationTZ, "destination-timezone", tzconvert.DefaultDestinationZone, "time zone to normalize display into")
	flags.StringVar(&opts.finalTZ, "final-timezone", tzconvert.DefaultFinalZone, "time zone the stored instant is expressed in")
	flags.StringSliceVar(&opts.services, "services", timesync.DefaultServices(), "services to ensure running around the sync")
	flags.StringVar(&opts.logDir, "log-dir", "./logs", "directory for run logs, created if absent")
	flags.StringVar(&opts.storeFile, "store-file", "", "variable store file (default <log-dir>/osdstamp-vars.yaml)")
	flags.StringVar(&opts.registryStore, "registry-store", "", `persist variables under a registry key, e.g. HKLM:\SOFTWARE\OSDStamp (windows only)`)
	flags.DurationVar(&opts.settle, "settle", timesync.DefaultSettleDelay, "delay after a successful sync before capturing")
	flags.BoolVar(&opts.continueOnError, "continue-on-error", false, "log otherwise-fatal step errors and keep going")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "use an in-memory variable store, persist nothing")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

// applyConfig fills unset flags from an optional config file and OSDSTAMP_*
// environment variables. Explicit flags always win.
func applyConfig(cmd *cobra.Command, opts *options) {
	cfg := viper.New()
	cfg.SetEnvPrefix("OSDSTAMP")
	cfg.AutomaticEnv()

	if opts.configFile != "" {
		cfg.SetConfigFile(opts.configFile)
		if err := cfg.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot read config %s: %v\n", opts.configFile, err)
		}
	}

	setIfUnchanged := func(flag string, target *string, key string) {
		if !cmd.Flags().Changed(flag) && cfg.GetString(key) != "" {
			*target = cfg.GetString(key)
		}
	}
	setIfUnchanged("ntp-server", &opts.ntpServer, "ntp_server")
	setIfUnchanged("destination-timezone", &opts.destinationTZ, "destination_timezone")
	setIfUnchanged("final-timezone", &opts.finalTZ, "final_timezone")
	setIfUnchanged("variable-prefix", &opts.variablePrefix, "variable_prefix")
	setIfUnchanged("log-dir", &opts.logDir, "log_dir")
	setIfUnchanged("store-file", &opts.storeFile, "store_file")
}

func run(opts *options) error {
	// Configuration-time validation happens before the store is touched:
	// a bad prefix or zone identifier must not leave partial side effects.
	names, err := recorder.DeriveNames(opts.variablePrefix, opts.startVarName, opts.endVarName)
	if err != nil {
		return err
	}
	conv, err := tzconvert.New(opts.destinationTZ, opts.finalTZ)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	lg, err := runlog.Open(opts.logDir, level)
	if err != nil {
		return err
	}
	defer lg.Close()
	log := lg.Logger

	host, err := sysinfo.Collect()
	if err != nil {
		log.Warn("could not gather host details", "err", err)
	}
	log.Debug("host snapshot",
		"hostname", host.Hostname,
		"platform", host.Platform,
		"time_zone", host.TimeZone)

	store, err := openStore(opts)
	if err != nil {
		return err
	}

	mode := "start"
	if opts.end {
		mode = "end"
	}
	record := runlog.NewRecord(mode, host)

	var syncResult *timesync.SyncResult
	if opts.syncTime {
		trigger := opts.trigger
		if trigger == nil {
			trigger = timesync.NewTrigger(log, opts.settle)
		}
		result, err := syncClock(opts, trigger, log, record)
		syncResult = result
		if err != nil {
			if err = softFail(opts, log, "time sync", err); err != nil {
				return err
			}
		}
	}

	rec := recorder.New(store, conv, names, log)
	var written []recorder.Variable
	if opts.start {
		result, err := rec.Start()
		if err != nil {
			if err = softFail(opts, log, "start transition", err); err != nil {
				return err
			}
		}
		written = result.Written
	} else {
		result, err := rec.End()
		if err != nil {
			if err = softFail(opts, log, "end transition", err); err != nil {
				return err
			}
		}
		written = result.Written
	}

	for _, v := range written {
		record.Variables[v.Name] = v.Value
	}
	if !opts.dryRun {
		if _, err := record.Write(lg.Dir()); err != nil {
			log.Warn("could not write run record", "err", err)
		}
	}

	fmt.Print(report.Summary(mode, syncResult, written))
	return nil
}

// openStore picks the variable store transport: in-memory for dry runs, a
// registry key when requested, a shared YAML file otherwise.
func openStore(opts *options) (tsenv.Store, error) {
	if opts.dryRun {
		return tsenv.NewMemoryStore(), nil
	}
	if opts.registryStore != "" {
		return tsenv.NewRegistryStore(opts.registryStore)
	}
	path := opts.storeFile
	if path == "" {
		path = filepath.Join(opts.logDir, "osdstamp-vars.yaml")
	}
	return tsenv.NewFileStore(path)
}

// syncClock runs the pre-capture synchronization: time services up, NTP
// sync, services up again after the clock step. Unreachable servers never
// abort the run; other failures are returned for the caller's
// --continue-on-error policy.
func syncClock(opts *options, trigger *timesync.Trigger, log *slog.Logger, record *runlog.Record) (*timesync.SyncResult, error) {
	record.Sync.Attempted = true
	record.Sync.Server = opts.ntpServer

	if err := timesync.EnsureRunning(log, opts.services); err != nil {
		return nil, err
	}

	result, err := trigger.Sync(opts.ntpServer)
	if err != nil {
		record.Sync.Error = err.Error()
		if errors.Is(err, timesync.ErrSyncUnreachable) {
			log.Warn("time sync failed, proceeding with local clock", "err", err)
			return &result, nil
		}
		return &result, err
	}
	record.Sync.Success = true
	record.Sync.Offset = result.Offset.String()

	if err := timesync.EnsureRunning(log, opts.services); err != nil {
		return &result, err
	}
	return &result, nil
}

// softFail downgrades a step error to a logged message under
// --continue-on-error; otherwise the error propagates and aborts the run.
func softFail(opts *options, log *slog.Logger, step string, err error) error {
	if opts.continueOnError {
		log.Error("step failed, continuing", "step", step, "err", err)
		return nil
	}
	return fmt.Errorf("%s: %w", step, err)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
