package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/config"
	"alerta/snmptrap/logger"
	"alerta/snmptrap/metric"
	"alerta/snmptrap/sender"
	"alerta/snmptrap/transform"
)

const Version = "2.0.4"

var versionFlag = flag.Bool("version", false, "print snmptrap version and exit")
var debugFlag = flag.Bool("debug", false, "set snmptrap in debug mode")
var configFileFlag = flag.String("config", "", "specify configuration file path")
var envFileFlag = flag.String("env", ".env", "specify file with SNMPTRAP_* environment overrides")
var logFileFlag = flag.String("log", "", "specify log file path")
var stdoutFlag = flag.Bool("stdout", false, "send log to stdtout")
var disableFlag = flag.String("disable-flag", "", "handler does nothing while this file exists")

func newLogger() (logger.Logger, error) {
	if *logFileFlag == "" {
		lg := logger.NewStdoutLogger()
		if *debugFlag {
			lg.EnableDebugMode()
		}
		return lg, nil
	}
	lg, err := logger.NewLoggerFactory(*logFileFlag)
	if err != nil {
		return nil, err
	}
	if *stdoutFlag {
		lg.EnableWriteToSTd()
	}
	if *debugFlag {
		lg.EnableDebugMode()
	}
	return lg, nil
}

func newTransformer(cfg config.Config, lg logger.Logger) (alert.Transformer, error) {
	var chain transform.Chain
	if cfg.GetRulesFile() != "" {
		rules, err := transform.LoadRules(cfg.GetRulesFile())
		if err != nil {
			return nil, err
		}
		lg.Debug(fmt.Sprintf("loaded %v from %s", rules, cfg.GetRulesFile()))
		chain = append(chain, rules)
	}
	if cfg.GetDNSServer() != "" {
		chain = append(chain, transform.NewResolver(cfg.GetDNSServer(), cfg.GetDNSTimeout(), lg))
	}
	if len(chain) == 0 {
		return alert.NopTransformer{}, nil
	}
	return chain, nil
}

type senderFactory func(config.Config, logger.Logger) (sender.Sender, error)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// sendTimeout bounds one send, retries included.
func sendTimeout(cfg config.Config) time.Duration {
	budget := cfg.GetAPITimeout() * time.Duration(cfg.GetRetryMaxCount()+1)
	backoff, prev := cfg.GetRetryStart(), cfg.GetRetryStart()
	for i := 1; i < cfg.GetRetryMaxCount(); i++ {
		budget += backoff
		backoff, prev = backoff+prev, backoff
	}
	return budget
}

// run handles the trap read from stdin and returns the exit code. Nothing is
// read nor sent while the disable flag file exists.
func run(cfg config.Config, lg logger.Logger, disabled string, stdin io.Reader, newSender senderFactory) int {
	if disabled == "" {
		disabled = cfg.GetDisableFlag()
	}
	if disabled != "" && fileExists(disabled) {
		lg.Warning(fmt.Sprintf("Disable flag %s exists, not handling trap", disabled))
		return 0
	}

	transformer, err := newTransformer(cfg, lg)
	if err != nil {
		lg.Error(fmt.Sprintf("loading transform hooks: %v", err))
		return 1
	}
	s, err := newSender(cfg, lg)
	if err != nil {
		lg.Error(fmt.Sprintf("creating sender: %v", err))
		return 1
	}
	defer s.Close()

	start := time.Now()
	data, err := ioutil.ReadAll(stdin)
	if err != nil {
		lg.Error(fmt.Sprintf("reading trap: %v", err))
		return 1
	}
	lg.Debug(fmt.Sprintf("trap text:\n%s", data))

	timeout := sendTimeout(cfg)
	handler := NewHandler(lg, transformer, alert.PlaceholderTranslator{})
	exitCode := 0
	outcome := metric.OutcomeSent
	res, err := handler.Process(context.Background(), string(data))
	switch {
	case err != nil:
		lg.Error(fmt.Sprintf("decoding trap: %v", err))
		exitCode = 1
		outcome = metric.OutcomeError
	case res.Alert == nil:
		outcome = metric.OutcomeSuppressed
	default:
		a := res.Alert
		a.Origin = cfg.GetOrigin()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := s.SendAlert(ctx, a)
		cancel()
		if err != nil {
			lg.Error(fmt.Sprintf("sending alert %s: %v", a.GetID(), err))
			exitCode = 1
			outcome = metric.OutcomeError
		} else {
			lg.Info(fmt.Sprintf("%s : %s : %s : %s sent", a.GetID(), a.Resource, a.Event, a.Severity))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.SendHeartbeat(ctx, alert.NewHeartbeat(cfg.GetOrigin(), Version)); err != nil {
		lg.Warning(fmt.Sprintf("sending heartbeat: %v", err))
	}

	if cfg.GetStatsDir() != "" {
		record := metric.Record{
			StartTime: start,
			EndTime:   time.Now(),
			Outcome:   outcome,
			TrapOID:   res.TrapOID,
		}
		if err := metric.NewLogic(cfg.GetStatsDir()).WriteRecord(record); err != nil {
			lg.Warning(fmt.Sprintf("recording stats: %v", err))
		}
	}
	return exitCode
}

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Printf("snmptrap handler version %s\n", Version)
		os.Exit(0)
	}
	lg, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wrong log file path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFileFlag, *envFileFlag)
	if err != nil {
		lg.Error(fmt.Sprintf("loadConfig Error: %v", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		lg.Error(fmt.Sprintf("invalid configuration: %v", err))
		os.Exit(1)
	}
	lg.Debug(fmt.Sprintf("config %v", cfg))

	os.Exit(run(cfg, lg, *disableFlag, os.Stdin, sender.New))
}
