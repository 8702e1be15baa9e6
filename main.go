package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"dictate/auth"
	"dictate/config"
	"dictate/doctor"
	"dictate/hotkey"
	"dictate/log"
	"dictate/shutdown"
	"dictate/speech"
)

var version = "dev"

func run() {
	configFlag := flag.String("config", "", "Path to TOML config file (default $DICTATE_CONFIG)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	engineFlag := flag.String("engine", "", "Speech engine: fake or scripted")
	textFlag := flag.String("text", "", "Transcript reported by the fake engine")
	failFlag := flag.String("fail", "", "Make the fake engine fail with this message")
	delayFlag := flag.Duration("delay", 0, "Fake engine delay before reporting (e.g., 2s)")
	authFlag := flag.String("auth", "", "Authorization status: authorized, denied or not_determined")
	autoPasteFlag := flag.Bool("autopaste", false, "Paste transcripts into the focused window")
	hotkeyFlag := flag.Bool("hotkey", true, "Toggle with Ctrl+Shift+Space")
	hybridFlag := flag.Bool("hybrid", false, "Enable hybrid tap+hold toggle mode")
	longPressFlag := flag.Duration("longpress", 0, "Long-press threshold for hold vs tap (e.g., 350ms)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("dictate %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file only when given explicitly.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "engine":
			cfg.Engine.Name = *engineFlag
		case "text":
			cfg.Engine.Text = *textFlag
		case "fail":
			cfg.Engine.Fail = *failFlag
		case "delay":
			cfg.Engine.Delay = *delayFlag
		case "auth":
			cfg.Auth.Status = *authFlag
		case "autopaste":
			cfg.Clipboard.Paste = *autoPasteFlag
		case "hotkey":
			cfg.Hotkey.Enabled = *hotkeyFlag
		case "hybrid":
			cfg.Hotkey.Hybrid = *hybridFlag
		case "longpress":
			cfg.Hotkey.LongPress = *longPressFlag
		case "logpath":
			cfg.Log.Path = *logPathFlag
		}
	})
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logPath, err := log.ResolveDir(cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	engine, err := speech.New(speech.Config{
		Name:  cfg.Engine.Name,
		Text:  cfg.Engine.Text,
		Fail:  cfg.Engine.Fail,
		Delay: cfg.Engine.Delay,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.SessionStart(engine.Name(), cfg.Auth.Status)

	a := newApp(cfg, engine)
	defer a.close()

	if *testFlag {
		runTestMode(a, cfg, engine)
		return
	}
	runInteractive(a, cfg)
}

func runInteractive(a *app, cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authCh := auth.Resolve(ctx, cfg.Authorizer())

	var toggles <-chan hotkey.Event
	if cfg.Hotkey.Enabled {
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			log.Errorf("hotkey register error: %v", err)
			fmt.Printf("Warning: hotkey unavailable (%v); press Enter to toggle\n", err)
		} else {
			defer hk.Unregister()
			tg := hotkey.NewToggler(hk, cfg.Hotkey.Hybrid, cfg.Hotkey.LongPress)
			defer tg.Close()
			toggles = tg.Events()
			fmt.Println("Ctrl+Shift+Space or Enter toggles dictation, Ctrl+C quits")
		}
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sigChan, stopSignals := shutdown.Listen()
	defer stopSignals()

	for {
		select {
		case st := <-authCh:
			authCh = nil
			a.svc.Authorize(st)
			log.Info("authorization: " + st.String())
			if !a.svc.Allowed() {
				a.out.notice("dictation unavailable: %s", st)
			}
		case ev := <-toggles:
			a.key(ev)
		case _, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			a.toggle()
		case f := <-a.posted:
			f()
		case <-sigChan:
			return
		}
	}
}
