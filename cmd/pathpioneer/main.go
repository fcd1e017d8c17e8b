/*
Command pathpioneer replays recorded path sessions and manages stored paths.

Usage:

	pathpioneer replay [-config dir] [-db dsn] [-name name] trace.json
	pathpioneer list   [-config dir] [-db dsn]
	pathpioneer delete [-config dir] [-db dsn] id

A replay feeds the frames of a trace through a session, logging what the
scene would show. If a store is configured, the latest path made is saved.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/arrows"
	"github.com/npillmayer/pathpioneer/config"
	"github.com/npillmayer/pathpioneer/lens"
	"github.com/npillmayer/pathpioneer/pace"
	"github.com/npillmayer/pathpioneer/pathstore"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("usage: pathpioneer replay|list|delete [flags] [args]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by all commands.
type options struct {
	configDir string
	dsn       string
	name      string
}

func parse(cmd string, args []string) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&opts.configDir, "config", "", "directory of "+config.FileName)
	fs.StringVar(&opts.dsn, "db", "", "sqlite path store, overrides store.dsn")
	if cmd == "replay" {
		fs.StringVar(&opts.name, "name", "", "name of the saved path")
	}
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd := args[0]
	opts, rest, err := parse(cmd, args[1:])
	if err != nil {
		return err
	}
	if err := config.Load(opts.configDir); err != nil {
		return err
	}
	if opts.dsn != "" {
		config.Set("store.dsn", opts.dsn)
	}
	log := setupLogging(out)
	setupTracing(log, config.GetString("traceLevel"))

	switch cmd {
	case "replay":
		if len(rest) != 1 {
			return errUsage
		}
		return replay(ctx, log, rest[0], opts.name, out)
	case "list":
		return list(ctx, out)
	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		id, err := strconv.ParseUint(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad path id %q: %w", rest[0], err)
		}
		return remove(ctx, log, uint(id))
	}
	return errUsage
}

func setupLogging(out io.Writer) zerolog.Logger {
	var level zerolog.Level
	switch strings.ToUpper(config.GetString("logLevel")) {
	case "DEBUG":
		level = zerolog.DebugLevel
	case "WARN":
		level = zerolog.WarnLevel
	case "ERROR":
		level = zerolog.ErrorLevel
	case "TRACE":
		level = zerolog.TraceLevel
	default:
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    out != os.Stdout,
	}).Level(level).With().Timestamp().Logger()
}

// openStore opens the configured store, or returns nil if there is none.
func openStore() (*pathstore.Store, error) {
	conf, err := config.Store()
	if err != nil {
		return nil, err
	}
	if conf.DSN == "" {
		return nil, nil
	}
	return pathstore.Open(conf.DSN)
}

// services are the console stand-ins for the scene.
func services(log zerolog.Logger) lens.Services {
	return lens.Services{
		UI:     &consoleUI{log: log, visible: map[pp.Panel]bool{}},
		Mesh:   &consoleMesh{log: log},
		Pace:   pace.NewCalculator(config.PaceInterval()),
		Arrows: &consoleArrows{log: log, shown: map[int]arrows.ArrowPair{}},
	}
}

func replay(ctx context.Context, log zerolog.Logger, file, name string, out io.Writer) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	tr, err := ReadTrace(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	conf, err := config.Session()
	if err != nil {
		return err
	}
	r, err := newReplayer(log, conf, services(log))
	if err != nil {
		return err
	}
	res, err := r.Replay(tr)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "paths made: %d\nstate: %s\nlaps: %d\nsprints: %d\ndistance: %.0f cm\ntime: %s\nspeed warnings: %d\n",
		len(res.Paths), res.State, res.Laps, res.Sprints, res.Distance, res.Elapsed.Round(time.Millisecond), res.Warnings)

	path, ok := res.Last()
	if !ok {
		return nil
	}
	store, err := openStore()
	if err != nil || store == nil {
		return err
	}
	defer store.Close()
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), ".json")
	}
	id, err := store.Save(ctx, name, path)
	if err != nil {
		return err
	}
	log.Info().Uint("id", id).Str("name", name).Msg("path saved")
	fmt.Fprintf(out, "saved: %d\n", id)
	return nil
}

func list(ctx context.Context, out io.Writer) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("no path store configured")
	}
	defer store.Close()
	paths, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range paths {
		kind := "sprint"
		if p.IsLoop {
			kind = "loop"
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%.0f cm\t%s\n", p.ID, p.Name, kind, p.Length, p.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func remove(ctx context.Context, log zerolog.Logger, id uint) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("no path store configured")
	}
	defer store.Close()
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Uint("id", id).Msg("path deleted")
	return nil
}
