package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wfr/check"
	"wfr/config"
	"wfr/server"
	"wfr/state"
	"wfr/webfont"
)

func runServer(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 0 {
		env.Log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	srv := server.New(env.Cfg, env.Log, env.Rpt)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go srv.WatchReload(ctx, hup, env.ReloadConfig)

	return srv.Run(ctx)
}

func outputCSS(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	families, err := webfont.ParseFamilies(cmd.String("family"))
	if err != nil {
		return fmt.Errorf("bad family list: %w", err)
	}
	catalog, err := env.Cfg.Catalog(env.Log)
	if err != nil {
		return fmt.Errorf("unable to build fonts catalog: %w", err)
	}
	text, err := catalog.MakeCSS(ctx, families, cmd.String("display"))
	if err != nil {
		return fmt.Errorf("unable to generate CSS: %w", err)
	}
	env.Rpt.StoreData("result.css", []byte(text))

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		_, err = os.Stdout.WriteString(text)
	} else {
		err = os.WriteFile(fname, []byte(text), 0644)
	}
	if err != nil {
		return fmt.Errorf("unable to write CSS: %w", err)
	}
	return nil
}

func checkCatalog(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)

	catalog, err := env.Cfg.Catalog(env.Log)
	if err != nil {
		return fmt.Errorf("unable to build fonts catalog: %w", err)
	}

	results, err := check.New(catalog, env.Log).Run(ctx)
	failed := 0
	for _, r := range results {
		if r.OK() {
			env.Log.Info("Style is fine", zap.String("family", r.Family), zap.String("style", r.Style), zap.Strings("files", r.Files))
			continue
		}
		failed++
		env.Log.Warn("Style has problems", zap.String("family", r.Family), zap.String("style", r.Style), zap.Strings("problems", r.Problems))
	}
	env.Log.Info("Fonts catalog checked", zap.Int("styles", len(results)), zap.Int("failed", failed))

	tree := check.Tree(results)
	env.Rpt.StoreData("check.txt", []byte(tree))
	if _, er := os.Stdout.WriteString(tree); er != nil {
		env.Log.Warn("Unable to output check results", zap.Error(er))
	}
	if err != nil {
		return fmt.Errorf("fonts catalog has problems: %w", err)
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
