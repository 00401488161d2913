package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/emurenMRz/mimeview/internal/server"
)

func main() {
	var (
		path     = flag.String("path", "", "path to archives and mbox files, overrides the config file")
		listen   = flag.String("listen", "", "address to listen on, overrides the config file")
		confPath = flag.String("config", "", "sconf config file")
		describe = flag.Bool("describe", false, "print an example config file and exit")
	)
	flag.Parse()

	if *describe {
		if err := server.DescribeConfig(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg := server.DefaultConfig()
	if *confPath != "" {
		c, err := server.ParseConfig(*confPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}
	if *path != "" {
		cfg.Path = *path
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mux := http.NewServeMux()
	server.RegisterHandlers(mux, cfg, logger)

	logger.Info("listening", slog.String("addr", cfg.Listen), slog.String("path", cfg.Path))
	if err := server.ListenAndServe(cfg.Listen, mux); err != nil {
		logger.Error("serve", slog.Any("err", err))
		os.Exit(1)
	}
}
