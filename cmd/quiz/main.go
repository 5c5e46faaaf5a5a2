package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"methodquiz/internal/client"
	"methodquiz/internal/config"
	"methodquiz/internal/console"
	"methodquiz/internal/quiz"
)

func main() {
	cfg := config.LoadClient()

	variantTag := flag.String("variant", cfg.Variant, "quiz variant: classic, reasoned or peer-review")
	studiesPath := flag.String("studies", cfg.StudiesPath, "prepared study JSON")
	apiURL := flag.String("api", cfg.BaseURL, "submission service URL (empty runs offline)")
	verbose := flag.Bool("v", false, "log network activity")
	flag.Parse()
	cfg.BaseURL = *apiURL

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	catalog, err := config.LoadVariants(cfg.VariantsPath)
	if err != nil {
		fatalf("variants: %v", err)
	}
	variant, err := catalog.Lookup(*variantTag)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		api    *client.Client
		collab quiz.Collaborator
	)
	if cfg.IsOnline() {
		api = client.New(cfg.BaseURL, cfg.Timeout(), cfg.MaxRetries)
		if _, err := api.IssueToken(ctx); err != nil {
			log.Printf("[Client] continuing without a learner token: %v", err)
		}
		collab = api
	} else if variant.Submit {
		fmt.Fprintln(os.Stderr, "No submission service configured; answers cannot be submitted at the end.")
	}

	store, err := quiz.LoadStore(*studiesPath)
	if err != nil {
		if api == nil {
			fatalf("%v", err)
		}
		studies, ferr := api.FetchStudies(ctx)
		if ferr != nil {
			fatalf("%v (and fetching from %s failed: %v)", err, cfg.BaseURL, ferr)
		}
		store = quiz.NewStore(studies)
	}

	m := quiz.NewMachine(store, variant, collab)
	if err := console.New(m, os.Stdin, os.Stdout).Run(ctx); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "quiz: "+format+"\n", args...)
	os.Exit(1)
}
