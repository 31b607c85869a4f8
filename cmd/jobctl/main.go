package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iudanet/jobboard/internal/cli"
	"github.com/iudanet/jobboard/internal/cli/iocli"
	"github.com/iudanet/jobboard/internal/config"
	"github.com/iudanet/jobboard/internal/server/storage/sqlstore"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	envFile := flag.String("env-file", ".env", "Path to .env file (optional)")
	passwordFile := flag.String("password-file", "", "File with the password for create-user")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}

	command := args[0]

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// mail работает только с outbox и не требует базы
	if command == "mail" {
		if err := cli.New(stdio, nil).RunMail(ctx, cfg.MailOutboxPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dialect, err := sqlstore.DialectByName(cfg.DBDriver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := sqlstore.New(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	c := cli.New(stdio, store)

	// Выполняем команду
	switch command {
	case "import":
		err = c.RunImport(ctx, args[1:])
	case "create-user":
		err = c.RunCreateUser(ctx, args[1:], cli.Passwords{FromFile: *passwordFile})
	case "stats":
		err = c.RunStats(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage(stdio)
		err = fmt.Errorf("unknown command")
	}

	if closeErr := store.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v\n", closeErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("JobBoard CLI\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
