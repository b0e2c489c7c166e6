// Command useradd registers an account in the configured account store.
//
//	useradd -email someone@student.com -password secret
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/studentportal/portal/backend/go-services/internal/app"
	"github.com/studentportal/portal/backend/go-services/internal/config"
	"github.com/studentportal/portal/backend/go-services/internal/users"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: useradd -email EMAIL -password PASSWORD")
		return 2
	}

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if cfg.Database.Driver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "useradd: the memory driver does not persist accounts")
		return 1
	}

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open stores: %v\n", err)
		return 1
	}
	defer stores.Close(ctx)

	a, err := users.NewService(stores.Accounts, cfg.Auth.BcryptCost).Create(ctx, *email, *password)
	if errors.Is(err, users.ErrDuplicateIdentity) {
		fmt.Fprintln(os.Stderr, "account already exists")
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "create account: %v\n", err)
		return 1
	}
	fmt.Printf("created account %d (%s)\n", a.ID, a.Email)
	return 0
}
