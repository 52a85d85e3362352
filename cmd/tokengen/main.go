// Command tokengen выпускает access токен курьера или администратора
// для локальной разработки и ручной проверки API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ignatzorin/parcel-ledger/internal/config"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	subject := fs.String("sub", "", "идентификатор курьера или администратора")
	role := fs.String("role", models.RoleRider, "роль: rider или admin")
	name := fs.String("name", "", "отображаемое имя")
	ttl := fs.Duration("ttl", 0, "срок жизни токена, по умолчанию ACCESS_TOKEN_TTL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *role != models.RoleRider && *role != models.RoleAdmin {
		return fmt.Errorf("неизвестная роль %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	token, expiresAt, err := tokens.Generate(*subject, *role, *name, *ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\n# expires at %s\n", token, expiresAt.UTC().Format(time.RFC3339))
	return err
}
