// Command admintoken prints a bearer token for the room API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"werewolf/crypto"
)

type Config struct {
	Key     string
	Subject string
	TTL     time.Duration
}

func ParseConfig(fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
	cfg := Config{Subject: "command-frontend", TTL: 30 * 24 * time.Hour}
	fs.StringVar(&cfg.Key, "key", getenv("ADMIN_JWT_KEY"), "signing key (defaults to $ADMIN_JWT_KEY)")
	fs.StringVar(&cfg.Subject, "sub", cfg.Subject, "token subject")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Run(cfg Config, out io.Writer, now time.Time) error {
	if strings.TrimSpace(cfg.Key) == "" {
		return errors.New("signing key is required")
	}
	if cfg.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	token, err := crypto.NewJWTManager(cfg.Key, cfg.TTL).Generate(cfg.Subject, []string{crypto.ScopeRooms}, now)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	if err := Run(cfg, os.Stdout, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "mint token: %v\n", err)
		os.Exit(1)
	}
}
