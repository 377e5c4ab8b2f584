package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/medibook/internal/identity/outbound/db"
	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/goerror"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
)

var errAccountNotFound = errors.New("no account with that email")

func cmdLookup(args []string, stdout, stderr io.Writer) error {
	var email string
	fs := newFlagSet("lookup", stderr)
	fs.StringVar(&email, "email", "", "account email")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		fmt.Fprintln(stderr, "lookup: -email is required")
		return errUsage
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer cfg.Close()

	hasher, err := hash.NewPassword(hash.Config{
		Algorithm:  cfg.GetString("hash.password.algorithm"),
		Pepper:     cfg.GetString("hash.password.pepper"),
		BcryptCost: cfg.GetInt("hash.password.bcrypt_cost"),
		Argon2: hash.Argon2Params{
			Memory:      cfg.GetUint32("hash.password.argon2id.memory_kib"),
			Iterations:  cfg.GetUint32("hash.password.argon2id.iterations"),
			Parallelism: uint8(cfg.GetUint32("hash.password.argon2id.parallelism")), //nolint:gosec // bounded by config
			SaltLength:  cfg.GetUint32("hash.password.argon2id.salt_length"),
			KeyLength:   cfg.GetUint32("hash.password.argon2id.key_length"),
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetString("database.url"))
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	user, err := db.NewDB(pool, instrument.NewNoop()).GetUserLoginInfo(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, goerror.ErrNotFound) {
		return errAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	fmt.Fprintln(stdout, "user_id:", user.ID)
	fmt.Fprintln(stdout, "status:", user.Status)

	info, err := hasher.Inspect(user.Password)
	if err != nil {
		fmt.Fprintln(stdout, "algorithm:", hash.Detect(user.Password))
		fmt.Fprintln(stdout, "well_formed: false")
		return nil
	}

	fmt.Fprintln(stdout, "well_formed: true")
	printInfo(stdout, info, hasher.NeedsRehash(user.Password))
	return nil
}
