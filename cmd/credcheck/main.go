// Command credcheck is the operator tool for stored credentials: it hashes a
// password, checks candidates against a hash, inspects a hash's parameters
// and reports on the credential stored for an account. It never prints a
// plaintext, and lookup never prints the stored hash.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shandysiswandi/medibook/internal/pkg/config"
	"github.com/shandysiswandi/medibook/internal/pkg/hash"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `usage: credcheck <command> [flags]

commands:
  hash     [-algorithm bcrypt|argon2id] [-cost N]   hash a password read without echo
  verify   -hash H                                  check candidates (one per stdin line)
  inspect  -hash H [-cost N]                        print the parameters of H
  lookup   -email E                                 report on the stored credential (uses CONFIG_PATH)
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "hash":
		err = cmdHash(args[1:], stdin, stdout, stderr)
	case "verify":
		err = cmdVerify(args[1:], stdin, stdout, stderr)
	case "inspect":
		err = cmdInspect(args[1:], stdout, stderr)
	case "lookup":
		err = cmdLookup(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, hash.ErrMalformedHash):
		fmt.Fprintln(stderr, "malformed hash")
		return exitError
	default:
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
}

var errUsage = errors.New("usage")

// hasherFlags are shared by the commands that build a PasswordHasher.
type hasherFlags struct {
	algorithm string
	cost      int
	pepper    string
}

func (h *hasherFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&h.algorithm, "algorithm", string(hash.AlgorithmBcrypt), "algorithm for new hashes: bcrypt or argon2id")
	fs.IntVar(&h.cost, "cost", 12, "bcrypt cost")
	fs.StringVar(&h.pepper, "pepper", os.Getenv(config.EnvPrefix+"_HASH_PASSWORD_PEPPER"), "server-side pepper")
}

func (h *hasherFlags) build() (hash.PasswordHasher, error) {
	return hash.NewPassword(hash.Config{
		Algorithm:  h.algorithm,
		Pepper:     h.pepper,
		BcryptCost: h.cost,
	})
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseFlags reports any parse failure as errUsage; the flag set has already
// printed the message and its usage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

func cmdHash(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var hf hasherFlags
	fs := newFlagSet("hash", stderr)
	hf.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	hasher, err := hf.build()
	if err != nil {
		return err
	}

	pw, err := readSecret(stdin, stderr)
	if err != nil {
		return err
	}

	hashed, err := hasher.Hash(pw)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, string(hashed))
	return nil
}

func cmdVerify(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var hf hasherFlags
	var hashed string
	fs := newFlagSet("verify", stderr)
	hf.register(fs)
	fs.StringVar(&hashed, "hash", "", "stored hash to check against")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(hashed) == "" {
		fmt.Fprintln(stderr, "verify: -hash is required")
		return errUsage
	}

	hasher, err := hf.build()
	if err != nil {
		return err
	}

	if _, err := hasher.Inspect(hashed); err != nil {
		return err
	}

	return eachCandidate(stdin, stderr, func(candidate string) error {
		ok, err := hasher.Check(hashed, candidate)
		if err != nil {
			return err
		}

		if ok {
			fmt.Fprintln(stdout, "match")
		} else {
			fmt.Fprintln(stdout, "no match")
		}
		return nil
	})
}

func cmdInspect(args []string, stdout, stderr io.Writer) error {
	var hf hasherFlags
	var hashed string
	fs := newFlagSet("inspect", stderr)
	hf.register(fs)
	fs.StringVar(&hashed, "hash", "", "stored hash to inspect")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(hashed) == "" {
		fmt.Fprintln(stderr, "inspect: -hash is required")
		return errUsage
	}

	hasher, err := hf.build()
	if err != nil {
		return err
	}

	info, err := hasher.Inspect(hashed)
	if err != nil {
		fmt.Fprintln(stdout, "algorithm:", hash.Detect(hashed))
		return err
	}

	printInfo(stdout, info, hasher.NeedsRehash(hashed))
	return nil
}

func printInfo(w io.Writer, info hash.Info, needsRehash bool) {
	fmt.Fprintln(w, "algorithm:", info.Algorithm)
	if info.Version != "" {
		fmt.Fprintln(w, "version:", info.Version)
	}
	switch info.Algorithm {
	case hash.AlgorithmBcrypt:
		fmt.Fprintln(w, "cost:", info.Cost)
	case hash.AlgorithmArgon2id:
		fmt.Fprintf(w, "memory_kib: %d\niterations: %d\nparallelism: %d\n", info.Memory, info.Iterations, info.Parallelism)
	}
	fmt.Fprintln(w, "needs_rehash:", needsRehash)
}
