// Command profilectl is the operator tool for the profiles consumed by the
// SMS gateway. Profiles are owned outside the gateway; this tool is the
// supported way to create, inspect, and list them in the configured store.
//
// Usage:
//
//	profilectl [-config config.toml] put -user <id> -file <profile.json>
//	profilectl [-config config.toml] get -user <id>
//	profilectl [-config config.toml] list
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"github.com/naviai/smsgate/internal/app"
	"github.com/naviai/smsgate/internal/config"
	"github.com/naviai/smsgate/internal/domain"
	"github.com/naviai/smsgate/internal/gateway"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: profilectl [-config path] put|get|list ...")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	ctx := context.Background()

	store, cleanup, err := app.WireProfileStore(ctx, cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer cleanup()

	switch cmd := flag.Arg(0); cmd {
	case "put":
		err = runPut(ctx, cfg, store.Store, flag.Args()[1:])
	case "get":
		err = runGet(ctx, store.Store, flag.Args()[1:])
	case "list":
		err = runList(ctx, store.Store)
	default:
		fatal("unknown command %q (valid: put, get, list)", cmd)
	}
	if err != nil {
		fatal("%v", err)
	}
}

// runPut validates and uploads a profile read from a JSON file.
func runPut(ctx context.Context, cfg *config.Config, store domain.ProfileAdminStore, args []string) error {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	user := fs.String("user", "", "user ID (digits, 8-12 characters)")
	file := fs.String("file", "", "path to a profile JSON file")
	_ = fs.Parse(args)

	if *user == "" || *file == "" {
		return fmt.Errorf("put: -user and -file are required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("put: read %s: %w", *file, err)
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("put: parse %s: %w", *file, err)
	}

	if err := checkProfile(*user, p, cfg.Gateway.AllowedPrefixes); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	if err := store.Put(ctx, *user, p); err != nil {
		return err
	}
	fmt.Printf("stored profile for %s (%d range(s), %d number(s))\n",
		*user, len(p.AllowedIPs), len(p.PhoneNumbers))
	return nil
}

// runGet prints the stored profile for a user as indented JSON.
func runGet(ctx context.Context, store domain.ProfileAdminStore, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	user := fs.String("user", "", "user ID")
	_ = fs.Parse(args)

	if *user == "" {
		return fmt.Errorf("get: -user is required")
	}

	p, err := store.Get(ctx, *user)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("get: encode profile: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// runList prints all stored user IDs, one per line.
func runList(ctx context.Context, store domain.ProfileAdminStore) error {
	ids, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

// checkProfile rejects profiles the gateway could never serve: a bad user
// ID, CIDRs that do not parse, or default numbers outside the accepted
// prefix policy. Catching these at provisioning time beats surfacing them
// as internal faults at send time.
func checkProfile(userID string, p domain.Profile, allowedPrefixes []string) error {
	probe := domain.SendRequest{UserID: userID, Message: "probe", PhoneNumbers: p.PhoneNumbers}
	if v := gateway.Validate(probe, allowedPrefixes); v != nil {
		return fmt.Errorf("profile rejected (%s): %s", v.Outcome, v.Detail)
	}

	var bad []string
	for _, cidr := range p.AllowedIPs {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			bad = append(bad, cidr)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("unparseable cidr(s): %s", strings.Join(bad, ", "))
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "profilectl: "+format+"\n", args...)
	os.Exit(1)
}
