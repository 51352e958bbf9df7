// Command uuidgen prints version 1 or version 4 UUIDs.
//
// Usage:
//
//	uuidgen [-v 1|4] [-n count] [-format hex|urn|nodelim|bits|base64|base64std|json|yaml]
//	        [-config uuidgen.toml] [-env .env] [-state url] [-state-name name] [-ratio 0.25]
//
// Settings are layered: defaults, the -config TOML file, the -env dotenv
// file (none unless given), UUIDGEN_* environment variables, then flags.
//
// With -state the version 1 clock state is resumed from and saved back to
// the given store (see package statestore for the URL forms).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	uuid "github.com/ClydeShen/Angular2-UUIID"
	"github.com/ClydeShen/Angular2-UUIID/internal/config"
	"github.com/ClydeShen/Angular2-UUIID/internal/render"
	"github.com/ClydeShen/Angular2-UUIID/statestore"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("uuidgen: ")

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fset := flag.NewFlagSet("uuidgen", flag.ContinueOnError)
	var (
		configPath = fset.String("config", "", "TOML configuration file")
		envFile    = fset.String("env", "", "dotenv file loaded before the environment is read")
		version    = fset.Int("v", 0, "UUID version: 1 or 4")
		count      = fset.Int("n", 0, "number of UUIDs to print")
		format     = fset.String("format", "", "output format: "+strings.Join(render.Formats(), ", "))
		state      = fset.String("state", "", "clock state store URL (file://, sqlite3://, mysql://, postgres://, zk://)")
		stateName  = fset.String("state-name", "", "saved state name for SQL stores")
		ratio      = fset.Float64("ratio", -1, "probability of advancing the v1 tick within a millisecond")
	)
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Read(*configPath, *envFile)
	if err != nil {
		return err
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Version = *version
		case "n":
			cfg.Count = *count
		case "format":
			cfg.Format = *format
		case "state":
			cfg.State = *state
		case "state-name":
			cfg.StateName = *stateName
		case "ratio":
			cfg.TimestampRatio = *ratio
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !render.Supported(cfg.Format) {
		return fmt.Errorf("unknown format %q (want one of %s)", cfg.Format, strings.Join(render.Formats(), ", "))
	}

	ids, err := generate(ctx, cfg)
	if err != nil {
		return err
	}
	return render.Write(stdout, cfg.Format, ids)
}

// generate produces cfg.Count UUIDs, resuming and checkpointing the clock
// state when a store is configured.
func generate(ctx context.Context, cfg *config.Config) ([]uuid.UUID, error) {
	opts := []uuid.Option{uuid.WithTimestampRatio(cfg.TimestampRatio)}

	var (
		gen   *uuid.Generator
		store statestore.Store
		err   error
	)
	if cfg.State != "" {
		store, err = statestore.Open(ctx, cfg.State, statestore.WithName(cfg.StateName))
		if err != nil {
			return nil, err
		}
		defer store.Close()
		gen, err = statestore.Resume(ctx, store, opts...)
	} else {
		gen, err = uuid.NewGenerator(opts...)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		var id uuid.UUID
		if cfg.Version == 1 {
			id, err = gen.NewV1()
		} else {
			id, err = gen.NewV4()
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if store != nil && cfg.Version == 1 {
		if err := statestore.Checkpoint(ctx, store, gen); err != nil {
			return nil, err
		}
		log.Printf("clock state saved to %s", redact(cfg.State))
	}
	return ids, nil
}

// redact hides the credentials part of a store URL.
func redact(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***" + rest[at:]
	}
	return raw
}
