// Command lookup enriches a single address or ZIP code using the same
// environment configuration, cache, and provider chains as the service, and
// prints the result as indented JSON. Logs go to stderr.
//
// Usage:
//
//	go run ./cmd/lookup -address "123 Test St" -city "San Francisco" -state CA -zip 94102
//	go run ./cmd/lookup -climate-zip 94102
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/httpadapter"
	"github.com/couchcryptid/home-data-enrichment/internal/app"
	"github.com/couchcryptid/home-data-enrichment/internal/config"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
	"github.com/couchcryptid/home-data-enrichment/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	address := fs.String("address", "", "street address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "two-letter state code")
	zip := fs.String("zip", "", "ZIP or ZIP+4")
	climateZip := fs.String("climate-zip", "", "look up climate for this ZIP instead of a property")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var validate func() error
	switch {
	case *climateZip != "" && *address != "":
		return errors.New("use either -address or -climate-zip, not both")
	case *climateZip != "":
		validate = domain.ClimateLookupRequest{Zip: *climateZip}.Validate
	case *address != "":
		validate = domain.PropertyLookupRequest{Address: *address, City: *city, State: *state, Zip: *zip}.Validate
	default:
		fs.Usage()
		return errors.New("missing required flag: -address or -climate-zip")
	}
	if err := validate(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(ctx, cfg, logger, observability.NewMetrics())
	if err != nil {
		return err
	}
	defer svc.Close() //nolint:errcheck // process is exiting

	var result any
	if *climateZip != "" {
		result, err = svc.Enricher.EnrichClimate(ctx, *climateZip)
	} else {
		var profile domain.EnrichedProfile
		profile, err = svc.Enricher.EnrichPropertyData(ctx, *address, *city, *state, *zip)
		result = httpadapter.PropertyLookupResponse{Profile: profile, Home: domain.MapToHomeSchema(profile)}
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
