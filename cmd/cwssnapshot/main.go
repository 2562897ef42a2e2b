// Command cwssnapshot logs into the CWS backend, loads every collection the
// dashboard loads and prints the derived figures. Operators use it to check
// a station's numbers without a browser.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/store"
	"cwsdash/infrastructure/viewmodel"
)

type options struct {
	BackendURL string `env:"CWS_BACKEND_URL"`
	Email      string `env:"CWS_SNAPSHOT_EMAIL"`
	Password   string `env:"CWS_SNAPSHOT_PASSWORD"`
	LogLevel   string `env:"CWS_LOG_LEVEL"`
	Season     string
	Timeout    time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Fatalf("load .env: %v", err)
	}
	var opts options
	if _, err := env.UnmarshalFromEnviron(&opts); err != nil {
		logrus.Fatalf("read environment: %v", err)
	}
	flag.StringVar(&opts.BackendURL, "backend", opts.BackendURL, "CWS backend base URL")
	flag.StringVar(&opts.Email, "email", opts.Email, "login email")
	flag.StringVar(&opts.Season, "season", "", `season id, "all", or empty for the current season`)
	flag.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	if opts.BackendURL == "" {
		opts.BackendURL = "http://localhost:5000/api"
	}
	if opts.LogLevel == "" {
		opts.LogLevel = "warn"
	}
	logger := config.NewLogger(opts.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		logger.Fatalf("snapshot: %v", err)
	}
}

func run(ctx context.Context, opts options, logger *logrus.Logger, out io.Writer) error {
	if opts.Email == "" || opts.Password == "" {
		return errors.New("CWS_SNAPSHOT_EMAIL and CWS_SNAPSHOT_PASSWORD are required")
	}
	client := backend.NewClient(strings.TrimRight(opts.BackendURL, "/"), opts.Timeout, logger)
	res, err := client.Login(ctx, backend.LoginInput{Email: strings.ToLower(opts.Email), Password: opts.Password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return errors.New("login: backend returned no token")
	}

	api := client.WithToken(res.Token)
	season := opts.Season
	if season == "" {
		// The backend's notion of the current season wins over the local pick.
		if cur, err := api.CurrentSeason(ctx); err == nil && cur.ID > 0 {
			season = strconv.FormatInt(cur.ID, 10)
		}
	}

	s := store.New(api, logger)
	defer s.Close()
	s.Refresh(ctx, slices.Concat(store.InitialLoad, []store.Collection{store.QualityChecks, store.ComplianceChecks})...)
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeSnapshot(out, s, season, time.Now())
}

// writeSnapshot prints the station figures for the chosen season.
func writeSnapshot(out io.Writer, s *store.Store, season string, now time.Time) error {
	seasons := s.Seasons()
	var seasonID *int64
	label := "All seasons"
	switch season {
	case "all":
	case "":
		if cur, ok := aggregate.CurrentSeason(seasons); ok {
			seasonID, label = &cur.ID, cur.Name
		}
	default:
		id, err := strconv.ParseInt(season, 10, 64)
		if err != nil {
			return fmt.Errorf("season %q is not a number", season)
		}
		label = "season " + season
		for _, sn := range seasons {
			if sn.ID == id {
				label = sn.Name
			}
		}
		seasonID = &id
	}

	fin := aggregate.Financials(s.Financials(), seasonID)
	farmers := aggregate.FarmerSummaries(s.Farmers(), s.Deliveries())
	active := 0
	for _, f := range farmers {
		if viewmodel.DereferencePtr(f.Active, true) {
			active++
		}
	}
	lots := s.EnrichedLots()
	open := 0
	for _, l := range lots {
		if l.StatusCode == "in_process" || l.StatusCode == "created" {
			open++
		}
	}
	bags := aggregate.AvailableBags(s.StorageBags())
	assets := aggregate.SumAssets(aggregate.DepreciateAssets(s.Assets(), now))
	comp := aggregate.SummarizeCompliance(s.QualityChecks(), s.ComplianceChecks())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Season", label},
		{"Farmers", fmt.Sprintf("%d (%d active)", len(farmers), active)},
		{"Lots", fmt.Sprintf("%d (%d open)", len(lots), open)},
		{"Bags in storage", strconv.Itoa(len(bags))},
		{"Cherry delivered", html.Kg(fin.DeliveredKg)},
		{"Revenue", html.Money(fin.Revenue)},
		{"Cherry purchases", html.Money(fin.CherryPurchases)},
		{"Operating expenses", html.Money(fin.Expenses)},
		{"Labor", html.Money(fin.Labor)},
		{"Total cost", html.Money(fin.TotalCost)},
		{"Net profit", html.Money(fin.NetProfit)},
		{"Profit margin", html.Percent(fin.ProfitMargin)},
		{"Cost per kg", html.Money(fin.CostPerKg)},
		{"Assets (current value)", html.Money(assets.CurrentValue)},
		{"Quality checks", fmt.Sprintf("%d (%d compliant)", comp.QualityChecks, comp.QualityCompliant)},
		{"Sustainability checks", strconv.Itoa(comp.SustainabilityChecks)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
