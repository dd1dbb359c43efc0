/*
Package config loads the settings of the export service.

Settings come from the process environment, read through an adapter which
implements schuko.Configuration. Dotted configuration keys such as
"tracing.adapter" are looked up as PRESENTON_TRACING_ADAPTER, environment
names are looked up as they are. Tests use any other schuko.Configuration,
e.g. schukonf/testconfig.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cuishuai123/presenton/aggregate"
	"github.com/cuishuai123/presenton/harvest"
	"github.com/cuishuai123/presenton/paginate"
	"github.com/cuishuai123/presenton/resolve"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// Names of environment variables.
const (
	DataDir        = "APP_DATA_DIRECTORY"
	TempDir        = "TEMP_DIRECTORY"
	BackendURL     = "FASTAPI_URL"
	FrontendURL    = "NEXT_PUBLIC_BASE_URL"
	ChromePath     = "CHROME_EXECUTABLE_PATH"
	PuppeteerPath  = "PUPPETEER_EXECUTABLE_PATH"
	Host           = "PRESENTON_HOST"
	Port           = "PRESENTON_PORT"
	LedgerPath     = "PRESENTON_LEDGER"
	TraceLevel     = "PRESENTON_TRACE_LEVEL"
	NavRetries     = "PRESENTON_NAVIGATION_RETRIES"
	PollInterval   = "PRESENTON_POLL_INTERVAL"
	ContainerWait  = "PRESENTON_CONTAINER_BUDGET"
	ContentWait    = "PRESENTON_CONTENT_BUDGET"
	FontWait       = "PRESENTON_FONT_BUDGET"
	ImageWait      = "PRESENTON_IMAGE_BUDGET"
	SettleWait     = "PRESENTON_SETTLE_BUDGET"
	ShadowBonus    = "PRESENTON_SHADOW_COLOR_BONUS"
	ShadowWeight   = "PRESENTON_SHADOW_NUMERIC_WEIGHT"
	MultiLine      = "PRESENTON_MULTILINE_FACTOR"
	SingleLine     = "PRESENTON_SINGLELINE_FACTOR"
	LongText       = "PRESENTON_LONG_TEXT_LENGTH"
	MinScale       = "PRESENTON_MIN_SCALE"
	MaxScale       = "PRESENTON_MAX_SCALE"
	CanonicalSize  = "PRESENTON_CANONICAL_SIZE"
	defaultBackend = "http://localhost:8000"
	defaultFront   = "http://localhost:3000"
	defaultPort    = "8080"
)

// Config holds the settings of one service instance.
type Config struct {
	DataDir           string // export root, required for PDF exports
	TempDir           string // root of raster assets
	BackendURL        string
	FrontendURL       string
	ChromePath        string // empty: let chromedp find Chrome
	Addr              string // listen address
	Ledger            string // sqlite file of the export ledger
	TraceLevel        tracing.TraceLevel
	NavigationRetries int
	Resolve           resolve.Policy
	Aggregate         aggregate.Policy
	Harvest           harvest.Policy
	Paginate          paginate.Policy
}

// ExportDir is the directory PDF documents are written to.
func (c Config) ExportDir() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, "exports")
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	env := Environment()
	env.InitDefaults()
	return From(env)
}

// From reads the configuration from conf. Unset keys take their defaults.
func From(conf schuko.Configuration) (Config, error) {
	r := reader{conf: conf}
	c := Config{
		DataDir:           r.str(DataDir, ""),
		TempDir:           r.str(TempDir, os.TempDir()),
		BackendURL:        r.url(BackendURL, defaultBackend),
		FrontendURL:       r.url(FrontendURL, defaultFront),
		ChromePath:        r.str(ChromePath, r.str(PuppeteerPath, "")),
		TraceLevel:        tracing.TraceLevelFromString(r.str(TraceLevel, "info")),
		NavigationRetries: r.integer(NavRetries, 3),
		Resolve:           resolve.DefaultPolicy(),
		Aggregate:         aggregate.DefaultPolicy(),
		Harvest:           harvest.DefaultPolicy(),
		Paginate:          paginate.DefaultPolicy(),
	}
	c.Addr = r.str(Host, "") + ":" + r.str(Port, defaultPort)
	c.Ledger = r.str(LedgerPath, "")
	if c.Ledger == "" && c.DataDir != "" {
		c.Ledger = filepath.Join(c.ExportDir(), "ledger.db")
	}
	//
	c.Resolve.ShadowVisibleColorBonus = r.integer(ShadowBonus, c.Resolve.ShadowVisibleColorBonus)
	c.Resolve.ShadowNumericWeight = r.integer(ShadowWeight, c.Resolve.ShadowNumericWeight)
	c.Resolve.MultiLineFactor = r.float(MultiLine, c.Resolve.MultiLineFactor)
	c.Resolve.SingleLineFactor = r.float(SingleLine, c.Resolve.SingleLineFactor)
	c.Resolve.LongTextLength = r.integer(LongText, c.Resolve.LongTextLength)
	c.Aggregate.MinScale = r.float(MinScale, c.Aggregate.MinScale)
	c.Aggregate.MaxScale = r.float(MaxScale, c.Aggregate.MaxScale)
	if w, h, ok := r.size(CanonicalSize); ok {
		c.Aggregate.Canonical = aggregate.Canonical{Width: w, Height: h}
		c.Paginate.Width, c.Paginate.Height = w, h
	}
	c.Harvest.ContentInterval = r.duration(PollInterval, c.Harvest.ContentInterval)
	c.Harvest.ContainerBudget = r.duration(ContainerWait, c.Harvest.ContainerBudget)
	c.Harvest.ContentBudget = r.duration(ContentWait, c.Harvest.ContentBudget)
	c.Paginate.FontBudget = r.duration(FontWait, c.Paginate.FontBudget)
	c.Paginate.ImageBudget = r.duration(ImageWait, c.Paginate.ImageBudget)
	c.Paginate.SettleBudget = r.duration(SettleWait, c.Paginate.SettleBudget)
	//
	if r.err != nil {
		return Config{}, r.err
	}
	if c.NavigationRetries < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, is %d", NavRetries, c.NavigationRetries)
	}
	if c.Aggregate.MinScale <= 0 || c.Aggregate.MinScale > c.Aggregate.MaxScale {
		return Config{}, fmt.Errorf("invalid scale clamp [%g, %g]", c.Aggregate.MinScale, c.Aggregate.MaxScale)
	}
	return c, nil
}

// reader converts configuration values and remembers the first error.
type reader struct {
	conf schuko.Configuration
	err  error
}

func (r *reader) str(key, dflt string) string {
	if !r.conf.IsSet(key) {
		return dflt
	}
	if s := strings.TrimSpace(r.conf.GetString(key)); s != "" {
		return s
	}
	return dflt
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config %s=%q: %w", key, value, err)
	}
}

func (r *reader) url(key, dflt string) string {
	s := r.str(key, dflt)
	u, err := url.Parse(s)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		err = fmt.Errorf("not an absolute URL")
	}
	if err != nil {
		r.fail(key, s, err)
	}
	return strings.TrimRight(s, "/")
}

func (r *reader) integer(key string, dflt int) int {
	s := r.str(key, "")
	if s == "" {
		return dflt
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.fail(key, s, err)
		return dflt
	}
	return n
}

func (r *reader) float(key string, dflt float64) float64 {
	s := r.str(key, "")
	if s == "" {
		return dflt
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(key, s, err)
		return dflt
	}
	return f
}

func (r *reader) duration(key string, dflt time.Duration) time.Duration {
	s := r.str(key, "")
	if s == "" {
		return dflt
	}
	d, err := time.ParseDuration(s)
	if err == nil && d <= 0 {
		err = fmt.Errorf("duration must be positive")
	}
	if err != nil {
		r.fail(key, s, err)
		return dflt
	}
	return d
}

// size reads "<width>x<height>".
func (r *reader) size(key string) (float64, float64, bool) {
	s := r.str(key, "")
	if s == "" {
		return 0, 0, false
	}
	var w, h float64
	if _, err := fmt.Sscanf(s, "%gx%g", &w, &h); err != nil || w <= 0 || h <= 0 {
		r.fail(key, s, fmt.Errorf("expected <width>x<height>"))
		return 0, 0, false
	}
	return w, h, true
}
