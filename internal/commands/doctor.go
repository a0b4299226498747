package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/docstore"
	"github.com/saulo-duarte/swayami/internal/session"
)

func addDoctor(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend reachability.",
		Example: `
swayami doctor
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			config.InitLogger(config.LogConfig{Level: "error", Format: "text"})
			Doctor(cmd.Context(), color.Output, cfg)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

type check struct {
	name   string
	value  string
	status string
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
)

// Doctor writes one row per configuration concern, marking what will work,
// what degrades to a fallback and what is broken.
func Doctor(ctx context.Context, out io.Writer, cfg config.Config) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("Check"), bold("Value"), bold("Status"))

	for _, c := range runChecks(ctx, cfg) {
		tbl.AddRow(c.name, c.value, c.status)
	}
	_, _ = fmt.Fprintln(out, tbl)
}

func runChecks(ctx context.Context, cfg config.Config) []check {
	checks := []check{environmentCheck(cfg)}

	db, backend, err := docstore.Open(ctx, cfg.DocStore)
	switch {
	case err != nil:
		checks = append(checks, check{"document store", cfg.DocStore.Backend, failMark(err.Error())})
	case backend == docstore.BackendLocal && cfg.DocStore.Backend != string(docstore.BackendLocal):
		checks = append(checks, check{"document store", string(backend), warnMark("fallback to local store")})
	default:
		status := okMark("ok")
		if err := docstore.Probe(ctx, db, cfg.DocStore.ProbeTimeout); err != nil {
			status = failMark(err.Error())
		}
		checks = append(checks, check{"document store", string(backend), status})
	}

	if cfg.Identity.URL == "" || cfg.Identity.AnonKey == "" {
		checks = append(checks, check{"identity provider", cfg.Identity.URL, failMark("url and anon key required")})
	} else {
		checks = append(checks, check{"identity provider", cfg.Identity.URL, okMark("configured")})
	}

	checks = append(checks, sessionCheck(cfg.Session))

	if cfg.AI.APIKey == "" {
		checks = append(checks, check{"ai provider", cfg.AI.Provider, warnMark("no key, static suggestions")})
	} else {
		checks = append(checks, check{"ai provider", cfg.AI.Provider + " / " + cfg.AI.Model, okMark("configured")})
	}

	cal := "disabled"
	if cfg.Calendar.Enabled {
		cal = "enabled"
	}
	checks = append(checks, check{"calendar mirror", cal, okMark("ok")})
	return checks
}

// environmentCheck flags a public URL whose host belongs to another
// deployment.
func environmentCheck(cfg config.Config) check {
	c := check{name: "environment", value: string(cfg.Environment), status: okMark("ok")}

	u, err := url.Parse(cfg.PublicURL)
	if err != nil || u.Hostname() == "" {
		c.status = failMark("invalid public url")
		return c
	}
	if hostEnv := config.EnvironmentForHost(u.Hostname()); hostEnv != cfg.Environment {
		c.status = warnMark(fmt.Sprintf("public url %s looks like %s", u.Hostname(), hostEnv))
	}
	return c
}

func sessionCheck(cfg config.SessionConfig) check {
	if cfg.RedisURL == "" {
		return check{"session store", "memory", warnMark("sessions lost on restart")}
	}

	var cipher *config.Cipher
	if cfg.CryptoKey != "" {
		var err error
		if cipher, err = config.NewCipher(cfg.CryptoKey); err != nil {
			return check{"session store", "redis", failMark(err.Error())}
		}
	}

	store, err := session.NewRedisStore(cfg.RedisURL, cipher)
	if err != nil {
		return check{"session store", "redis", failMark(err.Error())}
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return check{"session store", "redis", failMark(err.Error())}
	}
	if cipher == nil {
		return check{"session store", "redis", warnMark("tokens not encrypted")}
	}
	return check{"session store", "redis", okMark("ok")}
}
