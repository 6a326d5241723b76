// Copyright 2026 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wabarc/logger"

	"github.com/wabarc/rxv"
)

type options struct {
	archivetoday    bool
	internetarchive bool
	all             bool
	timeout         time.Duration
}

func (o *options) services(arc *rxv.Archiver) []string {
	if o.all {
		return arc.Services()
	}
	var services []string
	if o.archivetoday {
		services = append(services, rxv.ServiceArchiveToday)
	}
	if o.internetarchive {
		services = append(services, rxv.ServiceInternetArchive)
	}
	return services
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "rxv url [url]...",
		Short: "Submit URLs to web archival services.",
		Long: `rxv submits URLs to web archival services and prints the
resulting archive link per (url, service) pair. URLs are read from the
arguments, or from standard input when none are given.`,
		Example: `  rxv https://example.com --at --ia
  rxv https://example.com https://example.org --all
  echo https://example.com | rxv --ia`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.archivetoday, "archivetoday", false, "enable archive.today")
	flags.BoolVar(&opts.internetarchive, "internetarchive", false, "enable Internet Archive Wayback Machine")
	flags.BoolVarP(&opts.all, "all", "a", false, "enable all archival services")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-submission timeout, overrides RXV_TIMEOUT")
	flags.SetNormalizeFunc(aliasNormalizeFunc)
	return cmd
}

// aliasNormalizeFunc maps the short service flags onto their long forms.
func aliasNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "at":
		name = "archivetoday"
	case "ia":
		name = "internetarchive"
	}
	return pflag.NormalizedName(name)
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	arc := rxv.New(nil)
	if opts.timeout > 0 {
		arc.SetClient(&http.Client{Timeout: opts.timeout})
	}

	services := opts.services(arc)
	if len(services) == 0 {
		return errors.New("requires at least one service flag (--archivetoday/--at, --internetarchive/--ia or --all)")
	}

	links := args
	if len(links) == 0 {
		links = readLines(cmd)
	}
	if len(links) == 0 {
		return errors.New("no URLs provided")
	}

	cfg := arc.Config()
	keep := make([]string, 0, len(links))
	for _, link := range links {
		if u, err := url.Parse(link); err == nil && cfg.Excluded(u.Hostname()) {
			logger.Warn("[rxv] skipped %s: already an archive host", link)
			continue
		}
		keep = append(keep, link)
	}
	if len(keep) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no URLs left to archive")
		return nil
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, link := range keep {
		for _, res := range arc.ArchiveWithMany(cmd.Context(), services, link) {
			if res.Err != nil {
				failed++
				// SubmissionError already names the service.
				fmt.Fprintf(out, "%s => %v\n", link, res.Err)
				continue
			}
			fmt.Fprintf(out, "%s => %s\n", link, res.Dest)
		}
	}
	if failed > 0 {
		return errors.Errorf("%d submission(s) failed", failed)
	}
	return nil
}

func readLines(cmd *cobra.Command) []string {
	var links []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if link := strings.TrimSpace(scanner.Text()); link != "" {
			links = append(links, link)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("[rxv] read stdin failed: %v", err)
	}
	return links
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
