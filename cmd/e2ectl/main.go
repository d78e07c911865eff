// e2ectl is the harness companion CLI: list the suite, inspect the
// marker vocabulary, and check that the application under test is
// reachable before burning time on a full run.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"github.com/omniapp-io/omniapp-qa/internal/apiclient"
	"github.com/omniapp-io/omniapp-qa/internal/config"
	"github.com/omniapp-io/omniapp-qa/internal/markers"
	"github.com/omniapp-io/omniapp-qa/internal/suite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "e2ectl",
		Short:         "Companion CLI for the OmniApp end-to-end suite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newListCmd(), newMarkersCmd(), newDoctorCmd())
	return root
}

func newListCmd() *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tests, optionally filtered by a marker expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := suite.Filter(expr)
			if err != nil {
				return err
			}
			for _, e := range entries {
				tags := make([]string, 0, len(e.Markers))
				for _, m := range e.Markers.Slice() {
					tags = append(tags, string(m))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s [%s] %s\n",
					e.Name, strings.Join(tags, ", "), e.Description)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d test(s)\n", len(entries))
			return nil
		},
	}
	cmd.Flags().StringVarP(&expr, "markers", "m", "",
		`marker expression, e.g. "smoke and not performance"`)
	return cmd
}

func newMarkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markers",
		Short: "Show the marker vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range markers.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", m, markers.Known[m])
			}
			return nil
		},
	}
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the frontend and API are reachable with the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frontend: %s\n", settings.FrontendURL)
			fmt.Fprintf(out, "api:      %s\n", settings.APIURL)

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			ok := true
			if err := checkFrontend(ctx, settings.FrontendURL); err != nil {
				ok = false
				fmt.Fprintf(out, "frontend: FAIL (%v)\n", err)
			} else {
				fmt.Fprintln(out, "frontend: ok")
			}
			if err := checkAPI(ctx, settings); err != nil {
				ok = false
				fmt.Fprintf(out, "api:      FAIL (%v)\n", err)
			} else {
				fmt.Fprintln(out, "api:      ok")
			}
			if err := checkPlaywright(); err != nil {
				ok = false
				fmt.Fprintf(out, "browser:  FAIL (%v)\n", err)
			} else {
				fmt.Fprintln(out, "browser:  ok")
			}
			if !ok {
				return fmt.Errorf("environment is not ready")
			}
			return nil
		},
	}
}

func checkFrontend(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/login", nil)
	if err != nil {
		return err
	}
	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("frontend returned %d", resp.StatusCode)
	}
	return nil
}

// checkPlaywright verifies the driver can start at all, installing it if
// needed, without launching a browser.
func checkPlaywright() error {
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(); err != nil {
			return fmt.Errorf("install playwright driver: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright driver: %w", err)
	}
	return pw.Stop()
}

func checkAPI(ctx context.Context, settings *config.Settings) error {
	client := apiclient.New(settings.APIURL, settings.APIKey)
	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("health endpoint returned %d", resp.Status)
	}
	return nil
}
