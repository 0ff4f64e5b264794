// sweepctl runs deletion actions from the command line against a real or
// S3-compatible backend, for local testing and operations.
//
// Usage:
//
//	sweepctl                                      run the scheduled sweep
//	sweepctl -action immediate -user <userId>     delete one account now
//	sweepctl -action status -job <jobId>          query a batch job
//
// Configuration flags (-e, -b, -t, -g, -s, -r, -a) are handled by the config
// package.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/codelynx/photolala-deletion/internal/config"
	"github.com/codelynx/photolala-deletion/internal/flagx"
	"github.com/codelynx/photolala-deletion/internal/handler"
	"github.com/codelynx/photolala-deletion/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sweepctl:", err)
		os.Exit(1)
	}
}

func run() error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-action", "-user", "-job"})

	fs := flag.NewFlagSet("sweepctl", flag.ExitOnError)
	action := fs.String("action", handler.ActionScheduled, "action: scheduled, immediate or status")
	user := fs.String("user", "", "user id (immediate)")
	job := fs.String("job", "", "job id (status)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	cfg := config.LoadConfig()

	ctx := context.Background()
	h, err := handler.Build(ctx, cfg, log)
	if err != nil {
		return err
	}

	resp, err := h.Handle(ctx, handler.Event{Type: *action, UserID: *user, JobID: *job})
	if err != nil {
		return err
	}

	fmt.Println(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}
