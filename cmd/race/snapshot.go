package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/race/internal/config"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/snapshot"
	"github.com/vango-dev/race/pkg/vdom"
)

func snapshotCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect rendered snapshots",
		Long: `Render a demo app and store its host tree, or read stored snapshots.

Snapshots are MessagePack files kept in the configured directory, or in
S3 when snapshot.s3.bucket is set.`,
	}

	cmd.AddCommand(
		snapshotSaveCmd(g),
		snapshotShowCmd(g),
		snapshotListCmd(g),
	)
	return cmd
}

func snapshotSaveCmd(g *globals) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <app>",
		Short: "Render an app and store its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if name == "" {
				name = args[0] + ".mp"
			}
			return saveSnapshot(cmd.Context(), cmd.OutOrStdout(), store, args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Snapshot name (default <app>.mp)")
	return cmd
}

func snapshotShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored snapshot as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			return showSnapshot(cmd.Context(), cmd.OutOrStdout(), store, args[0])
		},
	}
}

func snapshotListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(names) == 0 {
				info(w, "no snapshots")
			}
			for _, n := range names {
				fmt.Fprintln(w, n)
			}
			return nil
		},
	}
}

// openStore returns the S3 store when a bucket is configured, otherwise a
// file store in the snapshot directory.
func openStore(cfg *config.Config) (snapshot.Store, error) {
	if !cfg.UseS3() {
		return snapshot.NewFileStore(cfg.SnapshotDir())
	}

	s3cfg := cfg.Snapshot.S3
	opts := s3.Options{
		Region:      s3cfg.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if s3cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(s3cfg.Endpoint)
		opts.UsePathStyle = true
	}
	client := s3.New(opts)
	return snapshot.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), nil
}

// envCredentials reads the standard AWS credential variables.
func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for S3 snapshots")
	}
	return creds, nil
}

func saveSnapshot(ctx context.Context, w io.Writer, store snapshot.Store, app, name string) error {
	def, err := lookupApp(app)
	if err != nil {
		return err
	}

	mem := host.NewMemory()
	a := race.CreateApp(def, vdom.Props{}, race.WithHost(mem),
		race.WithRendererOptions(race.WithRaiseErrors(true)))
	if err := a.Mount(mem.Body()); err != nil {
		return err
	}
	defer a.Unmount()

	data, err := snapshot.EncodeMsgpack(snapshot.Capture(def.Name(), mem.Body()))
	if err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return err
	}
	success(w, "Saved %s (%d bytes)", name, len(data))
	return nil
}

func showSnapshot(ctx context.Context, w io.Writer, store snapshot.Store, name string) error {
	data, err := store.Get(ctx, name)
	if err != nil {
		return err
	}
	snap, err := snapshot.DecodeMsgpack(data)
	if err != nil {
		return err
	}
	html, err := snap.HTML()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint(snap.Component), color.HiBlackString(snap.CreatedAt.Format(time.RFC3339)))
	fmt.Fprintln(w, html)
	return nil
}
