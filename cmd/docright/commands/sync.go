// ABOUTME: Sync commands mirror a project's document and callouts through Charm cloud
// ABOUTME: Provides status, push, pull, now and projects
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/charm"
	"github.com/harper/docright/internal/config"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync projects through Charm cloud",
		Long: `Sync a project's document, callouts, contexts and scope through
Charm cloud KV.

Authentication uses your Charm SSH keys. Files are stored under
project:<name>:<file>; the name defaults to the project directory name.
CHARM_HOST selects the server and CHARM_DB the KV database.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncProjectsCmd())

	return cmd
}

// openCharm connects to Charm using the environment configuration.
func openCharm(cmd *cobra.Command) (*charm.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	client, err := charm.NewClient(charm.ConfigFrom(cfg), newLogger(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintln(out, "Check your Charm SSH keys and CHARM_HOST")
				return nil
			}
			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "User ID: %s\n", id)
			fmt.Fprintf(out, "Host: %s\n", client.Host())
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the project to Charm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			client, err := openCharm(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			project := charm.ProjectName(ws.Project, name)
			keys, err := charm.PushProject(client, ws.Project, project)
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}
			if err := client.Sync(); err != nil {
				warn(cmd, "sync after push failed: %v", err)
			}
			success(cmd, "Pushed %d files as %s", len(keys), cyan(project))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (default: directory name)")
	return cmd
}

func newSyncPullCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the project from Charm, replacing local files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			client, err := openCharm(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Sync(); err != nil {
				warn(cmd, "sync before pull failed: %v", err)
			}
			project := charm.ProjectName(ws.Project, name)
			files, err := charm.PullProject(client, ws.Project, project)
			if errors.Is(err, charm.ErrNothingToPull) {
				return fmt.Errorf("%w (push it first with 'docright sync push')", err)
			}
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}
			success(cmd, "Pulled %d files from %s", len(files), cyan(project))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (default: directory name)")
	return cmd
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			success(cmd, "Sync complete")
			return nil
		},
	}
}

func newSyncProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects stored in Charm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			names, err := charm.ListProjects(client)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No synced projects")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}
}
