// ABOUTME: Tests for sync and mcp command structure
// ABOUTME: Network-backed behavior is covered by the charm package tests
package commands

import (
	"strings"
	"testing"
)

func TestNewSyncCmd(t *testing.T) {
	cmd := NewSyncCmd()

	if cmd.Use != "sync" {
		t.Errorf("Use = %q, want %q", cmd.Use, "sync")
	}
	if !strings.Contains(cmd.Long, "Charm") {
		t.Error("Long description should mention Charm")
	}

	for _, name := range []string{"status", "push", "pull", "now", "projects"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub == cmd {
				t.Fatalf("subcommand %q not found", name)
			}
			if sub.RunE == nil {
				t.Errorf("%s RunE should be set", name)
			}
		})
	}
}

func TestSyncPushPull_NameFlag(t *testing.T) {
	cmd := NewSyncCmd()
	for _, name := range []string{"push", "pull"} {
		sub, _, _ := cmd.Find([]string{name})
		if sub.Flags().Lookup("name") == nil {
			t.Errorf("%s should have --name", name)
		}
	}
}

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}
	for _, want := range []string{"MCP", "stdio"} {
		if !strings.Contains(cmd.Long, want) {
			t.Errorf("Long description should mention %s", want)
		}
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}
