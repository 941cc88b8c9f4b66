package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd == nil {
		t.Fatal("Expected root command to be created")
	}

	if cmd.Use != "fincast" {
		t.Errorf("Expected root command use to be 'fincast', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}

	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Execute(t *testing.T) {
	// Test that the root command can be executed without arguments
	cmd := rootCmd
	cmd.SetArgs([]string{})

	// Capture output
	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	// Execute the command
	err := cmd.Execute()

	// Should show help/usage
	if err != nil {
		t.Errorf("Expected no error for root command execution, got %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Error("Expected root command to show help/usage")
	}
}

func TestRootCommand_Help(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"--help"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	err := cmd.Execute()

	if err != nil {
		t.Errorf("Expected no error for help command, got %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Error("Expected help command to show help text")
	}
}

func TestCommandSubcommands(t *testing.T) {
	// Test that all expected commands are registered
	expectedCommands := []string{
		"project",
		"montecarlo",
		"compare",
		"breakeven",
		"validate",
		"example",
		"version",
	}

	cmd := rootCmd.Commands()
	for _, expectedCmd := range expectedCommands {
		found := false
		for _, c := range cmd {
			if c.Name() == expectedCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered with root command", expectedCmd)
		}
	}
}

func TestFileExists(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(tmpFile, []byte("scenario: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !fileExists(tmpFile) {
		t.Errorf("Expected %s to exist", tmpFile)
	}

	if fileExists(filepath.Join(t.TempDir(), "missing.yaml")) {
		t.Error("Expected missing file to not exist")
	}
}

func TestExampleCommand_WritesPlan(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "starter.yaml")

	cmd := rootCmd
	cmd.SetArgs([]string{"example", outputFile})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Expected example command to succeed, got %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("Expected example plan file to be written: %v", err)
	}

	if !bytes.Contains(data, []byte("Sample Household Plan")) {
		t.Error("Expected example plan to contain the sample scenario")
	}

	if !bytes.Contains(data, []byte("monte_carlo:")) {
		t.Error("Expected example plan to include monte carlo settings")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := versionCmd()

	if cmd.Use != "version" {
		t.Errorf("Expected version command use to be 'version', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected version command to have a short description")
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := rootCmd

	// Help flag exists by default in cobra
	helpFlag := cmd.Flag("help")
	if helpFlag == nil {
		t.Error("Expected help flag to exist on root command")
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"invalid-command"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	err := cmd.Execute()

	if err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestRootCommand_InvalidFlag(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"--invalid-flag"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	err := cmd.Execute()

	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}
