package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vc2lab/vc2/vm"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembler.DefaultOut != "out.o" {
		t.Errorf("Expected Assembler.DefaultOut=out.o, got %s", cfg.Assembler.DefaultOut)
	}
	if cfg.Assembler.DefaultLogLevel != "info" {
		t.Errorf("Expected Assembler.DefaultLogLevel=info, got %s", cfg.Assembler.DefaultLogLevel)
	}
	if cfg.Interpreter.MemorySize != vm.DefaultMemorySize {
		t.Errorf("Expected Interpreter.MemorySize=%d, got %d", vm.DefaultMemorySize, cfg.Interpreter.MemorySize)
	}
	if cfg.Interpreter.NumberFormat != "hex" {
		t.Errorf("Expected Interpreter.NumberFormat=hex, got %s", cfg.Interpreter.NumberFormat)
	}
	if cfg.Interpreter.MaxRepeatCount != 1_000_000 {
		t.Errorf("Expected Interpreter.MaxRepeatCount=1000000, got %d", cfg.Interpreter.MaxRepeatCount)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Interpreter.MemorySize = 0x10000
	cfg.Interpreter.NumberFormat = "dec"
	cfg.Assembler.DefaultOut = "prog.o"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Interpreter.MemorySize != 0x10000 {
		t.Errorf("expected MemorySize=0x10000, got 0x%X", loaded.Interpreter.MemorySize)
	}
	if loaded.Interpreter.NumberFormat != "dec" {
		t.Errorf("expected NumberFormat=dec, got %s", loaded.Interpreter.NumberFormat)
	}
	if loaded.Assembler.DefaultOut != "prog.o" {
		t.Errorf("expected DefaultOut=prog.o, got %s", loaded.Assembler.DefaultOut)
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.Interpreter.MemorySize != vm.DefaultMemorySize {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalid := "[interpreter]\nmemory_size = \"not a number\"\n"
	if err := os.WriteFile(configPath, []byte(invalid), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected an error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	if err := DefaultConfig().SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := LoadFrom(configPath); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
}
