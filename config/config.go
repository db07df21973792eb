// Package config loads the settings of seqctl from the environment and from
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/orderedseq/seq"
)

// Environment variables read by Load.
const (
	EnvCapacity    = "ORDEREDSEQ_CAPACITY"
	EnvRecordDB    = "ORDEREDSEQ_RECORD_DB"
	EnvMonitorPort = "ORDEREDSEQ_MONITOR_PORT"
	EnvOpenBrowser = "ORDEREDSEQ_OPEN_BROWSER"
	EnvLogOps      = "ORDEREDSEQ_LOG_OPS"
)

// Config holds the settings of a run.
type Config struct {
	// Capacity bounds the number of elements of the sequence. 0 is unbounded.
	Capacity int

	// RecordDB is the database path the operations are recorded to. Empty
	// disables recording.
	RecordDB string

	// MonitorPort is the port of the monitoring server. 0 picks a free port.
	MonitorPort int

	// OpenBrowser opens the monitoring page once the server is up.
	OpenBrowser bool

	// LogOps logs every operation to stderr.
	LogOps bool
}

// Load loads the given .env files, then reads the configuration from the
// environment. Missing files are skipped. Variables already set in the
// environment take precedence over the files.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (Config, error) {
	var (
		c   Config
		err error
	)

	c.Capacity, err = intVar(EnvCapacity)
	if err != nil {
		return Config{}, err
	}

	c.MonitorPort, err = intVar(EnvMonitorPort)
	if err != nil {
		return Config{}, err
	}

	c.OpenBrowser, err = boolVar(EnvOpenBrowser)
	if err != nil {
		return Config{}, err
	}

	c.LogOps, err = boolVar(EnvLogOps)
	if err != nil {
		return Config{}, err
	}

	c.RecordDB = os.Getenv(EnvRecordDB)

	err = c.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", EnvCapacity, err)
	}

	return c, nil
}

// Validate checks that the capacity is one a sequence can be built with.
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", c.Capacity)
	}

	if int64(c.Capacity) > seq.MaxCapacity {
		return fmt.Errorf("capacity must not exceed %d, got %d",
			seq.MaxCapacity, c.Capacity)
	}

	return nil
}

func intVar(name string) (int, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}

func boolVar(name string) (bool, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}
