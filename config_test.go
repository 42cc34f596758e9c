package procman

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterConfigDefaults(t *testing.T) {
	for _, key := range []string{"PRINTER_BIN", "RPC_URL", "GRPC_URL", "X_TOKEN", "HOST", "PORT", "MARKET"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := PrinterConfigFromEnv()

	assert.Equal(t, DefaultPrinterBin, cfg.BinPath)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, DefaultGRPCURL, cfg.GRPCURL)
	assert.Equal(t, DefaultXToken, cfg.XToken)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, CommitmentFinalized, cfg.Commitment)
	assert.Equal(t, uint64(DefaultCheckEvents), cfg.CheckEvents)
	assert.Equal(t, []string{DefaultMarket}, cfg.Markets)
}

func TestPrinterConfigEnvOverrides(t *testing.T) {
	t.Setenv("RPC_URL", "http://rpc.example:8899")
	t.Setenv("GRPC_URL", "http://grpc.example:10000")
	t.Setenv("X_TOKEN", "secret")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("MARKET", "AAA, BBB ,CCC,")
	t.Setenv("PRINTER_BIN", "/opt/bin/openbookv2-printer")

	cfg := PrinterConfigFromEnv()

	assert.Equal(t, "http://rpc.example:8899", cfg.RPCURL)
	assert.Equal(t, "http://grpc.example:10000", cfg.GRPCURL)
	assert.Equal(t, "secret", cfg.XToken)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/opt/bin/openbookv2-printer", cfg.BinPath)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, cfg.Markets)
}

func TestPrinterConfigArgs(t *testing.T) {
	cfg := &PrinterConfig{
		BinPath:     "openbookv2-printer",
		RPCURL:      "http://localhost:8899",
		GRPCURL:     "http://localhost:10000",
		XToken:      "tok",
		Host:        "127.0.0.1",
		Port:        "8585",
		Markets:     []string{"M1", "M2"},
		Commitment:  CommitmentConfirmed,
		CheckEvents: 500,
	}

	args := cfg.Args()

	assert.Equal(t, []string{
		"--rpc-url", "http://localhost:8899",
		"--grpc", "http://localhost:10000",
		"--x-token", "tok",
		"--host", "127.0.0.1",
		"--port", "8585",
		"--check", "500",
		"--market", "M1",
		"--market", "M2",
		"confirmed",
	}, args)

	cmd := cfg.Command()
	assert.Equal(t, "openbookv2-printer", cmd[0])
	assert.Equal(t, args, cmd[1:])
}

func TestPrinterConfigArgsMarketsDoNotSwallowCommitment(t *testing.T) {
	// The printer's --market flag consumes following non-flag tokens, so
	// each market key carries its own --market and at most one key may sit
	// between the last --market and the commitment positional, even
	// without --connect in between.
	cfg := &PrinterConfig{
		BinPath: "openbookv2-printer",
		Markets: []string{"AAA", "BBB", "CCC"},
	}

	args := cfg.Args()
	require.GreaterOrEqual(t, len(args), 7)
	assert.Equal(t, []string{
		"--market", "AAA",
		"--market", "BBB",
		"--market", "CCC",
		"finalized",
	}, args[len(args)-7:])
}

func TestPrinterConfigConnectFlag(t *testing.T) {
	cfg := &PrinterConfig{BinPath: "p", Connect: true}
	assert.Contains(t, strings.Join(cfg.Args(), " "), "--connect")
}

func TestParseCommitment(t *testing.T) {
	tests := []struct {
		in      string
		want    Commitment
		wantErr bool
	}{
		{"processed", CommitmentProcessed, false},
		{"Confirmed", CommitmentConfirmed, false},
		{" FINALIZED ", CommitmentFinalized, false},
		{"bogus", CommitmentFinalized, true},
		{"", CommitmentFinalized, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommitment(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommitmentString(t *testing.T) {
	assert.Equal(t, "processed", CommitmentProcessed.String())
	assert.Equal(t, "confirmed", CommitmentConfirmed.String())
	assert.Equal(t, "finalized", CommitmentFinalized.String())
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PROCMAN_ENV_TEST=from-file\n"), 0o644))

	t.Chdir(dir)
	t.Setenv("PROCMAN_ENV_TEST", "")
	require.NoError(t, os.Unsetenv("PROCMAN_ENV_TEST"))

	loaded := LoadEnvFiles()
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "from-file", os.Getenv("PROCMAN_ENV_TEST"))
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROCMAN_ENV_TEST=from-file\n"), 0o644))

	t.Chdir(dir)
	t.Setenv("PROCMAN_ENV_TEST", "from-env")

	LoadEnvFiles()
	assert.Equal(t, "from-env", os.Getenv("PROCMAN_ENV_TEST"))
}

func TestLoadEnvFilesNone(t *testing.T) {
	// Nested so the ../ and ../../ probes stay inside the temp dir
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	t.Chdir(dir)
	assert.Equal(t, "", LoadEnvFiles())
}
