package procman

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// PrinterProcessName is the logical name the trading-data printer is
// tracked under.
const PrinterProcessName = "openbookv2-printer"

// Printer configuration defaults, matching the printer binary's own
// fallbacks so the launcher and the child agree when an env var is unset.
const (
	DefaultPrinterBin  = "openbookv2-printer"
	DefaultRPCURL      = "https://api.mainnet-beta.solana.com"
	DefaultGRPCURL     = "http://127.0.0.1:10000"
	DefaultHost        = "127.0.0.1"
	DefaultPort        = "8585"
	DefaultXToken      = "x-token"
	DefaultMarket      = "ACP9pwHhehxpsQcAzEi5bb93oUgushtJ1A1dtZaeSKWY"
	DefaultCheckEvents = 1000
)

// Commitment is the confirmation level the printer subscribes at
type Commitment int

const (
	// CommitmentProcessed accepts updates as soon as they are processed
	CommitmentProcessed Commitment = iota
	// CommitmentConfirmed accepts updates once confirmed by the cluster
	CommitmentConfirmed
	// CommitmentFinalized accepts only finalized updates
	CommitmentFinalized
)

// String returns the commitment level as the printer's CLI expects it
func (c Commitment) String() string {
	switch c {
	case CommitmentProcessed:
		return "processed"
	case CommitmentConfirmed:
		return "confirmed"
	default:
		return "finalized"
	}
}

// ParseCommitment parses a commitment level case-insensitively
func ParseCommitment(s string) (Commitment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processed":
		return CommitmentProcessed, nil
	case "confirmed":
		return CommitmentConfirmed, nil
	case "finalized":
		return CommitmentFinalized, nil
	default:
		return CommitmentFinalized, fmt.Errorf("unknown commitment level %q", s)
	}
}

// PrinterConfig holds the connection parameters forwarded to the
// trading-data printer process.
type PrinterConfig struct {
	// BinPath is the printer binary path
	BinPath string
	// RPCURL is the Solana RPC endpoint
	RPCURL string
	// GRPCURL is the Geyser gRPC endpoint
	GRPCURL string
	// XToken authenticates against the gRPC endpoint
	XToken string
	// Markets are the market account keys to subscribe to
	Markets []string
	// Host is the publish socket host
	Host string
	// Port is the publish socket port
	Port string
	// Commitment is the subscription confirmation level
	Commitment Commitment
	// Connect makes the printer connect its publish socket instead of binding
	Connect bool
	// CheckEvents is the number of events between slot lag checks
	CheckEvents uint64
}

// envFilePaths are tried in order; the first one that loads wins
var envFilePaths = []string{".env", "../.env", "../../.env"}

// LoadEnvFiles loads the first readable .env file into the environment.
// Variables already set in the environment are never overridden. It
// returns the path that loaded, or "" when none did.
func LoadEnvFiles() string {
	for _, path := range envFilePaths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// PrinterConfigFromEnv builds a PrinterConfig from defaults overridden
// by environment variables. Values are read, not validated; a bad value
// is the printer's to reject.
func PrinterConfigFromEnv() *PrinterConfig {
	cfg := &PrinterConfig{
		BinPath:     DefaultPrinterBin,
		RPCURL:      DefaultRPCURL,
		GRPCURL:     DefaultGRPCURL,
		XToken:      DefaultXToken,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Commitment:  CommitmentFinalized,
		CheckEvents: DefaultCheckEvents,
	}

	marketStr := DefaultMarket

	if v := os.Getenv("PRINTER_BIN"); v != "" {
		cfg.BinPath = v
	}
	if v := os.Getenv("RPC_URL"); v != "" {
		cfg.RPCURL = v
	}
	if v := os.Getenv("GRPC_URL"); v != "" {
		cfg.GRPCURL = v
	}
	if v := os.Getenv("X_TOKEN"); v != "" {
		cfg.XToken = v
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MARKET"); v != "" {
		marketStr = v
	}

	for _, m := range strings.Split(marketStr, ",") {
		if m = strings.TrimSpace(m); m != "" {
			cfg.Markets = append(cfg.Markets, m)
		}
	}

	return cfg
}

// Args renders the printer's command-line arguments. Each market key
// gets its own --market flag: the printer's parser treats --market as a
// greedy value list, so a bare trailing list would swallow the
// commitment positional.
func (c *PrinterConfig) Args() []string {
	args := []string{
		"--rpc-url", c.RPCURL,
		"--grpc", c.GRPCURL,
		"--x-token", c.XToken,
		"--host", c.Host,
		"--port", c.Port,
		"--check", strconv.FormatUint(c.CheckEvents, 10),
	}
	for _, m := range c.Markets {
		args = append(args, "--market", m)
	}
	if c.Connect {
		args = append(args, "--connect")
	}
	args = append(args, c.Commitment.String())
	return args
}

// Command renders the full command line: binary path plus arguments
func (c *PrinterConfig) Command() []string {
	return append([]string{c.BinPath}, c.Args()...)
}
