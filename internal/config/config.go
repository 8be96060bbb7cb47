package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Options struct {
	runAddr     string
	logLevel    string
	logOutput   string
	dataBaseDSN string
	seedFile    string
	headless    bool
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	// Load environment variables from the .env file
	loadEnvFile()

	if err := o.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// Parse registers the options on a fresh flag set, with environment
// variables as defaults, and parses args into them.
func (o *Options) Parse(args []string) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)

	fs.StringVar(&o.runAddr, "a", getEnvOrDefault("RUN_ADDRESS", ""), "address and port of the catalog HTTP API, empty to disable")
	fs.StringVar(&o.logLevel, "l", getEnvOrDefault("LOG_LEVEL", "warn"), "log level")
	fs.StringVar(&o.logOutput, "o", getEnvOrDefault("LOG_OUTPUT", "stderr"), "log output: stderr, stdout or a file path")
	fs.StringVar(&o.dataBaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "database connection string")
	fs.StringVar(&o.seedFile, "s", getEnvOrDefault("SEED_FILE", ""), "product CSV file (.csv, .zip or .tar), empty for the built-in catalog")
	fs.BoolVar(&o.headless, "headless", getEnvBool("HEADLESS", false), "serve the HTTP API only, without the console menu")

	return fs.Parse(args)
}

func (o *Options) RunAddr() string {
	return o.runAddr
}

func (o *Options) LogLevel() string {
	return o.logLevel
}

func (o *Options) LogOutput() string {
	return o.logOutput
}

func (o *Options) DataBaseDSN() string {
	return o.dataBaseDSN
}

func (o *Options) SeedFile() string {
	return o.seedFile
}

func (o *Options) Headless() bool {
	return o.headless
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// loadEnvFile loads environment variables from a .env file in the working
// directory or two levels up (when started from cmd/storefront).
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	for _, envPath := range []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}
