package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"cassbench/runner"
	"cassbench/store"
	"cassbench/store/cassandra"
	"cassbench/store/sqlstore"
	"cassbench/util"
)

type BenchmarkArgs struct {
	Engine             string
	Hosts              []string
	Port               int
	Datacenter         string
	Connection         string // DSN for the sql engines
	Consistency        string
	Keyspace           string
	Table              string
	ReplicationFactor  int `yaml:"replicationFactor"`
	Items              int
	WriteThreads       int `yaml:"writeThreads"`
	ReadThreads        int `yaml:"readThreads"`
	RandomStringLength int `yaml:"randomStringLength"`
}

// Engine is the full surface a run needs from a store implementation.
type Engine interface {
	store.Facade
	store.Admin
	Close()
}

// Prepare zerolog
func setupLogging(disableLog bool, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var zlevel zerolog.Level
	if disableLog {
		zlevel = zerolog.Disabled
	} else if level == "info" {
		zlevel = zerolog.InfoLevel
	} else {
		zlevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(zlevel)
}

// Returns a BenchmarkArgs struct with the information in the configFile,
// applied over the defaults.
func buildArgs(configFile string) *BenchmarkArgs {
	args := BenchmarkArgs{
		Engine:             "cassandra",
		Port:               9042,
		Consistency:        "QUORUM",
		Keyspace:           "foobar",
		Table:              "lorem",
		ReplicationFactor:  3,
		Items:              1000,
		WriteThreads:       50,
		ReadThreads:        500,
		RandomStringLength: 1024,
	}

	if configFile == "" {
		log.Fatal("Missing config file.")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatal(err)
	}

	err = yaml.Unmarshal(data, &args)
	if err != nil {
		log.Fatal(err)
	}

	return &args
}

// Create the store engine selected by the config
func createEngine(args *BenchmarkArgs) Engine {
	maxConns := args.WriteThreads
	if args.ReadThreads > maxConns {
		maxConns = args.ReadThreads
	}

	switch args.Engine {
	case "cassandra":
		return util.Try(cassandra.New(cassandra.Options{
			Hosts:       args.Hosts,
			Port:        args.Port,
			Datacenter:  args.Datacenter,
			Consistency: args.Consistency,
			Keyspace:    args.Keyspace,
			Table:       args.Table,
			RandomLen:   args.RandomStringLength,
		}))
	case "postgres", "sqlite":
		driver := args.Engine
		if driver == "sqlite" {
			driver = "sqlite3"
		}
		return util.Try(sqlstore.New(sqlstore.Options{
			Driver:    driver,
			DSN:       args.Connection,
			Keyspace:  args.Keyspace,
			Table:     args.Table,
			RandomLen: args.RandomStringLength,
			MaxConns:  maxConns,
		}))
	default:
		log.Fatalf("Engine '%s' not found.\n", args.Engine)
		return nil
	}
}

// Provision the schema before any workload phase; each call is idempotent.
func provision(engine Engine, args *BenchmarkArgs) {
	zlog.Info().Msg("ensureKeyspace")
	util.CheckErr(engine.EnsureKeyspace(args.Keyspace, args.ReplicationFactor))

	zlog.Info().Msg("ensureTable")
	util.CheckErr(engine.EnsureTable(args.Keyspace, args.Table))

	zlog.Info().Msg("ensureSecondaryIndex")
	util.CheckErr(engine.EnsureSecondaryIndex(args.Keyspace, args.Table, "hex"))
}

// Generate count random values; duplicates are possible and permitted.
func createValues(count int) []int32 {
	values := make([]int32, count)
	for i := range values {
		values[i] = int32(rand.Uint32())
	}
	return values
}

func main() {
	disableLog := flag.Bool("no-log", false, "Disables the log")
	configFile := flag.String("conf", "", "Benchmark config file")
	logLevel := flag.String("level", "debug", "Log level (info|debug)")
	flag.Parse()

	setupLogging(*disableLog, *logLevel)
	args := buildArgs(*configFile)

	zlog.Info().Str("run", uuid.NewString()).Str("engine", args.Engine).Msg("Run started")

	engine := createEngine(args)
	defer engine.Close()

	provision(engine, args)

	zlog.Info().Int("processors", runtime.NumCPU()).Msg("Number of processors")

	values := createValues(args.Items)

	util.CheckErr(runner.EvaluateInsert(engine, values, args.WriteThreads))
	util.CheckErr(runner.EvaluateSelect(engine, values, args.ReadThreads))

	zlog.Info().Msg("Run ended")
}
