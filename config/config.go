package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "PARTFINDER_CONFIG_FILE"

type consumers struct {
	ArchiverGroup string `mapstructure:"archiver_group"`
}

type topics struct {
	ClientEvents    string `mapstructure:"client_events"`
	PopularityTable string `mapstructure:"popularity_table"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                tlsFiles  `mapstructure:"tls"`
}

type feeds struct {
	PartsFile     string `mapstructure:"parts_file"`
	ProvidersFile string `mapstructure:"providers_file"`
	RulesFile     string `mapstructure:"rules_file"`
}

type hdfs struct {
	NamenodeAddr string `mapstructure:"namenode_addr"`
	EventsDir    string `mapstructure:"events_dir"`
}

type spark struct {
	ConnectAddr string `mapstructure:"connect_addr"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	VehiclesAPIURL string     `mapstructure:"vehicles_api_url"`
	SQLDB          string     `mapstructure:"sql_db"`
	Feeds          feeds      `mapstructure:"feeds"`
	Broker         broker     `mapstructure:"broker"`
	HDFS           hdfs       `mapstructure:"hdfs"`
	Spark          spark      `mapstructure:"spark"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

// BrokerTLSEnabled reports whether mutual TLS certs are configured.
func (c Config) BrokerTLSEnabled() bool {
	tls := c.Broker.TLS
	return tls.CA != "" && tls.Cert != "" && tls.Key != ""
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	VehiclesAPIURL=%q
	SQLDB=%q

	Feeds:
	PartsFile=%q
	ProvidersFile=%q
	RulesFile=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		ClientEvents=%q
		PopularityTable=%q
	Consumers:
		ArchiverGroup=%q

	HDFS:
	NamenodeAddr=%q
	EventsDir=%q

	Spark:
	ConnectAddr=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.VehiclesAPIURL,
		c.SQLDB,
		c.Feeds.PartsFile,
		c.Feeds.ProvidersFile,
		c.Feeds.RulesFile,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.ClientEvents,
		c.Broker.Topics.PopularityTable,
		c.Broker.Consumers.ArchiverGroup,
		c.HDFS.NamenodeAddr,
		c.HDFS.EventsDir,
		c.Spark.ConnectAddr,
	)
}
