package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"barangay-request-wizard/logging"
	redis "barangay-request-wizard/redis"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	ServerConfig ServerConfig `json:"server_config"`

	CoreApiUrl      string `json:"core_api_url"`
	JwtSharedSecret string `json:"jwt_shared_secret"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	StorageType         string                    `json:"storage_type"`
	RedisConfig         redis.RedisConfig         `json:"redis_config,omitempty"`
	RedisSentinelConfig redis.RedisSentinelConfig `json:"redis_sentinel_config,omitempty"`

	NatsUrl     string `json:"nats_url,omitempty"`
	NatsSubject string `json:"nats_subject,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path for the config.json to use")
	flag.Parse()

	if *configPath == "" {
		fatal("please provide a config path using the --config flag")
	}

	config, err := readConfigFile(*configPath)
	if err != nil {
		fatal("failed to read config file", "error", err)
	}

	logging.InitLogger(config.LogLevel, config.LogFormat)
	slog.Info("Using config", "path", *configPath)

	if config.CoreApiUrl == "" {
		fatal("core_api_url is required")
	}
	if config.JwtSharedSecret == "" {
		fatal("jwt_shared_secret is required")
	}

	draftStorage, err := createDraftStorage(&config)
	if err != nil {
		fatal("failed to instantiate draft storage", "error", err)
	}

	coreClient := NewBarangayCoreClient(config.CoreApiUrl)
	if err := coreClient.HealthCheck(); err != nil {
		slog.Warn("Core API health check failed at startup", "url", config.CoreApiUrl, "error", err)
	}

	var events EventPublisher
	if config.NatsUrl != "" {
		subject := config.NatsSubject
		if subject == "" {
			subject = "barangay.requests.submitted"
		}
		publisher, err := NewNatsPublisher(config.NatsUrl, subject)
		if err != nil {
			fatal("failed to connect to NATS", "url", config.NatsUrl, "error", err)
		}
		defer publisher.Close()
		events = publisher
	}

	serverState := ServerState{
		coreClient:   coreClient,
		draftStorage: draftStorage,
		sessions:     NewSessionStore(),
		events:       events,
		jwtSecret:    []byte(config.JwtSharedSecret),
		validate:     validator.New(),
	}

	server, err := NewServer(&serverState, config.ServerConfig)
	if err != nil {
		fatal("failed to create server", "error", err)
	}

	err = server.ListenAndServe()
	if err != nil {
		fatal("failed to listen and serve", "error", err)
	}
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func readConfigFile(path string) (Config, error) {
	configBytes, err := os.ReadFile(path)

	if err != nil {
		return Config{}, err
	}

	var config Config
	err = json.Unmarshal(configBytes, &config)

	if err != nil {
		return Config{}, err
	}

	return config, nil
}

func createDraftStorage(config *Config) (DraftStorage, error) {
	if config.StorageType == "redis" {
		slog.Info("Using redis draft storage")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisDraftStorage(client, config.RedisConfig.Namespace), nil
	}
	if config.StorageType == "redis_sentinel" {
		slog.Info("Using redis sentinel draft storage")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisDraftStorage(client, config.RedisSentinelConfig.Namespace), nil
	}
	if config.StorageType == "memory" {
		slog.Info("Using in memory draft storage")
		return NewInMemoryDraftStorage(), nil
	}
	return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
}
