package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Endpoint.Name != "urn:dev:os:graym2m-client" {
		t.Errorf("endpoint name = %q", cfg.Endpoint.Name)
	}
	if cfg.Database.Path != "./data/graym2m.db" || !cfg.Database.WALMode {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.MQTT.Broker.Host != "localhost" || cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("mqtt broker defaults = %+v", cfg.MQTT.Broker)
	}
	if cfg.Client.NotifyPeriod != 1 || cfg.Client.SendPeriod != 60 {
		t.Errorf("client defaults = %+v", cfg.Client)
	}
	if cfg.InfluxDB.Enabled {
		t.Error("influxdb enabled by default")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
endpoint:
  name: urn:dev:os:test-client
mqtt:
  broker:
    host: broker.example.com
    port: 8883
    tls: true
client:
  notify_period: 2
  send_period: 120
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Endpoint.Name != "urn:dev:os:test-client" {
		t.Errorf("endpoint name = %q", cfg.Endpoint.Name)
	}
	if cfg.MQTT.Broker.Host != "broker.example.com" || cfg.MQTT.Broker.Port != 8883 || !cfg.MQTT.Broker.TLS {
		t.Errorf("mqtt broker = %+v", cfg.MQTT.Broker)
	}
	if got := cfg.GetNotifyPeriod(); got != 2*time.Second {
		t.Errorf("GetNotifyPeriod() = %v", got)
	}
	if got := cfg.GetSendPeriod(); got != 120*time.Second {
		t.Errorf("GetSendPeriod() = %v", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
mqtt:
  broker:
    host: from-file
`)
	t.Setenv("GRAYM2M_MQTT_HOST", "from-env")
	t.Setenv("GRAYM2M_MQTT_USERNAME", "svc")
	t.Setenv("GRAYM2M_MQTT_PASSWORD", "hunter2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.Broker.Host != "from-env" {
		t.Errorf("host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Auth.Username != "svc" || cfg.MQTT.Auth.Password != "hunter2" {
		t.Errorf("auth = %+v", cfg.MQTT.Auth)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() of missing file succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty endpoint name", func(c *Config) { c.Endpoint.Name = "" }, "endpoint.name"},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"qos out of range", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"zero notify period", func(c *Config) { c.Client.NotifyPeriod = 0 }, "notify_period"},
		{"zero send period", func(c *Config) { c.Client.SendPeriod = 0 }, "send_period"},
		{"invalid security instance", func(c *Config) { c.Client.SecurityInstance = 70000 }, "security_instance"},
		{"influxdb enabled without url", func(c *Config) {
			c.InfluxDB.Enabled = true
			c.InfluxDB.URL = ""
		}, "influxdb.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
