package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	PublicURL string `yaml:"public_url" json:"public_url"`
	UploadDir string `yaml:"upload_dir" json:"upload_dir"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type PaymentConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	Currency  string `yaml:"currency" json:"currency"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Logger   LoggerConfig  `yaml:"logger" json:"logger"`
	Payment  PaymentConfig `yaml:"payment" json:"payment"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "bistrokit",
		Location: "Europe/Warsaw",
		Workdir:  "/var/bistrokit",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-bistro-1816-kit-0f50274c",
		PublicURL: "http://127.0.0.1:1816",
		UploadDir: "/var/bistrokit/images",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "bistrokit",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/bistrokit/bistrokit.log",
	},
	Payment: PaymentConfig{
		BaseURL:  "https://api.checkout.example.com/v1",
		Currency: "pln",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			fcfg := new(AppConfig)
			if err := yaml.Unmarshal(data, fcfg); err == nil {
				cfg = fcfg
			}
		}
	}

	setEnvValue("BISTROKIT_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("BISTROKIT_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvValue("BISTROKIT_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("BISTROKIT_WEB_PUBLIC_URL", func(v string) { cfg.Web.PublicURL = v })
	setEnvValue("BISTROKIT_WEB_UPLOAD_DIR", func(v string) { cfg.Web.UploadDir = v })
	setEnvValue("BISTROKIT_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("BISTROKIT_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("BISTROKIT_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("BISTROKIT_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("BISTROKIT_PAYMENT_BASE_URL", func(v string) { cfg.Payment.BaseURL = v })
	setEnvValue("BISTROKIT_PAYMENT_SECRET_KEY", func(v string) { cfg.Payment.SecretKey = v })
	return cfg
}
