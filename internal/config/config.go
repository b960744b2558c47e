package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PlsVerify/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 全局配置结构体（匹配 config/config.yaml）
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`     // 文件路径配置
	Report    ReportConfig    `mapstructure:"report"`    // 分析报告解析配置
	Retention RetentionConfig `mapstructure:"retention"` // 主报告保留策略
	Prize     PrizeConfig     `mapstructure:"prize"`     // 奖金表
	Store     StoreConfig     `mapstructure:"store"`     // 主报告存储后端
	Server    ServerConfig    `mapstructure:"server"`    // 服务模式配置
}

// PathsConfig 输入输出文件
type PathsConfig struct {
	BaseDir        string `mapstructure:"base_dir" validate:"required"`         // 工作目录
	CSVFile        string `mapstructure:"csv_file" validate:"required"`         // 开奖数据源CSV
	ReportPattern  string `mapstructure:"report_pattern" validate:"required"`   // 分析报告文件名模式
	MainReportFile string `mapstructure:"main_report_file" validate:"required"` // 主评估报告文件
}

// ReportConfig 报告解析规则
type ReportConfig struct {
	Encodings     []string `mapstructure:"encodings" validate:"required,min=1,dive,oneof=utf-8 gbk latin-1"`
	CutoffPattern string   `mapstructure:"cutoff_pattern" validate:"required"` // 数据截止期标记
	TicketPattern string   `mapstructure:"ticket_pattern" validate:"required"` // 推荐号码行
	MirrorFile    bool     `mapstructure:"mirror_file"`                        // 数据库后端时同步写出文本主报告
}

// RetentionConfig 保留记录数
type RetentionConfig struct {
	MaxNormalRecords int `mapstructure:"max_normal_records" validate:"gte=1"` // 保留最近评估条数
	MaxErrorLogs     int `mapstructure:"max_error_logs" validate:"gte=1"`     // 保留最近错误条数
}

// PrizeConfig 排列三奖金对照表（元）
type PrizeConfig struct {
	Exact  int `mapstructure:"exact" validate:"gte=0"`
	Group3 int `mapstructure:"group3" validate:"gte=0"`
	Group6 int `mapstructure:"group6" validate:"gte=0"`
}

// StoreConfig 主报告存储后端
type StoreConfig struct {
	Backend         string        `mapstructure:"backend" validate:"oneof=file postgres sqlite"`
	DSN             string        `mapstructure:"dsn" validate:"required_if=Backend postgres"` // 连接DSN；sqlite 为文件路径
	MaxOpenConns    int           `mapstructure:"max_open_conns"`                              // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`                              // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`                           // 连接最大存活时间
}

// ServerConfig 服务模式
type ServerConfig struct {
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"` // 服务端口
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
}

// 默认的报告标记，兼容英文写法
const (
	DefaultCutoffPattern = `(?:分析基于数据:\s*截至\s*(\d+)\s*期|(?i:analysis based on data):\s*(?i:through period)\s*(\d+))`
	DefaultTicketPattern = `(?:注|(?i:ticket))\s*\d+:\s*\[([0-9\s,]+)\]`
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.base_dir", ".")
	v.SetDefault("paths.csv_file", "pls.csv")
	v.SetDefault("paths.report_pattern", "pls_analysis_output_*.txt")
	v.SetDefault("paths.main_report_file", "latest_pls_calculation.txt")
	v.SetDefault("report.encodings", []string{"utf-8", "gbk", "latin-1"})
	v.SetDefault("report.cutoff_pattern", DefaultCutoffPattern)
	v.SetDefault("report.ticket_pattern", DefaultTicketPattern)
	v.SetDefault("report.mirror_file", true)
	v.SetDefault("retention.max_normal_records", 10)
	v.SetDefault("retention.max_error_logs", 20)
	v.SetDefault("prize.exact", model.DefaultPrizeTable[model.TierExact])
	v.SetDefault("prize.group3", model.DefaultPrizeTable[model.TierGroup3])
	v.SetDefault("prize.group6", model.DefaultPrizeTable[model.TierGroup6])
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_open_conns", 5)
	v.SetDefault("store.max_idle_conns", 2)
	v.SetDefault("store.conn_max_lifetime", time.Hour)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
}

// RegisterFlags 声明命令行参数，名称与配置键一致
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("paths.base_dir", ".", "工作目录（CSV、分析报告、主报告所在目录）")
	fs.String("paths.csv_file", "pls.csv", "开奖数据CSV文件")
	fs.String("store.backend", "file", "主报告存储后端：file/postgres/sqlite")
	fs.String("store.dsn", "", "数据库DSN（sqlite 为文件路径）")
	fs.Int("server.port", 8080, "服务模式端口")
	fs.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
}

// LoadConfig 加载配置：默认值 < config.yaml < PLS_* 环境变量 < 命令行参数
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	// 1. 加载 .env（若存在）
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// 2. 读取 config.yaml，不存在时只用默认值
	configFile := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 3. 环境变量 PLS_STORE_DSN 等
	v.SetEnvPrefix("PLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 命令行参数（仅显式设置的会覆盖）
	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name != "config" {
				_ = v.BindPFlag(f.Name, f)
			}
		})
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv 敏感字段以未加前缀的环境变量兜底
func overrideFromEnv(cfg *Config) {
	if cfg.Store.DSN == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			cfg.Store.DSN = v
		}
	}
}

var validate = validator.New()

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

// Resolve 把相对文件名解析到工作目录下
func (p *PathsConfig) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.BaseDir, name)
}

// Retention 转为存储层使用的保留策略
func (r RetentionConfig) Retention() model.Retention {
	return model.Retention{MaxNormal: r.MaxNormalRecords, MaxError: r.MaxErrorLogs}
}

// Table 转为奖金表
func (p PrizeConfig) Table() model.PrizeTable {
	return model.PrizeTable{
		model.TierExact:  p.Exact,
		model.TierGroup3: p.Group3,
		model.TierGroup6: p.Group6,
	}
}

// GetGORMConfig 数据库后端使用的 GORM 配置
func (s *StoreConfig) GetGORMConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}
