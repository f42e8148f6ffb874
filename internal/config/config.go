package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Access    AccessConfig    `mapstructure:"access"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type StorageConfig struct {
	StudentsFile string `mapstructure:"students_file"`
	BookingsFile string `mapstructure:"bookings_file"`
}

// ScheduleConfig holds the fixed studio layout. Rooms and slots are
// configuration, not data: adding one is a config change.
type ScheduleConfig struct {
	Rooms     []string `mapstructure:"rooms"`
	SlotStart string   `mapstructure:"slot_start"`
	SlotEnd   string   `mapstructure:"slot_end"`
	Capacity  int      `mapstructure:"capacity"`
}

// Slots enumerates the hourly time slots from SlotStart through SlotEnd
// inclusive, formatted HH:MM.
func (c ScheduleConfig) Slots() []string {
	start, err := time.Parse("15:04", c.SlotStart)
	if err != nil {
		return nil
	}
	end, err := time.Parse("15:04", c.SlotEnd)
	if err != nil || end.Before(start) {
		return nil
	}

	var slots []string
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		slots = append(slots, t.Format("15:04"))
	}
	return slots
}

// HasRoom reports whether room is one of the configured rooms.
func (c ScheduleConfig) HasRoom(room string) bool {
	for _, r := range c.Rooms {
		if r == room {
			return true
		}
	}
	return false
}

// HasSlot reports whether slot is one of the enumerated time slots.
func (c ScheduleConfig) HasSlot(slot string) bool {
	for _, s := range c.Slots() {
		if s == slot {
			return true
		}
	}
	return false
}

// AccessConfig holds the bcrypt hashes of the two shared passwords.
type AccessConfig struct {
	StudentPasswordHash string `mapstructure:"student_password_hash"`
	StaffPasswordHash   string `mapstructure:"staff_password_hash"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// envOverrides are applied on top of the file config. Prefixed AGENDA_,
// e.g. AGENDA_PORT, AGENDA_JWT_SECRET.
type envOverrides struct {
	Port         int    `envconfig:"PORT"`
	StudentsFile string `envconfig:"STUDENTS_FILE"`
	BookingsFile string `envconfig:"BOOKINGS_FILE"`
	JWTSecret    string `envconfig:"JWT_SECRET"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults cover a missing file; anything else is a real failure.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("agenda", &env); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}
	if env.Port != 0 {
		config.Server.Port = env.Port
	}
	if env.StudentsFile != "" {
		config.Storage.StudentsFile = env.StudentsFile
	}
	if env.BookingsFile != "" {
		config.Storage.BookingsFile = env.BookingsFile
	}
	if env.JWTSecret != "" {
		config.JWT.Secret = env.JWTSecret
	}

	if config.Schedule.Capacity <= 0 {
		return nil, fmt.Errorf("schedule capacity must be positive, got %d", config.Schedule.Capacity)
	}
	if len(config.Schedule.Slots()) == 0 {
		return nil, fmt.Errorf("invalid slot range %s..%s", config.Schedule.SlotStart, config.Schedule.SlotEnd)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("storage.students_file", "students.csv")
	viper.SetDefault("storage.bookings_file", "bookings.csv")
	viper.SetDefault("schedule.rooms", []string{"Sala 1", "Sala 2", "Sala 3"})
	viper.SetDefault("schedule.slot_start", "06:00")
	viper.SetDefault("schedule.slot_end", "21:00")
	viper.SetDefault("schedule.capacity", 3)
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("rate_limit.rps", 50)
	viper.SetDefault("rate_limit.burst", 100)
	viper.SetDefault("log.level", "info")
}
