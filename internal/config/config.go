package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultSearchURL = "https://quickquote-consumer.optimalblue.com/api/search/GetResults"

	// QuickQuote widget identifiers for the tracked credit union.
	defaultClientID = "363137353031"
	defaultUserID   = "38363530393031"
	defaultFormID   = "36323431"

	defaultDataFile  = "data/last_rates.json"
	defaultArchiveDB = "data/rates_archive.db"
)

// LoanParams is the loan-shopping input sent to the quote API. Select
// fields are coded strings (the widget's option values), currency fields
// are whole dollars.
type LoanParams struct {
	Occupancy      string `json:"occupancy"`
	PropertyType   string `json:"propertyType"`
	LoanPurpose    string `json:"loanPurpose"`
	LoanAmount     int    `json:"loanAmount"`
	EstimatedValue int    `json:"estimatedValue"`
	State          string `json:"state"`
	Zipcode        string `json:"zipcode"`
	CreditScore    string `json:"creditScore"`
}

// Config is read once from the environment and passed explicitly; nothing
// downstream touches os.Getenv.
type Config struct {
	SearchURL string
	ClientID  string
	UserID    string
	FormID    string

	LoanParams      LoanParams
	TrackedProducts []string

	GmailUser        string
	GmailAppPassword string
	AlertEmail       string

	DataFile string

	// Supplemental channels; each is skipped when its setting is empty
	// (or "off" for the archive, which has an on-by-default path).
	ArchiveDB     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  []string
	KafkaTopic    string
	OpenAIKey     string
	OpenAIModel   string
}

// FromEnv builds the full configuration from environment variables,
// falling back to the static defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		SearchURL: envString("SEARCH_URL", defaultSearchURL),
		ClientID:  envString("CLIENT_ID", defaultClientID),
		UserID:    envString("USER_ID", defaultUserID),
		FormID:    envString("FORM_ID", defaultFormID),
		LoanParams: LoanParams{
			Occupancy:      "2",   // Primary Residence
			PropertyType:   "115", // Single Family
			LoanPurpose:    "112", // Refinance
			LoanAmount:     envInt("LOAN_AMOUNT", 2249000),
			EstimatedValue: envInt("ESTIMATED_VALUE", 2900000),
			State:          envString("STATE", "59"), // 59 = California
			Zipcode:        envString("ZIPCODE", "94404"),
			CreditScore:    "780",
		},
		TrackedProducts:  envList("TRACKED_PRODUCTS", []string{"30 Yr Fixed", "7 Year ARM"}),
		GmailUser:        os.Getenv("GMAIL_USER"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		AlertEmail:       os.Getenv("ALERT_EMAIL"),
		DataFile:         envString("DATA_FILE", defaultDataFile),
		ArchiveDB:        envString("ARCHIVE_DB", defaultArchiveDB),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		KafkaBrokers:     envList("KAFKA_BROKERS", nil),
		KafkaTopic:       envString("RATES_KAFKA_TOPIC", "mortgage.rate.snapshots"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      os.Getenv("OPENAI_MODEL"),
	}
	if strings.EqualFold(cfg.ArchiveDB, "off") {
		cfg.ArchiveDB = ""
	}
	return cfg
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
