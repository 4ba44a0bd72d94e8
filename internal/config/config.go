package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // loads a local .env file in development
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The point bonus fields deliberately live
// here rather than as constants: the exact values are tuning knobs that
// differ between deployments, not invariants.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	UploadDir      string // directory for stored item images
	UploadBaseURL  string // URL path prefix under which images are served

	ApprovalBonus      int64 // points credited to the uploader when an item is approved
	SwapOwnerBonus     int64 // points credited to the item owner on swap acceptance
	SwapRequesterBonus int64 // points credited to the requester on swap acceptance
	DefaultRedeemCost  int64 // redemption cost for items approved without a point value
}

// Load reads configuration values from environment variables and
// returns a Config. A .env file is loaded first when present so local
// development does not need exported variables. Required variables are
// enforced by must() and missing values cause the program to exit with
// a fatal log message.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		UploadDir:      envStr("UPLOAD_DIR", "uploads"),
		UploadBaseURL:  envStr("UPLOAD_BASE_URL", "/uploads"),

		ApprovalBonus:      int64(envInt("APPROVAL_BONUS_POINTS", 25)),
		SwapOwnerBonus:     int64(envInt("SWAP_OWNER_BONUS_POINTS", 50)),
		SwapRequesterBonus: int64(envInt("SWAP_REQUESTER_BONUS_POINTS", 25)),
		DefaultRedeemCost:  int64(envInt("DEFAULT_REDEEM_COST", 75)),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
