// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Precedence

CLI flags, then environment variables, then the .env file (--env-file,
loaded with godotenv; it never overrides variables already set), then
defaults.

# Flags and Environment Variables

	-p, --port             PORT                      (default 3318)
	-d, --database-url     DATABASE_URL              (required)
	-t, --database-type    DATABASE_TYPE             postgres | sqlite
	--timezone             POLL_TIMEZONE             (default America/Toronto)
	--daily-polls          DAILY_POLL_COUNT          1 or 2
	--advance-interval     ADVANCE_INTERVAL          (default 1m, 0 disables)
	--worldid-app-id       WLD_APP_ID                (required)
	--worldid-action-id    WLD_ACTION_ID_VOTE        (required)
	--worldid-api-key      WLD_API_KEY
	--worldid-endpoint     WLD_VERIFY_ENDPOINT
	--require-orb          REQUIRE_ORB_VERIFICATION
	--verify-timeout       VERIFY_TIMEOUT            (default 10s)
	--admin-token          ADMIN_TOKEN               admin routes off when empty
	--log-salt             LOG_SALT                  (required)
	--log-level            LOG_LEVEL
	--cors-origins         CORS_ORIGINS              comma separated

# Validation

ParseFlags returns an error when a required value is missing, the
timezone does not load, or the daily poll count is not 1 or 2. On success
Config.Location holds the loaded timezone.
*/
package cliparse
