/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Environments

The backend is selected through a small fixed table of named
environments (development, production). An explicit base URL overrides
the table:

	balloonboard -e development
	balloonboard -u http://10.0.0.5:5254

# CLI Flags

	-e          Named backend environment
	-u          Backend base URL (overrides -e)
	-n          Operator display name
	-r          Operator role (courier, balloonPrep, accompanier, admin)
	-d          Preference store path (default: balloonboard.db)
	-announce   Send one announcement and exit
	-login      Log in as admin and store the bearer token

# Environment Variables

Flags fall back to environment variables:

	BALLOON_ENV        → -e
	BALLOON_API_URL    → -u
	BALLOON_DB_PATH    → -d
	BALLOON_ADMIN_USER   admin username for -login (env only)
	BALLOON_ADMIN_PASS   admin password for -login (env only)

CLI flags take precedence over environment variables.
*/
package cliparse
