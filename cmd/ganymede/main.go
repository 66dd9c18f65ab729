// Ganymede is a secret-caching agent and client library.
//
// It fetches secrets from a configured backend (Vault, AWS Secrets Manager,
// files, or a static map), caches them with a TTL, refreshes them in the
// background, and serves stale values when the backend is unavailable.
//
// Usage:
//
//	# Start the agent with default configuration
//	ganymede run
//
//	# Start with custom configuration file
//	ganymede run --config /path/to/config.yaml
//
//	# Fetch a single secret and print it
//	ganymede get db.password
//
//	# Validate a configuration file
//	ganymede validate
//
//	# Query the audit trail
//	ganymede audit query --key db.password --limit 10
package main

func main() {
	Execute()
}
