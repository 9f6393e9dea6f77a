// Package config handles configuration loading for paperchat-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${PAPERCHAT_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "30m"
//	upstream:
//	  timeout: "60s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8000"
//
// Database:
//
//	database:
//	  path: "/var/lib/paperchat/gateway.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${PAPERCHAT_JWT_SECRET}"  # Required
//	  token_ttl: "30m"
//	  bcrypt_cost: 10
//
// Upstream document-index/QA backend:
//
//	upstream:
//	  base_url: "http://localhost:9000"
//	  timeout: "60s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/paperchat/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
