// Package config defines the router configuration model and its
// YAML loading, validation, and file-watching machinery.
//
// Configuration files support environment variable substitution with
// ${VAR} and ${VAR:-default} syntax, and human-readable durations
// ("30s", "1h30m") via the Duration type.
//
// A minimal configuration:
//
//	listener:
//	  address: ""
//	  port: 8080
//	routes:
//	  - path: /users/:id
//	    methods:
//	      GET: getUser
//	      DELETE: deleteUser
//
// Route methods map HTTP verbs to handler names; the server binds
// those names to handler implementations at startup.
package config
