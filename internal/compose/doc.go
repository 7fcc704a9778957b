// Package compose reads the project's docker-compose file and checks that
// it describes the stack dc-scaffold expects.
//
// Only the few fields that affect dc-scaffold are decoded: the top-level
// project name, the service keys, and per-service container_name and
// build context. Everything else in the file is ignored.
package compose
