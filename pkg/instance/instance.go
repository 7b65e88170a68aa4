// Package instance names the running process for lock ownership and logs.
package instance

import (
	"fmt"
	"os"
)

// GetID returns MARKETPLACE_WORKER_ID, else hostname-pid.
func GetID() string {
	if id := os.Getenv("MARKETPLACE_WORKER_ID"); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
