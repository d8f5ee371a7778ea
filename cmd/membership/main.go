/*
main.go - Membership lifecycle CLI

Runs the same expiration and status rules as the server without a database,
for front-desk checks and support tickets ("why does this client show as
vencido?").
*/
package main

import (
	"os"
	"time"
)

func main() {
	if err := newRootCmd(time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}
