// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command hashkey prints the bcrypt hash of an admin API key for use as
// ADMIN_API_KEY_HASH.
//
// Usage:
//
//	hashkey -key <plain text key>
//	echo -n <plain text key> | hashkey
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/taibuivan/movies/internal/platform/sec"
)

func main() {
	key := flag.String("key", "", "plain text API key (read from stdin when empty)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	plainText := *key
	if plainText == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Error("read key from stdin", slog.Any("error", err))
			os.Exit(1)
		}
		plainText = strings.TrimSpace(line)
	}

	if plainText == "" {
		log.Error("empty API key")
		os.Exit(2)
	}

	hash, err := sec.HashAPIKey(plainText)
	if err != nil {
		log.Error("hash API key", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Println(hash)
}
