// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package common holds the ambient pieces every other package in this
// daemon shares: build version strings, the global structured logger,
// and a mockable clock, matching how the original lightwalletd server
// carried these same concerns.
package common

import (
	"time"

	"github.com/sirupsen/logrus"
)

// 'make build' will overwrite these with the output of git-describe (tag)
var (
	Version   = "v0.0.0.0-dev"
	GitCommit = ""
	Branch    = ""
	BuildDate = ""
	BuildUser = ""
)

// Options is the daemon's resolved configuration, populated by cmd/walletd
// from cobra flags bound through viper (see spec.md §6).
type Options struct {
	HTTPBindAddr   string        `json:"http_bind_address,omitempty"`
	DBPath         string        `json:"db_path"`
	Confirmations  uint32        `json:"confirmations"`
	LwdURL         string        `json:"lwd_url"`
	LwdTLS         bool          `json:"lwd_tls"`
	NotifyTxURL    string        `json:"notify_tx_url,omitempty"`
	PollInterval   time.Duration `json:"poll_interval"`
	Regtest        bool          `json:"regtest"`
	Orchard        bool          `json:"orchard"`
	UFVK           string        `json:"vk"`
	BirthHeight    uint32        `json:"birth_height"`
	LogLevel       uint32        `json:"log_level,omitempty"`
	LogFile        string        `json:"log_file,omitempty"`
}

// Time allows time-related functions to be mocked for testing, so that
// tests can be deterministic and so they don't require real time to
// elapse. In production these point to the standard library `time`
// functions; in unit tests they point to mock functions.
var Time struct {
	Sleep func(d time.Duration)
	Now   func() time.Time
}

func init() {
	Time.Sleep = time.Sleep
	Time.Now = time.Now
}

// Log as a global variable simplifies logging. It defaults to the
// standard logrus logger; cmd replaces it with the configured one.
var Log = logrus.NewEntry(logrus.StandardLogger())
