// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppDataDir returns an operating system specific directory to be used for
// storing application data for an application, mirroring the directory
// convention used throughout the corpus for per-user config and log files.
// Its own defining file wasn't present in the retrieval pack; the shape
// below is the standard btcsuite-lineage one.
func AppDataDir(appName string, roaming bool) string {
	if appName == "" || appName == "." {
		return "."
	}

	if appName[0] == '.' {
		appName = appName[1:]
	}
	appNameUpper := string(append([]byte{}, appName...))
	appNameLower := appNameUpper

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if roaming {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, appNameUpper)
		}

	case "darwin":
		if homeDir := os.Getenv("HOME"); homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support", appNameUpper)
		}

	case "plan9":
		if homeDir := os.Getenv("home"); homeDir != "" {
			return filepath.Join(homeDir, appNameLower)
		}

	default:
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			if usr, err := os.UserHomeDir(); err == nil {
				homeDir = usr
			}
		}
		if homeDir != "" {
			return filepath.Join(homeDir, "."+appNameLower)
		}
	}

	return "."
}
