// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the sage application.
//
// This package contains common helper functions used throughout the
// application for string manipulation and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//   - PadRight: display-width aware padding
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
package util
